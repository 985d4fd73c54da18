package browser

// ForceClickScript активирует элемент программно: hit-testing не участвует,
// поэтому работает и под перекрывающими оверлеями.
const ForceClickScript = `() => {
	this.click();
}`
