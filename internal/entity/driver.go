package entity

import (
	"context"
	"time"
)

// Driver — то, что сканер и сценарий ответа умеют делать с живой сессией браузера.
// Селекторы — XPath. Реализация: browser.Service.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	// WaitElement ждёт появления элемента в DOM не дольше timeout.
	WaitElement(ctx context.Context, xpath string, timeout time.Duration) (Element, error)
	// WaitClickable ждёт, пока элемент станет видимым и доступным для клика.
	WaitClickable(ctx context.Context, xpath string, timeout time.Duration) (Element, error)
}

// Element — найденный узел DOM.
type Element interface {
	Text(ctx context.Context) (string, error)
	// Attribute returns ok=false when the attribute is absent.
	Attribute(ctx context.Context, name string) (value string, ok bool, err error)
	Children(ctx context.Context, xpath string) ([]Element, error)
	Click(ctx context.Context) error
	// ForceClick активирует элемент программно, минуя hit-testing.
	ForceClick(ctx context.Context) error
	Type(ctx context.Context, text string) error
}
