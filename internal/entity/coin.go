package entity

import "strings"

// IDPlaceholder — метка в шаблоне URL, которую заменяет ID монеты.
const IDPlaceholder = "{id}"

// Coin — одна запись на доске. Равенство определяется только по ID.
type Coin struct {
	ID          string // стабильный ID, выданный сайтом
	DisplayName string // первая строка текста карточки (может быть сокращена)
	DetailURL   string // страница монеты, где оставляем ответ
}

// DetailURLFor строит адрес страницы монеты по шаблону вида "https://pump.fun/coin/{id}".
func DetailURLFor(template, id string) string {
	return strings.ReplaceAll(template, IDPlaceholder, id)
}
