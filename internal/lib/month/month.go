// Package month группирует даты по календарным месяцам.
package month

import "time"

// Layout — формат ключа месяца.
const Layout = "2006-01"

// Key возвращает месяц даты t по UTC в виде "YYYY-MM".
// Дата в другом часовом поясе попадает в месяц своего UTC-момента.
func Key(t time.Time) string {
	return t.UTC().Format(Layout)
}
