package domain

import "time"

// DateOf календарная дата t (в часовом поясе t) как 00:00 UTC
// Все даты записей и нерабочих дней хранятся в этой форме
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
