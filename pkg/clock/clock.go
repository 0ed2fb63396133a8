package clock

import "time"

// Clock возвращает текущее время в часовом поясе сервиса
// Календарные расчеты (сегодня, прошедшие слоты) зависят от пояса, поэтому он задается явно
type Clock struct {
	loc *time.Location
}

// New создает часы для указанного пояса (nil - UTC)
func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc}
}

// Now возвращает текущее время
func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location часовой пояс часов
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Fixed часы, которые всегда возвращают одно и то же время (для тестов и CLI)
type Fixed struct {
	T time.Time
}

// Now возвращает зафиксированное время
func (f Fixed) Now() time.Time {
	return f.T
}
