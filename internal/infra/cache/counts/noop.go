package counts

import "context"

// Noop кеш, который ничего не хранит (Redis не настроен)
type Noop struct{}

// Get всегда промах
func (Noop) Get(context.Context, string, string) (map[string]int, int64, bool, error) {
	return nil, 0, false, nil
}

// Set ничего не делает
func (Noop) Set(context.Context, string, string, int64, map[string]int) error {
	return nil
}

// Invalidate ничего не делает
func (Noop) Invalidate(context.Context) error {
	return nil
}
