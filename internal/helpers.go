package internal

import "strconv"

// ContextValue returns the value stored under key, or T's zero value.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// QueryInt parses an integer query parameter, falling back to def when the
// parameter is absent, malformed or outside [lo, hi].
func QueryInt(c Context, name string, def, lo, hi int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return def
	}
	return v
}
