package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entity is a loosely typed record as returned by the API. The id key is
// server-assigned and never written by the console.
type Entity map[string]any

// Ref is a nested reference to another entity.
type Ref struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// ID returns the server-assigned identifier, empty until persisted.
func (e Entity) ID() string {
	return e.String("id")
}

// String reads the value at key as a string. Numbers and booleans are
// formatted, missing keys yield "".
func (e Entity) String(key string) string {
	v, ok := e[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		// nested references render by display name
		nested := Entity(t)
		if name := nested.String("display_name"); name != "" {
			return name
		}
		return nested.String("name")
	case Ref:
		return t.DisplayName
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Number reads the value at key as a float64; non-numeric values yield 0.
func (e Entity) Number(key string) float64 {
	switch t := e[key].(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Bool reads the value at key as a boolean.
func (e Entity) Bool(key string) bool {
	switch t := e[key].(type) {
	case bool:
		return t
	case string:
		return t == "true"
	default:
		return false
	}
}

// Date reads the value at key as a date, accepting the two formats the API
// emits (RFC 3339 and plain yyyy-mm-dd).
func (e Entity) Date(key string) (time.Time, bool) {
	raw := e.String(key)
	if raw == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, true
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

// Ref reads a nested reference at key; missing or malformed values yield a
// zero Ref.
func (e Entity) Ref(key string) Ref {
	switch t := e[key].(type) {
	case map[string]any:
		nested := Entity(t)
		name := nested.String("display_name")
		if name == "" {
			name = nested.String("name")
		}
		return Ref{ID: nested.String("id"), DisplayName: name}
	case Ref:
		return t
	default:
		return Ref{}
	}
}

// Clone returns a shallow copy safe to mutate as a form draft.
func (e Entity) Clone() Entity {
	out := make(Entity, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
