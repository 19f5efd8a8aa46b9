package ops

import (
	"encoding/json"
	"strconv"
)

// Args is the loosely-typed argument bag attached to an operation request.
// It is what arrives from a decoded JSON body or an LLM tool call, so values
// may be float64, string, bool, or json.Number depending on the decoder.
//
// Keys beginning with an underscore are reserved for values injected by the
// server itself (staged file paths and similar); validators skip them and
// they are never accepted from callers.
type Args map[string]any

// Float returns the named value coerced to float64. The second return
// distinguishes "missing" from "present": a present zero is a valid value
// for offset-like fields and must not be folded into the missing case.
func (a Args) Float(key string) (float64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int returns the named value as an int, accepting the numeric encodings
// JSON decoders produce.
func (a Args) Int(key string) (int, bool) {
	f, ok := a.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// String returns the named value if it is a string.
func (a Args) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool returns the named value if it is a bool.
func (a Args) Bool(key string) (bool, bool) {
	v, ok := a[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// StringOr returns the named string or the fallback when absent.
func (a Args) StringOr(key, fallback string) string {
	if s, ok := a.String(key); ok {
		return s
	}
	return fallback
}

// FloatOr returns the named number or the fallback when absent.
func (a Args) FloatOr(key string, fallback float64) float64 {
	if f, ok := a.Float(key); ok {
		return f
	}
	return fallback
}

// Clone returns a shallow copy. Validators normalize into a copy so the
// caller's bag is never mutated.
func (a Args) Clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
