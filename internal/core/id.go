package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifies a customer or a transaction.
//
// Identifiers reach the dashboard either as JSON numbers or as numeric-looking
// strings. Both forms are canonicalized to the same key so that a numeric id
// and its string spelling compare equal under Equal. StrictEqual additionally
// requires both sides to have been numbers, which is how customer filtering
// matches. A NaN id stands for a malformed selection and equals nothing.
type ID struct {
	key    string
	number bool
	nan    bool
}

// NewID returns a numeric identifier.
func NewID(n int64) ID {
	return ID{key: strconv.FormatInt(n, 10), number: true}
}

// NumberID returns a numeric identifier from a float, as decoded from JSON.
func NumberID(f float64) ID {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NaNID()
	}
	return ID{key: formatNumber(f), number: true}
}

// ParseID canonicalizes a textual identifier. Numeric text is rewritten to
// its canonical numeric spelling, so " 7", "7.0" and "7" share a key.
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if f, ok := parseNumber(s); ok {
		return ID{key: formatNumber(f)}
	}
	return ID{key: s}
}

// RestoreID rebuilds an ID from its stored key and origin flag.
func RestoreID(key string, number bool) ID {
	if !number {
		return ParseID(key)
	}
	f, ok := parseNumber(strings.TrimSpace(key))
	if !ok {
		return NaNID()
	}
	return NumberID(f)
}

// NaNID returns the identifier produced by malformed numeric input.
func NaNID() ID {
	return ID{number: true, nan: true}
}

// IsNaN reports whether the id came from malformed numeric input.
func (id ID) IsNaN() bool { return id.nan }

// IsNumber reports whether the id was decoded from a number.
func (id ID) IsNumber() bool { return id.number }

// Key returns the canonical key. It is empty for NaN ids.
func (id ID) Key() string { return id.key }

func (id ID) String() string {
	if id.nan {
		return "NaN"
	}
	return id.key
}

// Equal compares two ids loosely: numeric and numeric-string spellings of
// the same value are equal. NaN never equals anything, itself included.
func (id ID) Equal(other ID) bool {
	if id.nan || other.nan {
		return false
	}
	return id.key == other.key
}

// StrictEqual is Equal restricted to ids that were both numbers.
func (id ID) StrictEqual(other ID) bool {
	return id.number && other.number && id.Equal(other)
}

func (id ID) MarshalJSON() ([]byte, error) {
	switch {
	case id.nan:
		return []byte("null"), nil
	case id.number:
		return []byte(id.key), nil
	default:
		return json.Marshal(id.key)
	}
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ID{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id %s: %w", b, err)
		}
		*id = ParseID(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("decode id %s: %w", b, err)
	}
	*id = NumberID(f)
	return nil
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatNumber(f float64) string {
	if f == 0 {
		f = 0 // fold -0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
