package models

import (
	"encoding/json"
	"fmt"
)

// TriState is a boolean read from an attribute that may be missing or hold
// arbitrary text. The zero value is Unknown.
type TriState int

const (
	Unknown TriState = iota
	True
	False
)

// TriStateFromString maps the exact literals "true" and "false"; anything
// else is Unknown.
func TriStateFromString(s string) TriState {
	switch s {
	case "true":
		return True
	case "false":
		return False
	default:
		return Unknown
	}
}

// String returns the string representation of TriState
func (t TriState) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Bool returns the value and whether it is known
func (t TriState) Bool() (value bool, known bool) {
	switch t {
	case True:
		return true, true
	case False:
		return false, true
	default:
		return false, false
	}
}

// MarshalJSON encodes Unknown as null
func (t TriState) MarshalJSON() ([]byte, error) {
	switch t {
	case True:
		return []byte("true"), nil
	case False:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts true, false and null
func (t *TriState) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("invalid tri-state value %s: %w", data, err)
	}
	switch {
	case b == nil:
		*t = Unknown
	case *b:
		*t = True
	default:
		*t = False
	}
	return nil
}

// MarshalYAML encodes Unknown as null
func (t TriState) MarshalYAML() (interface{}, error) {
	if v, ok := t.Bool(); ok {
		return v, nil
	}
	return nil, nil
}
