package scpi

import (
	"fmt"
	"strings"
)

// SCPI states.
const (
	StateOn  = "ON"
	StateOff = "OFF"
)

// ValToBool converts common instrument inputs to a bool.
//
//	true:  "on", "1", non-zero numbers, true
//	false: "off", "0", zero, false, nil
//
// Strings are compared case-insensitively; any other string is ErrInvalidValue.
func ValToBool(val any) (bool, error) {
	switch v := val.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case "on", "1":
			return true, nil
		case "off", "0":
			return false, nil
		default:
			return false, fmt.Errorf("%w: %q", ErrInvalidValue, v)
		}
	case int:
		return v != 0, nil
	case int8:
		return v != 0, nil
	case int16:
		return v != 0, nil
	case int32:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case uint:
		return v != 0, nil
	case uint8:
		return v != 0, nil
	case uint16:
		return v != 0, nil
	case uint32:
		return v != 0, nil
	case uint64:
		return v != 0, nil
	case float32:
		return v != 0, nil
	case float64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("%w: %T", ErrInvalidValue, val)
	}
}

// ValToState converts the same inputs as ValToBool to "ON" or "OFF".
func ValToState(val any) (string, error) {
	state, err := ValToBool(val)
	if err != nil {
		return "", err
	}

	if state {
		return StateOn, nil
	}

	return StateOff, nil
}
