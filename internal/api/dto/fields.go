package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var aliasPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address.
// Mixed case is accepted as given.
func IsAddress(s string) bool {
	return has0xPrefix(s) && common.IsHexAddress(s)
}

// IsAlias reports whether s is a valid contract alias.
func IsAlias(s string) bool {
	return aliasPattern.MatchString(s)
}

// IsTxHash reports whether s is a 0x-prefixed 32-byte hex hash.
func IsTxHash(s string) bool {
	b, err := hexutil.Decode(s)
	return err == nil && len(b) == common.HashLength
}

// String accepts any string.
func String(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("must be a string, got %T", v)
	}
	return s, nil
}

// NonEmptyString accepts a string with at least one non-space character.
func NonEmptyString(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("must be a string, got %T", v)
	}
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("must not be empty")
	}
	return s, nil
}

// Address accepts a hex address, keeping its case.
func Address(v any) (any, error) {
	s, ok := v.(string)
	if !ok || !IsAddress(s) {
		return nil, fmt.Errorf("must be a 0x-prefixed 20-byte hex address, got %v", v)
	}
	return s, nil
}

// Alias accepts a contract alias.
func Alias(v any) (any, error) {
	s, ok := v.(string)
	if !ok || !IsAlias(s) {
		return nil, fmt.Errorf("must be lowercase letters, digits and hyphens starting with a letter, got %v", v)
	}
	return s, nil
}

// AddressOrAlias accepts either a contract address or an alias.
func AddressOrAlias(v any) (any, error) {
	s, ok := v.(string)
	if !ok || !(IsAddress(s) || IsAlias(s)) {
		return nil, fmt.Errorf("must be a contract address or alias, got %v", v)
	}
	return s, nil
}

// TxHash accepts a transaction hash.
func TxHash(v any) (any, error) {
	s, ok := v.(string)
	if !ok || !IsTxHash(s) {
		return nil, fmt.Errorf("must be a 0x-prefixed 32-byte hex hash, got %v", v)
	}
	return s, nil
}

// Bool accepts a bool.
func Bool(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("must be a boolean, got %T", v)
	}
	return b, nil
}

// IntRange accepts an integer within [min, max].
func IntRange(min, max int64) ParseFunc {
	return func(v any) (any, error) {
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		if n < min || n > max {
			return nil, fmt.Errorf("must be between %d and %d, got %d", min, max, n)
		}
		return int(n), nil
	}
}

// Timestamp accepts unix seconds as an integer or a digit string.
func Timestamp(v any) (any, error) {
	if s, ok := v.(string); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("must be unix seconds, got %q", s)
		}
		return n, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("must be unix seconds, got %d", n)
	}
	return n, nil
}

// Enum accepts any casing of an allowed value and returns it lowercased.
func Enum(allowed ...string) ParseFunc {
	return func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("must be one of [%s], got %T", strings.Join(allowed, ", "), v)
		}
		return enumValue(s, allowed)
	}
}

// EnumList accepts a list of enum values or a comma-separated string.
func EnumList(allowed ...string) ParseFunc {
	return func(v any) (any, error) {
		var raw []string
		switch t := v.(type) {
		case string:
			raw = strings.Split(t, ",")
		case []string:
			raw = t
		case []any:
			raw = make([]string, len(t))
			for i, e := range t {
				s, ok := e.(string)
				if !ok {
					return nil, fmt.Errorf("must hold strings, got %T", e)
				}
				raw[i] = s
			}
		default:
			return nil, fmt.Errorf("must be a list of [%s], got %T", strings.Join(allowed, ", "), v)
		}
		if len(raw) == 0 {
			return nil, errors.New("must not be empty")
		}
		out := make([]string, len(raw))
		for i, s := range raw {
			norm, err := enumValue(strings.TrimSpace(s), allowed)
			if err != nil {
				return nil, err
			}
			out[i] = norm.(string)
		}
		return out, nil
	}
}

// BlockRange accepts "from" or "from,to", each a decimal or hex number.
func BlockRange(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("must be a string range, got %T", v)
	}
	parts := strings.Split(s, ",")
	if len(parts) > 2 {
		return nil, fmt.Errorf("must be \"from\" or \"from,to\", got %q", s)
	}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if _, err := parseQuantity(p); err != nil {
			return nil, fmt.Errorf("bound %q: %w", p, err)
		}
		parts[i] = p
	}
	return strings.Join(parts, ","), nil
}

// Params accepts JSON-RPC positional parameters.
func Params(v any) (any, error) {
	switch t := v.(type) {
	case []any:
		return append([]any(nil), t...), nil
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a list, got %T", v)
	}
}

// Nested accepts an object, or a record built from the same schema.
func Nested(s *Schema) ParseFunc {
	return func(v any) (any, error) {
		switch t := v.(type) {
		case Record:
			if t.schema != s {
				return nil, fmt.Errorf("must be %s", s.name)
			}
			return t, nil
		case map[string]any:
			r, err := s.Construct(t)
			if err != nil {
				return nil, err
			}
			return r, nil
		default:
			return nil, fmt.Errorf("must be an object, got %T", v)
		}
	}
}

func enumValue(s string, allowed []string) (any, error) {
	lower := strings.ToLower(s)
	for _, a := range allowed {
		if lower == a {
			return a, nil
		}
	}
	return nil, fmt.Errorf("must be one of [%s], got %q", strings.Join(allowed, ", "), s)
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint:
		return uintToInt64(uint64(t))
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint64:
		return uintToInt64(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) || t >= 1<<63 || t < -(1<<63) {
			return 0, fmt.Errorf("must be an integer, got %v", t)
		}
		return int64(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, fmt.Errorf("must be an integer, got %q", t.String())
		}
		return n, nil
	default:
		return 0, fmt.Errorf("must be an integer, got %T", v)
	}
}

func uintToInt64(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, fmt.Errorf("must fit in 64 bits, got %d", u)
	}
	return int64(u), nil
}
