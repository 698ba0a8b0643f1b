package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeQuantity   = errors.New("must not be negative")
	ErrFractionalQuantity = errors.New("must be a whole number")
	ErrQuantityOverflow   = errors.New("exceeds 256 bits")
	ErrMalformedQuantity  = errors.New("must be a number, a decimal string or a 0x-prefixed hex string")
)

// ToHex normalizes an amount or token id to canonical hex: 0x-prefixed,
// lowercase, no leading zeros. Numbers, decimal strings (exponent form
// included) and hex strings of the same quantity give the same result.
func ToHex(v any) (string, error) {
	n, err := toBig(v)
	if err != nil {
		return "", err
	}
	if n.Sign() < 0 {
		return "", ErrNegativeQuantity
	}
	if _, overflow := uint256.FromBig(n); overflow {
		return "", ErrQuantityOverflow
	}
	return hexutil.EncodeBig(n), nil
}

// HexQuantity is the field parser for amounts and ids.
func HexQuantity(v any) (any, error) {
	return ToHex(v)
}

func toBig(v any) (*big.Int, error) {
	switch t := v.(type) {
	case int:
		return big.NewInt(int64(t)), nil
	case int8:
		return big.NewInt(int64(t)), nil
	case int16:
		return big.NewInt(int64(t)), nil
	case int32:
		return big.NewInt(int64(t)), nil
	case int64:
		return big.NewInt(t), nil
	case uint:
		return new(big.Int).SetUint64(uint64(t)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(t)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(t)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(t)), nil
	case uint64:
		return new(big.Int).SetUint64(t), nil
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case *big.Int:
		if t == nil {
			return nil, ErrMalformedQuantity
		}
		return new(big.Int).Set(t), nil
	case *uint256.Int:
		if t == nil {
			return nil, ErrMalformedQuantity
		}
		return t.ToBig(), nil
	case decimal.Decimal:
		return fromDecimal(t)
	case json.Number:
		return parseQuantity(string(t))
	case string:
		return parseQuantity(t)
	default:
		return nil, fmt.Errorf("%w, got %T", ErrMalformedQuantity, v)
	}
}

func fromFloat(f float64) (*big.Int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, ErrMalformedQuantity
	}
	return fromDecimal(decimal.NewFromFloat(f))
}

func fromDecimal(d decimal.Decimal) (*big.Int, error) {
	if !d.IsInteger() {
		return nil, ErrFractionalQuantity
	}
	return d.BigInt(), nil
}

func parseQuantity(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrMalformedQuantity
	}
	if has0xPrefix(s) {
		n, ok := new(big.Int).SetString(s[2:], 16)
		if !ok || s[2:] == "" {
			return nil, ErrMalformedQuantity
		}
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, ErrMalformedQuantity
	}
	return fromDecimal(d)
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
