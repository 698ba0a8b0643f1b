package service

import (
	"errors"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/models"
)

// argCheck validates operation arguments in parameter order. The first
// failure sticks and later checks are skipped.
type argCheck struct {
	op  string
	err error
}

func args(op string) *argCheck {
	return &argCheck{op: op}
}

func (c *argCheck) fail(field string, err error) *argCheck {
	c.err = &models.ValidationError{Object: c.op, Field: field, Reason: err.Error(), Err: err}
	return c
}

func (c *argCheck) parse(field string, v any, parse dto.ParseFunc) *argCheck {
	if c.err != nil {
		return c
	}
	if _, err := parse(v); err != nil {
		return c.fail(field, err)
	}
	return c
}

func (c *argCheck) contract(v string) *argCheck {
	return c.parse("addressOrAlias", v, dto.AddressOrAlias)
}

func (c *argCheck) address(field, v string) *argCheck {
	return c.parse(field, v, dto.Address)
}

func (c *argCheck) alias(field, v string) *argCheck {
	return c.parse(field, v, dto.Alias)
}

func (c *argCheck) nonEmpty(field, v string) *argCheck {
	return c.parse(field, v, dto.NonEmptyString)
}

func (c *argCheck) txHash(field, v string) *argCheck {
	return c.parse(field, v, dto.TxHash)
}

func (c *argCheck) intRange(field string, v int, min, max int64) *argCheck {
	return c.parse(field, v, dto.IntRange(min, max))
}

// quantity normalizes v to hex into out.
func (c *argCheck) quantity(field string, v any, out *string) *argCheck {
	if c.err != nil {
		return c
	}
	h, err := dto.ToHex(v)
	if err != nil {
		return c.fail(field, err)
	}
	*out = h
	return c
}

// query builds query options from plain and checks them against allowed.
func (c *argCheck) query(plain dto.Object, out *dto.QueryOptions, allowed ...string) *argCheck {
	if c.err != nil {
		return c
	}
	opts, err := dto.NewQueryOptions(plain)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.err = verr
			return c
		}
		return c.fail("options", err)
	}
	if !opts.IsValidOptions(allowed...) {
		c.err = models.InvalidQueryOptions(c.op, allowed)
		return c
	}
	*out = opts
	return c
}

func (c *argCheck) check(ok bool, field string, err error) *argCheck {
	if c.err != nil || ok {
		return c
	}
	return c.fail(field, err)
}

func (c *argCheck) done() error {
	return c.err
}
