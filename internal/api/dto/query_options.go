package dto

import (
	"strconv"
	"strings"
)

// Query option keys
const (
	OptSize            = "size"
	OptCursor          = "cursor"
	OptStatus          = "status"
	OptKind            = "kind"
	OptRange           = "range"
	OptCAFilter        = "caFilter"
	OptFromTimestamp   = "fromTimestamp"
	OptToTimestamp     = "toTimestamp"
	OptExcludeZeroKlay = "excludeZeroKlay"
)

// Status values accepted by list endpoints
var QueryStatuses = []string{"all", "active", "inactive", "deleted", "deployed", "deploying", "failed", "pending"}

// Transfer kinds accepted by history endpoints
var TransferKinds = []string{"klay", "ft", "nft", "mt"}

// MaxQuerySize is the largest page the remote service serves.
const MaxQuerySize = 1000

var queryOptionsSchema = NewStrictSchema("queryOptions",
	Field{OptSize, IntRange(1, MaxQuerySize)},
	Field{OptCursor, String},
	Field{OptStatus, Enum(QueryStatuses...)},
	Field{OptKind, EnumList(TransferKinds...)},
	Field{OptRange, BlockRange},
	Field{OptCAFilter, Address},
	Field{OptFromTimestamp, Timestamp},
	Field{OptToTimestamp, Timestamp},
	Field{OptExcludeZeroKlay, Bool},
)

// QueryOptions carries pagination and filter parameters shared by list and
// search endpoints. Each endpoint narrows the accepted fields with
// IsValidOptions. The zero value means "no options".
type QueryOptions struct {
	Record
}

// NewQueryOptions builds options from a plain object. Unknown keys fail.
func NewQueryOptions(plain Object) (QueryOptions, error) {
	r, err := queryOptionsSchema.Construct(plain)
	if err != nil {
		return QueryOptions{}, err
	}
	return QueryOptions{Record: r}, nil
}

// IsValidOptions reports whether every set field is in allowed.
func (q QueryOptions) IsValidOptions(allowed ...string) bool {
	for key := range q.values {
		ok := false
		for _, a := range allowed {
			if a == key {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// Size returns the page size when set.
func (q QueryOptions) Size() (int, bool) {
	n, ok := q.values[OptSize].(int)
	return n, ok
}

// Cursor returns the pagination cursor, "" when unset.
func (q QueryOptions) Cursor() string {
	return q.String(OptCursor)
}

// Status returns the lowercased status filter, "" when unset.
func (q QueryOptions) Status() string {
	return q.String(OptStatus)
}

// WithCursor returns a copy pointing at cursor; an empty cursor clears it.
func (q QueryOptions) WithCursor(cursor string) QueryOptions {
	r := q.Record
	if r.schema == nil {
		r.schema = queryOptionsSchema
	}
	if cursor == "" {
		return QueryOptions{Record: r.with(OptCursor, nil)}
	}
	return QueryOptions{Record: r.with(OptCursor, cursor)}
}

// QueryParams renders the set fields as query string values.
func (q QueryOptions) QueryParams() map[string]string {
	params := make(map[string]string, len(q.values))
	for key, v := range q.values {
		switch t := v.(type) {
		case string:
			params[key] = t
		case int:
			params[key] = strconv.Itoa(t)
		case int64:
			params[key] = strconv.FormatInt(t, 10)
		case bool:
			params[key] = strconv.FormatBool(t)
		case []string:
			params[key] = strings.Join(t, ",")
		}
	}
	return params
}
