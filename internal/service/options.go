package service

import (
	"fmt"
	"strings"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/models"
)

// ==============================================
// CALL OPTIONS
// ==============================================

type optionKind int

// The zero kind marks a CallOption not built by a With function.
const (
	optUnset optionKind = iota
	optFrom
	optFeePayer
	optKRN
	optMemo
	optSubmit
	optRPCID
	optCallback
)

var optionNames = map[optionKind]string{
	optFrom:     "from",
	optFeePayer: "feePayer",
	optKRN:      "krn",
	optMemo:     "memo",
	optSubmit:   "submit",
	optRPCID:    "rpcId",
	optCallback: "callback",
}

// CallOption sets an optional input of an operation. Each operation accepts a
// fixed set of options; passing any other is a validation error.
type CallOption struct {
	kind  optionKind
	value any
}

// WithFrom sets the sending account (sender, minter, pauser, owner). Without
// it the remote service uses its default account.
func WithFrom(address string) CallOption {
	return CallOption{kind: optFrom, value: address}
}

// WithFeePayer sets the fee payer options of a contract
// ({enableGlobalFeePayer, userFeePayer: {krn, address}}).
func WithFeePayer(options dto.Object) CallOption {
	return CallOption{kind: optFeePayer, value: options}
}

// WithKRN selects the account pool of a wallet call.
func WithKRN(krn string) CallOption {
	return CallOption{kind: optKRN, value: krn}
}

// WithMemo attaches a memo to a value transfer.
func WithMemo(memo string) CallOption {
	return CallOption{kind: optMemo, value: memo}
}

// WithSubmit decides whether a value transfer is submitted or only signed.
func WithSubmit(submit bool) CallOption {
	return CallOption{kind: optSubmit, value: submit}
}

// WithRPCID sets the JSON-RPC request id. Default 1.
func WithRPCID(id int) CallOption {
	return CallOption{kind: optRPCID, value: id}
}

// WithCallback registers a completion that runs before the future is done.
// Every operation accepts it.
func WithCallback(cb Completion) CallOption {
	return CallOption{kind: optCallback, value: cb}
}

// callOptions is the resolved form. Unset values stay nil so request DTOs omit them.
type callOptions struct {
	from     any
	feePayer any
	krn      string
	memo     any
	submit   any
	rpcID    int
	callback Completion
}

// resolveOptions applies opts in order, later values winning. Options outside
// allowed fail with a ValidationError on "options".
func resolveOptions(op string, opts []CallOption, allowed ...optionKind) (callOptions, error) {
	out := callOptions{rpcID: 1}
	for _, o := range opts {
		if o.kind == optUnset {
			return callOptions{}, optionError(op, "empty option, build it with a With function")
		}
		if o.kind != optCallback && !containsKind(allowed, o.kind) {
			return callOptions{}, optionError(op, fmt.Sprintf("%s is not supported, only [%s]", optionNames[o.kind], kindNames(allowed)))
		}

		ok := true
		switch o.kind {
		case optFrom:
			var addr string
			addr, ok = o.value.(string)
			out.from = nil
			if addr != "" {
				out.from = addr
			}
		case optFeePayer:
			var m dto.Object
			m, ok = o.value.(dto.Object)
			out.feePayer = nil
			if m != nil {
				out.feePayer = m
			}
		case optKRN:
			out.krn, ok = o.value.(string)
		case optMemo:
			out.memo, ok = o.value.(string)
		case optSubmit:
			out.submit, ok = o.value.(bool)
		case optRPCID:
			out.rpcID, ok = o.value.(int)
		case optCallback:
			if o.value != nil {
				out.callback, ok = o.value.(Completion)
			}
		}
		if !ok {
			return callOptions{}, optionError(op, fmt.Sprintf("%s has a %T value", optionNames[o.kind], o.value))
		}
	}
	return out, nil
}

func optionError(op, reason string) error {
	return &models.ValidationError{Object: op, Field: "options", Reason: reason}
}

func containsKind(kinds []optionKind, k optionKind) bool {
	for _, c := range kinds {
		if c == k {
			return true
		}
	}
	return false
}

func kindNames(kinds []optionKind) string {
	names := make([]string, 0, len(kinds)+1)
	for _, k := range kinds {
		names = append(names, optionNames[k])
	}
	names = append(names, optionNames[optCallback])
	return strings.Join(names, ", ")
}
