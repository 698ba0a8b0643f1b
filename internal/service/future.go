package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/Brownie44l1/kasgo/internal/transport"
	"go.uber.org/zap"
)

// ==============================================
// RESULT
// ==============================================

// ResultKind tells how an operation finished.
type ResultKind int

const (
	// ResultOK carries the decoded response in Data.
	ResultOK ResultKind = iota
	// ResultRemoteError carries the remote service's {code, message} in Remote.
	ResultRemoteError
	// ResultTransportFailure carries the failure in Err.
	ResultTransportFailure
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultRemoteError:
		return "remote_error"
	case ResultTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Result is the single outcome of an operation.
type Result[T any] struct {
	Kind   ResultKind
	Data   T
	Remote *models.RemoteError
	Err    error
	Raw    *transport.Response
}

// Value is what the operation resolved with: Data, or Remote for an
// application error. It is the data argument handed to a Completion.
func (r Result[T]) Value() any {
	if r.Kind == ResultRemoteError {
		return r.Remote
	}
	if r.Kind == ResultTransportFailure {
		return nil
	}
	return r.Data
}

func classify[T any](data T, raw *transport.Response, err error) Result[T] {
	if err == nil {
		return Result[T]{Kind: ResultOK, Data: data, Raw: raw}
	}
	var remote *models.RemoteError
	if errors.As(err, &remote) {
		return Result[T]{Kind: ResultRemoteError, Data: data, Remote: remote, Raw: raw}
	}
	return Result[T]{Kind: ResultTransportFailure, Err: err, Raw: raw}
}

// ==============================================
// FUTURE
// ==============================================

// Completion is the callback form of an operation's outcome. err is set only
// for transport failures; data is Result.Value().
type Completion func(err error, data any, raw *transport.Response)

// Future completes exactly once with the Result of an operation.
type Future[T any] struct {
	once   sync.Once
	done   chan struct{}
	mu     sync.Mutex
	closed bool
	result Result[T]
	hooks  []func(Result[T])
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the operation finishes or ctx ends. Remote error
// payloads resolve normally and are reported through Result.Kind; only a
// transport failure is returned as the error.
func (f *Future[T]) Await(ctx context.Context) (Result[T], error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	}
	if f.result.Kind == ResultTransportFailure {
		return f.result, f.result.Err
	}
	return f.result, nil
}

// Result returns the outcome without blocking; ok is false while pending.
func (f *Future[T]) Result() (Result[T], bool) {
	select {
	case <-f.done:
		return f.result, true
	default:
		return Result[T]{}, false
	}
}

// OnComplete registers fn to run with the result. It runs immediately when
// the future already finished.
func (f *Future[T]) OnComplete(fn func(Result[T])) {
	f.mu.Lock()
	if !f.closed {
		f.hooks = append(f.hooks, fn)
		f.mu.Unlock()
		return
	}
	r := f.result
	f.mu.Unlock()
	fn(r)
}

// complete runs the completion, then the hooks, then marks the future done.
func (f *Future[T]) complete(r Result[T], cb Completion) {
	f.once.Do(func() {
		if cb != nil {
			cb(r.Err, r.Value(), r.Raw)
		}

		f.mu.Lock()
		f.result = r
		f.closed = true
		hooks := f.hooks
		f.hooks = nil
		f.mu.Unlock()

		for _, h := range hooks {
			h(r)
		}
		close(f.done)
	})
}

// ==============================================
// EXECUTION
// ==============================================

// run starts call in the background and returns its future.
func run[T any](ctx context.Context, log *zap.Logger, op string, cb Completion, call func(ctx context.Context) (T, *transport.Response, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		start := time.Now()
		log.Debug("operation started", zap.String("op", op))

		data, raw, err := call(ctx)
		r := classify(data, raw, err)

		fields := []zap.Field{
			zap.String("op", op),
			zap.Stringer("result", r.Kind),
			zap.Duration("elapsed", time.Since(start)),
		}
		switch r.Kind {
		case ResultRemoteError:
			fields = append(fields, zap.Int("code", r.Remote.Code), zap.String("message", r.Remote.Message))
		case ResultTransportFailure:
			fields = append(fields, zap.Error(r.Err))
		}
		log.Debug("operation finished", fields...)

		f.complete(r, cb)
	}()
	return f
}
