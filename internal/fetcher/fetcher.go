// Package fetcher performs single, time-bounded reads of the remote document table.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"facilitydocs/internal/model"
)

// DefaultTimeout bounds one fetch attempt.
const DefaultTimeout = 15 * time.Second

// ErrTimeout is the cause recorded when an attempt outlives its timeout.
var ErrTimeout = errors.New("remote fetch timed out")

// RemoteError reports a failed attempt: a backend error or a timeout.
type RemoteError struct {
	Err     error
	timeout bool
}

func (e *RemoteError) Error() string {
	if e.timeout {
		return "fetch documents: " + ErrTimeout.Error()
	}
	return fmt.Sprintf("fetch documents: %v", e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Timeout reports whether the attempt was abandoned because it took too long.
func (e *RemoteError) Timeout() bool { return e.timeout }

// Source lists every document row, newest upload first.
type Source interface {
	ListByUploadDate(ctx context.Context) ([]model.DocumentRow, error)
}

// Fetcher races one Source call against a timeout.
type Fetcher struct {
	src     Source
	timeout time.Duration
}

// New returns a Fetcher. A non-positive timeout selects DefaultTimeout.
func New(src Source, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{src: src, timeout: timeout}
}

type result struct {
	rows []model.DocumentRow
	err  error
}

// Fetch performs one attempt. When the timeout elapses first the late result is
// dropped and a *RemoteError with Timeout() == true is returned. Cancellation
// of ctx itself is returned as the context cause.
func (f *Fetcher) Fetch(ctx context.Context) ([]model.DocumentRow, error) {
	ctx, span := otel.Tracer("facilitydocs/fetcher").Start(ctx, "documents.fetch")
	defer span.End()

	attemptCtx, cancel := context.WithTimeoutCause(ctx, f.timeout, ErrTimeout)
	defer cancel()

	// Buffered so the goroutine can always deliver and exit after a timeout.
	done := make(chan result, 1)
	go func() {
		rows, err := f.src.ListByUploadDate(attemptCtx)
		done <- result{rows: rows, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if ctx.Err() != nil {
				return nil, context.Cause(ctx)
			}
			if errors.Is(context.Cause(attemptCtx), ErrTimeout) {
				return nil, timedOut(span)
			}
			span.RecordError(r.err)
			span.SetStatus(codes.Error, r.err.Error())
			return nil, &RemoteError{Err: r.err}
		}
		span.SetAttributes(attribute.Int("documents.rows", len(r.rows)))
		return r.rows, nil
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}
		return nil, timedOut(span)
	}
}

func timedOut(span trace.Span) error {
	span.SetStatus(codes.Error, ErrTimeout.Error())
	return &RemoteError{Err: ErrTimeout, timeout: true}
}
