package graph

import (
	"context"
	"errors"
)

var (
	// ErrNoData marks a terminal emission that carried neither data nor a
	// transport error.
	ErrNoData = errors.New("operation settled without data")

	// ErrStreamClosed marks a result stream that closed before any terminal
	// emission arrived.
	ErrStreamClosed = errors.New("result stream closed before settling")
)

// Await consumes a result stream until its first terminal emission and
// returns that emission's outcome. Emissions with Fetching set are skipped.
// Each call performs exactly one reconciliation; the stream is not retained
// afterwards.
func Await(ctx context.Context, results <-chan Result) (Result, error) {
	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case r, ok := <-results:
			if !ok {
				return Result{}, ErrStreamClosed
			}
			if r.Fetching {
				continue
			}
			if r.Err != nil {
				return r, r.Err
			}
			if r.Data == nil {
				return r, ErrNoData
			}
			return r, nil
		}
	}
}
