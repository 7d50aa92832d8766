package cache

import (
	"context"

	"github.com/pantrylab/pantry/internal/graph"
	"github.com/pantrylab/pantry/internal/port"
)

// Executor decorates a transport executor with the normalized cache. Queries
// honour the request policy; mutations always hit the transport, then write
// their payload through the cache and run registered effect hooks.
type Executor struct {
	store *Store
	next  port.Executor
}

func NewExecutor(store *Store, next port.Executor) *Executor {
	return &Executor{store: store, next: next}
}

func (e *Executor) Execute(ctx context.Context, op graph.Operation, vars map[string]any, opts ...graph.RequestOption) <-chan graph.Result {
	if op.Kind == graph.KindMutation {
		return e.executeMutation(ctx, op, vars, opts)
	}
	return e.executeQuery(ctx, op, vars, opts)
}

func (e *Executor) executeQuery(ctx context.Context, op graph.Operation, vars map[string]any, opts []graph.RequestOption) <-chan graph.Result {
	options := graph.BuildOptions(opts)
	resultKey := ResultKey(op.Name, vars)

	if options.Policy == graph.CacheFirst {
		if data, ok := e.store.LookupResult(resultKey); ok {
			out := make(chan graph.Result, 1)
			out <- graph.Result{Data: data}
			close(out)
			return out
		}
	}

	out := make(chan graph.Result, 2)
	go func() {
		defer close(out)
		for r := range e.next.Execute(ctx, op, vars, opts...) {
			if !r.Fetching && r.Err == nil && r.Data != nil {
				touched := e.store.Write(r.Data)
				e.store.StoreResult(resultKey, r.Data, touched)
			}
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (e *Executor) executeMutation(ctx context.Context, op graph.Operation, vars map[string]any, opts []graph.RequestOption) <-chan graph.Result {
	out := make(chan graph.Result, 2)
	go func() {
		defer close(out)
		for r := range e.next.Execute(ctx, op, vars, opts...) {
			if !r.Fetching && r.Err == nil && r.Data != nil {
				e.store.Write(r.Data)
				e.store.RunEffects(op.Name, vars, r.Data)
			}
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
