package port

import (
	"context"

	"github.com/pantrylab/pantry/internal/graph"
)

type Executor interface {
	// Execute runs an operation and emits results on the returned channel.
	// The first emission with Fetching == false is terminal; the channel is
	// closed afterwards.
	Execute(ctx context.Context, op graph.Operation, vars map[string]any, opts ...graph.RequestOption) <-chan graph.Result
}
