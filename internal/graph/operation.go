// Package graph holds the declarative operation descriptors exchanged with
// the query/mutation execution facility, plus the helpers to consume its
// result streams.
package graph

import "encoding/json"

type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

// Operation is a declarative query or mutation descriptor. Executors send the
// document verbatim; the cache layer keys results by Name plus variables.
type Operation struct {
	Name     string
	Kind     Kind
	Document string
}

// Result is one emission of an executing operation. The first emission with
// Fetching == false is terminal: Data present means success, otherwise the
// operation failed. Stale marks data served from cache past its freshness
// window.
type Result struct {
	Data     json.RawMessage
	Err      error
	Fetching bool
	Stale    bool
}

// RequestPolicy selects how the cache layer treats a query.
type RequestPolicy int

const (
	// CacheFirst serves a cached result when every entity it touched is
	// still fresh, and hits the network otherwise.
	CacheFirst RequestPolicy = iota
	// NetworkOnly always performs the round trip, bypassing any
	// fresh-enough heuristic. Post-mutation refresh paths use this.
	NetworkOnly
)

type RequestOptions struct {
	Policy RequestPolicy
}

type RequestOption func(*RequestOptions)

func WithPolicy(policy RequestPolicy) RequestOption {
	return func(o *RequestOptions) {
		o.Policy = policy
	}
}

// BuildOptions folds a RequestOption list over the defaults.
func BuildOptions(opts []RequestOption) RequestOptions {
	var options RequestOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
