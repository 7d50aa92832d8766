package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pantrylab/pantry/internal/core/domain"
	"github.com/pantrylab/pantry/internal/graph"
	"github.com/pantrylab/pantry/internal/platform/errors"
	"github.com/pantrylab/pantry/internal/port"
)

// CartItem is a closed sum over the three cart content inputs.
type CartItem interface {
	cartItem()
	itemQuantity() int
}

// RawProductItem targets a provider product by its composite identity.
// Product ids are provider-scoped, so the provider is always part of the
// identity, for removal as well as for setting.
type RawProductItem struct {
	Provider  domain.Provider
	ProductID string
	Quantity  int
}

type AggregateItem struct {
	AggregateID int64
	Quantity    int
}

// NoteItem carries free-text cart content. ID is nil when creating a new
// note and set when updating or removing an existing one.
type NoteItem struct {
	ID       *int64
	Content  string
	Quantity int
}

func (i RawProductItem) cartItem()         {}
func (i RawProductItem) itemQuantity() int { return i.Quantity }
func (i AggregateItem) cartItem()          {}
func (i AggregateItem) itemQuantity() int  { return i.Quantity }
func (i NoteItem) cartItem()               {}
func (i NoteItem) itemQuantity() int       { return i.Quantity }

// CartService reconciles the local cart view with the server. It holds the
// last authoritative snapshot and replaces it wholesale with each
// operation's result; concurrent operations settle last-response-wins, which
// is acceptable because the server is authoritative and readers always see
// the latest snapshot.
type CartService struct {
	mu       sync.RWMutex
	exec     port.Executor
	prefs    *PreferenceStore
	notifier port.Notifier
	snapshot *domain.CartSnapshot
}

// NewCartService seeds the service with the session bootstrap cart when
// available, and fetches the current cart otherwise.
func NewCartService(ctx context.Context, exec port.Executor, prefs *PreferenceStore, notifier port.Notifier, seed *domain.CartSnapshot) (*CartService, error) {
	s := &CartService{
		exec:     exec,
		prefs:    prefs,
		notifier: notifier,
		snapshot: seed,
	}

	if seed == nil {
		if err := s.fetch(ctx, graph.CacheFirst); err != nil {
			return nil, fmt.Errorf("seed cart: %w", err)
		}
	}

	return s, nil
}

// Snapshot returns the current authoritative cart view. The snapshot is
// replaced, never mutated, so it is safe to read without further locking.
func (s *CartService) Snapshot() *domain.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// ProductQuantity reports every occurrence of a raw product in the cart,
// direct and indirect.
func (s *CartService) ProductQuantity(provider domain.Provider, productID string) []domain.QuantityInfo {
	return s.Snapshot().ProductQuantity(provider, productID)
}

// AggregateQuantity reports the quantity of an aggregate in the cart.
func (s *CartService) AggregateQuantity(aggregateID int64) (domain.QuantityInfo, bool) {
	return s.Snapshot().AggregateQuantity(aggregateID)
}

// SetCartContent sets the given item's quantity in the cart. A quantity of
// zero removes the item instead: zero-quantity lines are invalid and must
// never exist. Returns the new authoritative snapshot; on failure the prior
// snapshot is returned untouched along with the error.
func (s *CartService) SetCartContent(ctx context.Context, item CartItem) (*domain.CartSnapshot, error) {
	if item.itemQuantity() == 0 {
		return s.RemoveCartContent(ctx, item)
	}

	var input map[string]any
	switch i := item.(type) {
	case RawProductItem:
		input = map[string]any{"rawProduct": map[string]any{
			"provider":  string(i.Provider),
			"productId": i.ProductID,
			"quantity":  i.Quantity,
		}}
	case AggregateItem:
		input = map[string]any{"aggregate": map[string]any{
			"aggregateId": i.AggregateID,
			"quantity":    i.Quantity,
		}}
	case NoteItem:
		note := map[string]any{
			"content":  i.Content,
			"quantity": i.Quantity,
		}
		if i.ID != nil {
			note["id"] = *i.ID
		}
		input = map[string]any{"notes": note}
	default:
		return s.Snapshot(), fmt.Errorf("unsupported cart item %T", item)
	}

	return s.mutate(ctx, graph.SetProductToCart, input)
}

// RemoveCartContent removes the given item from the cart. Removing a line
// that does not exist is a no-op returning the unchanged snapshot.
func (s *CartService) RemoveCartContent(ctx context.Context, item CartItem) (*domain.CartSnapshot, error) {
	var input map[string]any
	switch i := item.(type) {
	case RawProductItem:
		input = map[string]any{"rawProduct": map[string]any{
			"provider":  string(i.Provider),
			"productId": i.ProductID,
		}}
	case AggregateItem:
		input = map[string]any{"aggregate": i.AggregateID}
	case NoteItem:
		if i.ID == nil {
			// A note that was never persisted has nothing to remove.
			return s.Snapshot(), nil
		}
		input = map[string]any{"notes": *i.ID}
	default:
		return s.Snapshot(), fmt.Errorf("unsupported cart item %T", item)
	}

	return s.mutate(ctx, graph.RemoveProductFromCart, input)
}

// RefreshContent forces a network round trip, bypassing the fresh-enough
// cache heuristic, and replaces the snapshot. Used after navigating to the
// cart view to correct for out-of-band changes.
func (s *CartService) RefreshContent(ctx context.Context) (*domain.CartSnapshot, error) {
	if err := s.fetch(ctx, graph.NetworkOnly); err != nil {
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

func (s *CartService) fetch(ctx context.Context, policy graph.RequestPolicy) error {
	vars := map[string]any{"price": string(s.prefs.Get().AggregateDisplayPrice)}

	result, err := graph.Await(ctx, s.exec.Execute(ctx, graph.CartCurrentQuery, vars, graph.WithPolicy(policy)))
	if err != nil {
		s.notifier.Error(err.Error(), "Failed to query API")
		return errors.Wrap(errors.CodeOperationFailed, "fetch cart", err)
	}

	var payload struct {
		CartCurrent domain.CartSnapshot `json:"cartCurrent"`
	}
	if err := json.Unmarshal(result.Data, &payload); err != nil {
		return errors.Wrap(errors.CodeOperationFailed, "decode cart", err)
	}

	s.replace(&payload.CartCurrent)
	return nil
}

func (s *CartService) mutate(ctx context.Context, op graph.Operation, input map[string]any) (*domain.CartSnapshot, error) {
	vars := map[string]any{
		"input": input,
		"price": string(s.prefs.Get().AggregateDisplayPrice),
	}

	result, err := graph.Await(ctx, s.exec.Execute(ctx, op, vars))
	if err != nil {
		s.notifier.Error(err.Error(), "Failed to update cart")
		return s.Snapshot(), errors.Wrap(errors.CodeOperationFailed, "cart mutation", err)
	}

	snapshot, err := decodeCartPayload(op, result.Data)
	if err != nil {
		return s.Snapshot(), errors.Wrap(errors.CodeOperationFailed, "decode cart mutation", err)
	}

	s.replace(snapshot)
	return snapshot, nil
}

func (s *CartService) replace(snapshot *domain.CartSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
}

func decodeCartPayload(op graph.Operation, data json.RawMessage) (*domain.CartSnapshot, error) {
	var payload struct {
		Set *struct {
			Data domain.CartSnapshot `json:"data"`
		} `json:"cartCurrentSetProduct"`
		Remove *struct {
			Data domain.CartSnapshot `json:"data"`
		} `json:"cartCurrentRemoveProduct"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	switch {
	case payload.Set != nil:
		return &payload.Set.Data, nil
	case payload.Remove != nil:
		return &payload.Remove.Data, nil
	default:
		return nil, fmt.Errorf("%s returned no cart payload", op.Name)
	}
}
