package service

import (
	"context"
	"encoding/json"

	"github.com/pantrylab/pantry/internal/core/domain"
	"github.com/pantrylab/pantry/internal/graph"
	"github.com/pantrylab/pantry/internal/platform/errors"
	"github.com/pantrylab/pantry/internal/port"
)

// AggregateService lists and deletes the viewer's aggregate ingredients.
// Deletion only returns a count, so the executor's cache layer must have the
// delete-effect hook registered to invalidate the removed entities; see
// cache.InvalidateDeletedAggregates.
type AggregateService struct {
	exec  port.Executor
	prefs *PreferenceStore
}

func NewAggregateService(exec port.Executor, prefs *PreferenceStore) *AggregateService {
	return &AggregateService{exec: exec, prefs: prefs}
}

// List returns all aggregate ingredients owned by the viewer, priced with
// the preferred aggregation mode.
func (s *AggregateService) List(ctx context.Context) ([]domain.Aggregate, error) {
	vars := map[string]any{"price": string(s.prefs.Get().AggregateDisplayPrice)}

	result, err := graph.Await(ctx, s.exec.Execute(ctx, graph.AggregateIngredientsQuery, vars))
	if err != nil {
		return nil, errors.Wrap(errors.CodeOperationFailed, "list aggregates", err)
	}

	var payload struct {
		AggregateIngredients []domain.Aggregate `json:"aggregateIngredients"`
	}
	if err := json.Unmarshal(result.Data, &payload); err != nil {
		return nil, errors.Wrap(errors.CodeOperationFailed, "decode aggregates", err)
	}

	return payload.AggregateIngredients, nil
}

// Delete removes the given aggregates and returns how many the server
// deleted.
func (s *AggregateService) Delete(ctx context.Context, ids []int64) (int, error) {
	vars := map[string]any{"ids": ids}

	result, err := graph.Await(ctx, s.exec.Execute(ctx, graph.DeleteAggregates, vars))
	if err != nil {
		return 0, errors.Wrap(errors.CodeOperationFailed, "delete aggregates", err)
	}

	var payload struct {
		AggregateDelete struct {
			Deleted int `json:"deleted"`
		} `json:"aggregateDelete"`
	}
	if err := json.Unmarshal(result.Data, &payload); err != nil {
		return 0, errors.Wrap(errors.CodeOperationFailed, "decode aggregate delete", err)
	}

	return payload.AggregateDelete.Deleted, nil
}
