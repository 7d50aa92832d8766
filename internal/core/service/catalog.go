package service

import (
	"context"
	"encoding/json"

	"github.com/pantrylab/pantry/internal/core/domain"
	"github.com/pantrylab/pantry/internal/graph"
	"github.com/pantrylab/pantry/internal/platform/errors"
	"github.com/pantrylab/pantry/internal/port"
)

// CatalogService reads provider catalog data: sale categories and full
// product details. Both are provider-scoped; callers resolve the provider
// via VerifyProvider first.
type CatalogService struct {
	exec port.Executor
}

func NewCatalogService(exec port.Executor) *CatalogService {
	return &CatalogService{exec: exec}
}

// Promotions returns the provider's current sale categories.
func (s *CatalogService) Promotions(ctx context.Context, provider domain.Provider) ([]domain.SaleCategory, error) {
	vars := map[string]any{"provider": string(provider)}

	result, err := graph.Await(ctx, s.exec.Execute(ctx, graph.FilteredPromotionsQuery, vars))
	if err != nil {
		return nil, errors.Wrap(errors.CodeOperationFailed, "list promotions", err)
	}

	var payload struct {
		ProPromotions []domain.SaleCategory `json:"proPromotions"`
	}
	if err := json.Unmarshal(result.Data, &payload); err != nil {
		return nil, errors.Wrap(errors.CodeOperationFailed, "decode promotions", err)
	}

	return payload.ProPromotions, nil
}

// Product returns the full detail view of a single provider product.
func (s *CatalogService) Product(ctx context.Context, provider domain.Provider, productID string) (*domain.FullProduct, error) {
	vars := map[string]any{"provider": string(provider), "productId": productID}

	result, err := graph.Await(ctx, s.exec.Execute(ctx, graph.FullProductQuery, vars))
	if err != nil {
		return nil, errors.Wrap(errors.CodeOperationFailed, "fetch product", err)
	}

	var payload struct {
		ProProduct *domain.FullProduct `json:"proProduct"`
	}
	if err := json.Unmarshal(result.Data, &payload); err != nil {
		return nil, errors.Wrap(errors.CodeOperationFailed, "decode product", err)
	}
	if payload.ProProduct == nil {
		return nil, errors.New(errors.CodeOperationFailed, "product not found: "+productID)
	}

	return payload.ProProduct, nil
}
