package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/pantrylab/pantry/internal/core/domain"
	"github.com/pantrylab/pantry/internal/graph"
	"github.com/pantrylab/pantry/internal/platform/errors"
)

func TestCatalogService_Promotions(t *testing.T) {
	exec := newMockExecutor()
	svc := NewCatalogService(exec)

	exec.handle(graph.FilteredPromotionsQuery.Name, func(vars map[string]any) (json.RawMessage, error) {
		if vars["provider"] != "JUMBO" {
			return nil, fmt.Errorf("unexpected provider %v", vars["provider"])
		}
		return json.RawMessage(`{"proPromotions": [
			{
				"id": "sale-1",
				"name": "Weekly deals",
				"providerInfo": {"provider": "JUMBO", "logoUrl": "/jumbo.svg"},
				"limitedItems": [
					{"id": "498518PAK", "name": "milk", "displayPrice": 99, "fullPrice": 129,
					 "available": true, "unitQuantity": {"unit": "LITER", "amount": 1},
					 "providerInfo": {"provider": "JUMBO", "logoUrl": "/jumbo.svg"}}
				]
			}
		]}`), nil
	})

	categories, err := svc.Promotions(context.Background(), domain.ProviderJumbo)
	if err != nil {
		t.Fatalf("Promotions: %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("Promotions returned %d categories, want 1", len(categories))
	}
	if categories[0].Name != "Weekly deals" || categories[0].ProviderInfo.Provider != domain.ProviderJumbo {
		t.Errorf("category = %+v", categories[0])
	}
	if len(categories[0].LimitedItems) != 1 || categories[0].LimitedItems[0].ID != "498518PAK" {
		t.Errorf("limited items = %+v", categories[0].LimitedItems)
	}
}

func TestCatalogService_Product(t *testing.T) {
	exec := newMockExecutor()
	svc := NewCatalogService(exec)

	exec.handle(graph.FullProductQuery.Name, func(vars map[string]any) (json.RawMessage, error) {
		return json.RawMessage(`{"proProduct": {
			"id": "498518PAK",
			"name": "halfvolle melk",
			"available": true,
			"priceInfo": {"displayPrice": 99, "originalPrice": 129, "unitPrice": {"unit": "LITER", "price": 99}},
			"unitQuantity": {"unit": "LITER", "amount": 1},
			"providerInfo": {"provider": "JUMBO", "logoUrl": "/jumbo.svg"}
		}}`), nil
	})

	product, err := svc.Product(context.Background(), domain.ProviderJumbo, "498518PAK")
	if err != nil {
		t.Fatalf("Product: %v", err)
	}
	if product.Name != "halfvolle melk" {
		t.Errorf("Name = %q", product.Name)
	}
	if product.PriceInfo.DisplayPriceCents != 99 || product.PriceInfo.UnitPrice == nil {
		t.Errorf("PriceInfo = %+v", product.PriceInfo)
	}
}

func TestCatalogService_ProductNotFound(t *testing.T) {
	exec := newMockExecutor()
	svc := NewCatalogService(exec)

	exec.handle(graph.FullProductQuery.Name, func(vars map[string]any) (json.RawMessage, error) {
		return json.RawMessage(`{"proProduct": null}`), nil
	})

	_, err := svc.Product(context.Background(), domain.ProviderJumbo, "missing")
	if err == nil {
		t.Fatal("expected an error for an unknown product")
	}
	if !errors.Is(err, errors.New(errors.CodeOperationFailed, "")) {
		t.Errorf("error code mismatch: %v", err)
	}
}
