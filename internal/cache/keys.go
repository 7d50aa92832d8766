package cache

import (
	"encoding/json"
	"strings"
)

// AggregateTypeName is the API typename of aggregate ingredient entities.
const AggregateTypeName = "AggregateIngredient"

// DefaultConfig returns the identity-resolution table for the API schema.
//
// Most entities key on their id field (the default rule). ProviderInfo keys
// on the provider enum value, shared across all products of that provider.
// Sale categories key on a provider+name+id composite because the upstream
// id alone is not globally unique. Quantities, price breakdowns and product
// decorators are equal-by-value shapes; caching them by accidental shared
// structure would leak state between unrelated products, so they are
// value-only.
func DefaultConfig() Config {
	return Config{
		Keys: map[string]KeyFunc{
			"ProviderInfo": func(fields map[string]any) (string, bool) {
				provider, ok := fields["provider"].(string)
				return provider, ok && provider != ""
			},
			"WggSaleCategory": saleCategoryKey,
		},
		ValueOnly: []string{
			"UnitQuantity",
			"UnitPrice",
			"PriceInfo",
			"CartTally",
			"Description",
			"FreshLabel",
			"MoreButton",
			"NumberOfServings",
			"PrepTime",
			"SaleDescription",
			"SaleLabel",
			"SaleValidity",
			"UnavailableItem",
		},
	}
}

func saleCategoryKey(fields map[string]any) (string, bool) {
	id, ok := ScalarKey(fields["id"])
	if !ok {
		return "", false
	}
	name, _ := fields["name"].(string)

	var provider string
	if info, ok := fields["providerInfo"].(map[string]any); ok {
		provider, _ = info["provider"].(string)
	}
	if provider == "" && name == "" {
		return "", false
	}

	return strings.Join([]string{provider, name, id}, "|"), true
}

// InvalidateDeletedAggregates is the effect hook for the aggregate delete
// mutation: the response only reports a count, so each deleted entity is
// invalidated from the mutation's id arguments instead.
func InvalidateDeletedAggregates(store *Store, vars map[string]any, _ json.RawMessage) {
	ids, ok := vars["ids"]
	if !ok {
		return
	}

	switch list := ids.(type) {
	case []any:
		for _, id := range list {
			if key, ok := ScalarKey(id); ok {
				store.Invalidate(AggregateTypeName, key)
			}
		}
	case []int64:
		for _, id := range list {
			if key, ok := ScalarKey(id); ok {
				store.Invalidate(AggregateTypeName, key)
			}
		}
	}
}
