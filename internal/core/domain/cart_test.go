package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func jumboProduct(id string) SearchProduct {
	return SearchProduct{
		ID:                id,
		Name:              "product " + id,
		DisplayPriceCents: 139,
		Available:         true,
		UnitQuantity:      UnitQuantity{Unit: "GRAM", Amount: 500},
		ProviderInfo:      ProviderInfo{Provider: ProviderJumbo, LogoURL: "/jumbo.svg"},
	}
}

func TestProductQuantity_Direct(t *testing.T) {
	cart := &CartSnapshot{
		ID: 1,
		Contents: []CartLine{
			RawProductLine{ID: 10, Quantity: 2, Product: jumboProduct("498518PAK")},
		},
	}

	got := cart.ProductQuantity(ProviderJumbo, "498518PAK")
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Quantity != 2 || got[0].Origin != OriginDirect {
		t.Errorf("expected {2, Direct}, got %+v", got[0])
	}
}

func TestProductQuantity_IndirectUsesAggregateQuantity(t *testing.T) {
	cart := &CartSnapshot{
		ID: 1,
		Contents: []CartLine{
			AggregateLine{
				ID:       11,
				Quantity: 3,
				Aggregate: Aggregate{
					ID:          5,
					Name:        "coffee",
					Ingredients: []SearchProduct{jumboProduct("498518PAK")},
				},
			},
		},
	}

	got := cart.ProductQuantity(ProviderJumbo, "498518PAK")
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	// The aggregate's own quantity, not the constituent count.
	if got[0].Quantity != 3 || got[0].Origin != OriginIndirect {
		t.Errorf("expected {3, Indirect}, got %+v", got[0])
	}
}

func TestProductQuantity_DirectAndIndirectCoexist(t *testing.T) {
	cart := &CartSnapshot{
		ID: 1,
		Contents: []CartLine{
			RawProductLine{ID: 10, Quantity: 1, Product: jumboProduct("498518PAK")},
			AggregateLine{
				ID:       11,
				Quantity: 4,
				Aggregate: Aggregate{
					ID:          5,
					Ingredients: []SearchProduct{jumboProduct("498518PAK")},
				},
			},
		},
	}

	got := cart.ProductQuantity(ProviderJumbo, "498518PAK")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries (counted separately, never summed), got %d", len(got))
	}
	if got[0].Origin != OriginDirect || got[0].Quantity != 1 {
		t.Errorf("expected first {1, Direct}, got %+v", got[0])
	}
	if got[1].Origin != OriginIndirect || got[1].Quantity != 4 {
		t.Errorf("expected second {4, Indirect}, got %+v", got[1])
	}
}

func TestProductQuantity_ProviderScopedIdentity(t *testing.T) {
	// The same product id from a different provider must not match.
	cart := &CartSnapshot{
		ID: 1,
		Contents: []CartLine{
			RawProductLine{ID: 10, Quantity: 2, Product: jumboProduct("498518PAK")},
		},
	}

	if got := cart.ProductQuantity(ProviderPicnic, "498518PAK"); len(got) != 0 {
		t.Errorf("expected no entries for other provider, got %+v", got)
	}
}

func TestProductQuantity_NotesNeverMatch(t *testing.T) {
	cart := &CartSnapshot{
		ID: 1,
		Contents: []CartLine{
			NoteLine{ID: 12, Quantity: 1, Note: "498518PAK"},
		},
	}

	if got := cart.ProductQuantity(ProviderJumbo, "498518PAK"); len(got) != 0 {
		t.Errorf("expected no entries from note lines, got %+v", got)
	}
}

func TestProductQuantity_NeverZero(t *testing.T) {
	cart := &CartSnapshot{
		ID: 1,
		Contents: []CartLine{
			RawProductLine{ID: 10, Quantity: 2, Product: jumboProduct("a")},
			AggregateLine{ID: 11, Quantity: 1, Aggregate: Aggregate{ID: 5, Ingredients: []SearchProduct{jumboProduct("a")}}},
		},
	}

	for _, info := range cart.ProductQuantity(ProviderJumbo, "a") {
		if info.Quantity == 0 {
			t.Errorf("quantity 0 must never be reported, got %+v", info)
		}
	}
}

func TestProductQuantity_NilSnapshot(t *testing.T) {
	var cart *CartSnapshot
	if got := cart.ProductQuantity(ProviderJumbo, "a"); got != nil {
		t.Errorf("expected nil results on nil snapshot, got %+v", got)
	}
}

func TestAggregateQuantity(t *testing.T) {
	cart := &CartSnapshot{
		ID: 1,
		Contents: []CartLine{
			AggregateLine{ID: 11, Quantity: 2, Aggregate: Aggregate{ID: 5}},
		},
	}

	info, ok := cart.AggregateQuantity(5)
	if !ok {
		t.Fatal("expected aggregate to be found")
	}
	if info.Quantity != 2 || info.Origin != OriginDirect {
		t.Errorf("expected {2, Direct}, got %+v", info)
	}

	if _, ok := cart.AggregateQuantity(99); ok {
		t.Error("expected absent aggregate to report not found")
	}
}

func TestCartSnapshot_UnmarshalJSON(t *testing.T) {
	payload := `{
		"id": 7,
		"completedAt": null,
		"pickedProvider": "JUMBO",
		"contents": [
			{"__typename": "CartProviderProduct", "id": 1, "quantity": 2, "createdAt": "2023-01-02T15:04:05Z",
			 "product": {"__typename": "WggSearchProduct", "id": "498518PAK", "name": "Koffie",
			             "displayPrice": 139, "fullPrice": 199, "available": true,
			             "unitQuantity": {"__typename": "UnitQuantity", "unit": "GRAM", "amount": 500},
			             "providerInfo": {"__typename": "ProviderInfo", "provider": "JUMBO", "logoUrl": "/jumbo.svg"}}},
			{"__typename": "CartAggregateProduct", "id": 2, "quantity": 1, "createdAt": "2023-01-02T15:00:00Z",
			 "aggregate": {"__typename": "AggregateIngredient", "id": 5, "name": "Melk", "price": 120,
			               "ingredients": [{"__typename": "WggSearchProduct", "id": "m1",
			                                "providerInfo": {"provider": "PICNIC", "logoUrl": "/picnic.svg"}}]}},
			{"__typename": "CartNoteProduct", "id": 3, "quantity": 1, "createdAt": "2023-01-01T10:00:00Z", "note": "koffiefilters"}
		],
		"tallies": [{"provider": "JUMBO", "priceCents": 1234}]
	}`

	var cart CartSnapshot
	if err := json.Unmarshal([]byte(payload), &cart); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if cart.ID != 7 {
		t.Errorf("expected id 7, got %d", cart.ID)
	}
	if cart.PickedProvider == nil || *cart.PickedProvider != ProviderJumbo {
		t.Errorf("expected picked provider JUMBO, got %v", cart.PickedProvider)
	}
	if len(cart.Contents) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(cart.Contents))
	}

	raw, ok := cart.Contents[0].(RawProductLine)
	if !ok {
		t.Fatalf("expected RawProductLine, got %T", cart.Contents[0])
	}
	if raw.Product.ID != "498518PAK" || raw.Quantity != 2 {
		t.Errorf("unexpected raw line: %+v", raw)
	}
	want := time.Date(2023, 1, 2, 15, 4, 5, 0, time.UTC)
	if !raw.CreatedAt.Equal(want) {
		t.Errorf("expected createdAt %v, got %v", want, raw.CreatedAt)
	}

	agg, ok := cart.Contents[1].(AggregateLine)
	if !ok {
		t.Fatalf("expected AggregateLine, got %T", cart.Contents[1])
	}
	if agg.Aggregate.ID != 5 || len(agg.Aggregate.Ingredients) != 1 {
		t.Errorf("unexpected aggregate line: %+v", agg)
	}

	note, ok := cart.Contents[2].(NoteLine)
	if !ok {
		t.Fatalf("expected NoteLine, got %T", cart.Contents[2])
	}
	if note.Note != "koffiefilters" {
		t.Errorf("unexpected note line: %+v", note)
	}

	if len(cart.Tallies) != 1 || cart.Tallies[0].PriceCents != 1234 {
		t.Errorf("unexpected tallies: %+v", cart.Tallies)
	}
}

func TestCartSnapshot_UnmarshalUnknownLineType(t *testing.T) {
	payload := `{"id": 1, "contents": [{"__typename": "CartMysteryProduct", "id": 9}], "tallies": []}`

	var cart CartSnapshot
	if err := json.Unmarshal([]byte(payload), &cart); err == nil {
		t.Fatal("expected error for unknown line type")
	}
}

func TestParseProvider(t *testing.T) {
	if p, ok := ParseProvider("JUMBO"); !ok || p != ProviderJumbo {
		t.Errorf("expected JUMBO, got %q ok=%v", p, ok)
	}
	if _, ok := ParseProvider("ALDI"); ok {
		t.Error("expected unknown provider to fail")
	}
}

func TestDisplayPriceAsProvider(t *testing.T) {
	if _, ok := DisplayPriceAverage.AsProvider(); ok {
		t.Error("AVERAGE is not a provider")
	}
	if p, ok := DisplayPrice("PICNIC").AsProvider(); !ok || p != ProviderPicnic {
		t.Errorf("expected PICNIC provider, got %q ok=%v", p, ok)
	}
}
