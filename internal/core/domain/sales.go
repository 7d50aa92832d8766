package domain

// SaleCategory is a provider sale grouping. The upstream id is not
// guaranteed globally unique, so its cache identity is the composite of
// provider, name and id.
type SaleCategory struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	ImageURLs    []string        `json:"imageUrls,omitempty"`
	ProviderInfo ProviderInfo    `json:"providerInfo"`
	LimitedItems []SearchProduct `json:"limitedItems,omitempty"`
}

// PriceInfo is a pure value object carrying the full price breakdown of a
// product detail view.
type PriceInfo struct {
	DisplayPriceCents  int64      `json:"displayPrice"`
	OriginalPriceCents int64      `json:"originalPrice"`
	UnitPrice          *UnitPrice `json:"unitPrice,omitempty"`
}

// FullProduct is the detail view of a single provider product, richer than
// the SearchProduct summary used in lists and carts.
type FullProduct struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Available    bool         `json:"available"`
	ImageURLs    []string     `json:"imageUrls,omitempty"`
	PriceInfo    PriceInfo    `json:"priceInfo"`
	UnitQuantity UnitQuantity `json:"unitQuantity"`
	ProviderInfo ProviderInfo `json:"providerInfo"`
}
