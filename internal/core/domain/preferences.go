package domain

// Preferences is the persisted per-user preference record. Stored blobs from
// older versions may miss fields; loading merges them over DefaultPreferences
// so new fields still get sane values.
type Preferences struct {
	// DisplayPrice is the price shown by default on the cart overview.
	DisplayPrice DisplayPrice `json:"displayPrice"`

	// AggregateDisplayPrice is the aggregation mode requested for aggregate
	// ingredient prices in cart and aggregate queries.
	AggregateDisplayPrice PriceFilter `json:"aggregateDisplayPrice"`

	// FavouriteProvider is pre-selected when entering provider-scoped pages.
	FavouriteProvider Provider `json:"favouriteProvider"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		DisplayPrice:          DisplayPriceAverage,
		AggregateDisplayPrice: PriceFilterAverage,
		FavouriteProvider:     ProviderPicnic,
	}
}
