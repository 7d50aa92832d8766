package domain

type Provider string

const (
	ProviderJumbo  Provider = "JUMBO"
	ProviderPicnic Provider = "PICNIC"
)

// KnownProviders returns every provider this client was compiled with.
// The server may offer fewer; see SessionService.Authenticate.
func KnownProviders() []Provider {
	return []Provider{ProviderJumbo, ProviderPicnic}
}

// ParseProvider resolves a raw string (typically a URL route parameter)
// to a known provider.
func ParseProvider(raw string) (Provider, bool) {
	for _, p := range KnownProviders() {
		if string(p) == raw {
			return p, true
		}
	}
	return "", false
}

// PriceFilter is the aggregation mode used to display a single price for a
// multi-provider aggregate ingredient.
type PriceFilter string

const (
	PriceFilterAverage PriceFilter = "AVERAGE"
	PriceFilterMaximum PriceFilter = "MAXIMUM"
	PriceFilterMinimum PriceFilter = "MINIMUM"
)

// DisplayPrice is the price shown on the cart overview. It admits the three
// PriceFilter aggregation modes as well as a specific provider value.
type DisplayPrice string

const (
	DisplayPriceAverage DisplayPrice = "AVERAGE"
	DisplayPriceMaximum DisplayPrice = "MAXIMUM"
	DisplayPriceMinimum DisplayPrice = "MINIMUM"
)

// AsProvider reports whether the display price names a specific provider
// rather than an aggregation mode.
func (d DisplayPrice) AsProvider() (Provider, bool) {
	return ParseProvider(string(d))
}

// ProviderInfo identifies the grocery store a product came from. It is shared
// across every product of that provider, so its cache identity is the
// provider value itself.
type ProviderInfo struct {
	Provider Provider `json:"provider"`
	LogoURL  string   `json:"logoUrl"`
}
