package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// UnitQuantity is a pure value object (e.g. 500 GRAM). It carries no
// identity and is never cached standalone.
type UnitQuantity struct {
	Unit   string  `json:"unit"`
	Amount float64 `json:"amount"`
}

// UnitPrice is a pure value object (price per unit).
type UnitPrice struct {
	Unit       string `json:"unit"`
	PriceCents int64  `json:"price"`
}

// SearchProduct is a provider product as returned by search, promotion and
// cart queries. Its identity is (ProviderInfo.Provider, ID); the ID alone is
// provider-scoped and not comparable across providers.
type SearchProduct struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	DisplayPriceCents int64        `json:"displayPrice"`
	FullPriceCents    int64        `json:"fullPrice"`
	ImageURL          string       `json:"imageUrl,omitempty"`
	Available         bool         `json:"available"`
	UnitQuantity      UnitQuantity `json:"unitQuantity"`
	UnitPrice         *UnitPrice   `json:"unitPrice,omitempty"`
	ProviderInfo      ProviderInfo `json:"providerInfo"`
}

// Aggregate is a user-defined virtual product bundling one concrete provider
// product per store.
type Aggregate struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	PriceCents  int64           `json:"price"`
	Ingredients []SearchProduct `json:"ingredients"`
}

// CartTally is the total cart price when checking out against one provider.
type CartTally struct {
	Provider   Provider `json:"provider"`
	PriceCents int64    `json:"priceCents"`
}

// CartLine is a closed sum over the three cart content variants. Exhaustive
// type switches over RawProductLine, AggregateLine and NoteLine cover every
// case; new variants must extend those switches.
type CartLine interface {
	LineID() int64
	LineQuantity() int
	cartLine()
}

type RawProductLine struct {
	ID        int64         `json:"id"`
	Quantity  int           `json:"quantity"`
	CreatedAt time.Time     `json:"createdAt"`
	Product   SearchProduct `json:"product"`
}

type AggregateLine struct {
	ID        int64     `json:"id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	Aggregate Aggregate `json:"aggregate"`
}

type NoteLine struct {
	ID        int64     `json:"id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	Note      string    `json:"note"`
}

func (l RawProductLine) LineID() int64     { return l.ID }
func (l RawProductLine) LineQuantity() int { return l.Quantity }
func (l RawProductLine) cartLine()         {}

func (l AggregateLine) LineID() int64     { return l.ID }
func (l AggregateLine) LineQuantity() int { return l.Quantity }
func (l AggregateLine) cartLine()         {}

func (l NoteLine) LineID() int64     { return l.ID }
func (l NoteLine) LineQuantity() int { return l.Quantity }
func (l NoteLine) cartLine()         {}

// CartSnapshot is the authoritative server view of the current cart. It is
// replaced wholesale on every successful mutation or refresh, never patched
// field by field. Contents are ordered by insertion time, most recent first;
// every line has Quantity > 0 (setting quantity to zero removes the line).
type CartSnapshot struct {
	ID             int64       `json:"id"`
	CompletedAt    *time.Time  `json:"completedAt,omitempty"`
	PickedProvider *Provider   `json:"pickedProvider,omitempty"`
	Contents       []CartLine  `json:"contents"`
	Tallies        []CartTally `json:"tallies"`
}

// Origin distinguishes how a raw product is present in the cart.
type Origin string

const (
	// OriginDirect means the raw product itself is a cart line.
	OriginDirect Origin = "Direct"
	// OriginIndirect means the product is only present as a constituent of
	// an aggregate line.
	OriginIndirect Origin = "Indirect"
)

type QuantityInfo struct {
	Quantity int
	Origin   Origin
}

// ProductQuantity returns every occurrence of the given raw product in the
// cart. A product may appear both directly and indirectly at the same time;
// the occurrences are reported separately and never summed. Note lines never
// match (notes have no external product identity). A nil snapshot yields no
// results.
func (c *CartSnapshot) ProductQuantity(provider Provider, productID string) []QuantityInfo {
	if c == nil {
		return nil
	}

	var results []QuantityInfo
	for _, line := range c.Contents {
		switch l := line.(type) {
		case RawProductLine:
			if l.Product.ID == productID && l.Product.ProviderInfo.Provider == provider {
				results = append(results, QuantityInfo{Quantity: l.Quantity, Origin: OriginDirect})
			}
		case AggregateLine:
			for _, ingredient := range l.Aggregate.Ingredients {
				if ingredient.ID == productID && ingredient.ProviderInfo.Provider == provider {
					// The aggregate's own quantity, not the constituent count.
					results = append(results, QuantityInfo{Quantity: l.Quantity, Origin: OriginIndirect})
					break
				}
			}
		case NoteLine:
		}
	}

	return results
}

// AggregateQuantity returns the quantity of the given aggregate in the cart.
// An aggregate can only be present directly.
func (c *CartSnapshot) AggregateQuantity(aggregateID int64) (QuantityInfo, bool) {
	if c == nil {
		return QuantityInfo{}, false
	}

	for _, line := range c.Contents {
		if l, ok := line.(AggregateLine); ok && l.Aggregate.ID == aggregateID {
			return QuantityInfo{Quantity: l.Quantity, Origin: OriginDirect}, true
		}
	}

	return QuantityInfo{}, false
}

// UnmarshalJSON decodes the contents array into the concrete line variants
// using the __typename discriminant carried by the API.
func (c *CartSnapshot) UnmarshalJSON(data []byte) error {
	type rawSnapshot struct {
		ID             int64             `json:"id"`
		CompletedAt    *time.Time        `json:"completedAt"`
		PickedProvider *Provider         `json:"pickedProvider"`
		Contents       []json.RawMessage `json:"contents"`
		Tallies        []CartTally       `json:"tallies"`
	}

	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.ID = raw.ID
	c.CompletedAt = raw.CompletedAt
	c.PickedProvider = raw.PickedProvider
	c.Tallies = raw.Tallies
	c.Contents = nil

	for _, rawLine := range raw.Contents {
		var discriminant struct {
			TypeName string `json:"__typename"`
		}
		if err := json.Unmarshal(rawLine, &discriminant); err != nil {
			return fmt.Errorf("decode cart line discriminant: %w", err)
		}

		switch discriminant.TypeName {
		case "CartProviderProduct":
			var line RawProductLine
			if err := json.Unmarshal(rawLine, &line); err != nil {
				return fmt.Errorf("decode raw product line: %w", err)
			}
			c.Contents = append(c.Contents, line)
		case "CartAggregateProduct":
			var line AggregateLine
			if err := json.Unmarshal(rawLine, &line); err != nil {
				return fmt.Errorf("decode aggregate line: %w", err)
			}
			c.Contents = append(c.Contents, line)
		case "CartNoteProduct":
			var line NoteLine
			if err := json.Unmarshal(rawLine, &line); err != nil {
				return fmt.Errorf("decode note line: %w", err)
			}
			c.Contents = append(c.Contents, line)
		default:
			return fmt.Errorf("unknown cart line type %q", discriminant.TypeName)
		}
	}

	return nil
}
