package service

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/pantrylab/pantry/internal/core/domain"
	"github.com/pantrylab/pantry/internal/port"
)

const preferencesKey = "pantryPreferences"

// PreferenceStore holds the persisted user preferences. Every write is
// persisted synchronously; loading merges the stored blob over the defaults
// so fields introduced after the blob was written still get sane values.
type PreferenceStore struct {
	mu       sync.RWMutex
	kv       port.KeyValue
	notifier port.Notifier
	current  domain.Preferences
}

func NewPreferenceStore(kv port.KeyValue, notifier port.Notifier) *PreferenceStore {
	current := domain.DefaultPreferences()
	if blob, ok := kv.Get(preferencesKey); ok {
		if err := json.Unmarshal(blob, &current); err != nil {
			log.Printf("preferences: discarding unreadable stored blob: %v", err)
			current = domain.DefaultPreferences()
		}
	}

	return &PreferenceStore{
		kv:       kv,
		notifier: notifier,
		current:  current,
	}
}

func (p *PreferenceStore) Get() domain.Preferences {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Update applies a partial mutation and persists the result immediately.
func (p *PreferenceStore) Update(mutate func(*domain.Preferences)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	mutate(&p.current)
	p.persistLocked()
}

func (p *PreferenceStore) persistLocked() {
	blob, err := json.Marshal(p.current)
	if err != nil {
		log.Printf("preferences: encode: %v", err)
		return
	}
	p.kv.Set(preferencesKey, blob)
}

// ReconcileProviders verifies the stored preferences against the providers
// the server actually offers, and resets any that point at a decommissioned
// provider. It must run once per session before any screen depends on the
// preferences, because a stale favourite would silently produce empty
// results. Reports whether anything was reset; the user is notified per
// correction.
func (p *PreferenceStore) ReconcileProviders(available []domain.Provider) bool {
	offered := make(map[domain.Provider]struct{}, len(available))
	for _, provider := range available {
		offered[provider] = struct{}{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	changed := false

	if _, ok := offered[p.current.FavouriteProvider]; !ok && len(available) > 0 {
		p.notifier.Warning(
			fmt.Sprintf("Favourite provider %q is no longer available on the server, resetting!", p.current.FavouriteProvider),
			"Preference Update",
		)
		p.current.FavouriteProvider = available[0]
		changed = true
	}

	// The display price may name a specific provider rather than an
	// aggregation mode.
	if provider, isProvider := p.current.DisplayPrice.AsProvider(); isProvider {
		if _, ok := offered[provider]; !ok {
			p.notifier.Warning(
				fmt.Sprintf("Display price %q is no longer available on the server, resetting!", p.current.DisplayPrice),
				"Preference Update",
			)
			p.current.DisplayPrice = domain.DisplayPriceAverage
			changed = true
		}
	}

	if changed {
		p.persistLocked()
	}

	return changed
}
