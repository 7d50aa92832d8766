// Package cache implements the normalized, type-keyed object cache shared by
// every operation. Objects returned by the API are stored under
// (typename, identity); pure value objects are never cached standalone, only
// inlined where referenced, so structurally equal values belonging to
// unrelated products cannot cross-contaminate.
package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"
)

// DefaultTTL matches the request-policy freshness window of the web client.
const DefaultTTL = 3 * time.Minute

// KeyFunc derives the cache identity of an object from its fields. Returning
// ok == false means the object has no usable identity and is inlined only.
type KeyFunc func(fields map[string]any) (string, bool)

// Effect expresses a mutation side effect that is not visible from the
// returned payload alone, e.g. a delete returning only a count must still
// invalidate each deleted id, derived from the mutation's arguments.
type Effect func(store *Store, vars map[string]any, data json.RawMessage)

type Config struct {
	// Keys overrides the default id-field identity rule per typename.
	Keys map[string]KeyFunc

	// ValueOnly lists typenames that must never be cached as standalone
	// entries. A typename may not appear in both Keys and ValueOnly.
	ValueOnly []string

	// TTL is the freshness window for cached data; DefaultTTL when zero.
	TTL time.Duration
}

type entryKey struct {
	TypeName string
	Key      string
}

type entity struct {
	fields   map[string]any
	storedAt time.Time
}

type cachedResult struct {
	data     json.RawMessage
	storedAt time.Time
	touched  map[entryKey]struct{}
}

// Store is the process-wide normalized cache. Reads never bypass the
// identity-first lookup; writes happen only on the post-operation path.
type Store struct {
	mu        sync.RWMutex
	keys      map[string]KeyFunc
	valueOnly map[string]struct{}
	ttl       time.Duration
	entities  map[entryKey]entity
	results   map[string]cachedResult
	effects   map[string]Effect
	warned    map[string]struct{}

	now func() time.Time
}

// New validates the identity-resolution table and constructs a Store. Every
// typename must either resolve an identity or be explicitly value-only; a
// typename configured as both is rejected up front because an accidental
// identity on a value object is the collision bug class this cache exists to
// avoid.
func New(cfg Config) (*Store, error) {
	valueOnly := make(map[string]struct{}, len(cfg.ValueOnly))
	for _, typeName := range cfg.ValueOnly {
		valueOnly[typeName] = struct{}{}
	}

	for typeName, fn := range cfg.Keys {
		if fn == nil {
			return nil, fmt.Errorf("cache: nil key function for type %q", typeName)
		}
		if _, ok := valueOnly[typeName]; ok {
			return nil, fmt.Errorf("cache: type %q is both keyed and value-only", typeName)
		}
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	keys := make(map[string]KeyFunc, len(cfg.Keys))
	for typeName, fn := range cfg.Keys {
		keys[typeName] = fn
	}

	return &Store{
		keys:      keys,
		valueOnly: valueOnly,
		ttl:       ttl,
		entities:  make(map[entryKey]entity),
		results:   make(map[string]cachedResult),
		effects:   make(map[string]Effect),
		warned:    make(map[string]struct{}),
		now:       time.Now,
	}, nil
}

// Identify resolves the cache identity of an object. Value-only types and
// objects without a usable identity return ok == false.
func (s *Store) Identify(typeName string, fields map[string]any) (string, bool) {
	if _, ok := s.valueOnly[typeName]; ok {
		return "", false
	}

	if fn, ok := s.keys[typeName]; ok {
		return fn(fields)
	}

	if key, ok := ScalarKey(fields["id"]); ok {
		return key, true
	}

	s.warnOnce(typeName)
	return "", false
}

func (s *Store) warnOnce(typeName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warned[typeName]; ok {
		return
	}
	s.warned[typeName] = struct{}{}
	log.Printf("cache: type %q has no id and no identity config, treating as inline-only", typeName)
}

// ScalarKey renders a scalar id field as a cache key component.
func ScalarKey(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

// Write normalizes a result payload into the cache and returns the entity
// keys it touched.
func (s *Store) Write(data json.RawMessage) []entryKey {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		log.Printf("cache: skipping unparsable payload: %v", err)
		return nil
	}

	touched := make(map[entryKey]struct{})
	s.walk(decoded, touched)

	keys := make([]entryKey, 0, len(touched))
	for key := range touched {
		keys = append(keys, key)
	}
	return keys
}

func (s *Store) walk(value any, touched map[entryKey]struct{}) {
	switch v := value.(type) {
	case map[string]any:
		if typeName, ok := v["__typename"].(string); ok {
			if key, ok := s.Identify(typeName, v); ok {
				s.upsert(entryKey{TypeName: typeName, Key: key}, v)
				touched[entryKey{TypeName: typeName, Key: key}] = struct{}{}
			}
		}
		for _, nested := range v {
			s.walk(nested, touched)
		}
	case []any:
		for _, item := range v {
			s.walk(item, touched)
		}
	}
}

func (s *Store) upsert(key entryKey, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entities[key]
	if !ok {
		existing = entity{fields: make(map[string]any, len(fields))}
	}
	for name, value := range fields {
		existing.fields[name] = value
	}
	existing.storedAt = s.now()
	s.entities[key] = existing
}

// Lookup returns the cached fields of an entity. The returned map is shared;
// callers must not mutate it.
func (s *Store) Lookup(typeName, key string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entities[entryKey{TypeName: typeName, Key: key}]
	if !ok {
		return nil, false
	}
	return e.fields, true
}

// Invalidate evicts an entity and drops every cached result that embedded
// it, forcing the next read touching it to refetch.
func (s *Store) Invalidate(typeName, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := entryKey{TypeName: typeName, Key: key}
	delete(s.entities, target)

	for resultKey, result := range s.results {
		if _, ok := result.touched[target]; ok {
			delete(s.results, resultKey)
		}
	}
}

// ResultKey derives the result-cache key for an operation and its variables.
// Map keys marshal in sorted order, so equal variable sets collide as
// intended.
func ResultKey(opName string, vars map[string]any) string {
	encoded, err := json.Marshal(vars)
	if err != nil {
		return opName
	}
	return opName + ":" + string(encoded)
}

// StoreResult caches a terminal query payload along with the entities it
// touched.
func (s *Store) StoreResult(key string, data json.RawMessage, touched []entryKey) {
	touchedSet := make(map[entryKey]struct{}, len(touched))
	for _, t := range touched {
		touchedSet[t] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[key] = cachedResult{
		data:     data,
		storedAt: s.now(),
		touched:  touchedSet,
	}
}

// LookupResult returns a cached payload when it is still within the
// freshness window and none of the entities it touched have been
// invalidated.
func (s *Store) LookupResult(key string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(result.storedAt) > s.ttl {
		return nil, false
	}
	for touched := range result.touched {
		if _, ok := s.entities[touched]; !ok {
			return nil, false
		}
	}
	return result.data, true
}

// RegisterEffect installs a post-mutation hook for the named mutation.
func (s *Store) RegisterEffect(mutationName string, effect Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effects[mutationName] = effect
}

// RunEffects invokes the registered hook for a settled mutation, if any.
func (s *Store) RunEffects(mutationName string, vars map[string]any, data json.RawMessage) {
	s.mu.RLock()
	effect, ok := s.effects[mutationName]
	s.mu.RUnlock()

	if ok {
		effect(s, vars, data)
	}
}
