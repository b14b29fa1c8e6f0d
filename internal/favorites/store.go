// Package favorites owns the persisted list of favorite locations and the
// derived per-favorite weather snapshots kept in sync with it.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/skycast/weatherdash/internal/location"
	"github.com/skycast/weatherdash/internal/storage"
	"github.com/skycast/weatherdash/internal/weather"
)

// FavoriteLocation is a location plus its derived identifier. The ID is the
// sole deduplication key; see location.DeriveID.
type FavoriteLocation struct {
	location.Location
	ID string `json:"id"`
}

// WeatherFetcher is the slice of the weather client the synchronizer needs.
type WeatherFetcher interface {
	CurrentByCoords(ctx context.Context, lat, lon float64, unit weather.Unit) (weather.Snapshot, error)
}

// Store is the favorites store. The in-memory list is authoritative once
// loaded; the persisted value is a serialized copy written after every
// mutation. Constructed explicitly and passed to whoever needs it; nothing
// happens at package init.
type Store struct {
	mu      sync.RWMutex
	kv      storage.KV
	fetcher WeatherFetcher
	log     zerolog.Logger

	favorites []FavoriteLocation
	snapshots []weather.Snapshot
}

// NewStore creates an empty store. Call Load to read persisted favorites.
func NewStore(kv storage.KV, fetcher WeatherFetcher, log zerolog.Logger) *Store {
	return &Store{
		kv:      kv,
		fetcher: fetcher,
		log:     log.With().Str("component", "favorites").Logger(),
	}
}

// Load reads the persisted favorites list. A legacy value (array of bare
// city-name strings) is discarded and its key erased; duplicates by ID are
// dropped keeping first occurrence and the healed list is re-persisted.
// Malformed data is logged and treated as absent without touching the key.
// A non-empty result triggers a snapshot refresh at the given unit.
func (s *Store) Load(ctx context.Context, unit weather.Unit) error {
	raw, ok, err := s.kv.Get(storage.KeyFavorites)
	if err != nil {
		return fmt.Errorf("read favorites: %w", err)
	}
	if !ok {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		s.log.Error().Err(err).Msg("failed to parse stored favorites; ignoring")
		return nil
	}

	if len(elems) > 0 && isBareString(elems[0]) {
		// Obsolete format: favorites stored as plain city names. There is
		// no way back to structured entries, so clear and start over.
		s.log.Info().Msg("migrating legacy favorites format: discarding stored value")
		if err := s.kv.Delete(storage.KeyFavorites); err != nil {
			return fmt.Errorf("clear legacy favorites: %w", err)
		}
		s.setFavorites(nil)
		return nil
	}

	parsed := make([]FavoriteLocation, 0, len(elems))
	for _, elem := range elems {
		var fav FavoriteLocation
		if err := json.Unmarshal(elem, &fav); err != nil {
			s.log.Error().Err(err).Msg("failed to parse stored favorites; ignoring")
			return nil
		}
		parsed = append(parsed, fav)
	}

	unique := dedupeByID(parsed)
	s.setFavorites(unique)

	if len(unique) != len(parsed) {
		s.log.Info().Int("removed", len(parsed)-len(unique)).Msg("removed duplicate favorites")
		if err := s.persist(unique); err != nil {
			return err
		}
	}

	if len(unique) > 0 {
		s.Refresh(ctx, unit)
	}
	return nil
}

// Add appends the location as a favorite if its ID is not already present,
// persists the list and refreshes snapshots. Adding an existing location is
// a no-op.
func (s *Store) Add(ctx context.Context, loc location.Location, unit weather.Unit) error {
	fav := FavoriteLocation{
		Location: loc,
		ID:       location.DeriveID(loc),
	}

	s.mu.Lock()
	if containsID(s.favorites, fav.ID) {
		s.mu.Unlock()
		return nil
	}
	s.favorites = append(s.favorites, fav)
	list := copyFavorites(s.favorites)
	s.mu.Unlock()

	if err := s.persist(list); err != nil {
		return err
	}
	s.Refresh(ctx, unit)
	return nil
}

// Remove deletes the favorite with the given ID, persists the list and
// refreshes snapshots. A missing ID is a no-op with no persistence write.
func (s *Store) Remove(ctx context.Context, id string, unit weather.Unit) error {
	s.mu.Lock()
	idx := -1
	for i, fav := range s.favorites {
		if fav.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return nil
	}
	s.favorites = append(s.favorites[:idx], s.favorites[idx+1:]...)
	list := copyFavorites(s.favorites)
	s.mu.Unlock()

	if err := s.persist(list); err != nil {
		return err
	}
	s.Refresh(ctx, unit)
	return nil
}

// IsFavorite reports whether the location (by derived ID) is a favorite.
func (s *Store) IsFavorite(loc location.Location) bool {
	return s.IsFavoriteID(location.DeriveID(loc))
}

// IsFavoriteID reports whether a favorite with the given ID exists.
func (s *Store) IsFavoriteID(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsID(s.favorites, id)
}

// IsFavoriteName matches a bare city name against stored favorites. Kept for
// callers that predate location IDs.
func (s *Store) IsFavoriteName(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fav := range s.favorites {
		if fav.Name == name {
			return true
		}
	}
	return false
}

// Favorites returns a copy of the current favorites list in display order.
func (s *Store) Favorites() []FavoriteLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyFavorites(s.favorites)
}

// Snapshots returns a copy of the current per-favorite weather snapshots.
func (s *Store) Snapshots() []weather.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]weather.Snapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.favorites)
}

func (s *Store) setFavorites(list []FavoriteLocation) {
	s.mu.Lock()
	s.favorites = list
	s.mu.Unlock()
}

func (s *Store) persist(list []FavoriteLocation) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal favorites: %w", err)
	}
	if err := s.kv.Set(storage.KeyFavorites, raw); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

// isBareString reports whether a JSON value is a plain string token.
func isBareString(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '"':
			return true
		default:
			return false
		}
	}
	return false
}

func dedupeByID(list []FavoriteLocation) []FavoriteLocation {
	seen := make(map[string]struct{}, len(list))
	out := make([]FavoriteLocation, 0, len(list))
	for _, fav := range list {
		if _, ok := seen[fav.ID]; ok {
			continue
		}
		seen[fav.ID] = struct{}{}
		out = append(out, fav)
	}
	return out
}

func containsID(list []FavoriteLocation, id string) bool {
	for _, fav := range list {
		if fav.ID == id {
			return true
		}
	}
	return false
}

func copyFavorites(list []FavoriteLocation) []FavoriteLocation {
	out := make([]FavoriteLocation, len(list))
	copy(out, list)
	return out
}
