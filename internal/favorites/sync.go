package favorites

import (
	"context"
	"sync"

	"github.com/skycast/weatherdash/internal/location"
	"github.com/skycast/weatherdash/internal/weather"
)

// Refresh rebuilds the snapshot list from scratch: one concurrent fetch per
// favorite, partial failures absorbed. The output keeps favorites order among
// successes and replaces the previous list in one step, so readers never see
// a partially-updated list. No fetches are issued for an empty list.
//
// Overlapping invocations are not coordinated: if a slower earlier refresh
// completes after a faster later one, its result wins. See
// TestRefreshLastWriteWins.
func (s *Store) Refresh(ctx context.Context, unit weather.Unit) {
	favs := s.Favorites()
	if len(favs) == 0 {
		s.mu.Lock()
		s.snapshots = nil
		s.mu.Unlock()
		return
	}

	type outcome struct {
		snap weather.Snapshot
		err  error
	}

	results := make([]outcome, len(favs))
	var wg sync.WaitGroup

	for i, fav := range favs {
		i, fav := i, fav
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := s.fetcher.CurrentByCoords(ctx, fav.Lat, fav.Lon, unit)
			results[i] = outcome{snap: snap, err: err}
		}()
	}
	wg.Wait()

	snapshots := make([]weather.Snapshot, 0, len(favs))
	for i, res := range results {
		if res.err != nil {
			s.log.Error().
				Err(res.err).
				Str("favorite", location.DisplayName(favs[i].Location)).
				Msg("failed to fetch weather for favorite")
			continue
		}
		snapshots = append(snapshots, res.snap)
	}

	s.mu.Lock()
	s.snapshots = snapshots
	s.mu.Unlock()
}
