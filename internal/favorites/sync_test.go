package favorites

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/skycast/weatherdash/internal/storage"
	"github.com/skycast/weatherdash/internal/weather"
)

func TestRefreshSkipsFailuresPreservingOrder(t *testing.T) {
	store, _, fetcher := newTestStore(t)
	ctx := context.Background()

	// B's coordinates fail; A and C succeed.
	fetcher.respond = func(lat, lon float64, unit weather.Unit) (weather.Snapshot, error) {
		if lat == locParis.Lat {
			return weather.Snapshot{}, errors.New("boom")
		}
		return weather.Snapshot{Lat: lat, Lon: lon, Unit: unit}, nil
	}

	if err := store.Add(ctx, locLondon, weather.UnitMetric); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Add(ctx, locParis, weather.UnitMetric); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Add(ctx, locTokyo, weather.UnitMetric); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store.Refresh(ctx, weather.UnitMetric)

	snaps := store.Snapshots()
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].Lat != locLondon.Lat || snaps[1].Lat != locTokyo.Lat {
		t.Fatalf("expected [London, Tokyo] order, got %+v", snaps)
	}
}

func TestRefreshEmptyListIssuesNoFetches(t *testing.T) {
	store, _, fetcher := newTestStore(t)

	store.Refresh(context.Background(), weather.UnitMetric)

	if fetcher.callCount() != 0 {
		t.Fatalf("expected no fetches for empty favorites, got %d", fetcher.callCount())
	}
	if got := len(store.Snapshots()); got != 0 {
		t.Fatalf("expected empty snapshot list, got %d", got)
	}
}

func TestRefreshReplacesStaleSnapshots(t *testing.T) {
	store, _, fetcher := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, locLondon, weather.UnitMetric); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetcher.respond = func(lat, lon float64, unit weather.Unit) (weather.Snapshot, error) {
		return weather.Snapshot{Name: "fresh", Lat: lat, Lon: lon, Unit: unit}, nil
	}
	store.Refresh(ctx, weather.UnitImperial)

	snaps := store.Snapshots()
	if len(snaps) != 1 || snaps[0].Name != "fresh" || snaps[0].Unit != weather.UnitImperial {
		t.Fatalf("expected replaced snapshot list, got %+v", snaps)
	}
}

// TestRefreshLastWriteWins pins the documented race between overlapping
// refreshes: there is no sequence guard, so a slower earlier invocation that
// finishes last overwrites the newer result. This is a deliberate fidelity
// choice, not an oversight.
func TestRefreshLastWriteWins(t *testing.T) {
	kv := &countingKV{KV: storage.NewMemoryStore()}
	release := make(chan struct{})
	fetcher := &fakeFetcher{
		respond: func(lat, lon float64, unit weather.Unit) (weather.Snapshot, error) {
			if unit == weather.UnitMetric {
				// The first (metric) refresh stalls until released.
				<-release
				return weather.Snapshot{Name: "stale", Unit: unit}, nil
			}
			return weather.Snapshot{Name: "current", Unit: unit}, nil
		},
	}
	store := NewStore(kv, fetcher, zerolog.Nop())
	ctx := context.Background()

	// Add refreshes at imperial, which does not block.
	if err := store.Add(ctx, locLondon, weather.UnitImperial); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		store.Refresh(ctx, weather.UnitMetric)
		close(done)
	}()

	// The later, faster refresh completes first.
	store.Refresh(ctx, weather.UnitImperial)
	snaps := store.Snapshots()
	if len(snaps) != 1 || snaps[0].Name != "current" {
		t.Fatalf("expected current snapshot before stale refresh lands, got %+v", snaps)
	}

	// Now the earlier refresh finishes and overwrites with stale data.
	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("stalled refresh did not complete")
	}

	snaps = store.Snapshots()
	if len(snaps) != 1 || snaps[0].Name != "stale" {
		t.Fatalf("expected last write to win with stale data, got %+v", snaps)
	}
}
