// Package refresh periodically re-synchronizes favorite weather snapshots so
// the dashboard's saved locations do not go stale between user actions.
package refresh

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/skycast/weatherdash/internal/favorites"
	"github.com/skycast/weatherdash/internal/weather"
)

// Refresher runs the favorites synchronizer on a fixed interval.
type Refresher struct {
	scheduler *gocron.Scheduler
	store     *favorites.Store
	unit      func() weather.Unit
	interval  time.Duration
	log       zerolog.Logger
}

// New creates a Refresher. unit is consulted at each run so the job always
// fetches at the currently selected unit system.
func New(store *favorites.Store, unit func() weather.Unit, interval time.Duration, log zerolog.Logger) *Refresher {
	return &Refresher{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		unit:      unit,
		interval:  interval,
		log:       log.With().Str("component", "refresh").Logger(),
	}
}

// Start schedules the periodic job. A non-positive interval disables it.
func (r *Refresher) Start() error {
	if r.interval <= 0 {
		r.log.Info().Msg("periodic refresh disabled")
		return nil
	}

	_, err := r.scheduler.Every(r.interval).Do(func() {
		if r.store.Len() == 0 {
			return
		}
		r.log.Debug().Msg("refreshing favorite weather snapshots")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		r.store.Refresh(ctx, r.unit())
	})
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}
