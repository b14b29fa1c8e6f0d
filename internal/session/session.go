// Package session holds the state of the active (non-favorite) location
// lookup flow: current weather, forecast, search results, loading flag,
// error message and the selected unit system.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/skycast/weatherdash/internal/favorites"
	"github.com/skycast/weatherdash/internal/geoloc"
	"github.com/skycast/weatherdash/internal/location"
	"github.com/skycast/weatherdash/internal/weather"
)

// Locator resolves the device's current coordinates.
type Locator interface {
	Coordinates(ctx context.Context) (geoloc.Position, error)
}

// Session is the active-lookup state container. All mutation goes through its
// action methods; reads go through its getters. There is one shared error
// slot for the whole session, so concurrent actions can overwrite each
// other's message — each action still manages its own lifecycle sequentially.
type Session struct {
	mu        sync.RWMutex
	client    weather.Client
	locator   Locator
	favorites *favorites.Store
	log       zerolog.Logger

	unit          weather.Unit
	current       *weather.Snapshot
	forecast      *weather.Forecast
	searchResults []location.Location
	loading       bool
	lastError     string
}

// New creates a session starting at metric units with empty state.
func New(client weather.Client, locator Locator, favs *favorites.Store, log zerolog.Logger) *Session {
	return &Session{
		client:    client,
		locator:   locator,
		favorites: favs,
		log:       log.With().Str("component", "session").Logger(),
		unit:      weather.UnitMetric,
	}
}

// Unit returns the active unit system.
func (s *Session) Unit() weather.Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unit
}

// SetUnit switches the unit system. A non-empty favorites list triggers one
// snapshot re-synchronization at the new unit.
func (s *Session) SetUnit(ctx context.Context, unit weather.Unit) {
	if !unit.Valid() {
		return
	}

	s.mu.Lock()
	s.unit = unit
	s.mu.Unlock()

	if s.favorites != nil && s.favorites.Len() > 0 {
		s.favorites.Refresh(ctx, unit)
	}
}

// CurrentWeather returns the snapshot for the active location, nil if none.
func (s *Session) CurrentWeather() *weather.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	snap := *s.current
	return &snap
}

// Forecast returns the forecast for the active location, nil if none.
func (s *Session) Forecast() *weather.Forecast {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.forecast == nil {
		return nil
	}
	fc := *s.forecast
	return &fc
}

// SearchResults returns the locations from the last search.
func (s *Session) SearchResults() []location.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]location.Location, len(s.searchResults))
	copy(out, s.searchResults)
	return out
}

// Loading reports whether an action is in flight.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the display message of the most recent failed action,
// empty when the last action succeeded.
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// FetchCurrentWeather loads current weather for a city name.
func (s *Session) FetchCurrentWeather(ctx context.Context, city string) error {
	s.begin()
	snap, err := s.client.CurrentByCity(ctx, city, s.Unit())
	if err != nil {
		return s.finish(err)
	}
	s.mu.Lock()
	s.current = &snap
	s.mu.Unlock()
	return s.finish(nil)
}

// FetchCurrentWeatherByCoords loads current weather for coordinates.
func (s *Session) FetchCurrentWeatherByCoords(ctx context.Context, lat, lon float64) error {
	s.begin()
	snap, err := s.client.CurrentByCoords(ctx, lat, lon, s.Unit())
	if err != nil {
		return s.finish(err)
	}
	s.mu.Lock()
	s.current = &snap
	s.mu.Unlock()
	return s.finish(nil)
}

// FetchForecast loads the forecast for a city name.
func (s *Session) FetchForecast(ctx context.Context, city string) error {
	s.begin()
	fc, err := s.client.ForecastByCity(ctx, city, s.Unit())
	if err != nil {
		return s.finish(err)
	}
	s.mu.Lock()
	s.forecast = &fc
	s.mu.Unlock()
	return s.finish(nil)
}

// FetchForecastByCoords loads the forecast for coordinates.
func (s *Session) FetchForecastByCoords(ctx context.Context, lat, lon float64) error {
	s.begin()
	fc, err := s.client.ForecastByCoords(ctx, lat, lon, s.Unit())
	if err != nil {
		return s.finish(err)
	}
	s.mu.Lock()
	s.forecast = &fc
	s.mu.Unlock()
	return s.finish(nil)
}

// SearchLocations resolves a query to candidate locations.
func (s *Session) SearchLocations(ctx context.Context, query string) ([]location.Location, error) {
	s.begin()
	locs, err := s.client.SearchLocations(ctx, query, 5)
	if err != nil {
		return nil, s.finish(err)
	}
	s.mu.Lock()
	s.searchResults = locs
	s.mu.Unlock()
	return locs, s.finish(nil)
}

// UseCurrentLocation resolves the device position, then loads current
// weather and forecast for it. A geolocation failure aborts the chain.
func (s *Session) UseCurrentLocation(ctx context.Context) (geoloc.Position, error) {
	s.begin()
	pos, err := s.locator.Coordinates(ctx)
	if err != nil {
		return geoloc.Position{}, s.finish(err)
	}
	if err := s.FetchCurrentWeatherByCoords(ctx, pos.Lat, pos.Lon); err != nil {
		return geoloc.Position{}, s.finish(err)
	}
	if err := s.FetchForecastByCoords(ctx, pos.Lat, pos.Lon); err != nil {
		return geoloc.Position{}, s.finish(err)
	}
	return pos, s.finish(nil)
}

// RefreshWeatherData re-fetches current weather and forecast for the active
// location's city, concurrently. No-op when there is no active location.
func (s *Session) RefreshWeatherData(ctx context.Context) error {
	current := s.CurrentWeather()
	if current == nil {
		return nil
	}
	city := current.Name

	var wg sync.WaitGroup
	var weatherErr, forecastErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		weatherErr = s.FetchCurrentWeather(ctx, city)
	}()
	go func() {
		defer wg.Done()
		forecastErr = s.FetchForecast(ctx, city)
	}()
	wg.Wait()

	if weatherErr != nil {
		return weatherErr
	}
	return forecastErr
}

// begin marks an action started: loading set, error slot cleared.
func (s *Session) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()
}

// finish releases the loading flag exactly once per action and records the
// display message on failure. The error is passed through so callers can
// abort dependent chains.
func (s *Session) finish(err error) error {
	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastError = DisplayMessage(err)
	}
	s.mu.Unlock()
	return err
}
