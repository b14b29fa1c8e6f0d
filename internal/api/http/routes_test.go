package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skycast/weatherdash/internal/favorites"
	"github.com/skycast/weatherdash/internal/geoloc"
	"github.com/skycast/weatherdash/internal/location"
	"github.com/skycast/weatherdash/internal/photos"
	"github.com/skycast/weatherdash/internal/profile"
	"github.com/skycast/weatherdash/internal/session"
	"github.com/skycast/weatherdash/internal/storage"
	"github.com/skycast/weatherdash/internal/theme"
	"github.com/skycast/weatherdash/internal/weather"
)

// fakeWeather implements weather.Client with canned responses.
type fakeWeather struct {
	failWith   error
	searchHits []location.Location
}

func (f *fakeWeather) CurrentByCity(_ context.Context, city string, unit weather.Unit) (weather.Snapshot, error) {
	if f.failWith != nil {
		return weather.Snapshot{}, f.failWith
	}
	return weather.Snapshot{Name: city, Unit: unit}, nil
}

func (f *fakeWeather) CurrentByCoords(_ context.Context, lat, lon float64, unit weather.Unit) (weather.Snapshot, error) {
	if f.failWith != nil {
		return weather.Snapshot{}, f.failWith
	}
	return weather.Snapshot{Lat: lat, Lon: lon, Unit: unit}, nil
}

func (f *fakeWeather) ForecastByCity(_ context.Context, city string, unit weather.Unit) (weather.Forecast, error) {
	if f.failWith != nil {
		return weather.Forecast{}, f.failWith
	}
	return weather.Forecast{City: location.Location{Name: city}, Unit: unit}, nil
}

func (f *fakeWeather) ForecastByCoords(_ context.Context, lat, lon float64, unit weather.Unit) (weather.Forecast, error) {
	if f.failWith != nil {
		return weather.Forecast{}, f.failWith
	}
	return weather.Forecast{City: location.Location{Lat: lat, Lon: lon}, Unit: unit}, nil
}

func (f *fakeWeather) SearchLocations(_ context.Context, query string, limit int) ([]location.Location, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.searchHits, nil
}

type fakeLocator struct{}

func (fakeLocator) Coordinates(context.Context) (geoloc.Position, error) {
	return geoloc.Position{Lat: 48.8566, Lon: 2.3522}, nil
}

func newTestApp(t *testing.T, client *fakeWeather) *fiber.App {
	t.Helper()

	app := fiber.New()
	kv := storage.NewMemoryStore()
	log := zerolog.Nop()

	favs := favorites.NewStore(kv, client, log)
	sess := session.New(client, fakeLocator{}, favs, log)
	themes := theme.NewStore(kv, log)
	themes.Load()
	profiles := profile.NewStore(kv, log)
	profiles.Load()

	RegisterRoutes(app, Deps{
		Session:   sess,
		Favorites: favs,
		Theme:     themes,
		Profile:   profiles,
		Photos:    photos.NewClient(http.DefaultClient, "", log),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func TestCurrentWeatherByCity(t *testing.T) {
	app := newTestApp(t, &fakeWeather{})

	resp := doJSON(t, app, http.MethodGet, "/api/v1/weather/current?city=Oslo", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var snap weather.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if snap.Name != "Oslo" {
		t.Fatalf("expected Oslo snapshot, got %q", snap.Name)
	}
}

func TestCurrentWeatherRequiresCityOrCoords(t *testing.T) {
	app := newTestApp(t, &fakeWeather{})

	resp := doJSON(t, app, http.MethodGet, "/api/v1/weather/current", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestCurrentWeatherUpstreamFailure(t *testing.T) {
	app := newTestApp(t, &fakeWeather{
		failWith: &weather.FetchError{Op: "current", Status: http.StatusNotFound, Message: "city not found"},
	})

	resp := doJSON(t, app, http.MethodGet, "/api/v1/weather/current?city=Nowhere", "")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, resp.StatusCode)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	app := newTestApp(t, &fakeWeather{})

	resp := doJSON(t, app, http.MethodGet, "/api/v1/locations/search", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestFavoritesAddListRemove(t *testing.T) {
	app := newTestApp(t, &fakeWeather{})

	body := `{"name":"London","country":"GB","lat":51.5073,"lon":-0.1276}`
	resp := doJSON(t, app, http.MethodPost, "/api/v1/favorites", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected a favorite id")
	}

	resp = doJSON(t, app, http.MethodGet, "/api/v1/favorites", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var listed struct {
		Favorites []favorites.FavoriteLocation `json:"favorites"`
		Weather   []weather.Snapshot           `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed.Favorites) != 1 || listed.Favorites[0].Name != "London" {
		t.Fatalf("unexpected favorites list: %+v", listed.Favorites)
	}
	if len(listed.Weather) != 1 {
		t.Fatalf("expected weather for favorite, got %d snapshots", len(listed.Weather))
	}

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/favorites/"+created.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/v1/favorites", "")
	listed.Favorites = nil
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed.Favorites) != 0 {
		t.Fatalf("expected empty favorites after delete, got %+v", listed.Favorites)
	}
}

func TestFavoriteValidation(t *testing.T) {
	app := newTestApp(t, &fakeWeather{})

	resp := doJSON(t, app, http.MethodPost, "/api/v1/favorites", `{"name":"London"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestUnitSettings(t *testing.T) {
	app := newTestApp(t, &fakeWeather{})

	resp := doJSON(t, app, http.MethodPut, "/api/v1/settings/unit", `{"unit":"imperial"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/v1/settings/unit", "")
	var got struct {
		Unit weather.Unit `json:"unit"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Unit != weather.UnitImperial {
		t.Fatalf("expected imperial, got %q", got.Unit)
	}

	resp = doJSON(t, app, http.MethodPut, "/api/v1/settings/unit", `{"unit":"kelvinish"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestThemeToggle(t *testing.T) {
	app := newTestApp(t, &fakeWeather{})

	// Starts at system; toggle walks light -> dark -> system.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/settings/theme/toggle", "")
	var got struct {
		Mode theme.Mode `json:"mode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Mode != theme.ModeLight {
		t.Fatalf("expected light after first toggle, got %q", got.Mode)
	}

	resp = doJSON(t, app, http.MethodPut, "/api/v1/settings/theme", `{"mode":"sepia"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestProfileUpdate(t *testing.T) {
	app := newTestApp(t, &fakeWeather{})

	resp := doJSON(t, app, http.MethodPut, "/api/v1/profile", `{"name":"Ada Lovelace","email":"ada@example.com"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/v1/profile", "")
	var got struct {
		Profile profile.Profile `json:"profile"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Profile.Name != "Ada Lovelace" || got.Profile.Email != "ada@example.com" {
		t.Fatalf("unexpected profile: %+v", got.Profile)
	}

	resp = doJSON(t, app, http.MethodPut, "/api/v1/profile", `{"email":"not-an-email"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestPhotosRequireCondition(t *testing.T) {
	app := newTestApp(t, &fakeWeather{})

	resp := doJSON(t, app, http.MethodGet, "/api/v1/photos/weather", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// No Unsplash key configured: the client resolves no image.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/photos/weather?condition=Clear", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}
