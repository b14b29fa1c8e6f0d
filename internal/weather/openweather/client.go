package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skycast/weatherdash/internal/location"
	"github.com/skycast/weatherdash/internal/weather"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5"
	defaultGeoURL  = "https://api.openweathermap.org/geo/1.0"
)

// Client implements weather.Client against the OpenWeatherMap API.
type Client struct {
	apiKey  string
	baseURL string
	geoURL  string
	http    *http.Client
	backoff backoffConfig

	// One breaker per upstream endpoint group so a broken geocoding
	// endpoint does not trip weather fetches.
	weatherCB  *gobreaker.CircuitBreaker
	forecastCB *gobreaker.CircuitBreaker
	geoCB      *gobreaker.CircuitBreaker
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURLs overrides the API endpoints, used by tests.
func WithBaseURLs(base, geo string) Option {
	return func(c *Client) {
		c.baseURL = base
		c.geoURL = geo
	}
}

// NewClient creates an OpenWeatherMap client sharing the given HTTP client.
func NewClient(httpClient *http.Client, apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		geoURL:     defaultGeoURL,
		http:       httpClient,
		backoff:    defaultBackoff,
		weatherCB:  newBreaker("openweather-current"),
		forecastCB: newBreaker("openweather-forecast"),
		geoCB:      newBreaker("openweather-geo"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ weather.Client = (*Client)(nil)

// CurrentByCity fetches the current weather for a city name.
func (c *Client) CurrentByCity(ctx context.Context, city string, unit weather.Unit) (weather.Snapshot, error) {
	values := url.Values{}
	values.Set("q", city)
	return c.current(ctx, values, unit)
}

// CurrentByCoords fetches the current weather for coordinates.
func (c *Client) CurrentByCoords(ctx context.Context, lat, lon float64, unit weather.Unit) (weather.Snapshot, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return c.current(ctx, values, unit)
}

func (c *Client) current(ctx context.Context, values url.Values, unit weather.Unit) (weather.Snapshot, error) {
	values.Set("appid", c.apiKey)
	values.Set("units", string(unit))

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/weather?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, c.http, c.weatherCB, c.backoff, "weather", buildRequest)
	if err != nil {
		return weather.Snapshot{}, err
	}
	defer resp.Body.Close()

	var payload currentPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, &weather.FetchError{Op: "weather", Err: err}
	}

	return payload.toSnapshot(unit), nil
}

// ForecastByCity fetches the 5-day/3-hour forecast for a city name.
func (c *Client) ForecastByCity(ctx context.Context, city string, unit weather.Unit) (weather.Forecast, error) {
	values := url.Values{}
	values.Set("q", city)
	return c.forecast(ctx, values, unit)
}

// ForecastByCoords fetches the 5-day/3-hour forecast for coordinates.
func (c *Client) ForecastByCoords(ctx context.Context, lat, lon float64, unit weather.Unit) (weather.Forecast, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return c.forecast(ctx, values, unit)
}

func (c *Client) forecast(ctx context.Context, values url.Values, unit weather.Unit) (weather.Forecast, error) {
	values.Set("appid", c.apiKey)
	values.Set("units", string(unit))

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/forecast?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, c.http, c.forecastCB, c.backoff, "forecast", buildRequest)
	if err != nil {
		return weather.Forecast{}, err
	}
	defer resp.Body.Close()

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Forecast{}, &weather.FetchError{Op: "forecast", Err: err}
	}

	return payload.toForecast(unit), nil
}

// SearchLocations resolves a free-text query to geocoded locations.
func (c *Client) SearchLocations(ctx context.Context, query string, limit int) ([]location.Location, error) {
	if limit <= 0 {
		limit = 5
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))
	values.Set("appid", c.apiKey)

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/direct?%s", c.geoURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, c.http, c.geoCB, c.backoff, "geocoding", buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload []geoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &weather.FetchError{Op: "geocoding", Err: err}
	}

	locs := make([]location.Location, 0, len(payload))
	for _, p := range payload {
		locs = append(locs, location.Location{
			Name:    p.Name,
			State:   p.State,
			Country: p.Country,
			Lat:     p.Lat,
			Lon:     p.Lon,
		})
	}
	return locs, nil
}

// currentPayload mirrors the /data/2.5/weather response.
type currentPayload struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
		Gust  float64 `json:"gust"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	Name     string `json:"name"`
}

func (p currentPayload) toSnapshot(unit weather.Unit) weather.Snapshot {
	snap := weather.Snapshot{
		Name:    p.Name,
		Country: p.Sys.Country,
		Lat:     p.Coord.Lat,
		Lon:     p.Coord.Lon,
		Readings: weather.Readings{
			Temp:      p.Main.Temp,
			FeelsLike: p.Main.FeelsLike,
			TempMin:   p.Main.TempMin,
			TempMax:   p.Main.TempMax,
			Pressure:  p.Main.Pressure,
			Humidity:  p.Main.Humidity,
		},
		Wind: weather.Wind{
			Speed: p.Wind.Speed,
			Deg:   p.Wind.Deg,
			Gust:  p.Wind.Gust,
		},
		Clouds:         p.Clouds.All,
		Visibility:     p.Visibility,
		Sunrise:        time.Unix(p.Sys.Sunrise, 0).UTC(),
		Sunset:         time.Unix(p.Sys.Sunset, 0).UTC(),
		Observed:       time.Unix(p.Dt, 0).UTC(),
		TimezoneOffset: p.Timezone,
		Unit:           unit,
	}
	if len(p.Weather) > 0 {
		w := p.Weather[0]
		snap.Condition = weather.Condition{ID: w.ID, Main: w.Main, Description: w.Description, Icon: w.Icon}
	}
	return snap
}

// forecastPayload mirrors the /data/2.5/forecast response.
type forecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
			Pressure  float64 `json:"pressure"`
			Humidity  float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			ID          int    `json:"id"`
			Main        string `json:"main"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Clouds struct {
			All int `json:"all"`
		} `json:"clouds"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
			Gust  float64 `json:"gust"`
		} `json:"wind"`
		Pop float64 `json:"pop"`
	} `json:"list"`
	City struct {
		Name  string `json:"name"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Country string `json:"country"`
	} `json:"city"`
}

func (p forecastPayload) toForecast(unit weather.Unit) weather.Forecast {
	fc := weather.Forecast{
		City: location.Location{
			Name:    p.City.Name,
			Country: p.City.Country,
			Lat:     p.City.Coord.Lat,
			Lon:     p.City.Coord.Lon,
		},
		Entries: make([]weather.ForecastEntry, 0, len(p.List)),
		Unit:    unit,
	}
	for _, item := range p.List {
		entry := weather.ForecastEntry{
			At: time.Unix(item.Dt, 0).UTC(),
			Readings: weather.Readings{
				Temp:      item.Main.Temp,
				FeelsLike: item.Main.FeelsLike,
				TempMin:   item.Main.TempMin,
				TempMax:   item.Main.TempMax,
				Pressure:  item.Main.Pressure,
				Humidity:  item.Main.Humidity,
			},
			Wind: weather.Wind{
				Speed: item.Wind.Speed,
				Deg:   item.Wind.Deg,
				Gust:  item.Wind.Gust,
			},
			Clouds: item.Clouds.All,
			Pop:    item.Pop,
		}
		if len(item.Weather) > 0 {
			w := item.Weather[0]
			entry.Condition = weather.Condition{ID: w.ID, Main: w.Main, Description: w.Description, Icon: w.Icon}
		}
		fc.Entries = append(fc.Entries, entry)
	}
	return fc
}

// geoPayload mirrors one element of the /geo/1.0/direct response.
type geoPayload struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}
