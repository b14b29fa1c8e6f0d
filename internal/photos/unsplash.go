// Package photos fetches background photos matching a weather condition from
// the Unsplash search API.
package photos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://api.unsplash.com"
	appName        = "skycast-weather-dashboard"
	resultsPerPage = 5
)

// Attribution credits the photographer, as Unsplash's terms require.
type Attribution struct {
	Name       string `json:"name"`
	Username   string `json:"username"`
	ProfileURL string `json:"profileUrl"`
}

// ImageData is a resolved background photo with attribution.
type ImageData struct {
	ImageURL     string      `json:"imageUrl"`
	Photographer Attribution `json:"photographer"`
	PhotoURL     string      `json:"photoUrl"`
}

// Client queries Unsplash and memoizes results per condition/location/size.
type Client struct {
	http      *http.Client
	accessKey string
	baseURL   string
	log       zerolog.Logger

	mu    sync.Mutex
	cache map[string]*ImageData
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// NewClient creates an Unsplash client. An empty access key disables lookups:
// WeatherImage then returns nil without error.
func NewClient(httpClient *http.Client, accessKey string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		http:      httpClient,
		accessKey: accessKey,
		baseURL:   defaultBaseURL,
		log:       log.With().Str("component", "photos").Logger(),
		cache:     make(map[string]*ImageData),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WeatherImage finds a landscape photo for a weather condition. locationID,
// when set, deterministically varies the picked photo so different locations
// with the same condition get different images. Returns nil when no key is
// configured or nothing matched.
func (c *Client) WeatherImage(ctx context.Context, condition string, width, height int, locationID string) (*ImageData, error) {
	if c.accessKey == "" {
		c.log.Warn().Msg("unsplash access key not configured")
		return nil, nil
	}

	cacheKey := cacheKeyFor(condition, locationID, width, height)
	c.mu.Lock()
	if img, ok := c.cache[cacheKey]; ok {
		c.mu.Unlock()
		return img, nil
	}
	c.mu.Unlock()

	values := url.Values{}
	values.Set("query", searchQueryFor(condition))
	values.Set("per_page", strconv.Itoa(resultsPerPage))
	values.Set("orientation", "landscape")
	values.Set("content_filter", "high")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/search/photos?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash api error: status %d", resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			URLs struct {
				Raw string `json:"raw"`
			} `json:"urls"`
			User struct {
				Username string `json:"username"`
				Name     string `json:"name"`
				Links    struct {
					HTML string `json:"html"`
				} `json:"links"`
			} `json:"user"`
			Links struct {
				HTML string `json:"html"`
			} `json:"links"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode unsplash response: %w", err)
	}

	if len(payload.Results) == 0 {
		return nil, nil
	}

	idx := 0
	if locationID != "" && len(payload.Results) > 1 {
		idx = codepointSum(locationID) % len(payload.Results)
	}
	photo := payload.Results[idx]

	referral := fmt.Sprintf("?utm_source=%s&utm_medium=referral", appName)
	img := &ImageData{
		ImageURL: fmt.Sprintf("%s&w=%d&h=%d&fit=crop&crop=center", photo.URLs.Raw, width, height),
		Photographer: Attribution{
			Name:       photo.User.Name,
			Username:   photo.User.Username,
			ProfileURL: photo.User.Links.HTML + referral,
		},
		PhotoURL: photo.Links.HTML + referral,
	}

	c.mu.Lock()
	c.cache[cacheKey] = img
	c.mu.Unlock()

	return img, nil
}

// searchQueryFor maps a raw weather condition to a search query that returns
// better-looking results than the condition text alone.
func searchQueryFor(condition string) string {
	cond := strings.ToLower(condition)
	switch {
	case strings.Contains(cond, "clear") || strings.Contains(cond, "sunny"):
		return "blue sky sunny day landscape"
	case strings.Contains(cond, "cloud"):
		return "cloudy sky landscape"
	case strings.Contains(cond, "rain") || strings.Contains(cond, "drizzle"):
		return "rain weather landscape"
	case strings.Contains(cond, "thunder") || strings.Contains(cond, "storm"):
		return "storm thunder lightning landscape"
	case strings.Contains(cond, "snow"):
		return "snow winter landscape"
	case strings.Contains(cond, "mist") || strings.Contains(cond, "fog") || strings.Contains(cond, "haze"):
		return "fog mist landscape"
	}
	return cond + " weather landscape"
}

func cacheKeyFor(condition, locationID string, width, height int) string {
	if locationID != "" {
		return fmt.Sprintf("%s-%s-%dx%d", condition, locationID, width, height)
	}
	return fmt.Sprintf("%s-%dx%d", condition, width, height)
}

// codepointSum hashes a location ID so the same location always selects the
// same photo from a result page.
func codepointSum(s string) int {
	sum := 0
	for _, r := range s {
		sum += int(r)
	}
	return sum
}
