package httpapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/skycast/weatherdash/internal/favorites"
	"github.com/skycast/weatherdash/internal/location"
	"github.com/skycast/weatherdash/internal/photos"
	"github.com/skycast/weatherdash/internal/profile"
	"github.com/skycast/weatherdash/internal/session"
	"github.com/skycast/weatherdash/internal/theme"
	"github.com/skycast/weatherdash/internal/weather"
)

var validate = validator.New()

// Deps bundles the stores and clients the HTTP surface drives. Every route
// maps onto one UI-triggered action; the handlers own no state of their own.
type Deps struct {
	Session   *session.Session
	Favorites *favorites.Store
	Theme     *theme.Store
	Profile   *profile.Store
	Photos    *photos.Client
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		if city := c.Query("city"); city != "" {
			if err := deps.Session.FetchCurrentWeather(c.Context(), city); err != nil {
				return fiber.NewError(fiber.StatusBadGateway, deps.Session.LastError())
			}
			return c.JSON(deps.Session.CurrentWeather())
		}

		lat, lon, err := parseCoords(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := deps.Session.FetchCurrentWeatherByCoords(c.Context(), lat, lon); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, deps.Session.LastError())
		}
		return c.JSON(deps.Session.CurrentWeather())
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		if city := c.Query("city"); city != "" {
			if err := deps.Session.FetchForecast(c.Context(), city); err != nil {
				return fiber.NewError(fiber.StatusBadGateway, deps.Session.LastError())
			}
			return c.JSON(deps.Session.Forecast())
		}

		lat, lon, err := parseCoords(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := deps.Session.FetchForecastByCoords(c.Context(), lat, lon); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, deps.Session.LastError())
		}
		return c.JSON(deps.Session.Forecast())
	})

	v1.Get("/locations/search", func(c *fiber.Ctx) error {
		var req searchQuery
		req.Query = c.Query("q")
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		locs, err := deps.Session.SearchLocations(c.Context(), req.Query)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, deps.Session.LastError())
		}
		return c.JSON(locs)
	})

	v1.Get("/locations/device", func(c *fiber.Ctx) error {
		pos, err := deps.Session.UseCurrentLocation(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, deps.Session.LastError())
		}
		return c.JSON(fiber.Map{
			"position": pos,
			"weather":  deps.Session.CurrentWeather(),
			"forecast": deps.Session.Forecast(),
		})
	})

	v1.Get("/favorites", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"favorites": deps.Favorites.Favorites(),
			"weather":   deps.Favorites.Snapshots(),
		})
	})

	v1.Post("/favorites", func(c *fiber.Ctx) error {
		var req favoriteRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := req.toLocation()
		if err := deps.Favorites.Add(c.Context(), loc, deps.Session.Unit()); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save favorite")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id": location.DeriveID(loc),
		})
	})

	v1.Delete("/favorites/:id", func(c *fiber.Ctx) error {
		if err := deps.Favorites.Remove(c.Context(), c.Params("id"), deps.Session.Unit()); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to remove favorite")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/settings/unit", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"unit": deps.Session.Unit()})
	})

	v1.Put("/settings/unit", func(c *fiber.Ctx) error {
		var req unitRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		unit := weather.Unit(req.Unit)
		if !unit.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "unit must be one of metric, imperial, standard")
		}
		deps.Session.SetUnit(c.Context(), unit)
		return c.JSON(fiber.Map{"unit": unit})
	})

	v1.Get("/settings/theme", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"mode":   deps.Theme.Mode(),
			"isDark": deps.Theme.IsDark(),
		})
	})

	v1.Put("/settings/theme", func(c *fiber.Ctx) error {
		var req themeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		mode := theme.Mode(req.Mode)
		if !mode.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "mode must be one of light, dark, system")
		}
		deps.Theme.SetMode(mode)
		return c.JSON(fiber.Map{"mode": deps.Theme.Mode()})
	})

	v1.Post("/settings/theme/toggle", func(c *fiber.Ctx) error {
		deps.Theme.Toggle()
		return c.JSON(fiber.Map{"mode": deps.Theme.Mode()})
	})

	v1.Get("/profile", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"profile":        deps.Profile.Profile(),
			"gravatarUrl":    deps.Profile.GravatarURL(),
			"formattedPhone": deps.Profile.FormattedPhone(),
			"displayInfo":    deps.Profile.DisplayInfo(),
		})
	})

	v1.Put("/profile", func(c *fiber.Ctx) error {
		var req profileRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := deps.Profile.Update(profile.Profile{
			Name:        req.Name,
			Email:       req.Email,
			Phone:       req.Phone,
			CountryCode: req.CountryCode,
		}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save profile")
		}
		return c.JSON(deps.Profile.Profile())
	})

	v1.Get("/profile/countries", func(c *fiber.Ctx) error {
		return c.JSON(profile.Countries)
	})

	v1.Get("/photos/weather", func(c *fiber.Ctx) error {
		condition := c.Query("condition")
		if condition == "" {
			return fiber.NewError(fiber.StatusBadRequest, "condition query parameter is required")
		}
		width := queryInt(c, "width", 800)
		height := queryInt(c, "height", 600)

		img, err := deps.Photos.WeatherImage(c.Context(), condition, width, height, c.Query("location_id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather image")
		}
		if img == nil {
			return fiber.NewError(fiber.StatusNotFound, "no image found for condition")
		}
		return c.JSON(img)
	})
}

type searchQuery struct {
	Query string `validate:"required"`
}

type favoriteRequest struct {
	Name    string  `json:"name" validate:"required"`
	State   string  `json:"state"`
	Country string  `json:"country" validate:"required"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (r favoriteRequest) toLocation() location.Location {
	return location.Location{
		Name:    r.Name,
		State:   r.State,
		Country: r.Country,
		Lat:     r.Lat,
		Lon:     r.Lon,
	}
}

type unitRequest struct {
	Unit string `json:"unit"`
}

type themeRequest struct {
	Mode string `json:"mode"`
}

type profileRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	CountryCode string `json:"countryCode"`
}

func parseCoords(c *fiber.Ctx) (float64, float64, error) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "city or lat/lon query parameters are required")
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "city or lat/lon query parameters are required")
	}
	return lat, lon, nil
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
