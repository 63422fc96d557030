package city

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	appMiddleware "github.com/FACorreiaa/go-city-weather/app/middleware"
	"github.com/FACorreiaa/go-city-weather/internal/api"
	"github.com/FACorreiaa/go-city-weather/internal/api/weather"
	"github.com/FACorreiaa/go-city-weather/internal/types"
	"github.com/FACorreiaa/go-city-weather/internal/views"
)

// allowedOutsideCities is advertised with 405 responses.
const allowedOutsideCities = "GET, HEAD"

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
	views   *views.Renderer
}

func NewCityHandler(service Service, renderer *views.Renderer, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
		views:   renderer,
	}
}

// MainPage godoc
// @Summary      Main page
// @Description  Static landing page. Served for every GET path outside /cities and /weather.
// @Tags         Pages
// @Produce      html
// @Success      200 {string} string "HTML page"
// @Router       / [get]
func (h *HandlerImpl) MainPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.views.MainPage()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render main page", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to render page")
		return
	}
	api.WriteHTML(w, r, page)
}

// CitiesPage godoc
// @Summary      List cities
// @Description  HTML list of every saved city with its coordinates.
// @Tags         Pages
// @Produce      html
// @Success      200 {string} string "HTML page"
// @Failure      500 {string} string "Internal Server Error"
// @Router       /cities [get]
func (h *HandlerImpl) CitiesPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "CitiesPage")
	defer span.End()

	l := h.logger.With(slog.String("handler", "CitiesPage"))

	cities, err := h.service.ListCities(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to retrieve cities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve cities")
		return
	}

	page, err := h.views.CitiesPage(cities)
	if err != nil {
		l.ErrorContext(ctx, "Failed to render cities page", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to render page")
		return
	}
	api.WriteHTML(w, r, page)
	span.SetStatus(codes.Ok, "Cities returned successfully")
}

// WeatherPage godoc
// @Summary      Weather for a city
// @Description  Current weather for a saved city. Without the city parameter a form listing every saved city is returned.
// @Tags         Pages
// @Produce      html
// @Param        city query string false "City name"
// @Success      200 {string} string "HTML page"
// @Failure      404 {string} string "City not found"
// @Failure      502 {string} string "Weather provider error"
// @Failure      503 {string} string "Weather provider unreachable"
// @Router       /weather [get]
func (h *HandlerImpl) WeatherPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "WeatherPage")
	defer span.End()

	l := h.logger.With(slog.String("handler", "WeatherPage"))

	cityName := strings.TrimSpace(r.URL.Query().Get("city"))
	if cityName == "" {
		names, err := h.service.ListCityNames(ctx)
		if err != nil {
			l.ErrorContext(ctx, "Failed to retrieve city names", slog.Any("error", err))
			span.RecordError(err)
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve cities")
			return
		}
		page, err := h.views.WeatherFormPage(names)
		if err != nil {
			l.ErrorContext(ctx, "Failed to render weather form", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to render page")
			return
		}
		api.WriteHTML(w, r, page)
		return
	}

	span.SetAttributes(attribute.String("city.name", cityName))
	snapshot, err := h.service.GetWeather(ctx, cityName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Weather lookup failed")

		var apiErr *weather.ForeignAPIError
		switch {
		case errors.Is(err, types.ErrCityNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, fmt.Sprintf("City %s not found", cityName))
		case errors.As(err, &apiErr):
			l.ErrorContext(ctx, "Weather provider rejected the request", slog.Int("status", apiErr.StatusCode))
			api.ErrorResponse(w, r, http.StatusBadGateway, apiErr.Error())
		case errors.Is(err, types.ErrWeatherUnavailable):
			api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Weather service unavailable")
		default:
			l.ErrorContext(ctx, "Failed to look up weather", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve weather")
		}
		return
	}

	page, err := h.views.WeatherPage(snapshot)
	if err != nil {
		l.ErrorContext(ctx, "Failed to render weather page", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to render page")
		return
	}
	api.WriteHTML(w, r, page)
}

// Head answers HEAD on any path with an empty 200.
func (h *HandlerImpl) Head(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
}

// Fallback serves requests no route accepts: HEAD is answered like Head,
// everything else is a mutation outside /cities and gets 405.
func (h *HandlerImpl) Fallback(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		h.Head(w, r)
		return
	}
	h.logger.WarnContext(r.Context(), "Method not allowed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	api.WriteText(w, r, http.StatusMethodNotAllowed, "Method Not Allowed",
		http.Header{"Allow": {allowedOutsideCities}})
}

// CreateCity godoc
// @Summary      Add a city
// @Description  Inserts a city. The body must contain exactly name, latitude and longitude.
// @Tags         Cities
// @Accept       json
// @Produce      plain
// @Param        WEATHER_API_KEY header string true "API token"
// @Param        city body types.CityPayload true "City"
// @Success      201 {string} string "Created"
// @Success      200 {string} string "Already exists"
// @Failure      400 {string} string "Bad Request"
// @Failure      403 {string} string "Forbidden"
// @Failure      500 {string} string "Internal Server Error"
// @Router       /cities [post]
func (h *HandlerImpl) CreateCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "CreateCity")
	defer span.End()

	var payload types.CityPayload
	if err := api.DecodeJSONBody(w, r, &payload, types.CityPayloadKeys...); err != nil {
		h.logger.WarnContext(ctx, "Invalid city body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.create(w, r.WithContext(ctx), payload)
}

// create is shared by POST and by PUT on a city that does not exist yet.
func (h *HandlerImpl) create(w http.ResponseWriter, r *http.Request, payload types.CityPayload) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateCity"), actor(ctx))

	city, err := payload.ToCity()
	if err != nil {
		l.WarnContext(ctx, "Rejected city", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err = h.service.CreateCity(ctx, city)
	switch {
	case err == nil:
		l.InfoContext(ctx, "City added", slog.String("city", city.Name))
		api.WriteText(w, r, http.StatusCreated, fmt.Sprintf("City %s added", city.Name))
	case errors.Is(err, types.ErrCityExists):
		api.WriteText(w, r, http.StatusOK, fmt.Sprintf("City %s already exists", city.Name))
	default:
		l.ErrorContext(ctx, "Failed to add city", slog.String("city", city.Name), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, fmt.Sprintf("Failed to add city %s", city.Name))
	}
}

// UpdateCity godoc
// @Summary      Update a city
// @Description  Partially updates a city. When the city does not exist the request is handled like POST /cities.
// @Tags         Cities
// @Accept       json
// @Produce      plain
// @Param        WEATHER_API_KEY header string true "API token"
// @Param        name query string true "City name"
// @Param        city body types.CityPayload true "Attributes to change"
// @Success      200 {string} string "Updated"
// @Success      201 {string} string "Created"
// @Failure      400 {string} string "Bad Request"
// @Failure      403 {string} string "Forbidden"
// @Failure      500 {string} string "Internal Server Error"
// @Router       /cities [put]
func (h *HandlerImpl) UpdateCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "UpdateCity")
	defer span.End()
	r = r.WithContext(ctx)

	l := h.logger.With(slog.String("handler", "UpdateCity"), actor(ctx))

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter name is required")
		return
	}
	span.SetAttributes(attribute.String("city.name", name))

	var payload types.CityPayload
	if err := api.DecodeJSONBody(w, r, &payload, types.CityPayloadKeys...); err != nil {
		l.WarnContext(ctx, "Invalid city body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	exists, err := h.service.CityExists(ctx, name)
	if err != nil {
		l.ErrorContext(ctx, "Failed to check city", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to check city")
		return
	}
	if !exists {
		l.InfoContext(ctx, "City does not exist, inserting instead", slog.String("city", name))
		h.create(w, r, payload)
		return
	}

	patch, err := payload.ToPatch()
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err = h.service.UpdateCity(ctx, name, patch)
	switch {
	case err == nil:
		l.InfoContext(ctx, "City updated", slog.String("city", name))
		api.WriteText(w, r, http.StatusOK, fmt.Sprintf("City %s updated", name))
	case errors.Is(err, types.ErrCityExists) && patch.Name != nil:
		api.WriteText(w, r, http.StatusOK, fmt.Sprintf("City %s already exists", *patch.Name))
	default:
		l.ErrorContext(ctx, "Failed to update city", slog.String("city", name), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, fmt.Sprintf("Failed to update city %s", name))
	}
}

// DeleteCity godoc
// @Summary      Delete a city
// @Tags         Cities
// @Produce      plain
// @Param        WEATHER_API_KEY header string true "API token"
// @Param        name query string true "City name"
// @Success      204 "Deleted"
// @Success      202 {string} string "City did not exist"
// @Failure      400 {string} string "Bad Request"
// @Failure      403 {string} string "Forbidden"
// @Failure      500 {string} string "Internal Server Error"
// @Router       /cities [delete]
func (h *HandlerImpl) DeleteCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "DeleteCity")
	defer span.End()

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter name is required")
		return
	}

	l := h.logger.With(slog.String("handler", "DeleteCity"), actor(ctx))

	err := h.service.DeleteCity(ctx, name)
	switch {
	case err == nil:
		l.InfoContext(ctx, "City deleted", slog.String("city", name))
		api.WriteText(w, r, http.StatusNoContent, "")
	case errors.Is(err, types.ErrCityNotFound):
		api.WriteText(w, r, http.StatusAccepted, fmt.Sprintf("City %s does not exist, nothing to delete", name))
	default:
		l.ErrorContext(ctx, "Failed to delete city", slog.String("city", name), slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, fmt.Sprintf("Failed to delete city %s", name))
	}
}

// actor identifies the caller in logs by a short prefix of its API token.
func actor(ctx context.Context) slog.Attr {
	token, ok := appMiddleware.GetAPITokenFromContext(ctx)
	if !ok {
		return slog.String("actor", "anonymous")
	}
	if len(token) <= 4 {
		return slog.String("actor", "****")
	}
	return slog.String("actor", token[:4]+"****")
}
