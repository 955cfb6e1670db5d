package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sunalert/sunalert/internal/api/models"
	"github.com/sunalert/sunalert/internal/api/response"
	"github.com/sunalert/sunalert/internal/place"
)

// PlaceHandler handles the manual city catalog endpoints.
type PlaceHandler struct{}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler() *PlaceHandler {
	return &PlaceHandler{}
}

// ListPlaces handles GET /v1/places - the selectable city catalog.
// With ?nearLat=&nearLon= the catalog is reduced to the single closest city.
func (h *PlaceHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Has("nearLat") || query.Has("nearLon") {
		lat, latErr := strconv.ParseFloat(query.Get("nearLat"), 64)
		lon, lonErr := strconv.ParseFloat(query.Get("nearLon"), 64)
		if latErr != nil || lonErr != nil {
			response.BadRequest(w, r, "nearLat and nearLon must both be numbers", nil)
			return
		}
		nearest := place.Nearest(lat, lon)
		response.JSON(w, r, http.StatusOK, models.Cities{Items: []models.City{cityToAPI(nearest)}})
		return
	}

	catalog := place.Cities()
	items := make([]models.City, 0, len(catalog))
	for _, city := range catalog {
		items = append(items, cityToAPI(city))
	}
	response.JSON(w, r, http.StatusOK, models.Cities{Items: items})
}

// GetPlace handles GET /v1/places/{name} - look up one catalog city by name.
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		response.BadRequest(w, r, "name is required", nil)
		return
	}
	city, err := place.Lookup(name)
	if err != nil {
		if errors.Is(err, place.ErrCityNotFound) {
			response.NotFound(w, r, "city not in catalog")
			return
		}
		response.InternalError(w, r, "lookup failed")
		return
	}
	response.JSON(w, r, http.StatusOK, cityToAPI(city))
}

func cityToAPI(city place.City) models.City {
	return models.City{
		Name:     city.Name,
		Point:    models.Point{Lat: city.Lat, Lon: city.Lon},
		Timezone: city.Timezone,
	}
}
