package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/sunalert/sunalert/internal/api/models"
	"github.com/sunalert/sunalert/internal/api/response"
	"github.com/sunalert/sunalert/internal/solar"
)

// SunHandler handles solar time lookup endpoints.
type SunHandler struct {
	cache *solar.Cache
}

// NewSunHandler creates a new SunHandler.
func NewSunHandler(cache *solar.Cache) *SunHandler {
	return &SunHandler{cache: cache}
}

// GetToday handles GET /v1/sun/today?lat=&lon=&date= - sunrise and sunset
// for one calendar day. date defaults to today (UTC).
func (h *SunHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var fieldErrors []models.FieldError
	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lat", Message: "must be a number"})
	} else if math.IsNaN(lat) || lat < -90 || lat > 90 {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lat", Message: "must be between -90 and 90"})
	}
	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lon", Message: "must be a number"})
	} else if math.IsNaN(lon) || lon < -180 || lon > 180 {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lon", Message: "must be between -180 and 180"})
	}

	date := time.Now().UTC()
	if raw := query.Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{Field: "date", Message: "must be YYYY-MM-DD"})
		} else {
			date = parsed
		}
	}

	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid query parameters", fieldErrors)
		return
	}

	day, err := h.cache.Times(date, solar.Coordinate{Lat: lat, Lon: lon})
	if err != nil {
		response.BadRequest(w, r, "coordinate out of range", nil)
		return
	}

	times := models.SolarTimes{
		Date:      day.Date.Format("2006-01-02"),
		Condition: models.SolarCondition(day.Condition),
	}
	if day.Condition == solar.ConditionNormal {
		sunrise := models.Timestamp(day.Sunrise)
		sunset := models.Timestamp(day.Sunset)
		times.Sunrise = &sunrise
		times.Sunset = &sunset
	}
	response.JSON(w, r, http.StatusOK, times)
}
