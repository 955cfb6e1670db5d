package settings

import (
	"context"
	"errors"
	"time"

	"github.com/sunalert/sunalert/internal/api/models"
)

// Service provides settings operations.
type Service struct {
	repo Repository
}

// NewService creates a new settings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get retrieves the profile, falling back to defaults when nothing has been
// saved yet.
func (s *Service) Get(ctx context.Context) (*Settings, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return Defaults(), nil
		}
		return nil, err
	}
	return stored, nil
}

// Update applies a partial update to the profile and persists the result.
func (s *Service) Update(ctx context.Context, input *models.SettingsPatchRequest) (*Settings, error) {
	if fieldErrors := validatePatch(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.SunriseEnabled != nil {
		current.SunriseEnabled = *input.SunriseEnabled
	}
	if input.SunsetEnabled != nil {
		current.SunsetEnabled = *input.SunsetEnabled
	}
	if input.SunriseOffsetMinutes != nil {
		current.SunriseOffsetMinutes = *input.SunriseOffsetMinutes
	}
	if input.SunsetOffsetMinutes != nil {
		current.SunsetOffsetMinutes = *input.SunsetOffsetMinutes
	}
	if input.WindowDays != nil {
		current.WindowDays = *input.WindowDays
	}
	if input.Sound != nil {
		current.Sound = *input.Sound
	}
	if input.Vibration != nil {
		current.Vibration = *input.Vibration
	}
	if input.Location != nil {
		current.Location = &Location{
			Lat:    input.Location.Point.Lat,
			Lon:    input.Location.Point.Lon,
			City:   input.Location.City,
			Manual: input.Location.Manual,
		}
	}
	current.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func validatePatch(input *models.SettingsPatchRequest) []models.FieldError {
	var errs []models.FieldError

	if input.SunriseOffsetMinutes != nil && outOfOffsetRange(*input.SunriseOffsetMinutes) {
		errs = append(errs, models.FieldError{
			Field:   "sunriseOffsetMinutes",
			Message: "must be between -720 and 720",
		})
	}
	if input.SunsetOffsetMinutes != nil && outOfOffsetRange(*input.SunsetOffsetMinutes) {
		errs = append(errs, models.FieldError{
			Field:   "sunsetOffsetMinutes",
			Message: "must be between -720 and 720",
		})
	}
	if input.WindowDays != nil && (*input.WindowDays < MinWindowDays || *input.WindowDays > MaxWindowDays) {
		errs = append(errs, models.FieldError{
			Field:   "windowDays",
			Message: "must be between 1 and 60",
		})
	}
	if input.Location != nil {
		if input.Location.Point.Lat < -90 || input.Location.Point.Lat > 90 {
			errs = append(errs, models.FieldError{
				Field:   "location.point.lat",
				Message: "must be between -90 and 90",
			})
		}
		if input.Location.Point.Lon < -180 || input.Location.Point.Lon > 180 {
			errs = append(errs, models.FieldError{
				Field:   "location.point.lon",
				Message: "must be between -180 and 180",
			})
		}
	}

	return errs
}

func outOfOffsetRange(minutes int) bool {
	return minutes < -MaxOffsetMinutes || minutes > MaxOffsetMinutes
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
