package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// profileKey is the fixed primary key of the single profile row.
const profileKey = "default"

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL settings repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves the stored profile.
func (r *PostgresRepository) Get(ctx context.Context) (*Settings, error) {
	query := `
		SELECT sunrise_enabled, sunset_enabled,
			sunrise_offset_minutes, sunset_offset_minutes,
			window_days, sound, vibration,
			lat, lon, city, manual_location,
			updated_at
		FROM settings
		WHERE profile = $1
	`

	var (
		s      Settings
		lat    *float64
		lon    *float64
		city   *string
		manual *bool
	)

	err := r.pool.QueryRow(ctx, query, profileKey).Scan(
		&s.SunriseEnabled,
		&s.SunsetEnabled,
		&s.SunriseOffsetMinutes,
		&s.SunsetOffsetMinutes,
		&s.WindowDays,
		&s.Sound,
		&s.Vibration,
		&lat,
		&lon,
		&city,
		&manual,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}

	if lat != nil && lon != nil {
		loc := Location{Lat: *lat, Lon: *lon}
		if city != nil {
			loc.City = *city
		}
		if manual != nil {
			loc.Manual = *manual
		}
		s.Location = &loc
	}

	return &s, nil
}

// Save creates or replaces the stored profile.
func (r *PostgresRepository) Save(ctx context.Context, s *Settings) error {
	query := `
		INSERT INTO settings (
			profile, sunrise_enabled, sunset_enabled,
			sunrise_offset_minutes, sunset_offset_minutes,
			window_days, sound, vibration,
			lat, lon, city, manual_location,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (profile) DO UPDATE SET
			sunrise_enabled = EXCLUDED.sunrise_enabled,
			sunset_enabled = EXCLUDED.sunset_enabled,
			sunrise_offset_minutes = EXCLUDED.sunrise_offset_minutes,
			sunset_offset_minutes = EXCLUDED.sunset_offset_minutes,
			window_days = EXCLUDED.window_days,
			sound = EXCLUDED.sound,
			vibration = EXCLUDED.vibration,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			city = EXCLUDED.city,
			manual_location = EXCLUDED.manual_location,
			updated_at = EXCLUDED.updated_at
	`

	var (
		lat    *float64
		lon    *float64
		city   *string
		manual *bool
	)
	if s.Location != nil {
		lat = &s.Location.Lat
		lon = &s.Location.Lon
		city = &s.Location.City
		manual = &s.Location.Manual
	}

	_, err := r.pool.Exec(ctx, query,
		profileKey,
		s.SunriseEnabled,
		s.SunsetEnabled,
		s.SunriseOffsetMinutes,
		s.SunsetOffsetMinutes,
		s.WindowDays,
		s.Sound,
		s.Vibration,
		lat,
		lon,
		city,
		manual,
		s.UpdatedAt,
	)
	return err
}
