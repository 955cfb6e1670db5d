package schedule

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDelivery is a PostgreSQL implementation of Delivery. The
// scheduled_notifications table is the durable scheduled set the companion
// device syncs into its local notification service.
type PostgresDelivery struct {
	pool *pgxpool.Pool
}

// NewPostgresDelivery creates a new PostgreSQL delivery port.
func NewPostgresDelivery(pool *pgxpool.Pool) *PostgresDelivery {
	return &PostgresDelivery{pool: pool}
}

// CancelAll voids every scheduled notification.
func (d *PostgresDelivery) CancelAll(ctx context.Context) error {
	_, err := d.pool.Exec(ctx, `DELETE FROM scheduled_notifications`)
	return err
}

// Submit stores one scheduled notification.
func (d *PostgresDelivery) Submit(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO scheduled_notifications (
			id, event_type, fire_at,
			trigger_year, trigger_month, trigger_day, trigger_hour, trigger_minute,
			channel_id, title, body, apns_sound, fcm_sound, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := d.pool.Exec(ctx, query,
		req.ID,
		string(req.EventType),
		req.FireAt,
		req.Trigger.Year,
		int(req.Trigger.Month),
		req.Trigger.Day,
		req.Trigger.Hour,
		req.Trigger.Minute,
		req.ChannelID,
		req.Title,
		req.Body,
		req.APNSSound,
		req.FCMSound,
		time.Now(),
	)
	return err
}

// List returns the scheduled set ordered by fire time. List is not part of
// the Delivery port; it backs the device sync endpoint, which only reads.
func (d *PostgresDelivery) List(ctx context.Context) ([]*Request, error) {
	query := `
		SELECT id, event_type, fire_at,
			trigger_year, trigger_month, trigger_day, trigger_hour, trigger_minute,
			channel_id, title, body, apns_sound, fcm_sound
		FROM scheduled_notifications
		ORDER BY fire_at
	`

	rows, err := d.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		var (
			req       Request
			eventType string
			month     int
		)
		err := rows.Scan(
			&req.ID,
			&eventType,
			&req.FireAt,
			&req.Trigger.Year,
			&month,
			&req.Trigger.Day,
			&req.Trigger.Hour,
			&req.Trigger.Minute,
			&req.ChannelID,
			&req.Title,
			&req.Body,
			&req.APNSSound,
			&req.FCMSound,
		)
		if err != nil {
			return nil, err
		}
		req.EventType = EventType(eventType)
		req.Trigger.Month = time.Month(month)
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
