package schedule

import "context"

// Delivery is the port to the external notification-scheduling subsystem.
// The scheduler is the sole owner of the delivered set: no other component
// may add or cancel entries behind its back.
type Delivery interface {
	// CancelAll voids every previously scheduled notification.
	CancelAll(ctx context.Context) error

	// Submit schedules one notification. The delivery subsystem owns the
	// request from this point on; there is no callback.
	Submit(ctx context.Context, req *Request) error
}
