package handler // handler defines http handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
)

// The handlers depend on narrow store interfaces rather than the
// concrete repositories so the reservation rules can be exercised in
// tests without a database. The repository types satisfy these
// interfaces; main wires them in.

// UserStore is the account directory as seen by the auth handlers.
type UserStore interface {
	Create(ctx context.Context, handle, displayName, password string, cost int) (uint64, error)
	GetByHandle(ctx context.Context, handle string) (model.User, error)
}

// TableStore is the read-only table catalog.
type TableStore interface {
	List(ctx context.Context) ([]model.Table, error)
	GetByID(ctx context.Context, id uint64) (model.Table, error)
}

// ReservationStore is the reservation ledger's persistence surface.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) (uint64, error)
	SlotTaken(ctx context.Context, tableID uint64, date string, period model.TimePeriod) (bool, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	GetByIDForUser(ctx context.Context, id, userID uint64) (model.Reservation, error)
	Delete(ctx context.Context, id uint64) (int64, error)
	BookedTableIDs(ctx context.Context, date string, period model.TimePeriod) (map[uint64]bool, error)
}

// EventPublisher emits domain events after successful bookings. A nil
// publisher disables events; failures never affect the request.
type EventPublisher interface {
	ReservationBooked(ctx context.Context, ev queue.ReservationBookedEvent) error
}

// getUserID extracts the authenticated user id placed in context by the
// bearer middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
