package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// ReservationHandler implements the reservation ledger's HTTP surface:
// booking, listing, cancellation and the per-slot status view. All
// methods except Status assume the bearer middleware has already placed
// the authenticated user id in context.
type ReservationHandler struct {
	Tables       TableStore
	Reservations ReservationStore
	Events       EventPublisher // optional; nil disables events
}

// NewReservationHandler constructs a ReservationHandler. The event
// publisher may be nil.
func NewReservationHandler(tables TableStore, reservations ReservationStore, events EventPublisher) *ReservationHandler {
	if tables == nil || reservations == nil {
		panic("nil store passed to NewReservationHandler")
	}
	return &ReservationHandler{Tables: tables, Reservations: reservations, Events: events}
}

// ----- DTOs -----

type createReservationReq struct {
	TableID    uint64 `json:"tableId"`
	Date       string `json:"date"`
	TimePeriod string `json:"timePeriod"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	CardToken  string `json:"cardToken"`
	Guests     uint32 `json:"guests"`
}

// reservationResp deliberately has no card token field: the token is
// stored verbatim but never echoed back through the API.
type reservationResp struct {
	ID         uint64 `json:"id"`
	TableID    uint64 `json:"tableId"`
	Date       string `json:"date"`
	TimePeriod string `json:"timePeriod"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Guests     uint32 `json:"guests"`
	CreatedAt  string `json:"createdAt"`
}

// Create handles POST /reservations. The checks run in a fixed order:
// table existence, then capacity, then slot uniqueness. Capacity
// violations are reported even when the slot is also taken. The
// storage unique key remains the final arbiter: a concurrent create
// that slips past the pre-check still comes back as a slot conflict.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if _, err := model.ParseDate(req.Date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date format (YYYY-MM-DD)"})
	}
	period, ok := model.ParseTimePeriod(req.TimePeriod)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "timePeriod must be \"lunch\" or \"dinner\""})
	}
	if req.Guests == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests must be a positive number"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	table, err := h.Tables.GetByID(ctx, req.TableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		c.Logger().Errorf("reservation create: load table: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
	}
	if req.Guests > table.Capacity {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest count exceeds table capacity"})
	}

	taken, err := h.Reservations.SlotTaken(ctx, req.TableID, req.Date, period)
	if err != nil {
		c.Logger().Errorf("reservation create: slot check: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
	}
	if taken {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table already reserved for that slot"})
	}

	res := &model.Reservation{
		UserID:     userID,
		TableID:    req.TableID,
		Date:       req.Date,
		TimePeriod: period,
		Name:       req.Name,
		Phone:      req.Phone,
		CardToken:  req.CardToken,
		Guests:     req.Guests,
	}
	id, err := h.Reservations.Create(ctx, res)
	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "table already reserved for that slot"})
		}
		c.Logger().Errorf("reservation create: insert: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
	}

	if h.Events != nil {
		ev := queue.ReservationBookedEvent{
			ReservationID: id,
			UserID:        userID,
			TableID:       req.TableID,
			Date:          req.Date,
			TimePeriod:    string(period),
			GuestName:     req.Name,
			Guests:        req.Guests,
			BookedAt:      time.Now().UTC().Format(time.RFC3339),
		}
		// Best effort; a broker outage must not fail the booking.
		go func() { _ = h.Events.ReservationBooked(context.Background(), ev) }()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "reservation completed successfully",
		"reservationId": id,
	})
}

// List handles GET /reservations. It returns only the caller's
// reservations, ordered by date ascending with lunch before dinner.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	list, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Errorf("reservation list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}

	out := make([]reservationResp, 0, len(list))
	for _, res := range list {
		out = append(out, reservationResp{
			ID:         res.ID,
			TableID:    res.TableID,
			Date:       res.Date,
			TimePeriod: string(res.TimePeriod),
			Name:       res.Name,
			Phone:      res.Phone,
			Guests:     res.Guests,
			CreatedAt:  res.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Cancel handles DELETE /reservations/:id. Only the owner may cancel,
// and only strictly before the reservation date; nonexistence and
// foreign ownership are indistinguishable in the response.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		c.Logger().Errorf("reservation cancel: fetch: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancellation failed"})
	}

	// ISO dates compare correctly as strings; same-day and past
	// reservations cannot be cancelled.
	today := time.Now().Format(model.DateLayout)
	if res.Date <= today {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservations cannot be cancelled on or after the reservation date"})
	}

	affected, err := h.Reservations.Delete(ctx, id)
	if err != nil {
		c.Logger().Errorf("reservation cancel: delete: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancellation failed"})
	}
	if affected == 0 {
		// Deleted concurrently between the fetch and the delete.
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "reservation cancelled successfully"})
}

// Status handles GET /reservations/status?date=&timePeriod=. Every
// catalog table appears exactly once in the result, marked "booked" or
// "available" for the requested slot.
func (h *ReservationHandler) Status(c echo.Context) error {
	date := c.QueryParam("date")
	rawPeriod := c.QueryParam("timePeriod")
	if rawPeriod == "" {
		rawPeriod = c.QueryParam("time_period")
	}

	if _, err := model.ParseDate(date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date format (YYYY-MM-DD)"})
	}
	period, ok := model.ParseTimePeriod(rawPeriod)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "timePeriod must be \"lunch\" or \"dinner\""})
	}

	ctx := c.Request().Context()
	tables, err := h.Tables.List(ctx)
	if err != nil {
		c.Logger().Errorf("reservation status: list tables: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load status"})
	}
	booked, err := h.Reservations.BookedTableIDs(ctx, date, period)
	if err != nil {
		c.Logger().Errorf("reservation status: booked tables: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load status"})
	}

	status := make(map[uint64]string, len(tables))
	for _, t := range tables {
		if booked[t.ID] {
			status[t.ID] = "booked"
		} else {
			status[t.ID] = "available"
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  status,
		"message": "reservation status for " + date + " " + string(period),
	})
}
