package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// mockTableStore serves a fixed catalog mirroring the seed set.
type mockTableStore struct {
	tables []model.Table
}

func seedCatalog() *mockTableStore {
	tables := make([]model.Table, 0, 10)
	for id := uint64(1); id <= 8; id++ {
		tables = append(tables, model.Table{ID: id, Capacity: 4, TableType: "window, seats 4"})
	}
	tables = append(tables,
		model.Table{ID: 9, Capacity: 8, TableType: "window, seats 8"},
		model.Table{ID: 10, Capacity: 8, TableType: "room, seats 8"})
	return &mockTableStore{tables: tables}
}

func (m *mockTableStore) List(ctx context.Context) ([]model.Table, error) {
	return m.tables, nil
}

func (m *mockTableStore) GetByID(ctx context.Context, id uint64) (model.Table, error) {
	for _, t := range m.tables {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Table{}, repository.ErrTableNotFound
}

// mockReservationStore implements ReservationStore with overridable
// behaviour and records which calls were made.
type mockReservationStore struct {
	slotTakenFunc      func(ctx context.Context, tableID uint64, date string, period model.TimePeriod) (bool, error)
	createFunc         func(ctx context.Context, res *model.Reservation) (uint64, error)
	listByUserFunc     func(ctx context.Context, userID uint64) ([]model.Reservation, error)
	getByIDForUserFunc func(ctx context.Context, id, userID uint64) (model.Reservation, error)
	deleteFunc         func(ctx context.Context, id uint64) (int64, error)
	bookedFunc         func(ctx context.Context, date string, period model.TimePeriod) (map[uint64]bool, error)

	slotTakenCalled bool
	createCalled    bool
}

func (m *mockReservationStore) SlotTaken(ctx context.Context, tableID uint64, date string, period model.TimePeriod) (bool, error) {
	m.slotTakenCalled = true
	if m.slotTakenFunc != nil {
		return m.slotTakenFunc(ctx, tableID, date, period)
	}
	return false, nil
}

func (m *mockReservationStore) Create(ctx context.Context, res *model.Reservation) (uint64, error) {
	m.createCalled = true
	if m.createFunc != nil {
		return m.createFunc(ctx, res)
	}
	res.ID = 1
	return 1, nil
}

func (m *mockReservationStore) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockReservationStore) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Reservation, error) {
	if m.getByIDForUserFunc != nil {
		return m.getByIDForUserFunc(ctx, id, userID)
	}
	return model.Reservation{}, repository.ErrReservationNotFound
}

func (m *mockReservationStore) Delete(ctx context.Context, id uint64) (int64, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return 1, nil
}

func (m *mockReservationStore) BookedTableIDs(ctx context.Context, date string, period model.TimePeriod) (map[uint64]bool, error) {
	if m.bookedFunc != nil {
		return m.bookedFunc(ctx, date, period)
	}
	return map[uint64]bool{}, nil
}

func authedContext(method, target, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := jsonContext(method, target, body)
	c.Set("user_id", userID)
	return c, rec
}

func createBody(tableID uint64, date, period string, guests uint32) string {
	return fmt.Sprintf(`{"tableId":%d,"date":%q,"timePeriod":%q,"name":"Kim","phone":"010-1234-5678","cardToken":"tok_4242","guests":%d}`,
		tableID, date, period, guests)
}

func TestCreateReservationSuccess(t *testing.T) {
	store := &mockReservationStore{}
	h := NewReservationHandler(seedCatalog(), store, nil)

	c, rec := authedContext(http.MethodPost, "/reservations", createBody(9, "2099-01-01", "dinner", 8), 7)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message       string `json:"message"`
		ReservationID uint64 `json:"reservationId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.ReservationID)
	assert.NotEmpty(t, resp.Message)
	assert.True(t, store.createCalled)
}

func TestCreateReservationValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"unknown table", createBody(99, "2099-01-01", "dinner", 2), http.StatusNotFound},
		{"bad date", createBody(9, "2099-1-1", "dinner", 2), http.StatusBadRequest},
		{"bad period", createBody(9, "2099-01-01", "brunch", 2), http.StatusBadRequest},
		{"zero guests", createBody(9, "2099-01-01", "dinner", 0), http.StatusBadRequest},
		{"over capacity", createBody(9, "2099-01-01", "dinner", 9), http.StatusBadRequest},
		{"at capacity succeeds", createBody(9, "2099-01-01", "dinner", 8), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewReservationHandler(seedCatalog(), &mockReservationStore{}, nil)
			c, rec := authedContext(http.MethodPost, "/reservations", tt.body, 7)
			require.NoError(t, h.Create(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCreateReservationCapacityCheckedBeforeSlot(t *testing.T) {
	// Table 9 seats 8 and its dinner slot is already taken. A request
	// for 9 guests must still report the capacity violation: existence,
	// capacity and uniqueness are checked in that fixed order.
	store := &mockReservationStore{
		slotTakenFunc: func(ctx context.Context, tableID uint64, date string, period model.TimePeriod) (bool, error) {
			return true, nil
		},
	}
	h := NewReservationHandler(seedCatalog(), store, nil)

	c, rec := authedContext(http.MethodPost, "/reservations", createBody(9, "2099-01-01", "dinner", 9), 7)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "capacity")
	assert.False(t, store.slotTakenCalled, "slot check must not run before capacity fails")
	assert.False(t, store.createCalled)
}

func TestCreateReservationSlotTaken(t *testing.T) {
	store := &mockReservationStore{
		slotTakenFunc: func(ctx context.Context, tableID uint64, date string, period model.TimePeriod) (bool, error) {
			return true, nil
		},
	}
	h := NewReservationHandler(seedCatalog(), store, nil)

	c, rec := authedContext(http.MethodPost, "/reservations", createBody(9, "2099-01-01", "dinner", 8), 7)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "reserved")
	assert.False(t, store.createCalled)
}

func TestCreateReservationLosesInsertRace(t *testing.T) {
	// The pre-check sees a free slot but a concurrent insert wins the
	// race; the unique-key violation must surface as the same slot
	// conflict, not an internal error.
	store := &mockReservationStore{
		createFunc: func(ctx context.Context, res *model.Reservation) (uint64, error) {
			return 0, repository.ErrSlotTaken
		},
	}
	h := NewReservationHandler(seedCatalog(), store, nil)

	c, rec := authedContext(http.MethodPost, "/reservations", createBody(9, "2099-01-01", "dinner", 8), 7)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "reserved")
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	events chan queue.ReservationBookedEvent
}

func (p *recordingPublisher) ReservationBooked(ctx context.Context, ev queue.ReservationBookedEvent) error {
	p.events <- ev
	return nil
}

func TestCreateReservationPublishesEvent(t *testing.T) {
	pub := &recordingPublisher{events: make(chan queue.ReservationBookedEvent, 1)}
	h := NewReservationHandler(seedCatalog(), &mockReservationStore{}, pub)

	c, rec := authedContext(http.MethodPost, "/reservations", createBody(9, "2099-01-01", "dinner", 8), 7)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case ev := <-pub.events:
		assert.Equal(t, uint64(1), ev.ReservationID)
		assert.Equal(t, uint64(7), ev.UserID)
		assert.Equal(t, uint64(9), ev.TableID)
		assert.Equal(t, "2099-01-01", ev.Date)
		assert.Equal(t, "dinner", ev.TimePeriod)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reservation.booked event")
	}
}

func TestListReservationsOmitsCardToken(t *testing.T) {
	store := &mockReservationStore{
		listByUserFunc: func(ctx context.Context, userID uint64) ([]model.Reservation, error) {
			return []model.Reservation{{
				ID: 3, UserID: userID, TableID: 9,
				Date: "2099-01-01", TimePeriod: model.PeriodDinner,
				Name: "Kim", Phone: "010-1234-5678",
				CardToken: "tok_super_secret", Guests: 8,
				CreatedAt: time.Date(2098, 12, 1, 10, 0, 0, 0, time.UTC),
			}}, nil
		},
	}
	h := NewReservationHandler(seedCatalog(), store, nil)

	c, rec := authedContext(http.MethodGet, "/reservations", "", 7)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.NotContains(t, body, "tok_super_secret")
	assert.NotContains(t, body, "cardToken")

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "2099-01-01", resp[0]["date"])
	assert.Equal(t, "dinner", resp[0]["timePeriod"])
}

func TestCancelReservation(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(model.DateLayout)
	today := time.Now().Format(model.DateLayout)
	yesterday := time.Now().AddDate(0, 0, -1).Format(model.DateLayout)

	owned := func(date string) func(ctx context.Context, id, userID uint64) (model.Reservation, error) {
		return func(ctx context.Context, id, userID uint64) (model.Reservation, error) {
			if userID != 7 {
				return model.Reservation{}, repository.ErrReservationNotFound
			}
			return model.Reservation{ID: id, UserID: 7, TableID: 9, Date: date, TimePeriod: model.PeriodDinner}, nil
		}
	}

	tests := []struct {
		name       string
		userID     uint64
		fetch      func(ctx context.Context, id, userID uint64) (model.Reservation, error)
		deleteFn   func(ctx context.Context, id uint64) (int64, error)
		wantStatus int
	}{
		{"future date succeeds", 7, owned(tomorrow), nil, http.StatusOK},
		{"same day rejected", 7, owned(today), nil, http.StatusBadRequest},
		{"past date rejected", 7, owned(yesterday), nil, http.StatusBadRequest},
		{"non-owner sees not found", 8, owned(tomorrow), nil, http.StatusNotFound},
		{"nonexistent reservation", 7, nil, nil, http.StatusNotFound},
		{
			"deleted concurrently", 7, owned(tomorrow),
			func(ctx context.Context, id uint64) (int64, error) { return 0, nil },
			http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockReservationStore{getByIDForUserFunc: tt.fetch, deleteFunc: tt.deleteFn}
			h := NewReservationHandler(seedCatalog(), store, nil)

			c, rec := authedContext(http.MethodDelete, "/reservations/3", "", tt.userID)
			c.SetParamNames("id")
			c.SetParamValues("3")
			require.NoError(t, h.Cancel(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestStatusCompleteness(t *testing.T) {
	store := &mockReservationStore{
		bookedFunc: func(ctx context.Context, date string, period model.TimePeriod) (map[uint64]bool, error) {
			return map[uint64]bool{1: true, 9: true}, nil
		},
	}
	h := NewReservationHandler(seedCatalog(), store, nil)

	c, rec := jsonContext(http.MethodGet, "/reservations/status?date=2099-01-01&timePeriod=dinner", "")
	require.NoError(t, h.Status(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status  map[string]string `json:"status"`
		Message string            `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// One entry per catalog table, values restricted to the two states.
	require.Len(t, resp.Status, 10)
	for id, st := range resp.Status {
		switch id {
		case "1", "9":
			assert.Equal(t, "booked", st)
		default:
			assert.Equal(t, "available", st)
		}
	}
	assert.NotEmpty(t, resp.Message)
}

func TestStatusValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing date", "/reservations/status?timePeriod=dinner"},
		{"bad date", "/reservations/status?date=2099-1-1&timePeriod=dinner"},
		{"missing period", "/reservations/status?date=2099-01-01"},
		{"bad period", "/reservations/status?date=2099-01-01&timePeriod=brunch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewReservationHandler(seedCatalog(), &mockReservationStore{}, nil)
			c, rec := jsonContext(http.MethodGet, tt.target, "")
			require.NoError(t, h.Status(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestStatusAcceptsSnakeCaseParam(t *testing.T) {
	h := NewReservationHandler(seedCatalog(), &mockReservationStore{}, nil)
	c, rec := jsonContext(http.MethodGet, "/reservations/status?date=2099-01-01&time_period=lunch", "")
	require.NoError(t, h.Status(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "lunch"))
}
