package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations. A slot is
// the (table_id, reservation_date, time_period) triple; the table
// carries a composite unique key over it, so the database is the final
// arbiter when two requests race for the same slot. All timestamps are
// stored in UTC.
type ReservationRepo struct{ db *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Create inserts a new reservation and returns its generated ID. A
// duplicate-key violation on the slot unique key is translated to
// ErrSlotTaken so that losing a race reads the same as failing the
// pre-check.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) (uint64, error) {
	out, err := r.db.ExecContext(ctx,
		`INSERT INTO reservations
		 (user_id, table_id, reservation_date, time_period, name, phone, card_token, guests)
		 VALUES (?,?,?,?,?,?,?,?)`,
		res.UserID, res.TableID, res.Date, string(res.TimePeriod),
		res.Name, res.Phone, res.CardToken, res.Guests)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrSlotTaken
		}
		return 0, err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return 0, err
	}
	res.ID = uint64(id)
	return res.ID, nil
}

// SlotTaken reports whether a reservation already occupies the given
// slot. It is the fast-path check before Create; the unique key still
// backs it up under concurrency.
func (r *ReservationRepo) SlotTaken(ctx context.Context, tableID uint64, date string, period model.TimePeriod) (bool, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM reservations WHERE table_id=? AND reservation_date=? AND time_period=? LIMIT 1",
		tableID, date, string(period)).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByUser returns the reservations owned by userID ordered by date
// ascending, then lunch before dinner within the same date. FIELD()
// pins the period order explicitly because the enum tokens do not sort
// lexicographically.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, table_id, reservation_date, time_period, name, phone, guests, created_at
		 FROM reservations
		 WHERE user_id=?
		 ORDER BY reservation_date ASC, FIELD(time_period,'lunch','dinner') ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		var date time.Time
		if err := rows.Scan(&res.ID, &res.TableID, &date, &res.TimePeriod,
			&res.Name, &res.Phone, &res.Guests, &res.CreatedAt); err != nil {
			return nil, err
		}
		res.UserID = userID
		res.Date = date.Format(model.DateLayout)
		list = append(list, res)
	}
	return list, rows.Err()
}

// GetByIDForUser fetches a single reservation restricted to the given
// owner. A missing row and a row owned by someone else both yield
// ErrReservationNotFound; callers must not be able to probe other
// users' reservations.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Reservation, error) {
	var res model.Reservation
	var date time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, table_id, reservation_date, time_period, name, phone, guests, created_at
		 FROM reservations WHERE id=? AND user_id=? LIMIT 1`,
		id, userID).Scan(&res.ID, &res.UserID, &res.TableID, &date, &res.TimePeriod,
		&res.Name, &res.Phone, &res.Guests, &res.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Reservation{}, ErrReservationNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	res.Date = date.Format(model.DateLayout)
	return res, nil
}

// Delete removes a reservation by id and returns the number of rows
// affected. Zero rows means the reservation vanished between the
// ownership check and the delete (e.g. a concurrent cancel).
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	out, err := r.db.ExecContext(ctx, "DELETE FROM reservations WHERE id=?", id)
	if err != nil {
		return 0, err
	}
	return out.RowsAffected()
}

// BookedTableIDs returns the set of table ids holding a reservation for
// the given date and period. The status endpoint merges this set with
// the full catalog so every table appears exactly once.
func (r *ReservationRepo) BookedTableIDs(ctx context.Context, date string, period model.TimePeriod) (map[uint64]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT table_id FROM reservations WHERE reservation_date=? AND time_period=?",
		date, string(period))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	booked := make(map[uint64]bool)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		booked[id] = true
	}
	return booked, rows.Err()
}
