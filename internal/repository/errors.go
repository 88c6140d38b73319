// Package repository defines the data access layer and the sentinel
// errors shared by its repositories. Handlers compare against these
// values with errors.Is and translate them into HTTP outcomes, so a
// storage-level failure (such as a duplicate-key violation racing past
// the pre-check) surfaces exactly like the friendly pre-check error.
package repository

import "errors"

// ErrUserExists is returned when a signup collides with an existing
// handle or display name, whether the collision was caught by the
// pre-check or by the unique index at insert time.
var ErrUserExists = errors.New("handle or display name already exists")

// ErrTableNotFound is returned when a table id is absent from the
// catalog.
var ErrTableNotFound = errors.New("table not found")

// ErrReservationNotFound is returned when a reservation does not exist
// or is not owned by the requesting user. The two cases are
// deliberately indistinguishable.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrSlotTaken is returned when the (table, date, period) slot already
// holds a reservation, whether detected by the pre-check or by the
// composite unique key at insert time.
var ErrSlotTaken = errors.New("slot already reserved")
