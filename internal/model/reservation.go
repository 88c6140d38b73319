package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in the
// reservation_date column. Reservations carry no time of day; the slot
// within a day is expressed by the TimePeriod instead.
const DateLayout = "2006-01-02"

// TimePeriod enumerates the two bookable service periods of a day.
type TimePeriod string

const (
	PeriodLunch  TimePeriod = "lunch"
	PeriodDinner TimePeriod = "dinner"
)

// ParseTimePeriod normalizes and validates a raw period token. The
// second return value reports whether the input named a known period.
func ParseTimePeriod(s string) (TimePeriod, bool) {
	switch TimePeriod(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodLunch:
		return PeriodLunch, true
	case PeriodDinner:
		return PeriodDinner, true
	}
	return "", false
}

// Rank orders periods within a day: lunch sorts before dinner. Listing
// queries must not rely on lexicographic order ("dinner" < "lunch").
func (p TimePeriod) Rank() int {
	if p == PeriodLunch {
		return 0
	}
	return 1
}

// ParseDate validates that s is a well-formed calendar date in
// DateLayout and returns it parsed.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Reservation records a user's booking of one table for one date and
// period. The (TableID, Date, TimePeriod) triple is unique among all
// rows; the database enforces this with a composite unique key.
// Reservations are never updated: any change is a cancel followed by a
// new create.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – owning user; only the owner may cancel.
//  TableID    – reserved table.
//  Date       – calendar date in DateLayout.
//  TimePeriod – lunch or dinner.
//  Name       – guest name for the booking.
//  Phone      – contact phone number.
//  CardToken  – opaque payment card token, stored verbatim and never
//               echoed back through the API.
//  Guests     – party size; never exceeds the table capacity.
//  CreatedAt  – creation timestamp.
type Reservation struct {
	ID         uint64     // reservations.id
	UserID     uint64     // reservations.user_id
	TableID    uint64     // reservations.table_id
	Date       string     // reservations.reservation_date
	TimePeriod TimePeriod // reservations.time_period
	Name       string     // reservations.name
	Phone      string     // reservations.phone
	CardToken  string     // reservations.card_token
	Guests     uint32     // reservations.guests
	CreatedAt  time.Time  // reservations.created_at
}
