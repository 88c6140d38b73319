// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// ReservationBookedEvent is published when a reservation is
// successfully created. It carries enough information for downstream
// consumers to log or notify without querying the primary database.
// The card token is deliberately absent.
type ReservationBookedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	TableID       uint64 `json:"table_id"`
	Date          string `json:"date"`
	TimePeriod    string `json:"time_period"`
	GuestName     string `json:"guest_name"`
	Guests        uint32 `json:"guests"`
	BookedAt      string `json:"booked_at"`
}
