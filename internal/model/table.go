package model

// Table describes a physical restaurant table. The catalog is seeded
// once at startup and is read-only afterwards; identifiers are stable
// small integers chosen at seed time rather than auto-increments.
//
// Fields:
//  ID        – fixed table identifier.
//  Capacity  – maximum number of guests the table seats.
//  TableType – free-text location/size label (e.g. "window, seats 4").
type Table struct {
	ID        uint64 // tables.id
	Capacity  uint32 // tables.capacity
	TableType string // tables.table_type
}
