package database

import (
	"context"
	"database/sql"
)

// ddl creates the three application tables. The unique indexes are
// load-bearing: they are the storage-level enforcement of account
// uniqueness and of the one-reservation-per-slot invariant, backing up
// the application-level pre-checks under concurrency.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		handle        VARCHAR(64)  NOT NULL,
		display_name  VARCHAR(64)  NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_handle (handle),
		UNIQUE KEY uq_users_display_name (display_name)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS tables (
		id         BIGINT UNSIGNED NOT NULL,
		capacity   INT UNSIGNED    NOT NULL,
		table_type VARCHAR(64)     NOT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id          BIGINT UNSIGNED NOT NULL,
		table_id         BIGINT UNSIGNED NOT NULL,
		reservation_date DATE            NOT NULL,
		time_period      ENUM('lunch','dinner') NOT NULL,
		name             VARCHAR(100)    NOT NULL,
		phone            VARCHAR(32)     NOT NULL,
		card_token       VARCHAR(255)    NOT NULL,
		guests           INT UNSIGNED    NOT NULL,
		created_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_reservations_slot (table_id, reservation_date, time_period),
		CONSTRAINT fk_reservations_user  FOREIGN KEY (user_id)  REFERENCES users (id),
		CONSTRAINT fk_reservations_table FOREIGN KEY (table_id) REFERENCES tables (id)
	) ENGINE=InnoDB`,
}

// seedTables is the fixed catalog: eight four-seat tables by the
// window, inside and in private rooms, plus two eight-seat tables.
var seedTables = []struct {
	id       uint64
	capacity uint32
	kind     string
}{
	{1, 4, "window, seats 4"},
	{2, 4, "window, seats 4"},
	{3, 4, "window, seats 4"},
	{4, 4, "window, seats 4"},
	{5, 4, "window, seats 4"},
	{6, 4, "inside, seats 4"},
	{7, 4, "room, seats 4"},
	{8, 4, "room, seats 4"},
	{9, 8, "window, seats 8"},
	{10, 8, "room, seats 8"},
}

// InitSchema creates the tables if they do not exist and seeds the
// table catalog. Seeding is idempotent: it only runs when the catalog
// is empty, so restarts never duplicate or reshuffle tables.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tables").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, t := range seedTables {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO tables (id, capacity, table_type) VALUES (?,?,?)",
			t.id, t.capacity, t.kind); err != nil {
			return err
		}
	}
	return nil
}
