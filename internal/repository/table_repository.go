package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// TableRepo provides read access to the fixed table catalog. The
// catalog is seeded once by the schema bootstrap and never mutated
// afterwards, so this repository exposes no write operations.
type TableRepo struct{ db *sql.DB }

func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// List returns every table in the catalog ordered by id ascending.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,capacity,table_type FROM tables ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]model.Table, 0, 10)
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.Capacity, &t.TableType); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// GetByID fetches a single table. ErrTableNotFound is returned when
// the id is absent from the catalog.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (model.Table, error) {
	var t model.Table
	err := r.db.QueryRowContext(ctx,
		"SELECT id,capacity,table_type FROM tables WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.Capacity, &t.TableType)
	if err == sql.ErrNoRows {
		return model.Table{}, ErrTableNotFound
	}
	return t, err
}
