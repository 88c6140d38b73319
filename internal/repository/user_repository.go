package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

// UserRepo provides access to the users table.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create hashes the password and inserts a new user, returning its ID.
// A fast-path pre-check gives a friendly error when the handle or
// display name is taken; the unique indexes remain the final authority,
// and a duplicate-key violation from a concurrent signup is translated
// to the same ErrUserExists.
func (r *UserRepo) Create(ctx context.Context, handle, displayName, password string, cost int) (uint64, error) {
	handle = strings.TrimSpace(handle)
	displayName = strings.TrimSpace(displayName)

	var existing uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM users WHERE handle=? OR display_name=? LIMIT 1",
		handle, displayName).Scan(&existing)
	if err == nil {
		return 0, ErrUserExists
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (handle, display_name, password_hash) VALUES (?,?,?)",
		handle, displayName, hash)
	if err != nil {
		// 1062 = MySQL duplicate entry; the pre-check lost a race.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUserExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByHandle fetches a user by handle. sql.ErrNoRows is returned
// unchanged when the handle is unknown; callers must not leak that
// distinction to clients.
func (r *UserRepo) GetByHandle(ctx context.Context, handle string) (model.User, error) {
	handle = strings.TrimSpace(handle)
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id,handle,display_name,password_hash,created_at FROM users WHERE handle=? LIMIT 1",
		handle).Scan(&u.ID, &u.Handle, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id,handle,display_name,password_hash,created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Handle, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	return u, err
}
