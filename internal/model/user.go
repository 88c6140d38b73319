package model

import "time"

// User represents an account record as stored in the `users` table.
// Handles are the login identifier; display names are the public name
// shown to other diners. Both are unique and immutable after signup.
// The json tags are omitted because these structs are used by the
// repository layer; handlers define their own response types.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Handle       – unique login identifier.
//  DisplayName  – unique public name.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Handle       string    // users.handle
	DisplayName  string    // users.display_name
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
}
