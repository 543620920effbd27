package model

import "time"

// Roles a user can hold.  Owners list courts and manage their slot
// calendars; players search courts and book slots.  A court owner may
// not book their own court.
const (
	RoleOwner  = "OWNER"
	RolePlayer = "PLAYER"
)

// User represents an application user record as stored in the `users`
// table.  Handlers define separate response types with JSON tags; this
// struct is used by the repository layer.
//
// Fields:
//  ID           – primary key identifier.
//  FullName     – display name, shown to owners on booking summaries.
//  Email        – unique email address.
//  Phone        – optional contact number.
//  PasswordHash – bcrypt hashed password.
//  Role         – OWNER or PLAYER.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	FullName     string    // users.full_name
	Email        string    // users.email
	Phone        string    // users.phone
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only
// the SHA-256 hash of the token value is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
