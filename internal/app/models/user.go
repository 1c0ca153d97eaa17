package models

import "time"

// User represents a student or staff account bound to one institution.
// Authentication is handled elsewhere; the selection workflow only trusts
// the identifiers and the institution binding carried here.
type User struct {
	ID            int64     `json:"id" db:"id"`
	InstitutionID int64     `json:"institutionId" db:"institution_id"`
	Email         string    `json:"email" db:"email"`
	Password      string    `json:"-" db:"password_hash"`
	FirstName     string    `json:"firstName" db:"first_name"`
	LastName      string    `json:"lastName" db:"last_name"`
	RoleType      RoleType  `json:"roleType" db:"role_type"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// IsStaff reports whether the user may manage packs and decide selections.
func (u *User) IsStaff() bool {
	return u.RoleType == RoleStaff
}

// RefreshToken is an opaque refresh credential issued next to a JWT access
// token.
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
