package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultStatus is assigned to every new account until the user writes
// their own.
const DefaultStatus = "I am new!"

// User is the identity record behind signup, login, and ownership. The
// password hash never serializes outward.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Status        string     `bun:"status,notnull" json:"status,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	LoggedInAt    *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureStatus applies the default status to fresh records.
func (u *User) EnsureStatus() {
	if u.Status == "" {
		u.Status = DefaultStatus
	}
}

// WithStatus returns a copy of the user carrying the new status text.
// The store write is the caller's responsibility. Two concurrent
// updates race last-write-wins.
func (u User) WithStatus(status string) *User {
	u.Status = status
	return &u
}
