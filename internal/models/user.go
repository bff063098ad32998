package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CustomerID   *uuid.UUID `json:"customerId,omitempty" db:"customer_id"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// SecurityProfile carries per-user lockout and forced-reset state. The lock
// fields are persisted but no operation transitions them yet; they are
// reserved for login-attempt throttling.
type SecurityProfile struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	UserID             uuid.UUID  `json:"userId" db:"user_id"`
	ForcePasswordReset bool       `json:"forcePasswordReset" db:"force_password_reset"`
	LastForceResetDate *time.Time `json:"lastForceResetDate,omitempty" db:"last_force_reset_date"`
	IsLocked           bool       `json:"isLocked" db:"is_locked"`
	LockDate           *time.Time `json:"lockDate,omitempty" db:"lock_date"`
	LoginAttempts      int        `json:"loginAttempts" db:"login_attempts"`
}
