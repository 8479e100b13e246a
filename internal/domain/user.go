package domain

import (
	"time"

	"github.com/google/uuid"
)

// Theme is the UI theme stored per user.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// User is an account. PasswordHash is opaque to this package.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	CreatedAt    time.Time
}

// UserSettings holds per-user defaults. Resolution doubles as the room-join
// compatibility gate.
type UserSettings struct {
	UserID     uuid.UUID
	Theme      Theme
	Resolution Resolution
	UpdatedAt  time.Time
}
