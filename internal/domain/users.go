package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRepository captures account and settings persistence. CreateUser
// inserts the user and their default settings in one transaction and
// returns ErrEmailTaken on the unique-email collision.
type UserRepository interface {
	CreateUser(ctx context.Context, user User, settings UserSettings) error
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, userID uuid.UUID) (*User, error)
	Settings(ctx context.Context, userID uuid.UUID) (*UserSettings, error)
	UpdateSettings(ctx context.Context, settings UserSettings) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// Users manages accounts, profiles and per-user settings. Password hashing
// and verification live in the auth package; this service only stores the
// opaque hash.
type Users struct {
	repo UserRepository
	now  func() time.Time
}

// NewUsers constructs a Users service.
func NewUsers(repo UserRepository) *Users {
	return &Users{repo: repo, now: time.Now}
}

// Register creates an account with default settings (light theme, day
// resolution).
func (s *Users) Register(ctx context.Context, email, fullName, passwordHash string) (*User, error) {
	user := User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		FullName:     strings.TrimSpace(fullName),
		CreatedAt:    s.now().UTC(),
	}
	settings := UserSettings{
		UserID:     user.ID,
		Theme:      ThemeLight,
		Resolution: ResolutionDay,
		UpdatedAt:  user.CreatedAt,
	}
	if err := s.repo.CreateUser(ctx, user, settings); err != nil {
		return nil, err
	}
	return &user, nil
}

// ByEmail fetches an account for credential checks; absent accounts surface
// as ErrInvalidCredentials so login cannot probe for registered emails.
func (s *Users) ByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Profile returns the user together with their settings.
func (s *Users) Profile(ctx context.Context, userID uuid.UUID) (*User, *UserSettings, error) {
	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}
	settings, err := s.repo.Settings(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, settings, nil
}

// UpdateSettings overwrites the user's theme, creating the settings row if
// registration somehow skipped it.
func (s *Users) UpdateSettings(ctx context.Context, userID uuid.UUID, theme Theme) (*UserSettings, error) {
	settings, err := s.repo.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &UserSettings{UserID: userID, Resolution: ResolutionDay}
	}
	settings.Theme = theme
	settings.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateSettings(ctx, *settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdatePassword stores a new password hash.
func (s *Users) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}
