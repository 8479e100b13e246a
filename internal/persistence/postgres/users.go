package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KruASe76/grindex/internal/domain"
)

// CreateUser inserts the account and its default settings in one
// transaction. The unique email index surfaces as ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, user domain.User, settings domain.UserSettings) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.CreatedAt)
	if err != nil {
		if _, unique := uniqueViolation(err); unique {
			err = domain.ErrEmailTaken
		}
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO user_settings (user_id, theme, resolution, updated_at) VALUES ($1, $2, $3, $4)`,
		settings.UserID, settings.Theme, settings.Resolution, settings.UpdatedAt)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userBy(ctx, `SELECT id, email, password_hash, full_name, created_at FROM users WHERE email = $1`, email)
}

func (s *Store) UserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userBy(ctx, `SELECT id, email, password_hash, full_name, created_at FROM users WHERE id = $1`, userID)
}

func (s *Store) userBy(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var user domain.User
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) Settings(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	const query = `SELECT user_id, theme, resolution, updated_at FROM user_settings WHERE user_id = $1`

	var settings domain.UserSettings
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&settings.UserID, &settings.Theme, &settings.Resolution, &settings.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings writes the settings row, creating it when absent.
func (s *Store) UpdateSettings(ctx context.Context, settings domain.UserSettings) error {
	const stmt = `INSERT INTO user_settings (user_id, theme, resolution, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id) DO UPDATE SET
            theme = EXCLUDED.theme,
            resolution = EXCLUDED.resolution,
            updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, stmt, settings.UserID, settings.Theme, settings.Resolution, settings.UpdatedAt)
	return err
}

func (s *Store) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
