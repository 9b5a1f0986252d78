package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chatterbox/auth-service/internal/core/domain"
)

// Activation and password-reset tokens share one shape: a single-use token
// row with at most one live row per user. Both repositories delegate to the
// same statements, parameterized by table name.

type oneTimeTokenRow struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type oneTimeTokenStore struct {
	db       *pgxpool.Pool
	table    string
	notFound error
}

// replace deletes any existing row for the user, then inserts the new one.
// Two independent statements, no wrapping transaction: a crash in between
// leaves the user without a live token, recoverable by requesting a new one.
func (s *oneTimeTokenStore) replace(ctx context.Context, row oneTimeTokenRow) error {
	if err := s.deleteForUser(ctx, row.UserID); err != nil {
		return err
	}
	query := `
		INSERT INTO ` + s.table + ` (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.db.Exec(ctx, query, row.Token, row.UserID, row.CreatedAt, row.ExpiresAt); err != nil {
		return fmt.Errorf("insert %s: %w", s.table, err)
	}
	return nil
}

func (s *oneTimeTokenStore) findByToken(ctx context.Context, tokenValue string) (*oneTimeTokenRow, error) {
	query := `
		SELECT token, user_id, created_at, expires_at
		FROM ` + s.table + `
		WHERE token = $1
	`
	var row oneTimeTokenRow
	err := s.db.QueryRow(ctx, query, tokenValue).Scan(&row.Token, &row.UserID, &row.CreatedAt, &row.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.notFound
		}
		return nil, fmt.Errorf("find %s: %w", s.table, err)
	}
	return &row, nil
}

func (s *oneTimeTokenStore) delete(ctx context.Context, tokenValue string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM `+s.table+` WHERE token = $1`, tokenValue); err != nil {
		return fmt.Errorf("delete %s: %w", s.table, err)
	}
	return nil
}

func (s *oneTimeTokenStore) deleteForUser(ctx context.Context, userID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM `+s.table+` WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete %s for user: %w", s.table, err)
	}
	return nil
}

type ActivationTokenRepository struct {
	store oneTimeTokenStore
}

func NewActivationTokenRepository(db *pgxpool.Pool) *ActivationTokenRepository {
	return &ActivationTokenRepository{store: oneTimeTokenStore{
		db:       db,
		table:    "activation_tokens",
		notFound: domain.ErrActivationTokenInvalid,
	}}
}

func (r *ActivationTokenRepository) Replace(ctx context.Context, token *domain.ActivationToken) error {
	return r.store.replace(ctx, oneTimeTokenRow{
		Token:     token.Token,
		UserID:    token.UserID,
		CreatedAt: token.CreatedAt,
		ExpiresAt: token.ExpiresAt,
	})
}

func (r *ActivationTokenRepository) FindByToken(ctx context.Context, tokenValue string) (*domain.ActivationToken, error) {
	row, err := r.store.findByToken(ctx, tokenValue)
	if err != nil {
		return nil, err
	}
	return &domain.ActivationToken{
		Token:     row.Token,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (r *ActivationTokenRepository) Delete(ctx context.Context, tokenValue string) error {
	return r.store.delete(ctx, tokenValue)
}

type PasswordResetTokenRepository struct {
	store oneTimeTokenStore
}

func NewPasswordResetTokenRepository(db *pgxpool.Pool) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{store: oneTimeTokenStore{
		db:       db,
		table:    "password_reset_tokens",
		notFound: domain.ErrResetTokenInvalid,
	}}
}

func (r *PasswordResetTokenRepository) Replace(ctx context.Context, token *domain.PasswordResetToken) error {
	return r.store.replace(ctx, oneTimeTokenRow{
		Token:     token.Token,
		UserID:    token.UserID,
		CreatedAt: token.CreatedAt,
		ExpiresAt: token.ExpiresAt,
	})
}

func (r *PasswordResetTokenRepository) FindByToken(ctx context.Context, tokenValue string) (*domain.PasswordResetToken, error) {
	row, err := r.store.findByToken(ctx, tokenValue)
	if err != nil {
		return nil, err
	}
	return &domain.PasswordResetToken{
		Token:     row.Token,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (r *PasswordResetTokenRepository) Delete(ctx context.Context, tokenValue string) error {
	return r.store.delete(ctx, tokenValue)
}
