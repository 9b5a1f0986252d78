package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chatterbox/auth-service/internal/core/domain"
)

type RefreshTokenRepository struct {
	db *pgxpool.Pool
}

func NewRefreshTokenRepository(db *pgxpool.Pool) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens
			(token, user_id, client_device_identifier, ip_address, user_agent, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		token.Token, token.UserID, token.ClientDeviceID,
		token.IPAddress, token.UserAgent, token.CreatedAt, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) FindByToken(ctx context.Context, tokenValue string) (*domain.RefreshToken, error) {
	query := `
		SELECT token, user_id, client_device_identifier, ip_address, user_agent, created_at, expires_at
		FROM refresh_tokens
		WHERE token = $1
	`
	var token domain.RefreshToken
	err := r.db.QueryRow(ctx, query, tokenValue).Scan(
		&token.Token, &token.UserID, &token.ClientDeviceID,
		&token.IPAddress, &token.UserAgent, &token.CreatedAt, &token.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &token, nil
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, tokenValue string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, tokenValue); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteByTokenAndDevice(ctx context.Context, tokenValue, clientDeviceID string) (bool, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE token = $1 AND client_device_identifier = $2
	`
	tag, err := r.db.Exec(ctx, query, tokenValue, clientDeviceID)
	if err != nil {
		return false, fmt.Errorf("delete refresh token by device: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RefreshTokenRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete refresh tokens for user: %w", err)
	}
	return nil
}
