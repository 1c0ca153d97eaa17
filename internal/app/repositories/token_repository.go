package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kutluay/electivehub/internal/app/models"
	"github.com/kutluay/electivehub/internal/pkg/apperrors"
)

// TokenRepository handles database operations for refresh tokens
type TokenRepository struct {
	db *pgxpool.Pool
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create stores a refresh token
func (r *TokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	query := squirrel.Insert("refresh_tokens").
		Columns("user_id", "token", "expires_at").
		Values(token.UserID, token.Token, token.ExpiresAt).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		return wrapDBError(err, "error inserting refresh token")
	}
	return nil
}

// GetByToken retrieves a refresh token by its value
func (r *TokenRepository) GetByToken(ctx context.Context, tokenValue string) (*models.RefreshToken, error) {
	query := squirrel.Select("id", "user_id", "token", "expires_at", "revoked", "created_at").
		From("refresh_tokens").
		Where("token = ?", tokenValue).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var token models.RefreshToken
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&token.ID, &token.UserID, &token.Token,
		&token.ExpiresAt, &token.Revoked, &token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, wrapDBError(err, "error querying refresh token")
	}

	return &token, nil
}

// Revoke marks a refresh token as revoked
func (r *TokenRepository) Revoke(ctx context.Context, tokenValue string) error {
	query := squirrel.Update("refresh_tokens").
		Set("revoked", true).
		Where("token = ?", tokenValue).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return wrapDBError(err, "error revoking refresh token")
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

// DeleteExpired removes tokens that expired before the cutoff
func (r *TokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) error {
	query := squirrel.Delete("refresh_tokens").
		Where("expires_at < ?", cutoff).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return wrapDBError(err, "error deleting expired tokens")
	}
	return nil
}
