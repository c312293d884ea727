package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
)

type tokenRepositoryImpl struct {
	db *database.DB
}

// NewTokenRepository creates a new instance of auth.TokenRepository.
func NewTokenRepository(db *database.DB) auth.TokenRepository {
	return &tokenRepositoryImpl{db: db}
}

func (r *tokenRepositoryImpl) Revoke(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO revoked_tokens (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO NOTHING
	`
	_, err := q.Exec(ctx, query, jwt.HashToken(token), userID, expiresAt.UTC())
	return err
}

func (r *tokenRepositoryImpl) ListActive(ctx context.Context) ([]auth.RevokedToken, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT token_hash, expires_at
		FROM revoked_tokens
		WHERE expires_at > NOW()
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := make([]auth.RevokedToken, 0)
	for rows.Next() {
		var t auth.RevokedToken
		if err := rows.Scan(&t.TokenHash, &t.ExpiresAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *tokenRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
