package postgres

import (
	"context"
	"errors"
	"fmt"

	"marketbot/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContentRepository serves the durable informational texts shown by the bot
// and the supported currency basket used by the conversion dialogue.
type ContentRepository struct {
	pool *pgxpool.Pool
}

func (r *ContentRepository) SupportedCodes(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `select code from currencies`)
	if err != nil {
		return nil, fmt.Errorf("failed to select supported currencies: %w", err)
	}
	defer rows.Close()

	m := make(map[string]struct{})
	for rows.Next() {
		var c string
		if err = rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan currency code: %w", err)
		}
		m[c] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read supported currencies: %w", err)
	}
	return m, nil
}

func (r *ContentRepository) Content(ctx context.Context, key string) (string, error) {
	const q = `select body from bot_contents where key = $1`

	var body string
	if err := r.pool.QueryRow(ctx, q, key).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrContentNotFound
		}
		return "", fmt.Errorf("failed to select content %q: %w", key, err)
	}
	return body, nil
}

func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}
