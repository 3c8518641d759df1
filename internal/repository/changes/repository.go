// Package changes counts rows created after a baseline for the sync endpoint.
package changes

import (
	"context"
	"io"
	"log"
	"time"

	"auraz-storefront/internal/repository"
)

// Counts holds the number of rows created after a baseline, per table.
type Counts struct {
	Orders   int
	Users    int
	Products int
}

type Repository interface {
	CountsSince(ctx context.Context, since time.Time) (Counts, error)
}

type postgresRepo struct {
	db     repository.Querier
	logger *log.Logger
}

func NewPostgres(db repository.Querier, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{db: db, logger: logger}
}

func (r *postgresRepo) CountsSince(ctx context.Context, since time.Time) (Counts, error) {
	const q = `
SELECT
    (SELECT COUNT(*) FROM orders WHERE created_at > $1),
    (SELECT COUNT(*) FROM users WHERE created_at > $1),
    (SELECT COUNT(*) FROM products WHERE created_at > $1)
`
	var c Counts
	if err := r.db.QueryRow(ctx, q, since).Scan(&c.Orders, &c.Users, &c.Products); err != nil {
		r.logger.Printf("changes repo: counts since=%s error=%v", since.Format(time.RFC3339), err)
		return Counts{}, err
	}
	return c, nil
}
