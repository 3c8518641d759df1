package user

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/repository"
	"github.com/jackc/pgx/v5"
)

// Patchable lists the fields a partial update may touch.
var Patchable = repository.Columns{
	"name":           {Name: "name", Kind: repository.Text},
	"email":          {Name: "email", Kind: repository.Text},
	"phone":          {Name: "phone", Kind: repository.Text},
	"password":       {Name: "password", Kind: repository.Text},
	"profilePhoto":   {Name: "profile_photo", Kind: repository.Text},
	"dateOfBirth":    {Name: "date_of_birth", Kind: repository.Text},
	"gender":         {Name: "gender", Kind: repository.Text},
	"status":         {Name: "status", Kind: repository.Text},
	"usedVouchers":   {Name: "used_vouchers", Kind: repository.JSONB},
	"addresses":      {Name: "addresses", Kind: repository.JSONB},
	"paymentMethods": {Name: "payment_methods", Kind: repository.JSONB},
}

const selectColumns = `
SELECT id, name, email, phone, password, COALESCE(profile_photo, ''), COALESCE(date_of_birth, ''),
       COALESCE(gender, ''), status, created_at, used_vouchers, addresses, payment_methods
FROM users`

type postgresRepo struct {
	db     repository.Querier
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(db repository.Querier, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{db: db, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, selectColumns+"\nORDER BY created_at DESC")
	if err != nil {
		r.logger.Printf("user repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.User{}
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("user repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("user repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) error {
	addrJSON, err := json.Marshal(repository.NonNil(u.Addresses))
	if err != nil {
		return err
	}
	pmJSON, err := json.Marshal(repository.NonNil(u.PaymentMethods))
	if err != nil {
		return err
	}
	usedJSON, err := json.Marshal(repository.NonNil(u.UsedVouchers))
	if err != nil {
		return err
	}
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const q = `
INSERT INTO users (
    id, name, email, phone, password, profile_photo, date_of_birth, gender, status,
    created_at, used_vouchers, addresses, payment_methods
) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, $12, $13)
`
	_, err = r.db.Exec(ctx, q,
		u.ID,
		u.Name,
		strings.TrimSpace(u.Email),
		u.Phone,
		u.Password,
		u.ProfilePhoto,
		u.DateOfBirth,
		u.Gender,
		string(u.Status),
		createdAt,
		usedJSON,
		addrJSON,
		pmJSON,
	)
	if err != nil {
		r.logger.Printf("user repo: create id=%s error=%v", u.ID, err)
		return repository.MapError(err)
	}
	r.logger.Printf("user repo: create id=%s", u.ID)
	return nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.scanUser(r.db.QueryRow(ctx, selectColumns+"\nWHERE lower(email) = lower($1)\nLIMIT 1", strings.TrimSpace(email)))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return u, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.scanUser(r.db.QueryRow(ctx, selectColumns+"\nWHERE id = $1", id))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return u, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, updates map[string]json.RawMessage) error {
	q, args, err := repository.BuildUpdate("users", Patchable, id, updates)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		r.logger.Printf("user repo: update id=%s error=%v", id, err)
		return repository.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("user repo: update id=%s fields=%d", id, len(updates))
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("user repo: delete id=%s error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("user repo: delete id=%s", id)
	return nil
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var status string
	var usedJSON, addrJSON, pmJSON []byte
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.Password,
		&u.ProfilePhoto,
		&u.DateOfBirth,
		&u.Gender,
		&status,
		&u.CreatedAt,
		&usedJSON,
		&addrJSON,
		&pmJSON,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("user repo: scan error=%v", err)
		}
		return nil, err
	}
	u.Status = domain.UserStatus(status)
	if err := json.Unmarshal(usedJSON, &u.UsedVouchers); err != nil {
		r.logger.Printf("user repo: decode used vouchers id=%s err=%v", u.ID, err)
		return nil, err
	}
	if err := json.Unmarshal(addrJSON, &u.Addresses); err != nil {
		r.logger.Printf("user repo: decode addresses id=%s err=%v", u.ID, err)
		return nil, err
	}
	if err := json.Unmarshal(pmJSON, &u.PaymentMethods); err != nil {
		r.logger.Printf("user repo: decode payment methods id=%s err=%v", u.ID, err)
		return nil, err
	}
	u.UsedVouchers = repository.NonNil(u.UsedVouchers)
	u.Addresses = repository.NonNil(u.Addresses)
	u.PaymentMethods = repository.NonNil(u.PaymentMethods)
	return &u, nil
}
