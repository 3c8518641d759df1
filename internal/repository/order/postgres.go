package order

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/repository"
	"github.com/jackc/pgx/v5"
)

// Patchable lists the fields a partial update may touch.
var Patchable = repository.Columns{
	"status":          {Name: "status", Kind: repository.Text},
	"shippingAddress": {Name: "shipping_address", Kind: repository.JSONB},
	"paymentMethod":   {Name: "payment_method", Kind: repository.Text},
	"deliveryCharge":  {Name: "delivery_charge", Kind: repository.Number},
	"voucherDiscount": {Name: "voucher_discount", Kind: repository.Number},
	"voucherCode":     {Name: "voucher_code", Kind: repository.Text},
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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	const q = `
SELECT o.id, o.user_id, COALESCE(u.name, ''), COALESCE(u.email, ''), o.items, o.total, o.status,
       o.shipping_address, o.payment_method, o.created_at, o.delivery_charge, o.voucher_discount,
       COALESCE(o.voucher_code, '')
FROM orders o
LEFT JOIN users u ON o.user_id = u.id
ORDER BY o.created_at DESC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("order repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("order repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) error {
	itemsJSON, err := json.Marshal(repository.NonNil(o.Items))
	if err != nil {
		return err
	}
	addrJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return err
	}
	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const q = `
INSERT INTO orders (
    id, user_id, items, total, status, shipping_address, payment_method,
    delivery_charge, voucher_discount, voucher_code, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)
`
	_, err = r.db.Exec(ctx, q,
		o.ID,
		o.UserID,
		itemsJSON,
		o.Total,
		string(o.Status),
		addrJSON,
		o.PaymentMethod,
		o.DeliveryCharge,
		o.VoucherDiscount,
		o.VoucherCode,
		createdAt,
	)
	if err != nil {
		r.logger.Printf("order repo: create id=%s user_id=%s error=%v", o.ID, o.UserID, err)
		return repository.MapError(err)
	}
	r.logger.Printf("order repo: create id=%s user_id=%s items=%d", o.ID, o.UserID, len(o.Items))
	return nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, updates map[string]json.RawMessage) error {
	q, args, err := repository.BuildUpdate("orders", Patchable, id, updates)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: update id=%s error=%v", id, err)
		return repository.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("order repo: update id=%s fields=%d", id, len(updates))
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("order repo: delete id=%s error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("order repo: delete id=%s", id)
	return nil
}

func (r *postgresRepo) scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var user domain.OrderUser
	var status string
	var itemsJSON, addrJSON []byte
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&user.Name,
		&user.Email,
		&itemsJSON,
		&o.Total,
		&status,
		&addrJSON,
		&o.PaymentMethod,
		&o.CreatedAt,
		&o.DeliveryCharge,
		&o.VoucherDiscount,
		&o.VoucherCode,
	)
	if err != nil {
		r.logger.Printf("order repo: scan error=%v", err)
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	user.ID = o.UserID
	o.User = &user
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		r.logger.Printf("order repo: decode items id=%s err=%v", o.ID, err)
		return nil, err
	}
	if err := json.Unmarshal(addrJSON, &o.ShippingAddress); err != nil {
		r.logger.Printf("order repo: decode shipping address id=%s err=%v", o.ID, err)
		return nil, err
	}
	return &o, nil
}
