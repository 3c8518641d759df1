package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"auraz-storefront/internal/catalog"
	"auraz-storefront/internal/db"
	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/repository"
	productrepo "auraz-storefront/internal/repository/product"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Apply writes the built-in catalog, vouchers, promo cards, carousel slides and
// delivery settings in one transaction. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return db.InTx(ctx, pool, func(tx pgx.Tx) error {
		products := productrepo.NewPostgres(tx, logger)
		for _, p := range catalog.Products() {
			if err := products.Upsert(ctx, p); err != nil {
				return fmt.Errorf("upsert product %s: %w", p.ID, err)
			}
		}
		for _, v := range catalog.Vouchers() {
			if err := upsertVoucher(ctx, tx, v); err != nil {
				return fmt.Errorf("upsert voucher %s: %w", v.Code, err)
			}
		}
		for _, c := range catalog.PromoCards() {
			if err := upsertPromoCard(ctx, tx, c); err != nil {
				return fmt.Errorf("upsert promo card %s: %w", c.ID, err)
			}
		}
		for _, s := range catalog.CarouselSlides() {
			if err := upsertSlide(ctx, tx, s); err != nil {
				return fmt.Errorf("upsert carousel slide %s: %w", s.ID, err)
			}
		}
		if err := upsertDeliverySettings(ctx, tx, catalog.DeliverySettings()); err != nil {
			return fmt.Errorf("upsert delivery settings: %w", err)
		}
		logger.Printf("seed: applied products=%d vouchers=%d promo_cards=%d slides=%d",
			len(catalog.Products()), len(catalog.Vouchers()), len(catalog.PromoCards()), len(catalog.CarouselSlides()))
		return nil
	})
}

func upsertVoucher(ctx context.Context, tx pgx.Tx, v domain.Voucher) error {
	categories, err := json.Marshal(repository.NonNil(v.ApplicableCategories))
	if err != nil {
		return err
	}
	const q = `
INSERT INTO vouchers (
    id, code, type, value, description, min_order_amount, max_discount, valid_from, valid_until,
    usage_limit, used_count, is_active, applicable_categories
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (id) DO UPDATE
SET code = EXCLUDED.code,
    type = EXCLUDED.type,
    value = EXCLUDED.value,
    description = EXCLUDED.description,
    min_order_amount = EXCLUDED.min_order_amount,
    max_discount = EXCLUDED.max_discount,
    valid_from = EXCLUDED.valid_from,
    valid_until = EXCLUDED.valid_until,
    usage_limit = EXCLUDED.usage_limit,
    is_active = EXCLUDED.is_active,
    applicable_categories = EXCLUDED.applicable_categories
`
	_, err = tx.Exec(ctx, q, v.ID, v.Code, string(v.Type), v.Value, v.Description, v.MinOrderAmount, v.MaxDiscount,
		v.ValidFrom, v.ValidUntil, v.UsageLimit, v.UsedCount, v.IsActive, categories)
	return err
}

func upsertPromoCard(ctx context.Context, tx pgx.Tx, c domain.PromoCard) error {
	const q = `
INSERT INTO promo_cards (id, title, description, image, button_text, link, gradient, is_active, "order")
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE
SET title = EXCLUDED.title,
    description = EXCLUDED.description,
    image = EXCLUDED.image,
    button_text = EXCLUDED.button_text,
    link = EXCLUDED.link,
    gradient = EXCLUDED.gradient,
    is_active = EXCLUDED.is_active,
    "order" = EXCLUDED."order"
`
	_, err := tx.Exec(ctx, q, c.ID, c.Title, c.Description, c.Image, c.ButtonText, c.Link, c.Gradient, c.IsActive, c.Order)
	return err
}

func upsertSlide(ctx context.Context, tx pgx.Tx, s domain.CarouselSlide) error {
	const q = `
INSERT INTO carousel_slides (id, image, title, description, button_text, button_link)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET image = EXCLUDED.image,
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    button_text = EXCLUDED.button_text,
    button_link = EXCLUDED.button_link
`
	_, err := tx.Exec(ctx, q, s.ID, s.Image, s.Title, s.Description, s.ButtonText, s.ButtonLink)
	return err
}

func upsertDeliverySettings(ctx context.Context, tx pgx.Tx, s domain.DeliverySettings) error {
	const q = `
INSERT INTO delivery_settings (id, dhaka_charge, outside_dhaka_charge, free_shipping_threshold)
VALUES (1, $1, $2, $3)
ON CONFLICT (id) DO UPDATE
SET dhaka_charge = EXCLUDED.dhaka_charge,
    outside_dhaka_charge = EXCLUDED.outside_dhaka_charge,
    free_shipping_threshold = EXCLUDED.free_shipping_threshold
`
	_, err := tx.Exec(ctx, q, s.DhakaCharge, s.OutsideDhakaCharge, s.FreeShippingThreshold)
	return err
}
