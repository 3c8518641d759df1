package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/ids"
	"auraz-storefront/internal/rules"
)

// AddProduct creates the product on the backend and reloads the catalog. An
// empty reload keeps just the new product.
func (s *Store) AddProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	now := s.now()
	p.ID = ids.New("product", now)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now.UTC()
	}
	if err := s.remote.CreateProduct(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("add product: %w", err)
	}
	products, err := s.remote.ListProducts(ctx)
	if err != nil {
		return domain.Product{}, fmt.Errorf("refresh products: %w", err)
	}
	if len(products) == 0 {
		products = []domain.Product{p}
	}
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	s.save(ctx, KeyProducts)
	return p, nil
}

// UpdateProduct edits the local catalog only.
func (s *Store) UpdateProduct(ctx context.Context, productID string, updates map[string]any) error {
	s.mu.Lock()
	products, _, err := mapWhere(s.products,
		func(p domain.Product) bool { return p.ID == productID },
		func(p domain.Product) (domain.Product, error) { return merge(p, updates) })
	if err == nil {
		s.products = products
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.save(ctx, KeyProducts)
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, productID string) {
	s.mu.Lock()
	s.products = without(s.products, func(p domain.Product) bool { return p.ID == productID })
	s.mu.Unlock()
	s.save(ctx, KeyProducts)
}

func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

func (s *Store) AddCarouselSlide(ctx context.Context, slide domain.CarouselSlide) domain.CarouselSlide {
	slide.ID = ids.Plain(s.now())
	s.mu.Lock()
	s.carouselSlides = appended(s.carouselSlides, slide)
	s.mu.Unlock()
	s.save(ctx, KeyCarouselSlides)
	return slide
}

func (s *Store) UpdateCarouselSlide(ctx context.Context, slideID string, updates map[string]any) error {
	s.mu.Lock()
	slides, _, err := mapWhere(s.carouselSlides,
		func(c domain.CarouselSlide) bool { return c.ID == slideID },
		func(c domain.CarouselSlide) (domain.CarouselSlide, error) { return merge(c, updates) })
	if err == nil {
		s.carouselSlides = slides
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.save(ctx, KeyCarouselSlides)
	return nil
}

func (s *Store) DeleteCarouselSlide(ctx context.Context, slideID string) {
	s.mu.Lock()
	s.carouselSlides = without(s.carouselSlides, func(c domain.CarouselSlide) bool { return c.ID == slideID })
	s.mu.Unlock()
	s.save(ctx, KeyCarouselSlides)
}

func (s *Store) CarouselSlides() []domain.CarouselSlide {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.carouselSlides)
}

func (s *Store) AddPromoCard(ctx context.Context, card domain.PromoCard) domain.PromoCard {
	card.ID = ids.Plain(s.now())
	s.mu.Lock()
	s.promoCards = appended(s.promoCards, card)
	s.mu.Unlock()
	s.save(ctx, KeyPromoCards)
	return card
}

func (s *Store) UpdatePromoCard(ctx context.Context, cardID string, updates map[string]any) error {
	s.mu.Lock()
	cards, _, err := mapWhere(s.promoCards,
		func(c domain.PromoCard) bool { return c.ID == cardID },
		func(c domain.PromoCard) (domain.PromoCard, error) { return merge(c, updates) })
	if err == nil {
		s.promoCards = cards
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.save(ctx, KeyPromoCards)
	return nil
}

func (s *Store) DeletePromoCard(ctx context.Context, cardID string) {
	s.mu.Lock()
	s.promoCards = without(s.promoCards, func(c domain.PromoCard) bool { return c.ID == cardID })
	s.mu.Unlock()
	s.save(ctx, KeyPromoCards)
}

func (s *Store) PromoCards() []domain.PromoCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.promoCards)
}

// AddVoucher stores a new voucher with a zero usage count.
func (s *Store) AddVoucher(ctx context.Context, v domain.Voucher) domain.Voucher {
	v.ID = ids.Plain(s.now())
	v.UsedCount = 0
	s.mu.Lock()
	s.vouchers = appended(s.vouchers, v)
	s.mu.Unlock()
	s.save(ctx, KeyVouchers)
	return v
}

func (s *Store) UpdateVoucher(ctx context.Context, voucherID string, updates map[string]any) error {
	s.mu.Lock()
	vouchers, _, err := mapWhere(s.vouchers,
		func(v domain.Voucher) bool { return v.ID == voucherID },
		func(v domain.Voucher) (domain.Voucher, error) { return merge(v, updates) })
	if err == nil {
		s.vouchers = vouchers
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.save(ctx, KeyVouchers)
	return nil
}

func (s *Store) DeleteVoucher(ctx context.Context, voucherID string) {
	s.mu.Lock()
	s.vouchers = without(s.vouchers, func(v domain.Voucher) bool { return v.ID == voucherID })
	s.mu.Unlock()
	s.save(ctx, KeyVouchers)
}

func (s *Store) Vouchers() []domain.Voucher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.vouchers)
}

func (s *Store) ValidateVoucher(code string, orderTotal float64, userID string) rules.VoucherResult {
	s.mu.Lock()
	vouchers, users := s.vouchers, s.users
	s.mu.Unlock()
	return rules.ValidateVoucher(vouchers, users, code, orderTotal, userID, s.now())
}

// ApplyVoucher records one use of the voucher by userID. It does not
// re-validate; callers run ValidateVoucher first.
// TODO: move usage counting to the backend so the limit holds across instances.
func (s *Store) ApplyVoucher(ctx context.Context, code, userID string) {
	s.mu.Lock()
	voucher, ok := find(s.vouchers, func(v domain.Voucher) bool { return strings.EqualFold(v.Code, code) })
	if !ok {
		s.mu.Unlock()
		return
	}
	s.vouchers, _, _ = mapWhere(s.vouchers,
		func(v domain.Voucher) bool { return v.ID == voucher.ID },
		func(v domain.Voucher) (domain.Voucher, error) {
			v.UsedCount++
			return v, nil
		})
	_ = s.editUserLocked(userID, func(u domain.User) (domain.User, error) {
		u.UsedVouchers = appended(u.UsedVouchers, voucher.ID)
		return u, nil
	})
	s.mu.Unlock()
	s.save(ctx, KeyVouchers, KeyUsers, KeyCurrentUser)
}

func (s *Store) UpdateDeliverySettings(ctx context.Context, updates map[string]any) error {
	s.mu.Lock()
	settings, err := merge(s.deliverySettings, updates)
	if err == nil {
		s.deliverySettings = settings
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.save(ctx, KeyDeliverySettings)
	return nil
}

func (s *Store) DeliverySettings() domain.DeliverySettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deliverySettings
}

func (s *Store) CalculateDeliveryCharge(city string, orderTotal float64) float64 {
	return rules.CalculateDeliveryCharge(s.DeliverySettings(), city, orderTotal)
}

// AddReview stores the review first in the list.
func (s *Store) AddReview(ctx context.Context, r domain.Review) domain.Review {
	now := s.now()
	r.ID = ids.Plain(now)
	r.CreatedAt = now.UTC()
	s.mu.Lock()
	s.reviews = prepended(s.reviews, r)
	s.mu.Unlock()
	s.save(ctx, KeyReviews)
	return r
}

func (s *Store) DeleteReview(ctx context.Context, reviewID string) {
	s.mu.Lock()
	s.reviews = without(s.reviews, func(r domain.Review) bool { return r.ID == reviewID })
	s.mu.Unlock()
	s.save(ctx, KeyReviews)
}

func (s *Store) ProductReviews(productID string) []domain.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Review{}
	for _, r := range s.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) CanUserReview(userID, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rules.CanUserReview(s.reviews, s.orders, userID, productID)
}
