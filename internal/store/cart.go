package store

import (
	"context"
	"slices"

	"auraz-storefront/internal/domain"
)

// AddToCart adds quantity of product, merging into an existing line for the
// same product and variant.
func (s *Store) AddToCart(ctx context.Context, product domain.Product, quantity int, variant map[string]string) {
	s.mu.Lock()
	cart, found, _ := mapWhere(s.cart,
		func(item domain.CartItem) bool { return item.SameLine(product.ID, variant) },
		func(item domain.CartItem) (domain.CartItem, error) {
			item.Quantity += quantity
			return item, nil
		})
	if !found {
		cart = appended(s.cart, domain.CartItem{
			ProductID: product.ID,
			Product:   product,
			Quantity:  quantity,
			Variant:   variant,
		})
	}
	s.cart = cart
	s.mu.Unlock()
	s.save(ctx, KeyCart)
}

// RemoveFromCart drops every line for productID.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) {
	s.mu.Lock()
	s.cart = without(s.cart, func(item domain.CartItem) bool { return item.ProductID == productID })
	s.mu.Unlock()
	s.save(ctx, KeyCart)
}

// UpdateCartQuantity sets the quantity of productID's lines. A quantity of
// zero or less removes them.
func (s *Store) UpdateCartQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(ctx, productID)
		return
	}
	s.mu.Lock()
	s.cart, _, _ = mapWhere(s.cart,
		func(item domain.CartItem) bool { return item.ProductID == productID },
		func(item domain.CartItem) (domain.CartItem, error) {
			item.Quantity = quantity
			return item, nil
		})
	s.mu.Unlock()
	s.save(ctx, KeyCart)
}

func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.cart = []domain.CartItem{}
	s.mu.Unlock()
	s.save(ctx, KeyCart)
}

func (s *Store) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cart)
}

// AddToWishlist reports false when the product was already listed.
func (s *Store) AddToWishlist(ctx context.Context, product domain.Product) bool {
	s.mu.Lock()
	if _, ok := find(s.wishlist, func(p domain.Product) bool { return p.ID == product.ID }); ok {
		s.mu.Unlock()
		return false
	}
	s.wishlist = appended(s.wishlist, product)
	s.mu.Unlock()
	s.save(ctx, KeyWishlist)
	return true
}

func (s *Store) RemoveFromWishlist(ctx context.Context, productID string) {
	s.mu.Lock()
	s.wishlist = without(s.wishlist, func(p domain.Product) bool { return p.ID == productID })
	s.mu.Unlock()
	s.save(ctx, KeyWishlist)
}

func (s *Store) IsInWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := find(s.wishlist, func(p domain.Product) bool { return p.ID == productID })
	return ok
}

func (s *Store) Wishlist() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.wishlist)
}
