package gateway

import (
	"context"
	"fmt"
	"net/http"

	"auraz-storefront/internal/domain"
)

// resource covers the getAll/create/update/delete calls shared by users,
// products and orders. idField names the id key in update and delete bodies.
type resource[T any] struct {
	c       *Client
	path    string
	idField string
}

func (r resource[T]) list(ctx context.Context) ([]T, error) {
	raw, err := r.c.do(ctx, http.MethodGet, r.path, nil, nil)
	if err != nil {
		return nil, err
	}
	items := []T{}
	if err := decodeData(raw, &items); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.path, err)
	}
	return items, nil
}

func (r resource[T]) create(ctx context.Context, v T) error {
	_, err := r.c.do(ctx, http.MethodPost, r.path, nil, v)
	return err
}

func (r resource[T]) update(ctx context.Context, id string, updates map[string]any) error {
	body := map[string]any{r.idField: id, "updates": updates}
	_, err := r.c.do(ctx, http.MethodPut, r.path, nil, body)
	return err
}

func (r resource[T]) remove(ctx context.Context, id string) error {
	_, err := r.c.do(ctx, http.MethodDelete, r.path, nil, map[string]string{r.idField: id})
	return err
}

func (c *Client) users() resource[domain.User] {
	return resource[domain.User]{c: c, path: "/api/users", idField: "userId"}
}

func (c *Client) products() resource[domain.Product] {
	return resource[domain.Product]{c: c, path: "/api/products", idField: "productId"}
}

func (c *Client) orders() resource[domain.Order] {
	return resource[domain.Order]{c: c, path: "/api/orders", idField: "orderId"}
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) { return c.users().list(ctx) }

func (c *Client) CreateUser(ctx context.Context, u domain.User) error {
	return c.users().create(ctx, u)
}

func (c *Client) UpdateUser(ctx context.Context, id string, updates map[string]any) error {
	return c.users().update(ctx, id, updates)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error { return c.users().remove(ctx, id) }

// GetUser lists users and picks the one with id. It returns domain.ErrNotFound
// when the id is not listed.
func (c *Client) GetUser(ctx context.Context, id string) (domain.User, error) {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return domain.User{}, err
	}
	return findByID(users, id, func(u domain.User) string { return u.ID })
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.products().list(ctx)
}

func (c *Client) CreateProduct(ctx context.Context, p domain.Product) error {
	return c.products().create(ctx, p)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, updates map[string]any) error {
	return c.products().update(ctx, id, updates)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.products().remove(ctx, id)
}

func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	return findByID(products, id, func(p domain.Product) string { return p.ID })
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) { return c.orders().list(ctx) }

func (c *Client) CreateOrder(ctx context.Context, o domain.Order) error {
	return c.orders().create(ctx, o)
}

func (c *Client) UpdateOrder(ctx context.Context, id string, updates map[string]any) error {
	return c.orders().update(ctx, id, updates)
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error { return c.orders().remove(ctx, id) }

func (c *Client) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	orders, err := c.ListOrders(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	return findByID(orders, id, func(o domain.Order) string { return o.ID })
}

func findByID[T any](items []T, id string, key func(T) string) (T, error) {
	for _, item := range items {
		if key(item) == id {
			return item, nil
		}
	}
	var zero T
	return zero, domain.ErrNotFound
}
