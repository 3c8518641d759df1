package order

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"auraz-storefront/internal/domain"
)

type stubRepo struct {
	created []domain.Order
	updated bool
}

func (r *stubRepo) List(context.Context) ([]domain.Order, error) { return nil, nil }

func (r *stubRepo) Create(_ context.Context, o domain.Order) error {
	r.created = append(r.created, o)
	return nil
}

func (r *stubRepo) Update(context.Context, string, map[string]json.RawMessage) error {
	r.updated = true
	return nil
}

func (r *stubRepo) Delete(context.Context, string) error { return nil }

func TestCreateDefaults(t *testing.T) {
	repo := &stubRepo{}
	o, err := New(repo).Create(context.Background(), domain.Order{UserID: "u1", Total: 100, User: &domain.OrderUser{ID: "u1"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.Status != domain.OrderPending || o.DeliveryCharge != 0 || !strings.HasPrefix(o.ID, "order-") {
		t.Fatalf("unexpected order %+v", o)
	}
	if repo.created[0].User != nil {
		t.Fatalf("joined user must not be written")
	}
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	_, err := New(&stubRepo{}).Create(context.Background(), domain.Order{UserID: "u1", Status: "lost"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateValidatesStatus(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	err := svc.Update(context.Background(), "o1", map[string]json.RawMessage{"status": json.RawMessage(`"lost"`)})
	if !errors.Is(err, domain.ErrInvalidInput) || repo.updated {
		t.Fatalf("expected rejected update, got err=%v updated=%v", err, repo.updated)
	}
	if err := svc.Update(context.Background(), "o1", map[string]json.RawMessage{"status": json.RawMessage(`"shipped"`)}); err != nil {
		t.Fatalf("update: %v", err)
	}
}
