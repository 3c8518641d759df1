package product

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"auraz-storefront/internal/domain"
)

type stubRepo struct {
	created []domain.Product
	updated map[string]json.RawMessage
	deleted string
}

func (r *stubRepo) List(context.Context) ([]domain.Product, error) { return r.created, nil }

func (r *stubRepo) Create(_ context.Context, p domain.Product) error {
	r.created = append(r.created, p)
	return nil
}

func (r *stubRepo) Upsert(_ context.Context, p domain.Product) error {
	r.created = append(r.created, p)
	return nil
}

func (r *stubRepo) Update(_ context.Context, _ string, updates map[string]json.RawMessage) error {
	r.updated = updates
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id string) error {
	r.deleted = id
	return nil
}

func TestCreateFillsIDAndTimestamp(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	p, err := svc.Create(context.Background(), domain.Product{Name: "Jamdani Saree", Price: 8500, Stock: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(p.ID, "product-1735689600000-") {
		t.Fatalf("unexpected id %q", p.ID)
	}
	if !p.CreatedAt.Equal(fixed) || len(repo.created) != 1 {
		t.Fatalf("unexpected stored product %+v", repo.created)
	}
}

func TestCreateKeepsGivenID(t *testing.T) {
	repo := &stubRepo{}
	p, err := New(repo).Create(context.Background(), domain.Product{ID: "p-7", Name: "Lamp"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID != "p-7" {
		t.Fatalf("expected id to be kept, got %q", p.ID)
	}
}

func TestCreateValidation(t *testing.T) {
	cases := []domain.Product{
		{Name: "  "},
		{Name: "Lamp", Price: -1},
		{Name: "Lamp", Stock: -2},
	}
	for _, p := range cases {
		repo := &stubRepo{}
		if _, err := New(repo).Create(context.Background(), p); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", p, err)
		}
		if len(repo.created) != 0 {
			t.Fatalf("invalid product must not be stored")
		}
	}
}

func TestUpdateAndDeleteRequireID(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	ctx := context.Background()

	if err := svc.Update(ctx, "", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on update, got %v", err)
	}
	if err := svc.Delete(ctx, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on delete, got %v", err)
	}

	updates := map[string]json.RawMessage{"stock": json.RawMessage(`9`)}
	if err := svc.Update(ctx, "p-1", updates); err != nil || string(repo.updated["stock"]) != "9" {
		t.Fatalf("update not forwarded: err=%v updates=%v", err, repo.updated)
	}
	if err := svc.Delete(ctx, "p-1"); err != nil || repo.deleted != "p-1" {
		t.Fatalf("delete not forwarded: err=%v deleted=%q", err, repo.deleted)
	}
}
