package user

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"auraz-storefront/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type stubRepo struct {
	users       []domain.User
	created     []domain.User
	lastID      string
	lastUpdates map[string]json.RawMessage
}

func (r *stubRepo) List(context.Context) ([]domain.User, error) { return r.users, nil }

func (r *stubRepo) Create(_ context.Context, u domain.User) error {
	r.created = append(r.created, u)
	return nil
}

func (r *stubRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *stubRepo) GetByID(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *stubRepo) Update(_ context.Context, id string, updates map[string]json.RawMessage) error {
	r.lastID = id
	r.lastUpdates = updates
	return nil
}

func (r *stubRepo) Delete(context.Context, string) error { return nil }

func TestListStripsPasswords(t *testing.T) {
	repo := &stubRepo{users: []domain.User{{ID: "u1", Password: "hash"}}}
	users, err := New(repo).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if users[0].Password != "" {
		t.Fatalf("expected password stripped")
	}
}

func TestCreateHashesAndDefaultsStatus(t *testing.T) {
	repo := &stubRepo{}
	if err := New(repo).Create(context.Background(), domain.User{Email: " a@b.c ", Password: "plain"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	got := repo.created[0]
	if got.Status != domain.UserPending || got.Email != "a@b.c" || got.ID == "" || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected created user %+v", got)
	}
	if bcrypt.CompareHashAndPassword([]byte(got.Password), []byte("plain")) != nil {
		t.Fatalf("expected stored password to be a bcrypt hash of the input")
	}
}

func TestUpdateRehashesPasswordAndValidatesStatus(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	ctx := context.Background()

	err := svc.Update(ctx, "u1", map[string]json.RawMessage{"password": json.RawMessage(`"new-pass"`)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	var stored string
	if err := json.Unmarshal(repo.lastUpdates["password"], &stored); err != nil {
		t.Fatalf("decode stored password: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte("new-pass")) != nil {
		t.Fatalf("expected hashed password in update, got %q", stored)
	}

	err = svc.Update(ctx, "u1", map[string]json.RawMessage{"status": json.RawMessage(`"banned"`)})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.Delete(ctx, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty id, got %v", err)
	}
}
