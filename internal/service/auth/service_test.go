package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"auraz-storefront/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// memoryRepo is a lightweight in-memory user repository for tests.
type memoryRepo struct {
	byID map[string]domain.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[string]domain.User)}
}

func (r *memoryRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *memoryRepo) Create(_ context.Context, u domain.User) error {
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrAlreadyExists
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memoryRepo) Update(_ context.Context, id string, updates map[string]json.RawMessage) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if raw, ok := updates["status"]; ok {
		var status domain.UserStatus
		if err := json.Unmarshal(raw, &status); err != nil {
			return err
		}
		u.Status = status
	}
	r.byID[id] = u
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func newTestService(t *testing.T, repo *memoryRepo, now func() time.Time) *Service {
	t.Helper()
	hash, err := HashPassword("admin-pass")
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	return New(repo, Options{
		AdminEmail:        "admin@auraz.test",
		AdminPasswordHash: hash,
		JWTSecret:         []byte("test-secret"),
		SessionTTL:        time.Hour,
		Now:               now,
	})
}

func TestRegisterThenLoginRequiresApproval(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(t, repo, time.Now)

	u, err := svc.Register(ctx, RegisterInput{Name: "Nadia", Email: "nadia@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Password != "" || u.Status != domain.UserPending || !strings.HasPrefix(u.ID, "user-") {
		t.Fatalf("unexpected registered user %+v", u)
	}
	if stored := repo.byID[u.ID]; stored.Password == "secret1" || stored.Password == "" {
		t.Fatalf("expected bcrypt hash to be stored, got %q", stored.Password)
	}

	if _, err := svc.Register(ctx, RegisterInput{Name: "Other", Email: "NADIA@example.com", Password: "x"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := svc.Login(ctx, "nadia@example.com", "secret1"); !errors.Is(err, ErrPendingApproval) {
		t.Fatalf("expected ErrPendingApproval, got %v", err)
	}

	stored := repo.byID[u.ID]
	stored.Status = domain.UserRejected
	repo.byID[u.ID] = stored
	if _, err := svc.Login(ctx, "nadia@example.com", "secret1"); !errors.Is(err, ErrAccountRejected) {
		t.Fatalf("expected ErrAccountRejected, got %v", err)
	}

	stored.Status = domain.UserApproved
	repo.byID[u.ID] = stored
	sess, err := svc.Login(ctx, "nadia@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.IsAdmin || sess.Token == "" || sess.User.Password != "" {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestLoginErrors(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(t, repo, time.Now)

	if _, err := svc.Login(ctx, "missing@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	u, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "right"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(ctx, u.Email, "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestAdminLoginAndLookup(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newMemoryRepo(), time.Now)

	sess, err := svc.Login(ctx, "ADMIN@auraz.test", "admin-pass")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if !sess.IsAdmin || sess.User.ID != AdminID {
		t.Fatalf("expected admin session, got %+v", sess)
	}

	looked, err := svc.Lookup(ctx, sess.Token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !looked.IsAdmin || looked.Token != "" {
		t.Fatalf("unexpected lookup session %+v", looked)
	}

	if _, err := svc.Login(ctx, "admin@auraz.test", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected wrong admin password to fall through to ErrInvalidCredentials, got %v", err)
	}
}

func TestAdminDisabledWithoutHash(t *testing.T) {
	svc := New(newMemoryRepo(), Options{AdminEmail: "admin@auraz.test", JWTSecret: []byte("s")})
	if _, err := svc.Login(context.Background(), "admin@auraz.test", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLookupRejectsExpiredAndForeignTokens(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }
	repo := newMemoryRepo()
	svc := newTestService(t, repo, now)

	repo.byID["user-1"] = domain.User{ID: "user-1", Email: "u@example.com", Status: domain.UserApproved}
	token, err := svc.tokens.Issue("user-1", false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Lookup(ctx, token); err != nil {
		t.Fatalf("lookup fresh token: %v", err)
	}

	current = current.Add(2 * time.Hour)
	if _, err := svc.Lookup(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}

	other := New(repo, Options{JWTSecret: []byte("another-secret"), Now: now})
	foreign, err := other.tokens.Issue("user-1", false)
	if err != nil {
		t.Fatalf("issue foreign: %v", err)
	}
	if _, err := svc.Lookup(ctx, foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected foreign token to be rejected, got %v", err)
	}
}

func TestNoSecretRejectsEveryToken(t *testing.T) {
	ctx := context.Background()
	hash, err := HashPassword("admin-pass")
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	svc := New(newMemoryRepo(), Options{AdminEmail: "admin@auraz.test", AdminPasswordHash: hash})

	if _, err := svc.Login(ctx, "admin@auraz.test", "admin-pass"); err == nil {
		t.Fatalf("expected login to fail without a jwt secret")
	}

	now := time.Now()
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: roleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   AdminID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte("dev-secret-change-me"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Lookup(ctx, forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token to be rejected without a secret, got %v", err)
	}
}
