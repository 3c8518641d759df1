// Package user implements admin-facing account management.
package user

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/ids"
	userrepo "auraz-storefront/internal/repository/user"
	"auraz-storefront/internal/service/auth"
)

type Service struct {
	repo userrepo.Repository
	now  func() time.Time
}

func New(repo userrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns all accounts, newest first, without password hashes.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

// Create stores an account. The password is hashed and status defaults to pending.
func (s *Service) Create(ctx context.Context, u domain.User) error {
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" || u.Password == "" {
		return fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if u.Status == "" {
		u.Status = domain.UserPending
	}
	if !u.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, u.Status)
	}
	hashed, err := auth.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	now := s.now().UTC()
	if u.ID == "" {
		u.ID = ids.New("user", now)
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	return s.repo.Create(ctx, u)
}

// Update applies a partial update. A new password is hashed before it is stored.
func (s *Service) Update(ctx context.Context, id string, updates map[string]json.RawMessage) error {
	if id == "" {
		return fmt.Errorf("%w: userId is required", domain.ErrInvalidInput)
	}
	if raw, ok := updates["status"]; ok {
		var status domain.UserStatus
		if err := json.Unmarshal(raw, &status); err != nil || !status.Valid() {
			return fmt.Errorf("%w: invalid status", domain.ErrInvalidInput)
		}
	}
	if raw, ok := updates["password"]; ok {
		var password string
		if err := json.Unmarshal(raw, &password); err != nil || password == "" {
			return fmt.Errorf("%w: invalid password", domain.ErrInvalidInput)
		}
		hashed, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		encoded, err := json.Marshal(hashed)
		if err != nil {
			return err
		}
		patched := make(map[string]json.RawMessage, len(updates))
		for k, v := range updates {
			patched[k] = v
		}
		patched["password"] = encoded
		updates = patched
	}
	return s.repo.Update(ctx, id, updates)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: userId is required", domain.ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}
