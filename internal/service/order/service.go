package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/ids"
	orderrepo "auraz-storefront/internal/repository/order"
)

type Service struct {
	repo orderrepo.Repository
	now  func() time.Time
}

func New(repo orderrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

// Create stores an order. Status defaults to pending; delivery charge already
// defaults to zero.
func (s *Service) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if o.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", domain.ErrInvalidInput)
	}
	if o.Status == "" {
		o.Status = domain.OrderPending
	}
	if !o.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, o.Status)
	}
	now := s.now().UTC()
	if o.ID == "" {
		o.ID = ids.New("order", now)
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.User = nil
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Service) Update(ctx context.Context, id string, updates map[string]json.RawMessage) error {
	if id == "" {
		return fmt.Errorf("%w: orderId is required", domain.ErrInvalidInput)
	}
	if raw, ok := updates["status"]; ok {
		var status domain.OrderStatus
		if err := json.Unmarshal(raw, &status); err != nil || !status.Valid() {
			return fmt.Errorf("%w: invalid status", domain.ErrInvalidInput)
		}
	}
	return s.repo.Update(ctx, id, updates)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: orderId is required", domain.ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}
