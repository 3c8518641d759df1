package product

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/ids"
	productrepo "auraz-storefront/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
	now  func() time.Time
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Create stores p, generating an id and creation time when they are missing.
func (s *Service) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if p.Price < 0 || p.Stock < 0 {
		return nil, fmt.Errorf("%w: price and stock must not be negative", domain.ErrInvalidInput)
	}
	now := s.now().UTC()
	if p.ID == "" {
		p.ID = ids.New("product", now)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id string, updates map[string]json.RawMessage) error {
	if id == "" {
		return fmt.Errorf("%w: productId is required", domain.ErrInvalidInput)
	}
	return s.repo.Update(ctx, id, updates)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: productId is required", domain.ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}
