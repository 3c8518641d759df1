// Package changes serves the coarse change signal polled by storefront clients.
package changes

import (
	"context"
	"time"

	"auraz-storefront/internal/domain"
	changesrepo "auraz-storefront/internal/repository/changes"
)

type Service struct {
	repo changesrepo.Repository
	now  func() time.Time
}

func New(repo changesrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// LastSync returns the server clock in Unix milliseconds.
func (s *Service) LastSync() int64 {
	return s.now().UnixMilli()
}

// Updates reports how many orders, users and products were created after
// sinceMillis. A non-positive baseline counts everything.
func (s *Service) Updates(ctx context.Context, sinceMillis int64) (domain.SyncStatus, error) {
	now := s.now()
	since := time.UnixMilli(max(sinceMillis, 0)).UTC()
	counts, err := s.repo.CountsSince(ctx, since)
	if err != nil {
		return domain.SyncStatus{}, err
	}
	return domain.SyncStatus{
		HasUpdates: counts.Orders > 0 || counts.Users > 0 || counts.Products > 0,
		Timestamp:  now.UnixMilli(),
		Orders:     counts.Orders,
		Users:      counts.Users,
		Products:   counts.Products,
	}, nil
}
