package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/ids"
)

// RequestPaymentVerification records a manual payment for admin review and
// returns its id. The request expires after the payment TTL unless an admin
// acts on it first.
func (s *Store) RequestPaymentVerification(ctx context.Context, draft domain.Order, amount float64, transactionID string) (string, error) {
	s.mu.Lock()
	if s.currentUser == nil {
		s.mu.Unlock()
		return "", ruleError("Please login to continue")
	}
	user := *s.currentUser
	now := s.now()
	v := domain.PaymentVerification{
		ID:            ids.Stamped("pv", now),
		UserID:        user.ID,
		OrderID:       ids.Stamped("order", now),
		Amount:        amount,
		UserPhone:     user.Phone,
		TransactionID: transactionID,
		Status:        domain.VerificationPending,
		CreatedAt:     now.UTC(),
		ExpiresAt:     now.Add(s.paymentTTL).UTC(),
		OrderData:     draft,
	}
	s.paymentVerifications = appended(s.paymentVerifications, v)
	s.notifyLocked(domain.Notification{
		Target:  domain.TargetAdmin,
		Title:   "New Payment Verification",
		Message: fmt.Sprintf("%s requested payment verification for %s", user.Name, taka(amount)),
		Type:    domain.NotifyPayment,
		Link:    "/admin/payments",
	})
	s.armLocked(v.ID, s.paymentTTL)
	s.mu.Unlock()

	s.save(ctx, KeyPaymentVerifications, KeyNotifications)
	s.logger.Printf("store: payment verification requested id=%s amount=%.2f", v.ID, amount)
	return v.ID, nil
}

// ApprovePaymentVerification approves a pending request and materialises its
// order as processing.
func (s *Store) ApprovePaymentVerification(ctx context.Context, id string) (domain.Order, error) {
	s.mu.Lock()
	swept := s.sweepLocked()
	v, err := s.pendingLocked(id)
	if err != nil {
		s.mu.Unlock()
		if swept {
			s.save(ctx, KeyPaymentVerifications)
		}
		return domain.Order{}, err
	}
	s.setVerificationStatusLocked(id, domain.VerificationApproved)

	order := v.OrderData
	order.ID = v.OrderID
	order.Status = domain.OrderProcessing
	order.CreatedAt = s.now().UTC()
	s.orders = appended(s.orders, order)
	s.notifyLocked(domain.Notification{
		UserID:  v.UserID,
		Target:  domain.TargetUser,
		Title:   "Payment Approved",
		Message: "Your payment has been verified and order is being processed",
		Type:    domain.NotifyPayment,
		Link:    "/order/" + order.ID,
	})
	s.mu.Unlock()

	s.save(ctx, KeyPaymentVerifications, KeyOrders, KeyNotifications)
	return order, nil
}

func (s *Store) RejectPaymentVerification(ctx context.Context, id string) error {
	s.mu.Lock()
	swept := s.sweepLocked()
	v, err := s.pendingLocked(id)
	if err != nil {
		s.mu.Unlock()
		if swept {
			s.save(ctx, KeyPaymentVerifications)
		}
		return err
	}
	s.setVerificationStatusLocked(id, domain.VerificationRejected)
	s.notifyLocked(domain.Notification{
		UserID:  v.UserID,
		Target:  domain.TargetUser,
		Title:   "Payment Verification Failed",
		Message: "Your payment verification was rejected. Please try again or contact support.",
		Type:    domain.NotifyPayment,
	})
	s.mu.Unlock()

	s.save(ctx, KeyPaymentVerifications, KeyNotifications)
	return nil
}

func (s *Store) pendingLocked(id string) (domain.PaymentVerification, error) {
	v, ok := find(s.paymentVerifications, func(v domain.PaymentVerification) bool { return v.ID == id })
	if !ok {
		return v, ruleError("Payment verification not found")
	}
	if v.Status != domain.VerificationPending {
		return v, ruleError(fmt.Sprintf("Payment verification is already %s", v.Status))
	}
	return v, nil
}

func (s *Store) setVerificationStatusLocked(id string, status domain.VerificationStatus) {
	s.paymentVerifications, _, _ = mapWhere(s.paymentVerifications,
		func(v domain.PaymentVerification) bool { return v.ID == id },
		func(v domain.PaymentVerification) (domain.PaymentVerification, error) {
			v.Status = status
			return v, nil
		})
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// PaymentVerification returns the request with id, expiring it first if its
// deadline has passed.
func (s *Store) PaymentVerification(ctx context.Context, id string) (domain.PaymentVerification, bool) {
	s.mu.Lock()
	changed := s.sweepLocked()
	v, ok := find(s.paymentVerifications, func(v domain.PaymentVerification) bool { return v.ID == id })
	s.mu.Unlock()
	if changed {
		s.save(ctx, KeyPaymentVerifications)
	}
	return v, ok
}

func (s *Store) PaymentVerifications(ctx context.Context) []domain.PaymentVerification {
	s.mu.Lock()
	changed := s.sweepLocked()
	out := slices.Clone(s.paymentVerifications)
	s.mu.Unlock()
	if changed {
		s.save(ctx, KeyPaymentVerifications)
	}
	return out
}

func (s *Store) DeletePaymentVerification(ctx context.Context, id string) {
	s.mu.Lock()
	s.paymentVerifications = without(s.paymentVerifications, func(v domain.PaymentVerification) bool { return v.ID == id })
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()
	s.save(ctx, KeyPaymentVerifications)
}

// sweepLocked expires every pending request whose deadline is behind the
// store clock and reports whether anything changed.
func (s *Store) sweepLocked() bool {
	now := s.now()
	var changed bool
	s.paymentVerifications, changed, _ = mapWhere(s.paymentVerifications,
		func(v domain.PaymentVerification) bool {
			return v.Status == domain.VerificationPending && now.After(v.ExpiresAt)
		},
		func(v domain.PaymentVerification) (domain.PaymentVerification, error) {
			v.Status = domain.VerificationExpired
			return v, nil
		})
	return changed
}

func (s *Store) armLocked(id string, d time.Duration) {
	if s.closed {
		return
	}
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	s.timers[id] = time.AfterFunc(d, func() { s.expire(id) })
}

// armPendingLocked schedules expiry for pending requests that have no timer,
// such as ones loaded from the mirror or received from another instance.
func (s *Store) armPendingLocked() {
	now := s.now()
	for _, v := range s.paymentVerifications {
		if v.Status != domain.VerificationPending {
			continue
		}
		if _, ok := s.timers[v.ID]; ok {
			continue
		}
		s.armLocked(v.ID, max(v.ExpiresAt.Sub(now), 0))
	}
}

func (s *Store) expire(id string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	var changed bool
	s.paymentVerifications, changed, _ = mapWhere(s.paymentVerifications,
		func(v domain.PaymentVerification) bool {
			return v.ID == id && v.Status == domain.VerificationPending
		},
		func(v domain.PaymentVerification) (domain.PaymentVerification, error) {
			v.Status = domain.VerificationExpired
			return v, nil
		})
	s.mu.Unlock()
	if changed {
		s.logger.Printf("store: payment verification expired id=%s", id)
		s.save(context.Background(), KeyPaymentVerifications)
	}
}

func (s *Store) stopTimersLocked() {
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
