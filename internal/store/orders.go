package store

import (
	"context"
	"fmt"
	"slices"

	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/ids"
)

// PlaceOrder creates the order on the backend, reloads orders, empties the
// cart and notifies both the customer and the admins.
func (s *Store) PlaceOrder(ctx context.Context, draft domain.Order) (domain.Order, error) {
	now := s.now()
	order := draft
	order.ID = ids.New("order", now)
	order.CreatedAt = now.UTC()
	if order.Status == "" {
		order.Status = domain.OrderPending
	}
	if err := s.remote.CreateOrder(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("place order: %w", err)
	}
	orders, err := s.remote.ListOrders(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("refresh orders: %w", err)
	}

	s.mu.Lock()
	s.orders = nonNil(orders)
	s.cart = []domain.CartItem{}
	s.notifyLocked(domain.Notification{
		UserID:  order.UserID,
		Target:  domain.TargetUser,
		Title:   "Order Placed Successfully",
		Message: fmt.Sprintf("Your order #%s has been placed successfully", order.ID),
		Type:    domain.NotifyOrder,
		Link:    "/order/" + order.ID,
	})
	s.notifyLocked(domain.Notification{
		Target:  domain.TargetAdmin,
		Title:   "New Order Received",
		Message: fmt.Sprintf("New order #%s from %s - %s", order.ID, s.customerNameLocked(order), taka(order.Total)),
		Type:    domain.NotifyOrder,
		Link:    "/admin/orders",
	})
	s.mu.Unlock()

	s.save(ctx, KeyOrders, KeyCart, KeyNotifications)
	s.logger.Printf("store: placed order id=%s total=%.2f", order.ID, order.Total)
	return order, nil
}

func (s *Store) customerNameLocked(o domain.Order) string {
	if o.User != nil && o.User.Name != "" {
		return o.User.Name
	}
	if s.currentUser != nil && s.currentUser.ID == o.UserID {
		return s.currentUser.Name
	}
	if u, ok := find(s.users, func(u domain.User) bool { return u.ID == o.UserID }); ok {
		return u.Name
	}
	return o.UserID
}

// UpdateOrderStatus changes the status on the backend, reloads orders and
// tells the customer.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if !status.Valid() {
		return ruleError(fmt.Sprintf("Invalid order status %q", status))
	}
	s.mu.Lock()
	prev, known := find(s.orders, func(o domain.Order) bool { return o.ID == orderID })
	s.mu.Unlock()

	if err := s.remote.UpdateOrder(ctx, orderID, map[string]any{"status": status}); err != nil {
		return fmt.Errorf("update order %s: %w", orderID, err)
	}
	orders, err := s.remote.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("refresh orders: %w", err)
	}

	s.mu.Lock()
	s.orders = nonNil(orders)
	if known {
		s.notifyLocked(domain.Notification{
			UserID:  prev.UserID,
			Target:  domain.TargetUser,
			Title:   "Order Status Updated",
			Message: fmt.Sprintf("Your order #%s is now %s", orderID, status),
			Type:    domain.NotifyOrder,
			Link:    "/order/" + orderID,
		})
	}
	s.mu.Unlock()
	s.save(ctx, KeyOrders, KeyNotifications)
	return nil
}

// CancelOrder cancels a pending or processing order locally. Cash on Delivery
// orders are refused.
func (s *Store) CancelOrder(ctx context.Context, orderID string) error {
	s.mu.Lock()
	order, ok := find(s.orders, func(o domain.Order) bool { return o.ID == orderID })
	switch {
	case !ok:
		s.mu.Unlock()
		return ruleError("Order not found")
	case order.PaymentMethod == domain.PaymentCashOnDelivery:
		s.mu.Unlock()
		return ruleError("Cash on Delivery orders cannot be cancelled. Please contact support at aurazsupport@gmail.com")
	case order.Status != domain.OrderPending && order.Status != domain.OrderProcessing:
		s.mu.Unlock()
		return ruleError("This order cannot be cancelled at this stage")
	}
	s.orders, _, _ = mapWhere(s.orders,
		func(o domain.Order) bool { return o.ID == orderID },
		func(o domain.Order) (domain.Order, error) {
			o.Status = domain.OrderCancelled
			return o, nil
		})
	s.mu.Unlock()
	s.save(ctx, KeyOrders)
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, orderID string) {
	s.mu.Lock()
	s.orders = without(s.orders, func(o domain.Order) bool { return o.ID == orderID })
	s.mu.Unlock()
	s.save(ctx, KeyOrders)
}

func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.orders)
}

// CreateRefundRequest files a refund for the full total of one of the orders.
func (s *Store) CreateRefundRequest(ctx context.Context, orderID, reason string) (domain.RefundRequest, error) {
	s.mu.Lock()
	if s.currentUser == nil {
		s.mu.Unlock()
		return domain.RefundRequest{}, ruleError("Please login to continue")
	}
	order, ok := find(s.orders, func(o domain.Order) bool { return o.ID == orderID })
	if !ok {
		s.mu.Unlock()
		return domain.RefundRequest{}, ruleError("Order not found")
	}
	now := s.now()
	refund := domain.RefundRequest{
		ID:        ids.Plain(now),
		OrderID:   orderID,
		UserID:    s.currentUser.ID,
		Reason:    reason,
		Amount:    order.Total,
		Status:    domain.RefundPending,
		CreatedAt: now.UTC(),
	}
	s.refunds = appended(s.refunds, refund)
	s.notifyLocked(domain.Notification{
		Target:  domain.TargetAdmin,
		Title:   "New Refund Request",
		Message: fmt.Sprintf("%s requested a refund for order #%s", s.currentUser.Name, orderID),
		Type:    domain.NotifyOrder,
		Link:    "/admin/refunds",
	})
	s.mu.Unlock()
	s.save(ctx, KeyRefunds, KeyNotifications)
	return refund, nil
}

func (s *Store) ApproveRefund(ctx context.Context, refundID, notes string) error {
	return s.processRefund(ctx, refundID, notes, domain.RefundApproved)
}

func (s *Store) RejectRefund(ctx context.Context, refundID, notes string) error {
	return s.processRefund(ctx, refundID, notes, domain.RefundRejected)
}

func (s *Store) processRefund(ctx context.Context, refundID, notes string, status domain.RefundStatus) error {
	s.mu.Lock()
	processedAt := s.now().UTC()
	refunds, found, _ := mapWhere(s.refunds,
		func(r domain.RefundRequest) bool { return r.ID == refundID },
		func(r domain.RefundRequest) (domain.RefundRequest, error) {
			r.Status = status
			r.ProcessedAt = &processedAt
			r.AdminNotes = notes
			return r, nil
		})
	if !found {
		s.mu.Unlock()
		return ruleError("Refund request not found")
	}
	s.refunds = refunds
	refund, _ := find(refunds, func(r domain.RefundRequest) bool { return r.ID == refundID })

	n := domain.Notification{
		UserID:  refund.UserID,
		Target:  domain.TargetUser,
		Title:   "Refund Approved",
		Message: fmt.Sprintf("Your refund request for order #%s has been approved", refund.OrderID),
		Type:    domain.NotifyOrder,
	}
	if status == domain.RefundRejected {
		n.Title = "Refund Request Rejected"
		n.Message = fmt.Sprintf("Your refund request for order #%s has been rejected.", refund.OrderID)
		if notes != "" {
			n.Message += " " + notes
		}
	}
	s.notifyLocked(n)
	s.mu.Unlock()
	s.save(ctx, KeyRefunds, KeyNotifications)
	return nil
}

func (s *Store) RefundRequests() []domain.RefundRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.refunds)
}
