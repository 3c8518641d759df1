package rules

import (
	"strings"

	"auraz-storefront/internal/domain"
)

// CalculateDeliveryCharge picks the Dhaka or outside-Dhaka rate by city name.
// The order total is accepted for callers but never waives the charge.
func CalculateDeliveryCharge(settings domain.DeliverySettings, city string, _ float64) float64 {
	if strings.Contains(strings.ToLower(city), "dhaka") {
		return settings.DhakaCharge
	}
	return settings.OutsideDhakaCharge
}

// CanUserReview reports whether the user has a delivered order containing the
// product and has not reviewed it yet.
func CanUserReview(reviews []domain.Review, orders []domain.Order, userID, productID string) bool {
	for _, r := range reviews {
		if r.UserID == userID && r.ProductID == productID {
			return false
		}
	}
	for _, o := range orders {
		if o.UserID == userID && o.Status == domain.OrderDelivered && o.Contains(productID) {
			return true
		}
	}
	return false
}

// UserNotifications returns what a user sees: notifications addressed to them
// plus broadcasts targeted at users or everyone.
func UserNotifications(ns []domain.Notification, userID string) []domain.Notification {
	out := []domain.Notification{}
	for _, n := range ns {
		if n.UserID == userID || (n.UserID == "" && (n.Target == domain.TargetUser || n.Target == domain.TargetAll)) {
			out = append(out, n)
		}
	}
	return out
}

// AdminNotifications keeps notifications targeted at admins or everyone.
func AdminNotifications(ns []domain.Notification) []domain.Notification {
	out := []domain.Notification{}
	for _, n := range ns {
		if n.Target == domain.TargetAdmin || n.Target == domain.TargetAll {
			out = append(out, n)
		}
	}
	return out
}

// AdminUnreadCount counts unread unaddressed notifications plus transferred
// conversations still waiting for an admin reply.
func AdminUnreadCount(ns []domain.Notification, convs []domain.Conversation) int {
	count := 0
	for _, n := range ns {
		if !n.IsRead && n.UserID == "" {
			count++
		}
	}
	for _, c := range convs {
		if c.TransferredToAdmin && !c.AdminReplied {
			count++
		}
	}
	return count
}

// UserUnreadCount counts unread notifications addressed to the user or to nobody.
func UserUnreadCount(ns []domain.Notification, userID string) int {
	count := 0
	for _, n := range ns {
		if !n.IsRead && (n.UserID == userID || n.UserID == "") {
			count++
		}
	}
	return count
}

// ActiveConversations are the ones handed to an admin and not yet closed.
func ActiveConversations(convs []domain.Conversation) []domain.Conversation {
	out := []domain.Conversation{}
	for _, c := range convs {
		if c.TransferredToAdmin && c.Status != domain.ConversationClosed {
			out = append(out, c)
		}
	}
	return out
}
