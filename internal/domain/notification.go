package domain

import "time"

type NotificationTarget string

const (
	TargetUser  NotificationTarget = "user"
	TargetAdmin NotificationTarget = "admin"
	TargetAll   NotificationTarget = "all"
)

type NotificationType string

const (
	NotifyOrder     NotificationType = "order"
	NotifyPayment   NotificationType = "payment"
	NotifyPromotion NotificationType = "promotion"
	NotifySystem    NotificationType = "system"
)

// Notification is addressed either to one user (UserID set) or to an audience via Target.
type Notification struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId,omitempty"`
	Target    NotificationTarget `json:"target"`
	Title     string             `json:"title"`
	Message   string             `json:"message"`
	Type      NotificationType   `json:"type"`
	IsRead    bool               `json:"isRead"`
	CreatedAt time.Time          `json:"createdAt"`
	Link      string             `json:"link,omitempty"`
}
