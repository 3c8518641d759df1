package domain

import "time"

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
	VerificationExpired  VerificationStatus = "expired"
)

// PaymentVerification is a manual payment check awaiting an admin. OrderData is
// the order draft that gets materialised on approval.
type PaymentVerification struct {
	ID            string             `json:"id"`
	UserID        string             `json:"userId"`
	OrderID       string             `json:"orderId"`
	Amount        float64            `json:"amount"`
	UserPhone     string             `json:"userPhone"`
	TransactionID string             `json:"transactionId,omitempty"`
	Status        VerificationStatus `json:"status"`
	CreatedAt     time.Time          `json:"createdAt"`
	ExpiresAt     time.Time          `json:"expiresAt"`
	OrderData     Order              `json:"orderData"`
}

type RefundStatus string

const (
	RefundPending  RefundStatus = "pending"
	RefundApproved RefundStatus = "approved"
	RefundRejected RefundStatus = "rejected"
)

type RefundRequest struct {
	ID          string       `json:"id"`
	OrderID     string       `json:"orderId"`
	UserID      string       `json:"userId"`
	Reason      string       `json:"reason"`
	Amount      float64      `json:"amount"`
	Status      RefundStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	ProcessedAt *time.Time   `json:"processedAt,omitempty"`
	AdminNotes  string       `json:"adminNotes,omitempty"`
}
