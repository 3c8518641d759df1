package domain

import "time"

type UserStatus string

const (
	UserPending  UserStatus = "pending"
	UserApproved UserStatus = "approved"
	UserRejected UserStatus = "rejected"
)

// Valid reports whether s is one of the known account states.
func (s UserStatus) Valid() bool {
	switch s {
	case UserPending, UserApproved, UserRejected:
		return true
	}
	return false
}

// Address is a saved shipping address.
type Address struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Landmark   string `json:"landmark,omitempty"`
}

// PaymentMethod is a saved card or mobile wallet.
type PaymentMethod struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Details   string `json:"details"`
	IsDefault bool   `json:"isDefault"`
}

// User is a storefront account. Password carries a bcrypt hash on the server
// and is stripped before the user leaves it.
type User struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Password       string          `json:"password,omitempty"`
	ProfilePhoto   string          `json:"profilePhoto,omitempty"`
	DateOfBirth    string          `json:"dateOfBirth,omitempty"`
	Gender         string          `json:"gender,omitempty"`
	Status         UserStatus      `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	Addresses      []Address       `json:"addresses"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
	UsedVouchers   []string        `json:"usedVouchers"`
}

// Public returns a copy of u without the password hash.
func (u User) Public() User {
	u.Password = ""
	return u
}

// HasUsedVoucher reports whether the voucher id is recorded against the user.
func (u User) HasUsedVoucher(voucherID string) bool {
	for _, id := range u.UsedVouchers {
		if id == voucherID {
			return true
		}
	}
	return false
}
