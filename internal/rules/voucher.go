// Package rules holds the storefront's pure business rules. Nothing here reads
// the clock or touches state; callers pass both in.
package rules

import (
	"math"
	"strconv"
	"strings"
	"time"

	"auraz-storefront/internal/domain"
)

// VoucherResult is the outcome of ValidateVoucher. Voucher is set only when Valid.
type VoucherResult struct {
	Valid   bool            `json:"valid"`
	Message string          `json:"message"`
	Voucher *domain.Voucher `json:"voucher,omitempty"`
}

// ValidateVoucher checks code against the voucher list for an order of the
// given total. userID may be empty for anonymous checks.
func ValidateVoucher(vouchers []domain.Voucher, users []domain.User, code string, orderTotal float64, userID string, now time.Time) VoucherResult {
	idx := -1
	for i, v := range vouchers {
		if strings.EqualFold(v.Code, code) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return VoucherResult{Message: "Invalid voucher code"}
	}
	v := vouchers[idx]

	if !v.IsActive {
		return VoucherResult{Message: "This voucher is no longer active"}
	}
	if from, ok := ParseVoucherTime(v.ValidFrom); ok && now.Before(from) {
		return VoucherResult{Message: "This voucher is not yet valid"}
	}
	if until, ok := ParseVoucherTime(v.ValidUntil); ok && now.After(until) {
		return VoucherResult{Message: "This voucher has expired"}
	}
	if v.UsedCount >= v.UsageLimit {
		return VoucherResult{Message: "This voucher has reached its usage limit"}
	}
	if orderTotal < v.MinOrderAmount {
		return VoucherResult{Message: "Minimum order amount is ৳" + strconv.FormatFloat(v.MinOrderAmount, 'f', -1, 64)}
	}
	if userID != "" {
		for _, u := range users {
			if u.ID == userID && u.HasUsedVoucher(v.ID) {
				return VoucherResult{Message: "You have already used this voucher"}
			}
		}
	}
	return VoucherResult{Valid: true, Message: "Voucher is valid", Voucher: &v}
}

// ParseVoucherTime reads a voucher bound. Date-only values are UTC midnight.
func ParseVoucherTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// VoucherDiscount is the amount v takes off an order of total.
func VoucherDiscount(v domain.Voucher, total float64) float64 {
	var discount float64
	switch v.Type {
	case domain.VoucherPercentage:
		discount = total * v.Value / 100
		if v.MaxDiscount != nil {
			discount = math.Min(discount, *v.MaxDiscount)
		}
	case domain.VoucherFixed:
		discount = math.Min(v.Value, total)
	}
	return math.Max(discount, 0)
}
