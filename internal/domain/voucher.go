package domain

type VoucherType string

const (
	VoucherPercentage VoucherType = "percentage"
	VoucherFixed      VoucherType = "fixed"
)

// Voucher is a discount code. ValidFrom and ValidUntil hold either a date
// ("2025-01-01", read as UTC midnight) or an RFC 3339 timestamp.
type Voucher struct {
	ID                   string      `json:"id"`
	Code                 string      `json:"code"`
	Type                 VoucherType `json:"type"`
	Value                float64     `json:"value"`
	Description          string      `json:"description"`
	MinOrderAmount       float64     `json:"minOrderAmount"`
	MaxDiscount          *float64    `json:"maxDiscount,omitempty"`
	ValidFrom            string      `json:"validFrom"`
	ValidUntil           string      `json:"validUntil"`
	UsageLimit           int         `json:"usageLimit"`
	UsedCount            int         `json:"usedCount"`
	IsActive             bool        `json:"isActive"`
	ApplicableCategories []string    `json:"applicableCategories,omitempty"`
}
