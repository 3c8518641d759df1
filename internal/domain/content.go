package domain

import "time"

type CarouselSlide struct {
	ID          string `json:"id"`
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ButtonText  string `json:"buttonText"`
	ButtonLink  string `json:"buttonLink"`
}

type PromoCard struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ButtonText  string `json:"buttonText"`
	Link        string `json:"link"`
	Gradient    string `json:"gradient"`
	IsActive    bool   `json:"isActive"`
	Order       int    `json:"order"`
}

type Review struct {
	ID                 string    `json:"id"`
	ProductID          string    `json:"productId"`
	UserID             string    `json:"userId"`
	UserName           string    `json:"userName"`
	OrderID            string    `json:"orderId"`
	Rating             int       `json:"rating"`
	Comment            string    `json:"comment"`
	IsVerifiedPurchase bool      `json:"isVerifiedPurchase"`
	CreatedAt          time.Time `json:"createdAt"`
}

// DeliverySettings is a singleton. FreeShippingThreshold is stored but not
// consulted when charging.
type DeliverySettings struct {
	DhakaCharge           float64 `json:"dhakaCharge"`
	OutsideDhakaCharge    float64 `json:"outsideDhakaCharge"`
	FreeShippingThreshold float64 `json:"freeShippingThreshold"`
}
