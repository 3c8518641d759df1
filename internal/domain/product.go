package domain

import "time"

type Variant struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

type Seller struct {
	Name     string  `json:"name,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
	Verified bool    `json:"verified,omitempty"`
}

type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"`
	OriginalPrice  *float64          `json:"originalPrice,omitempty"`
	Image          string            `json:"image"`
	Images         []string          `json:"images,omitempty"`
	Category       string            `json:"category"`
	Brand          string            `json:"brand"`
	Stock          int               `json:"stock"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"reviewCount"`
	Trending       bool              `json:"trending"`
	NewArrival     bool              `json:"newArrival"`
	IsDeal         bool              `json:"isDeal,omitempty"`
	IsFestive      bool              `json:"isFestive,omitempty"`
	IsElectronics  bool              `json:"isElectronics,omitempty"`
	Variants       []Variant         `json:"variants,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Seller         *Seller           `json:"seller,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}
