// Package catalog holds the storefront's built-in default data. Every function
// returns a fresh copy so callers may modify the result freely.
package catalog

import (
	"time"

	"auraz-storefront/internal/domain"
)

// seededAt is the creation time stamped on catalog products so that they never
// register as new rows for the sync endpoint.
var seededAt = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func price(v float64) *float64 { return &v }

// Products returns the seed product catalog.
func Products() []domain.Product {
	return []domain.Product{
		{
			ID:            "1",
			Name:          "Wireless Noise Cancelling Headphones",
			Description:   "Over-ear headphones with active noise cancellation and 30 hour battery life.",
			Price:         8999,
			OriginalPrice: price(12999),
			Image:         "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=800",
			Images:        []string{"https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=800"},
			Category:      "Electronics",
			Brand:         "SoundMax",
			Stock:         25,
			Rating:        4.6,
			ReviewCount:   214,
			Trending:      true,
			IsDeal:        true,
			IsElectronics: true,
			Variants:      []domain.Variant{{Name: "Color", Options: []string{"Black", "Silver"}}},
			Specifications: map[string]string{
				"Battery":      "30 hours",
				"Connectivity": "Bluetooth 5.3",
			},
			Seller:    &domain.Seller{Name: "Auraz Electronics", Rating: 4.8, Verified: true},
			CreatedAt: seededAt,
		},
		{
			ID:            "2",
			Name:          "Smart Fitness Watch",
			Description:   "Heart rate, SpO2 and sleep tracking with a 1.4 inch AMOLED display.",
			Price:         5499,
			OriginalPrice: price(6999),
			Image:         "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=800",
			Category:      "Electronics",
			Brand:         "FitPulse",
			Stock:         40,
			Rating:        4.3,
			ReviewCount:   98,
			NewArrival:    true,
			IsElectronics: true,
			Variants:      []domain.Variant{{Name: "Strap", Options: []string{"Silicone", "Leather"}}},
			Seller:        &domain.Seller{Name: "Auraz Electronics", Rating: 4.8, Verified: true},
			CreatedAt:     seededAt,
		},
		{
			ID:          "3",
			Name:        "Jamdani Saree",
			Description: "Handwoven cotton Jamdani saree with traditional motifs.",
			Price:       7500,
			Image:       "https://images.unsplash.com/photo-1610030469983-98e550d6193c?w=800",
			Category:    "Fashion",
			Brand:       "Tanti Ghor",
			Stock:       12,
			Rating:      4.8,
			ReviewCount: 57,
			Trending:    true,
			IsFestive:   true,
			Variants:    []domain.Variant{{Name: "Color", Options: []string{"Red", "Blue", "Green"}}},
			Seller:      &domain.Seller{Name: "Tanti Ghor", Rating: 4.9, Verified: true},
			CreatedAt:   seededAt,
		},
		{
			ID:            "4",
			Name:          "Men's Cotton Panjabi",
			Description:   "Breathable cotton panjabi for Eid and everyday wear.",
			Price:         2200,
			OriginalPrice: price(2800),
			Image:         "https://images.unsplash.com/photo-1622470953794-aa9c70b0fb9d?w=800",
			Category:      "Fashion",
			Brand:         "Deshi Threads",
			Stock:         60,
			Rating:        4.4,
			ReviewCount:   76,
			IsFestive:     true,
			IsDeal:        true,
			Variants: []domain.Variant{
				{Name: "Size", Options: []string{"M", "L", "XL"}},
			},
			CreatedAt: seededAt,
		},
		{
			ID:          "5",
			Name:        "Non-Stick Cookware Set",
			Description: "Five piece granite coated cookware set, induction ready.",
			Price:       4299,
			Image:       "https://images.unsplash.com/photo-1584990347449-a5d9f800a783?w=800",
			Category:    "Home & Kitchen",
			Brand:       "KitchenPro",
			Stock:       18,
			Rating:      4.2,
			ReviewCount: 41,
			NewArrival:  true,
			CreatedAt:   seededAt,
		},
		{
			ID:          "6",
			Name:        "Organic Sundarban Honey",
			Description: "Raw honey collected from the Sundarbans, 500g jar.",
			Price:       850,
			Image:       "https://images.unsplash.com/photo-1587049352846-4a222e784d38?w=800",
			Category:    "Groceries",
			Brand:       "Modhu",
			Stock:       120,
			Rating:      4.7,
			ReviewCount: 302,
			Trending:    true,
			CreatedAt:   seededAt,
		},
	}
}

// CarouselSlides returns the default hero slides.
func CarouselSlides() []domain.CarouselSlide {
	return []domain.CarouselSlide{
		{
			ID:          "1",
			Image:       "https://images.unsplash.com/photo-1607082348824-0a96f2a4b9da?w=1600",
			Title:       "Mega Shopping Festival",
			Description: "Up to 70% off across every category",
			ButtonText:  "Shop Now",
			ButtonLink:  "/products",
		},
		{
			ID:          "2",
			Image:       "https://images.unsplash.com/photo-1498049794561-7780e7231661?w=1600",
			Title:       "Latest Electronics",
			Description: "Top brands, genuine warranty",
			ButtonText:  "Explore",
			ButtonLink:  "/electronics-sale",
		},
		{
			ID:          "3",
			Image:       "https://images.unsplash.com/photo-1607344645866-009c7b3a1b57?w=1600",
			Title:       "Festive Collection",
			Description: "Celebrate in style this season",
			ButtonText:  "Discover",
			ButtonLink:  "/festive-sale",
		},
	}
}

// Vouchers returns the default discount codes.
func Vouchers() []domain.Voucher {
	return []domain.Voucher{
		{
			ID:             "v1",
			Code:           "WELCOME20",
			Type:           domain.VoucherPercentage,
			Value:          20,
			Description:    "Get 20% off on your first order",
			MinOrderAmount: 1000,
			MaxDiscount:    price(500),
			ValidFrom:      "2025-01-01",
			ValidUntil:     "2025-12-31",
			UsageLimit:     100,
			IsActive:       true,
		},
		{
			ID:             "v2",
			Code:           "FLAT500",
			Type:           domain.VoucherFixed,
			Value:          500,
			Description:    "Flat ৳500 off on orders above ৳3000",
			MinOrderAmount: 3000,
			ValidFrom:      "2025-01-01",
			ValidUntil:     "2025-12-31",
			UsageLimit:     50,
			IsActive:       true,
		},
	}
}

// PromoCards returns the default home page promotions.
func PromoCards() []domain.PromoCard {
	return []domain.PromoCard{
		{
			ID:          "pc1",
			Title:       "Festive Season Sale",
			Description: "Celebrate with amazing discounts",
			Image:       "https://images.unsplash.com/photo-1607344645866-009c7b3a1b57?w=800",
			ButtonText:  "Shop Now",
			Link:        "/festive-sale",
			Gradient:    "from-purple-500 to-purple-700",
			IsActive:    true,
			Order:       1,
		},
		{
			ID:          "pc2",
			Title:       "Electronics Mega Sale",
			Description: "Latest gadgets at unbeatable prices",
			Image:       "https://images.unsplash.com/photo-1498049794561-7780e7231661?w=800",
			ButtonText:  "Explore",
			Link:        "/electronics-sale",
			Gradient:    "from-blue-500 to-blue-700",
			IsActive:    true,
			Order:       2,
		},
	}
}

// DeliverySettings returns the default shipping charges.
func DeliverySettings() domain.DeliverySettings {
	return domain.DeliverySettings{
		DhakaCharge:           60,
		OutsideDhakaCharge:    110,
		FreeShippingThreshold: 5000,
	}
}
