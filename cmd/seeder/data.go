package main

import (
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

var categories = []domain.Category{
	{
		Slug:        "ready-made",
		Name:        "Ready-Made Clothing",
		Description: "Stylish ready-to-wear pieces for every occasion",
		ImageURL:    "https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=400",
	},
	{
		Slug:        "designs",
		Name:        "Fashion Designs",
		Description: "Unique fashion designs and patterns",
		ImageURL:    "https://images.unsplash.com/photo-1556909114-f6e7ad7d3136?w=400",
	},
	{
		Slug:        "fabrics",
		Name:        "Premium Fabrics",
		Description: "High-quality fabrics for your creations",
		ImageURL:    "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=400",
	},
}

// products have no slug yet, it is derived from the name.
var products = []domain.Product{
	{
		Name:         "Elegant Summer Dress",
		SKU:          "DSS-001",
		Description:  "A beautiful summer dress perfect for any occasion. Made from premium cotton with a flattering fit.",
		Price:        dec("89.99"),
		ComparePrice: decPtr("129.99"),
		Category:     "ready-made",
		Rating:       4,
		ReviewCount:  24,
		Stock:        25,
		WeightKg:     0.5,
		IsFeatured:   true,
		Variants: []domain.ProductVariant{
			{ID: "var-1", Name: "Size", Value: "Small", SKU: "DSS-001-S", Stock: 10},
			{ID: "var-2", Name: "Size", Value: "Medium", SKU: "DSS-001-M", Stock: 15},
			{ID: "var-3", Name: "Size", Value: "Large", SKU: "DSS-001-L", Stock: 8},
		},
		Images: []domain.ProductImage{
			{
				ID:        "img-1",
				URL:       "https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=600",
				Alt:       "Elegant Summer Dress",
				IsPrimary: true,
			},
		},
	},
	{
		Name:        "Classic White Shirt",
		SKU:         "CWS-001",
		Description: "Timeless white shirt for professional and casual wear. Made from 100% cotton.",
		Price:       dec("45.00"),
		Category:    "ready-made",
		Rating:      5,
		ReviewCount: 18,
		Stock:       50,
		WeightKg:    0.3,
		Images: []domain.ProductImage{
			{
				ID:        "img-2",
				URL:       "https://images.unsplash.com/photo-1556909114-f6e7ad7d3136?w=600",
				Alt:       "Classic White Shirt",
				IsPrimary: true,
			},
		},
	},
	{
		Name:        "Premium Cotton Fabric",
		SKU:         "PCF-001",
		Description: "High-quality cotton fabric for your sewing projects. 100% natural cotton, 200g/m².",
		Price:       dec("29.99"),
		Category:    "fabrics",
		Rating:      4,
		ReviewCount: 31,
		Stock:       100,
		WeightKg:    0.2,
		Images: []domain.ProductImage{
			{
				ID:        "img-3",
				URL:       "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=600",
				Alt:       "Premium Cotton Fabric",
				IsPrimary: true,
			},
		},
	},
	{
		Name:         "Designer Pattern Set",
		SKU:          "DPS-001",
		Description:  "Exclusive designer patterns for unique creations. Includes 5 different patterns.",
		Price:        dec("65.00"),
		ComparePrice: decPtr("85.00"),
		Category:     "designs",
		Rating:       4,
		ReviewCount:  12,
		Stock:        15,
		WeightKg:     0.1,
		IsFeatured:   true,
	},
	{
		Name:        "Silk Evening Gown",
		SKU:         "SEG-001",
		Description: "Luxurious silk evening gown for special occasions. Handcrafted with attention to detail.",
		Price:       dec("199.99"),
		Category:    "ready-made",
		Rating:      5,
		ReviewCount: 8,
		Stock:       8,
		WeightKg:    0.8,
		IsFeatured:  true,
	},
	{
		Name:        "Wool Blend Fabric",
		SKU:         "WBF-001",
		Description: "Warm and durable wool blend fabric. Perfect for winter garments.",
		Price:       dec("39.99"),
		Category:    "fabrics",
		Rating:      4,
		ReviewCount: 15,
		Stock:       75,
		WeightKg:    0.4,
	},
}

type zoneSeed struct {
	zone    domain.ShippingZone
	methods []domain.ShippingMethod
}

var zones = []zoneSeed{
	{
		zone: domain.ShippingZone{Name: "UK Domestic", Countries: []string{"GB"}},
		methods: []domain.ShippingMethod{
			{
				ID:            "sm-1",
				Name:          "Standard Delivery",
				Description:   "3-5 business days",
				Price:         dec("3.99"),
				FreeThreshold: decPtr("50.00"),
				MinDays:       3,
				MaxDays:       5,
			},
			{
				ID:          "sm-2",
				Name:        "Express Delivery",
				Description: "1-2 business days",
				Price:       dec("7.99"),
				MinDays:     1,
				MaxDays:     2,
			},
		},
	},
	{
		zone: domain.ShippingZone{
			Name:      "EU",
			Countries: []string{"DE", "FR", "IT", "ES", "NL", "BE", "AT", "IE"},
		},
		methods: []domain.ShippingMethod{
			{
				ID:          "sm-3",
				Name:        "International Standard",
				Description: "5-10 business days",
				Price:       dec("12.99"),
				MinDays:     5,
				MaxDays:     10,
			},
		},
	},
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
