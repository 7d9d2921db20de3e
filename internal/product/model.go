package product

import (
	"database/sql/driver"
	"time"

	"storefront-be/internal/db"

	"github.com/google/uuid"
)

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

type Images []Image

func (i Images) Value() (driver.Value, error) {
	if i == nil {
		i = Images{}
	}
	return db.JSONValue(i)
}

func (i *Images) Scan(src any) error {
	return db.ScanJSON(src, i)
}

type Product struct {
	ID            uuid.UUID  `json:"_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	DiscountPrice *float64   `json:"discountPrice,omitempty"`
	CountInStock  int        `json:"countInStock"`
	SKU           string     `json:"sku"`
	Category      string     `json:"category"`
	Brand         string     `json:"brand"`
	Sizes         []string   `json:"sizes"`
	Colors        []string   `json:"colors"`
	Collections   string     `json:"collections"`
	Material      string     `json:"material"`
	Gender        string     `json:"gender"`
	Images        Images     `json:"images"`
	IsFeatured    bool       `json:"isFeatured"`
	IsPublished   bool       `json:"isPublished"`
	Rating        float64    `json:"rating"`
	NumReviews    int        `json:"numReviews"`
	Tags          []string   `json:"tags"`
	UserID        *uuid.UUID `json:"user,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// PrimaryImage is the url shown for the product in carts and orders.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

const (
	SortPriceAsc   = "priceAsc"
	SortPriceDesc  = "priceDesc"
	SortPopularity = "popularity"
)

// Filter narrows the public catalog listing. Empty fields do not filter.
type Filter struct {
	Collection string
	Sizes      []string
	Color      string
	Gender     string
	MinPrice   *float64
	MaxPrice   *float64
	SortBy     string
	Search     string
	Category   string
	Materials  []string
	Brands     []string
	Limit      int
}

// Input carries writable product fields for admin create and update.
// On update, nil fields keep their stored value.
type Input struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	DiscountPrice *float64 `json:"discountPrice"`
	CountInStock  *int     `json:"countInStock"`
	SKU           *string  `json:"sku"`
	Category      *string  `json:"category"`
	Brand         *string  `json:"brand"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	Collections   *string  `json:"collections"`
	Material      *string  `json:"material"`
	Gender        *string  `json:"gender"`
	Images        Images   `json:"images"`
	IsFeatured    *bool    `json:"isFeatured"`
	IsPublished   *bool    `json:"isPublished"`
	Tags          []string `json:"tags"`
}

const (
	newArrivalsLimit = 8
	similarLimit     = 4
)
