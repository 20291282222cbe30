// Package product defines the external product-catalog enrichment contract.
// Lookups are best-effort: a missing product is a normal outcome, not an
// error, and callers must never fail their own operation because the
// catalog is unreachable.
package product

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is the catalog metadata attached to an item by barcode.
type Product struct {
	// Code is the scanned barcode (EAN-13 or similar)
	Code string `json:"code"`

	// Name is the catalog product name
	Name string `json:"product_name"`

	// Quantity is the package quantity as printed (e.g. "1 L", "500 g")
	Quantity string `json:"quantity,omitempty"`

	// Brands is a comma-separated brand list
	Brands string `json:"brands,omitempty"`

	// ImageURL is the main display image
	ImageURL string `json:"image_url,omitempty"`

	// ImageThumbURL is the small display image
	ImageThumbURL string `json:"image_thumb_url,omitempty"`

	// Nutrients holds per-100g nutrient facts keyed by nutrient name
	Nutrients map[string]decimal.Decimal `json:"nutriments,omitempty"`
}

// Lookup queries the external product catalog.
type Lookup interface {
	// ByBarcode returns the product for a barcode, or (nil, nil) when the
	// catalog has no match.
	ByBarcode(ctx context.Context, barcode string) (*Product, error)

	// Search performs a free-text product search.
	Search(ctx context.Context, term string) ([]Product, error)
}
