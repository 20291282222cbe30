// Package item provides the Item entity and the coordinator that keeps
// item/shelf references consistent under create, move and delete.
package item

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"homestock/internal/core/apperror"
	"homestock/internal/core/id"
)

// Item is a tracked inventory unit placed on exactly one shelf.
type Item struct {
	ID   id.ID  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`

	// Image is the object-storage key of the item photo
	Image *string `db:"image" json:"image,omitempty"`

	// Barcode is the scanned product barcode, if any
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// Amount is the unit count, conventionally positive
	Amount int `db:"amount" json:"amount"`

	// Quantity is the per-unit package quantity as printed (e.g. "1 L")
	Quantity *string `db:"quantity" json:"quantity,omitempty"`

	// Expiration is a calendar date; time-of-day is ignored
	Expiration *time.Time `db:"expiration" json:"expiration,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Owner *string `db:"owner" json:"owner,omitempty"`

	// ShelfID references the owning shelf. The shelf's membership set and
	// this field must always agree (see Service).
	ShelfID id.ID `db:"shelf_id" json:"location"`

	// ProductData is catalog enrichment fetched by barcode. Hidden from
	// list responses; exposed on single-item fetches only.
	ProductData json.RawMessage `db:"product_data" json:"productLookupData,omitempty"`
}

// Validate checks required fields before persistence.
func (i *Item) Validate(ctx context.Context) error {
	if strings.TrimSpace(i.Name) == "" {
		return apperror.NewValidation("item name is required").
			WithDetail("field", "name")
	}
	if id.IsNil(i.ShelfID) {
		return apperror.NewValidation("item location is required").
			WithDetail("field", "location")
	}
	if i.Amount < 1 {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", i.Amount)
	}
	return nil
}

// ExpiresIn returns whole days between now's calendar day and the
// expiration date, or nil when no expiration is set. The value depends
// only on the calendar day of now, so repeated reads within one day
// agree. Negative values mean the item is past its date.
func (i *Item) ExpiresIn(now time.Time) *int {
	if i.Expiration == nil {
		return nil
	}
	days := daysBetween(now, *i.Expiration)
	return &days
}

// daysBetween counts calendar days from the day of from to the day of to.
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// NormalizeExpiration resolves the expiration inputs accepted by the API
// into a calendar date.
//
// A full date string ("2006-01-02") wins. A partial month/day pair is
// completed with the current year; dates already past within the current
// year are accepted as-is (no rollover to next year).
func NormalizeExpiration(date string, month, day int, now time.Time) (*time.Time, error) {
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, apperror.NewValidation("invalid expiration date, use YYYY-MM-DD").
				WithDetail("value", date)
		}
		return &parsed, nil
	}

	if month == 0 && day == 0 {
		return nil, nil
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil, apperror.NewValidation("invalid expiration month/day").
			WithDetail("month", month).
			WithDetail("day", day)
	}

	normalized := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject day overflow (e.g. Feb 30 normalizing into March).
	if int(normalized.Month()) != month {
		return nil, apperror.NewValidation("invalid expiration day for month").
			WithDetail("month", month).
			WithDetail("day", day)
	}
	return &normalized, nil
}
