// Package location provides the Location and Shelf entities.
// A Location is a named storage area ("Pantry", "Garage") subdivided into
// Shelves. Shelves are created together with their Location and never
// independently; each shelf tracks the set of item ids currently placed
// on it.
package location

import (
	"context"
	"fmt"
	"strings"
	"time"

	"homestock/internal/core/apperror"
	"homestock/internal/core/id"
)

// MaxShelfCount bounds the number of shelves created with a location.
const MaxShelfCount = 50

// Location is a named storage area composed of one or more shelves.
type Location struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Shelves is populated by the service, not scanned from the row.
	Shelves []*Shelf `db:"-" json:"shelves,omitempty"`
}

// Shelf is a named subdivision of a Location holding zero or more items.
//
// Items and each contained item's shelf reference form a bidirectional
// pair that must always agree; the item coordinator is the only writer
// of either side.
type Shelf struct {
	ID         id.ID   `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	LocationID id.ID   `db:"location_id" json:"locationId"`
	Items      []id.ID `db:"items" json:"items"`
}

// NewLocation creates a Location with required fields.
func NewLocation(name string) *Location {
	return &Location{
		ID:        id.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// NewShelf creates the n-th generated shelf for a location.
func NewShelf(locationID id.ID, n int) *Shelf {
	return &Shelf{
		ID:         id.New(),
		Name:       fmt.Sprintf("Shelf %d", n),
		LocationID: locationID,
		Items:      []id.ID{},
	}
}

// Validate checks required fields before persistence.
func (l *Location) Validate(ctx context.Context) error {
	if strings.TrimSpace(l.Name) == "" {
		return apperror.NewValidation("location name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Contains reports whether the shelf membership set holds itemID.
func (s *Shelf) Contains(itemID id.ID) bool {
	for _, existing := range s.Items {
		if existing == itemID {
			return true
		}
	}
	return false
}
