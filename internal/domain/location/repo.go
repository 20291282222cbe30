package location

import (
	"context"

	"homestock/internal/core/id"
	"homestock/internal/domain/item"
)

// Repository defines the interface for Location persistence.
type Repository interface {
	// Create inserts a location. A duplicate name must surface as a
	// duplicate-entry error.
	Create(ctx context.Context, loc *Location) error

	// GetByID retrieves a location row (shelves not populated).
	GetByID(ctx context.Context, locationID id.ID) (*Location, error)

	// List returns all locations sorted by name ascending.
	List(ctx context.Context) ([]*Location, error)
}

// ShelfRepository defines the interface for Shelf persistence.
// Membership writes live on item.ShelfStore; this side covers creation
// and reads.
type ShelfRepository interface {
	// Create inserts a shelf.
	Create(ctx context.Context, shelf *Shelf) error

	// GetByID retrieves a shelf.
	GetByID(ctx context.Context, shelfID id.ID) (*Shelf, error)

	// ListByLocation returns a location's shelves sorted by name.
	ListByLocation(ctx context.Context, locationID id.ID) ([]*Shelf, error)
}

// ItemLister is the slice of the item repository the location service
// needs to populate shelf detail responses.
type ItemLister interface {
	ListByShelf(ctx context.Context, shelfID id.ID) ([]*item.Item, error)
}
