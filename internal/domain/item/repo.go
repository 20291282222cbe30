package item

import (
	"context"

	"homestock/internal/core/id"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	// Insert stores a new item.
	Insert(ctx context.Context, it *Item) error

	// GetByID retrieves an item including its enrichment data.
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)

	// GetForUpdate retrieves an item with a row lock for transactional
	// updates. Must be called inside a transaction.
	GetForUpdate(ctx context.Context, itemID id.ID) (*Item, error)

	// Update replaces the mutable fields of an item. The shelf reference
	// is not touched; moves go through UpdateShelf.
	Update(ctx context.Context, it *Item) error

	// UpdateShelf repoints an item to another shelf.
	UpdateShelf(ctx context.Context, itemID, shelfID id.ID) error

	// UpdateAmount sets the unit count of an item.
	UpdateAmount(ctx context.Context, itemID id.ID, amount int) error

	// Delete removes an item.
	Delete(ctx context.Context, itemID id.ID) error

	// List returns all items without enrichment data, ordered by sort.
	List(ctx context.Context, sort []SortField) ([]*Item, error)

	// Search matches term case-insensitively against name, barcode and
	// enrichment product name.
	Search(ctx context.Context, term string, sort []SortField) ([]*Item, error)

	// ListByShelf returns the items placed on a shelf.
	ListByShelf(ctx context.Context, shelfID id.ID) ([]*Item, error)
}

// ShelfStore is the shelf-membership side of the bidirectional reference.
// Implementations must report a missing shelf as a not-found error so the
// surrounding transaction aborts.
type ShelfStore interface {
	// AddItem pushes itemID onto the shelf's membership set.
	AddItem(ctx context.Context, shelfID, itemID id.ID) error

	// RemoveItem pulls itemID from the shelf's membership set.
	RemoveItem(ctx context.Context, shelfID, itemID id.ID) error
}

// PhotoStore deletes stored item photos by object key.
// Used only for best-effort cleanup; failures are logged, never fatal.
type PhotoStore interface {
	Delete(ctx context.Context, key string) error
}

// ChangeRecorder journals committed item mutations.
// Recording is best-effort and happens outside the mutating transaction.
type ChangeRecorder interface {
	Record(ctx context.Context, action string, itemID id.ID, changes any) error
}
