package item

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"homestock/internal/core/apperror"
	"homestock/internal/core/id"
	"homestock/internal/core/tx"
	"homestock/internal/domain/product"
	"homestock/pkg/logger"
)

// Change actions recorded by the coordinator.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionMove   = "move"
	ActionSplit  = "split"
	ActionDelete = "delete"
)

// Service coordinates multi-entity item writes so that the item/shelf
// reference pair stays consistent: every mutation that touches both sides
// runs in a single transaction opened here and nowhere deeper.
type Service struct {
	repo    Repository
	shelves ShelfStore
	txm     tx.Manager
	lookup  product.Lookup // may be nil (enrichment disabled)
	photos  PhotoStore     // may be nil (no object storage configured)
	changes ChangeRecorder // may be nil (change log disabled)
	now     func() time.Time
}

// NewService creates the item coordinator. Lookup, photos and changes are
// optional collaborators; pass nil to disable them.
func NewService(
	repo Repository,
	shelves ShelfStore,
	txm tx.Manager,
	lookup product.Lookup,
	photos PhotoStore,
	changes ChangeRecorder,
) *Service {
	return &Service{
		repo:    repo,
		shelves: shelves,
		txm:     txm,
		lookup:  lookup,
		photos:  photos,
		changes: changes,
		now:     time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateInput carries the validated fields for a new item.
type CreateInput struct {
	Name            string
	Image           *string
	Barcode         *string
	Amount          int
	Quantity        *string
	Expiration      string
	ExpirationMonth int
	ExpirationDay   int
	Owner           *string
	ShelfID         id.ID
}

// Create inserts an item and pushes it onto the target shelf as one
// atomic unit. Enrichment by barcode is best-effort: a failed catalog
// lookup never aborts the create. If the insert fails after a photo was
// already uploaded out-of-band, the orphaned photo is deleted.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Item, error) {
	if id.IsNil(input.ShelfID) {
		return nil, apperror.NewValidation("item location is required").
			WithDetail("field", "location")
	}

	enrichment := s.lookupByBarcode(ctx, input.Barcode)

	name := resolveName(input.Name, enrichment, input.Barcode)
	if name == "" {
		return nil, apperror.NewValidation("item name is required").
			WithDetail("field", "name")
	}

	expiration, err := NormalizeExpiration(input.Expiration, input.ExpirationMonth, input.ExpirationDay, s.now())
	if err != nil {
		return nil, err
	}

	amount := input.Amount
	if amount == 0 {
		amount = 1
	}

	it := &Item{
		ID:         id.New(),
		Name:       name,
		Image:      input.Image,
		Barcode:    input.Barcode,
		Amount:     amount,
		Quantity:   input.Quantity,
		Expiration: expiration,
		CreatedAt:  s.now().UTC(),
		Owner:      input.Owner,
		ShelfID:    input.ShelfID,
	}
	if enrichment != nil {
		data, marshalErr := json.Marshal(enrichment)
		if marshalErr == nil {
			it.ProductData = data
		}
	}
	if err := it.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Insert(ctx, it); err != nil {
			return err
		}
		return s.shelves.AddItem(ctx, it.ShelfID, it.ID)
	})
	if err != nil {
		s.deletePhoto(ctx, input.Image)
		return nil, err
	}

	s.recordChange(ctx, ActionCreate, it.ID, it)
	return it, nil
}

// UpdateInput carries replacement fields for an existing item.
// The shelf reference is deliberately absent; moves go through Move.
type UpdateInput struct {
	Name            string
	Image           *string
	Barcode         *string
	Amount          int
	Quantity        *string
	Expiration      string
	ExpirationMonth int
	ExpirationDay   int
	Owner           *string
}

// Update replaces the mutable fields of an item without changing its
// shelf.
func (s *Service) Update(ctx context.Context, itemID id.ID, input UpdateInput) (*Item, error) {
	expiration, err := NormalizeExpiration(input.Expiration, input.ExpirationMonth, input.ExpirationDay, s.now())
	if err != nil {
		return nil, err
	}

	var updated *Item
	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		if strings.TrimSpace(input.Name) != "" {
			cur.Name = input.Name
		}
		if input.Amount > 0 {
			cur.Amount = input.Amount
		}
		cur.Image = input.Image
		cur.Barcode = input.Barcode
		cur.Quantity = input.Quantity
		cur.Owner = input.Owner
		if expiration != nil {
			cur.Expiration = expiration
		}

		if err := cur.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, cur); err != nil {
			return err
		}
		updated = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordChange(ctx, ActionUpdate, updated.ID, updated)
	return updated, nil
}

// Move places an item onto another shelf. The re-read, the no-op check
// and all three reference mutations share one transaction, so two
// concurrent moves of the same item serialize on the row lock instead of
// racing a stale precondition.
//
// When amount names fewer units than the item holds, the move splits the
// item: the source keeps the remainder and a new item with the moved
// amount appears on the destination shelf.
func (s *Service) Move(ctx context.Context, itemID, destShelfID id.ID, amount *int) (*Item, error) {
	if id.IsNil(destShelfID) {
		return nil, apperror.NewValidation("destination location is required").
			WithDetail("field", "location")
	}

	var moved *Item
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		if cur.ShelfID == destShelfID {
			return apperror.NewConflict("item is already in this location").
				WithDetail("location", destShelfID.String())
		}

		if amount != nil && *amount != cur.Amount {
			moved, err = s.splitMove(ctx, cur, destShelfID, *amount)
			return err
		}

		if err := s.repo.UpdateShelf(ctx, cur.ID, destShelfID); err != nil {
			return err
		}
		if err := s.shelves.RemoveItem(ctx, cur.ShelfID, cur.ID); err != nil {
			return err
		}
		if err := s.shelves.AddItem(ctx, destShelfID, cur.ID); err != nil {
			return err
		}
		cur.ShelfID = destShelfID
		moved = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordChange(ctx, ActionMove, moved.ID, moved)
	return moved, nil
}

// splitMove moves amount units to the destination shelf by decrementing
// the source item and inserting the split remainder there. Runs inside
// the caller's transaction.
func (s *Service) splitMove(ctx context.Context, cur *Item, destShelfID id.ID, amount int) (*Item, error) {
	if amount < 1 || amount > cur.Amount {
		return nil, apperror.NewValidation("move amount out of range").
			WithDetail("amount", amount).
			WithDetail("available", cur.Amount)
	}

	if err := s.repo.UpdateAmount(ctx, cur.ID, cur.Amount-amount); err != nil {
		return nil, err
	}

	split := *cur
	split.ID = id.New()
	split.Amount = amount
	split.ShelfID = destShelfID
	split.CreatedAt = s.now().UTC()
	if err := s.repo.Insert(ctx, &split); err != nil {
		return nil, err
	}
	if err := s.shelves.AddItem(ctx, destShelfID, split.ID); err != nil {
		return nil, err
	}
	return &split, nil
}

// Delete removes an item and pulls it from its shelf in one transaction.
// The photo, if any, is deleted from object storage after the commit;
// a failed photo deletion is logged and does not affect the committed
// delete.
func (s *Service) Delete(ctx context.Context, itemID id.ID) error {
	var removed *Item
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, cur.ID); err != nil {
			return err
		}
		if err := s.shelves.RemoveItem(ctx, cur.ShelfID, cur.ID); err != nil {
			return err
		}
		removed = cur
		return nil
	})
	if err != nil {
		return err
	}

	s.deletePhoto(ctx, removed.Image)
	s.recordChange(ctx, ActionDelete, removed.ID, removed)
	return nil
}

// Get retrieves one item including its enrichment data.
func (s *Service) Get(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// List returns all items ordered by the sort spec (default: ascending
// expiration date).
func (s *Service) List(ctx context.Context, sortSpec string) ([]*Item, error) {
	sort, err := ParseSortSpec(sortSpec)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, sort)
}

// Search matches term against name, barcode and enrichment product name.
// An empty result set reports not-found rather than an empty success.
func (s *Service) Search(ctx context.Context, term, sortSpec string) ([]*Item, error) {
	sort, err := ParseSortSpec(sortSpec)
	if err != nil {
		return nil, err
	}
	found, err := s.repo.Search(ctx, term, sort)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperror.NewNotFound("items", term)
	}
	return found, nil
}

// lookupByBarcode queries the catalog, swallowing every failure.
func (s *Service) lookupByBarcode(ctx context.Context, barcode *string) *product.Product {
	if s.lookup == nil || barcode == nil || *barcode == "" {
		return nil
	}
	found, err := s.lookup.ByBarcode(ctx, *barcode)
	if err != nil {
		logger.Warn(ctx, "product lookup failed, continuing without enrichment",
			"barcode", *barcode,
			"error", err,
		)
		return nil
	}
	return found
}

// resolveName applies the name fallback chain:
// explicit name, then catalog product name, then the barcode itself.
func resolveName(explicit string, enrichment *product.Product, barcode *string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if enrichment != nil && enrichment.Name != "" {
		return enrichment.Name
	}
	if barcode != nil {
		return *barcode
	}
	return ""
}

// deletePhoto removes a stored photo by key, best-effort.
func (s *Service) deletePhoto(ctx context.Context, key *string) {
	if s.photos == nil || key == nil || *key == "" {
		return
	}
	if err := s.photos.Delete(ctx, *key); err != nil {
		logger.Warn(ctx, "photo deletion failed",
			"key", *key,
			"error", err,
		)
	}
}

// recordChange journals a committed mutation, best-effort.
func (s *Service) recordChange(ctx context.Context, action string, itemID id.ID, changes any) {
	if s.changes == nil {
		return
	}
	if err := s.changes.Record(ctx, action, itemID, changes); err != nil {
		logger.Warn(ctx, "change log write failed",
			"action", action,
			"item_id", itemID,
			"error", err,
		)
	}
}
