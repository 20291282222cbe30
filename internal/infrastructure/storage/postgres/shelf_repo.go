package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"homestock/internal/core/apperror"
	"homestock/internal/core/id"
	"homestock/internal/domain/item"
	"homestock/internal/domain/location"
)

var shelfColumns = []string{"id", "name", "location_id", "items"}

// Compile-time checks: one repo serves both the read side used by the
// location service and the membership side used by the item coordinator.
var (
	_ location.ShelfRepository = (*ShelfRepo)(nil)
	_ item.ShelfStore          = (*ShelfRepo)(nil)
)

// ShelfRepo is the PostgreSQL implementation of shelf persistence.
//
// The items uuid[] column is the shelf's membership set; array_append and
// array_remove keep it in step with items.shelf_id inside the
// coordinator's transactions. There is no foreign key backing either
// side.
type ShelfRepo struct {
	txm *TxManager
}

// NewShelfRepo creates a shelf repository.
func NewShelfRepo(txm *TxManager) *ShelfRepo {
	return &ShelfRepo{txm: txm}
}

// Create inserts a shelf.
func (r *ShelfRepo) Create(ctx context.Context, shelf *location.Shelf) error {
	q := builder().
		Insert("shelves").
		Columns(shelfColumns...).
		Values(shelf.ID, shelf.Name, shelf.LocationID, shelf.Items)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert shelf: %w", err)
	}
	return nil
}

// GetByID retrieves a shelf.
func (r *ShelfRepo) GetByID(ctx context.Context, shelfID id.ID) (*location.Shelf, error) {
	q := builder().
		Select(shelfColumns...).
		From("shelves").
		Where(squirrel.Eq{"id": shelfID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var shelf location.Shelf
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &shelf, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("shelf", shelfID.String())
		}
		return nil, fmt.Errorf("get shelf: %w", err)
	}
	return &shelf, nil
}

// ListByLocation returns a location's shelves sorted by name.
func (r *ShelfRepo) ListByLocation(ctx context.Context, locationID id.ID) ([]*location.Shelf, error) {
	q := builder().
		Select(shelfColumns...).
		From("shelves").
		Where(squirrel.Eq{"location_id": locationID}).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	shelves := []*location.Shelf{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &shelves, sql, args...); err != nil {
		return nil, fmt.Errorf("select shelves: %w", err)
	}
	return shelves, nil
}

// AddItem pushes itemID onto the shelf's membership set.
// A missing shelf reports not-found so the surrounding transaction
// aborts and the item write never becomes visible.
func (r *ShelfRepo) AddItem(ctx context.Context, shelfID, itemID id.ID) error {
	q := builder().
		Update("shelves").
		Set("items", squirrel.Expr("array_append(items, ?)", itemID)).
		Where(squirrel.Eq{"id": shelfID})

	return r.execExpectingRow(ctx, q, shelfID, "add shelf item")
}

// RemoveItem pulls itemID from the shelf's membership set.
func (r *ShelfRepo) RemoveItem(ctx context.Context, shelfID, itemID id.ID) error {
	q := builder().
		Update("shelves").
		Set("items", squirrel.Expr("array_remove(items, ?)", itemID)).
		Where(squirrel.Eq{"id": shelfID})

	return r.execExpectingRow(ctx, q, shelfID, "remove shelf item")
}

func (r *ShelfRepo) execExpectingRow(ctx context.Context, q squirrel.UpdateBuilder, shelfID id.ID, msg string) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("shelf", shelfID.String())
	}
	return nil
}
