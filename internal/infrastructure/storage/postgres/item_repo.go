package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"homestock/internal/core/apperror"
	"homestock/internal/core/id"
	"homestock/internal/domain/item"
)

// itemColumns are all columns of the items table.
var itemColumns = []string{
	"id", "name", "image", "barcode", "amount", "quantity",
	"expiration", "created_at", "owner", "shelf_id", "product_data",
}

// itemListColumns omit product_data: enrichment is hidden on list and
// search responses and only exposed on single-item fetches.
var itemListColumns = []string{
	"id", "name", "image", "barcode", "amount", "quantity",
	"expiration", "created_at", "owner", "shelf_id",
}

// Compile-time check.
var _ item.Repository = (*ItemRepo)(nil)

// ItemRepo is the PostgreSQL implementation of item.Repository.
type ItemRepo struct {
	txm *TxManager
}

// NewItemRepo creates an item repository.
func NewItemRepo(txm *TxManager) *ItemRepo {
	return &ItemRepo{txm: txm}
}

// Insert stores a new item.
func (r *ItemRepo) Insert(ctx context.Context, it *item.Item) error {
	q := builder().
		Insert("items").
		Columns(itemColumns...).
		Values(
			it.ID, it.Name, it.Image, it.Barcode, it.Amount, it.Quantity,
			it.Expiration, it.CreatedAt, it.Owner, it.ShelfID, it.ProductData,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID retrieves an item including its enrichment data.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	return r.get(ctx, itemID, false)
}

// GetForUpdate retrieves an item with a row lock.
func (r *ItemRepo) GetForUpdate(ctx context.Context, itemID id.ID) (*item.Item, error) {
	return r.get(ctx, itemID, true)
}

func (r *ItemRepo) get(ctx context.Context, itemID id.ID, forUpdate bool) (*item.Item, error) {
	q := builder().
		Select(itemColumns...).
		From("items").
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var it item.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", itemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// Update replaces the mutable fields of an item. The shelf reference is
// deliberately excluded; moves go through UpdateShelf.
func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	q := builder().
		Update("items").
		Set("name", it.Name).
		Set("image", it.Image).
		Set("barcode", it.Barcode).
		Set("amount", it.Amount).
		Set("quantity", it.Quantity).
		Set("expiration", it.Expiration).
		Set("owner", it.Owner).
		Where(squirrel.Eq{"id": it.ID})

	return r.execExpectingRow(ctx, q, it.ID, "build update", "update item")
}

// UpdateShelf repoints an item to another shelf.
func (r *ItemRepo) UpdateShelf(ctx context.Context, itemID, shelfID id.ID) error {
	q := builder().
		Update("items").
		Set("shelf_id", shelfID).
		Where(squirrel.Eq{"id": itemID})

	return r.execExpectingRow(ctx, q, itemID, "build update", "update item shelf")
}

// UpdateAmount sets the unit count of an item.
func (r *ItemRepo) UpdateAmount(ctx context.Context, itemID id.ID, amount int) error {
	q := builder().
		Update("items").
		Set("amount", amount).
		Where(squirrel.Eq{"id": itemID})

	return r.execExpectingRow(ctx, q, itemID, "build update", "update item amount")
}

// Delete removes an item.
func (r *ItemRepo) Delete(ctx context.Context, itemID id.ID) error {
	q := builder().
		Delete("items").
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}
	return nil
}

// List returns all items without enrichment data.
func (r *ItemRepo) List(ctx context.Context, sort []item.SortField) ([]*item.Item, error) {
	q := builder().
		Select(itemListColumns...).
		From("items").
		OrderBy(orderClauses(sort)...)

	return r.selectMany(ctx, q)
}

// Search matches term case-insensitively against name, barcode and the
// enrichment product name.
func (r *ItemRepo) Search(ctx context.Context, term string, sort []item.SortField) ([]*item.Item, error) {
	return r.selectMany(ctx, searchQuery(term, sort))
}

func searchQuery(term string, sort []item.SortField) squirrel.SelectBuilder {
	pattern := "%" + term + "%"
	return builder().
		Select(itemListColumns...).
		From("items").
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"barcode": pattern},
			squirrel.ILike{"product_data->>'product_name'": pattern},
		}).
		OrderBy(orderClauses(sort)...)
}

// ListByShelf returns the items placed on a shelf.
func (r *ItemRepo) ListByShelf(ctx context.Context, shelfID id.ID) ([]*item.Item, error) {
	q := builder().
		Select(itemListColumns...).
		From("items").
		Where(squirrel.Eq{"shelf_id": shelfID}).
		OrderBy("name ASC")

	return r.selectMany(ctx, q)
}

func (r *ItemRepo) selectMany(ctx context.Context, q squirrel.SelectBuilder) ([]*item.Item, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := []*item.Item{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	return items, nil
}

func (r *ItemRepo) execExpectingRow(ctx context.Context, q squirrel.UpdateBuilder, itemID id.ID, buildMsg, execMsg string) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", buildMsg, err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", execMsg, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}
	return nil
}

// orderClauses renders sort fields into ORDER BY terms.
func orderClauses(sort []item.SortField) []string {
	clauses := make([]string, 0, len(sort))
	for _, field := range sort {
		direction := "ASC"
		if field.Desc {
			direction = "DESC"
		}
		clauses = append(clauses, strings.Join([]string{field.Column, direction}, " "))
	}
	return clauses
}
