package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"homestock/internal/core/apperror"
	"homestock/internal/core/id"
	"homestock/internal/domain/location"
)

var locationColumns = []string{"id", "name", "created_at"}

// Compile-time check.
var _ location.Repository = (*LocationRepo)(nil)

// LocationRepo is the PostgreSQL implementation of location.Repository.
type LocationRepo struct {
	txm *TxManager
}

// NewLocationRepo creates a location repository.
func NewLocationRepo(txm *TxManager) *LocationRepo {
	return &LocationRepo{txm: txm}
}

// Create inserts a location. The unique index on name surfaces duplicates
// as a duplicate-entry error.
func (r *LocationRepo) Create(ctx context.Context, loc *location.Location) error {
	q := builder().
		Insert("locations").
		Columns(locationColumns...).
		Values(loc.ID, loc.Name, loc.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("location", "name", loc.Name)
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID retrieves a location row.
func (r *LocationRepo) GetByID(ctx context.Context, locationID id.ID) (*location.Location, error) {
	q := builder().
		Select(locationColumns...).
		From("locations").
		Where(squirrel.Eq{"id": locationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var loc location.Location
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &loc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("location", locationID.String())
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &loc, nil
}

// List returns all locations sorted by name ascending.
func (r *LocationRepo) List(ctx context.Context) ([]*location.Location, error) {
	q := builder().
		Select(locationColumns...).
		From("locations").
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	locations := []*location.Location{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &locations, sql, args...); err != nil {
		return nil, fmt.Errorf("select locations: %w", err)
	}
	return locations, nil
}
