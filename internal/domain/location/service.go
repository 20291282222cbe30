package location

import (
	"context"

	"homestock/internal/core/apperror"
	"homestock/internal/core/id"
	"homestock/internal/core/tx"
	"homestock/internal/domain/item"
)

// ShelfDetail is a shelf with fully populated items merged with its
// parent location's identity.
type ShelfDetail struct {
	ID       id.ID        `json:"id"`
	Name     string       `json:"name"`
	Items    []*item.Item `json:"items"`
	Location LocationRef  `json:"location"`
}

// LocationRef is the id+name projection of a location.
type LocationRef struct {
	ID   id.ID  `json:"id"`
	Name string `json:"name"`
}

// Service provides location and shelf operations.
type Service struct {
	repo    Repository
	shelves ShelfRepository
	items   ItemLister
	txm     tx.Manager
}

// NewService creates a location service.
func NewService(repo Repository, shelves ShelfRepository, items ItemLister, txm tx.Manager) *Service {
	return &Service{
		repo:    repo,
		shelves: shelves,
		items:   items,
		txm:     txm,
	}
}

// Create atomically produces a location plus shelfCount generated shelves
// named "Shelf 1".."Shelf N". A duplicate location name aborts the whole
// transaction, so no shelf outlives a rejected location.
func (s *Service) Create(ctx context.Context, name string, shelfCount int) (*Location, error) {
	if shelfCount < 1 {
		return nil, apperror.NewValidation("shelf count must be positive").
			WithDetail("field", "count").
			WithDetail("value", shelfCount)
	}
	if shelfCount > MaxShelfCount {
		return nil, apperror.NewValidation("shelf count too large").
			WithDetail("field", "count").
			WithDetail("max", MaxShelfCount)
	}

	loc := NewLocation(name)
	if err := loc.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, loc); err != nil {
			return err
		}
		for n := 1; n <= shelfCount; n++ {
			shelf := NewShelf(loc.ID, n)
			if err := s.shelves.Create(ctx, shelf); err != nil {
				return err
			}
			loc.Shelves = append(loc.Shelves, shelf)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// List returns all locations sorted by name, shelves projected to
// id+name only.
func (s *Service) List(ctx context.Context) ([]*Location, error) {
	locations, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, loc := range locations {
		shelves, err := s.shelves.ListByLocation(ctx, loc.ID)
		if err != nil {
			return nil, err
		}
		for _, shelf := range shelves {
			loc.Shelves = append(loc.Shelves, &Shelf{ID: shelf.ID, Name: shelf.Name})
		}
	}
	return locations, nil
}

// Get returns one location with fully populated shelves
// (id, name, item ids).
func (s *Service) Get(ctx context.Context, locationID id.ID) (*Location, error) {
	loc, err := s.repo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	loc.Shelves, err = s.shelves.ListByLocation(ctx, loc.ID)
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// GetShelfDetail returns a shelf with fully populated items plus the
// parent location's id and name in one merged response.
func (s *Service) GetShelfDetail(ctx context.Context, locationID, shelfID id.ID) (*ShelfDetail, error) {
	loc, err := s.repo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}

	shelf, err := s.shelves.GetByID(ctx, shelfID)
	if err != nil {
		return nil, err
	}
	if shelf.LocationID != loc.ID {
		return nil, apperror.NewNotFound("shelf", shelfID.String()).
			WithDetail("location", locationID.String())
	}

	items, err := s.items.ListByShelf(ctx, shelf.ID)
	if err != nil {
		return nil, err
	}

	return &ShelfDetail{
		ID:       shelf.ID,
		Name:     shelf.Name,
		Items:    items,
		Location: LocationRef{ID: loc.ID, Name: loc.Name},
	}, nil
}
