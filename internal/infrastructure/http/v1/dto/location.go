package dto

import (
	"time"

	"homestock/internal/core/id"
	"homestock/internal/domain/location"
)

// CreateLocationRequest creates a location with an initial shelf count.
type CreateLocationRequest struct {
	Name  string `json:"name" binding:"required"`
	Count int    `json:"count" binding:"required,min=1"`
}

// ShelfResponse is the wire shape of a shelf. Items carries the member
// item ids; it is omitted in the list projection.
type ShelfResponse struct {
	ID    id.ID    `json:"id"`
	Name  string   `json:"name"`
	Items *[]id.ID `json:"items,omitempty"`
}

// LocationResponse is the wire shape of a location.
type LocationResponse struct {
	ID        id.ID           `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"createdAt"`
	Shelves   []ShelfResponse `json:"shelves"`
}

// FromLocation builds a location response. withItems controls whether
// shelf membership ids are included (single fetch) or projected away
// (list).
func FromLocation(loc *location.Location, withItems bool) LocationResponse {
	resp := LocationResponse{
		ID:        loc.ID,
		Name:      loc.Name,
		CreatedAt: loc.CreatedAt,
		Shelves:   make([]ShelfResponse, 0, len(loc.Shelves)),
	}
	for _, shelf := range loc.Shelves {
		shelfResp := ShelfResponse{ID: shelf.ID, Name: shelf.Name}
		if withItems {
			items := shelf.Items
			if items == nil {
				items = []id.ID{}
			}
			shelfResp.Items = &items
		}
		resp.Shelves = append(resp.Shelves, shelfResp)
	}
	return resp
}

// FromLocations builds list responses with the id+name shelf projection.
func FromLocations(locations []*location.Location) []LocationResponse {
	responses := make([]LocationResponse, 0, len(locations))
	for _, loc := range locations {
		responses = append(responses, FromLocation(loc, false))
	}
	return responses
}

// LocationRefResponse is the id+name projection of a location.
type LocationRefResponse struct {
	ID   id.ID  `json:"id"`
	Name string `json:"name"`
}

// ShelfDetailResponse merges a shelf, its fully populated items and the
// parent location's identity into one object.
type ShelfDetailResponse struct {
	ID       id.ID               `json:"id"`
	Name     string              `json:"name"`
	Items    []ItemResponse      `json:"items"`
	Location LocationRefResponse `json:"location"`
}

// FromShelfDetail builds a shelf detail response.
func FromShelfDetail(detail *location.ShelfDetail, now time.Time) ShelfDetailResponse {
	return ShelfDetailResponse{
		ID:       detail.ID,
		Name:     detail.Name,
		Items:    FromItems(detail.Items, now),
		Location: LocationRefResponse{ID: detail.Location.ID, Name: detail.Location.Name},
	}
}
