package dto

import (
	"encoding/json"
	"time"

	"homestock/internal/core/id"
	"homestock/internal/domain/item"
)

// dateLayout is the calendar-date wire format.
const dateLayout = "2006-01-02"

// CreateItemRequest carries a new item. Location is the target shelf id
// and is required; name may be empty when a barcode is provided (the
// name then falls back to catalog data or the barcode itself).
type CreateItemRequest struct {
	Name            string  `json:"name"`
	Image           *string `json:"image"`
	Barcode         *string `json:"barcode"`
	Amount          int     `json:"amount" binding:"omitempty,min=1"`
	Quantity        *string `json:"quantity"`
	Expiration      string  `json:"expiration"`
	ExpirationMonth int     `json:"expirationMonth" binding:"omitempty,min=1,max=12"`
	ExpirationDay   int     `json:"expirationDay" binding:"omitempty,min=1,max=31"`
	Owner           *string `json:"owner"`
	Location        string  `json:"location" binding:"required"`
}

// ToCreateInput maps the request to the coordinator input.
func (r CreateItemRequest) ToCreateInput(shelfID id.ID) item.CreateInput {
	return item.CreateInput{
		Name:            r.Name,
		Image:           r.Image,
		Barcode:         r.Barcode,
		Amount:          r.Amount,
		Quantity:        r.Quantity,
		Expiration:      r.Expiration,
		ExpirationMonth: r.ExpirationMonth,
		ExpirationDay:   r.ExpirationDay,
		Owner:           r.Owner,
		ShelfID:         shelfID,
	}
}

// UpdateItemRequest carries replacement fields for an item. The shelf
// reference is absent on purpose; moves use MoveItemRequest.
type UpdateItemRequest struct {
	Name            string  `json:"name"`
	Image           *string `json:"image"`
	Barcode         *string `json:"barcode"`
	Amount          int     `json:"amount" binding:"omitempty,min=1"`
	Quantity        *string `json:"quantity"`
	Expiration      string  `json:"expiration"`
	ExpirationMonth int     `json:"expirationMonth" binding:"omitempty,min=1,max=12"`
	ExpirationDay   int     `json:"expirationDay" binding:"omitempty,min=1,max=31"`
	Owner           *string `json:"owner"`
}

// ToUpdateInput maps the request to the coordinator input.
func (r UpdateItemRequest) ToUpdateInput() item.UpdateInput {
	return item.UpdateInput{
		Name:            r.Name,
		Image:           r.Image,
		Barcode:         r.Barcode,
		Amount:          r.Amount,
		Quantity:        r.Quantity,
		Expiration:      r.Expiration,
		ExpirationMonth: r.ExpirationMonth,
		ExpirationDay:   r.ExpirationDay,
		Owner:           r.Owner,
	}
}

// MoveItemRequest targets a destination shelf. Amount, when set to fewer
// units than the item holds, splits the item instead of moving it whole.
type MoveItemRequest struct {
	Location string `json:"location" binding:"required"`
	Amount   *int   `json:"amount" binding:"omitempty,min=1"`
}

// ItemResponse is the wire shape of an item. ExpiresIn is recomputed on
// every read; ProductLookupData appears on single-item fetches only.
type ItemResponse struct {
	ID                id.ID           `json:"id"`
	Name              string          `json:"name"`
	Image             *string         `json:"image,omitempty"`
	Barcode           *string         `json:"barcode,omitempty"`
	Amount            int             `json:"amount"`
	Quantity          *string         `json:"quantity,omitempty"`
	Expiration        *string         `json:"expiration,omitempty"`
	ExpiresIn         *int            `json:"expiresIn,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	Owner             *string         `json:"owner,omitempty"`
	Location          id.ID           `json:"location"`
	ProductLookupData json.RawMessage `json:"productLookupData,omitempty"`
}

// FromItem builds an item response. Enrichment data is included only
// when withEnrichment is set.
func FromItem(it *item.Item, now time.Time, withEnrichment bool) ItemResponse {
	resp := ItemResponse{
		ID:        it.ID,
		Name:      it.Name,
		Image:     it.Image,
		Barcode:   it.Barcode,
		Amount:    it.Amount,
		Quantity:  it.Quantity,
		ExpiresIn: it.ExpiresIn(now),
		CreatedAt: it.CreatedAt,
		Owner:     it.Owner,
		Location:  it.ShelfID,
	}
	if it.Expiration != nil {
		formatted := it.Expiration.Format(dateLayout)
		resp.Expiration = &formatted
	}
	if withEnrichment {
		resp.ProductLookupData = it.ProductData
	}
	return resp
}

// FromItems builds list responses without enrichment data.
func FromItems(items []*item.Item, now time.Time) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		responses = append(responses, FromItem(it, now, false))
	}
	return responses
}
