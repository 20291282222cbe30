package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homestock/internal/core/id"
	"homestock/internal/domain/item"
)

func TestFromItem(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	expiration := time.Date(2026, time.March, 25, 0, 0, 0, 0, time.UTC)

	it := &item.Item{
		ID:          id.New(),
		Name:        "Milk",
		Amount:      2,
		Expiration:  &expiration,
		CreatedAt:   now,
		ShelfID:     id.New(),
		ProductData: json.RawMessage(`{"product_name":"Whole Milk"}`),
	}

	resp := FromItem(it, now, true)

	require.NotNil(t, resp.Expiration)
	assert.Equal(t, "2026-03-25", *resp.Expiration)
	require.NotNil(t, resp.ExpiresIn)
	assert.Equal(t, 10, *resp.ExpiresIn)
	assert.Equal(t, it.ShelfID, resp.Location)
	assert.NotNil(t, resp.ProductLookupData)
}

func TestFromItem_NoExpiration(t *testing.T) {
	it := &item.Item{ID: id.New(), Name: "Milk", Amount: 1, ShelfID: id.New()}

	resp := FromItem(it, time.Now(), false)

	assert.Nil(t, resp.Expiration)
	assert.Nil(t, resp.ExpiresIn)
}

func TestFromItems_HidesEnrichment(t *testing.T) {
	items := []*item.Item{
		{
			ID:          id.New(),
			Name:        "Milk",
			Amount:      1,
			ShelfID:     id.New(),
			ProductData: json.RawMessage(`{"product_name":"Whole Milk"}`),
		},
	}

	responses := FromItems(items, time.Now())

	require.Len(t, responses, 1)
	assert.Nil(t, responses[0].ProductLookupData)

	// The field must vanish from the JSON body entirely, not render as
	// null.
	body, err := json.Marshal(responses[0])
	require.NoError(t, err)
	assert.NotContains(t, string(body), "productLookupData")
}
