package challan

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamunda-enterprise/challan/internal/platform/httpx"
)

func decodeItems(t *testing.T, raw string) []RawItem {
	t.Helper()
	var items []RawItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	return items
}

func TestNormalizeItemsResolvesAlternateKeys(t *testing.T) {
	raw := decodeItems(t, `[
		{"description": "Widget", "quantity": 2, "rate": 50},
		{"item": "Carton", "height": 12, "width": "8", "qty": "3", "rate": "10.5", "nos": 4},
		{"box": {"title": "5 ply box"}, "quantity": 1, "rate": 0, "per": "BOX"}
	]`)

	items, err := NormalizeItems(raw)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, Item{Description: "Widget", Quantity: 2, Rate: 50, Per: "PCS"}, items[0])
	assert.Equal(t, Item{Description: "Carton", SizeHeight: "12", SizeWidth: "8", Nos: "4", Quantity: 3, Rate: 10.5, Per: "PCS"}, items[1])
	assert.Equal(t, Item{Description: "5 ply box", Quantity: 1, Rate: 0, Per: "BOX"}, items[2])
}

func TestNormalizeItemsPrefersPrimaryKeys(t *testing.T) {
	raw := decodeItems(t, `[{"description": "A", "item": "B", "sizeHeight": "1", "height": "2", "quantity": 5, "qty": 9, "rate": 1}]`)
	items, err := NormalizeItems(raw)
	require.NoError(t, err)
	assert.Equal(t, "A", items[0].Description)
	assert.Equal(t, "1", items[0].SizeHeight)
	assert.Equal(t, 5.0, items[0].Quantity)
}

func TestNormalizeItemsRequiresQuantityAndRate(t *testing.T) {
	_, err := NormalizeItems(decodeItems(t, `[{"description": "A", "rate": 1}]`))
	require.ErrorIs(t, err, httpx.ErrValidation)
	assert.Equal(t, "items[0].quantity is required", err.Error())

	_, err = NormalizeItems(decodeItems(t, `[{"description": "A", "quantity": 1}, {"description": "B", "quantity": 1, "rate": ""}]`))
	require.ErrorIs(t, err, httpx.ErrValidation)
	assert.Equal(t, "items[0].rate is required", err.Error())
}

func TestValidateItems(t *testing.T) {
	require.NoError(t, ValidateItems([]Item{{Description: "A", Quantity: 1, Rate: 1}}))

	err := ValidateItems([]Item{{Description: "A", Quantity: 1, Rate: 1}, {Quantity: 1, Rate: 1}})
	require.ErrorIs(t, err, httpx.ErrValidation)
	assert.Equal(t, "items[1].description is required", err.Error())

	err = ValidateItems([]Item{{Description: "A", Quantity: -1, Rate: 1}})
	require.ErrorIs(t, err, httpx.ErrValidation)
	assert.Equal(t, "items[0].quantity must be at least 0", err.Error())
}

func TestValidateFinal(t *testing.T) {
	items := []RawItem{{Description: "A"}}
	require.NoError(t, ValidateFinal("2025-01-15", "Test Co", items))
	assert.ErrorIs(t, ValidateFinal("", "Test Co", items), ErrMissingFields)
	assert.ErrorIs(t, ValidateFinal("2025-01-15", "  ", items), ErrMissingFields)
	assert.ErrorIs(t, ValidateFinal("2025-01-15", "Test Co", nil), ErrMissingFields)
}

func TestNumberRejectsGarbage(t *testing.T) {
	var n Number
	require.Error(t, json.Unmarshal([]byte(`"abc"`), &n))
	require.NoError(t, json.Unmarshal([]byte(`null`), &n))
	assert.False(t, n.Set)
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusDraft.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusDraft.CanTransitionTo(StatusDraft))
	assert.True(t, StatusCompleted.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusDraft))
	assert.False(t, StatusDraft.CanTransitionTo("archived"))
}
