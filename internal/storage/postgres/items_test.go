package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/order-console/internal/domain/order"
)

func TestLineItemCodec_ExactRoundTrip(t *testing.T) {
	items := []order.LineItem{
		{ProductID: 1, ProductName: "Laptop", UnitPrice: decimal.RequireFromString("2500"), Quantity: 2},
		{ProductID: 5, ProductName: "Debugging duck", UnitPrice: decimal.RequireFromString("66.6667"), Quantity: 1},
	}

	decoded, err := decodeLineItems(encodeLineItems(items))
	require.NoError(t, err)

	require.Len(t, decoded, 2)
	assert.Equal(t, items[0].ProductID, decoded[0].ProductID)
	assert.Equal(t, "Debugging duck", decoded[1].ProductName)
	assert.True(t, items[1].UnitPrice.Equal(decoded[1].UnitPrice),
		"prices are stored as strings, so no float drift is possible")
	assert.Equal(t, 1, decoded[1].Quantity)
}

func TestDecodeLineItems_SkipsUnknownFields(t *testing.T) {
	data := []byte(`[{"product_id":3,"product_name":"Mouse","unit_price":"90","quantity":1,"legacy":true}]`)

	decoded, err := decodeLineItems(data)
	require.NoError(t, err)

	require.Len(t, decoded, 1)
	assert.Equal(t, int64(3), decoded[0].ProductID)
}

func TestEncodeLineItems_Empty(t *testing.T) {
	assert.Equal(t, "[]", string(encodeLineItems(nil)))
}
