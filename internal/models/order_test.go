package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricedLineToOrderItem(t *testing.T) {
	t.Run("fast food line", func(t *testing.T) {
		line := PricedLine{Kind: ItemKindFastFood, ReferenceID: 7, Name: "Beef Burger", UnitPrice: decimal.RequireFromString("55000"), Quantity: 2}
		item := line.ToOrderItem()

		require.NotNil(t, item.FastFoodID)
		assert.Equal(t, uint(7), *item.FastFoodID)
		assert.Nil(t, item.ComboID)
		assert.Nil(t, item.ComboName)
		assert.Equal(t, "Beef Burger", item.Name())
		assert.True(t, decimal.RequireFromString("110000").Equal(item.LineTotal()))
		assert.True(t, line.Subtotal().Equal(item.LineTotal()))
	})

	t.Run("combo line", func(t *testing.T) {
		line := PricedLine{Kind: ItemKindCombo, ReferenceID: 3, Name: "Family Combo", UnitPrice: decimal.RequireFromString("199000"), Quantity: 1}
		item := line.ToOrderItem()

		require.NotNil(t, item.ComboID)
		assert.Equal(t, uint(3), *item.ComboID)
		assert.Nil(t, item.FastFoodID)
		assert.Equal(t, "Family Combo", item.Name())
	})
}

func TestComputeTotalKeepsCents(t *testing.T) {
	order := Order{Items: []OrderItem{
		{Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.20")},
		{Quantity: 7, UnitPrice: decimal.RequireFromString("10.99")},
	}}

	assert.Equal(t, "77.43", order.ComputeTotal().StringFixed(2))
}
