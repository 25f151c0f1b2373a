package order_test

import (
	"testing"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/order"
	"shop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func TestNewLine(t *testing.T) {
	t.Run("creates valid line", func(t *testing.T) {
		itemID := kernel.NewUUID()
		price := mustMoney(t, "10.00")

		line, err := order.NewLine(itemID, 2, price)

		require.NoError(t, err)
		require.NoError(t, line.Validate())
		assert.True(t, line.ItemID().IsEqual(itemID))
		assert.Equal(t, 2, line.Quantity())
		assert.Equal(t, "10.00", line.UnitPrice().String())
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := order.NewLine(kernel.NewUUID(), 0, mustMoney(t, "10.00"))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "quantity")
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := order.NewLine(kernel.NewUUID(), -3, mustMoney(t, "10.00"))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects zero item ID", func(t *testing.T) {
		_, err := order.NewLine(kernel.UUID{}, 1, mustMoney(t, "10.00"))

		require.Error(t, err)
	})

	t.Run("rejects unconstructed price", func(t *testing.T) {
		_, err := order.NewLine(kernel.NewUUID(), 1, kernel.Money{})

		require.Error(t, err)
	})
}

func TestLine_Subtotal(t *testing.T) {
	t.Run("multiplies captured price by quantity", func(t *testing.T) {
		line, err := order.NewLine(kernel.NewUUID(), 3, mustMoney(t, "5.50"))
		require.NoError(t, err)

		assert.Equal(t, "16.50", line.Subtotal().String())
	})
}

func TestLine_Validate(t *testing.T) {
	t.Run("zero value is not constructed", func(t *testing.T) {
		var line order.Line

		require.ErrorIs(t, line.Validate(), order.ErrLineIsNotConstructed)
	})
}
