package export

import (
	"testing"
	"time"

	"cvs-storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdersWorkbook(t *testing.T) {
	orders := []domain.Order{
		{
			OrderNumber: "ORD-1001",
			CreatedAt:   time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			Status:      domain.OrderStatusConfirmed,
			Contact:     domain.ContactInfo{FirstName: "Mei", LastName: "Lin", Email: "mei@example.com", Phone: "0912345678"},
			Pickup:      domain.PickupPoint{StoreID: "991182", StoreName: "Xinyi Store", Address: "No. 7, Xinyi Rd"},
			TotalCents:  25050,
			Lines: []domain.OrderLine{
				{ProductName: "Oolong Tea", Quantity: 2, UnitPriceCents: 7500},
				{ProductName: "Pineapple Cake", Quantity: 1, UnitPriceCents: 10050},
			},
		},
		{
			OrderNumber: "ORD-1002",
			CreatedAt:   time.Date(2026, 3, 15, 18, 5, 0, 0, time.UTC),
			Status:      domain.OrderStatusPlaced,
			Contact:     domain.ContactInfo{FirstName: "Wei", LastName: "Chen"},
			Pickup:      domain.PickupPoint{StoreName: "Daan Store"},
			TotalCents:  9900,
		},
	}

	f, err := OrdersWorkbook(orders)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Order Number", rows[0][0])
	assert.Equal(t, "ORD-1001", rows[1][0])
	assert.Equal(t, "Mei Lin", rows[1][3])
	assert.Equal(t, "Xinyi Store", rows[1][6])
	assert.Equal(t, "250.50", rows[1][9])
	assert.Contains(t, rows[1][10], "Oolong Tea x2 @ 75.00")
	assert.Equal(t, "ORD-1002", rows[2][0])
}

func TestOrdersWorkbook_Empty(t *testing.T) {
	f, err := OrdersWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
