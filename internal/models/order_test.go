package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/internal/models"
)

func TestParseOrderStatus(t *testing.T) {
	st, err := models.ParseOrderStatus(" Shipped ")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, st)

	_, err = models.ParseOrderStatus("refunded")
	assert.EqualError(t, err, "invalid order status: refunded")
}

func TestParseProductType(t *testing.T) {
	pt, err := models.ParseProductType("jersey")
	assert.NoError(t, err)
	assert.Equal(t, models.ProductTypeJersey, pt)

	_, err = models.ParseProductType("Jersey")
	assert.Error(t, err)
}

func TestCartTotal_SkipsLinesWithoutProduct(t *testing.T) {
	cart := models.Cart{Items: []models.CartItem{
		{ProductID: "a", Quantity: 2, Product: &models.Product{Price: decimal.RequireFromString("12.50")}},
		{ProductID: "b", Quantity: 1, Product: &models.Product{Price: decimal.RequireFromString("3.25")}},
		{ProductID: "c", Quantity: 4},
	}}

	assert.True(t, decimal.RequireFromString("28.25").Equal(cart.Total()), "got %s", cart.Total())
}
