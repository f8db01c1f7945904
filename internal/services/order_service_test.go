package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/database/dbtest"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

func newOrderService(t *testing.T, status models.OrderStatus) (*services.OrderService, *repositories.GORMStore, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	store := repositories.NewGORMStore(db)
	service := services.NewOrderService(store, services.NewDailyOrderSequencer("ORD", fixedClock), nil, zap.NewNop(),
		services.OrderServiceConfig{InitialStatus: status})
	return service, store, db
}

func fillCart(t *testing.T, store repositories.Store, userID, productID string, quantity int) {
	t.Helper()
	ctx := context.Background()
	cart, err := store.Carts().GetOrCreate(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, store.Carts().AddItem(ctx, cart.ID, productID, quantity))
}

func TestOrderService_InitialStatusIsConfigurable(t *testing.T) {
	service, store, db := newOrderService(t, models.OrderStatusPending)
	product := dbtest.Product(t, db, "CSK Cap", "10.00", 3)
	fillCart(t, store, "user-a", product.ID, 1)

	order, err := service.PlaceOrder(context.Background(), "user-a", "Chennai")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	service, store, db := newOrderService(t, models.OrderStatusPending)
	product := dbtest.Product(t, db, "CSK Cap", "10.00", 3)
	fillCart(t, store, "user-a", product.ID, 2)

	order, err := service.PlaceOrder(ctx, "user-a", "Chennai")
	require.NoError(t, err)
	require.Equal(t, 1, dbtest.Stock(t, db, product.ID))

	updated, err := service.UpdateOrderStatus(ctx, order.ID, "Shipped", "TRK-123")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, "TRK-123", *updated.TrackingNumber)

	// Cancelling does not give stock back.
	updated, err = service.UpdateOrderStatus(ctx, order.ID, "cancelled", "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, "TRK-123", *updated.TrackingNumber)
	assert.Equal(t, 1, dbtest.Stock(t, db, product.ID))
	assert.True(t, order.TotalAmount.Equal(updated.TotalAmount))

	_, err = service.UpdateOrderStatus(ctx, order.ID, "refunded", "")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	_, err = service.UpdateOrderStatus(ctx, "missing", "shipped", "")
	assert.True(t, services.IsNotFound(err))
}

func TestOrderService_GetOrdersByUser(t *testing.T) {
	ctx := context.Background()
	service, store, db := newOrderService(t, "")
	product := dbtest.Product(t, db, "CSK Cap", "10.00", 10)

	var placed []string
	for i := 0; i < 3; i++ {
		fillCart(t, store, "user-a", product.ID, 1)
		order, err := service.PlaceOrder(ctx, "user-a", "Chennai")
		require.NoError(t, err)
		placed = append(placed, order.ID)
	}
	fillCart(t, store, "user-b", product.ID, 1)
	_, err := service.PlaceOrder(ctx, "user-b", "Mumbai")
	require.NoError(t, err)

	orders, err := service.GetOrdersByUser(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for _, o := range orders {
		assert.Equal(t, "user-a", o.UserID)
		assert.Len(t, o.Items, 1)
		assert.Equal(t, models.OrderStatusDelivered, o.Status)
	}
	assert.ElementsMatch(t, placed, []string{orders[0].ID, orders[1].ID, orders[2].ID})
	assert.False(t, orders[0].CreatedAt.Before(orders[2].CreatedAt), "newest first")

	_, err = service.GetOrderByID(ctx, "missing")
	assert.True(t, services.IsNotFound(err))
}
