package repositories_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/database/dbtest"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestStore_TransactionRollsBackEveryWrite(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	store := repositories.NewGORMStore(db)
	product := dbtest.Product(t, db, "CSK Cap", "799.00", 5)
	cart := dbtest.Cart(t, db, "user-a", dbtest.Line(product.ID, 2))

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx repositories.Store) error {
		ok, err := tx.Products().TryDecrementStock(ctx, product.ID, 2)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, tx.Orders().Create(ctx, &models.Order{
			UserID: "user-a", OrderNumber: "ORD20240101000001", TotalAmount: price("1598"), Status: models.OrderStatusPending,
			Items: []models.OrderItem{{ProductID: product.ID, Quantity: 2, UnitPrice: price("799"), TotalPrice: price("1598")}},
		}))
		require.NoError(t, tx.Carts().Clear(ctx, cart.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 5, dbtest.Stock(t, db, product.ID))
	assert.Zero(t, dbtest.Count(t, db, &models.Order{}))
	assert.Zero(t, dbtest.Count(t, db, &models.OrderItem{}))
	assert.Equal(t, int64(1), dbtest.Count(t, db, &models.CartItem{}))
}

func TestStore_TransactionCommits(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	store := repositories.NewGORMStore(db)
	product := dbtest.Product(t, db, "CSK Cap", "799.00", 5)

	err := store.Transaction(ctx, func(tx repositories.Store) error {
		_, err := tx.Products().TryDecrementStock(ctx, product.ID, 1)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 4, dbtest.Stock(t, db, product.ID))
}

func TestStore_NestedTransactionIsRejected(t *testing.T) {
	db := dbtest.Open(t)
	store := repositories.NewGORMStore(db)

	err := store.Transaction(context.Background(), func(tx repositories.Store) error {
		return tx.Transaction(context.Background(), func(repositories.Store) error {
			t.Fatal("nested transaction must not run")
			return nil
		})
	})
	assert.ErrorIs(t, err, repositories.ErrNestedTransaction)
}

func TestStore_CancelledContextRollsBack(t *testing.T) {
	db := dbtest.Open(t)
	store := repositories.NewGORMStore(db)
	product := dbtest.Product(t, db, "CSK Cap", "799.00", 5)

	ctx, cancel := context.WithCancel(context.Background())
	err := store.Transaction(ctx, func(tx repositories.Store) error {
		ok, err := tx.Products().TryDecrementStock(ctx, product.ID, 5)
		require.NoError(t, err)
		require.True(t, ok)
		cancel()
		return nil
	})
	assert.Error(t, err)
	assert.Equal(t, 5, dbtest.Stock(t, db, product.ID))
}
