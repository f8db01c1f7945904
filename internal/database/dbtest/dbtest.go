// Package dbtest provides throwaway SQLite databases and fixtures for tests.
package dbtest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/database"
	"storefront/internal/models"
)

// DSN returns a file-backed SQLite DSN whose write transactions serialize
// (BEGIN IMMEDIATE) and wait for each other instead of failing.
func DSN(dir string) string {
	return fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=10000&_journal_mode=WAL",
		filepath.Join(dir, "storefront_test.db"))
}

// Open creates a migrated database in a temporary directory that is closed
// when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{Driver: "sqlite", DSN: DSN(t.TempDir()), MaxOpenConns: 16})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(db))
	return db
}

// Franchise inserts an active franchise.
func Franchise(t testing.TB, db *gorm.DB, name string) *models.Franchise {
	t.Helper()
	f := &models.Franchise{ID: uuid.New().String(), Name: name, ShortName: name, IsActive: true}
	require.NoError(t, db.Create(f).Error)
	return f
}

// Product inserts an available product priced at price (a decimal string).
func Product(t testing.TB, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:            uuid.New().String(),
		Name:          name,
		Price:         decimal.RequireFromString(price),
		Type:          models.ProductTypeJersey,
		StockQuantity: stock,
		IsAvailable:   true,
	}
	require.NoError(t, db.Omit("Franchise").Create(p).Error)
	return p
}

// Cart inserts a cart for userID holding the given product quantities, in order.
func Cart(t testing.TB, db *gorm.DB, userID string, lines ...models.CartItem) *models.Cart {
	t.Helper()
	cart := &models.Cart{ID: uuid.New().String(), UserID: userID}
	require.NoError(t, db.Omit("Items").Create(cart).Error)
	for i := range lines {
		line := models.CartItem{CartID: cart.ID, ProductID: lines[i].ProductID, Quantity: lines[i].Quantity}
		require.NoError(t, db.Omit("Product").Create(&line).Error)
	}
	return cart
}

// Line is shorthand for a cart line fixture.
func Line(productID string, quantity int) models.CartItem {
	return models.CartItem{ProductID: productID, Quantity: quantity}
}

// Stock reads the current stock of a product straight from the table.
func Stock(t testing.TB, db *gorm.DB, productID string) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.WithContext(context.Background()).Unscoped().First(&p, "id = ?", productID).Error)
	return p.StockQuantity
}

// Count returns the number of rows of model.
func Count(t testing.TB, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
