package repositories

import (
	"context"

	"storefront/internal/models"
)

// ProductFilter narrows a catalog search. Zero values are ignored.
type ProductFilter struct {
	Term        string
	Type        models.ProductType
	FranchiseID string
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Search(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error

	// TryDecrementStock subtracts quantity from the product's stock only if at
	// least quantity units are available, as one statement evaluated by the
	// database. It reports whether the decrement was applied.
	TryDecrementStock(ctx context.Context, id string, quantity int) (bool, error)
}
