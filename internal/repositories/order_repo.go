package repositories

import (
	"context"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// Create inserts the order together with its items.
	Create(ctx context.Context, order *models.Order) error
	// UpdateStatus rewrites the status and, when trackingNumber is non-empty,
	// the tracking number. Nothing else about the order changes.
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus, trackingNumber string) error
	// LastOrderNumber returns the greatest order number starting with prefix,
	// or "" when there is none.
	LastOrderNumber(ctx context.Context, prefix string) (string, error)
}
