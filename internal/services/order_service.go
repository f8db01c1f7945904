package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

const (
	// OrdersExchange is the topic exchange order events are published to.
	OrdersExchange = "orders"
	// OrderPlacedKey is the routing key of the event sent after an order commits.
	OrderPlacedKey = "order.placed"
)

// EventPublisher sends an already encoded event to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderServiceConfig carries the tunables of OrderService.
type OrderServiceConfig struct {
	InitialStatus models.OrderStatus
}

// OrderService handles business logic related to orders.
type OrderService struct {
	store         repositories.Store
	sequencer     OrderNumberGenerator
	publisher     EventPublisher
	logger        *zap.Logger
	initialStatus models.OrderStatus
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case no events are sent.
func NewOrderService(store repositories.Store, sequencer OrderNumberGenerator, publisher EventPublisher, logger *zap.Logger, cfg OrderServiceConfig) *OrderService {
	if cfg.InitialStatus == "" {
		cfg.InitialStatus = models.OrderStatusDelivered
	}
	return &OrderService{
		store:         store,
		sequencer:     sequencer,
		publisher:     publisher,
		logger:        logger,
		initialStatus: cfg.InitialStatus,
	}
}

// GetOrdersByUser returns the user's orders, newest first.
func (s *OrderService) GetOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.Orders().GetByUserID(ctx, userID)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.store.Orders().GetByID(ctx, id)
}

// UpdateOrderStatus moves an order to a new status and optionally records a
// tracking number. Stock is never touched.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status string, trackingNumber string) (*models.Order, error) {
	st, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	if err := s.store.Orders().UpdateStatus(ctx, id, st, trackingNumber); err != nil {
		return nil, err
	}

	s.logger.Info("order status updated", zap.String("order_id", id), zap.String("status", string(st)))
	return s.store.Orders().GetByID(ctx, id)
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}
