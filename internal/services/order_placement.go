package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// reservedLine is a cart line whose stock has been taken, with the price and
// name read in the same transaction.
type reservedLine struct {
	productID string
	name      string
	quantity  int
	unitPrice decimal.Decimal
}

// OrderPlacedEvent is the body of the order.placed message.
type OrderPlacedEvent struct {
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	UserID      string             `json:"user_id"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Items       []OrderPlacedItem  `json:"items"`
	PlacedAt    time.Time          `json:"placed_at"`
}

type OrderPlacedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrder turns the user's cart into an order.
//
// Stock for every line is taken with a conditional decrement inside one
// transaction, together with the order insert and the cart clear. Either all
// of it commits or none of it does. Failures are *PlacementError values that
// match ErrEmptyCart, ErrProductUnavailable, ErrInsufficientStock,
// ErrOrderNumberConflict or ErrTransactionFailure with errors.Is.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, shippingAddress string) (*models.Order, error) {
	log := s.logger.With(zap.String("user_id", userID))

	state := StateValidating
	log.Debug("placing order", zap.String("state", string(state)))

	cart, err := s.validateCart(ctx, userID)
	if err != nil {
		return nil, s.fail(log, classify(err, state))
	}

	var order *models.Order
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		state = StateReserving
		log.Debug("reserving stock", zap.String("state", string(state)), zap.Int("lines", len(cart.Items)))

		lines, err := reserve(ctx, tx, cart.Items)
		if err != nil {
			return err
		}

		state = StateCommitting
		log.Debug("writing order", zap.String("state", string(state)))

		order, err = s.writeOrder(ctx, tx, userID, shippingAddress, lines)
		if err != nil {
			return err
		}
		return tx.Carts().Clear(ctx, cart.ID)
	})
	if err != nil {
		return nil, s.fail(log, classify(err, state))
	}

	log.Info("order placed",
		zap.String("state", string(StateCommitted)),
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
	)
	s.publishPlaced(order)
	return order, nil
}

// validateCart rejects carts that cannot possibly be placed. It reads outside
// any transaction, so passing it guarantees nothing.
func (s *OrderService) validateCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.store.Carts().GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, rejected(ErrEmptyCart, StateValidating, "")
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, rejected(ErrEmptyCart, StateValidating, "")
	}

	for _, item := range cart.Items {
		product, err := s.store.Products().GetByID(ctx, item.ProductID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, rejected(ErrProductUnavailable, StateValidating, item.ProductID)
		}
		if err != nil {
			return nil, err
		}
		if !product.IsAvailable {
			return nil, rejected(ErrProductUnavailable, StateValidating, item.ProductID)
		}
		if product.StockQuantity < item.Quantity {
			return nil, rejected(ErrInsufficientStock, StateValidating, item.ProductID)
		}
	}
	return cart, nil
}

// reserve decrements stock line by line in cart order. The first line that
// cannot be covered ends the reservation; the caller's rollback restores the
// lines already taken.
func reserve(ctx context.Context, tx repositories.Store, items []models.CartItem) ([]reservedLine, error) {
	lines := make([]reservedLine, 0, len(items))
	for _, item := range items {
		ok, err := tx.Products().TryDecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, rejected(ErrInsufficientStock, StateReserving, item.ProductID)
		}

		product, err := tx.Products().GetByID(ctx, item.ProductID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, rejected(ErrProductUnavailable, StateReserving, item.ProductID)
		}
		if err != nil {
			return nil, err
		}
		if !product.IsAvailable {
			return nil, rejected(ErrProductUnavailable, StateReserving, item.ProductID)
		}

		lines = append(lines, reservedLine{
			productID: product.ID,
			name:      product.Name,
			quantity:  item.Quantity,
			unitPrice: product.Price,
		})
	}
	return lines, nil
}

func (s *OrderService) writeOrder(ctx context.Context, tx repositories.Store, userID, shippingAddress string, lines []reservedLine) (*models.Order, error) {
	order := &models.Order{
		UserID:          userID,
		Status:          s.initialStatus,
		ShippingAddress: shippingAddress,
		TotalAmount:     decimal.Zero,
		Items:           make([]models.OrderItem, 0, len(lines)),
	}
	for _, l := range lines {
		lineTotal := l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity)))
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   l.productID,
			ProductName: l.name,
			Quantity:    l.quantity,
			UnitPrice:   l.unitPrice,
			TotalPrice:  lineTotal,
		})
		order.TotalAmount = order.TotalAmount.Add(lineTotal)
	}

	number, err := s.sequencer.Next(ctx, tx)
	if err != nil {
		return nil, err
	}
	order.OrderNumber = number

	if err := tx.Orders().Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// classify maps whatever ended a placement attempt onto the placement taxonomy.
func classify(err error, state PlacementState) *PlacementError {
	var pe *PlacementError
	if errors.As(err, &pe) {
		return pe
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &PlacementError{Kind: ErrOrderNumberConflict, State: state, Err: err}
	}
	return &PlacementError{Kind: ErrTransactionFailure, State: state, Err: err}
}

func (s *OrderService) fail(log *zap.Logger, pe *PlacementError) error {
	fields := []zap.Field{
		zap.String("state", string(pe.Outcome())),
		zap.String("failed_in", string(pe.State)),
		zap.String("kind", pe.Kind.Error()),
	}
	if pe.ProductID != "" {
		fields = append(fields, zap.String("product_id", pe.ProductID))
	}
	if pe.Err != nil {
		log.Warn("order placement aborted", append(fields, zap.Error(pe.Err))...)
	} else {
		log.Info("order placement rejected", fields...)
	}
	return pe
}

// publishPlaced announces a committed order. The order stands whether or not
// the broker accepts the message.
func (s *OrderService) publishPlaced(order *models.Order) {
	if s.publisher == nil {
		return
	}

	event := OrderPlacedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		PlacedAt:    order.CreatedAt,
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, OrderPlacedItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to encode order event", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(OrdersExchange, OrderPlacedKey, body); err != nil {
		s.logger.Warn("failed to publish order event", zap.String("order_id", order.ID), zap.Error(err))
	}
}
