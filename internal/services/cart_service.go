package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CartService manages the pending basket of each user. Stock checks made
// here are advisory; stock is only taken when the order is placed.
type CartService struct {
	store repositories.Store
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.Store) *CartService {
	return &CartService{store: store}
}

// GetCart returns the user's cart, creating an empty one on first use.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	return s.store.Carts().GetOrCreate(ctx, userID)
}

// AddToCart adds quantity units of a product, merging with an existing line.
func (s *CartService) AddToCart(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.store.Carts().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	wanted := quantity
	existing, err := s.store.Carts().GetItem(ctx, cart.ID, productID)
	switch {
	case err == nil:
		wanted += existing.Quantity
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}
	if err := s.checkStock(ctx, productID, wanted); err != nil {
		return nil, err
	}

	if err := s.store.Carts().AddItem(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}
	return s.store.Carts().GetByUserID(ctx, userID)
}

// UpdateCartItem sets the quantity of an existing line.
func (s *CartService) UpdateCartItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.store.Carts().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkStock(ctx, productID, quantity); err != nil {
		return nil, err
	}
	if err := s.store.Carts().SetItemQuantity(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}
	return s.store.Carts().GetByUserID(ctx, userID)
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID string) (*models.Cart, error) {
	cart, err := s.store.Carts().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Carts().RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.store.Carts().GetByUserID(ctx, userID)
}

// ClearCart empties the cart. A user without a cart is left as is.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	cart, err := s.store.Carts().GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.store.Carts().Clear(ctx, cart.ID)
}

func (s *CartService) checkStock(ctx context.Context, productID string, quantity int) error {
	product, err := s.store.Products().GetByID(ctx, productID)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: product %s", ErrProductUnavailable, productID)
	}
	if err != nil {
		return err
	}
	if !product.IsAvailable {
		return fmt.Errorf("%w: product %s", ErrProductUnavailable, productID)
	}
	if product.StockQuantity < quantity {
		return fmt.Errorf("%w: product %s has %d left", ErrInsufficientStock, productID, product.StockQuantity)
	}
	return nil
}
