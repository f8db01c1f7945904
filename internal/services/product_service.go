package services

import (
	"context"
	"errors"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ErrInvalidPrice is returned for a negative product price.
var ErrInvalidPrice = errors.New("price must not be negative")

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves every product that is available for sale.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// SearchProducts matches term against product name, description and
// franchise name, case-insensitively. Empty arguments are ignored.
func (s *ProductService) SearchProducts(ctx context.Context, term, productType, franchiseID string) ([]models.Product, error) {
	filter := repositories.ProductFilter{Term: term, FranchiseID: franchiseID}
	if productType != "" {
		t, err := models.ParseProductType(productType)
		if err != nil {
			return nil, err
		}
		filter.Type = t
	}
	return s.repo.Search(ctx, filter)
}

func (s *ProductService) GetProductsByFranchise(ctx context.Context, franchiseID string) ([]models.Product, error) {
	return s.repo.Search(ctx, repositories.ProductFilter{FranchiseID: franchiseID})
}

func (s *ProductService) GetProductsByType(ctx context.Context, productType string) ([]models.Product, error) {
	t, err := models.ParseProductType(productType)
	if err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, repositories.ProductFilter{Type: t})
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if product.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return s.repo.Update(ctx, product)
}

// DeleteProduct removes a product from the catalog. Orders keep their copy
// of its name and price.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
