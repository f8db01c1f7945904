package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/models"
)

// FranchiseRepository defines the interface for franchise data access.
type FranchiseRepository interface {
	GetActive(ctx context.Context) ([]models.Franchise, error)
	GetByID(ctx context.Context, id string) (*models.Franchise, error)
	Create(ctx context.Context, franchise *models.Franchise) error
	Count(ctx context.Context) (int64, error)
}

// GORMFranchiseRepository is a GORM implementation of FranchiseRepository.
type GORMFranchiseRepository struct {
	db *gorm.DB
}

// NewGORMFranchiseRepository creates a new instance of GORMFranchiseRepository.
func NewGORMFranchiseRepository(db *gorm.DB) *GORMFranchiseRepository {
	return &GORMFranchiseRepository{db: db}
}

func (r *GORMFranchiseRepository) GetActive(ctx context.Context) ([]models.Franchise, error) {
	var franchises []models.Franchise
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&franchises).Error; err != nil {
		return nil, fmt.Errorf("failed to get franchises: %w", err)
	}
	return franchises, nil
}

func (r *GORMFranchiseRepository) GetByID(ctx context.Context, id string) (*models.Franchise, error) {
	var franchise models.Franchise
	if err := r.db.WithContext(ctx).First(&franchise, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "franchise with ID %s", id)
	}
	return &franchise, nil
}

func (r *GORMFranchiseRepository) Create(ctx context.Context, franchise *models.Franchise) error {
	if franchise.ID == "" {
		franchise.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(franchise).Error; err != nil {
		return fmt.Errorf("failed to create franchise: %w", err)
	}
	return nil
}

func (r *GORMFranchiseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Franchise{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count franchises: %w", err)
	}
	return n, nil
}
