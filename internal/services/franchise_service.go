package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// FranchiseService serves the franchise catalog.
type FranchiseService struct {
	repo repositories.FranchiseRepository
}

func NewFranchiseService(repo repositories.FranchiseRepository) *FranchiseService {
	return &FranchiseService{repo: repo}
}

func (s *FranchiseService) GetActiveFranchises(ctx context.Context) ([]models.Franchise, error) {
	return s.repo.GetActive(ctx)
}

// GetFranchiseByID hides inactive franchises behind ErrNotFound.
func (s *FranchiseService) GetFranchiseByID(ctx context.Context, id string) (*models.Franchise, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !f.IsActive {
		return nil, fmt.Errorf("franchise with ID %s: %w", id, repositories.ErrNotFound)
	}
	return f, nil
}
