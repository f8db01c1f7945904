package database

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

type seedProduct struct {
	name, description, price, size, color string
	productType                           models.ProductType
	stock                                 int
}

var seedCatalog = []struct {
	franchise models.Franchise
	products  []seedProduct
}{
	{
		franchise: models.Franchise{Name: "Chennai Super Kings", ShortName: "CSK", City: "Chennai", Color: "#FFFF00", Description: "One of the most successful teams in league history.", IsActive: true},
		products: []seedProduct{
			{"CSK Home Jersey", "Official home jersey", "2499.00", "M", "Yellow", models.ProductTypeJersey, 50},
			{"CSK Cap", "Embroidered team cap", "799.00", "Free", "Yellow", models.ProductTypeCap, 100},
		},
	},
	{
		franchise: models.Franchise{Name: "Mumbai Indians", ShortName: "MI", City: "Mumbai", Color: "#004BA0", Description: "Five-time champions.", IsActive: true},
		products: []seedProduct{
			{"MI Home Jersey", "Official home jersey", "2499.00", "L", "Blue", models.ProductTypeJersey, 40},
			{"MI Team Flag", "Large stadium flag", "499.00", "", "Blue", models.ProductTypeFlag, 200},
		},
	},
	{
		franchise: models.Franchise{Name: "Royal Challengers Bangalore", ShortName: "RCB", City: "Bangalore", Color: "#EC1C24", Description: "Known for a passionate fanbase.", IsActive: true},
		products: []seedProduct{
			{"RCB Signed Bat", "Limited edition signed bat", "14999.00", "", "", models.ProductTypeMemorabilia, 5},
			{"RCB Wristband", "Pair of sweat bands", "199.00", "Free", "Red", models.ProductTypeAccessory, 300},
		},
	},
}

// Seed loads the demo catalog when no franchise exists yet.
func Seed(ctx context.Context, store repositories.Store) error {
	n, err := store.Franchises().Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	return store.Transaction(ctx, func(tx repositories.Store) error {
		for _, entry := range seedCatalog {
			franchise := entry.franchise
			if err := tx.Franchises().Create(ctx, &franchise); err != nil {
				return err
			}
			for _, p := range entry.products {
				product := models.Product{
					Name:          p.name,
					Description:   p.description,
					Price:         decimal.RequireFromString(p.price),
					Type:          p.productType,
					StockQuantity: p.stock,
					IsAvailable:   true,
					Size:          p.size,
					Color:         p.color,
					FranchiseID:   franchise.ID,
				}
				if err := tx.Products().Create(ctx, &product); err != nil {
					return fmt.Errorf("failed to seed product %s: %w", p.name, err)
				}
			}
		}
		return nil
	})
}
