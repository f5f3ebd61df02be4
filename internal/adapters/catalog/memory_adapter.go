package catalog

import (
	"context"

	"github.com/roadies/roadies-backend/internal/domain/entities"
	"github.com/roadies/roadies-backend/internal/domain/repositories"
	apperrors "github.com/roadies/roadies-backend/pkg/errors"
)

// MemoryAdapter serves the built-in gear catalog. Entries are fixed at
// construction and never mutated; GetProducts hands out the shared slice
// entries, so callers must clone before annotating.
type MemoryAdapter struct {
	products []*entities.Product
	byID     map[int]*entities.Product
}

// Ensure MemoryAdapter implements ProductRepository
var _ repositories.ProductRepository = (*MemoryAdapter)(nil)

// NewMemoryAdapter creates a catalog adapter over the default product set.
func NewMemoryAdapter() *MemoryAdapter {
	return NewMemoryAdapterWithProducts(defaultProducts())
}

// NewMemoryAdapterWithProducts creates a catalog adapter over a custom set.
func NewMemoryAdapterWithProducts(products []*entities.Product) *MemoryAdapter {
	byID := make(map[int]*entities.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &MemoryAdapter{products: products, byID: byID}
}

// GetProducts returns catalog entries in load order, optionally filtered by
// category.
func (a *MemoryAdapter) GetProducts(_ context.Context, category string) ([]*entities.Product, error) {
	if category == "" {
		return a.products, nil
	}
	var filtered []*entities.Product
	for _, p := range a.products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// GetByID returns a single catalog entry.
func (a *MemoryAdapter) GetByID(_ context.Context, id int) (*entities.Product, error) {
	p, ok := a.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("product not found")
	}
	return p, nil
}

func defaultProducts() []*entities.Product {
	return []*entities.Product{
		// Helmets
		{ID: 101, Name: "SMK Stellar Full Face", Price: 4900, Brand: "SMK", Category: "helmet",
			Certifications: []string{"DOT", "ECE"}, Styles: []string{"sport", "urban"},
			Tags: []string{"full face"}, Stock: 24},
		{ID: 102, Name: "MT Thunder 4 Modular", Price: 7500, Brand: "MT", Category: "helmet",
			Certifications: []string{"ECE 22.06"}, Styles: []string{"touring", "urban"},
			Tags: []string{"modular"}, Stock: 11},
		{ID: 103, Name: "Axor Apex Carbon", Price: 9800, Brand: "Axor", Category: "helmet",
			Certifications: []string{"DOT", "ECE"}, Styles: []string{"sport"},
			Tags: []string{"full face", "carbon"}, Stock: 4},
		{ID: 104, Name: "SMK Typhoon Flip-Up", Price: 6100, Brand: "SMK", Category: "helmet",
			Certifications: []string{"ISI"}, Styles: []string{"touring"},
			Tags: []string{"modular"}, Stock: 17},
		{ID: 105, Name: "MT Hummer Open Face", Price: 2999, Brand: "MT", Category: "helmet",
			Certifications: []string{"ISI"}, Styles: []string{"urban"},
			Tags: []string{"open face"}, Stock: 30},
		{ID: 106, Name: "Axor Rage Dual Sport", Price: 5500, Brand: "Axor", Category: "helmet",
			Certifications: []string{"ECE"}, Styles: []string{"offroad", "touring"},
			Tags: []string{"dual sport"}, Stock: 9},
		{ID: 107, Name: "SMK Glide Modular", Price: 8200, Brand: "SMK", Category: "helmet",
			Certifications: []string{"ECE"}, Styles: []string{"touring"},
			Tags: []string{"modular", "bluetooth"}, Stock: 2},
		{ID: 108, Name: "MT Revenge 2 Full Face", Price: 6800, Brand: "MT", Category: "helmet",
			Certifications: []string{"ECE"}, Styles: []string{"sport"},
			Tags: []string{"full face"}, Stock: 22},
		{ID: 109, Name: "SMK Twister Full Face", Price: 5800, Brand: "SMK", Category: "helmet",
			Certifications: []string{"DOT"}, Styles: []string{"sport", "urban"},
			Tags: []string{"full face", "pinlock"}, Stock: 14},
		{ID: 110, Name: "MT Blade 2 Race Fit", Price: 5950, Brand: "MT", Category: "helmet",
			Certifications: []string{"ECE"}, Styles: []string{"sport"},
			Tags: []string{"full face", "race fit"}, Stock: 1},

		// Jackets
		{ID: 201, Name: "Rynox Air GT 4 Mesh", Price: 8500, Brand: "Rynox", Category: "jacket",
			Certifications: []string{"CE Level 2"}, Styles: []string{"touring", "urban"},
			Tags: []string{"mesh"}, Stock: 19},
		{ID: 202, Name: "Raida Bolt Leather", Price: 12999, Brand: "Raida", Category: "jacket",
			Certifications: []string{"CE Level 1"}, Styles: []string{"sport"},
			Tags: []string{"leather"}, Stock: 6},
		{ID: 203, Name: "Solace Urban Touring Textile", Price: 9200, Brand: "Solace", Category: "jacket",
			Certifications: []string{"CE Level 2"}, Styles: []string{"touring"},
			Tags: []string{"textile", "waterproof"}, Stock: 25},
		{ID: 204, Name: "DSG Nexus Mesh", Price: 5400, Brand: "DSG", Category: "jacket",
			Certifications: []string{"CE Level 1"}, Styles: []string{"urban"},
			Tags: []string{"mesh"}, Stock: 28},
		{ID: 205, Name: "Raida Breeze Summer Mesh", Price: 6800, Brand: "Raida", Category: "jacket",
			Certifications: []string{"CE Level 1"}, Styles: []string{"urban", "touring"},
			Tags: []string{"mesh"}, Stock: 2},
		{ID: 206, Name: "Raida Touring Adventure", Price: 15500, Brand: "Raida", Category: "jacket",
			Certifications: []string{"CE Level 2"}, Styles: []string{"touring", "offroad"},
			Tags: []string{"textile", "adventure"}, Stock: 8},
		{ID: 207, Name: "Solace Fury Leather Race", Price: 18999, Brand: "Solace", Category: "jacket",
			Certifications: []string{"CE Level 2"}, Styles: []string{"sport"},
			Tags: []string{"leather", "race fit"}, Stock: 5},
		{ID: 208, Name: "Rynox Storm Evo Textile", Price: 13800, Brand: "Rynox", Category: "jacket",
			Certifications: []string{"CE Level 2"}, Styles: []string{"touring"},
			Tags: []string{"textile", "winter"}, Stock: 12},

		// Gloves
		{ID: 301, Name: "Raida Airwave Short Mesh", Price: 1999, Brand: "Raida", Category: "glove",
			Certifications: []string{"CE"}, Styles: []string{"urban"},
			Tags: []string{"mesh", "short cuff"}, Stock: 35},
		{ID: 302, Name: "Rynox Urban X Leather", Price: 3450, Brand: "Rynox", Category: "glove",
			Certifications: []string{"CE"}, Styles: []string{"urban", "touring"},
			Tags: []string{"leather"}, Stock: 21},
		{ID: 303, Name: "Solace Storm Full Gauntlet", Price: 4100, Brand: "Solace", Category: "glove",
			Certifications: []string{"CE Level 1"}, Styles: []string{"sport", "touring"},
			Tags: []string{"gauntlet"}, Stock: 13},
		{ID: 304, Name: "Solace Track Race Gloves", Price: 6500, Brand: "Solace", Category: "glove",
			Certifications: []string{"CE Level 2"}, Styles: []string{"sport"},
			Tags: []string{"leather", "gauntlet"}, Stock: 7},
		{ID: 305, Name: "Raida Trail Enduro Gloves", Price: 1550, Brand: "Raida", Category: "glove",
			Certifications: []string{"CE"}, Styles: []string{"offroad"},
			Tags: []string{"mesh"}, Stock: 2},
		{ID: 306, Name: "Rynox Stealth Waterproof", Price: 3100, Brand: "Rynox", Category: "glove",
			Certifications: []string{"CE"}, Styles: []string{"touring"},
			Tags: []string{"waterproof"}, Stock: 16},

		// Boots
		{ID: 401, Name: "Raida Trooper Riding Boots", Price: 5500, Brand: "Raida", Category: "boots",
			Certifications: []string{"CE"}, Styles: []string{"touring", "urban"},
			Tags: []string{"waterproof"}, Stock: 18},
		{ID: 402, Name: "Solace Apex Race Boots", Price: 11200, Brand: "Solace", Category: "boots",
			Certifications: []string{"CE Level 2"}, Styles: []string{"sport"},
			Tags: []string{"race fit", "slider"}, Stock: 6},
		{ID: 403, Name: "Rynox Trail ADV Boots", Price: 8900, Brand: "Rynox", Category: "boots",
			Certifications: []string{"CE"}, Styles: []string{"offroad", "touring"},
			Tags: []string{"adventure", "waterproof"}, Stock: 2},
	}
}
