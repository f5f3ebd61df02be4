package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/roadies/roadies-backend/internal/domain/entities"
	"github.com/roadies/roadies-backend/internal/domain/repositories"
	tsclient "github.com/roadies/roadies-backend/internal/infrastructure/clients/typesense"
)

const collectionName = "products"

// TypesenseAdapter implements product indexing and lookup using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ProductSearchRepository
var _ repositories.ProductSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the products collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	// Check if collection exists
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "brand", Type: "string", Facet: pointer.True()},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "price", Type: "float", Facet: pointer.True()},
			{Name: "certifications", Type: "string[]", Optional: pointer.True()},
			{Name: "styles", Type: "string[]", Optional: pointer.True()},
			{Name: "tags", Type: "string[]", Optional: pointer.True()},
			{Name: "stock", Type: "int32"},
			{Name: "position", Type: "int32"},
		},
		DefaultSortingField: pointer.String("position"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts a product document. Position preserves catalog load order so
// search results stay deterministic for ranking tie-breaks.
func (a *TypesenseAdapter) Index(ctx context.Context, product *entities.Product) error {
	document := map[string]interface{}{
		"id":             strconv.Itoa(product.ID),
		"name":           product.Name,
		"brand":          product.Brand,
		"category":       product.Category,
		"price":          product.Price,
		"certifications": product.Certifications,
		"styles":         product.Styles,
		"tags":           product.Tags,
		"stock":          product.Stock,
		"position":       product.ID,
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index product: %w", err)
	}

	return nil
}

// Search returns products matching the category and price ceiling, ordered
// by catalog position.
func (a *TypesenseAdapter) Search(ctx context.Context, category string, maxPrice float64, limit int) ([]*entities.Product, error) {
	filters := []string{}
	if category != "" {
		filters = append(filters, fmt.Sprintf("category:=%s", category))
	}
	if maxPrice > 0 {
		filters = append(filters, fmt.Sprintf("price:<=%f", maxPrice))
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String("*"),
		QueryBy: pointer.String("name"),
		SortBy:  pointer.String("position:asc"),
		PerPage: pointer.Int(limit),
	}
	if len(filters) > 0 {
		searchParams.FilterBy = pointer.String(strings.Join(filters, " && "))
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	products := []*entities.Product{}
	if result.Hits == nil {
		return products, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		products = append(products, documentToProduct(*hit.Document))
	}
	return products, nil
}

func documentToProduct(doc map[string]interface{}) *entities.Product {
	p := &entities.Product{}
	if v, ok := doc["id"].(string); ok {
		p.ID, _ = strconv.Atoi(v)
	}
	if v, ok := doc["name"].(string); ok {
		p.Name = v
	}
	if v, ok := doc["brand"].(string); ok {
		p.Brand = v
	}
	if v, ok := doc["category"].(string); ok {
		p.Category = v
	}
	if v, ok := doc["price"].(float64); ok {
		p.Price = v
	}
	if v, ok := doc["stock"].(float64); ok {
		p.Stock = int(v)
	}
	p.Certifications = toStringSlice(doc["certifications"])
	p.Styles = toStringSlice(doc["styles"])
	p.Tags = toStringSlice(doc["tags"])
	return p
}

func toStringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
