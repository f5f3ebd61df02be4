package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadies/roadies-backend/internal/domain/entities"
)

type stubCommerce struct {
	products []*entities.Product
	err      error
	calls    int
}

func (s *stubCommerce) SearchProducts(_ context.Context, _ string, _ float64) ([]*entities.Product, error) {
	s.calls++
	return s.products, s.err
}

func TestFallbackAdapter_PrefersStorefront(t *testing.T) {
	commerce := &stubCommerce{products: []*entities.Product{
		{ID: 900, Name: "Storefront Helmet", Category: "helmet", Price: 4200},
	}}
	adapter := NewFallbackAdapter(commerce, NewMemoryAdapter())

	products, err := adapter.GetProducts(context.Background(), "helmet")

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Storefront Helmet", products[0].Name)
	assert.Equal(t, 1, commerce.calls)
}

func TestFallbackAdapter_FallsBackOnError(t *testing.T) {
	commerce := &stubCommerce{err: errors.New("connection refused")}
	adapter := NewFallbackAdapter(commerce, NewMemoryAdapter())

	products, err := adapter.GetProducts(context.Background(), "helmet")

	require.NoError(t, err)
	require.NotEmpty(t, products)
	assert.Equal(t, "helmet", products[0].Category)
}

func TestFallbackAdapter_FallsBackOnEmptyResult(t *testing.T) {
	commerce := &stubCommerce{}
	adapter := NewFallbackAdapter(commerce, NewMemoryAdapter())

	products, err := adapter.GetProducts(context.Background(), "helmet")

	require.NoError(t, err)
	assert.NotEmpty(t, products)
}

func TestFallbackAdapter_GetByIDUsesLocalCatalog(t *testing.T) {
	commerce := &stubCommerce{}
	adapter := NewFallbackAdapter(commerce, NewMemoryAdapter())

	p, err := adapter.GetByID(context.Background(), 101)

	require.NoError(t, err)
	assert.Equal(t, "SMK Stellar Full Face", p.Name)
	assert.Zero(t, commerce.calls)
}
