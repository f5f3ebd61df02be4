package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/roadies/roadies-backend/pkg/errors"
)

func TestMemoryAdapter_FiltersByCategory(t *testing.T) {
	adapter := NewMemoryAdapter()

	helmets, err := adapter.GetProducts(context.Background(), "helmet")
	require.NoError(t, err)
	require.NotEmpty(t, helmets)
	for _, p := range helmets {
		assert.Equal(t, "helmet", p.Category)
	}
}

func TestMemoryAdapter_EmptyCategoryReturnsEverything(t *testing.T) {
	adapter := NewMemoryAdapter()

	all, err := adapter.GetProducts(context.Background(), "")
	require.NoError(t, err)

	helmets, err := adapter.GetProducts(context.Background(), "helmet")
	require.NoError(t, err)

	assert.Greater(t, len(all), len(helmets))
}

func TestMemoryAdapter_GetByID(t *testing.T) {
	adapter := NewMemoryAdapter()

	p, err := adapter.GetByID(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, "SMK Stellar Full Face", p.Name)

	_, err = adapter.GetByID(context.Background(), 99999)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestMemoryAdapter_UnknownCategoryIsEmptyNotError(t *testing.T) {
	adapter := NewMemoryAdapter()

	products, err := adapter.GetProducts(context.Background(), "snowmobile")
	require.NoError(t, err)
	assert.Empty(t, products)
}
