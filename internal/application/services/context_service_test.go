package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roadies/roadies-backend/internal/domain/entities"
)

func TestMerge_BudgetOnlyNarrows(t *testing.T) {
	svc := NewContextService()
	userCtx := &entities.UserContext{}

	assert.True(t, svc.Merge(userCtx, &entities.Intent{MaxPrice: 7000}))
	assert.Equal(t, 7000.0, userCtx.MaxBudget)

	// A looser ceiling does not widen the accumulated budget.
	assert.False(t, svc.Merge(userCtx, &entities.Intent{MaxPrice: 10000}))
	assert.Equal(t, 7000.0, userCtx.MaxBudget)

	assert.True(t, svc.Merge(userCtx, &entities.Intent{MaxPrice: 5000}))
	assert.Equal(t, 5000.0, userCtx.MaxBudget)
}

func TestMerge_Idempotent(t *testing.T) {
	svc := NewContextService()
	userCtx := &entities.UserContext{}
	intent := &entities.Intent{
		MaxPrice:       5000,
		RidingStyle:    "sport",
		Certifications: []string{"ECE"},
		Vehicle:        "duke 390",
	}

	assert.True(t, svc.Merge(userCtx, intent))
	assert.False(t, svc.Merge(userCtx, intent))
}

func TestMerge_FirstCertificationWins(t *testing.T) {
	svc := NewContextService()
	userCtx := &entities.UserContext{}

	svc.Merge(userCtx, &entities.Intent{Certifications: []string{"DOT", "ECE"}})
	assert.Equal(t, "DOT", userCtx.CertPreference)
}

func TestMerge_VehicleMentionOverwrites(t *testing.T) {
	svc := NewContextService()
	userCtx := &entities.UserContext{Vehicle: "r15"}

	assert.True(t, svc.Merge(userCtx, &entities.Intent{Vehicle: "duke 390"}))
	assert.Equal(t, "duke 390", userCtx.Vehicle)
}

func TestApplyHints_VehicleFirstWriteWins(t *testing.T) {
	svc := NewContextService()
	userCtx := &entities.UserContext{}

	assert.True(t, svc.ApplyHints(userCtx, "duke 390", 0))
	assert.False(t, svc.ApplyHints(userCtx, "r15", 0))
	assert.Equal(t, "duke 390", userCtx.Vehicle)
}

func TestApplyHints_BudgetNarrowsMonotonically(t *testing.T) {
	svc := NewContextService()
	userCtx := &entities.UserContext{MaxBudget: 8000}

	assert.False(t, svc.ApplyHints(userCtx, "", 9000))
	assert.Equal(t, 8000.0, userCtx.MaxBudget)

	assert.True(t, svc.ApplyHints(userCtx, "", 6000))
	assert.Equal(t, 6000.0, userCtx.MaxBudget)
}
