package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadies/roadies-backend/internal/domain/entities"
)

func helmet(id int, price float64, stock int, styles ...string) *entities.Product {
	return &entities.Product{
		ID:       id,
		Name:     "Helmet",
		Price:    price,
		Category: "helmet",
		Styles:   styles,
		Stock:    stock,
	}
}

func TestRank_CategoryGateAndBudget(t *testing.T) {
	svc := NewRankingService()
	intent := &entities.Intent{Type: entities.IntentProductSearch, Category: "helmet", MaxPrice: 5000}

	inBudget := helmet(1, 4900, 24)
	overBudget := helmet(2, 7500, 11)
	jacket := &entities.Product{ID: 3, Name: "Jacket", Price: 5000, Category: "jacket", Stock: 10}

	results := svc.Rank([]*entities.Product{jacket, overBudget, inBudget}, intent, &entities.UserContext{}, 0)

	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Product.ID)
	// category 10 + budget 5 + value 2 + deep stock 1
	assert.InDelta(t, 18.0, results[0].Score, 0.001)
}

func TestRank_ScoreFloorDropsWeakMatches(t *testing.T) {
	svc := NewRankingService()

	// Deep stock alone scores 1, below the floor.
	p := helmet(1, 4000, 25)
	results := svc.Rank([]*entities.Product{p}, &entities.Intent{}, &entities.UserContext{}, 0)

	assert.Empty(t, results)
}

func TestRank_LimitsToTopThree(t *testing.T) {
	svc := NewRankingService()
	intent := &entities.Intent{Category: "helmet"}

	products := []*entities.Product{
		helmet(1, 4000, 10), helmet(2, 4100, 10), helmet(3, 4200, 10),
		helmet(4, 4300, 10), helmet(5, 4400, 10),
	}

	results := svc.Rank(products, intent, &entities.UserContext{}, 0)
	assert.Len(t, results, 3)
}

func TestRank_TiesKeepCatalogOrder(t *testing.T) {
	svc := NewRankingService()
	intent := &entities.Intent{Category: "helmet"}

	first := helmet(1, 4000, 10)
	second := helmet(2, 4000, 10)

	results := svc.Rank([]*entities.Product{first, second}, intent, &entities.UserContext{}, 0)

	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Product.ID)
	assert.Equal(t, 2, results[1].Product.ID)
}

func TestRank_SportVehicleBoost(t *testing.T) {
	svc := NewRankingService()
	intent := &entities.Intent{Category: "helmet"}
	userCtx := &entities.UserContext{Vehicle: "duke 390"}

	sport := helmet(1, 6000, 10, "sport")
	touring := helmet(2, 6000, 10, "touring")

	results := svc.Rank([]*entities.Product{touring, sport}, intent, userCtx, 0)

	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Product.ID)
	assert.Equal(t, 20.0, results[0].ScoreBreakdown["sport_vehicle"])
	assert.Equal(t, "Track-ready pick for your sport machine", results[0].Product.Insight)
}

func TestRank_DoesNotMutateCatalogEntries(t *testing.T) {
	svc := NewRankingService()
	intent := &entities.Intent{Category: "helmet"}

	p := helmet(1, 4000, 10)
	results := svc.Rank([]*entities.Product{p}, intent, &entities.UserContext{}, 0)

	require.Len(t, results, 1)
	assert.NotSame(t, p, results[0].Product)
	assert.Empty(t, p.Insight)
	assert.Zero(t, p.SafetyScore)
	assert.NotEmpty(t, results[0].Product.Insight)
}

func TestScoreAll_SkipsGateAndFloor(t *testing.T) {
	svc := NewRankingService()
	intent := &entities.Intent{Type: entities.IntentCompare, Category: "helmet"}

	h := helmet(1, 4000, 10)
	jacket := &entities.Product{ID: 2, Name: "Jacket", Price: 5000, Category: "jacket", Stock: 1}

	results := svc.ScoreAll([]*entities.Product{h, jacket}, intent, &entities.UserContext{})

	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Product.ID)
	// Low-stock penalty keeps the jacket, just scored negative.
	assert.Less(t, results[1].Score, 0.0)
}

func TestConfidence_Buckets(t *testing.T) {
	svc := NewRankingService()

	assert.Equal(t, entities.ConfidenceStrong, svc.Confidence(25))
	assert.Equal(t, entities.ConfidenceMedium, svc.Confidence(15))
	assert.Equal(t, entities.ConfidenceApproximate, svc.Confidence(7))
	assert.Equal(t, entities.ConfidenceLow, svc.Confidence(2))
}

func TestSafetyScore_CapsAtTen(t *testing.T) {
	svc := NewRankingService()
	intent := &entities.Intent{Category: "helmet"}

	p := helmet(1, 4000, 10)
	p.Certifications = []string{"ECE 22.06", "DOT", "ISI", "CE Level 2"}

	results := svc.Rank([]*entities.Product{p}, intent, &entities.UserContext{}, 0)
	require.Len(t, results, 1)
	assert.Equal(t, 10, results[0].Product.SafetyScore)
}
