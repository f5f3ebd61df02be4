package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roadies/roadies-backend/internal/domain/entities"
)

// ScoredProduct is one ranked catalog entry with its score breakdown.
type ScoredProduct struct {
	Product        *entities.Product
	Score          float64
	ScoreBreakdown map[string]float64
}

// RankingService scores catalog products against an intent and session
// context. It is a pure function of its inputs: products are cloned before
// annotation and neither the catalog nor the session is touched.
type RankingService struct {
	minScore     float64
	defaultLimit int
}

// sportModelFragments identifies bikes whose riders get the sport-style
// bonus. Matched as substrings of the mentioned vehicle.
var sportModelFragments = []string{
	"r15", "r1", "cbr", "rc ", "rc3", "ninja", "duke", "gsx", "zx", "rr", "rs 457", "apache",
}

const (
	scoreCategoryMatch  = 10.0
	scoreBudgetFit      = 5.0
	scoreBudgetValue    = 2.0
	scoreOverBudget     = -15.0
	scoreOverBudgetEase = 5.0
	scoreCertMatch      = 8.0
	scorePerFeature     = 2.0
	scoreStyleMatch     = 4.0
	scoreLowStock       = -5.0
	scoreDeepStock      = 1.0
	scoreSportVehicle   = 20.0
)

// NewRankingService creates a ranker with the default score floor and
// result limit.
func NewRankingService() *RankingService {
	return &RankingService{
		minScore:     5.0,
		defaultLimit: 3,
	}
}

// Rank scores every product, applies the hard category gate and the score
// floor, and returns the top results sorted by score descending. Ties keep
// catalog order.
func (s *RankingService) Rank(products []*entities.Product, intent *entities.Intent, userCtx *entities.UserContext, limit int) []ScoredProduct {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	var scored []ScoredProduct
	for _, p := range products {
		// Hard gate: a stated category disqualifies everything else.
		if intent != nil && intent.Category != "" && !strings.EqualFold(p.Category, intent.Category) {
			continue
		}
		scored = append(scored, s.score(p, intent, userCtx))
	}

	if len(scored) == 0 {
		return nil
	}

	filtered := scored[:0]
	for _, sp := range scored {
		if sp.Score > s.minScore {
			filtered = append(filtered, sp)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// ScoreAll scores the given products without the category gate or the score
// floor. Used for compare flows over an explicit shortlist.
func (s *RankingService) ScoreAll(products []*entities.Product, intent *entities.Intent, userCtx *entities.UserContext) []ScoredProduct {
	scored := make([]ScoredProduct, 0, len(products))
	for _, p := range products {
		scored = append(scored, s.score(p, intent, userCtx))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Confidence buckets the top result score.
func (s *RankingService) Confidence(topScore float64) entities.Confidence {
	switch {
	case topScore >= 20:
		return entities.ConfidenceStrong
	case topScore >= 10:
		return entities.ConfidenceMedium
	case topScore >= 5:
		return entities.ConfidenceApproximate
	default:
		return entities.ConfidenceLow
	}
}

func (s *RankingService) score(product *entities.Product, intent *entities.Intent, userCtx *entities.UserContext) ScoredProduct {
	p := product.Clone()
	breakdown := make(map[string]float64)

	if intent == nil {
		intent = &entities.Intent{}
	}
	if userCtx == nil {
		userCtx = &entities.UserContext{}
	}

	if intent.Category != "" && strings.EqualFold(p.Category, intent.Category) {
		breakdown["category"] = scoreCategoryMatch
	}

	// Budget fit against the effective ceiling: intent price wins over the
	// session budget; neither means no limit.
	budget := intent.MaxPrice
	if budget == 0 {
		budget = userCtx.MaxBudget
	}
	if budget > 0 {
		if p.Price <= budget {
			breakdown["budget"] = scoreBudgetFit
			if p.Price >= 0.8*budget {
				breakdown["budget_value"] = scoreBudgetValue
			}
		} else {
			breakdown["budget"] = scoreOverBudget
			if intent.BudgetSensitivity == entities.BudgetSensitivityLow && p.Price <= 1.2*budget {
				breakdown["budget_stretch"] = scoreOverBudgetEase
			}
		}
	}

	required := intent.Certifications
	if len(required) == 0 && userCtx.CertPreference != "" {
		required = []string{userCtx.CertPreference}
	}
	if len(required) > 0 && certsIntersect(p.Certifications, required) {
		breakdown["certification"] = scoreCertMatch
	}

	if overlap := tagOverlap(intent.Features, p.Tags); overlap > 0 {
		breakdown["features"] = scorePerFeature * float64(overlap)
	}

	style := intent.RidingStyle
	if style == "" {
		style = userCtx.RidingStyle
	}
	if style != "" && p.HasStyle(style) {
		breakdown["style"] = scoreStyleMatch
	}

	switch {
	case p.Stock < 3:
		breakdown["stock"] = scoreLowStock
	case p.Stock > 20:
		breakdown["stock"] = scoreDeepStock
	}

	vehicle := intent.Vehicle
	if vehicle == "" {
		vehicle = userCtx.Vehicle
	}
	if vehicleResolvesSport(vehicle) && p.HasStyle("sport") {
		breakdown["sport_vehicle"] = scoreSportVehicle
	}

	total := 0.0
	for _, v := range breakdown {
		total += v
	}

	p.SafetyScore = safetyScore(p)
	p.Insight = buildInsight(p, breakdown, budget)

	return ScoredProduct{
		Product:        p,
		Score:          total,
		ScoreBreakdown: breakdown,
	}
}

func certsIntersect(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(h, w) || strings.HasPrefix(strings.ToLower(h), strings.ToLower(w)+" ") {
				return true
			}
		}
	}
	return false
}

func tagOverlap(want, have []string) int {
	overlap := 0
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(w, h) {
				overlap++
				break
			}
		}
	}
	return overlap
}

func vehicleResolvesSport(vehicle string) bool {
	if vehicle == "" {
		return false
	}
	v := strings.ToLower(vehicle)
	for _, fragment := range sportModelFragments {
		if strings.Contains(v, strings.TrimSpace(fragment)) {
			return true
		}
	}
	return false
}

// safetyScore folds certification labels into a 0-10 score.
func safetyScore(p *entities.Product) int {
	score := 3
	for _, cert := range p.Certifications {
		c := strings.ToLower(cert)
		switch {
		case strings.Contains(c, "22.06") || strings.Contains(c, "level 2"):
			score += 4
		case strings.HasPrefix(c, "ece") || strings.HasPrefix(c, "dot"):
			score += 3
		default:
			score += 2
		}
	}
	if score > 10 {
		score = 10
	}
	return score
}

func buildInsight(p *entities.Product, breakdown map[string]float64, budget float64) string {
	switch {
	case breakdown["sport_vehicle"] > 0:
		return "Track-ready pick for your sport machine"
	case breakdown["budget_value"] > 0:
		return fmt.Sprintf("Top of its class within your ₹%.0f budget", budget)
	case breakdown["budget"] > 0:
		return fmt.Sprintf("Solid value at ₹%.0f", p.Price)
	case breakdown["certification"] > 0:
		return "Certified: " + strings.Join(p.Certifications, "/")
	case breakdown["style"] > 0:
		return "Matches your riding style"
	default:
		return "Popular pick with riders like you"
	}
}
