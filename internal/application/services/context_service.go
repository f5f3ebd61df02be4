package services

import (
	"strings"

	"github.com/roadies/roadies-backend/internal/domain/entities"
)

// ContextService folds extracted intents and persistent hints into a
// session's UserContext. All rules are idempotent: re-merging the same
// intent reports no change.
type ContextService struct{}

// NewContextService creates a new context merger.
func NewContextService() *ContextService {
	return &ContextService{}
}

// Merge applies an intent to the session context in place and reports
// whether anything changed.
func (s *ContextService) Merge(userCtx *entities.UserContext, intent *entities.Intent) bool {
	if userCtx == nil || intent == nil {
		return false
	}

	updated := false

	// Riding style: overwrite only on a real (case-insensitive) change.
	if intent.RidingStyle != "" && !strings.EqualFold(intent.RidingStyle, userCtx.RidingStyle) {
		userCtx.RidingStyle = intent.RidingStyle
		updated = true
	}

	// Budget only ever narrows automatically.
	if intent.MaxPrice > 0 && (userCtx.MaxBudget == 0 || intent.MaxPrice < userCtx.MaxBudget) {
		userCtx.MaxBudget = intent.MaxPrice
		updated = true
	}

	// First certification in the intent wins, and only on a change.
	if len(intent.Certifications) > 0 && !strings.EqualFold(intent.Certifications[0], userCtx.CertPreference) {
		userCtx.CertPreference = intent.Certifications[0]
		updated = true
	}

	// An explicit vehicle mention in the message always overwrites.
	if intent.Vehicle != "" && !strings.EqualFold(intent.Vehicle, userCtx.Vehicle) {
		userCtx.Vehicle = intent.Vehicle
		updated = true
	}

	return updated
}

// ApplyHints applies persistent vehicle/budget hints supplied outside the
// message. The vehicle hint is first-write-wins; the budget hint narrows
// monotonically like merged intents.
func (s *ContextService) ApplyHints(userCtx *entities.UserContext, vehicle string, maxBudget float64) bool {
	if userCtx == nil {
		return false
	}

	updated := false

	if vehicle != "" && userCtx.Vehicle == "" {
		userCtx.Vehicle = vehicle
		updated = true
	}

	if maxBudget > 0 && (userCtx.MaxBudget == 0 || maxBudget < userCtx.MaxBudget) {
		userCtx.MaxBudget = maxBudget
		updated = true
	}

	return updated
}
