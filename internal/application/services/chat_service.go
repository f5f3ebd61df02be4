package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roadies/roadies-backend/internal/domain/entities"
	"github.com/roadies/roadies-backend/internal/domain/providers"
	"github.com/roadies/roadies-backend/internal/domain/repositories"
	"github.com/roadies/roadies-backend/internal/infrastructure/observability"
	apperrors "github.com/roadies/roadies-backend/pkg/errors"
)

const (
	defaultSessionID  = "default"
	generationTimeout = 8 * time.Second
)

// ChatHints are the optional persistent preferences a caller can send
// alongside a message.
type ChatHints struct {
	Vehicle   string
	MaxBudget float64
}

// ChatService sequences the chat pipeline: intent extraction, context
// merging, ranking, and reply composition, plus the shortlist commands that
// short-circuit it.
type ChatService struct {
	sessions repositories.SessionRepository
	catalog  repositories.ProductRepository
	intents  *IntentService
	contexts *ContextService
	ranker   *RankingService
	composer *ResponseService
	replies  providers.ReplyGenerator
}

// NewChatService creates the chat orchestrator. replies may be nil to run
// on template replies only.
func NewChatService(
	sessions repositories.SessionRepository,
	catalog repositories.ProductRepository,
	intents *IntentService,
	contexts *ContextService,
	ranker *RankingService,
	composer *ResponseService,
	replies providers.ReplyGenerator,
) *ChatService {
	return &ChatService{
		sessions: sessions,
		catalog:  catalog,
		intents:  intents,
		contexts: contexts,
		ranker:   ranker,
		composer: composer,
		replies:  replies,
	}
}

// Chat handles one message for one session. Any internal fault surfaces as
// a single opaque internal error; collaborator failures never do.
func (s *ChatService) Chat(ctx context.Context, message, sessionID string, hints ChatHints) (resp *entities.ChatResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger := observability.LoggerFromContext(ctx)
			logger.Error().Interface("panic", r).Msg("chat pipeline panicked")
			resp = nil
			err = apperrors.NewInternalError("chat pipeline failure", fmt.Errorf("panic: %v", r))
		}
	}()

	if sessionID == "" {
		sessionID = defaultSessionID
	}

	contextUpdated := false
	if hints.Vehicle != "" || hints.MaxBudget > 0 {
		if updErr := s.sessions.Update(ctx, sessionID, func(uc *entities.UserContext) error {
			contextUpdated = s.contexts.ApplyHints(uc, hints.Vehicle, hints.MaxBudget)
			return nil
		}); updErr != nil {
			return nil, apperrors.NewInternalError("failed to apply session hints", updErr)
		}
	}

	snapshot, getErr := s.sessions.Get(ctx, sessionID)
	if getErr != nil {
		return nil, apperrors.NewInternalError("failed to load session", getErr)
	}

	intent := s.intents.Extract(ctx, message)

	var scored []ScoredProduct
	if intent.Type == entities.IntentProductSearch {
		products, catErr := s.catalog.GetProducts(ctx, intent.Category)
		if catErr != nil {
			// Catalog trouble reads the same as an empty match downstream.
			logger := observability.LoggerFromContext(ctx)
			logger.Warn().Err(catErr).Msg("catalog lookup failed")
		}
		scored = s.ranker.Rank(products, intent, snapshot, 0)

		if len(scored) == 0 {
			// Terminal reclassification: an empty match forces the
			// maintenance-style reply instead of a fresh extraction.
			intent = reclassifyUnreachable(intent)
		} else {
			if updErr := s.sessions.Update(ctx, sessionID, func(uc *entities.UserContext) error {
				if s.contexts.Merge(uc, intent) {
					contextUpdated = true
				}
				return nil
			}); updErr != nil {
				return nil, apperrors.NewInternalError("failed to merge session context", updErr)
			}
		}
	}

	// Explicit shortlist commands win over whatever the ranked reply would
	// have been.
	if cmdResp, handled := s.handleShortlistCommand(ctx, message, sessionID, scored); handled {
		cmdResp.ContextUpdated = cmdResp.ContextUpdated || contextUpdated
		return cmdResp, nil
	}

	if intent.Type == entities.IntentShortlistOp {
		// A shortlist mention without a recognized command gets guidance,
		// not the product no-match reply.
		return s.shortlistHelp(ctx, sessionID, contextUpdated)
	}

	if intent.Type == entities.IntentCompare {
		return s.compareShortlist(ctx, sessionID, intent, contextUpdated)
	}

	current, getErr := s.sessions.Get(ctx, sessionID)
	if getErr != nil {
		return nil, apperrors.NewInternalError("failed to load session", getErr)
	}

	reply, prompts, filters := s.composer.Compose(intent, scored, current)
	if generated, ok := s.generateReply(ctx, message, intent, scored); ok {
		reply = generated
	}

	return &entities.ChatResponse{
		Reply:            reply,
		Products:         productsOf(scored),
		SuggestedPrompts: prompts,
		QuickFilters:     filters,
		ContextUpdated:   contextUpdated,
		ShortlistCount:   len(current.Shortlist),
		Confidence:       s.confidenceOf(scored),
	}, nil
}

// reclassifyUnreachable is the terminal transition from an empty search
// result to the maintenance reply path.
func reclassifyUnreachable(intent *entities.Intent) *entities.Intent {
	next := *intent
	next.Type = entities.IntentUnreachableError
	return &next
}

func (s *ChatService) handleShortlistCommand(ctx context.Context, message, sessionID string, scored []ScoredProduct) (*entities.ChatResponse, bool) {
	msg := strings.ToLower(message)

	switch {
	case strings.Contains(msg, "add to shortlist") || strings.Contains(msg, "to my shortlist"):
		return s.shortlistAdd(ctx, sessionID, msg, scored), true
	case strings.Contains(msg, "clear shortlist") || strings.Contains(msg, "clear my shortlist"):
		return s.shortlistClear(ctx, sessionID), true
	case strings.Contains(msg, "view shortlist") || strings.Contains(msg, "view my shortlist") || strings.Contains(msg, "show my shortlist"):
		return s.shortlistView(ctx, sessionID), true
	}
	return nil, false
}

func (s *ChatService) shortlistAdd(ctx context.Context, sessionID, msg string, scored []ScoredProduct) *entities.ChatResponse {
	var top *entities.Product
	if len(scored) > 0 {
		top = scored[0].Product
	} else {
		// "Add the <name> to my shortlist" names the product directly.
		top = s.resolveProductByName(ctx, msg)
	}

	if top == nil {
		current, _ := s.sessions.Get(ctx, sessionID)
		return &entities.ChatResponse{
			Reply:            "Search for some gear first, then tell me to add it to your shortlist.",
			Products:         []*entities.Product{},
			SuggestedPrompts: s.composer.ShortlistPrompts(current),
			ShortlistCount:   len(current.Shortlist),
			Confidence:       entities.ConfidenceLow,
		}
	}
	added := false
	_ = s.sessions.Update(ctx, sessionID, func(uc *entities.UserContext) error {
		added = uc.AddToShortlist(top.ID)
		return nil
	})

	current, _ := s.sessions.Get(ctx, sessionID)
	reply := fmt.Sprintf("Added the %s to your shortlist (%d saved).", top.Name, len(current.Shortlist))
	if !added {
		reply = fmt.Sprintf("The %s is already on your shortlist (%d saved).", top.Name, len(current.Shortlist))
	}

	return &entities.ChatResponse{
		Reply:            reply,
		Products:         []*entities.Product{top},
		SuggestedPrompts: s.composer.ShortlistPrompts(current),
		ContextUpdated:   added,
		ShortlistCount:   len(current.Shortlist),
		Confidence:       entities.ConfidenceMedium,
	}
}

func (s *ChatService) shortlistClear(ctx context.Context, sessionID string) *entities.ChatResponse {
	cleared := false
	_ = s.sessions.Update(ctx, sessionID, func(uc *entities.UserContext) error {
		cleared = len(uc.Shortlist) > 0
		uc.ClearShortlist()
		return nil
	})

	current, _ := s.sessions.Get(ctx, sessionID)
	return &entities.ChatResponse{
		Reply:            "Done, your shortlist is cleared. Your other preferences are untouched.",
		Products:         []*entities.Product{},
		SuggestedPrompts: s.composer.ShortlistPrompts(current),
		ContextUpdated:   cleared,
		ShortlistCount:   0,
		Confidence:       entities.ConfidenceMedium,
	}
}

func (s *ChatService) shortlistView(ctx context.Context, sessionID string) *entities.ChatResponse {
	current, _ := s.sessions.Get(ctx, sessionID)
	products := s.resolveShortlist(ctx, current)

	reply := "Your shortlist is empty. Find some gear you like and I'll keep track of it."
	if len(products) > 0 {
		reply = fmt.Sprintf("You have %d item(s) shortlisted. Say compare when you're ready to line them up.", len(products))
	}

	return &entities.ChatResponse{
		Reply:            reply,
		Products:         products,
		SuggestedPrompts: s.composer.ShortlistPrompts(current),
		ShortlistCount:   len(current.Shortlist),
		Confidence:       entities.ConfidenceMedium,
	}
}

func (s *ChatService) shortlistHelp(ctx context.Context, sessionID string, contextUpdated bool) (*entities.ChatResponse, error) {
	current, getErr := s.sessions.Get(ctx, sessionID)
	if getErr != nil {
		return nil, apperrors.NewInternalError("failed to load session", getErr)
	}

	reply := "Your shortlist is empty. Tell me to add a product to it and I'll keep track."
	if n := len(current.Shortlist); n > 0 {
		reply = fmt.Sprintf("You have %d item(s) shortlisted. Say view my shortlist, compare items, or clear shortlist.", n)
	}

	return &entities.ChatResponse{
		Reply:            reply,
		Products:         []*entities.Product{},
		SuggestedPrompts: s.composer.ShortlistPrompts(current),
		ContextUpdated:   contextUpdated,
		ShortlistCount:   len(current.Shortlist),
		Confidence:       entities.ConfidenceMedium,
	}, nil
}

func (s *ChatService) compareShortlist(ctx context.Context, sessionID string, intent *entities.Intent, contextUpdated bool) (*entities.ChatResponse, error) {
	current, getErr := s.sessions.Get(ctx, sessionID)
	if getErr != nil {
		return nil, apperrors.NewInternalError("failed to load session", getErr)
	}

	products := s.resolveShortlist(ctx, current)
	scored := s.ranker.ScoreAll(products, intent, current)

	confidence := entities.ConfidenceLow
	if len(scored) > 0 {
		confidence = s.ranker.Confidence(scored[0].Score)
	}

	return &entities.ChatResponse{
		Reply:            s.composer.ComparisonReply(scored),
		Products:         productsOf(scored),
		SuggestedPrompts: s.composer.ShortlistPrompts(current),
		ContextUpdated:   contextUpdated,
		ShortlistCount:   len(current.Shortlist),
		Confidence:       confidence,
	}, nil
}

func (s *ChatService) resolveProductByName(ctx context.Context, msg string) *entities.Product {
	products, err := s.catalog.GetProducts(ctx, "")
	if err != nil {
		return nil
	}
	for _, p := range products {
		if strings.Contains(msg, strings.ToLower(p.Name)) {
			return p
		}
	}
	return nil
}

func (s *ChatService) resolveShortlist(ctx context.Context, userCtx *entities.UserContext) []*entities.Product {
	products := make([]*entities.Product, 0, len(userCtx.Shortlist))
	for _, id := range userCtx.Shortlist {
		p, err := s.catalog.GetByID(ctx, id)
		if err != nil {
			continue
		}
		products = append(products, p.Clone())
	}
	return products
}

// generateReply asks the optional text-generation collaborator for the
// reply body. Best effort: any error keeps the template reply.
func (s *ChatService) generateReply(ctx context.Context, message string, intent *entities.Intent, scored []ScoredProduct) (string, bool) {
	if s.replies == nil {
		return "", false
	}
	if intent.Type != entities.IntentProductSearch && intent.Type != entities.IntentGeneralChat {
		return "", false
	}

	genCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	prompt := s.composer.GenerationPrompt(message, scored)
	reply, err := s.replies.GenerateReply(genCtx, prompt)
	if err != nil {
		logger := observability.LoggerFromContext(ctx)
		logger.Warn().Err(err).Msg("reply generation failed, using template reply")
		return "", false
	}
	return reply, true
}

func (s *ChatService) confidenceOf(scored []ScoredProduct) entities.Confidence {
	if len(scored) == 0 {
		return entities.ConfidenceLow
	}
	return s.ranker.Confidence(scored[0].Score)
}

func productsOf(scored []ScoredProduct) []*entities.Product {
	products := make([]*entities.Product, 0, len(scored))
	for _, sp := range scored {
		products = append(products, sp.Product)
	}
	return products
}
