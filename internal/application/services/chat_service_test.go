package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadies/roadies-backend/internal/adapters/catalog"
	"github.com/roadies/roadies-backend/internal/adapters/session"
	"github.com/roadies/roadies-backend/internal/domain/entities"
	"github.com/roadies/roadies-backend/internal/domain/providers"
	"github.com/roadies/roadies-backend/internal/domain/repositories"
	apperrors "github.com/roadies/roadies-backend/pkg/errors"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) GenerateReply(context.Context, string) (string, error) {
	g.calls++
	return g.reply, g.err
}

type panicCatalog struct{}

func (panicCatalog) GetProducts(context.Context, string) ([]*entities.Product, error) {
	panic("catalog exploded")
}

func (panicCatalog) GetByID(context.Context, int) (*entities.Product, error) {
	panic("catalog exploded")
}

func newTestChatService(products repositories.ProductRepository, gen providers.ReplyGenerator) *ChatService {
	if products == nil {
		products = catalog.NewMemoryAdapter()
	}
	return NewChatService(
		session.NewMemoryAdapter(),
		products,
		NewIntentService(nil),
		NewContextService(),
		NewRankingService(),
		NewResponseService(rand.New(rand.NewSource(7))),
		gen,
	)
}

func TestChat_ProductSearchFlow(t *testing.T) {
	svc := newTestChatService(nil, nil)

	resp, err := svc.Chat(context.Background(), "show me helmets under 5000", "s1", ChatHints{})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Products)
	assert.LessOrEqual(t, len(resp.Products), 3)
	assert.Equal(t, "SMK Stellar Full Face", resp.Products[0].Name)
	assert.Contains(t, resp.Reply, "SMK Stellar Full Face")
	assert.True(t, resp.ContextUpdated)
	assert.Equal(t, entities.ConfidenceMedium, resp.Confidence)
	assert.Zero(t, resp.ShortlistCount)
}

func TestChat_HelmetsUnderSevenThousand(t *testing.T) {
	svc := newTestChatService(nil, nil)

	resp, err := svc.Chat(context.Background(), "show me helmets under 7000", "s1", ChatHints{})

	require.NoError(t, err)
	require.Len(t, resp.Products, 3)
	for _, p := range resp.Products {
		assert.Equal(t, "helmet", p.Category)
		assert.LessOrEqual(t, p.Price, 7000.0)
		assert.NotEmpty(t, p.Insight)
	}
}

func TestChat_BudgetAccumulatesAcrossMessages(t *testing.T) {
	svc := newTestChatService(nil, nil)

	_, err := svc.Chat(context.Background(), "show me helmets under 5000", "s1", ChatHints{})
	require.NoError(t, err)

	// No budget in the message; the session budget still applies.
	resp, err := svc.Chat(context.Background(), "show me helmets", "s1", ChatHints{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Products)
	for _, p := range resp.Products {
		assert.LessOrEqual(t, p.Price, 5000.0)
	}
}

func TestChat_EmptySearchBecomesUnreachable(t *testing.T) {
	only := catalog.NewMemoryAdapterWithProducts([]*entities.Product{
		{ID: 1, Name: "Raida Bolt Leather", Price: 12999, Category: "jacket", Stock: 10},
	})
	svc := newTestChatService(only, nil)

	resp, err := svc.Chat(context.Background(), "show me jackets under 2000", "s1", ChatHints{})

	require.NoError(t, err)
	assert.Empty(t, resp.Products)
	assert.Contains(t, resp.Reply, "unreachable")
	assert.False(t, resp.ContextUpdated)
	assert.Equal(t, entities.ConfidenceLow, resp.Confidence)
}

func TestChat_ShortlistAddIsIdempotent(t *testing.T) {
	svc := newTestChatService(nil, nil)

	resp, err := svc.Chat(context.Background(), "add the SMK Stellar Full Face to my shortlist", "s1", ChatHints{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ShortlistCount)
	assert.True(t, resp.ContextUpdated)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, 101, resp.Products[0].ID)

	again, err := svc.Chat(context.Background(), "add the SMK Stellar Full Face to my shortlist", "s1", ChatHints{})
	require.NoError(t, err)
	assert.Equal(t, 1, again.ShortlistCount)
	assert.False(t, again.ContextUpdated)
	assert.Contains(t, again.Reply, "already")
}

func TestChat_ShortlistViewAndClear(t *testing.T) {
	svc := newTestChatService(nil, nil)
	ctx := context.Background()

	_, err := svc.Chat(ctx, "add the SMK Stellar Full Face to my shortlist", "s1", ChatHints{})
	require.NoError(t, err)

	view, err := svc.Chat(ctx, "view my shortlist", "s1", ChatHints{})
	require.NoError(t, err)
	require.Len(t, view.Products, 1)
	assert.Equal(t, 1, view.ShortlistCount)

	clear, err := svc.Chat(ctx, "clear shortlist", "s1", ChatHints{})
	require.NoError(t, err)
	assert.Zero(t, clear.ShortlistCount)
	assert.True(t, clear.ContextUpdated)

	empty, err := svc.Chat(ctx, "view my shortlist", "s1", ChatHints{})
	require.NoError(t, err)
	assert.Empty(t, empty.Products)
	assert.Contains(t, empty.Reply, "empty")
}

func TestChat_BareShortlistMessageGetsGuidance(t *testing.T) {
	svc := newTestChatService(nil, nil)
	ctx := context.Background()

	resp, err := svc.Chat(ctx, "shortlist", "s1", ChatHints{})
	require.NoError(t, err)
	assert.Contains(t, resp.Reply, "shortlist is empty")
	assert.NotContains(t, resp.Reply, "couldn't find")

	_, err = svc.Chat(ctx, "add the SMK Stellar Full Face to my shortlist", "s1", ChatHints{})
	require.NoError(t, err)

	resp, err = svc.Chat(ctx, "my shortlist", "s1", ChatHints{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ShortlistCount)
	assert.Contains(t, resp.Reply, "1 item(s) shortlisted")
}

func TestChat_CompareShortlist(t *testing.T) {
	svc := newTestChatService(nil, nil)
	ctx := context.Background()

	_, err := svc.Chat(ctx, "add the SMK Stellar Full Face to my shortlist", "s1", ChatHints{})
	require.NoError(t, err)
	_, err = svc.Chat(ctx, "add the Axor Apex Carbon to my shortlist", "s1", ChatHints{})
	require.NoError(t, err)

	resp, err := svc.Chat(ctx, "compare items", "s1", ChatHints{})
	require.NoError(t, err)
	assert.Len(t, resp.Products, 2)
	assert.Equal(t, 2, resp.ShortlistCount)
	assert.Contains(t, resp.Reply, "SMK Stellar Full Face")
	assert.Contains(t, resp.Reply, "Axor Apex Carbon")
}

func TestChat_SessionsAreIsolated(t *testing.T) {
	svc := newTestChatService(nil, nil)
	ctx := context.Background()

	_, err := svc.Chat(ctx, "add the SMK Stellar Full Face to my shortlist", "s1", ChatHints{})
	require.NoError(t, err)

	other, err := svc.Chat(ctx, "view my shortlist", "s2", ChatHints{})
	require.NoError(t, err)
	assert.Zero(t, other.ShortlistCount)
}

func TestChat_PanicSurfacesAsInternalError(t *testing.T) {
	svc := newTestChatService(panicCatalog{}, nil)

	resp, err := svc.Chat(context.Background(), "show me helmets", "s1", ChatHints{})

	require.Error(t, err)
	assert.Nil(t, resp)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeInternal, appErr.Type)
}

func TestChat_GeneratedReplyOverridesTemplate(t *testing.T) {
	gen := &stubGenerator{reply: "Custom generated reply."}
	svc := newTestChatService(nil, gen)

	resp, err := svc.Chat(context.Background(), "show me helmets under 5000", "s1", ChatHints{})

	require.NoError(t, err)
	assert.Equal(t, "Custom generated reply.", resp.Reply)
	assert.Equal(t, 1, gen.calls)
	assert.NotEmpty(t, resp.Products)
}

func TestChat_GenerationFailureKeepsTemplate(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	svc := newTestChatService(nil, gen)

	resp, err := svc.Chat(context.Background(), "show me helmets under 5000", "s1", ChatHints{})

	require.NoError(t, err)
	assert.Contains(t, resp.Reply, "SMK Stellar Full Face")
}

func TestChat_GeneratorSkippedForCommands(t *testing.T) {
	gen := &stubGenerator{reply: "Custom generated reply."}
	svc := newTestChatService(nil, gen)

	resp, err := svc.Chat(context.Background(), "add the SMK Stellar Full Face to my shortlist", "s1", ChatHints{})

	require.NoError(t, err)
	assert.NotEqual(t, "Custom generated reply.", resp.Reply)
	assert.Zero(t, gen.calls)
}

func TestChat_HintsApplyOnce(t *testing.T) {
	svc := newTestChatService(nil, nil)
	hints := ChatHints{Vehicle: "duke 390", MaxBudget: 6000}

	first, err := svc.Chat(context.Background(), "hello", "s1", hints)
	require.NoError(t, err)
	assert.True(t, first.ContextUpdated)

	second, err := svc.Chat(context.Background(), "hello", "s1", hints)
	require.NoError(t, err)
	assert.False(t, second.ContextUpdated)
}

func TestChat_EmptySessionIDUsesDefault(t *testing.T) {
	svc := newTestChatService(nil, nil)
	ctx := context.Background()

	_, err := svc.Chat(ctx, "add the SMK Stellar Full Face to my shortlist", "", ChatHints{})
	require.NoError(t, err)

	resp, err := svc.Chat(ctx, "view my shortlist", "default", ChatHints{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ShortlistCount)
}
