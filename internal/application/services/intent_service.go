package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/roadies/roadies-backend/internal/domain/entities"
	"github.com/roadies/roadies-backend/internal/domain/providers"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// IntentService parses a raw chat message into a structured Intent. It is
// deterministic and never fails; anything unparseable degrades to
// general_chat.
type IntentService struct {
	cache providers.CacheProvider
}

// categoryRule maps trigger keywords to a canonical category. Rules are
// evaluated in slice order; the first rule with any keyword present wins.
type categoryRule struct {
	keywords []string
	category string
}

var categoryRules = []categoryRule{
	{keywords: []string{"helmet", "helmets", "lid"}, category: "helmet"},
	{keywords: []string{"jacket", "jackets"}, category: "jacket"},
	{keywords: []string{"glove", "gloves", "gauntlet"}, category: "glove"},
	{keywords: []string{"boot", "boots", "riding shoes"}, category: "boots"},
}

var greetings = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "yo": {},
	"hi there": {}, "hello there": {},
	"good morning": {}, "good afternoon": {}, "good evening": {},
}

var knownBrands = []string{"smk", "mt", "axor", "dsg", "rynox", "raida", "solace"}

var knownFeatures = []string{
	"mesh", "leather", "textile", "waterproof", "bluetooth", "modular",
	"full face", "open face", "pinlock", "gauntlet", "carbon",
}

// certificationAliases map message tokens to canonical labels. Slice order
// is fixed so repeated extractions of the same message list certifications
// identically; the first listed certification becomes the session preference.
var certificationAliases = []struct {
	alias     string
	canonical string
}{
	{"dot", "DOT"},
	{"ece", "ECE"},
	{"isi", "ISI"},
	{"ce", "CE"},
}

var styleAliases = map[string]string{
	"sport": "sport", "sports": "sport", "track": "sport",
	"touring": "touring", "tour": "touring", "highway": "touring",
	"urban": "urban", "city": "urban", "commute": "urban", "commuting": "urban",
	"offroad": "offroad", "off-road": "offroad", "trail": "offroad", "enduro": "offroad",
}

// budgetCeilings are the canonical price ceilings a free-form numeric
// mention maps onto. A mention rounds up to the nearest ceiling; anything
// above the largest clamps to it.
var budgetCeilings = []float64{2000, 3000, 5000, 7000, 10000, 15000, 20000}

var vehiclePattern = regexp.MustCompile(`\b(?:for|my|on|ride)\s+([a-z0-9.]+(?:\s[a-z0-9.]+){0,2})`)

var numberPattern = regexp.MustCompile(`\b(\d{3,6})\b`)

var thousandPattern = regexp.MustCompile(`\b(\d{1,3})k\b`)

// vehicleStopTokens are tokens the permissive vehicle pattern may swallow
// that are clearly not part of a bike name.
var vehicleStopTokens = map[string]struct{}{
	"my": {}, "a": {}, "an": {}, "the": {}, "under": {}, "below": {}, "within": {},
	"budget": {}, "cheap": {}, "rs": {}, "inr": {}, "rupees": {}, "gear": {},
	"riding": {}, "ride": {}, "bike": {}, "new": {},
}

// NewIntentService creates an intent extractor. The cache is optional; when
// present, interpretations are cached by normalized message.
func NewIntentService(cache providers.CacheProvider) *IntentService {
	return &IntentService{cache: cache}
}

// Extract interprets one message. It never returns an error.
func (s *IntentService) Extract(ctx context.Context, message string) *entities.Intent {
	normalized := normalizeMessage(message)
	if normalized == "" {
		return &entities.Intent{Type: entities.IntentGeneralChat}
	}

	cacheKey := "intent:" + normalized
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached entities.Intent
			if json.Unmarshal(data, &cached) == nil {
				recordIntentMetric(ctx, cached.Type, true)
				return &cached
			}
		}
	}

	intent := s.classify(normalized)
	recordIntentMetric(ctx, intent.Type, false)

	if s.cache != nil {
		if data, err := json.Marshal(intent); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 86400) // 24 hours
		}
	}

	return intent
}

func (s *IntentService) classify(msg string) *entities.Intent {
	// Greeting-only messages are always small talk, whatever else a fuzzy
	// match might see in them.
	if _, ok := greetings[msg]; ok {
		return &entities.Intent{Type: entities.IntentGeneralChat}
	}

	// Command keywords take absolute precedence over classification.
	if strings.Contains(msg, "compare") {
		return &entities.Intent{Type: entities.IntentCompare}
	}
	if strings.Contains(msg, "shortlist") {
		return &entities.Intent{Type: entities.IntentShortlistOp}
	}

	vehicle := extractVehicle(msg)

	intent := &entities.Intent{
		Category:          matchCategory(msg),
		Brand:             matchBrand(msg),
		Vehicle:           vehicle,
		MaxPrice:          extractPriceCeiling(msg, vehicle),
		Certifications:    matchCertifications(msg),
		Features:          matchFeatures(msg),
		RidingStyle:       matchStyle(msg),
		BudgetSensitivity: detectBudgetSensitivity(msg),
	}

	switch {
	case intent.Category != "" || strings.Contains(msg, "gear"):
		intent.Type = entities.IntentProductSearch
	case intent.Vehicle != "":
		// A bike without a category: ask what gear they are after.
		intent.Type = entities.IntentClarificationNeeded
	default:
		intent.Type = entities.IntentGeneralChat
	}

	return intent
}

func normalizeMessage(message string) string {
	msg := strings.ToLower(strings.TrimSpace(message))
	return strings.Join(strings.Fields(msg), " ")
}

func matchCategory(msg string) string {
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if containsWord(msg, kw) {
				return rule.category
			}
		}
	}
	return ""
}

func matchBrand(msg string) string {
	for _, brand := range knownBrands {
		if containsWord(msg, brand) {
			return brand
		}
	}
	return ""
}

func matchCertifications(msg string) []string {
	var certs []string
	for _, c := range certificationAliases {
		if containsWord(msg, c.alias) {
			certs = append(certs, c.canonical)
		}
	}
	return certs
}

func matchFeatures(msg string) []string {
	var features []string
	for _, f := range knownFeatures {
		if strings.Contains(msg, f) {
			features = append(features, f)
		}
	}
	return features
}

func matchStyle(msg string) string {
	for _, word := range strings.Fields(msg) {
		if style, ok := styleAliases[word]; ok {
			return style
		}
	}
	return ""
}

func extractVehicle(msg string) string {
	match := vehiclePattern.FindStringSubmatch(msg)
	if match == nil {
		return ""
	}

	var tokens []string
	for _, tok := range strings.Fields(match[1]) {
		if _, stop := vehicleStopTokens[tok]; stop {
			continue
		}
		if _, numeric := parseNumber(tok); numeric && len(tokens) == 0 {
			// A leading bare number is a price, not a bike. Trailing
			// numbers stay ("duke 390").
			continue
		}
		if matchCategory(tok) != "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	return strings.Join(tokens, " ")
}

func extractPriceCeiling(msg, vehicle string) float64 {
	if m := thousandPattern.FindStringSubmatch(msg); m != nil {
		if n, ok := parseNumber(m[1]); ok {
			return canonicalCeiling(n * 1000)
		}
	}

	// Model numbers ("duke 390") are part of the bike name, not a budget.
	vehicleTokens := make(map[string]struct{})
	for _, tok := range strings.Fields(vehicle) {
		vehicleTokens[tok] = struct{}{}
	}
	for _, m := range numberPattern.FindAllStringSubmatch(msg, -1) {
		if _, ok := vehicleTokens[m[1]]; ok {
			continue
		}
		if n, ok := parseNumber(m[1]); ok {
			return canonicalCeiling(n)
		}
	}
	return 0
}

func canonicalCeiling(n float64) float64 {
	for _, ceiling := range budgetCeilings {
		if n <= ceiling {
			return ceiling
		}
	}
	return budgetCeilings[len(budgetCeilings)-1]
}

func detectBudgetSensitivity(msg string) entities.BudgetSensitivity {
	for _, w := range []string{"cheap", "cheapest", "budget", "affordable"} {
		if containsWord(msg, w) {
			return entities.BudgetSensitivityHigh
		}
	}
	for _, w := range []string{"premium", "best", "top", "flagship"} {
		if containsWord(msg, w) {
			return entities.BudgetSensitivityLow
		}
	}
	return entities.BudgetSensitivityMedium
}

func parseNumber(tok string) (float64, bool) {
	n, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func containsWord(msg, word string) bool {
	idx := 0
	for {
		i := strings.Index(msg[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(msg[start-1])
		afterOK := end == len(msg) || !isWordChar(msg[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

var (
	intentCounterOnce sync.Once
	intentCounter     metric.Int64Counter
)

func initIntentCounter() {
	meter := otel.Meter("github.com/roadies/roadies-backend/intent")
	counter, err := meter.Int64Counter(
		"chat.intent.count",
		metric.WithDescription("Count of extracted intents by type"),
	)
	if err == nil {
		intentCounter = counter
	}
}

func recordIntentMetric(ctx context.Context, intentType entities.IntentType, cached bool) {
	intentCounterOnce.Do(initIntentCounter)
	if intentCounter == nil {
		return
	}
	intentCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("intent.type", string(intentType)),
		attribute.Bool("intent.cached", cached),
	))
}
