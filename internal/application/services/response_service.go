package services

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/roadies/roadies-backend/internal/domain/entities"
)

// ResponseService turns an intent and its ranked products into reply text,
// follow-up prompts, and quick filters. Randomized template choice goes
// through an injectable rand source so tests can pin the output.
type ResponseService struct {
	rng *rand.Rand
}

var coreCategories = []string{"helmet", "jacket", "glove"}

var allCategories = []string{"helmet", "jacket", "glove", "boots"}

var openerTemplates = []string{
	"Here's what I'd put on the shortlist for %s gear on %s.",
	"Good news — found some solid %s options for %s.",
	"Alright, these %s picks should suit %s nicely.",
}

var sportClosers = []string{
	"All of these hold up at highway speeds — check the fit before you commit.",
	"Track-grade protection, street-friendly prices. Want me to narrow it down?",
}

var generalClosers = []string{
	"Every one of these carries proper safety certification. Want more details on any?",
	"Safety first — all of these are certified kit. Tell me if the budget needs adjusting.",
}

const (
	maintenanceReply = "Sorry — our gear catalog is unreachable right now while we run maintenance. Please try again in a few minutes."
	welcomeReply     = "Hey rider! I'm your Roadies gear advisor. Ask me about helmets, jackets, or gloves and I'll find you certified kit that fits your budget."
	noMatchReply     = "I couldn't find gear matching that exact ask. Try a different price range or certification and I'll take another look."
)

var genericPrompts = []string{
	"Show me helmets under 5000",
	"I need riding gloves",
	"Jackets for touring",
}

// NewResponseService creates a composer. A nil rng gets a time-seeded one;
// tests pass a fixed seed.
func NewResponseService(rng *rand.Rand) *ResponseService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ResponseService{rng: rng}
}

// Compose builds the reply text, suggested prompts, and quick filters for
// one request.
func (s *ResponseService) Compose(intent *entities.Intent, scored []ScoredProduct, userCtx *entities.UserContext) (string, []string, []entities.QuickFilter) {
	if intent == nil {
		intent = &entities.Intent{Type: entities.IntentGeneralChat}
	}
	if userCtx == nil {
		userCtx = &entities.UserContext{}
	}

	if intent.Type == entities.IntentUnreachableError {
		return maintenanceReply, nil, nil
	}

	reply := s.replyText(intent, scored, userCtx)
	prompts := s.suggestedPrompts(intent, scored, userCtx)
	filters := s.quickFilters(intent)
	return reply, prompts, filters
}

// ComparisonReply frames a reply around an explicit shortlist comparison.
func (s *ResponseService) ComparisonReply(scored []ScoredProduct) string {
	if len(scored) == 0 {
		return "Your shortlist is empty — add a couple of items first and I'll line them up for you."
	}

	var b strings.Builder
	b.WriteString("Side by side, here's how your shortlist stacks up. ")
	top := scored[0].Product
	fmt.Fprintf(&b, "The %s leads at ₹%.0f (safety %d/10)", top.Name, top.Price, top.SafetyScore)
	if len(scored) > 1 {
		runner := scored[1].Product
		fmt.Fprintf(&b, ", with the %s close behind at ₹%.0f", runner.Name, runner.Price)
	}
	b.WriteString(". Want the full breakdown on either?")
	return b.String()
}

func (s *ResponseService) replyText(intent *entities.Intent, scored []ScoredProduct, userCtx *entities.UserContext) string {
	switch intent.Type {
	case entities.IntentGeneralChat:
		return welcomeReply
	case entities.IntentClarificationNeeded:
		vehicle := resolveVehicle(intent, userCtx)
		return fmt.Sprintf("Nice ride! What gear are you after for the %s — helmet, jacket, or gloves?", vehicle)
	}

	if len(scored) == 0 {
		return noMatchReply
	}

	category := intent.Category
	if category == "" {
		category = "riding"
	}
	vehicle := resolveVehicle(intent, userCtx)

	opener := fmt.Sprintf(s.pick(openerTemplates), category, vehicle)

	top := scored[0].Product
	detail := fmt.Sprintf(" The %s tops the list at ₹%.0f", top.Name, top.Price)
	detail += flavorLine(resolveStyle(intent, userCtx))
	if highlight := topHighlight(top); highlight != "" {
		detail += fmt.Sprintf(" (%s)", highlight)
	}
	detail += "."

	closers := generalClosers
	if resolveStyle(intent, userCtx) == "sport" {
		closers = sportClosers
	}

	return opener + detail + " " + s.pick(closers)
}

func (s *ResponseService) suggestedPrompts(intent *entities.Intent, scored []ScoredProduct, userCtx *entities.UserContext) []string {
	var prompts []string

	// Categories the user is not already looking at.
	added := 0
	for _, cat := range allCategories {
		if strings.EqualFold(cat, intent.Category) {
			continue
		}
		prompts = append(prompts, fmt.Sprintf("Show me %s options", cat))
		added++
		if added == 3 {
			break
		}
	}

	n := len(userCtx.Shortlist)
	if n > 0 {
		prompts = append(prompts, fmt.Sprintf("View my shortlist (%d)", n))
	}
	if n > 1 {
		prompts = append(prompts, "Clear my shortlist", "Compare items")
	}

	if len(scored) > 0 {
		top := scored[0].Product
		prompts = append(prompts, fmt.Sprintf("Add the %s to my shortlist", top.Name))
		if len(scored) >= 2 {
			prompts = append(prompts, "Compare the top two")
		}
		prompts = append(prompts, "Show similar options")
	}

	if len(scored) == 0 && n == 0 {
		return append([]string(nil), genericPrompts...)
	}
	return prompts
}

func (s *ResponseService) quickFilters(intent *entities.Intent) []entities.QuickFilter {
	// Error replies carry no narrowing suggestions.
	if intent.Type == entities.IntentUnreachableError {
		return nil
	}

	var filters []entities.QuickFilter
	for _, cat := range coreCategories {
		if strings.EqualFold(cat, intent.Category) {
			continue
		}
		filters = append(filters, entities.QuickFilter{
			Label: titleCase(cat) + "s",
			Query: "show me " + cat + "s",
		})
	}

	filters = append(filters,
		entities.QuickFilter{Label: "Under ₹5000", Query: "show me " + displayCategory(intent) + " under 5000"},
		entities.QuickFilter{Label: "Under ₹10000", Query: "show me " + displayCategory(intent) + " under 10000"},
	)

	// Certification shortcuts only make sense for certified gear classes.
	switch intent.Category {
	case "helmet":
		filters = append(filters,
			entities.QuickFilter{Label: "ECE certified", Query: "ece certified helmets"},
			entities.QuickFilter{Label: "DOT certified", Query: "dot certified helmets"},
		)
	case "jacket":
		filters = append(filters,
			entities.QuickFilter{Label: "CE Level 2", Query: "ce level 2 jackets"},
		)
	}

	return filters
}

// ShortlistPrompts returns follow-ups for shortlist-centric replies.
func (s *ResponseService) ShortlistPrompts(userCtx *entities.UserContext) []string {
	n := 0
	if userCtx != nil {
		n = len(userCtx.Shortlist)
	}
	if n == 0 {
		return append([]string(nil), genericPrompts...)
	}
	prompts := []string{fmt.Sprintf("View my shortlist (%d)", n)}
	if n > 1 {
		prompts = append(prompts, "Compare items", "Clear my shortlist")
	}
	return append(prompts, "Show me helmet options")
}

// GenerationPrompt assembles the grounded prompt for the text-generation
// collaborator.
func (s *ResponseService) GenerationPrompt(message string, scored []ScoredProduct) string {
	var b strings.Builder
	b.WriteString("You are Roadies, an expert biker gear advisor. Tone: professional, safety-conscious, enthusiastic about riding.\n\n")

	if len(scored) > 0 {
		b.WriteString("Product data found in the store:\n")
		for _, sp := range scored {
			fmt.Fprintf(&b, "- %s: ₹%.0f", sp.Product.Name, sp.Product.Price)
			if len(sp.Product.Certifications) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(sp.Product.Certifications, "/"))
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString("No matching products found in the current inventory.\n")
	}

	fmt.Fprintf(&b, "\nUser query: %q\n\n", message)
	b.WriteString("Instructions:\n")
	b.WriteString("1. Answer the question directly.\n")
	b.WriteString("2. If products are listed, recommend them briefly, highlighting safety certifications (DOT/ISI/ECE/CE levels) or value.\n")
	b.WriteString("3. If no products were found but the user asked for gear, apologize and give general buying advice.\n")
	b.WriteString("4. Keep it under 3 sentences.\n")
	return b.String()
}

func (s *ResponseService) pick(pool []string) string {
	return pool[s.rng.Intn(len(pool))]
}

func resolveVehicle(intent *entities.Intent, userCtx *entities.UserContext) string {
	if intent.Vehicle != "" {
		return intent.Vehicle
	}
	if userCtx.Vehicle != "" {
		return userCtx.Vehicle
	}
	return "your ride"
}

func resolveStyle(intent *entities.Intent, userCtx *entities.UserContext) string {
	if intent.RidingStyle != "" {
		return intent.RidingStyle
	}
	return userCtx.RidingStyle
}

func flavorLine(style string) string {
	switch style {
	case "sport":
		return ", built for aggressive riding"
	case "touring":
		return ", comfortable for the long haul"
	case "urban":
		return ", easy to live with in traffic"
	default:
		return ""
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func topHighlight(p *entities.Product) string {
	if len(p.Certifications) > 0 {
		return p.Certifications[0] + " certified"
	}
	if len(p.Tags) > 0 {
		return p.Tags[0]
	}
	return ""
}

func displayCategory(intent *entities.Intent) string {
	if intent.Category != "" {
		return intent.Category + "s"
	}
	return "gear"
}
