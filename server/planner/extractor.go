package planner

import (
	"regexp"
	"strings"
)

// Turn is one prior message of a conversation as seen by the planner.
type Turn struct {
	Role    string
	Content string
}

// BusinessInformation is the coverage snapshot extracted from a
// conversation: one boolean per topic category. It is recomputed from
// scratch every turn and never persisted.
type BusinessInformation struct {
	BusinessName         bool
	BusinessIdea         bool
	TargetMarket         bool
	Industry             bool
	Location             bool
	BusinessModel        bool
	Competitors          bool
	FinancialProjections bool
	MarketingStrategy    bool
	OperationalPlan      bool
	RiskAssessment       bool
	LegalRequirements    bool
}

// Any reports whether at least one category is covered.
func (b BusinessInformation) Any() bool {
	return b.BusinessName || b.BusinessIdea || b.TargetMarket || b.Industry ||
		b.Location || b.BusinessModel || b.Competitors || b.FinancialProjections ||
		b.MarketingStrategy || b.OperationalPlan || b.RiskAssessment || b.LegalRequirements
}

// Count returns the number of covered categories.
func (b BusinessInformation) Count() int {
	n := 0
	for _, v := range []bool{
		b.BusinessName, b.BusinessIdea, b.TargetMarket, b.Industry,
		b.Location, b.BusinessModel, b.Competitors, b.FinancialProjections,
		b.MarketingStrategy, b.OperationalPlan, b.RiskAssessment, b.LegalRequirements,
	} {
		if v {
			n++
		}
	}
	return n
}

// Extractor maps accumulated conversation text to coverage flags. The
// interface isolates the matching rules from the orchestrator so they can be
// swapped without touching request handling.
type Extractor interface {
	Analyze(history []Turn, currentMessage string) BusinessInformation
}

// KeywordExtractor is the production Extractor: substring and regex tests
// over the lowercased concatenation of all turns plus the newest message.
// Matching is loose on purpose: "cost" anywhere flags financial
// projections even in an unrelated sentence. That false-positive rate is a
// known limitation of the heuristic, not a bug.
type KeywordExtractor struct {
	moneyPattern *regexp.Regexp
}

func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{
		moneyPattern: regexp.MustCompile(`how\s+.*make\s+.*money`),
	}
}

var _ Extractor = (*KeywordExtractor)(nil)

var (
	businessNameKeywords = []string{"called", "named", "name is", "our name", "brand name", "اسم الشركة", "اسمها"}
	businessIdeaKeywords = []string{
		"start", "build", "create", "launch", "open", "idea", "business", "startup",
		"app", "service", "product", "platform", "shop", "store", "company",
		"فكرة", "مشروع", "شركة", "متجر",
	}
	targetMarketKeywords = []string{
		"customers", "clients", "target", "targeting", "audience", "market", "users",
		"demographic", "professionals", "students", "families", "consumers",
		"عملاء", "جمهور", "سوق",
	}
	industryKeywords = []string{
		"tech", "retail", "food", "coffee", "restaurant", "healthcare", "education",
		"finance", "software", "construction", "fashion", "logistics", "industry",
		"e-commerce", "saas", "مطعم", "تقنية", "تجزئة", "تعليم",
	}
	locationKeywords = []string{
		"riyadh", "jeddah", "dammam", "mecca", "medina", "saudi", "mall", "online",
		"location", "located", "city", "area", "district", "downtown", "neighborhood",
		"الرياض", "جدة", "الدمام", "موقع",
	}
	businessModelKeywords = []string{
		"subscription", "b2b", "b2c", "marketplace", "freemium", "revenue",
		"pricing", "model", "profit", "اشتراك", "إيرادات", "تسعير",
	}
	competitorsKeywords = []string{
		"competitor", "competition", "rivals", "similar to", "alternative",
		"versus", "compete", "market leader", "منافس", "منافسة",
	}
	financialKeywords = []string{
		"budget", "cost", "funding", "investment", "capital", "profit", "sar",
		"$", "riyal", "financial", "forecast", "projection",
		"ميزانية", "تمويل", "استثمار", "ريال",
	}
	marketingKeywords = []string{
		"marketing", "advertis", "social media", "promotion", "branding", "seo",
		"campaign", "instagram", "tiktok", "تسويق", "إعلان",
	}
	operationalKeywords = []string{
		"operations", "staff", "employees", "suppliers", "logistics", "inventory",
		"equipment", "opening hours", "hiring", "workflow",
		"عمليات", "موظفين", "موردين",
	}
	riskKeywords = []string{
		"risk", "challenge", "threat", "obstacle", "contingency", "mitigation",
		"مخاطر", "تحديات",
	}
	legalKeywords = []string{
		"license", "permit", "legal", "regulation", "compliance", "registration",
		"trademark", "zoning", "ترخيص", "تصريح", "قانوني",
	}
)

// Analyze runs all 12 category tests unconditionally over the full
// conversation text. Deterministic and side-effect free: identical inputs
// always yield identical flags.
func (e *KeywordExtractor) Analyze(history []Turn, currentMessage string) BusinessInformation {
	var sb strings.Builder
	for _, turn := range history {
		sb.WriteString(turn.Content)
		sb.WriteString(" ")
	}
	sb.WriteString(currentMessage)
	text := strings.ToLower(sb.String())

	return BusinessInformation{
		BusinessName:         containsAny(text, businessNameKeywords),
		BusinessIdea:         containsAny(text, businessIdeaKeywords),
		TargetMarket:         containsAny(text, targetMarketKeywords),
		Industry:             containsAny(text, industryKeywords),
		Location:             containsAny(text, locationKeywords),
		BusinessModel:        containsAny(text, businessModelKeywords) || e.moneyPattern.MatchString(text),
		Competitors:          containsAny(text, competitorsKeywords),
		FinancialProjections: containsAny(text, financialKeywords),
		MarketingStrategy:    containsAny(text, marketingKeywords),
		OperationalPlan:      containsAny(text, operationalKeywords),
		RiskAssessment:       containsAny(text, riskKeywords),
		LegalRequirements:    containsAny(text, legalKeywords),
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
