package planner

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Category weights. The total is 120, not 100: overlapping categories give
// headroom so partial coverage still climbs toward the cap. The value was
// tuned against this exact total; do not normalize it.
const (
	weightBusinessIdea         = 20
	weightTargetMarket         = 15
	weightFinancialProjections = 15
	weightBusinessModel        = 12
	weightIndustry             = 10
	weightBusinessName         = 8
	weightLocation             = 8
	weightCompetitors          = 8
	weightMarketingStrategy    = 8
	weightOperationalPlan      = 8
	weightRiskAssessment       = 5
	weightLegalRequirements    = 3
)

const (
	// MaxConfidence is the ceiling: the score never claims certainty.
	MaxConfidence = 95

	shortMessageChars = 20
	longMessageChars  = 100

	shortMessageMultiplier = 0.7
	longMessageMultiplier  = 1.2
	qualityBonusCap        = 10

	historyBonusPerTurn = 0.5
	historyBonusCap     = 5

	greetingCap = 2
)

var (
	// \b is ASCII-only in RE2 and never fires after Arabic letters, hence
	// the explicit end-or-space alternation.
	greetingPattern = regexp.MustCompile(`^(hi|hello|hey|good\s+(morning|afternoon|evening)|salam|مرحبا|اهلا|أهلا|السلام\s+عليكم)(\s|$)`)

	acknowledgements = map[string]bool{
		"thanks": true, "thank you": true, "ok": true, "okay": true,
		"yes": true, "no": true, "sure": true, "great": true,
		"شكرا": true, "نعم": true, "لا": true, "حسنا": true, "تمام": true,
	}
)

// Scorer turns extracted coverage flags into a confidence estimate.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// WeightedSum returns the raw pre-multiplier sum for the covered categories.
func (s *Scorer) WeightedSum(info BusinessInformation) float64 {
	sum := 0.0
	if info.BusinessIdea {
		sum += weightBusinessIdea
	}
	if info.TargetMarket {
		sum += weightTargetMarket
	}
	if info.FinancialProjections {
		sum += weightFinancialProjections
	}
	if info.BusinessModel {
		sum += weightBusinessModel
	}
	if info.Industry {
		sum += weightIndustry
	}
	if info.BusinessName {
		sum += weightBusinessName
	}
	if info.Location {
		sum += weightLocation
	}
	if info.Competitors {
		sum += weightCompetitors
	}
	if info.MarketingStrategy {
		sum += weightMarketingStrategy
	}
	if info.OperationalPlan {
		sum += weightOperationalPlan
	}
	if info.RiskAssessment {
		sum += weightRiskAssessment
	}
	if info.LegalRequirements {
		sum += weightLegalRequirements
	}
	return sum
}

// Score estimates [0, MaxConfidence] coverage from the flags, the message
// history and the newest message.
//
// The greeting short-circuit runs after the quality multiplier but before
// the history bonus, and it overrides both: a one-word "ok" following a
// detailed business description must not retain a high score.
func (s *Scorer) Score(info BusinessInformation, history []Turn, currentMessage string) int {
	sum := s.WeightedSum(info)

	// Message-quality multiplier; the bonus above the raw sum is capped.
	length := utf8.RuneCountInString(currentMessage)
	multiplier := 1.0
	switch {
	case length < shortMessageChars:
		multiplier = shortMessageMultiplier
	case length > longMessageChars:
		multiplier = longMessageMultiplier
	}
	score := sum * multiplier
	if score-sum > qualityBonusCap {
		score = sum + qualityBonusCap
	}

	if isGreetingOrAcknowledgement(currentMessage) {
		// Prior coverage keeps a token score; a cold greeting scores zero.
		priorInfo := BusinessInformation{}
		if len(history) > 0 {
			priorInfo = NewKeywordExtractor().Analyze(history, "")
		}
		if !priorInfo.Any() {
			return 0
		}
		capped := int(math.Round(score))
		if capped > greetingCap {
			capped = greetingCap
		}
		if capped < 0 {
			capped = 0
		}
		return capped
	}

	score += math.Min(float64(len(history))*historyBonusPerTurn, historyBonusCap)

	result := int(math.Round(score))
	if result > MaxConfidence {
		result = MaxConfidence
	}
	if result < 0 {
		result = 0
	}
	return result
}

// isGreetingOrAcknowledgement classifies chatter that carries no business
// signal: greetings, bare acknowledgements, and very short messages.
func isGreetingOrAcknowledgement(message string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(message))
	trimmed = strings.Trim(trimmed, ".!?!؟")
	if utf8.RuneCountInString(trimmed) < 5 {
		return true
	}
	if greetingPattern.MatchString(trimmed) {
		return true
	}
	return acknowledgements[trimmed]
}
