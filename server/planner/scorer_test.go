package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func analyzeAndScore(t *testing.T, history []Turn, message string) int {
	t.Helper()
	info := NewKeywordExtractor().Analyze(history, message)
	return NewScorer().Score(info, history, message)
}

func TestScoreColdGreeting(t *testing.T) {
	for _, message := range []string{"Hello", "hi there!", "good morning", "مرحبا", "ok", "yes"} {
		require.Equal(t, 0, analyzeAndScore(t, nil, message), "message: %q", message)
	}
}

func TestScoreGreetingAfterCoverage(t *testing.T) {
	history := []Turn{
		{Role: "USER", Content: "I want to start a coffee shop"},
		{Role: "ASSISTANT", Content: "Great, tell me more"},
	}
	// businessIdea + industry = 30, x0.7 short multiplier = 21, capped at 2.
	require.Equal(t, 2, analyzeAndScore(t, history, "thanks"))
}

func TestScoreDetailedMessage(t *testing.T) {
	message := "I want to start a coffee shop in Riyadh targeting young professionals, with a budget of 500k SAR and a subscription model"
	// Six categories sum to 80; the long-message multiplier bonus is capped
	// at +10, so 90 without history.
	require.Equal(t, 90, analyzeAndScore(t, nil, message))
}

func TestScoreShortMessagePenalty(t *testing.T) {
	// "budget planning now" is 19 runes: financialProjections (15) x0.7
	// rounds to 11.
	require.Equal(t, 11, analyzeAndScore(t, nil, "budget planning now"))
}

func TestScoreHistoryBonus(t *testing.T) {
	var history []Turn
	for i := 0; i < 10; i++ {
		history = append(history, Turn{Role: "ASSISTANT", Content: "noted"})
	}
	// Same base as the short-message case plus the capped +5 history bonus.
	require.Equal(t, 16, analyzeAndScore(t, history, "budget planning now"))
}

func TestScoreNeverExceedsCap(t *testing.T) {
	message := "We will start a coffee shop called BrewCo in Riyadh targeting students, subscription pricing, 500k SAR budget, heavy social media marketing, five staff and suppliers lined up, main risk is competition, and the license is in progress"
	var history []Turn
	for i := 0; i < 20; i++ {
		history = append(history, Turn{Role: "USER", Content: message})
	}
	score := analyzeAndScore(t, history, message)
	require.Equal(t, MaxConfidence, score)
}

func TestScoreRange(t *testing.T) {
	inputs := []string{
		"", "hi", "I have an idea", "budget budget budget",
		strings.Repeat("coffee shop riyadh budget subscription marketing staff risk license ", 5),
		"ماذا تنصحني أن أفعل",
	}
	for _, message := range inputs {
		score := analyzeAndScore(t, nil, message)
		require.GreaterOrEqual(t, score, 0, "message: %q", message)
		require.LessOrEqual(t, score, MaxConfidence, "message: %q", message)
	}
}

func TestWeightedSumMonotonic(t *testing.T) {
	scorer := NewScorer()

	base := BusinessInformation{BusinessIdea: true}
	more := base
	more.TargetMarket = true
	more.FinancialProjections = true

	require.Less(t, scorer.WeightedSum(BusinessInformation{}), scorer.WeightedSum(base))
	require.Less(t, scorer.WeightedSum(base), scorer.WeightedSum(more))
}

func TestWeightedSumAllCategories(t *testing.T) {
	all := BusinessInformation{
		BusinessName: true, BusinessIdea: true, TargetMarket: true, Industry: true,
		Location: true, BusinessModel: true, Competitors: true, FinancialProjections: true,
		MarketingStrategy: true, OperationalPlan: true, RiskAssessment: true, LegalRequirements: true,
	}
	require.Equal(t, 120.0, NewScorer().WeightedSum(all))
}
