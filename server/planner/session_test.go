package planner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveSessionEmpty(t *testing.T) {
	session := DeriveSession("sess-1", BusinessInformation{}, "SA", 0)

	require.Equal(t, "sess-1", session.ID)
	require.Equal(t, StepBusinessIdea, session.CurrentStep)
	require.Empty(t, session.CompletedSteps)
	require.Equal(t, SessionStatusActive, session.Status)
	require.Equal(t, DocumentTypes, session.RequiredDocuments)
	require.False(t, session.CollectedData["businessIdea"])
}

func TestDeriveSessionPartial(t *testing.T) {
	info := BusinessInformation{
		BusinessIdea: true,
		TargetMarket: true,
		Industry:     true,
	}
	session := DeriveSession("sess-2", info, "SA", 45)

	require.Equal(t, StepBusinessModel, session.CurrentStep)
	require.Equal(t, []string{StepBusinessIdea, StepMarketAnalysis}, session.CompletedSteps)
	require.Equal(t, SessionStatusActive, session.Status)
	require.True(t, session.CollectedData["targetMarket"])
	require.False(t, session.CollectedData["businessModel"])
}

func TestDeriveSessionGapStopsProgress(t *testing.T) {
	// A later stage being covered does not skip an earlier incomplete one.
	info := BusinessInformation{
		BusinessIdea:         true,
		FinancialProjections: true,
	}
	session := DeriveSession("sess-3", info, "", 30)

	require.Equal(t, StepMarketAnalysis, session.CurrentStep)
	require.Equal(t, []string{StepBusinessIdea}, session.CompletedSteps)
}

func TestDeriveSessionComplete(t *testing.T) {
	info := BusinessInformation{
		BusinessName: true, BusinessIdea: true, TargetMarket: true, Industry: true,
		Location: true, BusinessModel: true, Competitors: true, FinancialProjections: true,
		MarketingStrategy: true, OperationalPlan: true, RiskAssessment: true, LegalRequirements: true,
	}
	session := DeriveSession("sess-4", info, "SA", 95)

	require.Equal(t, StepDocumentGeneration, session.CurrentStep)
	require.Len(t, session.CompletedSteps, 6)
	require.Equal(t, SessionStatusCompleted, session.Status)
}

func TestIsValidDocumentType(t *testing.T) {
	for _, dt := range DocumentTypes {
		require.True(t, IsValidDocumentType(dt))
	}
	require.False(t, IsValidDocumentType("brd"))
	require.False(t, IsValidDocumentType("Resume"))
	require.False(t, IsValidDocumentType(""))
}
