package planner

// Planning stages, in dialogue order. Derived fresh every turn from the
// coverage flags; the stored snapshot is informational, never authoritative.
const (
	StepBusinessIdea       = "business_idea"
	StepMarketAnalysis     = "market_analysis"
	StepBusinessModel      = "business_model"
	StepFinancialPlanning  = "financial_planning"
	StepOperationsPlan     = "operations_marketing"
	StepRiskAndLegal       = "risk_legal"
	StepDocumentGeneration = "document_generation"
)

// PlanningSteps enumerates the 7 planning stages in order.
var PlanningSteps = []string{
	StepBusinessIdea,
	StepMarketAnalysis,
	StepBusinessModel,
	StepFinancialPlanning,
	StepOperationsPlan,
	StepRiskAndLegal,
	StepDocumentGeneration,
}

// DocumentTypes enumerates the 5 target document types.
var DocumentTypes = []string{
	"BRD",
	"PRD",
	"Business Plan",
	"Feasibility Study",
	"Investor Pitch",
}

// IsValidDocumentType reports whether t is one of the supported documents.
func IsValidDocumentType(t string) bool {
	for _, dt := range DocumentTypes {
		if dt == t {
			return true
		}
	}
	return false
}

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusPaused    SessionStatus = "paused"
	SessionStatusCompleted SessionStatus = "completed"
)

// Session is the ephemeral snapshot of where a planning dialogue stands.
type Session struct {
	ID                string            `json:"id"`
	BusinessIdea      string            `json:"businessIdea,omitempty"`
	Country           string            `json:"country,omitempty"`
	Industry          string            `json:"industry,omitempty"`
	CurrentStep       string            `json:"currentStep"`
	CompletedSteps    []string          `json:"completedSteps"`
	RequiredDocuments []string          `json:"requiredDocuments"`
	CollectedData     map[string]bool   `json:"collectedData"`
	ResearchFindings  []string          `json:"researchFindings"`
	Status            SessionStatus     `json:"status"`
}

// DeriveSession computes the session snapshot for the current turn.
func DeriveSession(id string, info BusinessInformation, country string, confidence int) *Session {
	currentStep, completed := deriveSteps(info)

	status := SessionStatusActive
	if currentStep == StepDocumentGeneration {
		status = SessionStatusCompleted
	}

	return &Session{
		ID:                id,
		Country:           country,
		CurrentStep:       currentStep,
		CompletedSteps:    completed,
		RequiredDocuments: DocumentTypes,
		CollectedData: map[string]bool{
			"businessName":         info.BusinessName,
			"businessIdea":         info.BusinessIdea,
			"targetMarket":         info.TargetMarket,
			"industry":             info.Industry,
			"location":             info.Location,
			"businessModel":        info.BusinessModel,
			"competitors":          info.Competitors,
			"financialProjections": info.FinancialProjections,
			"marketingStrategy":    info.MarketingStrategy,
			"operationalPlan":      info.OperationalPlan,
			"riskAssessment":       info.RiskAssessment,
			"legalRequirements":    info.LegalRequirements,
		},
		ResearchFindings: []string{},
		Status:           status,
	}
}

// deriveSteps walks the stages in order; the first stage whose coverage is
// incomplete becomes the current step, everything before it is completed.
func deriveSteps(info BusinessInformation) (string, []string) {
	stageDone := []struct {
		step string
		done bool
	}{
		{StepBusinessIdea, info.BusinessIdea},
		{StepMarketAnalysis, info.TargetMarket && info.Industry},
		{StepBusinessModel, info.BusinessModel},
		{StepFinancialPlanning, info.FinancialProjections},
		{StepOperationsPlan, info.OperationalPlan && info.MarketingStrategy},
		{StepRiskAndLegal, info.RiskAssessment && info.LegalRequirements},
	}

	completed := []string{}
	for _, stage := range stageDone {
		if !stage.done {
			return stage.step, completed
		}
		completed = append(completed, stage.step)
	}
	return StepDocumentGeneration, completed
}
