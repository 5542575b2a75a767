package planner

import (
	"fmt"
	"strings"
)

// ProjectContext is the optional project block embedded into the prompt
// when the request carries a project id. Loaded best-effort: a missing or
// failed read simply omits the block.
type ProjectContext struct {
	Name          string
	Description   string
	Industry      string
	Stage         string
	Confidence    int
	Summaries     []string // up to 3 prior summaries, newest first
	LatestSession string   // JSON snapshot of the latest planning session
}

// PromptBuilder assembles the language-appropriate consultation prompt.
// Language selection switches the entire text, not just labels.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build renders the full prompt: persona preamble, optional project block,
// conversation transcript, the new user message, and the static planning
// instructions.
func (b *PromptBuilder) Build(history []Turn, userMessage, country string, project *ProjectContext, lang Language) string {
	if lang == LanguageArabic {
		return b.buildArabic(history, userMessage, country, project)
	}
	return b.buildEnglish(history, userMessage, country, project)
}

func (b *PromptBuilder) buildEnglish(history []Turn, userMessage, country string, project *ProjectContext) string {
	var sb strings.Builder

	sb.WriteString("You are an experienced business consultant helping an entrepreneur plan a new venture.\n")
	if isSaudiMarket(country) {
		sb.WriteString("Frame all advice for the Saudi Arabian market: local regulations, Vision 2030 programs, SAR currency, and regional consumer behavior.\n")
	} else {
		sb.WriteString("Frame all advice for a global market unless the user specifies a country.\n")
	}
	sb.WriteString("\n")

	if project != nil {
		sb.WriteString("Project context:\n")
		sb.WriteString(fmt.Sprintf("- Name: %s\n", project.Name))
		if project.Description != "" {
			sb.WriteString(fmt.Sprintf("- Description: %s\n", project.Description))
		}
		if project.Industry != "" {
			sb.WriteString(fmt.Sprintf("- Industry: %s\n", project.Industry))
		}
		if project.Stage != "" {
			sb.WriteString(fmt.Sprintf("- Stage: %s\n", project.Stage))
		}
		sb.WriteString(fmt.Sprintf("- Current confidence: %d%%\n", project.Confidence))
		for _, summary := range project.Summaries {
			sb.WriteString(fmt.Sprintf("- Earlier session: %s\n", summary))
		}
		if project.LatestSession != "" {
			sb.WriteString(fmt.Sprintf("- Latest session data: %s\n", project.LatestSession))
		}
		sb.WriteString("\n")
	}

	if len(history) > 0 {
		sb.WriteString("Conversation so far:\n")
		for _, turn := range history {
			sb.WriteString(fmt.Sprintf("%s: %s\n", transcriptRole(turn.Role, LanguageEnglish), turn.Content))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("User: %s\n\n", userMessage))

	sb.WriteString("Guide the user through the planning stages in order: ")
	sb.WriteString("1) business idea, 2) market analysis, 3) business model, 4) financial planning, ")
	sb.WriteString("5) operations and marketing, 6) risk and legal, 7) document generation.\n")
	sb.WriteString("Ask focused follow-up questions about whichever stage is least covered. ")
	sb.WriteString("When enough information has been gathered, say explicitly that you are ready to generate documents.\n")
	sb.WriteString("The target documents are: BRD, PRD, Business Plan, Feasibility Study, and Investor Pitch.\n")

	return sb.String()
}

func (b *PromptBuilder) buildArabic(history []Turn, userMessage, country string, project *ProjectContext) string {
	var sb strings.Builder

	sb.WriteString("أنت مستشار أعمال خبير تساعد رائد أعمال في التخطيط لمشروع جديد.\n")
	if isSaudiMarket(country) {
		sb.WriteString("قدّم جميع النصائح في سياق السوق السعودي: الأنظمة المحلية، برامج رؤية 2030، الريال السعودي، وسلوك المستهلك في المنطقة.\n")
	} else {
		sb.WriteString("قدّم النصائح في سياق سوق عالمي ما لم يحدد المستخدم دولة معينة.\n")
	}
	sb.WriteString("\n")

	if project != nil {
		sb.WriteString("سياق المشروع:\n")
		sb.WriteString(fmt.Sprintf("- الاسم: %s\n", project.Name))
		if project.Description != "" {
			sb.WriteString(fmt.Sprintf("- الوصف: %s\n", project.Description))
		}
		if project.Industry != "" {
			sb.WriteString(fmt.Sprintf("- القطاع: %s\n", project.Industry))
		}
		if project.Stage != "" {
			sb.WriteString(fmt.Sprintf("- المرحلة: %s\n", project.Stage))
		}
		sb.WriteString(fmt.Sprintf("- نسبة الثقة الحالية: %d%%\n", project.Confidence))
		for _, summary := range project.Summaries {
			sb.WriteString(fmt.Sprintf("- جلسة سابقة: %s\n", summary))
		}
		if project.LatestSession != "" {
			sb.WriteString(fmt.Sprintf("- بيانات آخر جلسة: %s\n", project.LatestSession))
		}
		sb.WriteString("\n")
	}

	if len(history) > 0 {
		sb.WriteString("المحادثة حتى الآن:\n")
		for _, turn := range history {
			sb.WriteString(fmt.Sprintf("%s: %s\n", transcriptRole(turn.Role, LanguageArabic), turn.Content))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("المستخدم: %s\n\n", userMessage))

	sb.WriteString("وجّه المستخدم عبر مراحل التخطيط بالترتيب: ")
	sb.WriteString("1) فكرة المشروع، 2) تحليل السوق، 3) نموذج العمل، 4) التخطيط المالي، ")
	sb.WriteString("5) العمليات والتسويق، 6) المخاطر والمتطلبات القانونية، 7) إنشاء المستندات.\n")
	sb.WriteString("اطرح أسئلة متابعة مركزة عن المرحلة الأقل تغطية. ")
	sb.WriteString("عندما تُجمع معلومات كافية، صرّح بوضوح أنك جاهز لإنشاء المستندات.\n")
	sb.WriteString("المستندات المستهدفة: وثيقة متطلبات العمل BRD، وثيقة متطلبات المنتج PRD، خطة العمل، دراسة الجدوى، والعرض الاستثماري.\n")

	return sb.String()
}

func transcriptRole(role string, lang Language) string {
	r := strings.ToUpper(role)
	if lang == LanguageArabic {
		switch r {
		case "ASSISTANT":
			return "المستشار"
		case "SYSTEM":
			return "النظام"
		default:
			return "المستخدم"
		}
	}
	switch r {
	case "ASSISTANT":
		return "Assistant"
	case "SYSTEM":
		return "System"
	default:
		return "User"
	}
}

func isSaudiMarket(country string) bool {
	c := strings.ToLower(strings.TrimSpace(country))
	return c == "sa" || c == "ksa" || c == "saudi arabia" || c == "saudi" || c == "السعودية"
}

var readinessPhrases = []string{
	"ready to generate",
	"enough information",
	"we can now create",
	"ready to create the documents",
	"جاهز لإنشاء",
	"معلومات كافية",
	"يمكننا الآن إنشاء",
}

// SignalsReadiness reports whether the model's own text claims enough
// information has been gathered. One half of the two-path readiness gate;
// confidence >= 80 bypasses it entirely.
func SignalsReadiness(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range readinessPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// FallbackMessage is returned verbatim when the model call fails. The user
// sees the same generic text whether the failure was transient or an API
// key misconfiguration.
func FallbackMessage(lang Language) string {
	if lang == LanguageArabic {
		return "عذراً، لم أتمكن من معالجة رسالتك الآن. يرجى المحاولة مرة أخرى بعد قليل."
	}
	return "Sorry, I could not process your message right now. Please try again in a moment."
}
