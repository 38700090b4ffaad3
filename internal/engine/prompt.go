package engine

import (
	"fmt"
	"strings"

	"colloquy.app/server/common/llm"
	"colloquy.app/server/internal/model"
)

const analysisSystemPrompt = `You are a truth-assessment analyst for a multi-party AI conversation platform.

You evaluate one message at a time across three dimensions:
- reliability: does the message make trustworthy, well-grounded claims?
- accuracy: are the factual claims correct against general knowledge and the supplied documents?
- consistency: does the message agree with the prior conversation context?

Score each dimension from 0.0 (worst) to 1.0 (best). The overall score is your holistic judgment, not a mechanical average. Report confidence_level as your certainty in the assessment itself.

When you find specific problems, report them as issues with the exact excerpt (claim_text) and surrounding context so they can be located in the message. Classify each as one of: factual_error, internal_inconsistency, unsupported_claim, misleading_statement, outdated_information.

When a dimension score falls below the alert threshold you are given, or an issue is critical, emit an alert describing what requires attention.

Respond with a single JSON object and nothing else. No markdown fences, no commentary. The JSON must conform to this schema:

%s`

// assessmentResponse is the wire shape the capability is asked to
// produce. Scores arrive unclamped; parseResult normalizes them.
type assessmentResponse struct {
	OverallScore     float64         `json:"overall_score" jsonschema:"required,description=Holistic truthfulness score from 0.0 to 1.0"`
	ReliabilityScore float64         `json:"reliability_score" jsonschema:"required"`
	AccuracyScore    float64         `json:"accuracy_score" jsonschema:"required"`
	ConsistencyScore float64         `json:"consistency_score" jsonschema:"required"`
	ConfidenceLevel  float64         `json:"confidence_level" jsonschema:"required,description=Certainty in this assessment from 0.0 to 1.0"`
	Analysis         string          `json:"analysis" jsonschema:"required,description=Narrative explanation of the assessment"`
	Methodology      string          `json:"methodology,omitempty"`
	Issues           []issueResponse `json:"issues,omitempty"`
	Alerts           []alertResponse `json:"alerts,omitempty"`
}

type issueResponse struct {
	Type            string  `json:"type" jsonschema:"required,enum=factual_error,enum=internal_inconsistency,enum=unsupported_claim,enum=misleading_statement,enum=outdated_information"`
	Severity        string  `json:"severity" jsonschema:"required,enum=low,enum=medium,enum=high,enum=critical"`
	Title           string  `json:"title" jsonschema:"required,description=Short label for the issue"`
	Description     string  `json:"description" jsonschema:"required"`
	Explanation     string  `json:"explanation,omitempty"`
	SuggestedAction string  `json:"suggested_action,omitempty"`
	Confidence      float64 `json:"confidence" jsonschema:"required"`
	ClaimText       string  `json:"claim_text,omitempty" jsonschema:"description=Exact excerpt from the message containing the problem"`
	ContextBefore   string  `json:"context_before,omitempty"`
	ContextAfter    string  `json:"context_after,omitempty"`
}

type alertResponse struct {
	Type             string  `json:"type" jsonschema:"required,enum=low_reliability,enum=low_accuracy,enum=low_consistency,enum=critical_issue,enum=threshold_breach"`
	Severity         string  `json:"severity" jsonschema:"required,enum=low,enum=medium,enum=high,enum=critical"`
	Title            string  `json:"title" jsonschema:"required"`
	Message          string  `json:"message" jsonschema:"required"`
	TriggerThreshold float64 `json:"trigger_threshold,omitempty"`
	ActualValue      float64 `json:"actual_value,omitempty"`
	ActionRequired   bool    `json:"action_required,omitempty"`
}

var analysisSchemaJSON = llm.SchemaJSON(assessmentResponse{})

func systemPrompt() string {
	return fmt.Sprintf(analysisSystemPrompt, analysisSchemaJSON)
}

// depthInstruction tells the capability how much effort the requested
// assessment type warrants.
func depthInstruction(t model.AssessmentType) string {
	switch t {
	case model.AssessmentTypeQuick:
		return "Perform a QUICK assessment: surface-level scan for obvious problems. Keep the analysis brief."
	case model.AssessmentTypeDeep:
		return "Perform a DEEP assessment: exhaustive claim-by-claim verification against the context and documents. Examine implicit assumptions as well as explicit claims."
	default:
		return "Perform a COMPREHENSIVE assessment: verify every substantive claim and cross-check against the conversation context."
	}
}

func buildUserPrompt(input Input) string {
	var b strings.Builder

	b.WriteString(depthInstruction(input.AssessmentType))
	b.WriteString(fmt.Sprintf("\nTreat dimension scores below %.2f as alert-worthy.\n\n", input.ScoreThreshold))

	if len(input.Documents) > 0 {
		b.WriteString("# Grounding Documents\n\n")
		for i, doc := range input.Documents {
			b.WriteString(fmt.Sprintf("## Document %d\n\n%s\n\n", i+1, doc))
		}
	}

	if len(input.Context) > 0 {
		b.WriteString("# Conversation Context (oldest first)\n\n")
		for _, m := range input.Context {
			b.WriteString(fmt.Sprintf("[%s] %s: %s\n", m.Type, m.Speaker, m.Content))
		}
		b.WriteString("\n")
	}

	b.WriteString("# Message Under Analysis\n\n")
	b.WriteString(fmt.Sprintf("Type: %s\n\n%s\n", input.MessageType, input.MessageContent))

	return b.String()
}
