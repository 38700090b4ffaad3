package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"colloquy.app/server/internal/model"
)

// parseResult extracts the structured assessment from a completion.
// Models occasionally wrap JSON in markdown fences despite instructions,
// so fences are stripped before unmarshaling.
func parseResult(text string, input Input) (*Result, error) {
	raw := stripFences(text)
	if raw == "" {
		return nil, fmt.Errorf("empty completion")
	}

	var resp assessmentResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal assessment: %w", err)
	}
	if resp.Analysis == "" {
		return nil, fmt.Errorf("assessment missing analysis content")
	}

	result := &Result{
		Assessment: model.TruthAssessment{
			AssessmentType:   input.AssessmentType,
			OverallScore:     clampScore(resp.OverallScore),
			ReliabilityScore: clampScore(resp.ReliabilityScore),
			AccuracyScore:    clampScore(resp.AccuracyScore),
			ConsistencyScore: clampScore(resp.ConsistencyScore),
			ConfidenceLevel:  clampScore(resp.ConfidenceLevel),
			AnalysisContent:  resp.Analysis,
			Methodology:      resp.Methodology,
		},
	}

	for _, iss := range resp.Issues {
		issueType, ok := parseIssueType(iss.Type)
		if !ok {
			continue // unknown classification, drop rather than fail the run
		}
		result.Issues = append(result.Issues, model.DetectedIssue{
			IssueType:       issueType,
			Severity:        parseSeverity(iss.Severity),
			Title:           iss.Title,
			Description:     iss.Description,
			Explanation:     iss.Explanation,
			SuggestedAction: iss.SuggestedAction,
			Confidence:      clampScore(iss.Confidence),
			TextLocation:    iss.ClaimText,
			ContextBefore:   iss.ContextBefore,
			ContextAfter:    iss.ContextAfter,
		})
	}

	for _, al := range resp.Alerts {
		alertType, ok := parseAlertType(al.Type)
		if !ok {
			continue
		}
		result.Alerts = append(result.Alerts, model.TruthAlert{
			AlertType:        alertType,
			Severity:         parseSeverity(al.Severity),
			Title:            al.Title,
			Message:          al.Message,
			TriggerThreshold: al.TriggerThreshold,
			ActualValue:      al.ActualValue,
			IsActionRequired: al.ActionRequired,
		})
	}

	return result, nil
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line ("json", etc.)
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func parseSeverity(s string) model.IssueSeverity {
	switch model.IssueSeverity(strings.ToLower(strings.TrimSpace(s))) {
	case model.IssueSeverityLow:
		return model.IssueSeverityLow
	case model.IssueSeverityHigh:
		return model.IssueSeverityHigh
	case model.IssueSeverityCritical:
		return model.IssueSeverityCritical
	default:
		return model.IssueSeverityMedium
	}
}

func parseIssueType(s string) (model.IssueType, bool) {
	t := model.IssueType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case model.IssueTypeFactualError, model.IssueTypeInconsistency,
		model.IssueTypeUnsupportedClaim, model.IssueTypeMisleadingStatement,
		model.IssueTypeOutdatedInformation:
		return t, true
	}
	return "", false
}

func parseAlertType(s string) (model.AlertType, bool) {
	t := model.AlertType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case model.AlertTypeLowReliability, model.AlertTypeLowAccuracy,
		model.AlertTypeLowConsistency, model.AlertTypeCriticalIssue,
		model.AlertTypeThresholdBreach:
		return t, true
	}
	return "", false
}
