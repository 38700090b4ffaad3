package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"colloquy.app/server/common/llm"
	"colloquy.app/server/common/logger"
	"colloquy.app/server/internal/model"
)

// ErrAnalysisFailed marks a capability call that errored, timed out, or
// returned output that could not be parsed. Never swallowed: the
// orchestrator uses it for status bookkeeping.
var ErrAnalysisFailed = errors.New("analysis failed")

// ContextMessage is one prior message supplied as analysis context,
// ordered chronologically with the message under analysis excluded.
type ContextMessage struct {
	Speaker string
	Type    model.MessageType
	Content string
}

// Input describes one message to analyze.
type Input struct {
	MessageContent string
	MessageType    model.MessageType
	Context        []ContextMessage
	Documents      []string // grounding document text blobs
	AssessmentType model.AssessmentType

	// ScoreThreshold is the score floor the capability is told to treat
	// as alert-worthy.
	ScoreThreshold float64
}

// Result carries the parsed analysis. IDs and ownership links are left
// zero; the orchestrator assigns them when persisting.
type Result struct {
	Assessment model.TruthAssessment
	Issues     []model.DetectedIssue
	Alerts     []model.TruthAlert
}

// Engine analyzes a message for reliability, accuracy, and consistency
// by prompting the language-model capability and parsing its structured
// response.
type Engine interface {
	Analyze(ctx context.Context, input Input) (*Result, error)
}

type engine struct {
	llm llm.CompletionClient
}

func New(client llm.CompletionClient) Engine {
	return &engine{llm: client}
}

func (e *engine) Analyze(ctx context.Context, input Input) (*Result, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "colloquy.engine"})

	if input.MessageContent == "" {
		return nil, fmt.Errorf("%w: empty message content", ErrAnalysisFailed)
	}

	userPrompt := buildUserPrompt(input)

	sc := logger.StartSpan(ctx, "engine.analyze")
	defer sc.End()
	ctx = sc.Context()

	start := time.Now()
	completion, err := e.llm.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt(),
		UserPrompt:   userPrompt,
	})
	elapsed := time.Since(start)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	slog.DebugContext(ctx, "analysis completion received",
		"duration_ms", elapsed.Milliseconds(),
		"prompt_tokens", completion.PromptTokens,
		"completion_tokens", completion.CompletionTokens,
		"finish_reason", completion.FinishReason)

	result, err := parseResult(completion.Text, input)
	if err != nil {
		slog.WarnContext(ctx, "unparseable analysis response",
			"error", err,
			"response", logger.Truncate(completion.Text, 500))
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	result.Assessment.ProcessingTimeMs = elapsed.Milliseconds()
	result.Assessment.CheckedBy = e.llm.Model()

	return result, nil
}
