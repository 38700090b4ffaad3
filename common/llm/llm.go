package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Provider constants for LLM provider selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds LLM client configuration.
type Config struct {
	Provider  string // "openai" or "anthropic"
	APIKey    string // Required: API key for the provider
	BaseURL   string // Optional: custom API endpoint
	Model     string // Model name (e.g., "gpt-4o-mini", "claude-sonnet-4-5")
	MaxTokens int
}

// CompletionClient is the opaque language-model capability: given a
// system and user prompt, return a text completion plus token usage.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
	Model() string
}

// CompletionRequest is a single-shot prompt pair.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  *float64
}

// Completion is the capability's response.
type Completion struct {
	Text             string
	FinishReason     string // "stop", "length"
	PromptTokens     int
	CompletionTokens int
}

// ProviderError wraps a failed or unusable provider response.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewCompletionClient creates a CompletionClient for the configured
// provider. Defaults to OpenAI if no provider is specified.
func NewCompletionClient(cfg Config) (CompletionClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	switch provider {
	case ProviderOpenAI:
		return newOpenAIClient(cfg)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// GenerateSchemaFrom generates a JSON schema from an instance value.
// Used to embed the expected response shape into analysis prompts.
func GenerateSchemaFrom(v any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(v)
}

// SchemaJSON renders a generated schema as indented JSON for prompt
// embedding. Falls back to "{}" if marshalling fails.
func SchemaJSON(v any) string {
	data, err := json.MarshalIndent(GenerateSchemaFrom(v), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
