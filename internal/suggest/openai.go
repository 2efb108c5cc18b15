package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/microacademy/tracker/internal/types"
)

// Compile-time interface check
var _ Suggester = (*OpenAI)(nil)

const systemPrompt = `You suggest one small, concrete learning action (a "micro action")
a person can repeat daily. Respond with a single JSON object and nothing else:
{"title": "...", "description": "...", "target": <number of repetitions, 1-30>}`

// CompletionsService defines the interface for making chat completion calls.
// This abstraction enables testing without calling the real OpenAI API.
type CompletionsService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI implements Suggester using OpenAI's chat completions API.
type OpenAI struct {
	completions CompletionsService
	model       openai.ChatModel
}

// NewOpenAI creates a new OpenAI suggestion service.
func NewOpenAI(apiKey, model string) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{
		completions: client.Chat.Completions,
		model:       openai.ChatModel(model),
	}
}

// SuggestGoal asks the model for a goal draft on the given topic.
func (o *OpenAI) SuggestGoal(ctx context.Context, topic string) (*types.NewGoalDraft, error) {
	resp, err := o.completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(topic),
		}),
		Model: openai.F(o.model),
	})
	if err != nil {
		return nil, fmt.Errorf("goal suggestion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("goal suggestion failed: no choices returned")
	}

	draft, err := parseDraft(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("goal suggestion failed: %w", err)
	}
	return draft, nil
}

// parseDraft extracts the JSON draft from the model output, tolerating
// markdown code fences around the object.
func parseDraft(content string) (*types.NewGoalDraft, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var draft types.NewGoalDraft
	if err := json.Unmarshal([]byte(trimmed), &draft); err != nil {
		return nil, fmt.Errorf("unparseable suggestion %q: %w", content, err)
	}
	if draft.Title == "" {
		return nil, fmt.Errorf("suggestion missing title")
	}
	if draft.Target <= 0 {
		draft.Target = 10
	}
	return &draft, nil
}
