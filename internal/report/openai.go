package report

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"budgetbot/internal"
)

const summarySystemPrompt = `Ты помогаешь кратко и по делу описать структуру расходов пользователя. ` +
	`Не больше 3–4 предложений, без воды, на русском языке.`

// OpenAISummarizer condenses the structured report into a few sentences.
// With no API key configured it quietly produces nothing.
type OpenAISummarizer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewOpenAISummarizer(cfg internal.OpenAIConfig, logger *slog.Logger) *OpenAISummarizer {
	s := &OpenAISummarizer{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
	if cfg.Enabled() {
		s.client = openai.NewClient(cfg.APIKey)
	}
	return s
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, summary *Summary) (string, error) {
	if s.client == nil {
		return "", nil
	}

	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload, err := json.Marshal(summary)
	if err != nil {
		return "", internal.NewInternalError("failed to encode report summary", err)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
	})
	if err != nil {
		return "", internal.NewExternalError("report summary request failed", internal.ErrCodeSemanticParser).WithCause(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
