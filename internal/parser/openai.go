package parser

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"budgetbot/internal"
)

const parseSystemPrompt = `Ты — парсер финансовых расходов для Telegram-бота. ` +
	`Твоя задача — из обычного текста пользователя вытащить информацию о трате.

Всегда возвращай ЖЁСТКО валидный JSON без пояснений, без текста до и после.
Структура JSON:
{
  "amount": float | null,
  "currency": string | null,
  "category": string | null,
  "description": string,
  "confidence": float
}

Правила:
- Если валюта явно не указана, оставь "currency": null.
- Если сумма не найдена — "amount": null.
- Валюты: рубль -> "RUB", юань -> "CNY", евро -> "EUR", доллар -> "USD", йена -> "JPY".
- "description" всегда равен исходному тексту пользователя без изменений.
- Если данных мало или они противоречивы — ставь низкий "confidence", например 0.3–0.5.

Отвечай ТОЛЬКО JSON-объектом без комментариев и без лишнего текста.`

// semanticResponse mirrors the JSON shape the model is instructed to emit.
// Every field is optional at the boundary; missing or malformed fields must
// never crash reconciliation.
type semanticResponse struct {
	Amount      *float64 `json:"amount"`
	Currency    *string  `json:"currency"`
	Category    *string  `json:"category"`
	Description string   `json:"description"`
	Confidence  float64  `json:"confidence"`
}

// OpenAIParser asks a chat-completion model to extract a draft when the
// deterministic parser found nothing.
type OpenAIParser struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewOpenAIParser(cfg internal.OpenAIConfig, logger *slog.Logger) *OpenAIParser {
	p := &OpenAIParser{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
	if cfg.Enabled() {
		p.client = openai.NewClient(cfg.APIKey)
	}
	return p
}

func (p *OpenAIParser) Parse(ctx context.Context, text string) (*Draft, error) {
	if p.client == nil {
		return nil, internal.ErrSemanticParserUnavailable
	}

	ctx, cancel := internal.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: parseSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Разбери эту трату:\n\nтекст: \"" + text + "\""},
		},
	})
	if err != nil {
		return nil, internal.NewExternalError("semantic parse request failed", internal.ErrCodeSemanticParser).WithCause(err)
	}
	if len(resp.Choices) == 0 {
		return nil, internal.NewExternalError("semantic parser returned no choices", internal.ErrCodeSemanticParser)
	}

	return p.decode(resp.Choices[0].Message.Content, text)
}

// decode validates the model output and defaults every missing field. A nil
// draft with nil error means the model produced no usable amount.
func (p *OpenAIParser) decode(content, text string) (*Draft, error) {
	raw := extractJSON(content)
	if raw == "" {
		p.logger.Warn("no JSON object in semantic parser output")
		return nil, nil
	}

	var sr semanticResponse
	if err := json.Unmarshal([]byte(raw), &sr); err != nil {
		p.logger.Warn("malformed JSON from semantic parser", "error", err)
		return nil, nil
	}

	if sr.Amount == nil || *sr.Amount <= 0 {
		return nil, nil
	}

	draft := &Draft{
		Amount:      decimal.NewFromFloat(*sr.Amount).Round(2),
		Description: text,
		Category:    DefaultCategory,
		Confidence:  sr.Confidence,
	}
	if sr.Currency != nil {
		draft.Currency = strings.ToUpper(strings.TrimSpace(*sr.Currency))
	}
	if sr.Category != nil && strings.TrimSpace(*sr.Category) != "" {
		draft.Category = strings.ToLower(strings.TrimSpace(*sr.Category))
	}
	return draft, nil
}

// extractJSON pulls the first top-level JSON object out of the model reply,
// tolerating prose or code fences around it.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
