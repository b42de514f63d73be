package parser

import (
	"context"
	"log/slog"

	"budgetbot/internal"
)

// SemanticParser is the remote language-model fallback. Implementations
// must validate the model output at the boundary: a draft is only returned
// when it carries a usable amount.
type SemanticParser interface {
	Parse(ctx context.Context, text string) (*Draft, error)
}

// Resolver reconciles the deterministic parser with the semantic fallback.
type Resolver struct {
	parser   *Parser
	semantic SemanticParser
	logger   *slog.Logger
}

func NewResolver(parser *Parser, semantic SemanticParser, logger *slog.Logger) *Resolver {
	return &Resolver{
		parser:   parser,
		semantic: semantic,
		logger:   logger,
	}
}

// Resolve produces a draft for the utterance or internal.ErrParseFailure.
// The deterministic pass is authoritative when it finds an amount; the
// semantic parser is only consulted otherwise, to avoid its cost and
// latency on the common path.
func (r *Resolver) Resolve(ctx context.Context, text string) (*Draft, error) {
	if draft, ok := r.parser.Parse(text); ok {
		return draft, nil
	}

	if r.semantic == nil {
		return nil, internal.ErrParseFailure
	}

	draft, err := r.semantic.Parse(ctx, text)
	if err != nil {
		// Fallback failure, including missing configuration, is treated
		// identically to "fallback returned nothing".
		r.logger.Warn("semantic parser failed", "error", err)
		return nil, internal.ErrParseFailure
	}
	if draft == nil {
		return nil, internal.ErrParseFailure
	}

	if draft.Currency == "" {
		if code, ok := BackfillCurrency(text); ok {
			r.logger.Debug("backfilled currency from text", "currency", code)
			draft.Currency = code
		}
	}

	if draft.Description == "" {
		draft.Description = text
	}
	if draft.Category == "" {
		draft.Category = DefaultCategory
	}

	return draft, nil
}
