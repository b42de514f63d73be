// Package parser extracts expense drafts from single-sentence utterances
// like "отели 65000" or "сувенир 10 юаней". A deterministic heuristic pass
// runs first; a semantic fallback parser is consulted only when the
// heuristics find no amount.
package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"budgetbot/internal/currency"
)

var (
	amountRegex         = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	amountCurrencyRegex = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s+(\S+)`)
)

// Strategy is one extraction heuristic. Strategies are tried in order and
// the first one to produce a draft wins, which keeps the precedence
// testable in isolation.
type Strategy struct {
	Name    string
	Extract func(text string) (*Draft, bool)
}

// Parser runs an ordered list of deterministic extraction strategies.
type Parser struct {
	strategies []Strategy
}

func New() *Parser {
	return &Parser{
		strategies: []Strategy{
			{Name: "amount_with_currency", Extract: extractAmountWithCurrency},
			{Name: "last_amount", Extract: extractLastAmount},
		},
	}
}

// Parse returns a draft when any strategy extracts an amount. The boolean
// is false for empty input or input without a numeric token; that is a
// normal outcome, not an error.
func (p *Parser) Parse(text string) (*Draft, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, false
	}

	for _, strategy := range p.strategies {
		if draft, ok := strategy.Extract(s); ok {
			draft.Description = text
			return draft, true
		}
	}
	return nil, false
}

// extractAmountWithCurrency matches "<number> <token>" where the token
// normalizes to a known currency: "сувенир 10 юаней", "сахар 2 CNY".
// The last such pair in the string wins.
func extractAmountWithCurrency(text string) (*Draft, bool) {
	matches := amountCurrencyRegex.FindAllStringSubmatchIndex(text, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		code, ok := currency.Normalize(text[m[4]:m[5]])
		if !ok {
			continue
		}
		amount, ok := parseAmount(text[m[2]:m[3]])
		if !ok {
			continue
		}
		return &Draft{
			Amount:   amount,
			Currency: code,
			Category: categoryFromPrefix(text[:m[2]]),
		}, true
	}
	return nil, false
}

// extractLastAmount takes the last numeric token in the string: everything
// before it is the category, the first word after it is tried as a currency.
// The numeric match is deliberately unanchored to word boundaries, so
// digits embedded in a word ("5кофе") still match; that leniency is
// intentional best-effort behavior.
func extractLastAmount(text string) (*Draft, bool) {
	locs := amountRegex.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil, false
	}
	last := locs[len(locs)-1]

	amount, ok := parseAmount(text[last[0]:last[1]])
	if !ok {
		return nil, false
	}

	draft := &Draft{
		Amount:   amount,
		Category: categoryFromPrefix(text[:last[0]]),
	}

	suffix := strings.Fields(text[last[1]:])
	if len(suffix) > 0 {
		if code, ok := currency.Normalize(suffix[0]); ok {
			draft.Currency = code
		}
	}
	return draft, true
}

// BackfillCurrency rescans the original text for "<number> <token>" and
// normalizes the token. Used to recover a currency the semantic parser
// omitted; deterministic recovery takes priority over leaving it unset.
func BackfillCurrency(text string) (string, bool) {
	m := amountCurrencyRegex.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return currency.Normalize(m[2])
}

func parseAmount(raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount, true
}

func categoryFromPrefix(prefix string) string {
	category := strings.TrimSpace(prefix)
	category = strings.Trim(category, "•-– ")
	category = strings.TrimSpace(category)
	if category == "" {
		return DefaultCategory
	}
	return category
}
