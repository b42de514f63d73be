package parser

import "github.com/shopspring/decimal"

// DefaultCategory labels expenses whose text carries no category prefix.
const DefaultCategory = "прочее"

// Draft is an in-memory, not-yet-persisted expense candidate extracted from
// free text. A Draft always carries an amount; Currency is empty when no
// currency token was recognized.
type Draft struct {
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string

	// Confidence is only meaningful for drafts produced by the semantic
	// fallback parser. Heuristic drafts are treated as authoritative and
	// leave it at zero.
	Confidence float64
}
