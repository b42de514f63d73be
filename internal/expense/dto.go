package expense

import "github.com/shopspring/decimal"

// CurrencyTotal is the summed original amount of one currency within a
// project. Slice order follows first use of the currency in the project.
type CurrencyTotal struct {
	Code  string          `json:"code"`
	Total decimal.Decimal `json:"total"`
}

// CategoryTotal is the summed reporting-currency amount of one category.
// Expenses without a category land under the miscellaneous label.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// ProjectTotals is the running summary reported back after every recorded
// expense and in /report.
type ProjectTotals struct {
	ByCurrency     []CurrencyTotal `json:"by_currency"`
	TotalReporting decimal.Decimal `json:"total_reporting"`
}
