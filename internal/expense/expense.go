package expense

import (
	"time"

	"github.com/shopspring/decimal"

	expenseDatamodel "budgetbot/internal/core/datamodel/expense"
)

// Expense is a recorded expense. Both the original amount/currency and the
// reporting-currency conversion are kept; records are immutable once
// written.
type Expense struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	ProjectID        int64           `json:"project_id"`
	CategoryID       *int64          `json:"category_id,omitempty"`
	CategoryName     string          `json:"category_name"`
	AmountOriginal   decimal.Decimal `json:"amount_original"`
	CurrencyOriginal string          `json:"currency_original"`
	AmountReporting  decimal.Decimal `json:"amount_reporting"`
	Description      string          `json:"description"`
	CreatedAt        time.Time       `json:"created_at"`
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:               e.ID,
		UserID:           e.UserID,
		ProjectID:        e.ProjectID,
		CategoryID:       e.CategoryID,
		AmountOriginal:   e.AmountOriginal,
		CurrencyOriginal: e.CurrencyOriginal,
		AmountReporting:  e.AmountReporting,
		Description:      e.Description,
		CreatedAt:        e.CreatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:               e.ID,
		UserID:           e.UserID,
		ProjectID:        e.ProjectID,
		CategoryID:       e.CategoryID,
		AmountOriginal:   e.AmountOriginal,
		CurrencyOriginal: e.CurrencyOriginal,
		AmountReporting:  e.AmountReporting,
		Description:      e.Description,
		CreatedAt:        e.CreatedAt,
	}
}
