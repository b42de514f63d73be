package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense keeps both the original amount/currency and the converted
// reporting-currency amount; the original must stay queryable.
type Expense struct {
	ID               int64           `gorm:"primaryKey"`
	UserID           int64           `gorm:"column:user_id;not null"`
	ProjectID        int64           `gorm:"column:project_id;not null"`
	CategoryID       *int64          `gorm:"column:category_id"`
	AmountOriginal   decimal.Decimal `gorm:"column:amount_original;type:numeric(18,2);not null"`
	CurrencyOriginal string          `gorm:"column:currency_original;type:varchar(3);not null"`
	AmountReporting  decimal.Decimal `gorm:"column:amount_reporting;type:numeric(18,2);not null"`
	Description      string          `gorm:"column:description"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
