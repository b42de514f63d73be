package rates

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores units of the reporting currency per 1 unit of
// CurrencyCode. One row per currency, overwritten on refresh.
type ExchangeRate struct {
	ID              int64           `gorm:"primaryKey"`
	CurrencyCode    string          `gorm:"column:currency_code;type:varchar(3);uniqueIndex;not null"`
	RateToReporting decimal.Decimal `gorm:"column:rate_to_reporting;type:numeric(18,6);not null"`
	FetchedAt       time.Time       `gorm:"column:fetched_at;not null"`
}

func (ExchangeRate) TableName() string {
	return "exchange_rates"
}
