package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	ratesDatamodel "budgetbot/internal/core/datamodel/rates"
	"budgetbot/internal/rates"
)

// RateRepository implements the rates.Repository cache store using GORM.
type RateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) rates.Repository {
	return &RateRepository{db: db}
}

func (r *RateRepository) Get(code string) (*ratesDatamodel.ExchangeRate, error) {
	var rate ratesDatamodel.ExchangeRate
	err := r.db.Where("currency_code = ?", code).First(&rate).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// Upsert keeps one row per currency, overwriting rate and fetch time on
// conflict.
func (r *RateRepository) Upsert(code string, rate decimal.Decimal, fetchedAt time.Time) error {
	entry := ratesDatamodel.ExchangeRate{
		CurrencyCode:    code,
		RateToReporting: rate,
		FetchedAt:       fetchedAt,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "currency_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate_to_reporting", "fetched_at"}),
	}).Create(&entry).Error
}
