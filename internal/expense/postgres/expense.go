package postgres

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	categoryDatamodel "budgetbot/internal/core/datamodel/category"
	expenseDatamodel "budgetbot/internal/core/datamodel/expense"
	"budgetbot/internal/expense"
)

// ExpenseRepository implements the expense.Repository interface using GORM.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(exp *expenseDatamodel.Expense) error {
	return r.db.Create(exp).Error
}

// GetCategoryByName matches case-insensitively on the per-user unique name.
func (r *ExpenseRepository) GetCategoryByName(userID int64, name string) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.Where("user_id = ? AND lower(name) = lower(?)", userID, name).First(&cat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *ExpenseRepository) CreateCategory(cat *categoryDatamodel.Category) error {
	return r.db.Create(cat).Error
}

// TotalsByCurrency groups original amounts by their original currency,
// ordered by first use of each currency within the project.
func (r *ExpenseRepository) TotalsByCurrency(projectID int64) ([]expense.CurrencyTotal, error) {
	var totals []expense.CurrencyTotal
	err := r.db.Model(&expenseDatamodel.Expense{}).
		Select("currency_original AS code, SUM(amount_original) AS total").
		Where("project_id = ?", projectID).
		Group("currency_original").
		Order("MIN(id)").
		Scan(&totals).Error
	return totals, err
}

func (r *ExpenseRepository) TotalInReporting(projectID int64) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	row := r.db.Model(&expenseDatamodel.Expense{}).
		Select("SUM(amount_reporting)").
		Where("project_id = ?", projectID).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Decimal{}, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// TotalsByCategory joins category names, substituting fallbackLabel for
// expenses whose category was nulled out.
func (r *ExpenseRepository) TotalsByCategory(projectID int64, fallbackLabel string) ([]expense.CategoryTotal, error) {
	var totals []expense.CategoryTotal
	err := r.db.Model(&expenseDatamodel.Expense{}).
		Select("COALESCE(categories.name, ?) AS name, SUM(expenses.amount_reporting) AS total", fallbackLabel).
		Joins("LEFT JOIN categories ON categories.id = expenses.category_id").
		Where("expenses.project_id = ?", projectID).
		Group("categories.name").
		Scan(&totals).Error
	return totals, err
}
