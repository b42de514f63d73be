package expense

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"budgetbot/internal"
	categoryDatamodel "budgetbot/internal/core/datamodel/category"
	expenseDatamodel "budgetbot/internal/core/datamodel/expense"
	projectDatamodel "budgetbot/internal/core/datamodel/project"
	userDatamodel "budgetbot/internal/core/datamodel/user"
	"budgetbot/internal/currency"
	"budgetbot/internal/parser"
)

// Repository defines the data access methods for expenses and their
// categories.
type Repository interface {
	Create(exp *expenseDatamodel.Expense) error
	GetCategoryByName(userID int64, name string) (*categoryDatamodel.Category, error)
	CreateCategory(cat *categoryDatamodel.Category) error
	TotalsByCurrency(projectID int64) ([]CurrencyTotal, error)
	TotalInReporting(projectID int64) (decimal.Decimal, error)
	TotalsByCategory(projectID int64, fallbackLabel string) ([]CategoryTotal, error)
}

// RateResolver converts original amounts into the reporting currency. It
// never fails; degraded modes are handled inside the rates package.
type RateResolver interface {
	RateToReporting(ctx context.Context, code string) decimal.Decimal
	Reporting() string
}

// Service records parsed expenses and computes running totals.
type Service struct {
	repo   Repository
	rates  RateResolver
	logger *slog.Logger
}

func NewService(repo Repository, rates RateResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		rates:  rates,
		logger: logger,
	}
}

// Record persists a draft under the user's active project. The expense
// currency falls back from the draft to the project's base, the user's
// base, and finally the reporting currency; codes outside the supported
// set collapse to the reporting currency as well.
func (s *Service) Record(ctx context.Context, user *userDatamodel.User, project *projectDatamodel.Project, draft *parser.Draft) (*Expense, error) {
	code := s.resolveCurrency(draft.Currency, project, user)

	rate := s.rates.RateToReporting(ctx, code)
	converted := draft.Amount.Mul(rate).Round(2)

	categoryName := strings.ToLower(strings.TrimSpace(draft.Category))
	if categoryName == "" {
		categoryName = parser.DefaultCategory
	}

	cat, err := s.getOrCreateCategory(user.ID, categoryName)
	if err != nil {
		s.logger.Error("failed to resolve category", "error", err, "user_id", user.ID, "category", categoryName)
		return nil, internal.NewInternalError("failed to resolve category", err)
	}

	record := &expenseDatamodel.Expense{
		UserID:           user.ID,
		ProjectID:        project.ID,
		CategoryID:       &cat.ID,
		AmountOriginal:   draft.Amount.Round(2),
		CurrencyOriginal: code,
		AmountReporting:  converted,
		Description:      draft.Description,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", user.ID, "project_id", project.ID)
		return nil, internal.NewInternalError("failed to create expense", err)
	}

	s.logger.Info("expense recorded",
		"expense_id", record.ID,
		"project_id", project.ID,
		"amount", record.AmountOriginal.String(),
		"currency", code,
		"amount_reporting", converted.String(),
		"category", categoryName)

	result := FromDataModel(record)
	result.CategoryName = categoryName
	return result, nil
}

// Totals returns per-currency sums of original amounts plus the grand
// total in the reporting currency, which is zero (never absent) for a
// project without expenses.
func (s *Service) Totals(projectID int64) (*ProjectTotals, error) {
	byCurrency, err := s.repo.TotalsByCurrency(projectID)
	if err != nil {
		s.logger.Error("failed to sum by currency", "error", err, "project_id", projectID)
		return nil, internal.NewInternalError("failed to compute project totals", err)
	}

	total, err := s.repo.TotalInReporting(projectID)
	if err != nil {
		s.logger.Error("failed to sum in reporting currency", "error", err, "project_id", projectID)
		return nil, internal.NewInternalError("failed to compute project totals", err)
	}

	return &ProjectTotals{
		ByCurrency:     byCurrency,
		TotalReporting: total,
	}, nil
}

// CategoryTotals returns reporting-currency sums grouped by category name;
// uncategorized expenses show up under the miscellaneous label.
func (s *Service) CategoryTotals(projectID int64) ([]CategoryTotal, error) {
	totals, err := s.repo.TotalsByCategory(projectID, parser.DefaultCategory)
	if err != nil {
		s.logger.Error("failed to sum by category", "error", err, "project_id", projectID)
		return nil, internal.NewInternalError("failed to compute category totals", err)
	}
	return totals, nil
}

func (s *Service) resolveCurrency(code string, project *projectDatamodel.Project, user *userDatamodel.User) string {
	candidate := strings.ToUpper(strings.TrimSpace(code))
	if candidate == "" {
		candidate = strings.ToUpper(project.BaseCurrency)
	}
	if candidate == "" {
		candidate = strings.ToUpper(user.BaseCurrency)
	}
	// A token like "юаней" can arrive as-is from project or user settings.
	if normalized, ok := currency.Normalize(candidate); ok {
		candidate = normalized
	}
	if !currency.Supported(candidate) {
		candidate = s.rates.Reporting()
	}
	return candidate
}

// getOrCreateCategory is first-write-wins: a losing concurrent insert hits
// the (user_id, name) unique constraint and re-reads the winner's row.
func (s *Service) getOrCreateCategory(userID int64, name string) (*categoryDatamodel.Category, error) {
	cat, err := s.repo.GetCategoryByName(userID, name)
	if err != nil {
		return nil, err
	}
	if cat != nil {
		return cat, nil
	}

	slug := name
	newCat := &categoryDatamodel.Category{
		UserID: &userID,
		Name:   name,
		Slug:   &slug,
	}
	if err := s.repo.CreateCategory(newCat); err != nil {
		existing, getErr := s.repo.GetCategoryByName(userID, name)
		if getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return newCat, nil
}
