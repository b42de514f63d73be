package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"budgetbot/internal/expense"
)

// ExpenseReader is the slice of the expense service the report needs.
type ExpenseReader interface {
	Totals(projectID int64) (*expense.ProjectTotals, error)
	CategoryTotals(projectID int64) ([]expense.CategoryTotal, error)
}

// Summarizer turns a structured report into a short prose digest.
// Implementations may be unconfigured and return an empty string.
type Summarizer interface {
	Summarize(ctx context.Context, s *Summary) (string, error)
}

// Summary is the structured payload handed to the summarizer.
type Summary struct {
	ProjectName       string            `json:"project_name"`
	TotalsByCurrency  map[string]string `json:"totals_by_currency"`
	Categories        map[string]string `json:"categories_in_reporting"`
	TotalInReporting  string            `json:"total_in_reporting"`
	ReportingCurrency string            `json:"reporting_currency"`
}

type Service struct {
	expenses   ExpenseReader
	summarizer Summarizer
	reporting  string
	logger     *slog.Logger
}

func NewService(expenses ExpenseReader, summarizer Summarizer, reporting string, logger *slog.Logger) *Service {
	return &Service{
		expenses:   expenses,
		summarizer: summarizer,
		reporting:  reporting,
		logger:     logger,
	}
}

// Build renders the project report as Telegram HTML and returns the
// structured payload for the optional prose summary.
func (s *Service) Build(projectID int64, projectName string) (string, *Summary, error) {
	totals, err := s.expenses.Totals(projectID)
	if err != nil {
		return "", nil, err
	}
	catTotals, err := s.expenses.CategoryTotals(projectID)
	if err != nil {
		return "", nil, err
	}

	lines := []string{fmt.Sprintf("Отчёт по проекту <b>«%s»</b>", projectName)}

	if len(totals.ByCurrency) > 0 {
		lines = append(lines, "", "По валютам:")
		for _, t := range totals.ByCurrency {
			lines = append(lines, fmt.Sprintf("• %s: <b>%s</b>", t.Code, pretty(t.Total)))
		}
	}

	if len(catTotals) > 0 {
		lines = append(lines, "", fmt.Sprintf("Разбивка по категориям (в %s):", s.reporting))
		for _, t := range catTotals {
			lines = append(lines, fmt.Sprintf("• %s: <b>%s</b>", capitalize(t.Name), pretty(t.Total)))
		}
	}

	lines = append(lines, "", fmt.Sprintf("Итоговый бюджет в %s: <b>%s %s</b>",
		s.reporting, pretty(totals.TotalReporting), s.reporting))

	summary := &Summary{
		ProjectName:       projectName,
		TotalsByCurrency:  make(map[string]string, len(totals.ByCurrency)),
		Categories:        make(map[string]string, len(catTotals)),
		TotalInReporting:  pretty(totals.TotalReporting),
		ReportingCurrency: s.reporting,
	}
	for _, t := range totals.ByCurrency {
		summary.TotalsByCurrency[t.Code] = pretty(t.Total)
	}
	for _, t := range catTotals {
		summary.Categories[t.Name] = pretty(t.Total)
	}

	return strings.Join(lines, "\n"), summary, nil
}

// Summarize asks the summarizer for a prose digest. Failures degrade to
// an empty string so the report itself always goes out.
func (s *Service) Summarize(ctx context.Context, summary *Summary) string {
	if s.summarizer == nil {
		return ""
	}
	text, err := s.summarizer.Summarize(ctx, summary)
	if err != nil {
		s.logger.Warn("report summary failed", "project", summary.ProjectName, "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

// pretty drops trailing zeros after rounding to cents: 65000.00 reads
// as 65000, 65345.50 as 65345.5.
func pretty(d decimal.Decimal) string {
	return d.Round(2).String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
