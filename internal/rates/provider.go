package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"budgetbot/internal"
)

// HTTPProvider calls an exchangerate.host-style API:
// GET {base_url}?base=CNY&symbols=RUB -> {"rates": {"RUB": 11.43}}.
type HTTPProvider struct {
	baseURL    string
	inverted   bool
	httpClient *http.Client
	logger     *slog.Logger
}

type providerResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func NewHTTPProvider(cfg internal.RatesConfig, logger *slog.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL:  cfg.ProviderURL,
		inverted: cfg.InvertedProvider,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// FetchRate returns units of symbol per 1 unit of base. When the provider's
// convention is the reciprocal (inverted_provider in config), the quote is
// inverted here so callers always see the same direction.
func (p *HTTPProvider) FetchRate(ctx context.Context, base, symbol string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("base", base)
	q.Set("symbols", symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return decimal.Decimal{}, internal.ErrRateProviderFailure.WithCause(err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, internal.ErrRateProviderFailure.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, internal.ErrRateProviderFailure.WithCause(
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Decimal{}, internal.ErrRateProviderFailure.WithCause(err)
	}

	raw, ok := body.Rates[symbol]
	if !ok {
		return decimal.Decimal{}, internal.ErrRateProviderFailure.WithCause(
			fmt.Errorf("no %s rate in response", symbol))
	}
	if raw <= 0 {
		// Zero and negative quotes are provider garbage, never usable.
		return decimal.Decimal{}, internal.ErrRateProviderFailure.WithCause(
			fmt.Errorf("non-positive rate %v for %s", raw, base))
	}

	rate := decimal.NewFromFloat(raw)
	if p.inverted {
		rate = decimal.NewFromInt(1).DivRound(rate, 6)
	}
	return rate, nil
}
