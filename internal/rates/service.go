// Package rates resolves "units of reporting currency per 1 unit of X" with
// a database-backed cache, a TTL freshness window, and graceful degradation
// when the provider is unreachable.
package rates

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"budgetbot/internal"
	ratesDatamodel "budgetbot/internal/core/datamodel/rates"
)

// Repository is the cache store. Get returns (nil, nil) on a cache miss.
type Repository interface {
	Get(code string) (*ratesDatamodel.ExchangeRate, error)
	Upsert(code string, rate decimal.Decimal, fetchedAt time.Time) error
}

// Provider fetches how many units of symbol one unit of base buys.
type Provider interface {
	FetchRate(ctx context.Context, base, symbol string) (decimal.Decimal, error)
}

var one = decimal.NewFromInt(1)

// Service is the process-wide rate cache. Refreshes are single-flighted per
// currency so concurrent callers share one provider request.
type Service struct {
	repo      Repository
	provider  Provider
	reporting string
	ttl       time.Duration
	timeout   time.Duration
	logger    *slog.Logger

	group singleflight.Group
}

func NewService(repo Repository, provider Provider, cfg internal.RatesConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		provider:  provider,
		reporting: strings.ToUpper(cfg.ReportingCode),
		ttl:       cfg.CacheTTL,
		timeout:   cfg.RequestTimeout,
		logger:    logger,
	}
}

// Reporting returns the reporting currency code totals are displayed in.
func (s *Service) Reporting() string {
	return s.reporting
}

// RateToReporting never fails: conversion must not block expense recording.
// The reporting currency itself is always 1.0 with no I/O; otherwise a
// fresh cached rate is served, a stale or missing one triggers a refresh,
// and on refresh failure a stale value is preferred over the unity
// fallback (serve-stale-on-error).
func (s *Service) RateToReporting(ctx context.Context, code string) decimal.Decimal {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == s.reporting {
		return one
	}

	cached, err := s.repo.Get(code)
	if err != nil {
		s.logger.Error("rate cache read failed", "currency", code, "error", err)
		cached = nil
	}
	if cached != nil && time.Since(cached.FetchedAt) < s.ttl {
		return cached.RateToReporting
	}

	v, _, _ := s.group.Do(code, func() (interface{}, error) {
		return s.refresh(ctx, code, cached), nil
	})
	return v.(decimal.Decimal)
}

func (s *Service) refresh(ctx context.Context, code string, stale *ratesDatamodel.ExchangeRate) decimal.Decimal {
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	rate, err := s.provider.FetchRate(ctx, code, s.reporting)
	if err != nil {
		if stale != nil {
			s.logger.Warn("rate refresh failed, serving stale value",
				"currency", code,
				"stale_age", time.Since(stale.FetchedAt).String(),
				"error", err)
			return stale.RateToReporting
		}
		s.logger.Warn("rate refresh failed with empty cache, falling back to 1.0",
			"currency", code, "error", err)
		return one
	}

	if err := s.repo.Upsert(code, rate, time.Now()); err != nil {
		// The fetched rate is still usable even if caching it failed.
		s.logger.Error("rate cache write failed", "currency", code, "error", err)
	}

	s.logger.Info("exchange rate refreshed", "currency", code, "rate", rate.String())
	return rate
}
