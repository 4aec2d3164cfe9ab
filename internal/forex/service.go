package forex

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// SharedRateCache is an optional cross-instance cache tier (backed by Redis
// in production). A nil implementation is skipped.
type SharedRateCache interface {
	GetRate(ctx context.Context, base, quote string) (*Rate, bool)
	SetRate(ctx context.Context, rate *Rate)
}

// ServiceConfig configures the rate service.
type ServiceConfig struct {
	CacheTTL time.Duration `json:"cache_ttl"`
}

// Service resolves rates through the tier chain: in-memory cache, shared
// cache, primary provider, fallback provider, static table. Each tier is
// attempted only when the prior one errors or misses. The service owns one
// in-memory cache instance; there is no global state.
type Service struct {
	primary  RateSource
	fallback RateSource
	cache    *rateCache
	shared   SharedRateCache
	logger   zerolog.Logger
}

// NewService creates a rate service. Either source may be nil, in which
// case that tier is skipped; the static table always terminates the chain.
func NewService(primary, fallback RateSource, shared SharedRateCache, cfg ServiceConfig, logger zerolog.Logger) *Service {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Service{
		primary:  primary,
		fallback: fallback,
		cache:    newRateCache(ttl),
		shared:   shared,
		logger:   logger.With().Str("component", "forex-service").Logger(),
	}
}

// GetRate resolves one currency pair through the fallback chain.
func (s *Service) GetRate(ctx context.Context, base, quote string) (*Rate, error) {
	if base == quote {
		now := time.Now().UTC()
		return &Rate{
			BaseCurrency:  base,
			QuoteCurrency: quote,
			Rate:          1,
			Date:          now.Truncate(24 * time.Hour),
			Source:        "identity",
			FetchedAt:     now,
		}, nil
	}

	if rate := s.cache.get(base, quote); rate != nil {
		return rate, nil
	}

	if s.shared != nil {
		if rate, ok := s.shared.GetRate(ctx, base, quote); ok {
			s.cache.set(rate)
			return rate, nil
		}
	}

	if s.primary != nil {
		rate, err := s.primary.FetchRate(ctx, base, quote)
		if err == nil {
			s.store(ctx, rate)
			return rate, nil
		}
		s.logger.Warn().Err(err).Str("pair", base+"/"+quote).Msg("primary rate source failed, trying fallback")
	}

	if s.fallback != nil {
		rate, err := s.fallback.FetchRate(ctx, base, quote)
		if err == nil {
			s.store(ctx, rate)
			return rate, nil
		}
		s.logger.Warn().Err(err).Str("pair", base+"/"+quote).Msg("fallback rate source failed, using static table")
	}

	rate, err := StaticRate(base, quote)
	if err != nil {
		return nil, err
	}
	s.store(ctx, rate)
	return rate, nil
}

func (s *Service) store(ctx context.Context, rate *Rate) {
	s.cache.set(rate)
	if s.shared != nil {
		s.shared.SetRate(ctx, rate)
	}
}

// Convert converts an amount between currencies. Unknown currency codes
// fail with a lookup error rather than defaulting.
func (s *Service) Convert(ctx context.Context, base, quote string, amount float64) (*ConversionResult, error) {
	rate, err := s.GetRate(ctx, base, quote)
	if err != nil {
		return nil, err
	}

	inverse := 0.0
	if rate.Rate != 0 {
		inverse = 1 / rate.Rate
	}

	return &ConversionResult{
		FromCurrency: base,
		ToCurrency:   quote,
		FromAmount:   amount,
		ToAmount:     amount * rate.Rate,
		Rate:         rate.Rate,
		InverseRate:  inverse,
		Source:       rate.Source,
		Timestamp:    time.Now().UTC(),
	}, nil
}

// GetHistoricalRates produces one rate per business day in [start, end].
// Providers here serve current quotes only, so the series is generated from
// the current rate with small deterministic variance and flagged Synthetic.
// Wiring a real historical feed replaces generateSyntheticRate.
func (s *Service) GetHistoricalRates(ctx context.Context, base, quote string, start, end time.Time) ([]Rate, error) {
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	current, err := s.GetRate(ctx, base, quote)
	if err != nil {
		return nil, err
	}

	var rates []Rate
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		rates = append(rates, generateSyntheticRate(current, day))
	}
	return rates, nil
}

// generateSyntheticRate derives a placeholder historical quote from the
// current rate with deterministic per-day variance of at most ±2%.
func generateSyntheticRate(current *Rate, day time.Time) Rate {
	// FNV-style hash of the date keeps the series reproducible.
	var h uint64 = 14695981039346656037
	for _, b := range []byte(day.Format("2006-01-02")) {
		h ^= uint64(b)
		h *= 1099511628211
	}
	variance := (float64(h%401) - 200) / 10000 // [-0.02, +0.02]

	return Rate{
		BaseCurrency:  current.BaseCurrency,
		QuoteCurrency: current.QuoteCurrency,
		Rate:          current.Rate * (1 + variance),
		Date:          day,
		Source:        current.Source,
		FetchedAt:     time.Now().UTC(),
		Synthetic:     true,
	}
}

// GetAverageRate computes population mean, min, max and population standard
// deviation ("volatility") over the period's business-day rates.
func (s *Service) GetAverageRate(ctx context.Context, query AverageRateQuery) (*AverageRateResult, error) {
	rates, err := s.GetHistoricalRates(ctx, query.BaseCurrency, query.QuoteCurrency, query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return &AverageRateResult{
			BaseCurrency:  query.BaseCurrency,
			QuoteCurrency: query.QuoteCurrency,
		}, nil
	}

	sum := 0.0
	minRate := rates[0].Rate
	maxRate := rates[0].Rate
	synthetic := false
	for _, r := range rates {
		sum += r.Rate
		if r.Rate < minRate {
			minRate = r.Rate
		}
		if r.Rate > maxRate {
			maxRate = r.Rate
		}
		if r.Synthetic {
			synthetic = true
		}
	}
	mean := sum / float64(len(rates))

	variance := 0.0
	for _, r := range rates {
		d := r.Rate - mean
		variance += d * d
	}
	variance /= float64(len(rates))

	return &AverageRateResult{
		BaseCurrency:  query.BaseCurrency,
		QuoteCurrency: query.QuoteCurrency,
		Average:       mean,
		Min:           minRate,
		Max:           maxRate,
		Volatility:    math.Sqrt(variance),
		DataPoints:    len(rates),
		Synthetic:     synthetic,
	}, nil
}

// CacheStats exposes cache hit/miss counters for the health endpoint.
func (s *Service) CacheStats() (hits, misses int64) {
	return s.cache.stats()
}

// ClearCache drops all cached rates.
func (s *Service) ClearCache() {
	s.cache.clear()
}
