package forex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// RateSource is a pluggable rate provider. Implementations are independent
// structs selected via configuration; there is no provider hierarchy beyond
// interface satisfaction.
type RateSource interface {
	Name() string
	FetchRate(ctx context.Context, base, quote string) (*Rate, error)
	FetchHistoricalRates(ctx context.Context, base, quote string, start, end time.Time) ([]Rate, error)
	TestConnection(ctx context.Context) error
}

// SourceConfig configures one provider connector.
type SourceConfig struct {
	Provider string        `json:"provider"`
	BaseURL  string        `json:"base_url"`
	APIKey   string        `json:"api_key"`
	Timeout  time.Duration `json:"timeout"`
}

// NewSource builds a connector for the configured provider.
func NewSource(cfg SourceConfig, logger zerolog.Logger) (RateSource, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	switch cfg.Provider {
	case "rbi":
		return newRBISource(cfg, logger), nil
	case "exchangerate-host":
		return newExchangeRateHostSource(cfg, logger), nil
	case "":
		return nil, fmt.Errorf("rate provider not configured")
	default:
		return nil, fmt.Errorf("unknown rate provider: %s", cfg.Provider)
	}
}

// ============================================================================
// RBI REFERENCE RATE CONNECTOR (primary)
// ============================================================================

// rbiSource fetches RBI reference rates. Quotes are INR-based, so cross
// pairs are triangulated by the service, not the connector.
type rbiSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

func newRBISource(cfg SourceConfig, logger zerolog.Logger) *rbiSource {
	return &rbiSource{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With().Str("component", "rbi-source").Logger(),
	}
}

func (s *rbiSource) Name() string { return "rbi" }

type rbiRateResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

func (s *rbiSource) FetchRate(ctx context.Context, base, quote string) (*Rate, error) {
	params := url.Values{}
	params.Set("base", base)
	params.Set("symbols", quote)

	var parsed rbiRateResponse
	if err := s.getJSON(ctx, "/v1/latest", params, &parsed); err != nil {
		return nil, err
	}

	value, ok := parsed.Rates[quote]
	if !ok {
		return nil, fmt.Errorf("%w: %s not in provider response", ErrUnknownCurrency, quote)
	}

	date, err := time.Parse("2006-01-02", parsed.Date)
	if err != nil {
		date = time.Now().UTC().Truncate(24 * time.Hour)
	}

	return &Rate{
		BaseCurrency:  base,
		QuoteCurrency: quote,
		Rate:          value,
		Date:          date,
		Source:        s.Name(),
		FetchedAt:     time.Now().UTC(),
	}, nil
}

func (s *rbiSource) FetchHistoricalRates(ctx context.Context, base, quote string, start, end time.Time) ([]Rate, error) {
	// The reference-rate endpoint serves current quotes only.
	return nil, fmt.Errorf("provider %s: historical rates not supported", s.Name())
}

func (s *rbiSource) TestConnection(ctx context.Context) error {
	_, err := s.FetchRate(ctx, "USD", ReferenceCurrency)
	return err
}

func (s *rbiSource) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if s.apiKey != "" {
		params.Set("access_key", s.apiKey)
	}
	endpoint := fmt.Sprintf("%s%s?%s", s.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("error building rate request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error fetching rate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading rate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Warn().Int("status", resp.StatusCode).Msg("rate provider returned non-200")
		return fmt.Errorf("rate provider returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error parsing rate response: %w", err)
	}
	return nil
}

// ============================================================================
// EXCHANGERATE.HOST CONNECTOR (fallback)
// ============================================================================

type exchangeRateHostSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

func newExchangeRateHostSource(cfg SourceConfig, logger zerolog.Logger) *exchangeRateHostSource {
	return &exchangeRateHostSource{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With().Str("component", "exchangerate-host-source").Logger(),
	}
}

func (s *exchangeRateHostSource) Name() string { return "exchangerate-host" }

type erhConvertResponse struct {
	Success bool `json:"success"`
	Info    struct {
		Quote float64 `json:"quote"`
	} `json:"info"`
	Result float64 `json:"result"`
}

func (s *exchangeRateHostSource) FetchRate(ctx context.Context, base, quote string) (*Rate, error) {
	params := url.Values{}
	params.Set("from", base)
	params.Set("to", quote)
	params.Set("amount", "1")
	if s.apiKey != "" {
		params.Set("access_key", s.apiKey)
	}
	endpoint := fmt.Sprintf("%s/convert?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error building rate request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching rate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading rate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Warn().Int("status", resp.StatusCode).Msg("fallback provider returned non-200")
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	var parsed erhConvertResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("error parsing rate response: %w", err)
	}
	if !parsed.Success || parsed.Info.Quote == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownCurrency, base, quote)
	}

	now := time.Now().UTC()
	return &Rate{
		BaseCurrency:  base,
		QuoteCurrency: quote,
		Rate:          parsed.Info.Quote,
		Date:          now.Truncate(24 * time.Hour),
		Source:        s.Name(),
		FetchedAt:     now,
	}, nil
}

func (s *exchangeRateHostSource) FetchHistoricalRates(ctx context.Context, base, quote string, start, end time.Time) ([]Rate, error) {
	return nil, fmt.Errorf("provider %s: historical rates not supported", s.Name())
}

func (s *exchangeRateHostSource) TestConnection(ctx context.Context) error {
	_, err := s.FetchRate(ctx, "USD", ReferenceCurrency)
	return err
}
