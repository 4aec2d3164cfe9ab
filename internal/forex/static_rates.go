package forex

import "time"

// staticRatesINR quotes each currency in INR per one unit. Last resort when
// both providers fail; also the triangulation table for cross rates.
var staticRatesINR = map[string]float64{
	"INR": 1.0,
	"USD": 83.25,
	"EUR": 90.10,
	"GBP": 105.45,
	"JPY": 0.5560,
	"AUD": 54.80,
	"CAD": 61.30,
	"CHF": 94.70,
	"SGD": 61.95,
	"AED": 22.67,
	"CNY": 11.52,
	"HKD": 10.65,
}

// StaticRate resolves a pair from the static table. Quote == INR reads the
// table directly, base == INR takes the reciprocal, and any other pair
// triangulates through INR as table[base] / table[quote].
func StaticRate(base, quote string) (*Rate, error) {
	baseINR, ok := staticRatesINR[base]
	if !ok {
		return nil, ErrUnknownCurrency
	}
	quoteINR, ok := staticRatesINR[quote]
	if !ok {
		return nil, ErrUnknownCurrency
	}

	var rate float64
	switch {
	case quote == ReferenceCurrency:
		rate = baseINR
	case base == ReferenceCurrency:
		rate = 1 / quoteINR
	default:
		rate = baseINR / quoteINR
	}

	now := time.Now().UTC()
	return &Rate{
		BaseCurrency:  base,
		QuoteCurrency: quote,
		Rate:          rate,
		Date:          now.Truncate(24 * time.Hour),
		Source:        "static",
		FetchedAt:     now,
	}, nil
}

// SupportedCurrencies lists the codes resolvable from the static table.
func SupportedCurrencies() []string {
	codes := make([]string, 0, len(staticRatesINR))
	for code := range staticRatesINR {
		codes = append(codes, code)
	}
	return codes
}

// IsSupported reports whether a code exists in the static table.
func IsSupported(code string) bool {
	_, ok := staticRatesINR[code]
	return ok
}
