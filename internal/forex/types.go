// Package forex resolves currency rates through a tiered fallback chain
// (cache, primary provider, fallback provider, static table), converts
// amounts, and computes period averages for currency-normalized financial
// comparisons.
package forex

import (
	"errors"
	"time"
)

// ReferenceCurrency is the triangulation pivot: the static table quotes
// every currency in INR.
const ReferenceCurrency = "INR"

// Errors returned by the rate service
var (
	ErrUnknownCurrency  = errors.New("unknown currency code")
	ErrAllTiersFailed   = errors.New("all rate tiers failed including static table")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// Rate is one resolved currency pair quote.
type Rate struct {
	BaseCurrency  string    `json:"baseCurrency"`
	QuoteCurrency string    `json:"quoteCurrency"`
	Rate          float64   `json:"rate"`
	Date          time.Time `json:"date"`
	Source        string    `json:"source"`
	FetchedAt     time.Time `json:"fetchedAt"`
	// Synthetic marks generated placeholder data (no real historical feed
	// is wired); callers must be able to tell it apart from provider data.
	Synthetic bool `json:"synthetic,omitempty"`
}

// ConversionResult is the outcome of converting an amount between
// currencies.
type ConversionResult struct {
	FromCurrency string    `json:"fromCurrency"`
	ToCurrency   string    `json:"toCurrency"`
	FromAmount   float64   `json:"fromAmount"`
	ToAmount     float64   `json:"toAmount"`
	Rate         float64   `json:"rate"`
	InverseRate  float64   `json:"inverseRate"`
	Source       string    `json:"source"`
	Timestamp    time.Time `json:"timestamp"`
}

// AverageRateQuery asks for period statistics over a currency pair.
type AverageRateQuery struct {
	BaseCurrency  string    `json:"baseCurrency"`
	QuoteCurrency string    `json:"quoteCurrency"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
}

// AverageRateResult carries population statistics over the period's rates.
type AverageRateResult struct {
	BaseCurrency  string  `json:"baseCurrency"`
	QuoteCurrency string  `json:"quoteCurrency"`
	Average       float64 `json:"average"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Volatility    float64 `json:"volatility"` // population standard deviation
	DataPoints    int     `json:"dataPoints"`
	Synthetic     bool    `json:"synthetic,omitempty"`
}
