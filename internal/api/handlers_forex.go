package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/camayank/transfer-pricing-platform/internal/forex"
)

const dateLayout = "2006-01-02"

func currencyParam(c *gin.Context, name string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(c.Query(name)))
	if code == "" {
		errorResponse(c, http.StatusBadRequest, name+" query parameter is required")
		return "", false
	}
	return code, true
}

func (s *Server) handleForexRate(c *gin.Context) {
	base, ok := currencyParam(c, "base")
	if !ok {
		return
	}
	quote, ok := currencyParam(c, "quote")
	if !ok {
		return
	}

	rate, err := s.forexService.GetRate(c.Request.Context(), base, quote)
	if err != nil {
		s.engineError(c, err)
		return
	}

	s.eventBus.PublishRateFetched(base, quote, rate.Rate, rate.Source, rate.Synthetic)
	successResponse(c, rate)
}

type convertRequest struct {
	FromCurrency string  `json:"fromCurrency"`
	ToCurrency   string  `json:"toCurrency"`
	Amount       float64 `json:"amount"`
}

func (s *Server) handleForexConvert(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.FromCurrency == "" || req.ToCurrency == "" {
		errorResponse(c, http.StatusBadRequest, "fromCurrency and toCurrency are required")
		return
	}

	result, err := s.forexService.Convert(
		c.Request.Context(),
		strings.ToUpper(req.FromCurrency),
		strings.ToUpper(req.ToCurrency),
		req.Amount,
	)
	if err != nil {
		s.engineError(c, err)
		return
	}

	s.eventBus.PublishRateFetched(result.FromCurrency, result.ToCurrency, result.Rate, result.Source, false)
	successResponse(c, result)
}

func (s *Server) handleForexHistorical(c *gin.Context) {
	base, ok := currencyParam(c, "base")
	if !ok {
		return
	}
	quote, ok := currencyParam(c, "quote")
	if !ok {
		return
	}

	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "start must be a date in YYYY-MM-DD format")
		return
	}
	end, err := time.Parse(dateLayout, c.Query("end"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "end must be a date in YYYY-MM-DD format")
		return
	}

	rates, err := s.forexService.GetHistoricalRates(c.Request.Context(), base, quote, start, end)
	if err != nil {
		s.engineError(c, err)
		return
	}

	successResponse(c, rates)
}

func (s *Server) handleForexAverage(c *gin.Context) {
	var query forex.AverageRateQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	query.BaseCurrency = strings.ToUpper(query.BaseCurrency)
	query.QuoteCurrency = strings.ToUpper(query.QuoteCurrency)

	result, err := s.forexService.GetAverageRate(c.Request.Context(), query)
	if err != nil {
		s.engineError(c, err)
		return
	}

	successResponse(c, result)
}

func (s *Server) handleForexCurrencies(c *gin.Context) {
	successResponse(c, gin.H{
		"reference":  forex.ReferenceCurrency,
		"currencies": forex.SupportedCurrencies(),
	})
}
