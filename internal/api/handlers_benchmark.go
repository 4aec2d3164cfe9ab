package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camayank/transfer-pricing-platform/internal/benchmark"
)

func (s *Server) handleComparableSearch(c *gin.Context) {
	var criteria benchmark.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	universe, err := s.comparables.ListComparables(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to load comparables universe")
		return
	}

	result := benchmark.SearchComparables(universe, criteria)

	s.eventBus.PublishComparableSearch(result.TotalFound, result.AppliedFilters)
	successResponse(c, result)
}

// analyzeRequest runs a search and benchmarks the filtered set in one call.
type analyzeRequest struct {
	Criteria       benchmark.SearchCriteria `json:"criteria"`
	PLIType        benchmark.PLIType        `json:"pliType"`
	TestedPartyPLI *float64                 `json:"testedPartyPli,omitempty"`
}

type analyzeResponse struct {
	Search    *benchmark.SearchResult    `json:"search"`
	Benchmark *benchmark.BenchmarkingSet `json:"benchmark"`
}

func (s *Server) handleBenchmarkAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.PLIType == "" {
		errorResponse(c, http.StatusBadRequest, "pliType is required")
		return
	}

	universe, err := s.comparables.ListComparables(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to load comparables universe")
		return
	}

	// Pagination is ignored for analysis: the benchmark set is computed
	// over the full filtered list, not one page of it.
	criteria := req.Criteria
	criteria.Offset = 0
	criteria.Limit = 0

	search := benchmark.SearchComparables(universe, criteria)

	set, err := benchmark.CalculateBenchmarkingSet(search.Companies, req.PLIType, req.TestedPartyPLI)
	if err != nil {
		s.engineError(c, err)
		return
	}

	s.eventBus.PublishBenchmarkCompleted(
		string(set.PLIType), set.CompanyCount,
		set.Quartile1, set.Median, set.Quartile3,
		string(set.Classification),
	)

	successResponse(c, analyzeResponse{Search: search, Benchmark: set})
}
