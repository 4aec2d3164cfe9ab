package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camayank/transfer-pricing-platform/internal/thincap"
)

// thinCapResponse is the POST /api/thin-cap wire shape.
type thinCapResponse struct {
	Exempt       thincap.Exemption    `json:"exempt"`
	EBITDA       thincap.EBITDAResult `json:"ebitda"`
	Calculation  *thincap.Result      `json:"calculation"`
	Carryforward carryforwardNote     `json:"carryforward"`
	Summary      string               `json:"summary"`
}

// carryforwardNote flags what the current year's disallowance means for
// future years.
type carryforwardNote struct {
	EligibleAmount float64 `json:"eligibleAmount"`
	WindowYears    int     `json:"windowYears"`
	ExpiresAfter   string  `json:"expiresAfter,omitempty"`
}

func (s *Server) handleThinCapCalculate(c *gin.Context) {
	var input thincap.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := s.thinCap.CalculateInterestLimitation(input)
	if err != nil {
		s.engineError(c, err)
		return
	}

	resp := thinCapResponse{
		Exempt:      result.Exemption,
		EBITDA:      result.EBITDA,
		Calculation: result,
	}

	if result.Exemption.IsExempt {
		resp.Summary = fmt.Sprintf(
			"Entity is exempt from Section 94B (%s); no interest limitation applies for %s.",
			result.Exemption.Category, input.AssessmentYear,
		)
	} else {
		resp.Carryforward = carryforwardNote{
			EligibleAmount: result.DisallowedInterest,
			WindowYears:    thincap.CarryforwardWindowYears,
		}
		if result.DisallowedInterest > 0 {
			resp.Summary = fmt.Sprintf(
				"Of INR %.2f interest paid to associated enterprises, INR %.2f is allowable (30%% of EBITDA INR %.2f); INR %.2f is disallowed and eligible for carryforward up to %d years.",
				result.InterestToAE, result.AllowableInterest, result.EBITDA.EBITDA,
				result.DisallowedInterest, thincap.CarryforwardWindowYears,
			)
		} else {
			resp.Summary = fmt.Sprintf(
				"All INR %.2f of AE interest falls within the 30%% EBITDA limit (INR %.2f); no disallowance for %s.",
				result.InterestToAE, result.AllowableInterest, input.AssessmentYear,
			)
		}
	}

	s.eventBus.PublishThinCapCalculated(
		input.AssessmentYear,
		result.EBITDA.EBITDA,
		result.AllowableInterest,
		result.DisallowedInterest,
		result.Exemption.IsExempt,
	)

	successResponse(c, resp)
}

// carryforwardRequest is the PUT /api/thin-cap wire shape.
type carryforwardRequest struct {
	DisallowedInterest       float64   `json:"disallowedInterest"`
	ProjectedEBITDA          []float64 `json:"projectedEBITDA"`
	ProjectedInterestExpense []float64 `json:"projectedInterestExpense"`
	StartingYear             int       `json:"startingYear"`
}

type carryforwardResponse struct {
	Simulation []thincap.CarryforwardYear `json:"simulation"`
	Summary    string                     `json:"summary"`
	Totals     *thincap.CarryforwardResult `json:"totals"`
}

func (s *Server) handleThinCapSimulate(c *gin.Context) {
	var req carryforwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := s.thinCap.SimulateCarryforward(
		req.DisallowedInterest,
		req.ProjectedEBITDA,
		req.ProjectedInterestExpense,
		req.StartingYear,
	)
	if err != nil {
		s.engineError(c, err)
		return
	}

	var summary string
	switch {
	case result.ExpiredAmount == 0 && result.FullyAbsorbedIn > 0:
		summary = fmt.Sprintf(
			"The full INR %.2f is absorbed by projected excess capacity by year %d.",
			result.OriginalDisallowance, result.FullyAbsorbedIn,
		)
	case result.ExpiredAmount > 0:
		summary = fmt.Sprintf(
			"INR %.2f of the INR %.2f disallowance is utilized within the projection; INR %.2f would lapse unabsorbed.",
			result.TotalUtilized, result.OriginalDisallowance, result.ExpiredAmount,
		)
	default:
		summary = "No disallowed interest to carry forward."
	}

	s.eventBus.PublishCarryforwardRun(
		result.OriginalDisallowance,
		result.TotalUtilized,
		result.ExpiredAmount,
		req.StartingYear,
		len(result.Ledger),
	)

	successResponse(c, carryforwardResponse{
		Simulation: result.Ledger,
		Summary:    summary,
		Totals:     result,
	})
}

// handleThinCapReference serves the static reference tables selected by the
// type query parameter.
func (s *Server) handleThinCapReference(c *gin.Context) {
	switch c.Query("type") {
	case "exemptions":
		successResponse(c, thincap.ExemptionReferences())
	case "calculation":
		successResponse(c, thincap.CalculationReferences())
	default:
		errorResponse(c, http.StatusBadRequest, "type must be 'exemptions' or 'calculation'")
	}
}
