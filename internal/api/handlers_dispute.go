package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/camayank/transfer-pricing-platform/internal/dispute"
)

func (s *Server) handleDisputeTimeline(c *gin.Context) {
	successResponse(c, dispute.Timeline())
}

type deadlineRequest struct {
	Stage         dispute.Stage `json:"stage"`
	ReferenceDate string        `json:"referenceDate"` // YYYY-MM-DD, date the triggering event occurred
}

type deadlineResponse struct {
	Stage        dispute.Stage   `json:"stage"`
	Deadline     string          `json:"deadline"`
	DeadlineDays int             `json:"deadlineDays"`
	RequiredForm string          `json:"requiredForm,omitempty"`
	NextStages   []dispute.Stage `json:"nextStages"`
	Terminal     bool            `json:"terminal"`
}

func (s *Server) handleDisputeDeadline(c *gin.Context) {
	var req deadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	refDate, err := time.Parse(dateLayout, req.ReferenceDate)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "referenceDate must be a date in YYYY-MM-DD format")
		return
	}

	info, err := dispute.Lookup(req.Stage)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	deadline, err := dispute.CalculateDeadline(refDate, req.Stage)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	s.eventBus.PublishDeadlineComputed(string(req.Stage), deadline)

	successResponse(c, deadlineResponse{
		Stage:        req.Stage,
		Deadline:     deadline.Format(dateLayout),
		DeadlineDays: info.DeadlineDays,
		RequiredForm: info.RequiredForm,
		NextStages:   info.NextStages,
		Terminal:     dispute.IsTerminal(req.Stage),
	})
}

type eligibilityRequest struct {
	Order dispute.Order      `json:"order"`
	Draft dispute.DraftOrder `json:"draft"`
}

func (s *Server) handleDisputeEligibility(c *gin.Context) {
	var req eligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result := dispute.ValidateEligibility(req.Order, req.Draft)

	s.eventBus.PublishEligibilityChecked(result.IsEligible, result.Reasons)
	successResponse(c, result)
}
