package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camayank/transfer-pricing-platform/internal/penalty"
)

func (s *Server) handlePenaltyExposure(c *gin.Context) {
	var input penalty.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	exposure, err := penalty.Calculate(input)
	if err != nil {
		s.engineError(c, err)
		return
	}

	s.eventBus.PublishPenaltyAssessed(exposure.Minimum, exposure.Maximum, exposure.MostLikely)
	successResponse(c, exposure)
}
