package handler

import (
	"github.com/gin-gonic/gin"
	applawmatch "github.com/gradguide/backend/internal/application/lawmatch"
	"github.com/gradguide/backend/internal/interfaces/http/dto"
)

// LawMatchHandler serves the firm matching calculator
type LawMatchHandler struct {
	BaseHandler
	service *applawmatch.Service
}

// NewLawMatchHandler creates a new LawMatchHandler
func NewLawMatchHandler(service *applawmatch.Service) *LawMatchHandler {
	return &LawMatchHandler{service: service}
}

// Match godoc
// @ID           lawMatch
// @Summary      Rank law firms for a university and WAM
// @Description  wam defaults to 70; an unknown university uses the "Other" share
// @Tags         law-match
// @Accept       json
// @Produce      json
// @Param        request body dto.LawMatchRequest true "Query"
// @Success      200 {object} APIResponse[applawmatch.MatchResponseDTO]
// @Failure      400 {object} ErrorResponse
// @Router       /law-match [post]
func (h *LawMatchHandler) Match(c *gin.Context) {
	var req dto.LawMatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Match(c.Request.Context(), req.University, req.WAM)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// FirmData godoc
// @ID           getFirmUniversityData
// @Summary      Graduate intake share per firm and university
// @Tags         law-match
// @Produce      json
// @Success      200 {object} APIResponse[map[string]map[string]int]
// @Router       /firm-university-data [get]
func (h *LawMatchHandler) FirmData(c *gin.Context) {
	h.Success(c, h.service.FirmData())
}
