package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appexperience "github.com/gradguide/backend/internal/application/experience"
	"github.com/gradguide/backend/internal/interfaces/http/dto"
	"github.com/gradguide/backend/internal/interfaces/http/middleware"
)

// ReplayedHeader marks a response replayed for a repeated Idempotency-Key
const ReplayedHeader = "Idempotent-Replayed"

// ExperienceHandler serves experience reports and company pages
type ExperienceHandler struct {
	BaseHandler
	service *appexperience.ExperienceService
}

// NewExperienceHandler creates a new ExperienceHandler
func NewExperienceHandler(service *appexperience.ExperienceService) *ExperienceHandler {
	return &ExperienceHandler{service: service}
}

// List godoc
// @ID           listExperiences
// @Summary      List experience reports
// @Description  Filters are optional; search matches company, role and general experience
// @Tags         experiences
// @Produce      json
// @Param        company query string false "Company (case-insensitive)"
// @Param        theme   query string false "Theme"
// @Param        search  query string false "Free text"
// @Success      200 {object} APIResponse[[]appexperience.SubmissionDTO]
// @Failure      400 {object} ErrorResponse
// @Router       /experiences [get]
func (h *ExperienceHandler) List(c *gin.Context) {
	var q dto.ExperienceQuery
	if !h.BindQuery(c, &q) {
		return
	}

	subs, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, subs)
}

// Get godoc
// @ID           getExperience
// @Summary      Get an experience report
// @Tags         experiences
// @Produce      json
// @Param        id path int true "Experience ID"
// @Success      200 {object} APIResponse[appexperience.SubmissionDTO]
// @Failure      404 {object} ErrorResponse
// @Router       /experiences/{id} [get]
func (h *ExperienceHandler) Get(c *gin.Context) {
	var uri dto.ExperienceIDRequest
	if !h.BindURI(c, &uri) {
		return
	}

	sub, err := h.service.Get(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

// Submit godoc
// @ID           submitExperience
// @Summary      Share an experience report
// @Description  A repeated Idempotency-Key returns the first report with status 200
// @Tags         experiences
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string                      false "Client retry key"
// @Param        request         body   dto.SubmitExperienceRequest true  "Report"
// @Success      201 {object} APIResponse[appexperience.SubmissionDTO]
// @Success      200 {object} APIResponse[appexperience.SubmissionDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /experiences [post]
func (h *ExperienceHandler) Submit(c *gin.Context) {
	var req dto.SubmitExperienceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	key := c.GetHeader(dto.IdempotencyKeyHeader)
	sub, replayed, err := h.service.Submit(c.Request.Context(), req.ToInput(middleware.GetUserID(c), key))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if replayed {
		c.Header(ReplayedHeader, "true")
		c.JSON(http.StatusOK, dto.NewSuccessResponse(sub))
		return
	}
	h.Created(c, sub)
}

// ListMine godoc
// @ID           listMyExperiences
// @Summary      List my experience reports
// @Tags         user
// @Produce      json
// @Success      200 {object} APIResponse[[]appexperience.SubmissionDTO]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/experiences [get]
func (h *ExperienceHandler) ListMine(c *gin.Context) {
	subs, err := h.service.ListMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, subs)
}

// Companies godoc
// @ID           listCompanies
// @Summary      List companies
// @Description  One summary per company, most reported first
// @Tags         companies
// @Produce      json
// @Success      200 {object} APIResponse[[]appexperience.CompanySummaryDTO]
// @Failure      502 {object} ErrorResponse
// @Router       /companies [get]
func (h *ExperienceHandler) Companies(c *gin.Context) {
	companies, err := h.service.Companies(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, companies)
}

// Company godoc
// @ID           getCompany
// @Summary      Get a company page
// @Description  company is null when nobody has reported on it
// @Tags         companies
// @Produce      json
// @Param        name path string true "Company name"
// @Success      200 {object} APIResponse[appexperience.CompanyDetailDTO]
// @Failure      400 {object} ErrorResponse
// @Router       /companies/{name} [get]
func (h *ExperienceHandler) Company(c *gin.Context) {
	var uri dto.CompanyNameRequest
	if !h.BindURI(c, &uri) {
		return
	}

	detail, err := h.service.Company(c.Request.Context(), uri.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}
