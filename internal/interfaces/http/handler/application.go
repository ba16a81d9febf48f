package handler

import (
	"github.com/gin-gonic/gin"
	apptracker "github.com/gradguide/backend/internal/application/tracker"
	"github.com/gradguide/backend/internal/interfaces/http/dto"
	"github.com/gradguide/backend/internal/interfaces/http/middleware"
)

// ApplicationHandler serves the signed-in user's tracked applications
type ApplicationHandler struct {
	BaseHandler
	service *apptracker.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler
func NewApplicationHandler(service *apptracker.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// List godoc
// @ID           listApplications
// @Summary      List my applications
// @Description  Returns the caller's applications, newest first
// @Tags         applications
// @Produce      json
// @Success      200 {object} APIResponse[[]apptracker.ApplicationDTO]
// @Failure      401 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.service.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, apps)
}

// Create godoc
// @ID           createApplication
// @Summary      Track a new application
// @Description  Status defaults to "Applied" and priority to "Medium"
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateApplicationRequest true "Application"
// @Success      201 {object} APIResponse[apptracker.ApplicationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req dto.CreateApplicationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	app, err := h.service.Create(c.Request.Context(), req.ToInput(middleware.GetUserID(c)))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, app)
}

// Update godoc
// @ID           updateApplication
// @Summary      Update an application
// @Description  Merges the supplied fields; omitted fields keep their value
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id      path int                          true "Application ID"
// @Param        request body dto.UpdateApplicationRequest true "Fields to change"
// @Success      200 {object} APIResponse[apptracker.ApplicationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /applications/{id} [put]
func (h *ApplicationHandler) Update(c *gin.Context) {
	var uri dto.ApplicationIDRequest
	if !h.BindURI(c, &uri) {
		return
	}
	var req dto.UpdateApplicationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	app, err := h.service.Update(c.Request.Context(), uri.ID, middleware.GetUserID(c), req.ToPatch())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, app)
}

// Delete godoc
// @ID           deleteApplication
// @Summary      Delete an application
// @Description  Another user's application is reported as not found
// @Tags         applications
// @Produce      json
// @Param        id path int true "Application ID"
// @Success      200 {object} APIResponse[DeletedData]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	var uri dto.ApplicationIDRequest
	if !h.BindURI(c, &uri) {
		return
	}

	removed, err := h.service.Delete(c.Request.Context(), uri.ID, middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !removed {
		h.NotFound(c, "Application not found")
		return
	}
	h.Success(c, DeletedData{ID: uri.ID, Deleted: true})
}
