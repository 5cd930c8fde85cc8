package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drivedesk/drivedesk-api/internal/service"
	appErrors "github.com/drivedesk/drivedesk-api/pkg/errors"
	"github.com/drivedesk/drivedesk-api/pkg/response"
)

// SettingsHandler handles instructor settings and student profile endpoints.
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// GetInstructorSettings godoc
// @Summary Get instructor settings
// @Description Working window and daily quota caps of an instructor
// @Tags Settings
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instructors/{id}/settings [get]
func (h *SettingsHandler) GetInstructorSettings(c *gin.Context) {
	settings, err := h.service.GetInstructorSettings(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, settings, nil)
}

// PutInstructorSettings godoc
// @Summary Configure instructor
// @Description Create or replace working window and daily quota caps
// @Tags Settings
// @Accept json
// @Produce json
// @Param id path string true "Instructor ID"
// @Param payload body service.InstructorSettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /instructors/{id}/settings [put]
func (h *SettingsHandler) PutInstructorSettings(c *gin.Context) {
	var req service.InstructorSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	settings, err := h.service.PutInstructorSettings(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, settings, nil)
}

// GetStudentProfile godoc
// @Summary Get student profile
// @Description Training phase, assigned instructor and waiting time of a student
// @Tags Settings
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/profile [get]
func (h *SettingsHandler) GetStudentProfile(c *gin.Context) {
	profile, err := h.service.GetStudentProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}

// PutStudentProfile godoc
// @Summary Configure student training
// @Description Create or replace a student's training profile
// @Tags Settings
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.StudentProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/{id}/profile [put]
func (h *SettingsHandler) PutStudentProfile(c *gin.Context) {
	var req service.StudentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	profile, err := h.service.PutStudentProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}
