package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drivedesk/drivedesk-api/internal/models"
	"github.com/drivedesk/drivedesk-api/internal/service"
	appErrors "github.com/drivedesk/drivedesk-api/pkg/errors"
	"github.com/drivedesk/drivedesk-api/pkg/response"
)

// ExportHandler serves instructor day-plan downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// DayPlan godoc
// @Summary Export instructor day plan
// @Description Download the chronological day plan of an instructor as CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param date query string true "Target day (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Param instructor_id query string false "Instructor ID (admin only)"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /exports/day-plan [get]
func (h *ExportHandler) DayPlan(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	instructorID := claims.UserID
	if claims.Role == models.RoleAdmin {
		if id := c.Query("instructor_id"); id != "" {
			instructorID = id
		}
	}

	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD"))
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	data, contentType, err := h.service.InstructorDayPlan(c.Request.Context(), instructorID, day, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("day-plan-%s.%s", day.Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, contentType, data)
}
