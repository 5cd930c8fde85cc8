package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drivedesk/drivedesk-api/internal/models"
	"github.com/drivedesk/drivedesk-api/internal/scheduling"
	"github.com/drivedesk/drivedesk-api/internal/service"
	appErrors "github.com/drivedesk/drivedesk-api/pkg/errors"
	"github.com/drivedesk/drivedesk-api/pkg/response"
)

// AvailabilityHandler exposes disabled days, free slots and slot checks.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// studentScope resolves which student availability is computed for: students
// see their own, admins and instructors pass an explicit student_id.
func studentScope(c *gin.Context) (string, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return "", appErrors.ErrUnauthorized
	}
	if claims.Role == models.RoleStudent {
		return claims.UserID, nil
	}
	if id := c.Query("student_id"); id != "" {
		return id, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "student_id is required")
}

// DisabledDays godoc
// @Summary List disabled days
// @Description Days in the booking window that cannot be booked: weekends, public holidays and out-of-window days
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /availability/disabled-days [get]
func (h *AvailabilityHandler) DisabledDays(c *gin.Context) {
	from, to := h.service.BookingWindow(time.Now())

	days, err := h.service.DisabledDays(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	formatted := make([]string, 0, len(days))
	for _, day := range days {
		formatted = append(formatted, day.Format("2006-01-02"))
	}
	response.JSON(c, http.StatusOK, formatted, nil)
}

// Slots godoc
// @Summary List bookable slots
// @Description Free slots for a student on one day, honoring quotas, blocked ranges and waiting times
// @Tags Availability
// @Produce json
// @Param date query string true "Target day (YYYY-MM-DD)"
// @Param student_id query string false "Student ID (staff only)"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /availability/slots [get]
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	studentID, err := studentScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD"))
		return
	}

	slots, err := h.service.SlotsForDay(c.Request.Context(), studentID, day)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, slots, nil)
}

type checkSlotRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// Check godoc
// @Summary Check slot availability
// @Description Validate one concrete slot for a student: quotas, working hours, blocked ranges and existing lessons
// @Tags Availability
// @Accept json
// @Produce json
// @Param student_id query string false "Student ID (staff only)"
// @Param payload body checkSlotRequest true "Slot to check"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /availability/check [post]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	studentID, err := studentScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req checkSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	check, err := h.service.CheckSlot(c.Request.Context(), studentID, scheduling.TimeRange{Start: req.Start, End: req.End})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, check, nil)
}
