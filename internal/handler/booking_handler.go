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

// BookingHandler handles lesson creation endpoints.
type BookingHandler struct {
	service *service.BookingService
	metrics *service.MetricsService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(svc *service.BookingService, metrics *service.MetricsService) *BookingHandler {
	return &BookingHandler{service: svc, metrics: metrics}
}

type bookingRequest struct {
	StudentID string    `json:"student_id"`
	Start     time.Time `json:"start" binding:"required"`
	End       time.Time `json:"end" binding:"required"`
}

func (h *BookingHandler) recordOutcome(err error) {
	switch {
	case err == nil:
		h.metrics.RecordBooking("created")
	case appErrors.FromError(err).Code == appErrors.ErrSlotTaken.Code:
		h.metrics.RecordBooking("slot_taken")
	case appErrors.FromError(err).Code == appErrors.ErrQuotaExhausted.Code:
		h.metrics.RecordBooking("quota_exhausted")
	default:
		h.metrics.RecordBooking("rejected")
	}
}

// Request godoc
// @Summary Request a lesson
// @Description Book a free slot as a student; the lesson awaits instructor confirmation
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body bookingRequest true "Slot to book"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Request(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	studentID := claims.UserID
	slot := scheduling.TimeRange{Start: req.Start, End: req.End}

	var (
		lesson *models.Lesson
		err    error
	)
	if claims.Role == models.RoleStudent {
		lesson, err = h.service.Request(c.Request.Context(), studentID, slot)
	} else {
		// Staff book on behalf of a student; the lesson is confirmed
		// immediately.
		if req.StudentID == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student_id is required"))
			return
		}
		lesson, err = h.service.Book(c.Request.Context(), req.StudentID, slot)
	}
	h.recordOutcome(err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, lesson)
}
