package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drivedesk/drivedesk-api/internal/models"
	"github.com/drivedesk/drivedesk-api/internal/service"
	appErrors "github.com/drivedesk/drivedesk-api/pkg/errors"
	"github.com/drivedesk/drivedesk-api/pkg/response"
)

// BlockedSlotHandler handles instructor unavailability endpoints.
type BlockedSlotHandler struct {
	service *service.BlockedSlotService
}

// NewBlockedSlotHandler creates a new blocked slot handler.
func NewBlockedSlotHandler(svc *service.BlockedSlotService) *BlockedSlotHandler {
	return &BlockedSlotHandler{service: svc}
}

// instructorScope resolves whose blocked slots are addressed: instructors act
// on their own calendar, admins may pass an explicit instructor_id.
func instructorScope(c *gin.Context) (string, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return "", appErrors.ErrUnauthorized
	}
	if claims.Role == models.RoleAdmin {
		if id := c.Query("instructor_id"); id != "" {
			return id, nil
		}
	}
	return claims.UserID, nil
}

// List godoc
// @Summary List blocked slots
// @Description List blocked slots of the calling instructor
// @Tags BlockedSlots
// @Produce json
// @Param instructor_id query string false "Instructor ID (admin only)"
// @Success 200 {object} response.Envelope
// @Router /blocked-slots [get]
func (h *BlockedSlotHandler) List(c *gin.Context) {
	instructorID, err := instructorScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	slots, err := h.service.ListForInstructor(c.Request.Context(), instructorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, slots, nil)
}

// Create godoc
// @Summary Create blocked slot
// @Description Block a period in the instructor's calendar, optionally recurring
// @Tags BlockedSlots
// @Accept json
// @Produce json
// @Param payload body service.BlockedSlotRequest true "Blocked slot payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /blocked-slots [post]
func (h *BlockedSlotHandler) Create(c *gin.Context) {
	instructorID, err := instructorScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.BlockedSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	slot, err := h.service.Create(c.Request.Context(), instructorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, slot)
}

// Update godoc
// @Summary Update blocked slot
// @Description Update name, period or recurrence of a blocked slot
// @Tags BlockedSlots
// @Accept json
// @Produce json
// @Param id path string true "Blocked slot ID"
// @Param payload body service.BlockedSlotRequest true "Blocked slot payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /blocked-slots/{id} [put]
func (h *BlockedSlotHandler) Update(c *gin.Context) {
	var req service.BlockedSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	slot, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, slot, nil)
}

// Delete godoc
// @Summary Delete blocked slot
// @Description Remove a blocked slot from the calendar
// @Tags BlockedSlots
// @Produce json
// @Param id path string true "Blocked slot ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /blocked-slots/{id} [delete]
func (h *BlockedSlotHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
