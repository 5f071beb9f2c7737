package visit

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"renthome/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

type scheduleVisitRequest struct {
	ListingID   int64     `json:"listing_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

type submitDecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Notes    string `json:"notes"`
	// Party is honored for staff/admin override only
	Party string `json:"party"`
}

// Schedule godoc
// @Summary Schedule a visit to a listing (tenant only)
// @Tags Visits
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body scheduleVisitRequest true "Listing and time"
// @Success 201 {object} map[string]interface{}
// @Router /visits [post]
func (h *Handler) Schedule(c *gin.Context) {
	tenantID := c.GetInt64("user_id")

	var req scheduleVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	v, err := h.engine.Schedule(c.Request.Context(), tenantID, req.ListingID, req.ScheduledAt)
	if err != nil {
		if errors.Is(err, ErrListingInactive) {
			response.Error(c, http.StatusConflict, "LISTING_INACTIVE", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "SCHEDULE_FAILED", "Failed to schedule visit")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"visit": v})
}

// List godoc
// @Summary List my visits (either side)
// @Tags Visits
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /visits [get]
func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")

	visits, err := h.engine.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list visits")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visits": visits})
}

// Get godoc
// @Summary Get one visit
// @Tags Visits
// @Security BearerAuth
// @Produce json
// @Param id path int true "Visit ID"
// @Success 200 {object} map[string]interface{}
// @Router /visits/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	v, ok := h.loadVisit(c)
	if !ok {
		return
	}
	if _, isParty := v.PartyOf(userID); !isParty && role != "staff" && role != "admin" {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", ErrNotVisitParty.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visit": v})
}

// Complete godoc
// @Summary Mark a visit completed (owner or staff)
// @Tags Visits
// @Security BearerAuth
// @Produce json
// @Param id path int true "Visit ID"
// @Success 200 {object} map[string]interface{}
// @Router /visits/{id}/complete [post]
func (h *Handler) Complete(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	v, ok := h.loadVisit(c)
	if !ok {
		return
	}
	if v.OwnerID != userID && role != "staff" && role != "admin" {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the owner or staff can complete a visit")
		return
	}

	updated, err := h.engine.Complete(c.Request.Context(), v.ID)
	if err != nil {
		h.transitionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visit": updated})
}

// Cancel godoc
// @Summary Cancel a scheduled visit (either party or staff)
// @Tags Visits
// @Security BearerAuth
// @Produce json
// @Param id path int true "Visit ID"
// @Success 200 {object} map[string]interface{}
// @Router /visits/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	v, ok := h.loadVisit(c)
	if !ok {
		return
	}
	if _, isParty := v.PartyOf(userID); !isParty && role != "staff" && role != "admin" {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", ErrNotVisitParty.Error())
		return
	}

	updated, err := h.engine.Cancel(c.Request.Context(), v.ID)
	if err != nil {
		h.transitionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visit": updated})
}

// SubmitDecision godoc
// @Summary Submit my interest decision for a visit
// @Tags Visits
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Visit ID"
// @Param body body submitDecisionRequest true "Decision"
// @Success 200 {object} map[string]interface{}
// @Router /visits/{id}/decision [post]
func (h *Handler) SubmitDecision(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid visit ID")
		return
	}

	var req submitDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	v, err := h.engine.SubmitDecision(c.Request.Context(), id, userID, role, Party(req.Party), Decision(req.Decision), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrVisitNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, ErrNotVisitParty):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
		case errors.Is(err, ErrInvalidDecision), errors.Is(err, ErrInvalidParty):
			response.Error(c, http.StatusBadRequest, "INVALID_DECISION", err.Error())
		case errors.Is(err, ErrVisitCancelled):
			response.Error(c, http.StatusConflict, "VISIT_CANCELLED", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "DECISION_FAILED", "Failed to submit decision")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visit": v})
}

func (h *Handler) loadVisit(c *gin.Context) (*Visit, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid visit ID")
		return nil, false
	}

	v, err := h.engine.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrVisitNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return nil, false
		}
		response.Error(c, http.StatusInternalServerError, "GET_FAILED", "Failed to load visit")
		return nil, false
	}
	return v, true
}

func (h *Handler) transitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrVisitNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotScheduled):
		response.Error(c, http.StatusConflict, "NOT_SCHEDULED", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "TRANSITION_FAILED", "Failed to update visit")
	}
}
