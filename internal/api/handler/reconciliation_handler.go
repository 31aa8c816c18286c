package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/adhamhusein/mio-super-app/internal/dto"
	"github.com/adhamhusein/mio-super-app/internal/service"
	"github.com/adhamhusein/mio-super-app/pkg/response"
)

// ReconciliationHandler serves hour-meter corrections, shift reassignment
// and the validation views.
type ReconciliationHandler struct {
	svc service.ReconciliationService
}

// NewReconciliationHandler creates a ReconciliationHandler.
func NewReconciliationHandler(svc service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{svc: svc}
}

// UpdateHM corrects the hour meter of the selected row.
// POST /api/timesheet/update-hm
func (h *ReconciliationHandler) UpdateHM(c *gin.Context) {
	h.applyCorrection(c, h.svc.UpdateHM, "hour meter updated")
}

// ValidateData marks the selected row as checked without changing it.
// POST /api/timesheet/valid-data
func (h *ReconciliationHandler) ValidateData(c *gin.Context) {
	h.applyCorrection(c, h.svc.ValidateData, "data validated")
}

// UpdateNextHM corrects the hour meter of the following row.
// POST /api/timesheet/update-next-hm
func (h *ReconciliationHandler) UpdateNextHM(c *gin.Context) {
	h.applyCorrection(c, h.svc.UpdateNextHM, "next hour meter updated")
}

// UpdatePrevHM corrects the hour meter of the preceding row.
// POST /api/timesheet/update-prev-hm
func (h *ReconciliationHandler) UpdatePrevHM(c *gin.Context) {
	h.applyCorrection(c, h.svc.UpdatePrevHM, "previous hour meter updated")
}

// UpdateShift reassigns a trip to a different shift.
// POST /api/timesheet/update-shift
func (h *ReconciliationHandler) UpdateShift(c *gin.Context) {
	actor, ok := MustGetUsername(c)
	if !ok {
		return
	}

	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	if err := h.svc.UpdateShift(c.Request.Context(), &req, actor); err != nil {
		h.handleError(c, err)
		return
	}

	response.OKMessage(c, "shift updated successfully")
}

// RealtimeValidation renders the step-3 reconciliation view for the
// current wizard selection.
// GET /api/timesheet/step3
func (h *ReconciliationHandler) RealtimeValidation(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	view, err := h.svc.RealtimeValidation(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, view)
}

// HistoricalLogin lists the login/hour-meter history of one mobile unit.
// GET /api/timesheet/historical-login?mobileid=
func (h *ReconciliationHandler) HistoricalLogin(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	var q dto.HistoricalLoginQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	view, err := h.svc.HistoricalLogin(c.Request.Context(), q.MobileID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, view)
}

func (h *ReconciliationHandler) applyCorrection(
	c *gin.Context,
	apply func(ctx context.Context, req *dto.HMUpdateRequest, actor string) error,
	message string,
) {
	actor, ok := MustGetUsername(c)
	if !ok {
		return
	}

	var req dto.HMUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	if err := apply(c.Request.Context(), &req, actor); err != nil {
		h.handleError(c, err)
		return
	}

	response.OKMessage(c, message)
}

func (h *ReconciliationHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrValidation) {
		response.BadRequest(c, err.Error())
		return
	}
	response.InternalError(c, err.Error())
}
