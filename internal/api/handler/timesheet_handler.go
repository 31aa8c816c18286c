package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/adhamhusein/mio-super-app/internal/dto"
	"github.com/adhamhusein/mio-super-app/internal/service"
	"github.com/adhamhusein/mio-super-app/pkg/response"
)

// TimesheetHandler serves the wizard state endpoints.
type TimesheetHandler struct {
	wizardSvc service.WizardService
	querySvc  service.TripQueryService
}

// NewTimesheetHandler creates a TimesheetHandler.
func NewTimesheetHandler(wizardSvc service.WizardService, querySvc service.TripQueryService) *TimesheetHandler {
	return &TimesheetHandler{wizardSvc: wizardSvc, querySvc: querySvc}
}

// SaveStep1 stores the date/shift/unit-type selection.
// POST /api/timesheet/step1
func (h *TimesheetHandler) SaveStep1(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var state dto.Step1State
	if err := c.ShouldBindJSON(&state); err != nil {
		response.BadRequest(c, "invalid step 1 payload")
		return
	}

	if err := h.wizardSvc.SaveStep1(c.Request.Context(), userID, &state); err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.OKMessage(c, "step 1 data saved")
}

// GetStep1 returns the stored selection, empty defaults when absent.
// GET /api/timesheet/step1
func (h *TimesheetHandler) GetStep1(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	state, err := h.wizardSvc.GetStep1(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.OK(c, state)
}

// SaveStep2 stores the equipment/operator selection and trip working set.
// POST /api/timesheet/step2
func (h *TimesheetHandler) SaveStep2(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var state dto.Step2State
	if err := c.ShouldBindJSON(&state); err != nil {
		response.BadRequest(c, "invalid step 2 payload")
		return
	}

	if err := h.wizardSvc.SaveStep2(c.Request.Context(), userID, &state); err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.OKMessage(c, "step 2 data saved")
}

// GetStep2 returns the stored working set, empty defaults when absent.
// GET /api/timesheet/step2
func (h *TimesheetHandler) GetStep2(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	state, err := h.wizardSvc.GetStep2(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.OK(c, state)
}

// SortTrips re-sorts a posted working set chronologically.
// POST /api/timesheet/sort
func (h *TimesheetHandler) SortTrips(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	var req dto.SortTripsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid trips payload")
		return
	}

	response.OK(c, h.querySvc.SortTrips(req.Trips))
}

// Clear removes both wizard steps.
// POST /api/timesheet/clear
func (h *TimesheetHandler) Clear(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.wizardSvc.Clear(c.Request.Context(), userID); err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.OKMessage(c, "session cleared")
}
