package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/adhamhusein/mio-super-app/internal/dto"
	"github.com/adhamhusein/mio-super-app/internal/service"
	"github.com/adhamhusein/mio-super-app/pkg/response"
)

// TripHandler serves trip retrieval and single-record mutations.
type TripHandler struct {
	querySvc    service.TripQueryService
	mutationSvc service.TripMutationService
}

// NewTripHandler creates a TripHandler.
func NewTripHandler(querySvc service.TripQueryService, mutationSvc service.TripMutationService) *TripHandler {
	return &TripHandler{querySvc: querySvc, mutationSvc: mutationSvc}
}

// FetchTrips retrieves trips for equipment/date/shifts, optionally filtered
// by operator.
// GET /api/trips?equipment=&operator=&date=&shifts=S01,S02
func (h *TripHandler) FetchTrips(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	var q dto.FetchTripsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	trips, err := h.querySvc.FetchTrips(c.Request.Context(), &q)
	if err != nil {
		h.handleTripError(c, err)
		return
	}

	response.OK(c, trips)
}

// AddTrip inserts a new trip.
// POST /api/timesheet/add-trip
func (h *TripHandler) AddTrip(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	var req dto.AddTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid trip payload")
		return
	}

	result, err := h.mutationSvc.AddTrip(c.Request.Context(), &req)
	if err != nil {
		h.handleTripError(c, err)
		return
	}

	response.OKMessageData(c, "trip added successfully", result)
}

// UpdateTrip modifies editable fields of one trip.
// POST /api/timesheet/update-trip
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	var req dto.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid trip payload")
		return
	}

	if err := h.mutationSvc.UpdateTrip(c.Request.Context(), &req); err != nil {
		h.handleTripError(c, err)
		return
	}

	response.OKMessage(c, "trip updated successfully")
}

// DeleteTrip soft-deletes one trip.
// POST /api/timesheet/delete-trip
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	var req dto.TripIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid trip payload")
		return
	}

	if err := h.mutationSvc.DeleteTrip(c.Request.Context(), req.ID.String()); err != nil {
		h.handleTripError(c, err)
		return
	}

	response.OKMessage(c, "trip deleted successfully")
}

// RestoreTrip clears the soft-delete flag of one trip.
// POST /api/timesheet/restore-trip
func (h *TripHandler) RestoreTrip(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	var req dto.TripIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid trip payload")
		return
	}

	if err := h.mutationSvc.RestoreTrip(c.Request.Context(), req.ID.String()); err != nil {
		h.handleTripError(c, err)
		return
	}

	response.OKMessage(c, "trip restored successfully")
}

func (h *TripHandler) handleTripError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrValidation) {
		response.BadRequest(c, err.Error())
		return
	}
	response.InternalError(c, err.Error())
}
