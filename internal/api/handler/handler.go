package handler

import "github.com/adhamhusein/mio-super-app/internal/service"

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth           *AuthHandler
	Timesheet      *TimesheetHandler
	Trip           *TripHandler
	Reconciliation *ReconciliationHandler
	Export         *ExportHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:           NewAuthHandler(svc.Auth),
		Timesheet:      NewTimesheetHandler(svc.Wizard, svc.TripQuery),
		Trip:           NewTripHandler(svc.TripQuery, svc.TripMutation),
		Reconciliation: NewReconciliationHandler(svc.Reconciliation),
		Export:         NewExportHandler(svc.Export),
	}
}
