package dto

import "github.com/adhamhusein/mio-super-app/internal/model"

// ── wizard state ──

// Step1State is the date/shift/unit-type selection. Stored as-is in the
// session store and echoed back on GET.
type Step1State struct {
	SelectedDate   string   `json:"selectedDate"`
	SelectedShifts []string `json:"selectedShifts"`
	UnitType       string   `json:"unitType"`
}

// Step2State is the equipment/operator selection plus the trip working set.
// History is deliberately never persisted; it is always written back empty.
type Step2State struct {
	EquipmentNumber string             `json:"equipmentNumber"`
	OperatorID      string             `json:"operatorId"`
	Trips           []model.TripRecord `json:"trips"`
	History         []interface{}      `json:"history"`
}

// SortTripsRequest asks for a server-side re-sort of the working set.
type SortTripsRequest struct {
	Trips []model.TripRecord `json:"trips"`
}

// ── step 3 / panels ──

// ValidationView is the realtime HM validation table: column order plus
// loosely-typed rows, exactly as the store's procedure shapes them.
type ValidationView struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// HistoricalLoginView backs the operator login history panel.
type HistoricalLoginView struct {
	Rows []map[string]interface{} `json:"rows"`
}
