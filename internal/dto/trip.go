package dto

// ── trip retrieval ──

// FetchTripsQuery are the query parameters of GET /api/trips.
// Shifts is a comma-separated list of retrieval shift codes.
type FetchTripsQuery struct {
	Equipment string `form:"equipment"`
	Operator  string `form:"operator"`
	Date      string `form:"date"`
	Shifts    string `form:"shifts"`
}

// ── trip mutations ──

// AddTripRequest inserts a new trip row.
type AddTripRequest struct {
	ReportTime   string     `json:"reportTime"`
	EquipmentNo  string     `json:"equipmentNo"`
	OperatorID   FlexString `json:"operatorId"`
	OperatorName string     `json:"operatorName"`
	OprShift     FlexString `json:"oprShift"`
	LoaderID     FlexString `json:"loaderId"`
	PosName      string     `json:"posName"`
	Distance     FlexString `json:"distance"`
}

// AddTripResponse carries the heuristically recovered identifier; nil when
// the follow-up lookup found nothing.
type AddTripResponse struct {
	ID *string `json:"id"`
}

// UpdateTripRequest modifies editable fields of one trip. Empty optional
// fields pass through to the store as "no change".
type UpdateTripRequest struct {
	ID         FlexString `json:"id"`
	ReportTime string     `json:"reportTime"`
	LoaderID   FlexString `json:"loaderId"`
	PosName    string     `json:"posName"`
	Distance   FlexString `json:"distance"`
}

// TripIDRequest identifies a trip for delete/restore.
type TripIDRequest struct {
	ID FlexString `json:"id"`
}
