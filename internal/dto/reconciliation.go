package dto

// ── hour-meter corrections ──

// HMUpdateRequest covers the four audit-logged HM operations. Exactly one of
// ID / NextID / PrevID is used depending on which record in the chronological
// chain the correction targets; the caller supplies the neighbor context.
type HMUpdateRequest struct {
	ID     FlexString `json:"id"`
	NextID FlexString `json:"next_id"`
	PrevID FlexString `json:"prev_id"`
	OprNRP FlexString `json:"opr_nrp"`
	// Current values, audit context only.
	HM       FlexString `json:"hm"`
	NextHM   FlexString `json:"next_hm"`
	PrevHM   FlexString `json:"prev_hm"`
	NewHM    FlexString `json:"new_hm"`
	OprShift FlexString `json:"opr_shift"`
}

// UpdateShiftRequest reassigns the shift across an adjacent record pair in
// one store call.
type UpdateShiftRequest struct {
	ID             FlexString `json:"id"`
	NextID         FlexString `json:"next_id"`
	ReportTime     string     `json:"reporttime"`
	NextReportTime string     `json:"next_reporttime"`
	MobileID       FlexString `json:"mobileid"`
	OprNRP         FlexString `json:"opr_nrp"`
	HM             FlexString `json:"hm"`
	NextHM         FlexString `json:"next_hm"`
	OprShift       FlexString `json:"opr_shift"`
	NewShift       FlexString `json:"new_shift"`
}

// HistoricalLoginQuery are the query parameters of the login history panel.
type HistoricalLoginQuery struct {
	MobileID string `form:"mobileid"`
}
