package model

import (
	"strconv"
	"time"
)

// ReportTimeLayout is the naive second-precision form trips are serialized
// with. Report times are never reinterpreted in any timezone.
const ReportTimeLayout = "2006-01-02T15:04:05"

// RecordTypeTrip is the record type soft deletion applies to.
const RecordTypeTrip = "trip"

// Audit remark tags written with every hour-meter correction.
const (
	RemarkHMUpdate     = "hm_update"
	RemarkValid        = "valid"
	RemarkNextHMUpdate = "next_hm_update"
	RemarkPrevHMUpdate = "prev_hm_update"
)

// retrievalShiftCodes is the closed set of shift codes the trip retrieval
// procedures accept. Distinct from the reassignment values below.
var retrievalShiftCodes = map[string]bool{
	"S01": true, "S02": true, "S03": true, "S08": true, "S09": true,
}

// reassignmentShifts is the closed set of values a shift correction may
// assign. Not interchangeable with the retrieval codes.
var reassignmentShifts = map[string]bool{
	"1": true, "2": true, "3": true, "6": true, "7": true,
}

// IsRetrievalShiftCode reports whether code (already normalized) is valid
// for trip retrieval.
func IsRetrievalShiftCode(code string) bool {
	return retrievalShiftCodes[code]
}

// IsReassignmentShift reports whether value is a valid shift reassignment
// target.
func IsReassignmentShift(value string) bool {
	return reassignmentShifts[value]
}

// TripRecord is one telemetry trip row as presented to the dispatcher.
// ReportTime keeps the string form so empty values sort first and round-trips
// preserve the stored second-precision value exactly.
type TripRecord struct {
	ID           string `json:"id"`
	ReportTime   string `json:"reportTime"`
	EquipmentNo  string `json:"equipmentNo"`
	OperatorID   string `json:"operatorId"`
	OperatorName string `json:"operatorName"`
	OprShift     string `json:"oprShift"`
	LoaderID     string `json:"loaderId"`
	PosName      string `json:"posName"`
	Distance     string `json:"distance"`
	Note         string `json:"note"`
	RecordType   string `json:"recordType"`
}

// RawRow is one stored-procedure result row before mapping. Widths vary
// between store variants; columns past the end of a row simply do not exist.
type RawRow []interface{}

// TripFromRow maps a raw procedure row to a TripRecord.
// Expected columns: id, reporttime, mobileid, opr_nrp, opr_username,
// opr_shift, act_loaderid, pos_name, act_hauldistance, is_deleted,
// record_type. Any index beyond the row width, or a NULL value, yields the
// field's default instead of an error.
func TripFromRow(row RawRow) TripRecord {
	t := TripRecord{
		ID:           colString(row, 0),
		ReportTime:   colTime(row, 1),
		EquipmentNo:  colString(row, 2),
		OperatorID:   colString(row, 3),
		OperatorName: colString(row, 4),
		OprShift:     colString(row, 5),
		LoaderID:     colString(row, 6),
		PosName:      colString(row, 7),
		Distance:     colString(row, 8),
		RecordType:   colString(row, 10),
	}
	if t.RecordType == "" {
		t.RecordType = RecordTypeTrip
	}
	if colBool(row, 9) && t.RecordType == RecordTypeTrip {
		t.Note = "deleted"
	}
	return t
}

// colString renders a column as a string, "" for missing or NULL.
func colString(row RawRow, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Time:
		return v.Format(ReportTimeLayout)
	default:
		return ""
	}
}

// colTime renders a timestamp column in ReportTimeLayout, "" for missing
// or NULL.
func colTime(row RawRow, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	if ts, ok := row[i].(time.Time); ok {
		return ts.Format(ReportTimeLayout)
	}
	return colString(row, i)
}

// colBool interprets a soft-delete flag column; missing or NULL is false.
func colBool(row RawRow, i int) bool {
	if i >= len(row) || row[i] == nil {
		return false
	}
	switch v := row[i].(type) {
	case bool:
		return v
	case int64:
		return v == 1
	case int:
		return v == 1
	case string:
		return v == "1"
	case []byte:
		return string(v) == "1"
	default:
		return false
	}
}
