package service

import (
	"strings"
	"time"

	"github.com/adhamhusein/mio-super-app/internal/model"
)

const storeTimeLayout = "2006-01-02 15:04:05"

// parseReportTime accepts the two report-time forms the frontend produces:
// the ISO "T" form, possibly with a subsecond part, or the plain
// "YYYY-MM-DD HH:MM:SS" form. Subseconds are truncated, not rounded. The
// value stays naive; no timezone is attached or inferred.
func parseReportTime(s string) (time.Time, error) {
	if strings.Contains(s, "T") {
		return time.Parse(model.ReportTimeLayout, strings.SplitN(s, ".", 2)[0])
	}
	return time.Parse(storeTimeLayout, s)
}

// lenientReportTime parses like parseReportTime but degrades to nil on
// failure. Shift reconciliation passes timestamps through as audit context,
// so an unparsable one must not fail the whole operation.
func lenientReportTime(s string) *time.Time {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	ts, err := parseReportTime(s)
	if err != nil {
		return nil
	}
	return &ts
}
