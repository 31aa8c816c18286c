package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/adhamhusein/mio-super-app/internal/dto"
	"github.com/adhamhusein/mio-super-app/internal/model"
	"github.com/adhamhusein/mio-super-app/internal/repository"
)

// TripQueryService plans and aggregates trip retrievals: one store call per
// valid shift code, defensive row mapping, id dedupe, chronological sort.
type TripQueryService interface {
	FetchTrips(ctx context.Context, q *dto.FetchTripsQuery) ([]model.TripRecord, error)
	SortTrips(trips []model.TripRecord) []model.TripRecord
}

type tripQueryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTripQueryService creates a TripQueryService instance.
func NewTripQueryService(repo *repository.Repository, logger *zap.Logger) TripQueryService {
	return &tripQueryService{repo: repo, logger: logger}
}

func (s *tripQueryService) FetchTrips(ctx context.Context, q *dto.FetchTripsQuery) ([]model.TripRecord, error) {
	equipment := strings.TrimSpace(q.Equipment)
	operator := strings.TrimSpace(q.Operator)
	date := strings.TrimSpace(q.Date)
	shiftsRaw := strings.TrimSpace(q.Shifts)

	if equipment == "" || date == "" || shiftsRaw == "" {
		return nil, fmt.Errorf("%w: missing required parameters", ErrValidation)
	}

	// Unknown codes are dropped silently; an empty result after filtering is
	// a caller mistake, not an empty day.
	var shifts []string
	for _, raw := range strings.Split(shiftsRaw, ",") {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if code == "" || !model.IsRetrievalShiftCode(code) {
			continue
		}
		shifts = append(shifts, code)
	}
	if len(shifts) == 0 {
		return nil, fmt.Errorf("%w: at least one valid shift required", ErrValidation)
	}

	// Fail-fast per call: a store failure on any shift aborts the whole
	// fetch, never a partial list.
	var all []model.TripRecord
	for _, shift := range shifts {
		var (
			rows []model.RawRow
			err  error
		)
		if operator != "" {
			rows, err = s.repo.Trip.TripsByUnitNRP(ctx, date, shift, equipment, operator)
		} else {
			rows, err = s.repo.Trip.TripsByUnit(ctx, date, shift, equipment)
		}
		if err != nil {
			s.logger.Error("fetch trips failed",
				zap.String("shift", shift),
				zap.String("equipment", equipment),
				zap.Error(err),
			)
			return nil, err
		}
		for _, row := range rows {
			all = append(all, model.TripFromRow(row))
		}
	}

	// Shift-code calls can overlap; drop repeats of the same persisted id.
	// Rows without an id are always kept.
	seen := make(map[string]bool, len(all))
	deduped := all[:0]
	for _, t := range all {
		if t.ID != "" {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
		}
		deduped = append(deduped, t)
	}

	return s.SortTrips(deduped), nil
}

// SortTrips orders a working set ascending by report time; empty report
// times sort first and ties keep their incoming order.
func (s *tripQueryService) SortTrips(trips []model.TripRecord) []model.TripRecord {
	sorted := make([]model.TripRecord, len(trips))
	copy(sorted, trips)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReportTime < sorted[j].ReportTime
	})
	return sorted
}
