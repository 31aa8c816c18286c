package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/adhamhusein/mio-super-app/internal/dto"
	"github.com/adhamhusein/mio-super-app/internal/repository"
)

// TripMutationService validates and applies single-record trip mutations.
// Every operation is one store round-trip inside its own transaction; a
// failure leaves no partial write behind.
type TripMutationService interface {
	AddTrip(ctx context.Context, req *dto.AddTripRequest) (*dto.AddTripResponse, error)
	UpdateTrip(ctx context.Context, req *dto.UpdateTripRequest) error
	DeleteTrip(ctx context.Context, id string) error
	RestoreTrip(ctx context.Context, id string) error
}

type tripMutationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTripMutationService creates a TripMutationService instance.
func NewTripMutationService(repo *repository.Repository, logger *zap.Logger) TripMutationService {
	return &tripMutationService{repo: repo, logger: logger}
}

// AddTrip inserts a trip and recovers its generated id by re-querying the
// newest row with the same (reportTime, equipment, operator) key. Known
// limitation: the insert procedure returns nothing, so under concurrent
// inserts with an identical key the recovered id can belong to a sibling
// row. The lookup is best-effort; its failure yields a null id, not an
// operation failure.
func (s *tripMutationService) AddTrip(ctx context.Context, req *dto.AddTripRequest) (*dto.AddTripResponse, error) {
	reportTime := strings.TrimSpace(req.ReportTime)
	equipment := strings.TrimSpace(req.EquipmentNo)
	operator := strings.TrimSpace(req.OperatorID.String())

	if reportTime == "" || equipment == "" || operator == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrValidation)
	}

	ts, err := parseReportTime(reportTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format: %v", ErrValidation, err)
	}

	if err := s.repo.Trip.Insert(ctx, repository.InsertTripParams{
		ReportTime:  ts,
		EquipmentNo: equipment,
		OperatorID:  operator,
		OprShift:    optional(req.OprShift.String()),
		LoaderID:    optional(req.LoaderID.String()),
		PosName:     optional(req.PosName),
		Distance:    optional(req.Distance.String()),
	}); err != nil {
		s.logger.Error("insert trip failed", zap.String("equipment", equipment), zap.Error(err))
		return nil, err
	}

	resp := &dto.AddTripResponse{}
	id, err := s.repo.Trip.LatestIDByKey(ctx, ts, equipment, operator)
	if err != nil {
		s.logger.Warn("recover inserted trip id failed", zap.Error(err))
		return resp, nil
	}
	if id != "" {
		resp.ID = &id
	}
	return resp, nil
}

func (s *tripMutationService) UpdateTrip(ctx context.Context, req *dto.UpdateTripRequest) error {
	id := strings.TrimSpace(req.ID.String())
	if id == "" {
		return fmt.Errorf("%w: missing trip ID", ErrValidation)
	}

	params := repository.ModifyTripParams{
		ID:       id,
		LoaderID: optional(req.LoaderID.String()),
		PosName:  optional(req.PosName),
		Distance: optional(req.Distance.String()),
	}

	if rt := strings.TrimSpace(req.ReportTime); rt != "" {
		ts, err := parseReportTime(rt)
		if err != nil {
			return fmt.Errorf("%w: invalid date format: %v", ErrValidation, err)
		}
		params.ReportTime = &ts
	}

	if err := s.repo.Trip.Modify(ctx, params); err != nil {
		s.logger.Error("modify trip failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// DeleteTrip sets the soft-delete flag. Deleting an already deleted trip is
// indistinguishable from a fresh delete.
func (s *tripMutationService) DeleteTrip(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: missing trip ID", ErrValidation)
	}
	if err := s.repo.Trip.Delete(ctx, id); err != nil {
		s.logger.Error("delete trip failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// RestoreTrip clears the soft-delete flag; idempotent like DeleteTrip.
func (s *tripMutationService) RestoreTrip(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: missing trip ID", ErrValidation)
	}
	if err := s.repo.Trip.Restore(ctx, id); err != nil {
		s.logger.Error("restore trip failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// optional maps "" to NULL for pass-through procedure parameters.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
