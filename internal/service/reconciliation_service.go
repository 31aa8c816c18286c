package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/adhamhusein/mio-super-app/internal/dto"
	"github.com/adhamhusein/mio-super-app/internal/model"
	"github.com/adhamhusein/mio-super-app/internal/repository"
)

// ReconciliationService implements the hour-meter correction protocol. A
// correction targets one record in a chronological chain — the record itself,
// its next-in-time or previous-in-time neighbor — and lands as one audit row
// tagged with the matching remark. Operator and shift are carried through
// unchanged as audit context; only the hour-meter value moves.
type ReconciliationService interface {
	UpdateHM(ctx context.Context, req *dto.HMUpdateRequest, actor string) error
	ValidateData(ctx context.Context, req *dto.HMUpdateRequest, actor string) error
	UpdateNextHM(ctx context.Context, req *dto.HMUpdateRequest, actor string) error
	UpdatePrevHM(ctx context.Context, req *dto.HMUpdateRequest, actor string) error
	UpdateShift(ctx context.Context, req *dto.UpdateShiftRequest, actor string) error
	RealtimeValidation(ctx context.Context, userID string) (*dto.ValidationView, error)
	HistoricalLogin(ctx context.Context, mobileID string) (*dto.HistoricalLoginView, error)
}

type reconciliationService struct {
	repo     *repository.Repository
	sessions SessionStore
	logger   *zap.Logger
}

// NewReconciliationService creates a ReconciliationService instance.
func NewReconciliationService(repo *repository.Repository, sessions SessionStore, logger *zap.Logger) ReconciliationService {
	return &reconciliationService{repo: repo, sessions: sessions, logger: logger}
}

// UpdateHM corrects the login hour-meter of the record itself.
func (s *reconciliationService) UpdateHM(ctx context.Context, req *dto.HMUpdateRequest, actor string) error {
	return s.applyCorrection(ctx, req.ID.String(), req, req.HM.String(), model.RemarkHMUpdate, actor)
}

// ValidateData marks the record's hour-meter as reviewed without moving it;
// the audit row is the review receipt.
func (s *reconciliationService) ValidateData(ctx context.Context, req *dto.HMUpdateRequest, actor string) error {
	return s.applyCorrection(ctx, req.ID.String(), req, req.HM.String(), model.RemarkValid, actor)
}

// UpdateNextHM corrects the logout hour-meter held by the next record in time.
func (s *reconciliationService) UpdateNextHM(ctx context.Context, req *dto.HMUpdateRequest, actor string) error {
	return s.applyCorrection(ctx, req.NextID.String(), req, req.NextHM.String(), model.RemarkNextHMUpdate, actor)
}

// UpdatePrevHM corrects the logout hour-meter held by the previous record.
func (s *reconciliationService) UpdatePrevHM(ctx context.Context, req *dto.HMUpdateRequest, actor string) error {
	return s.applyCorrection(ctx, req.PrevID.String(), req, req.PrevHM.String(), model.RemarkPrevHMUpdate, actor)
}

func (s *reconciliationService) applyCorrection(ctx context.Context, targetID string, req *dto.HMUpdateRequest, currentHM, remark, actor string) error {
	targetID = strings.TrimSpace(targetID)
	oprNRP := strings.TrimSpace(req.OprNRP.String())
	if targetID == "" || oprNRP == "" {
		return fmt.Errorf("%w: missing required fields", ErrValidation)
	}

	after, err := strconv.ParseFloat(strings.TrimSpace(req.NewHM.String()), 64)
	if err != nil {
		return fmt.Errorf("%w: new_hm must be a number", ErrValidation)
	}

	// The current value is context; when the frontend has none, NULL goes in.
	var before *float64
	if v, perr := strconv.ParseFloat(strings.TrimSpace(currentHM), 64); perr == nil {
		before = &v
	}

	shift := strings.TrimSpace(req.OprShift.String())
	if err := s.repo.Trip.InsertLoginUpdate(ctx, repository.LoginUpdateParams{
		ID:             targetID,
		BeforeOperator: oprNRP,
		AfterOperator:  oprNRP,
		BeforeHM:       before,
		AfterHM:        after,
		BeforeShift:    shift,
		AfterShift:     shift,
		Remark:         remark,
		Actor:          actor,
	}); err != nil {
		s.logger.Error("insert hm correction failed",
			zap.String("id", targetID),
			zap.String("remark", remark),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// UpdateShift reassigns the shift across the adjacent record pair in one
// store call, so a boundary spanning two records moves atomically.
func (s *reconciliationService) UpdateShift(ctx context.Context, req *dto.UpdateShiftRequest, actor string) error {
	id := strings.TrimSpace(req.ID.String())
	newShift := strings.TrimSpace(req.NewShift.String())

	if id == "" {
		return fmt.Errorf("%w: missing trip ID", ErrValidation)
	}
	if !model.IsReassignmentShift(newShift) {
		return fmt.Errorf("%w: invalid shift value %q", ErrValidation, newShift)
	}

	if err := s.repo.Trip.UpdateShift(ctx, repository.UpdateShiftParams{
		ID:             id,
		NextID:         strings.TrimSpace(req.NextID.String()),
		ReportTime:     lenientReportTime(req.ReportTime),
		NextReportTime: lenientReportTime(req.NextReportTime),
		Equipment:      strings.TrimSpace(req.MobileID.String()),
		OperatorID:     strings.TrimSpace(req.OprNRP.String()),
		HM:             lenientFloat(req.HM.String()),
		NextHM:         lenientFloat(req.NextHM.String()),
		OprShift:       strings.TrimSpace(req.OprShift.String()),
		NewShift:       newShift,
	}); err != nil {
		s.logger.Error("update shift failed",
			zap.String("id", id),
			zap.String("new_shift", newShift),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("shift reassigned",
		zap.String("id", id),
		zap.String("new_shift", newShift),
		zap.String("actor", actor),
	)
	return nil
}

// RealtimeValidation builds the step-3 table from the wizard selection: one
// store call per selected valid shift code against the chosen equipment.
func (s *reconciliationService) RealtimeValidation(ctx context.Context, userID string) (*dto.ValidationView, error) {
	var step1 dto.Step1State
	if _, err := s.sessions.GetSession(ctx, userID, sessionKeyStep1, &step1); err != nil {
		return nil, err
	}
	var step2 dto.Step2State
	if _, err := s.sessions.GetSession(ctx, userID, sessionKeyStep2, &step2); err != nil {
		return nil, err
	}

	if step1.SelectedDate == "" || step2.EquipmentNumber == "" {
		return nil, fmt.Errorf("%w: wizard selection incomplete", ErrValidation)
	}

	view := &dto.ValidationView{
		Columns: []string{},
		Rows:    []map[string]interface{}{},
	}
	requested := 0
	for _, raw := range step1.SelectedShifts {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if !model.IsRetrievalShiftCode(code) {
			continue
		}
		requested++
		cols, rows, err := s.repo.Trip.RealtimeValidation(ctx, step1.SelectedDate, code, step2.EquipmentNumber)
		if err != nil {
			s.logger.Error("realtime validation fetch failed", zap.String("shift", code), zap.Error(err))
			return nil, err
		}
		if len(view.Columns) == 0 {
			view.Columns = cols
		}
		view.Rows = append(view.Rows, rows...)
	}
	if requested == 0 {
		return nil, fmt.Errorf("%w: at least one valid shift required", ErrValidation)
	}

	return view, nil
}

func (s *reconciliationService) HistoricalLogin(ctx context.Context, mobileID string) (*dto.HistoricalLoginView, error) {
	mobileID = strings.TrimSpace(mobileID)
	if mobileID == "" {
		return nil, fmt.Errorf("%w: missing mobileid", ErrValidation)
	}

	rows, err := s.repo.Trip.HistoricalLogin(ctx, mobileID)
	if err != nil {
		s.logger.Error("historical login fetch failed", zap.String("mobileid", mobileID), zap.Error(err))
		return nil, err
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	return &dto.HistoricalLoginView{Rows: rows}, nil
}

// lenientFloat parses an hour-meter carried as context; nil when absent or
// malformed.
func lenientFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
