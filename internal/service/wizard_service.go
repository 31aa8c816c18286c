package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/adhamhusein/mio-super-app/internal/dto"
	"github.com/adhamhusein/mio-super-app/internal/model"
)

// Session keys for the two wizard steps.
const (
	sessionKeyStep1 = "step1"
	sessionKeyStep2 = "step2"
)

const defaultUnitType = "3 Shift"

// WizardService holds the per-dispatcher timesheet wizard state: step 1 is
// the date/shift/unit-type selection, step 2 the equipment/operator selection
// with the trip working set. State lives in the session store only; there is
// no cross-user sharing.
type WizardService interface {
	SaveStep1(ctx context.Context, userID string, state *dto.Step1State) error
	GetStep1(ctx context.Context, userID string) (*dto.Step1State, error)
	SaveStep2(ctx context.Context, userID string, state *dto.Step2State) error
	GetStep2(ctx context.Context, userID string) (*dto.Step2State, error)
	Clear(ctx context.Context, userID string) error
}

type wizardService struct {
	sessions SessionStore
	logger   *zap.Logger
}

// NewWizardService creates a WizardService instance.
func NewWizardService(sessions SessionStore, logger *zap.Logger) WizardService {
	return &wizardService{sessions: sessions, logger: logger}
}

func (s *wizardService) SaveStep1(ctx context.Context, userID string, state *dto.Step1State) error {
	if state.UnitType == "" {
		state.UnitType = defaultUnitType
	}
	if state.SelectedShifts == nil {
		state.SelectedShifts = []string{}
	}
	return s.sessions.SetSession(ctx, userID, sessionKeyStep1, state)
}

func (s *wizardService) GetStep1(ctx context.Context, userID string) (*dto.Step1State, error) {
	state := &dto.Step1State{SelectedShifts: []string{}}
	if _, err := s.sessions.GetSession(ctx, userID, sessionKeyStep1, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *wizardService) SaveStep2(ctx context.Context, userID string, state *dto.Step2State) error {
	if state.Trips == nil {
		state.Trips = []model.TripRecord{}
	}
	// History is recomputed client-side and must never survive a request.
	state.History = []interface{}{}
	return s.sessions.SetSession(ctx, userID, sessionKeyStep2, state)
}

func (s *wizardService) GetStep2(ctx context.Context, userID string) (*dto.Step2State, error) {
	state := &dto.Step2State{
		Trips:   []model.TripRecord{},
		History: []interface{}{},
	}
	if _, err := s.sessions.GetSession(ctx, userID, sessionKeyStep2, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Clear drops both steps; subsequent reads return the empty defaults.
func (s *wizardService) Clear(ctx context.Context, userID string) error {
	return s.sessions.ClearSession(ctx, userID, sessionKeyStep1, sessionKeyStep2)
}
