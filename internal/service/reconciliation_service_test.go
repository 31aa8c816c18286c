package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/adhamhusein/mio-super-app/internal/dto"
	"github.com/adhamhusein/mio-super-app/internal/model"
	"github.com/adhamhusein/mio-super-app/internal/repository"
)

// ── test helpers ──

func setupTestReconciliationService() (ReconciliationService, *mockTripRepo, *memSessions) {
	tripRepo := newMockTripRepo()
	repo := &repository.Repository{
		User: newMockUserRepo(),
		Trip: tripRepo,
	}
	sessions := newMemSessions()
	svc := NewReconciliationService(repo, sessions, zap.NewNop())
	return svc, tripRepo, sessions
}

func hmRequest() *dto.HMUpdateRequest {
	return &dto.HMUpdateRequest{
		ID:       "100",
		NextID:   "101",
		PrevID:   "99",
		OprNRP:   "NRP01",
		HM:       "1500.5",
		NextHM:   "1520",
		PrevHM:   "1480",
		NewHM:    "1510",
		OprShift: "1",
	}
}

// ── hour-meter corrections ──

func TestReconciliationService_UpdateHM_Success(t *testing.T) {
	svc, tripRepo, _ := setupTestReconciliationService()

	if err := svc.UpdateHM(context.Background(), hmRequest(), "dispatcher1"); err != nil {
		t.Fatalf("UpdateHM should succeed: %v", err)
	}

	p := tripRepo.calls[0].args[0].(repository.LoginUpdateParams)
	if p.ID != "100" {
		t.Errorf("expected target id 100, got %s", p.ID)
	}
	if p.Remark != model.RemarkHMUpdate {
		t.Errorf("expected remark %s, got %s", model.RemarkHMUpdate, p.Remark)
	}
	if p.BeforeHM == nil || *p.BeforeHM != 1500.5 {
		t.Errorf("expected before hm 1500.5, got %v", p.BeforeHM)
	}
	if p.AfterHM != 1510 {
		t.Errorf("expected after hm 1510, got %v", p.AfterHM)
	}
	if p.BeforeOperator != p.AfterOperator || p.BeforeShift != p.AfterShift {
		t.Error("operator and shift must carry through unchanged")
	}
	if p.Actor != "dispatcher1" {
		t.Errorf("expected actor dispatcher1, got %s", p.Actor)
	}
}

func TestReconciliationService_RemarkPerOperation(t *testing.T) {
	svc, tripRepo, _ := setupTestReconciliationService()
	ctx := context.Background()

	if err := svc.ValidateData(ctx, hmRequest(), "d"); err != nil {
		t.Fatalf("ValidateData: %v", err)
	}
	if err := svc.UpdateNextHM(ctx, hmRequest(), "d"); err != nil {
		t.Fatalf("UpdateNextHM: %v", err)
	}
	if err := svc.UpdatePrevHM(ctx, hmRequest(), "d"); err != nil {
		t.Fatalf("UpdatePrevHM: %v", err)
	}

	want := []struct {
		id, remark, currentHM string
	}{
		{"100", model.RemarkValid, "1500.5"},
		{"101", model.RemarkNextHMUpdate, "1520"},
		{"99", model.RemarkPrevHMUpdate, "1480"},
	}
	for i, w := range want {
		p := tripRepo.calls[i].args[0].(repository.LoginUpdateParams)
		if p.ID != w.id {
			t.Errorf("call %d: expected target %s, got %s", i, w.id, p.ID)
		}
		if p.Remark != w.remark {
			t.Errorf("call %d: expected remark %s, got %s", i, w.remark, p.Remark)
		}
	}
	// next/prev corrections snapshot the neighbor's current value
	if p := tripRepo.calls[1].args[0].(repository.LoginUpdateParams); p.BeforeHM == nil || *p.BeforeHM != 1520 {
		t.Errorf("next correction should snapshot next_hm, got %v", p.BeforeHM)
	}
	if p := tripRepo.calls[2].args[0].(repository.LoginUpdateParams); p.BeforeHM == nil || *p.BeforeHM != 1480 {
		t.Errorf("prev correction should snapshot prev_hm, got %v", p.BeforeHM)
	}
}

func TestReconciliationService_UpdateHM_BadNewHM(t *testing.T) {
	svc, tripRepo, _ := setupTestReconciliationService()

	req := hmRequest()
	req.NewHM = "abc"
	err := svc.UpdateHM(context.Background(), req, "d")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for non-numeric new_hm, got %v", err)
	}
	if len(tripRepo.calls) != 0 {
		t.Error("store should not be called when new_hm is invalid")
	}
}

func TestReconciliationService_UpdateHM_MissingTarget(t *testing.T) {
	svc, tripRepo, _ := setupTestReconciliationService()
	ctx := context.Background()

	req := hmRequest()
	req.ID = " "
	if err := svc.UpdateHM(ctx, req, "d"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing id, got %v", err)
	}

	req = hmRequest()
	req.OprNRP = ""
	if err := svc.UpdateHM(ctx, req, "d"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing operator, got %v", err)
	}

	// next/prev validate their own target id, not the base one
	req = hmRequest()
	req.NextID = ""
	if err := svc.UpdateNextHM(ctx, req, "d"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing next id, got %v", err)
	}

	if len(tripRepo.calls) != 0 {
		t.Error("store should not be called on validation failure")
	}
}

func TestReconciliationService_UpdateHM_UnparsableBeforeBecomesNull(t *testing.T) {
	svc, tripRepo, _ := setupTestReconciliationService()

	req := hmRequest()
	req.HM = "n/a"
	if err := svc.UpdateHM(context.Background(), req, "d"); err != nil {
		t.Fatalf("UpdateHM should tolerate a missing current value: %v", err)
	}
	p := tripRepo.calls[0].args[0].(repository.LoginUpdateParams)
	if p.BeforeHM != nil {
		t.Errorf("expected nil before hm, got %v", *p.BeforeHM)
	}
}

// ── shift reassignment ──

func TestReconciliationService_UpdateShift_Success(t *testing.T) {
	svc, tripRepo, _ := setupTestReconciliationService()

	err := svc.UpdateShift(context.Background(), &dto.UpdateShiftRequest{
		ID:             "100",
		NextID:         "101",
		ReportTime:     "2024-01-15T06:55:00",
		NextReportTime: "2024-01-15 07:05:00",
		MobileID:       "DT001",
		OprNRP:         "NRP01",
		HM:             "1500",
		NextHM:         "1501",
		OprShift:       "1",
		NewShift:       "2",
	}, "dispatcher1")
	if err != nil {
		t.Fatalf("UpdateShift should succeed: %v", err)
	}

	p := tripRepo.calls[0].args[0].(repository.UpdateShiftParams)
	if p.ID != "100" || p.NextID != "101" || p.NewShift != "2" {
		t.Errorf("unexpected params: %+v", p)
	}
	if p.ReportTime == nil || p.NextReportTime == nil {
		t.Error("both timestamps should parse")
	}
	if p.HM == nil || *p.HM != 1500 {
		t.Errorf("expected hm 1500, got %v", p.HM)
	}
}

func TestReconciliationService_UpdateShift_InvalidValue(t *testing.T) {
	svc, tripRepo, _ := setupTestReconciliationService()
	ctx := context.Background()

	// retrieval codes are not reassignment values
	for _, bad := range []string{"S01", "4", "0", ""} {
		err := svc.UpdateShift(ctx, &dto.UpdateShiftRequest{
			ID:       "100",
			NewShift: dto.FlexString(bad),
		}, "d")
		if !errors.Is(err, ErrValidation) {
			t.Errorf("shift %q: expected ErrValidation, got %v", bad, err)
		}
	}
	if len(tripRepo.calls) != 0 {
		t.Error("store should not be called with an invalid shift")
	}
}

func TestReconciliationService_UpdateShift_LenientContext(t *testing.T) {
	svc, tripRepo, _ := setupTestReconciliationService()

	err := svc.UpdateShift(context.Background(), &dto.UpdateShiftRequest{
		ID:         "100",
		ReportTime: "garbage",
		HM:         "not-a-number",
		NewShift:   "3",
	}, "d")
	if err != nil {
		t.Fatalf("unparsable context must not fail the operation: %v", err)
	}
	p := tripRepo.calls[0].args[0].(repository.UpdateShiftParams)
	if p.ReportTime != nil || p.HM != nil {
		t.Errorf("unparsable context should degrade to nil: %+v", p)
	}
}

// ── realtime validation view ──

func TestReconciliationService_RealtimeValidation_Success(t *testing.T) {
	svc, tripRepo, sessions := setupTestReconciliationService()
	ctx := context.Background()

	sessions.SetSession(ctx, "u1", sessionKeyStep1, &dto.Step1State{
		SelectedDate:   "2024-01-15",
		SelectedShifts: []string{"s01", "BOGUS", "S02"},
	})
	sessions.SetSession(ctx, "u1", sessionKeyStep2, &dto.Step2State{
		EquipmentNumber: "DT001",
	})
	tripRepo.validationCols["S01"] = []string{"id", "hm", "status"}
	tripRepo.validationRows["S01"] = []map[string]interface{}{{"id": "1", "status": "ok"}}
	tripRepo.validationRows["S02"] = []map[string]interface{}{{"id": "2", "status": "gap"}}

	view, err := svc.RealtimeValidation(ctx, "u1")
	if err != nil {
		t.Fatalf("RealtimeValidation should succeed: %v", err)
	}
	if len(view.Columns) != 3 {
		t.Errorf("expected columns from first shift, got %v", view.Columns)
	}
	if len(view.Rows) != 2 {
		t.Errorf("expected merged rows from both shifts, got %d", len(view.Rows))
	}
	if got := tripRepo.callsTo("RealtimeValidation"); got != 2 {
		t.Errorf("bogus code should be skipped, got %d calls", got)
	}
}

func TestReconciliationService_RealtimeValidation_IncompleteSelection(t *testing.T) {
	svc, _, sessions := setupTestReconciliationService()
	ctx := context.Background()

	// nothing saved at all
	if _, err := svc.RealtimeValidation(ctx, "u1"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty wizard, got %v", err)
	}

	// step 1 present but no equipment chosen yet
	sessions.SetSession(ctx, "u1", sessionKeyStep1, &dto.Step1State{
		SelectedDate:   "2024-01-15",
		SelectedShifts: []string{"S01"},
	})
	if _, err := svc.RealtimeValidation(ctx, "u1"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation without equipment, got %v", err)
	}
}

func TestReconciliationService_RealtimeValidation_NoValidShifts(t *testing.T) {
	svc, _, sessions := setupTestReconciliationService()
	ctx := context.Background()

	sessions.SetSession(ctx, "u1", sessionKeyStep1, &dto.Step1State{
		SelectedDate:   "2024-01-15",
		SelectedShifts: []string{"BOGUS"},
	})
	sessions.SetSession(ctx, "u1", sessionKeyStep2, &dto.Step2State{
		EquipmentNumber: "DT001",
	})

	if _, err := svc.RealtimeValidation(ctx, "u1"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation when no shift survives filtering, got %v", err)
	}
}

// ── historical login ──

func TestReconciliationService_HistoricalLogin(t *testing.T) {
	svc, tripRepo, _ := setupTestReconciliationService()
	tripRepo.historyRows = []map[string]interface{}{
		{"reporttime": "2024-01-15T06:00:00", "opr_nrp": "NRP01", "hm": 1500.0},
	}

	view, err := svc.HistoricalLogin(context.Background(), " DT001 ")
	if err != nil {
		t.Fatalf("HistoricalLogin should succeed: %v", err)
	}
	if len(view.Rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(view.Rows))
	}
	if tripRepo.calls[0].args[0] != "DT001" {
		t.Errorf("mobile id should be trimmed, got %v", tripRepo.calls[0].args[0])
	}
}

func TestReconciliationService_HistoricalLogin_MissingID(t *testing.T) {
	svc, _, _ := setupTestReconciliationService()

	if _, err := svc.HistoricalLogin(context.Background(), "  "); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestReconciliationService_HistoricalLogin_NilRowsBecomeEmpty(t *testing.T) {
	svc, _, _ := setupTestReconciliationService()

	view, err := svc.HistoricalLogin(context.Background(), "DT001")
	if err != nil {
		t.Fatalf("HistoricalLogin should succeed: %v", err)
	}
	if view.Rows == nil {
		t.Error("rows must serialize as [], never null")
	}
}
