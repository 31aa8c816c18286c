package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/adhamhusein/mio-super-app/internal/dto"
)

var ErrExportNoTrips = errors.New("no trips in the current working set")

// ExportService renders the wizard's trip working set to an Excel workbook
// for offline review. The buffer is returned to the handler, which sets the
// download headers.
type ExportService interface {
	ExportTimesheet(ctx context.Context, userID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	sessions SessionStore
	logger   *zap.Logger
}

// NewExportService creates an ExportService instance.
func NewExportService(sessions SessionStore, logger *zap.Logger) ExportService {
	return &exportService{sessions: sessions, logger: logger}
}

var exportHeaders = []string{
	"ID", "Report Time", "Equipment", "Operator NRP", "Operator Name",
	"Shift", "Loader", "Position", "Distance", "Note", "Type",
}

func (s *exportService) ExportTimesheet(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	var step1 dto.Step1State
	if _, err := s.sessions.GetSession(ctx, userID, sessionKeyStep1, &step1); err != nil {
		return nil, "", err
	}
	var step2 dto.Step2State
	if _, err := s.sessions.GetSession(ctx, userID, sessionKeyStep2, &step2); err != nil {
		return nil, "", err
	}
	if len(step2.Trips) == 0 {
		return nil, "", ErrExportNoTrips
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Trips"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			s.logger.Error("write export header failed", zap.Error(err))
			return nil, "", err
		}
	}

	for i, t := range step2.Trips {
		values := []interface{}{
			t.ID, t.ReportTime, t.EquipmentNo, t.OperatorID, t.OperatorName,
			t.OprShift, t.LoaderID, t.PosName, t.Distance, t.Note, t.RecordType,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				s.logger.Error("write export row failed", zap.Int("row", i+2), zap.Error(err))
				return nil, "", err
			}
		}
	}

	_ = f.SetColWidth(sheet, "B", "B", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("render export workbook failed", zap.Error(err))
		return nil, "", err
	}

	date := step1.SelectedDate
	if date == "" {
		date = "export"
	}
	equipment := step2.EquipmentNumber
	if equipment == "" {
		equipment = "unit"
	}
	filename := fmt.Sprintf("timesheet_%s_%s.xlsx", equipment, date)

	return buf, filename, nil
}
