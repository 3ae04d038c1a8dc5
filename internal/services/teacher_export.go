package services

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

const (
	exportSheetName = "Docenti"
	exportPageSize  = 100
)

var exportHeader = []interface{}{
	"ID", "Nome", "Email", "Ruolo", "Stato", "Spazio usato (byte)", "Ultimo accesso", "Creato il",
}

func (s *teacherService) Export(ctx context.Context, filters *TeacherFiltersRequest, w io.Writer) error {
	if filters == nil {
		filters = validator.NewTeacherFiltersRequest()
	}
	if err := s.validator.Validate(filters); err != nil {
		return err
	}

	s.logger.Info("Exporting teachers", "search", filters.Search, "status", filters.Status)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(exportSheetName, "A1", "H1", bold)
	}
	_ = f.SetColWidth(exportSheetName, "A", "H", 22)

	page := *filters
	page.Page = 1
	page.Limit = exportPageSize

	row := 2
	for {
		teachers, total, err := s.repo.Teacher().List(ctx, toTeacherFilters(&page))
		if err != nil {
			return NewBackendError("export teachers", err)
		}

		for _, t := range teachers {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			values := exportRow(t)
			if err := f.SetSheetRow(exportSheetName, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
			row++
		}

		if len(teachers) == 0 || int64(page.Page*page.Limit) >= total {
			break
		}
		page.Page++
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Teachers exported", "rows", row-2)
	return nil
}

func exportRow(t *models.Teacher) []interface{} {
	lastLogin := lo.TernaryF(t.LastLoginAt != nil,
		func() string { return t.LastLoginAt.Format("2006-01-02 15:04") },
		func() string { return "" })

	return []interface{}{
		t.ID,
		t.Name,
		t.Email,
		string(t.Role),
		string(t.Status),
		t.StorageUsed,
		lastLogin,
		t.CreatedAt.Format("2006-01-02 15:04"),
	}
}
