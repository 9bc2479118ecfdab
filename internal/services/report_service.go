package services

import (
	"context"
	"errors"
	"fmt"

	"kyatbook/internal/core"
	"kyatbook/internal/export"
	"kyatbook/internal/observability"
	"kyatbook/internal/storage"
)

// ErrUnknownFileType is returned for export formats other than pdf and
// excel.
var ErrUnknownFileType = errors.New("unknown file type")

// Export file types.
const (
	FileTypePDF   = "pdf"
	FileTypeExcel = "excel"
)

// Report is one page of a date-range report. TotalCount spans the whole
// range, FoundCount is the number of records on this page.
type Report struct {
	Groups     []core.ReportGroup
	TotalCount int64
	FoundCount int
}

// ExportFile is a rendered report download.
type ExportFile struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ReportService serves date-range report pages and file exports.
type ReportService struct {
	storage *storage.Repository
}

func NewReportService(storage *storage.Repository) *ReportService {
	return &ReportService{storage: storage}
}

// Report returns one page of records in [start, end] grouped by day.
// Pagination runs over records, not groups, so walking all pages yields
// every record in the range exactly once.
func (s *ReportService) Report(ctx context.Context, start, end core.Date, pay core.PayType, page, limit int) (Report, error) {
	if err := core.ValidateRange(start, end); err != nil {
		return Report{}, err
	}

	records, total, err := s.storage.RecordsInRange(ctx, start, end, pay, page, limit)
	if err != nil {
		return Report{}, fmt.Errorf("query report range: %w", err)
	}

	observability.ReportsGenerated.Inc()
	return Report{
		Groups:     core.GroupByDate(records),
		TotalCount: total,
		FoundCount: len(records),
	}, nil
}

// Export renders the full range (no pagination) as a pdf or excel file.
func (s *ReportService) Export(ctx context.Context, start, end core.Date, fileType string) (ExportFile, error) {
	if err := core.ValidateRange(start, end); err != nil {
		return ExportFile{}, err
	}

	records, _, err := s.storage.RecordsInRange(ctx, start, end, "", 1, 0)
	if err != nil {
		return ExportFile{}, fmt.Errorf("query export range: %w", err)
	}
	groups := core.GroupByDate(records)

	var file ExportFile
	switch fileType {
	case FileTypePDF:
		data, err := export.PDF(groups)
		if err != nil {
			return ExportFile{}, fmt.Errorf("render pdf: %w", err)
		}
		file = ExportFile{
			Data:        data,
			Filename:    fmt.Sprintf("report_%s_%s.pdf", start, end),
			ContentType: "application/pdf",
		}
	case FileTypeExcel:
		data, err := export.Excel(groups)
		if err != nil {
			return ExportFile{}, fmt.Errorf("render excel: %w", err)
		}
		file = ExportFile{
			Data:        data,
			Filename:    fmt.Sprintf("report_%s_%s.xlsx", start, end),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		}
	default:
		return ExportFile{}, fmt.Errorf("%w: %q", ErrUnknownFileType, fileType)
	}

	observability.ExportsGenerated.WithLabelValues(fileType).Inc()
	return file, nil
}
