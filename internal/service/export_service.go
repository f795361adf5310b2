package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/psc-ict/opencourt-api/internal/models"
	appErrors "github.com/psc-ict/opencourt-api/pkg/errors"
	"github.com/psc-ict/opencourt-api/pkg/export"
)

// ExportFormat enumerates supported export renderings.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

var exportHeaders = []string{"Sr No", "Dairy No", "Name", "Contact", "Marked To", "Date", "Marked By", "Timeline", "Police Station", "Division", "Category", "Status", "Days", "Feedback", "Dairy PS", "Remarks"}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// ExportService renders the unpaginated filtered record set into files.
type ExportService struct {
	applications *ApplicationService
	csv          csvRenderer
	pdf          pdfRenderer
	logger       *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(applications *ApplicationService, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{applications: applications, csv: csv, pdf: pdf, logger: logger}
}

// Export returns the scoped, filtered, ordered record set rendered in the
// requested format.
func (s *ExportService) Export(ctx context.Context, claims *models.JWTClaims, filter models.ApplicationFilter, format ExportFormat) (*ExportFile, error) {
	records, err := s.applications.ListAll(ctx, claims, filter)
	if err != nil {
		return nil, err
	}

	dataset := buildDataset(records)
	stamp := time.Now().UTC().Format("20060102")

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportFile{Payload: payload, ContentType: "text/csv", Filename: fmt.Sprintf("applications_%s.csv", stamp)}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Open Court Applications")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportFile{Payload: payload, ContentType: "application/pdf", Filename: fmt.Sprintf("applications_%s.pdf", stamp)}, nil
	case ExportFormatXLSX:
		payload, err := renderWorkbook(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render xlsx export")
		}
		return &ExportFile{Payload: payload, ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Filename: fmt.Sprintf("applications_%s.xlsx", stamp)}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
}

func buildDataset(records []models.Application) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for i := range records {
		r := &records[i]
		date := ""
		if r.Date != nil {
			date = r.Date.Format("2006-01-02")
		}
		days := ""
		if r.Days != nil {
			days = strconv.Itoa(*r.Days)
		}
		rows = append(rows, map[string]string{
			"Sr No":          strconv.FormatInt(r.SrNo, 10),
			"Dairy No":       r.DairyNo,
			"Name":           r.Name,
			"Contact":        r.Contact,
			"Marked To":      r.MarkedTo,
			"Date":           date,
			"Marked By":      r.MarkedBy,
			"Timeline":       r.Timeline,
			"Police Station": r.PoliceStation,
			"Division":       r.Division,
			"Category":       r.Category,
			"Status":         string(r.Status),
			"Days":           days,
			"Feedback":       string(r.Feedback),
			"Dairy PS":       r.DairyPS,
			"Remarks":        r.Remarks,
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}

func renderWorkbook(dataset export.Dataset) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Applications"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create worksheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default worksheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, header := range dataset.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("locate header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}
	}

	for rowIdx, row := range dataset.Rows {
		for colIdx, header := range dataset.Headers {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("locate data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, row[header]); err != nil {
				return nil, fmt.Errorf("write data cell: %w", err)
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
