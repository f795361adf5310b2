package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/psc-ict/opencourt-api/internal/dto"
	"github.com/psc-ict/opencourt-api/internal/models"
	appErrors "github.com/psc-ict/opencourt-api/pkg/errors"
)

// Spreadsheet column positions are fixed by the upload template.
const (
	colSrNo = iota
	colDairyNo
	colName
	colContact
	colMarkedTo
	colDate
	colMarkedBy
	colTimeline
	colPoliceStation
	colDivision
	colCategory
	_
	colDays
	_
	colDairyPS
)

var importDateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"01-02-06",
	"2-Jan-06",
}

type importApplicationRepository interface {
	FindBySrNo(ctx context.Context, srNo int64) (*models.Application, error)
	Create(ctx context.Context, record *models.Application) error
	UpdateImportFields(ctx context.Context, record *models.Application) error
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// normalizeAuditRecorder collapses a nil concrete recorder hiding behind a
// non-nil interface value so the s.audits guards hold.
func normalizeAuditRecorder(audits auditRecorder) auditRecorder {
	if audits == nil {
		return nil
	}
	if v := reflect.ValueOf(audits); v.Kind() == reflect.Ptr && v.IsNil() {
		return nil
	}
	return audits
}

// ImportService ingests grievance spreadsheets, upserting by sr_no with
// per-row failure isolation.
type ImportService struct {
	repo    importApplicationRepository
	audits  auditRecorder
	stats   *StatsService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(repo importApplicationRepository, audits auditRecorder, stats *StatsService, metrics *MetricsService, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{repo: repo, audits: normalizeAuditRecorder(audits), stats: stats, metrics: metrics, logger: logger}
}

// Import parses the uploaded workbook and upserts every data row. A failed
// row is reported and skipped; it never aborts the run. The first row of
// the active sheet is the header.
func (s *ImportService) Import(ctx context.Context, claims *models.JWTClaims, filename string, reader io.Reader) (*dto.ImportResult, error) {
	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls") {
		return nil, appErrors.Clone(appErrors.ErrInvalidFile, "file must be Excel format (.xlsx or .xls)")
	}

	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidFile.Code, appErrors.ErrInvalidFile.Status, "unable to parse Excel file")
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidFile.Code, appErrors.ErrInvalidFile.Status, "unable to read worksheet")
	}

	result := &dto.ImportResult{Errors: []dto.ImportRowError{}}

	for i := 1; i < len(rows); i++ {
		rowNum := i + 1
		row := rows[i]

		srRaw := strings.TrimSpace(cellAt(row, colSrNo))
		if srRaw == "" {
			continue
		}
		srNo, err := parseSrNo(srRaw)
		if err != nil {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: rowNum, Message: fmt.Sprintf("invalid sr_no %q", srRaw)})
			continue
		}

		record := rowToApplication(row)
		record.SrNo = srNo

		created, err := s.upsert(ctx, claims, record)
		if err != nil {
			s.logger.Warn("import row failed", zap.Int("row", rowNum), zap.Int64("sr_no", srNo), zap.Error(err))
			result.Errors = append(result.Errors, dto.ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	if s.metrics != nil {
		s.metrics.RecordImportRows("created", result.Created)
		s.metrics.RecordImportRows("updated", result.Updated)
		s.metrics.RecordImportRows("error", len(result.Errors))
	}
	if s.stats != nil && result.Created+result.Updated > 0 {
		s.stats.InvalidateDashboard(ctx)
	}

	if s.audits != nil && claims != nil {
		summary, _ := json.Marshal(map[string]int{"created": result.Created, "updated": result.Updated, "errors": len(result.Errors)})
		if err := s.audits.CreateAuditLog(ctx, &models.AuditLog{
			UserID:    &claims.UserID,
			Action:    models.AuditActionImport,
			Resource:  "applications",
			NewValues: summary,
		}); err != nil {
			s.logger.Warn("failed to record import audit log", zap.Error(err))
		}
	}

	return result, nil
}

// upsert finds or creates by sr_no. Creates start the workflow at PENDING
// and record the importer; updates overwrite import fields only, leaving
// status, feedback, remarks and created_by untouched.
func (s *ImportService) upsert(ctx context.Context, claims *models.JWTClaims, record *models.Application) (bool, error) {
	existing, err := s.repo.FindBySrNo(ctx, record.SrNo)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return false, err
		}
		record.Status = models.StatusPending
		record.Feedback = models.FeedbackPending
		if claims != nil {
			userID := claims.UserID
			record.CreatedBy = &userID
		}
		if err := s.repo.Create(ctx, record); err != nil {
			return false, err
		}
		return true, nil
	}

	record.ID = existing.ID
	if err := s.repo.UpdateImportFields(ctx, record); err != nil {
		return false, err
	}
	return false, nil
}

func rowToApplication(row []string) *models.Application {
	return &models.Application{
		DairyNo:       strings.TrimSpace(cellAt(row, colDairyNo)),
		Name:          strings.TrimSpace(cellAt(row, colName)),
		Contact:       strings.TrimSpace(cellAt(row, colContact)),
		MarkedTo:      strings.TrimSpace(cellAt(row, colMarkedTo)),
		Date:          parseImportDate(cellAt(row, colDate)),
		MarkedBy:      strings.TrimSpace(cellAt(row, colMarkedBy)),
		Timeline:      strings.TrimSpace(cellAt(row, colTimeline)),
		PoliceStation: strings.TrimSpace(cellAt(row, colPoliceStation)),
		Division:      strings.TrimSpace(cellAt(row, colDivision)),
		Category:      strings.TrimSpace(cellAt(row, colCategory)),
		Days:          parseImportDays(cellAt(row, colDays)),
		DairyPS:       strings.TrimSpace(cellAt(row, colDairyPS)),
	}
}

func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func parseSrNo(raw string) (int64, error) {
	// Excel often renders integers as "7.0"
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int64(f)) {
		return int64(f), nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

// parseImportDate tries the known layouts and coerces anything else to
// NULL. A bad date alone never fails a row.
func parseImportDate(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	for _, layout := range importDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return &ts
		}
	}
	return nil
}

func parseImportDays(raw string) *int {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	days, err := strconv.Atoi(value)
	if err != nil || days < 0 {
		return nil
	}
	return &days
}
