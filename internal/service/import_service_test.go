package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/psc-ict/opencourt-api/internal/models"
	appErrors "github.com/psc-ict/opencourt-api/pkg/errors"
)

// importRow mirrors the fixed upload template column layout.
type importRow struct {
	srNo          string
	dairyNo       string
	name          string
	contact       string
	markedTo      string
	date          string
	markedBy      string
	timeline      string
	policeStation string
	division      string
	category      string
	days          string
	dairyPS       string
}

func buildWorkbook(t *testing.T, rows []importRow) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Sr No", "Dairy No", "Name", "Contact", "Marked To", "Date", "Marked By", "Timeline", "Police Station", "Division", "Category", "Extra", "Days", "Extra2", "Dairy PS"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))

	for i, row := range rows {
		values := []interface{}{row.srNo, row.dairyNo, row.name, row.contact, row.markedTo, row.date, row.markedBy, row.timeline, row.policeStation, row.division, row.category, "", row.days, "", row.dairyPS}
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &values))
	}

	buf := new(bytes.Buffer)
	require.NoError(t, f.Write(buf))
	return bytes.NewReader(buf.Bytes())
}

func newImportService(repo *mockApplicationRepo, audits auditRecorder) *ImportService {
	return NewImportService(repo, audits, nil, nil, zap.NewNop())
}

func TestImportRejectsNonExcelFilename(t *testing.T) {
	svc := newImportService(newMockApplicationRepo(), nil)

	_, err := svc.Import(context.Background(), adminClaims(), "data.csv", strings.NewReader("sr_no,name"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidFile.Code, appErr.Code)
}

func TestImportCreatesNewRecords(t *testing.T) {
	repo := newMockApplicationRepo()
	audits := &mockAuditRecorder{}
	svc := newImportService(repo, audits)

	reader := buildWorkbook(t, []importRow{
		{srNo: "7", dairyNo: "D-100", name: "Ahmed", date: "2025-03-01", policeStation: "City Station", division: "City", category: "Theft", days: "7"},
		{srNo: "8", name: "Bilal", policeStation: "Model Town"},
	})

	result, err := svc.Import(context.Background(), adminClaims(), "upload.xlsx", reader)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Empty(t, result.Errors)

	created := repo.bySrNo[7]
	require.NotNil(t, created)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.FeedbackPending, created.Feedback)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, "admin1", *created.CreatedBy)
	require.NotNil(t, created.Days)
	assert.Equal(t, 7, *created.Days)
	require.Len(t, audits.logs, 1)
	assert.Equal(t, models.AuditActionImport, audits.logs[0].Action)
}

func TestImportUpsertPreservesWorkflowState(t *testing.T) {
	repo := newMockApplicationRepo()
	userID := "someone"
	repo.add(&models.Application{ID: "a1", SrNo: 7, Name: "Old Name", Status: models.StatusHeard, Feedback: models.FeedbackPositive, CreatedBy: &userID})
	svc := newImportService(repo, nil)

	reader := buildWorkbook(t, []importRow{{srNo: "7", name: "Corrected Name"}})

	result, err := svc.Import(context.Background(), adminClaims(), "upload.xlsx", reader)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)

	// workflow columns are untouched by the import update path: the
	// repository receives only import fields for sr_no 7
	assert.Equal(t, models.StatusHeard, repo.records["a1"].Status)
	assert.Equal(t, models.FeedbackPositive, repo.records["a1"].Feedback)
}

func TestImportReimportIsIdempotentOnKey(t *testing.T) {
	repo := newMockApplicationRepo()
	svc := newImportService(repo, nil)

	first := buildWorkbook(t, []importRow{{srNo: "7", name: "First"}})
	_, err := svc.Import(context.Background(), adminClaims(), "upload.xlsx", first)
	require.NoError(t, err)

	second := buildWorkbook(t, []importRow{{srNo: "7", name: "Second"}})
	result, err := svc.Import(context.Background(), adminClaims(), "upload.xlsx", second)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Len(t, repo.bySrNo, 1)
}

func TestImportSkipsBlankSrNoSilently(t *testing.T) {
	repo := newMockApplicationRepo()
	svc := newImportService(repo, nil)

	reader := buildWorkbook(t, []importRow{
		{srNo: "", name: "No Serial"},
		{srNo: "9", name: "Valid"},
	})

	result, err := svc.Import(context.Background(), adminClaims(), "upload.xlsx", reader)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Empty(t, result.Errors)
}

func TestImportWithNilConcreteRecorder(t *testing.T) {
	repo := newMockApplicationRepo()
	svc := newImportService(repo, (*mockAuditRecorder)(nil))

	reader := buildWorkbook(t, []importRow{
		{srNo: "1", name: "Ahmed", policeStation: "City Station"},
		{srNo: "", name: "No Serial"},
		{srNo: "2", name: "Bilal", policeStation: "Model Town"},
	})

	result, err := svc.Import(context.Background(), adminClaims(), "upload.xlsx", reader)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Empty(t, result.Errors)
}

func TestImportReportsInvalidSrNoAndContinues(t *testing.T) {
	repo := newMockApplicationRepo()
	svc := newImportService(repo, nil)

	reader := buildWorkbook(t, []importRow{
		{srNo: "abc", name: "Broken"},
		{srNo: "9", name: "Valid"},
	})

	result, err := svc.Import(context.Background(), adminClaims(), "upload.xlsx", reader)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
}

func TestImportCoercesBadDateToNull(t *testing.T) {
	repo := newMockApplicationRepo()
	svc := newImportService(repo, nil)

	reader := buildWorkbook(t, []importRow{{srNo: "7", name: "Ahmed", date: "not-a-date"}})

	result, err := svc.Import(context.Background(), adminClaims(), "upload.xlsx", reader)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Empty(t, result.Errors)
	assert.Nil(t, repo.bySrNo[7].Date)
}

func TestImportParsesSupportedDateLayouts(t *testing.T) {
	repo := newMockApplicationRepo()
	svc := newImportService(repo, nil)

	reader := buildWorkbook(t, []importRow{
		{srNo: "1", name: "ISO", date: "2025-03-01"},
		{srNo: "2", name: "DMY", date: "01-03-2025"},
	})

	_, err := svc.Import(context.Background(), adminClaims(), "upload.xlsx", reader)
	require.NoError(t, err)
	require.NotNil(t, repo.bySrNo[1].Date)
	require.NotNil(t, repo.bySrNo[2].Date)
	assert.Equal(t, 2025, repo.bySrNo[2].Date.Year())
}

func TestImportNegativeDaysBecomesNull(t *testing.T) {
	repo := newMockApplicationRepo()
	svc := newImportService(repo, nil)

	reader := buildWorkbook(t, []importRow{{srNo: "7", name: "Ahmed", days: "-3"}})

	_, err := svc.Import(context.Background(), adminClaims(), "upload.xlsx", reader)
	require.NoError(t, err)
	assert.Nil(t, repo.bySrNo[7].Days)
}
