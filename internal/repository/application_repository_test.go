package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psc-ict/opencourt-api/internal/models"
)

func applicationRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "sr_no", "dairy_no", "name", "contact", "marked_to", "date", "marked_by", "timeline", "police_station", "division", "category", "status", "days", "feedback", "dairy_ps", "remarks", "video_response", "supporting_documents", "created_at", "updated_at", "created_by", "created_by_name"}).
		AddRow("a1", int64(7), "D-100", "Ahmed", "0300", "SHO", now, "DSP", "7 days", "City Station", "City", "Theft", string(models.StatusPending), 7, string(models.FeedbackPending), "City", "", nil, nil, now, now, nil, nil)
}

func TestListApplicationsAdminScope(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM applications a LEFT JOIN users u ON u.id = a.created_by WHERE 1=1 ORDER BY a.created_at DESC LIMIT 50 OFFSET 0")).
		WillReturnRows(applicationRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM applications a LEFT JOIN users u ON u.id = a.created_by WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	scope := models.ScopeFor(models.RoleAdmin, "")
	records, total, err := repo.List(context.Background(), scope, models.ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplicationsStaffScope(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND LOWER(a.police_station) = LOWER(TRIM($1)) ORDER BY a.created_at DESC LIMIT 50 OFFSET 0")).
		WithArgs("City Station").
		WillReturnRows(applicationRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("City Station").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	scope := models.ScopeFor(models.RoleStaff, "  City Station ")
	records, total, err := repo.List(context.Background(), scope, models.ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplicationsStaffWithoutStationMatchesNothing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND 1=0 ORDER BY a.created_at DESC LIMIT 50 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	scope := models.ScopeFor(models.RoleStaff, "   ")
	records, total, err := repo.List(context.Background(), scope, models.ApplicationFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplicationsCombinedFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("(a.name ILIKE $1 OR a.dairy_no ILIKE $1 OR a.contact ILIKE $1 OR CAST(a.sr_no AS TEXT) LIKE $1) AND LOWER(a.division) = LOWER($2) AND a.status = $3 AND a.date >= $4 AND a.date <= $5 ORDER BY a.sr_no ASC LIMIT 50 OFFSET 0")).
		WithArgs("%ahmed%", "City", string(models.StatusHeard), from, to).
		WillReturnRows(applicationRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("%ahmed%", "City", string(models.StatusHeard), from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	scope := models.ScopeFor(models.RoleAdmin, "")
	filter := models.ApplicationFilter{
		Search:   "ahmed",
		Division: "City",
		Status:   string(models.StatusHeard),
		FromDate: &from,
		ToDate:   &to,
		Ordering: "sr_no",
	}
	_, _, err := repo.List(context.Background(), scope, filter)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplicationsOrderingWhitelist(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	// unknown field falls back to created_at descending
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.created_at DESC LIMIT 50 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	scope := models.ScopeFor(models.RoleAdmin, "")
	_, _, err := repo.List(context.Background(), scope, models.ApplicationFilter{Ordering: "password_hash; DROP TABLE"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplicationsPageSizeCap(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT 1000 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	scope := models.ScopeFor(models.RoleAdmin, "")
	_, _, err := repo.List(context.Background(), scope, models.ApplicationFilter{PageSize: 5000})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBySrNo(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.sr_no = $1 LIMIT 1")).
		WithArgs(int64(7)).
		WillReturnRows(applicationRows(time.Now()))

	record, err := repo.FindBySrNo(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), record.SrNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateImportFieldsPreservesWorkflowColumns(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE applications SET dairy_no =")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.Application{SrNo: 7, Name: "Corrected"}
	err := repo.UpdateImportFields(context.Background(), record)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "a1", models.StatusHeard)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOverallStats(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	rows := sqlmock.NewRows([]string{"total_applications", "pending", "heard", "referred", "closed", "positive_feedback", "negative_feedback"}).
		AddRow(10, 4, 3, 2, 1, 5, 2)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) AS total_applications").WillReturnRows(rows)

	stats, err := repo.OverallStats(context.Background(), models.ScopeFor(models.RoleAdmin, ""))
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalApplications)
	assert.Equal(t, 4, stats.Pending)
	assert.Equal(t, 2, stats.NegativeFeedback)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryStatsTopTen(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY a.category ORDER BY count DESC, a.category ASC LIMIT 10")).
		WillReturnRows(sqlmock.NewRows([]string{"category", "count"}).AddRow("Theft", 5).AddRow("Fraud", 3))

	stats, err := repo.CategoryStats(context.Background(), models.ScopeFor(models.RoleAdmin, ""))
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Theft", stats[0].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStationStats(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	rows := sqlmock.NewRows([]string{"police_station", "count", "pending", "heard"}).
		AddRow("City Station", 6, 2, 3)
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY a.police_station ORDER BY count DESC, a.police_station ASC LIMIT 10")).
		WillReturnRows(rows)

	stats, err := repo.StationStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].Pending)
	assert.Equal(t, 3, stats[0].Heard)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDistinctDivisionsExcludesEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT division FROM applications WHERE division <> '' ORDER BY division ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"division"}).AddRow("Cantt").AddRow("City"))

	values, err := repo.DistinctDivisions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Cantt", "City"}, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}
