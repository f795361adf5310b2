package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/psc-ict/opencourt-api/internal/dto"
	"github.com/psc-ict/opencourt-api/internal/models"
)

const applicationColumns = `a.id, a.sr_no, a.dairy_no, a.name, a.contact, a.marked_to, a.date, a.marked_by, a.timeline, a.police_station, a.division, a.category, a.status, a.days, a.feedback, a.dairy_ps, a.remarks, a.video_response, a.supporting_documents, a.created_at, a.updated_at, a.created_by, u.username AS created_by_name`

// ApplicationRepository provides database access for grievance records.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates a new instance of ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// scopeCondition appends the visibility restriction for the requester.
// Staff without a station match nothing.
func scopeCondition(scope models.ApplicationScope, conditions []string, args []interface{}) ([]string, []interface{}) {
	if scope.AllStations {
		return conditions, args
	}
	if scope.Station == "" {
		return append(conditions, "1=0"), args
	}
	args = append(args, scope.Station)
	return append(conditions, fmt.Sprintf("LOWER(a.police_station) = LOWER(TRIM($%d))", len(args))), args
}

func buildApplicationQuery(scope models.ApplicationScope, filter models.ApplicationFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	conditions, args = scopeCondition(scope, conditions, args)

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(a.name ILIKE $%d OR a.dairy_no ILIKE $%d OR a.contact ILIKE $%d OR CAST(a.sr_no AS TEXT) LIKE $%d)", n, n, n, n))
	}
	if filter.PoliceStation != "" {
		args = append(args, filter.PoliceStation)
		conditions = append(conditions, fmt.Sprintf("LOWER(a.police_station) = LOWER($%d)", len(args)))
	}
	if filter.Division != "" {
		args = append(args, filter.Division)
		conditions = append(conditions, fmt.Sprintf("LOWER(a.division) = LOWER($%d)", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("LOWER(a.category) = LOWER($%d)", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if filter.Feedback != "" {
		args = append(args, filter.Feedback)
		conditions = append(conditions, fmt.Sprintf("a.feedback = $%d", len(args)))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", len(args)))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", len(args)))
	}
	if filter.MarkedTo != "" {
		args = append(args, "%"+filter.MarkedTo+"%")
		conditions = append(conditions, fmt.Sprintf("a.marked_to ILIKE $%d", len(args)))
	}

	baseQuery := "FROM applications a LEFT JOIN users u ON u.id = a.created_by WHERE 1=1"
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}
	return baseQuery, args
}

func applicationOrderBy(ordering string) string {
	direction := "ASC"
	field := ordering
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		field = ordering[1:]
	}
	allowedSorts := map[string]bool{
		"sr_no":          true,
		"created_at":     true,
		"date":           true,
		"name":           true,
		"status":         true,
		"police_station": true,
	}
	if !allowedSorts[field] {
		field = "created_at"
		direction = "DESC"
	}
	return fmt.Sprintf("a.%s %s", field, direction)
}

// List returns scoped, filtered records with the total count.
func (r *ApplicationRepository) List(ctx context.Context, scope models.ApplicationScope, filter models.ApplicationFilter) ([]models.Application, int, error) {
	baseQuery, args := buildApplicationQuery(scope, filter)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 1000 {
		pageSize = 1000
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d", applicationColumns, baseQuery, applicationOrderBy(filter.Ordering), pageSize, offset)

	var records []models.Application
	if err := r.db.SelectContext(ctx, &records, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	return records, total, nil
}

// ListAll returns the full scoped, filtered set without pagination for export.
func (r *ApplicationRepository) ListAll(ctx context.Context, scope models.ApplicationScope, filter models.ApplicationFilter) ([]models.Application, error) {
	baseQuery, args := buildApplicationQuery(scope, filter)
	query := fmt.Sprintf("SELECT %s %s ORDER BY %s", applicationColumns, baseQuery, applicationOrderBy(filter.Ordering))

	var records []models.Application
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list all applications: %w", err)
	}
	return records, nil
}

// FindByID returns a single record by identifier.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	query := fmt.Sprintf("SELECT %s FROM applications a LEFT JOIN users u ON u.id = a.created_by WHERE a.id = $1 LIMIT 1", applicationColumns)
	var record models.Application
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find application by id: %w", err)
	}
	return &record, nil
}

// FindBySrNo returns a record by its import key.
func (r *ApplicationRepository) FindBySrNo(ctx context.Context, srNo int64) (*models.Application, error) {
	query := fmt.Sprintf("SELECT %s FROM applications a LEFT JOIN users u ON u.id = a.created_by WHERE a.sr_no = $1 LIMIT 1", applicationColumns)
	var record models.Application
	if err := r.db.GetContext(ctx, &record, query, srNo); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find application by sr_no: %w", err)
	}
	return &record, nil
}

// Create inserts a new record.
func (r *ApplicationRepository) Create(ctx context.Context, record *models.Application) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO applications (id, sr_no, dairy_no, name, contact, marked_to, date, marked_by, timeline, police_station, division, category, status, days, feedback, dairy_ps, remarks, video_response, supporting_documents, created_at, updated_at, created_by) VALUES (:id, :sr_no, :dairy_no, :name, :contact, :marked_to, :date, :marked_by, :timeline, :police_station, :division, :category, :status, :days, :feedback, :dairy_ps, :remarks, :video_response, :supporting_documents, :created_at, :updated_at, :created_by)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// UpdateImportFields overwrites only the spreadsheet-sourced columns.
// Workflow state (status, feedback, remarks, created_by) is preserved.
func (r *ApplicationRepository) UpdateImportFields(ctx context.Context, record *models.Application) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE applications SET dairy_no = :dairy_no, name = :name, contact = :contact, marked_to = :marked_to, date = :date, marked_by = :marked_by, timeline = :timeline, police_station = :police_station, division = :division, category = :category, days = :days, dairy_ps = :dairy_ps, updated_at = :updated_at WHERE sr_no = :sr_no`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update application import fields: %w", err)
	}
	return nil
}

// Update overwrites mutable fields of a record.
func (r *ApplicationRepository) Update(ctx context.Context, record *models.Application) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE applications SET dairy_no = :dairy_no, name = :name, contact = :contact, marked_to = :marked_to, date = :date, marked_by = :marked_by, timeline = :timeline, police_station = :police_station, division = :division, category = :category, days = :days, dairy_ps = :dairy_ps, remarks = :remarks, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	return nil
}

// UpdateStatus changes only the workflow status column.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	const query = `UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return nil
}

// UpdateFeedback changes the feedback column and optionally remarks.
func (r *ApplicationRepository) UpdateFeedback(ctx context.Context, id string, feedback models.FeedbackStatus, remarks string) error {
	const query = `UPDATE applications SET feedback = $2, remarks = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, feedback, remarks, time.Now().UTC()); err != nil {
		return fmt.Errorf("update application feedback: %w", err)
	}
	return nil
}

// Delete removes a record permanently.
func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM applications WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return nil
}

// OverallStats computes the scoped status and feedback counts in one query.
func (r *ApplicationRepository) OverallStats(ctx context.Context, scope models.ApplicationScope) (dto.OverallStats, error) {
	var conditions []string
	var args []interface{}
	conditions, args = scopeCondition(scope, conditions, args)

	query := `SELECT COUNT(*) AS total_applications,
        COUNT(*) FILTER (WHERE a.status = 'PENDING') AS pending,
        COUNT(*) FILTER (WHERE a.status = 'HEARD') AS heard,
        COUNT(*) FILTER (WHERE a.status = 'REFERRED') AS referred,
        COUNT(*) FILTER (WHERE a.status = 'CLOSED') AS closed,
        COUNT(*) FILTER (WHERE a.feedback = 'POSITIVE') AS positive_feedback,
        COUNT(*) FILTER (WHERE a.feedback = 'NEGATIVE') AS negative_feedback
        FROM applications a WHERE 1=1`
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	var stats dto.OverallStats
	if err := r.db.GetContext(ctx, &stats, query, args...); err != nil {
		return dto.OverallStats{}, fmt.Errorf("query overall stats: %w", err)
	}
	return stats, nil
}

// CategoryStats returns the top 10 categories on the scoped set. Ties
// break on category name ascending.
func (r *ApplicationRepository) CategoryStats(ctx context.Context, scope models.ApplicationScope) ([]dto.CategoryCount, error) {
	var conditions []string
	var args []interface{}
	conditions, args = scopeCondition(scope, conditions, args)

	query := "SELECT a.category, COUNT(*) AS count FROM applications a WHERE 1=1"
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY a.category ORDER BY count DESC, a.category ASC LIMIT 10"

	var stats []dto.CategoryCount
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("query category stats: %w", err)
	}
	return stats, nil
}

// StationStats returns the top 10 police stations over the full store,
// with pending and heard sub-counts. Always unscoped; callers restrict
// this to admins.
func (r *ApplicationRepository) StationStats(ctx context.Context) ([]dto.StationCount, error) {
	const query = `SELECT a.police_station, COUNT(*) AS count,
        COUNT(*) FILTER (WHERE a.status = 'PENDING') AS pending,
        COUNT(*) FILTER (WHERE a.status = 'HEARD') AS heard
        FROM applications a GROUP BY a.police_station ORDER BY count DESC, a.police_station ASC LIMIT 10`

	var stats []dto.StationCount
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("query station stats: %w", err)
	}
	return stats, nil
}

// DivisionStats returns the full division breakdown on the scoped set.
func (r *ApplicationRepository) DivisionStats(ctx context.Context, scope models.ApplicationScope) ([]dto.DivisionCount, error) {
	var conditions []string
	var args []interface{}
	conditions, args = scopeCondition(scope, conditions, args)

	query := "SELECT a.division, COUNT(*) AS count FROM applications a WHERE 1=1"
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY a.division ORDER BY count DESC, a.division ASC"

	var stats []dto.DivisionCount
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("query division stats: %w", err)
	}
	return stats, nil
}

// DistinctStations lists distinct police stations ordered ascending.
func (r *ApplicationRepository) DistinctStations(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT police_station FROM applications WHERE police_station <> '' ORDER BY police_station ASC`
	var values []string
	if err := r.db.SelectContext(ctx, &values, query); err != nil {
		return nil, fmt.Errorf("list police stations: %w", err)
	}
	return values, nil
}

// DistinctCategories lists distinct categories ordered ascending.
func (r *ApplicationRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT category FROM applications WHERE category <> '' ORDER BY category ASC`
	var values []string
	if err := r.db.SelectContext(ctx, &values, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return values, nil
}

// DistinctDivisions lists distinct divisions ordered ascending.
func (r *ApplicationRepository) DistinctDivisions(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT division FROM applications WHERE division <> '' ORDER BY division ASC`
	var values []string
	if err := r.db.SelectContext(ctx, &values, query); err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	return values, nil
}
