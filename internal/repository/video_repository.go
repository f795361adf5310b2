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

const videoColumns = `id, user_name, title, description, video_file, file_size, submitted_at, admin_feedback, admin_remarks, reviewed_by, reviewed_at`

// VideoRepository provides database access for submitted feedback videos.
type VideoRepository struct {
	db *sqlx.DB
}

// NewVideoRepository creates a new instance of VideoRepository.
func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// List returns feedback videos newest first with the total count.
func (r *VideoRepository) List(ctx context.Context, filter models.VideoFeedbackFilter) ([]models.VideoFeedback, int, error) {
	baseQuery := `FROM video_feedback WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Review != "" {
		args = append(args, filter.Review)
		conditions = append(conditions, fmt.Sprintf("admin_feedback = $%d", len(args)))
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY submitted_at DESC LIMIT %d OFFSET %d", videoColumns, baseQuery, pageSize, offset)

	var videos []models.VideoFeedback
	if err := r.db.SelectContext(ctx, &videos, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list video feedback: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count video feedback: %w", err)
	}

	return videos, total, nil
}

// FindByID returns a feedback video by identifier.
func (r *VideoRepository) FindByID(ctx context.Context, id string) (*models.VideoFeedback, error) {
	query := fmt.Sprintf("SELECT %s FROM video_feedback WHERE id = $1 LIMIT 1", videoColumns)
	var video models.VideoFeedback
	if err := r.db.GetContext(ctx, &video, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find video feedback by id: %w", err)
	}
	return &video, nil
}

// Create inserts a new feedback video record.
func (r *VideoRepository) Create(ctx context.Context, video *models.VideoFeedback) error {
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	if video.SubmittedAt.IsZero() {
		video.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO video_feedback (id, user_name, title, description, video_file, file_size, submitted_at, admin_feedback, admin_remarks, reviewed_by, reviewed_at) VALUES (:id, :user_name, :title, :description, :video_file, :file_size, :submitted_at, :admin_feedback, :admin_remarks, :reviewed_by, :reviewed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, video); err != nil {
		return fmt.Errorf("create video feedback: %w", err)
	}
	return nil
}

// UpdateReview records the admin verdict on a submitted video.
func (r *VideoRepository) UpdateReview(ctx context.Context, id string, review models.VideoReview, remarks, reviewedBy string, reviewedAt time.Time) error {
	const query = `UPDATE video_feedback SET admin_feedback = $2, admin_remarks = $3, reviewed_by = $4, reviewed_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, review, remarks, reviewedBy, reviewedAt); err != nil {
		return fmt.Errorf("update video review: %w", err)
	}
	return nil
}

// Stats returns the review queue counters in one query.
func (r *VideoRepository) Stats(ctx context.Context) (dto.VideoFeedbackStats, error) {
	const query = `SELECT COUNT(*) AS total,
        COUNT(*) FILTER (WHERE admin_feedback = 'PENDING') AS pending,
        COUNT(*) FILTER (WHERE admin_feedback = 'LIKE') AS liked,
        COUNT(*) FILTER (WHERE admin_feedback = 'DISLIKE') AS disliked
        FROM video_feedback`

	var stats struct {
		Total    int `db:"total"`
		Pending  int `db:"pending"`
		Liked    int `db:"liked"`
		Disliked int `db:"disliked"`
	}
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return dto.VideoFeedbackStats{}, fmt.Errorf("query video feedback stats: %w", err)
	}
	return dto.VideoFeedbackStats{
		Total:    stats.Total,
		Pending:  stats.Pending,
		Liked:    stats.Liked,
		Disliked: stats.Disliked,
	}, nil
}
