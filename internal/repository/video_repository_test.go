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

func TestListVideoFeedbackNewestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewVideoRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_name", "title", "description", "video_file", "file_size", "submitted_at", "admin_feedback", "admin_remarks", "reviewed_by", "reviewed_at"}).
		AddRow("v1", "Citizen", "Complaint", "", "videos/v1.mp4", int64(1024), now, string(models.VideoReviewPending), "", nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM video_feedback WHERE 1=1 ORDER BY submitted_at DESC LIMIT 50 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM video_feedback WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	videos, total, err := repo.List(context.Background(), models.VideoFeedbackFilter{})
	require.NoError(t, err)
	assert.Len(t, videos, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReview(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewVideoRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE video_feedback SET admin_feedback = $2, admin_remarks = $3, reviewed_by = $4, reviewed_at = $5 WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateReview(context.Background(), "v1", models.VideoReviewLike, "good", "admin1", time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoStats(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewVideoRepository(db)

	rows := sqlmock.NewRows([]string{"total", "pending", "liked", "disliked"}).AddRow(5, 2, 2, 1)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) AS total").WillReturnRows(rows)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Disliked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
