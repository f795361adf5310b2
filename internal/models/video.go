package models

import "time"

// VideoReview enumerates review verdicts for submitted feedback videos.
type VideoReview string

const (
	VideoReviewPending VideoReview = "PENDING"
	VideoReviewLike    VideoReview = "LIKE"
	VideoReviewDislike VideoReview = "DISLIKE"
)

// VideoFeedback is a citizen-submitted video awaiting admin review.
type VideoFeedback struct {
	ID            string      `db:"id" json:"id"`
	UserName      string      `db:"user_name" json:"user_name"`
	Title         string      `db:"title" json:"title"`
	Description   string      `db:"description" json:"description"`
	VideoFile     string      `db:"video_file" json:"video_file"`
	FileSize      int64       `db:"file_size" json:"file_size"`
	SubmittedAt   time.Time   `db:"submitted_at" json:"submitted_at"`
	AdminFeedback VideoReview `db:"admin_feedback" json:"admin_feedback"`
	AdminRemarks  string      `db:"admin_remarks" json:"admin_remarks"`
	ReviewedBy    *string     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time  `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// VideoFeedbackFilter captures listing parameters for the review queue.
type VideoFeedbackFilter struct {
	Review   string
	Page     int
	PageSize int
}
