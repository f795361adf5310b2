package dto

// SubmitVideoReviewRequest records the admin verdict on a submitted video.
type SubmitVideoReviewRequest struct {
	Feedback string `json:"feedback" validate:"required"`
	Remarks  string `json:"remarks"`
}

// VideoFeedbackItem is a review-queue entry with a signed download link.
type VideoFeedbackItem struct {
	ID            string  `json:"id"`
	UserName      string  `json:"user_name"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	VideoURL      string  `json:"video_url"`
	FileSize      int64   `json:"file_size"`
	SubmittedAt   string  `json:"submitted_at"`
	AdminFeedback string  `json:"admin_feedback"`
	AdminRemarks  string  `json:"admin_remarks"`
	ReviewedBy    *string `json:"reviewed_by,omitempty"`
	ReviewedAt    *string `json:"reviewed_at,omitempty"`
}
