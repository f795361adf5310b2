package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/psc-ict/opencourt-api/internal/dto"
	"github.com/psc-ict/opencourt-api/internal/models"
	appErrors "github.com/psc-ict/opencourt-api/pkg/errors"
	"github.com/psc-ict/opencourt-api/pkg/storage"
)

type videoRepository interface {
	List(ctx context.Context, filter models.VideoFeedbackFilter) ([]models.VideoFeedback, int, error)
	FindByID(ctx context.Context, id string) (*models.VideoFeedback, error)
	Create(ctx context.Context, video *models.VideoFeedback) error
	UpdateReview(ctx context.Context, id string, review models.VideoReview, remarks, reviewedBy string, reviewedAt time.Time) error
	Stats(ctx context.Context) (dto.VideoFeedbackStats, error)
}

// VideoService handles the admin review workflow for submitted videos.
// Files live on local disk; download links are short-lived signed tokens.
type VideoService struct {
	repo    videoRepository
	audits  auditRecorder
	storage *storage.LocalStorage
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
}

// NewVideoService constructs a VideoService.
func NewVideoService(repo videoRepository, audits auditRecorder, store *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger) *VideoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VideoService{repo: repo, audits: normalizeAuditRecorder(audits), storage: store, signer: signer, logger: logger}
}

// List returns the review queue newest first, with signed download links.
func (s *VideoService) List(ctx context.Context, filter models.VideoFeedbackFilter) ([]dto.VideoFeedbackItem, *models.Pagination, error) {
	videos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list video feedback")
	}

	items := make([]dto.VideoFeedbackItem, 0, len(videos))
	for i := range videos {
		items = append(items, s.toItem(&videos[i]))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}
	return items, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a single review-queue entry.
func (s *VideoService) Get(ctx context.Context, id string) (*dto.VideoFeedbackItem, error) {
	video, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	item := s.toItem(video)
	return &item, nil
}

// Submit stores an uploaded video and enqueues it for review.
func (s *VideoService) Submit(ctx context.Context, userName, title, description, filename string, content io.Reader) (*dto.VideoFeedbackItem, error) {
	if s.storage == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "video storage is not configured")
	}

	id := uuid.NewString()
	relPath := path.Join("videos", fmt.Sprintf("%s%s", id, path.Ext(filename)))
	_, size, err := s.storage.SaveStream(relPath, content)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store video file")
	}

	video := &models.VideoFeedback{
		ID:            id,
		UserName:      userName,
		Title:         title,
		Description:   description,
		VideoFile:     relPath,
		FileSize:      size,
		SubmittedAt:   time.Now().UTC(),
		AdminFeedback: models.VideoReviewPending,
	}
	if err := s.repo.Create(ctx, video); err != nil {
		if delErr := s.storage.Delete(relPath); delErr != nil {
			s.logger.Warn("failed to remove orphaned video file", zap.String("path", relPath), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record video feedback")
	}

	item := s.toItem(video)
	return &item, nil
}

// SubmitReview records the admin verdict. Only LIKE and DISLIKE are
// accepted; PENDING is the initial state, not a verdict.
func (s *VideoService) SubmitReview(ctx context.Context, claims *models.JWTClaims, id string, req dto.SubmitVideoReviewRequest) (*dto.VideoFeedbackItem, error) {
	review := models.VideoReview(strings.ToUpper(strings.TrimSpace(req.Feedback)))
	if review != models.VideoReviewLike && review != models.VideoReviewDislike {
		return nil, appErrors.Clone(appErrors.ErrInvalidFeedback, "feedback must be LIKE or DISLIKE")
	}

	video, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateReview(ctx, id, review, req.Remarks, claims.UserID, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record review")
	}

	if s.audits != nil {
		payload, _ := json.Marshal(map[string]string{"feedback": string(review)})
		if err := s.audits.CreateAuditLog(ctx, &models.AuditLog{
			UserID:     &claims.UserID,
			Action:     models.AuditActionVideoReview,
			Resource:   "video_feedback",
			ResourceID: &id,
			NewValues:  payload,
		}); err != nil {
			s.logger.Warn("failed to record video review audit log", zap.Error(err))
		}
	}

	video.AdminFeedback = review
	video.AdminRemarks = req.Remarks
	video.ReviewedBy = &claims.UserID
	video.ReviewedAt = &now
	item := s.toItem(video)
	return &item, nil
}

// Stats returns the review queue counters. Non-admin requesters receive
// zeros rather than an error.
func (s *VideoService) Stats(ctx context.Context, claims *models.JWTClaims) (dto.VideoFeedbackStats, error) {
	if claims == nil || claims.Role != models.RoleAdmin {
		return dto.VideoFeedbackStats{}, nil
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return dto.VideoFeedbackStats{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute video feedback stats")
	}
	return stats, nil
}

// OpenFile validates a signed token and opens the referenced video.
func (s *VideoService) OpenFile(token string) (io.ReadCloser, string, error) {
	if s.signer == nil || s.storage == nil {
		return nil, "", appErrors.Clone(appErrors.ErrInternal, "video storage is not configured")
	}
	_, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	rc, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "video file not found")
	}
	return rc, path.Base(relPath), nil
}

func (s *VideoService) find(ctx context.Context, id string) (*models.VideoFeedback, error) {
	video, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "video feedback not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load video feedback")
	}
	return video, nil
}

func (s *VideoService) toItem(video *models.VideoFeedback) dto.VideoFeedbackItem {
	item := dto.VideoFeedbackItem{
		ID:            video.ID,
		UserName:      video.UserName,
		Title:         video.Title,
		Description:   video.Description,
		FileSize:      video.FileSize,
		SubmittedAt:   video.SubmittedAt.UTC().Format(time.RFC3339),
		AdminFeedback: string(video.AdminFeedback),
		AdminRemarks:  video.AdminRemarks,
		ReviewedBy:    video.ReviewedBy,
	}
	if video.ReviewedAt != nil {
		at := video.ReviewedAt.UTC().Format(time.RFC3339)
		item.ReviewedAt = &at
	}
	if s.signer != nil && video.VideoFile != "" {
		if token, _, err := s.signer.Generate(video.ID, video.VideoFile); err == nil {
			item.VideoURL = "/api/v1/media/" + token
		} else {
			s.logger.Warn("failed to sign video url", zap.String("id", video.ID), zap.Error(err))
		}
	}
	return item
}
