package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/psc-ict/opencourt-api/internal/dto"
	"github.com/psc-ict/opencourt-api/internal/models"
	appErrors "github.com/psc-ict/opencourt-api/pkg/errors"
	"github.com/psc-ict/opencourt-api/pkg/response"
)

type videoService interface {
	List(ctx context.Context, filter models.VideoFeedbackFilter) ([]dto.VideoFeedbackItem, *models.Pagination, error)
	Get(ctx context.Context, id string) (*dto.VideoFeedbackItem, error)
	Submit(ctx context.Context, userName, title, description, filename string, content io.Reader) (*dto.VideoFeedbackItem, error)
	SubmitReview(ctx context.Context, claims *models.JWTClaims, id string, req dto.SubmitVideoReviewRequest) (*dto.VideoFeedbackItem, error)
	Stats(ctx context.Context, claims *models.JWTClaims) (dto.VideoFeedbackStats, error)
	OpenFile(token string) (io.ReadCloser, string, error)
}

// VideoHandler exposes the video feedback review queue.
type VideoHandler struct {
	service       videoService
	maxUploadSize int64
}

// NewVideoHandler constructs the handler.
func NewVideoHandler(service videoService, maxUploadSize int64) *VideoHandler {
	return &VideoHandler{service: service, maxUploadSize: maxUploadSize}
}

// List godoc
// @Summary List video feedback submissions
// @Tags VideoFeedback
// @Produce json
// @Param review query string false "Review state filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /video-feedback [get]
func (h *VideoHandler) List(c *gin.Context) {
	var filter models.VideoFeedbackFilter
	filter.Review = strings.TrimSpace(c.Query("review"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil {
		filter.PageSize = size
	}

	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a video feedback submission
// @Tags VideoFeedback
// @Produce json
// @Param id path string true "Video feedback ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /video-feedback/{id} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Submit godoc
// @Summary Submit a feedback video
// @Tags VideoFeedback
// @Accept multipart/form-data
// @Produce json
// @Param user_name formData string false "Submitter name, defaults to account username"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param video formData file true "Video file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /video-feedback [post]
func (h *VideoHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "video file is required"))
		return
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidFile, fmt.Sprintf("file exceeds the %d byte upload limit", h.maxUploadSize)))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file"))
		return
	}
	defer src.Close()

	userName := strings.TrimSpace(c.PostForm("user_name"))
	if userName == "" {
		userName = claims.Username
	}

	item, err := h.service.Submit(c.Request.Context(), userName, c.PostForm("title"), c.PostForm("description"), fileHeader.Filename, src)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, item)
}

// SubmitReview godoc
// @Summary Record the admin verdict on a video
// @Tags VideoFeedback
// @Accept json
// @Produce json
// @Param id path string true "Video feedback ID"
// @Param payload body dto.SubmitVideoReviewRequest true "Verdict"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /video-feedback/{id}/submit_feedback [post]
func (h *VideoHandler) SubmitReview(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SubmitVideoReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "feedback is required"))
		return
	}

	item, err := h.service.SubmitReview(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, item, nil)
}

// Stats godoc
// @Summary Video feedback counters
// @Description Non-admin callers receive zeroed counters
// @Tags VideoFeedback
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /video-feedback-stats [get]
func (h *VideoHandler) Stats(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats, nil)
}

// Media godoc
// @Summary Download a video by signed token
// @Tags VideoFeedback
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /media/{token} [get]
func (h *VideoHandler) Media(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	file, filename, err := h.service.OpenFile(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", file, nil)
}
