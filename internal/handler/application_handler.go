package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/psc-ict/opencourt-api/internal/dto"
	"github.com/psc-ict/opencourt-api/internal/models"
	appErrors "github.com/psc-ict/opencourt-api/pkg/errors"
	"github.com/psc-ict/opencourt-api/pkg/response"
)

type applicationService interface {
	List(ctx context.Context, claims *models.JWTClaims, filter models.ApplicationFilter) ([]models.Application, *models.Pagination, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Application, error)
	Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateApplicationRequest) (*models.Application, error)
	Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateApplicationRequest) (*models.Application, error)
	UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateStatusRequest) (*models.Application, error)
	UpdateFeedback(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateFeedbackRequest) (*models.Application, error)
	Delete(ctx context.Context, claims *models.JWTClaims, id string) error
}

type importService interface {
	Import(ctx context.Context, claims *models.JWTClaims, filename string, reader io.Reader) (*dto.ImportResult, error)
}

// ApplicationHandler wires grievance record endpoints to the services.
type ApplicationHandler struct {
	service       applicationService
	importer      importService
	maxUploadSize int64
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(svc applicationService, importer importService, maxUploadSize int64) *ApplicationHandler {
	return &ApplicationHandler{service: svc, importer: importer, maxUploadSize: maxUploadSize}
}

// applicationFilterFromQuery reads listing parameters. Malformed date
// params are ignored rather than rejected.
func applicationFilterFromQuery(c *gin.Context) models.ApplicationFilter {
	var filter models.ApplicationFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.PoliceStation = strings.TrimSpace(c.Query("police_station"))
	filter.Division = strings.TrimSpace(c.Query("division"))
	filter.Category = strings.TrimSpace(c.Query("category"))
	filter.Status = strings.TrimSpace(c.Query("status"))
	filter.Feedback = strings.TrimSpace(c.Query("feedback"))
	filter.MarkedTo = strings.TrimSpace(c.Query("marked_to"))
	filter.Ordering = strings.TrimSpace(c.Query("ordering"))
	if from := strings.TrimSpace(c.Query("from_date")); from != "" {
		if parsed, err := time.Parse("2006-01-02", from); err == nil {
			filter.FromDate = &parsed
		}
	}
	if to := strings.TrimSpace(c.Query("to_date")); to != "" {
		if parsed, err := time.Parse("2006-01-02", to); err == nil {
			filter.ToDate = &parsed
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil {
		filter.PageSize = size
	}
	return filter
}

// List godoc
// @Summary List grievance applications
// @Tags Applications
// @Produce json
// @Param search query string false "Search across sr_no, name, dairy_no, contact"
// @Param police_station query string false "Police station filter"
// @Param division query string false "Division filter"
// @Param category query string false "Category filter"
// @Param status query string false "Status filter"
// @Param feedback query string false "Feedback filter"
// @Param from_date query string false "Date lower bound (YYYY-MM-DD)"
// @Param to_date query string false "Date upper bound (YYYY-MM-DD)"
// @Param ordering query string false "Sort field, prefix with - for descending"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	records, pagination, err := h.service.List(c.Request.Context(), claims, applicationFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, records, pagination)
}

// Get godoc
// @Summary Get a single application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	record, err := h.service.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record, nil)
}

// Create godoc
// @Summary Create an application
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body dto.CreateApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	record, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, record)
}

// Update godoc
// @Summary Update an application
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.UpdateApplicationRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /applications/{id} [patch]
func (h *ApplicationHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	record, err := h.service.Update(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record, nil)
}

// UpdateStatus godoc
// @Summary Update hearing status
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /applications/{id}/update_status [patch]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status is required"))
		return
	}

	record, err := h.service.UpdateStatus(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record, nil)
}

// UpdateFeedback godoc
// @Summary Update applicant feedback
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.UpdateFeedbackRequest true "Feedback with optional remarks"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /applications/{id}/update_feedback [patch]
func (h *ApplicationHandler) UpdateFeedback(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "feedback is required"))
		return
	}

	record, err := h.service.UpdateFeedback(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete an application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Import godoc
// @Summary Import applications from a spreadsheet
// @Tags Applications
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Excel workbook (.xlsx/.xls)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /upload-excel [post]
func (h *ApplicationHandler) Import(c *gin.Context) {
	if h.importer == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "import service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
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

	result, err := h.importer.Import(c.Request.Context(), claims, fileHeader.Filename, src)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}
