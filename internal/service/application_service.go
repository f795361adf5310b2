package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/psc-ict/opencourt-api/internal/dto"
	"github.com/psc-ict/opencourt-api/internal/models"
	appErrors "github.com/psc-ict/opencourt-api/pkg/errors"
)

type applicationRepository interface {
	List(ctx context.Context, scope models.ApplicationScope, filter models.ApplicationFilter) ([]models.Application, int, error)
	ListAll(ctx context.Context, scope models.ApplicationScope, filter models.ApplicationFilter) ([]models.Application, error)
	FindByID(ctx context.Context, id string) (*models.Application, error)
	FindBySrNo(ctx context.Context, srNo int64) (*models.Application, error)
	Create(ctx context.Context, record *models.Application) error
	Update(ctx context.Context, record *models.Application) error
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
	UpdateFeedback(ctx context.Context, id string, feedback models.FeedbackStatus, remarks string) error
	Delete(ctx context.Context, id string) error
	DistinctStations(ctx context.Context) ([]string, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctDivisions(ctx context.Context) ([]string, error)
}

// ApplicationService implements the grievance record use cases. All reads
// apply the requester's station scope; a record outside the scope is
// indistinguishable from a missing one.
type ApplicationService struct {
	repo      applicationRepository
	audits    auditRecorder
	stats     *StatsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(repo applicationRepository, audits auditRecorder, stats *StatsService, validate *validator.Validate, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ApplicationService{repo: repo, audits: normalizeAuditRecorder(audits), stats: stats, validator: validate, logger: logger}
}

// List returns the visible page of records with pagination metadata.
func (s *ApplicationService) List(ctx context.Context, claims *models.JWTClaims, filter models.ApplicationFilter) ([]models.Application, *models.Pagination, error) {
	scope := models.ScopeFor(claims.Role, claims.PoliceStation)

	records, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	if records == nil {
		records = []models.Application{}
	}

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

	return records, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// ListAll returns the full visible filtered set for export.
func (s *ApplicationService) ListAll(ctx context.Context, claims *models.JWTClaims, filter models.ApplicationFilter) ([]models.Application, error) {
	scope := models.ScopeFor(claims.Role, claims.PoliceStation)
	records, err := s.repo.ListAll(ctx, scope, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export applications")
	}
	if records == nil {
		records = []models.Application{}
	}
	return records, nil
}

// Get returns a single visible record.
func (s *ApplicationService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Application, error) {
	record, err := s.findVisible(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Create inserts a manually entered record, owned by the requester.
func (s *ApplicationService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateApplicationRequest) (*models.Application, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}

	if _, err := s.repo.FindBySrNo(ctx, req.SrNo); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an application with this sr_no already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check sr_no")
	}

	userID := claims.UserID
	record := &models.Application{
		SrNo:          req.SrNo,
		DairyNo:       req.DairyNo,
		Name:          req.Name,
		Contact:       req.Contact,
		MarkedTo:      req.MarkedTo,
		Date:          parseImportDate(req.Date),
		MarkedBy:      req.MarkedBy,
		Timeline:      req.Timeline,
		PoliceStation: req.PoliceStation,
		Division:      req.Division,
		Category:      req.Category,
		Status:        models.StatusPending,
		Days:          req.Days,
		Feedback:      models.FeedbackPending,
		DairyPS:       req.DairyPS,
		Remarks:       req.Remarks,
		CreatedBy:     &userID,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create application")
	}

	s.invalidate(ctx)
	return record, nil
}

// Update overwrites the provided fields of a visible record.
func (s *ApplicationService) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateApplicationRequest) (*models.Application, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}

	record, err := s.findVisible(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&record.DairyNo, req.DairyNo)
	applyString(&record.Name, req.Name)
	applyString(&record.Contact, req.Contact)
	applyString(&record.MarkedTo, req.MarkedTo)
	applyString(&record.MarkedBy, req.MarkedBy)
	applyString(&record.Timeline, req.Timeline)
	applyString(&record.PoliceStation, req.PoliceStation)
	applyString(&record.Division, req.Division)
	applyString(&record.Category, req.Category)
	applyString(&record.DairyPS, req.DairyPS)
	applyString(&record.Remarks, req.Remarks)
	if req.Date != nil {
		record.Date = parseImportDate(*req.Date)
	}
	if req.Days != nil {
		record.Days = req.Days
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
	}

	s.invalidate(ctx)
	return record, nil
}

// UpdateStatus validates and applies a workflow status transition.
// Transitions are unrestricted within the choice set.
func (s *ApplicationService) UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateStatusRequest) (*models.Application, error) {
	status := models.ApplicationStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !models.ValidStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, "status must be one of PENDING, HEARD, REFERRED, CLOSED")
	}

	record, err := s.findVisible(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}

	s.auditChange(ctx, claims, models.AuditActionStatusChange, id, string(record.Status), string(status))
	s.invalidate(ctx)

	record.Status = status
	record.UpdatedAt = time.Now().UTC()
	return record, nil
}

// UpdateFeedback validates and applies a feedback transition with
// optional remarks.
func (s *ApplicationService) UpdateFeedback(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateFeedbackRequest) (*models.Application, error) {
	feedback := models.FeedbackStatus(strings.ToUpper(strings.TrimSpace(req.Feedback)))
	if !models.ValidFeedback(feedback) {
		return nil, appErrors.Clone(appErrors.ErrInvalidFeedback, "feedback must be one of PENDING, POSITIVE, NEGATIVE")
	}

	record, err := s.findVisible(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	remarks := req.Remarks
	if remarks == "" {
		remarks = record.Remarks
	}

	if err := s.repo.UpdateFeedback(ctx, id, feedback, remarks); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update feedback")
	}

	s.auditChange(ctx, claims, models.AuditActionFeedbackChange, id, string(record.Feedback), string(feedback))
	s.invalidate(ctx)

	record.Feedback = feedback
	record.Remarks = remarks
	record.UpdatedAt = time.Now().UTC()
	return record, nil
}

// Delete removes a visible record.
func (s *ApplicationService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	if _, err := s.findVisible(ctx, claims, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete application")
	}
	s.invalidate(ctx)
	return nil
}

// PoliceStations lists the distinct station values.
func (s *ApplicationService) PoliceStations(ctx context.Context) ([]string, error) {
	values, err := s.repo.DistinctStations(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list police stations")
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// Categories lists the distinct category values.
func (s *ApplicationService) Categories(ctx context.Context) ([]string, error) {
	values, err := s.repo.DistinctCategories(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// Divisions lists the distinct division values.
func (s *ApplicationService) Divisions(ctx context.Context) ([]string, error) {
	values, err := s.repo.DistinctDivisions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list divisions")
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// findVisible loads a record and checks the requester's scope. Records
// outside the scope report NOT_FOUND rather than FORBIDDEN so their
// existence is not revealed.
func (s *ApplicationService) findVisible(ctx context.Context, claims *models.JWTClaims, id string) (*models.Application, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}

	scope := models.ScopeFor(claims.Role, claims.PoliceStation)
	if !scope.AllStations {
		if scope.Empty() || !strings.EqualFold(strings.TrimSpace(record.PoliceStation), scope.Station) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
	}
	return record, nil
}

func (s *ApplicationService) auditChange(ctx context.Context, claims *models.JWTClaims, action, recordID, oldValue, newValue string) {
	if s.audits == nil || claims == nil {
		return
	}
	oldPayload, _ := json.Marshal(map[string]string{"value": oldValue})
	newPayload, _ := json.Marshal(map[string]string{"value": newValue})
	if err := s.audits.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &claims.UserID,
		Action:     action,
		Resource:   "applications",
		ResourceID: &recordID,
		OldValues:  oldPayload,
		NewValues:  newPayload,
	}); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}

func (s *ApplicationService) invalidate(ctx context.Context) {
	if s.stats != nil {
		s.stats.InvalidateDashboard(ctx)
	}
}
