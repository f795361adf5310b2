package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psc-ict/opencourt-api/internal/dto"
	"github.com/psc-ict/opencourt-api/internal/middleware"
	"github.com/psc-ict/opencourt-api/internal/models"
	appErrors "github.com/psc-ict/opencourt-api/pkg/errors"
)

type fakeApplicationSrv struct {
	records    []models.Application
	record     *models.Application
	err        error
	lastFilter models.ApplicationFilter
	lastID     string
}

func (f *fakeApplicationSrv) List(_ context.Context, _ *models.JWTClaims, filter models.ApplicationFilter) ([]models.Application, *models.Pagination, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.records, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(f.records)}, nil
}

func (f *fakeApplicationSrv) Get(_ context.Context, _ *models.JWTClaims, id string) (*models.Application, error) {
	f.lastID = id
	return f.record, f.err
}

func (f *fakeApplicationSrv) Create(context.Context, *models.JWTClaims, dto.CreateApplicationRequest) (*models.Application, error) {
	return f.record, f.err
}

func (f *fakeApplicationSrv) Update(_ context.Context, _ *models.JWTClaims, id string, _ dto.UpdateApplicationRequest) (*models.Application, error) {
	f.lastID = id
	return f.record, f.err
}

func (f *fakeApplicationSrv) UpdateStatus(_ context.Context, _ *models.JWTClaims, id string, _ dto.UpdateStatusRequest) (*models.Application, error) {
	f.lastID = id
	return f.record, f.err
}

func (f *fakeApplicationSrv) UpdateFeedback(_ context.Context, _ *models.JWTClaims, id string, _ dto.UpdateFeedbackRequest) (*models.Application, error) {
	f.lastID = id
	return f.record, f.err
}

func (f *fakeApplicationSrv) Delete(_ context.Context, _ *models.JWTClaims, id string) error {
	f.lastID = id
	return f.err
}

type fakeImportSrv struct {
	result       *dto.ImportResult
	err          error
	lastFilename string
}

func (f *fakeImportSrv) Import(_ context.Context, _ *models.JWTClaims, filename string, _ io.Reader) (*dto.ImportResult, error) {
	f.lastFilename = filename
	return f.result, f.err
}

func testClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", Username: "admin", Role: models.RoleAdmin}
}

func TestApplicationHandlerListRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewApplicationHandler(&fakeApplicationSrv{}, nil, 0)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/applications", nil)

	h.List(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApplicationHandlerListParsesFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeApplicationSrv{}
	h := NewApplicationHandler(srv, nil, 0)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/applications?search=khan&police_station=City&status=PENDING&from_date=2025-01-01&page=2&page_size=25", nil)
	c.Set(middleware.ContextUserKey, testClaims())

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "khan", srv.lastFilter.Search)
	assert.Equal(t, "City", srv.lastFilter.PoliceStation)
	assert.Equal(t, "PENDING", srv.lastFilter.Status)
	require.NotNil(t, srv.lastFilter.FromDate)
	assert.Equal(t, "2025-01-01", srv.lastFilter.FromDate.Format("2006-01-02"))
	assert.Equal(t, 2, srv.lastFilter.Page)
	assert.Equal(t, 25, srv.lastFilter.PageSize)
}

func TestApplicationHandlerListIgnoresMalformedDates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeApplicationSrv{}
	h := NewApplicationHandler(srv, nil, 0)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/applications?from_date=not-a-date&to_date=31-31-2025", nil)
	c.Set(middleware.ContextUserKey, testClaims())

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.lastFilter.FromDate)
	assert.Nil(t, srv.lastFilter.ToDate)
}

func TestApplicationHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeApplicationSrv{err: appErrors.ErrNotFound}
	h := NewApplicationHandler(srv, nil, 0)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/applications/app-9", nil)
	c.Params = gin.Params{{Key: "id", Value: "app-9"}}
	c.Set(middleware.ContextUserKey, testClaims())

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "app-9", srv.lastID)
}

func TestApplicationHandlerCreateRejectsBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewApplicationHandler(&fakeApplicationSrv{}, nil, 0)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, testClaims())

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplicationHandlerCreateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeApplicationSrv{record: &models.Application{ID: "app-1", SrNo: 7, Name: "Ali"}}
	h := NewApplicationHandler(srv, nil, 0)

	body, _ := json.Marshal(dto.CreateApplicationRequest{SrNo: 7, Name: "Ali"})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/applications", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, testClaims())

	h.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestApplicationHandlerImportRequiresFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewApplicationHandler(&fakeApplicationSrv{}, &fakeImportSrv{}, 0)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/upload-excel", nil)
	c.Set(middleware.ContextUserKey, testClaims())

	h.Import(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplicationHandlerImportEnforcesSizeLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	importer := &fakeImportSrv{result: &dto.ImportResult{}}
	h := NewApplicationHandler(&fakeApplicationSrv{}, importer, 4)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "records.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("more than four bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/upload-excel", &buf)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Set(middleware.ContextUserKey, testClaims())

	h.Import(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, importer.lastFilename)
}

func TestApplicationHandlerImportSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	importer := &fakeImportSrv{result: &dto.ImportResult{Created: 3, Updated: 1}}
	h := NewApplicationHandler(&fakeApplicationSrv{}, importer, 0)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "records.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("workbook bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/upload-excel", &buf)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Set(middleware.ContextUserKey, testClaims())

	h.Import(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "records.xlsx", importer.lastFilename)

	var envelope struct {
		Data dto.ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 3, envelope.Data.Created)
	assert.Equal(t, 1, envelope.Data.Updated)
}

func TestApplicationHandlerUpdateStatusPassthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeApplicationSrv{record: &models.Application{ID: "app-1", Status: models.StatusHeard}}
	h := NewApplicationHandler(srv, nil, 0)

	body, _ := json.Marshal(dto.UpdateStatusRequest{Status: "HEARD"})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPatch, "/applications/app-1/update_status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "app-1"}}
	c.Set(middleware.ContextUserKey, testClaims())

	h.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "app-1", srv.lastID)
}
