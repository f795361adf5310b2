package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/psc-ict/opencourt-api/internal/middleware"
	"github.com/psc-ict/opencourt-api/internal/models"
	"github.com/psc-ict/opencourt-api/internal/service"
	appErrors "github.com/psc-ict/opencourt-api/pkg/errors"
)

type fakeExportSrv struct {
	file       *service.ExportFile
	err        error
	lastFormat service.ExportFormat
}

func (f *fakeExportSrv) Export(_ context.Context, _ *models.JWTClaims, _ models.ApplicationFilter, format service.ExportFormat) (*service.ExportFile, error) {
	f.lastFormat = format
	return f.file, f.err
}

type fakeListerSrv struct {
	records []models.Application
	err     error
}

func (f *fakeListerSrv) ListAll(context.Context, *models.JWTClaims, models.ApplicationFilter) ([]models.Application, error) {
	return f.records, f.err
}

func TestExportHandlerDefaultsToJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lister := &fakeListerSrv{records: []models.Application{{ID: "app-1", SrNo: 1}, {ID: "app-2", SrNo: 2}}}
	h := NewExportHandler(&fakeExportSrv{}, lister)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/export-applications", nil)
	c.Set(middleware.ContextUserKey, testClaims())

	h.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data struct {
			Count   int                  `json:"count"`
			Results []models.Application `json:"results"`
		} `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, 2, envelope.Data.Count)
	assert.Len(t, envelope.Data.Results, 2)
}

func TestExportHandlerStreamsFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exporter := &fakeExportSrv{file: &service.ExportFile{
		Payload:     []byte("sr,name\n1,Ali\n"),
		ContentType: "text/csv",
		Filename:    "applications_20250101.csv",
	}}
	h := NewExportHandler(exporter, &fakeListerSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/export-applications?format=csv", nil)
	c.Set(middleware.ContextUserKey, testClaims())

	h.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ExportFormatCSV, exporter.lastFormat)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "applications_20250101.csv")
	assert.Equal(t, "sr,name\n1,Ali\n", rec.Body.String())
}

func TestExportHandlerUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exporter := &fakeExportSrv{err: appErrors.Clone(appErrors.ErrValidation, "unsupported export format")}
	h := NewExportHandler(exporter, &fakeListerSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/export-applications?format=docx", nil)
	c.Set(middleware.ContextUserKey, testClaims())

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
