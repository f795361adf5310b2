package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/psc-ict/opencourt-api/internal/dto"
	"github.com/psc-ict/opencourt-api/internal/middleware"
	"github.com/psc-ict/opencourt-api/internal/models"
	appErrors "github.com/psc-ict/opencourt-api/pkg/errors"
)

type fakeStaffSrv struct {
	users      []models.User
	user       *models.User
	err        error
	lastFilter models.UserFilter
}

func (f *fakeStaffSrv) List(_ context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	f.lastFilter = filter
	return f.users, &models.Pagination{Page: 1, PageSize: 50, TotalCount: len(f.users)}, f.err
}

func (f *fakeStaffSrv) Get(context.Context, string) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeStaffSrv) Create(context.Context, *models.JWTClaims, dto.CreateStaffRequest) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeStaffSrv) Update(context.Context, *models.JWTClaims, string, dto.UpdateStaffRequest) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeStaffSrv) Delete(context.Context, *models.JWTClaims, string) error {
	return f.err
}

func TestStaffHandlerListParsesActiveFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeStaffSrv{}
	h := NewStaffHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/staff?active=true&search=malik", nil)
	c.Set(middleware.ContextUserKey, testClaims())

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "malik", srv.lastFilter.Search)
	if assert.NotNil(t, srv.lastFilter.Active) {
		assert.True(t, *srv.lastFilter.Active)
	}
}

func TestStaffHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeStaffSrv{err: appErrors.Clone(appErrors.ErrConflict, "username already taken")}
	h := NewStaffHandler(srv)

	body, _ := json.Marshal(dto.CreateStaffRequest{Username: "malik", Password: "secret1", PoliceStation: "City"})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/staff", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, testClaims())

	h.Create(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStaffHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeStaffSrv{err: appErrors.ErrNotFound}
	h := NewStaffHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/staff/user-9", nil)
	c.Params = gin.Params{{Key: "id", Value: "user-9"}}
	c.Set(middleware.ContextUserKey, testClaims())

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
