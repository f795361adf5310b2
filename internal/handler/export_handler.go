package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/psc-ict/opencourt-api/internal/models"
	"github.com/psc-ict/opencourt-api/internal/service"
	appErrors "github.com/psc-ict/opencourt-api/pkg/errors"
	"github.com/psc-ict/opencourt-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, claims *models.JWTClaims, filter models.ApplicationFilter, format service.ExportFormat) (*service.ExportFile, error)
}

type applicationLister interface {
	ListAll(ctx context.Context, claims *models.JWTClaims, filter models.ApplicationFilter) ([]models.Application, error)
}

// ExportHandler streams the filtered record set as JSON or a rendered file.
type ExportHandler struct {
	exporter     exportService
	applications applicationLister
}

// NewExportHandler constructs the handler.
func NewExportHandler(exporter exportService, applications applicationLister) *ExportHandler {
	return &ExportHandler{exporter: exporter, applications: applications}
}

// Export godoc
// @Summary Export applications
// @Description Role-scoped, filtered, unpaginated export. Default JSON; format=csv|pdf|xlsx streams a file
// @Tags Applications
// @Produce json
// @Param format query string false "Export format (csv, pdf, xlsx)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /export-applications [get]
func (h *ExportHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := applicationFilterFromQuery(c)
	format := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if format == "" || format == "json" {
		records, err := h.applications.ListAll(c.Request.Context(), claims, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, gin.H{"count": len(records), "results": records}, nil)
		return
	}

	file, err := h.exporter.Export(c.Request.Context(), claims, filter, service.ExportFormat(format))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, int64(len(file.Payload)), file.ContentType, bytes.NewReader(file.Payload), nil)
}
