package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/psc-ict/opencourt-api/pkg/response"
)

type metadataService interface {
	PoliceStations(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
	Divisions(ctx context.Context) ([]string, error)
}

// MetaHandler serves the distinct filter values used by list screens.
type MetaHandler struct {
	service metadataService
}

// NewMetaHandler constructs the handler.
func NewMetaHandler(service metadataService) *MetaHandler {
	return &MetaHandler{service: service}
}

// PoliceStations godoc
// @Summary Distinct police stations
// @Tags Metadata
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /police-stations [get]
func (h *MetaHandler) PoliceStations(c *gin.Context) {
	values, err := h.service.PoliceStations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, values, nil)
}

// Categories godoc
// @Summary Distinct categories
// @Tags Metadata
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *MetaHandler) Categories(c *gin.Context) {
	values, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, values, nil)
}

// Divisions godoc
// @Summary Distinct divisions
// @Tags Metadata
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /divisions [get]
func (h *MetaHandler) Divisions(c *gin.Context) {
	values, err := h.service.Divisions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, values, nil)
}
