package controllers

import (
	"net/http"

	"query-hub/apperrors"
	"query-hub/models"
	"query-hub/services"

	"github.com/gin-gonic/gin"
)

// DocumentController handles HTTP requests for one collection.
type DocumentController struct {
	service    services.DocumentService
	filterable bool
}

// NewDocumentController creates a DocumentController whose listing ignores
// query parameters.
func NewDocumentController(service services.DocumentService) *DocumentController {
	return &DocumentController{service: service}
}

// NewFilterableDocumentController creates a DocumentController whose listing
// honours the search, filter and sort query parameters.
func NewFilterableDocumentController(service services.DocumentService) *DocumentController {
	return &DocumentController{service: service, filterable: true}
}

// List handles GET /<collection>.
func (dc *DocumentController) List(c *gin.Context) {
	var params models.ListParams
	if dc.filterable {
		// Unknown keys are ignored.
		_ = c.ShouldBindQuery(&params)
	}

	docs, err := dc.service.List(c.Request.Context(), params)
	if err != nil {
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}

	c.JSON(http.StatusOK, docs)
}

// Get handles GET /<collection>/:id. A missing document renders as null.
func (dc *DocumentController) Get(c *gin.Context) {
	doc, err := dc.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Create handles POST /<collection>.
func (dc *DocumentController) Create(c *gin.Context) {
	var doc models.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.ErrInvalidBody, err))
		return
	}

	ack, err := dc.service.Create(c.Request.Context(), doc)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ack)
}

// Update handles PUT /<collection>/:id.
func (dc *DocumentController) Update(c *gin.Context) {
	var fields models.Document
	if err := c.ShouldBindJSON(&fields); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.ErrInvalidBody, err))
		return
	}

	ack, err := dc.service.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ack)
}

// Delete handles DELETE /<collection>/:id.
func (dc *DocumentController) Delete(c *gin.Context) {
	ack, err := dc.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ack)
}
