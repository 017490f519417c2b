package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tax-document-service/internal/models"
	"tax-document-service/internal/repository"
	"tax-document-service/internal/services"
)

// DocumentHandler handles transaction-document HTTP requests
type DocumentHandler struct {
	documents  *services.DocumentService
	validator  *services.AddressValidator
	warehouses repository.WarehouseRepositoryInterface
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents *services.DocumentService, validator *services.AddressValidator, warehouses repository.WarehouseRepositoryInterface) *DocumentHandler {
	return &DocumentHandler{
		documents:  documents,
		validator:  validator,
		warehouses: warehouses,
	}
}

// BuildDocument handles POST /api/v1/tax-documents/build
func (h *DocumentHandler) BuildDocument(c *gin.Context) {
	var req models.BuildDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	response, err := h.documents.BuildDocument(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to build document",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ValidateAddress handles POST /api/v1/tax-documents/validate-address
func (h *DocumentHandler) ValidateAddress(c *gin.Context) {
	var req models.ValidateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	result := h.validator.Validate(c.Request.Context(), &req.Order)
	c.JSON(http.StatusOK, result)
}

// ==================== Warehouse mirror CRUD ====================

// ListWarehouses handles GET /api/v1/warehouses
func (h *DocumentHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.warehouses.List(c.Request.Context(), getTenantID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list warehouses",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, warehouses)
}

// GetWarehouse handles GET /api/v1/warehouses/:code
func (h *DocumentHandler) GetWarehouse(c *gin.Context) {
	warehouse, err := h.warehouses.GetByCode(c.Request.Context(), getTenantID(c), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Warehouse not found",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, warehouse)
}

// CreateWarehouse handles POST /api/v1/warehouses
func (h *DocumentHandler) CreateWarehouse(c *gin.Context) {
	var warehouse models.Warehouse
	if err := c.ShouldBindJSON(&warehouse); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	warehouse.TenantID = getTenantID(c)
	if err := h.warehouses.Create(c.Request.Context(), &warehouse); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repository.ErrReservedWarehouseCode) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error":   "Failed to create warehouse",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, warehouse)
}

// UpdateWarehouse handles PUT /api/v1/warehouses/:id
func (h *DocumentHandler) UpdateWarehouse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid warehouse ID",
			"message": err.Error(),
		})
		return
	}

	var warehouse models.Warehouse
	if err := c.ShouldBindJSON(&warehouse); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	warehouse.ID = id
	warehouse.TenantID = getTenantID(c)
	if err := h.warehouses.Update(c.Request.Context(), &warehouse); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repository.ErrReservedWarehouseCode) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error":   "Failed to update warehouse",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, warehouse)
}

// DeleteWarehouse handles DELETE /api/v1/warehouses/:id
func (h *DocumentHandler) DeleteWarehouse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid warehouse ID",
			"message": err.Error(),
		})
		return
	}

	if err := h.warehouses.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete warehouse",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Helper function to get tenant ID from context
func getTenantID(c *gin.Context) string {
	tenantID := c.GetHeader("X-Tenant-ID")
	if tenantID == "" {
		// Default to demo tenant for development
		return "00000000-0000-0000-0000-000000000001"
	}
	return tenantID
}
