package handlers

import (
	"errors"
	"net/http"

	"easypalm_backend/internal/services"
	"easypalm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// WarehouseHandler holds the warehouse service.
type WarehouseHandler struct {
	warehouseService services.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler.
func NewWarehouseHandler(ws services.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: ws}
}

// CreateWarehouse handles registering a new warehouse.
func (h *WarehouseHandler) CreateWarehouse(c *gin.Context) {
	var req services.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	warehouse, err := h.warehouseService.CreateWarehouse(req)
	if err != nil {
		if errors.Is(err, services.ErrWarehouseValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrWarehouseDuplicate) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Warehouse with this name already exists.", err.Error()))
		} else {
			utils.LogError(err, "CreateWarehouse: Error from warehouseService.CreateWarehouse")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create warehouse.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, warehouse)
}

// GetWarehouses handles listing warehouses with an optional search term.
func (h *WarehouseHandler) GetWarehouses(c *gin.Context) {
	var searchTerm *string
	if search := c.Query("search"); search != "" {
		searchTerm = &search
	}

	warehouses, err := h.warehouseService.GetWarehouses(searchTerm)
	if err != nil {
		utils.LogError(err, "GetWarehouses: Error from warehouseService.GetWarehouses")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch warehouses.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, warehouses)
}

// GetWarehouseByID handles fetching a single warehouse.
func (h *WarehouseHandler) GetWarehouseByID(c *gin.Context) {
	warehouse, err := h.warehouseService.GetWarehouseByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrWarehouseNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Warehouse not found.", err.Error()))
		} else {
			utils.LogError(err, "GetWarehouseByID: Error from warehouseService.GetWarehouseByID")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch warehouse.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, warehouse)
}

// UpdateWarehouse handles updating a warehouse's details.
func (h *WarehouseHandler) UpdateWarehouse(c *gin.Context) {
	var req services.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	warehouse, err := h.warehouseService.UpdateWarehouse(c.Param("id"), req)
	if err != nil {
		if errors.Is(err, services.ErrWarehouseNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Warehouse not found.", err.Error()))
		} else if errors.Is(err, services.ErrWarehouseValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrWarehouseDuplicate) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Warehouse with this name already exists.", err.Error()))
		} else {
			utils.LogError(err, "UpdateWarehouse: Error from warehouseService.UpdateWarehouse")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update warehouse.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, warehouse)
}

// DeleteWarehouse handles removing an empty warehouse.
func (h *WarehouseHandler) DeleteWarehouse(c *gin.Context) {
	if err := h.warehouseService.DeleteWarehouse(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrWarehouseNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Warehouse not found.", err.Error()))
		} else if errors.Is(err, services.ErrWarehouseHasStock) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Warehouse still holds stock and cannot be deleted.", err.Error()))
		} else {
			utils.LogError(err, "DeleteWarehouse: Error from warehouseService.DeleteWarehouse")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete warehouse.", "Internal error"))
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GetWarehouseSummaries handles the capacity-utilization view.
func (h *WarehouseHandler) GetWarehouseSummaries(c *gin.Context) {
	summaries, err := h.warehouseService.GetWarehouseSummaries()
	if err != nil {
		utils.LogError(err, "GetWarehouseSummaries: Error from warehouseService.GetWarehouseSummaries")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch warehouse summaries.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, summaries)
}
