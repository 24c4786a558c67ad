package handlers

import (
	"errors"
	"net/http"

	"easypalm_backend/internal/services"
	"easypalm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// FarmerHandler holds the farmer service.
type FarmerHandler struct {
	farmerService services.FarmerService
}

// NewFarmerHandler creates a new FarmerHandler.
func NewFarmerHandler(fs services.FarmerService) *FarmerHandler {
	return &FarmerHandler{farmerService: fs}
}

// CreateFarmer handles registering a new farmer.
func (h *FarmerHandler) CreateFarmer(c *gin.Context) {
	var req services.CreateFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	farmer, err := h.farmerService.CreateFarmer(req)
	if err != nil {
		if errors.Is(err, services.ErrFarmerValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrFarmerDuplicate) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Farmer with this citizen ID already exists.", err.Error()))
		} else {
			utils.LogError(err, "CreateFarmer: Error from farmerService.CreateFarmer")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create farmer.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, farmer)
}

// GetFarmers handles listing farmers with an optional search term.
func (h *FarmerHandler) GetFarmers(c *gin.Context) {
	var searchTerm *string
	if search := c.Query("search"); search != "" {
		searchTerm = &search
	}

	farmers, err := h.farmerService.GetFarmers(searchTerm)
	if err != nil {
		utils.LogError(err, "GetFarmers: Error from farmerService.GetFarmers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch farmers.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, farmers)
}

// GetFarmerByID handles fetching a single farmer.
func (h *FarmerHandler) GetFarmerByID(c *gin.Context) {
	farmer, err := h.farmerService.GetFarmerByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrFarmerNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Farmer not found.", err.Error()))
		} else {
			utils.LogError(err, "GetFarmerByID: Error from farmerService.GetFarmerByID")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch farmer.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, farmer)
}

// UpdateFarmer handles updating a farmer's details.
func (h *FarmerHandler) UpdateFarmer(c *gin.Context) {
	var req services.UpdateFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	farmer, err := h.farmerService.UpdateFarmer(c.Param("id"), req)
	if err != nil {
		if errors.Is(err, services.ErrFarmerNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Farmer not found.", err.Error()))
		} else if errors.Is(err, services.ErrFarmerValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrFarmerDuplicate) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Farmer with this citizen ID already exists.", err.Error()))
		} else {
			utils.LogError(err, "UpdateFarmer: Error from farmerService.UpdateFarmer")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update farmer.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, farmer)
}

// DeleteFarmer handles removing a farmer with no purchase history.
func (h *FarmerHandler) DeleteFarmer(c *gin.Context) {
	if err := h.farmerService.DeleteFarmer(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrFarmerNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Farmer not found.", err.Error()))
		} else if errors.Is(err, services.ErrFarmerInUse) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Farmer has purchase orders and cannot be deleted.", err.Error()))
		} else {
			utils.LogError(err, "DeleteFarmer: Error from farmerService.DeleteFarmer")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete farmer.", "Internal error"))
		}
		return
	}
	c.Status(http.StatusNoContent)
}
