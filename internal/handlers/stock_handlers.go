package handlers

import (
	"net/http"

	"easypalm_backend/internal/models"
	"easypalm_backend/internal/services"
	"easypalm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StockHandler holds the stock service.
type StockHandler struct {
	stockService services.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(ss services.StockService) *StockHandler {
	return &StockHandler{stockService: ss}
}

// GetStockLevels handles the current-inventory view with optional warehouse
// and product-name filters.
func (h *StockHandler) GetStockLevels(c *gin.Context) {
	var filters models.StockFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	levels, err := h.stockService.GetStockLevels(filters)
	if err != nil {
		utils.LogError(err, "GetStockLevels: Error from stockService.GetStockLevels")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch stock levels.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, levels)
}

// GetStockInHistory handles the goods-received log view.
func (h *StockHandler) GetStockInHistory(c *gin.Context) {
	entries, err := h.stockService.GetStockInHistory()
	if err != nil {
		utils.LogError(err, "GetStockInHistory: Error from stockService.GetStockInHistory")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch stock-in history.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, entries)
}
