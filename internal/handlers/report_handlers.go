package handlers

import (
	"errors"
	"net/http"

	"easypalm_backend/internal/services"
	"easypalm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the report service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetAdminDashboard handles the admin dashboard summary.
func (h *ReportHandler) GetAdminDashboard(c *gin.Context) {
	summary, err := h.reportService.GetAdminDashboard()
	if err != nil {
		utils.LogError(err, "GetAdminDashboard: Error from reportService.GetAdminDashboard")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build dashboard.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetExecutiveDashboard handles the executive dashboard summary.
func (h *ReportHandler) GetExecutiveDashboard(c *gin.Context) {
	summary, err := h.reportService.GetExecutiveDashboard()
	if err != nil {
		utils.LogError(err, "GetExecutiveDashboard: Error from reportService.GetExecutiveDashboard")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build dashboard.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetProfitLossReport handles the date-ranged profit-loss report.
func (h *ReportHandler) GetProfitLossReport(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "start_date and end_date are required.", "missing query parameters"))
		return
	}

	report, err := h.reportService.GetProfitLossReport(startDate, endDate)
	if err != nil {
		if errors.Is(err, services.ErrReportValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.LogError(err, "GetProfitLossReport: Error from reportService.GetProfitLossReport")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build report.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, report)
}
