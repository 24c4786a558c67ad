package handlers

import (
	"errors"
	"net/http"

	"easypalm_backend/internal/models"
	"easypalm_backend/internal/services"
	"easypalm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler holds the purchase order service.
type PurchaseOrderHandler struct {
	orderService services.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler.
func NewPurchaseOrderHandler(os services.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: os}
}

// CreatePurchaseOrder handles recording a buy from a farmer.
func (h *PurchaseOrderHandler) CreatePurchaseOrder(c *gin.Context) {
	var req services.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	order, err := h.orderService.CreatePurchaseOrder(req, c.GetString("employeeID"))
	if err != nil {
		if errors.Is(err, services.ErrPurchaseOrderValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrFarmerNotFound) || errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
		} else {
			utils.LogError(err, "CreatePurchaseOrder: Error from orderService.CreatePurchaseOrder")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create purchase order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetPurchaseOrders handles listing purchase orders with filters.
func (h *PurchaseOrderHandler) GetPurchaseOrders(c *gin.Context) {
	var filters models.PurchaseOrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	orders, err := h.orderService.GetPurchaseOrders(filters)
	if err != nil {
		utils.LogError(err, "GetPurchaseOrders: Error from orderService.GetPurchaseOrders")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch purchase orders.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetPendingReceiptOrders handles the warehouse goods-receipt queue: paid
// orders whose items are still to be stored.
func (h *PurchaseOrderHandler) GetPendingReceiptOrders(c *gin.Context) {
	orders, err := h.orderService.GetPendingReceiptOrders()
	if err != nil {
		utils.LogError(err, "GetPendingReceiptOrders: Error from orderService.GetPendingReceiptOrders")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch pending receipts.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetPurchaseOrderByNumber handles fetching one order with its lines.
func (h *PurchaseOrderHandler) GetPurchaseOrderByNumber(c *gin.Context) {
	order, err := h.orderService.GetPurchaseOrderByNumber(c.Param("number"))
	if err != nil {
		if errors.Is(err, services.ErrPurchaseOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Purchase order not found.", err.Error()))
		} else {
			utils.LogError(err, "GetPurchaseOrderByNumber: Error from orderService.GetPurchaseOrderByNumber")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch purchase order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// PayPurchaseOrder handles recording payment to the farmer.
func (h *PurchaseOrderHandler) PayPurchaseOrder(c *gin.Context) {
	order, err := h.orderService.PayPurchaseOrder(c.Param("number"), c.GetString("employeeID"))
	if err != nil {
		if errors.Is(err, services.ErrPurchaseOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Purchase order not found.", err.Error()))
		} else if errors.Is(err, services.ErrPurchaseOrderPaid) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Purchase order is already paid.", err.Error()))
		} else {
			utils.LogError(err, "PayPurchaseOrder: Error from orderService.PayPurchaseOrder")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to pay purchase order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// ReceiveItems handles storing a paid order's goods into a warehouse.
func (h *PurchaseOrderHandler) ReceiveItems(c *gin.Context) {
	var req services.ReceiveItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	order, err := h.orderService.ReceiveItems(c.Param("number"), req, c.GetString("employeeID"))
	if err != nil {
		if errors.Is(err, services.ErrPurchaseOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Purchase order not found.", err.Error()))
		} else if errors.Is(err, services.ErrWarehouseNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Warehouse not found.", err.Error()))
		} else if errors.Is(err, services.ErrPurchaseOrderUnpaid) || errors.Is(err, services.ErrPurchaseOrderReceived) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error()))
		} else {
			utils.LogError(err, "ReceiveItems: Error from orderService.ReceiveItems")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to receive items.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, order)
}
