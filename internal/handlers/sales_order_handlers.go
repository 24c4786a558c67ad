package handlers

import (
	"errors"
	"net/http"

	"easypalm_backend/internal/models"
	"easypalm_backend/internal/services"
	"easypalm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SalesOrderHandler holds the sales order service.
type SalesOrderHandler struct {
	orderService services.SalesOrderService
}

// NewSalesOrderHandler creates a new SalesOrderHandler.
func NewSalesOrderHandler(os services.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{orderService: os}
}

// CreateSalesOrder handles recording a sale against warehouse stock.
func (h *SalesOrderHandler) CreateSalesOrder(c *gin.Context) {
	var req services.CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	order, err := h.orderService.CreateSalesOrder(req, c.GetString("employeeID"))
	if err != nil {
		if errors.Is(err, services.ErrSalesOrderValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrInsufficientStock) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrCustomerNotFound) || errors.Is(err, services.ErrWarehouseNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
		} else {
			utils.LogError(err, "CreateSalesOrder: Error from orderService.CreateSalesOrder")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create sales order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetSalesOrders handles listing sales orders with filters.
func (h *SalesOrderHandler) GetSalesOrders(c *gin.Context) {
	var filters models.SalesOrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	orders, err := h.orderService.GetSalesOrders(filters)
	if err != nil {
		utils.LogError(err, "GetSalesOrders: Error from orderService.GetSalesOrders")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch sales orders.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetSalesOrderByNumber handles fetching one order with its lines.
func (h *SalesOrderHandler) GetSalesOrderByNumber(c *gin.Context) {
	order, err := h.orderService.GetSalesOrderByNumber(c.Param("number"))
	if err != nil {
		if errors.Is(err, services.ErrSalesOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sales order not found.", err.Error()))
		} else {
			utils.LogError(err, "GetSalesOrderByNumber: Error from orderService.GetSalesOrderByNumber")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch sales order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *SalesOrderHandler) respondShipmentError(c *gin.Context, op string, err error) {
	if errors.Is(err, services.ErrSalesOrderNotFound) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sales order not found.", err.Error()))
	} else if errors.Is(err, services.ErrShipmentTransition) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error()))
	} else {
		utils.LogError(err, op+": Error from orderService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update shipment status.", "Internal error"))
	}
}

// ShipOrder handles marking a pending order as shipped.
func (h *SalesOrderHandler) ShipOrder(c *gin.Context) {
	order, err := h.orderService.ShipOrder(c.Param("number"), c.GetString("employeeID"))
	if err != nil {
		h.respondShipmentError(c, "ShipOrder", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ConfirmDelivery handles marking a shipped order as delivered.
func (h *SalesOrderHandler) ConfirmDelivery(c *gin.Context) {
	order, err := h.orderService.ConfirmDelivery(c.Param("number"), c.GetString("employeeID"))
	if err != nil {
		h.respondShipmentError(c, "ConfirmDelivery", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ConfirmPayment handles recording the customer's payment on a delivered order.
func (h *SalesOrderHandler) ConfirmPayment(c *gin.Context) {
	order, err := h.orderService.ConfirmPayment(c.Param("number"), c.GetString("employeeID"))
	if err != nil {
		if errors.Is(err, services.ErrSalesOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sales order not found.", err.Error()))
		} else if errors.Is(err, services.ErrSalesOrderPaid) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Sales order is already paid.", err.Error()))
		} else if errors.Is(err, services.ErrSalesOrderNotDelivered) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Sales order must be delivered before payment.", err.Error()))
		} else {
			utils.LogError(err, "ConfirmPayment: Error from orderService.ConfirmPayment")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to confirm payment.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// RequestReturn handles taking back a delivered, unpaid order and restoring
// its stock.
func (h *SalesOrderHandler) RequestReturn(c *gin.Context) {
	var req services.RequestReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	order, err := h.orderService.RequestReturn(c.Param("number"), req, c.GetString("employeeID"))
	if err != nil {
		if errors.Is(err, services.ErrSalesOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sales order not found.", err.Error()))
		} else if errors.Is(err, services.ErrSalesOrderNotDelivered) || errors.Is(err, services.ErrSalesOrderPaid) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error()))
		} else {
			utils.LogError(err, "RequestReturn: Error from orderService.RequestReturn")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to process return.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetPendingPaymentOrders handles the accounting receivables view.
func (h *SalesOrderHandler) GetPendingPaymentOrders(c *gin.Context) {
	orders, err := h.orderService.GetPendingPaymentOrders()
	if err != nil {
		utils.LogError(err, "GetPendingPaymentOrders: Error from orderService.GetPendingPaymentOrders")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch pending payments.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetShipmentHistory handles the warehouse view of shipped and delivered
// orders, with an optional search.
func (h *SalesOrderHandler) GetShipmentHistory(c *gin.Context) {
	var search *string
	if q := c.Query("search"); q != "" {
		search = &q
	}

	orders, err := h.orderService.GetShipmentHistory(search)
	if err != nil {
		utils.LogError(err, "GetShipmentHistory: Error from orderService.GetShipmentHistory")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch shipment history.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, orders)
}
