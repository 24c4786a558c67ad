package router

import (
	"easypalm_backend/internal/handlers"
	"easypalm_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPublicAuthRoutes wires login and token refresh, which need no token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.Login)
	group.POST("/refresh-token", authHandler.RefreshToken)
}

// SetupAuthenticatedAuthRoutes wires the self-profile endpoint.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetProfile)
}

// SetupEmployeeRoutes wires employee administration. Admin only.
func SetupEmployeeRoutes(rg *gin.RouterGroup, h *handlers.EmployeeHandler) {
	employees := rg.Group("/employees")
	employees.Use(middleware.RoleAuthMiddleware("Admin"))
	{
		employees.POST("", h.CreateEmployee)
		employees.GET("", h.GetEmployees)
		employees.GET("/:id", h.GetEmployeeByID)
		employees.PUT("/:id", h.UpdateEmployee)
		employees.DELETE("/:id", h.DeleteEmployee)
		employees.PUT("/:id/suspend", h.SuspendEmployee)
		employees.PUT("/:id/unsuspend", h.UnsuspendEmployee)
	}
}

// SetupFarmerRoutes wires the farmer registry for the purchasing side.
func SetupFarmerRoutes(rg *gin.RouterGroup, h *handlers.FarmerHandler) {
	farmers := rg.Group("/farmers")
	farmers.Use(middleware.RoleAuthMiddleware("Purchasing"))
	{
		farmers.POST("", h.CreateFarmer)
		farmers.GET("", h.GetFarmers)
		farmers.GET("/:id", h.GetFarmerByID)
		farmers.PUT("/:id", h.UpdateFarmer)
		farmers.DELETE("/:id", h.DeleteFarmer)
	}
}

// SetupCustomerRoutes wires the industrial-customer registry for the sales side.
func SetupCustomerRoutes(rg *gin.RouterGroup, h *handlers.CustomerHandler) {
	customers := rg.Group("/food-industries")
	customers.Use(middleware.RoleAuthMiddleware("Sales"))
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.GetCustomers)
		customers.GET("/:id", h.GetCustomerByID)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
	}
}

// SetupProductRoutes wires the product catalog, shared by purchasing and sales.
func SetupProductRoutes(rg *gin.RouterGroup, h *handlers.ProductHandler) {
	products := rg.Group("/products")
	products.Use(middleware.RoleAuthMiddleware("Purchasing", "Sales", "Warehouse"))
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.GetProducts)
		products.GET("/:id", h.GetProductByID)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

// SetupWarehouseRoutes wires warehouses and inventory views.
func SetupWarehouseRoutes(rg *gin.RouterGroup, wh *handlers.WarehouseHandler, sh *handlers.StockHandler) {
	warehouses := rg.Group("/warehouses")
	warehouses.Use(middleware.RoleAuthMiddleware("Warehouse", "Purchasing"))
	{
		warehouses.POST("", wh.CreateWarehouse)
		warehouses.GET("", wh.GetWarehouses)
		warehouses.GET("/summary", wh.GetWarehouseSummaries)
		warehouses.GET("/:id", wh.GetWarehouseByID)
		warehouses.PUT("/:id", wh.UpdateWarehouse)
		warehouses.DELETE("/:id", wh.DeleteWarehouse)
	}

	stock := rg.Group("/stock")
	stock.Use(middleware.RoleAuthMiddleware("Warehouse", "Purchasing", "Sales", "Executive"))
	{
		stock.GET("", sh.GetStockLevels)
		stock.GET("/history", sh.GetStockInHistory)
	}
}

// SetupPurchaseOrderRoutes wires the farmer-purchase workflow. Payment is an
// accounting action; goods receipt belongs to the warehouse.
func SetupPurchaseOrderRoutes(rg *gin.RouterGroup, h *handlers.PurchaseOrderHandler) {
	orders := rg.Group("/purchase-orders")
	orders.Use(middleware.RoleAuthMiddleware("Purchasing", "Accounting", "Warehouse", "Executive"))
	{
		orders.POST("", middleware.RoleAuthMiddleware("Purchasing"), h.CreatePurchaseOrder)
		orders.GET("", h.GetPurchaseOrders)
		orders.GET("/pending-receipts", middleware.RoleAuthMiddleware("Warehouse"), h.GetPendingReceiptOrders)
		orders.GET("/:number", h.GetPurchaseOrderByNumber)
		orders.POST("/:number/pay", middleware.RoleAuthMiddleware("Accounting"), h.PayPurchaseOrder)
		orders.POST("/:number/receive-items", middleware.RoleAuthMiddleware("Warehouse"), h.ReceiveItems)
	}
}

// SetupSalesOrderRoutes wires the customer-sale workflow. Shipment actions
// belong to the warehouse; payment confirmation to accounting.
func SetupSalesOrderRoutes(rg *gin.RouterGroup, h *handlers.SalesOrderHandler) {
	orders := rg.Group("/sales-orders")
	orders.Use(middleware.RoleAuthMiddleware("Sales", "Accounting", "Warehouse", "Executive"))
	{
		orders.POST("", middleware.RoleAuthMiddleware("Sales"), h.CreateSalesOrder)
		orders.GET("", h.GetSalesOrders)
		orders.GET("/pending-payment", middleware.RoleAuthMiddleware("Accounting", "Sales"), h.GetPendingPaymentOrders)
		orders.GET("/shipment-history", middleware.RoleAuthMiddleware("Warehouse", "Sales"), h.GetShipmentHistory)
		orders.GET("/:number", h.GetSalesOrderByNumber)
		orders.POST("/:number/ship", middleware.RoleAuthMiddleware("Warehouse"), h.ShipOrder)
		orders.POST("/:number/confirm-delivery", middleware.RoleAuthMiddleware("Warehouse", "Sales"), h.ConfirmDelivery)
		orders.POST("/:number/confirm-payment", middleware.RoleAuthMiddleware("Accounting"), h.ConfirmPayment)
		orders.POST("/:number/request-return", middleware.RoleAuthMiddleware("Sales", "Warehouse"), h.RequestReturn)
	}
}

// SetupReportRoutes wires the dashboards and the profit-loss report.
func SetupReportRoutes(rg *gin.RouterGroup, h *handlers.ReportHandler) {
	rg.GET("/admin/dashboard-summary", middleware.RoleAuthMiddleware("Admin"), h.GetAdminDashboard)
	rg.GET("/executive/dashboard-summary", middleware.RoleAuthMiddleware("Executive"), h.GetExecutiveDashboard)
	rg.GET("/reports/profit-loss", middleware.RoleAuthMiddleware("Executive", "Accounting"), h.GetProfitLossReport)
}
