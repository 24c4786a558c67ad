package router

import (
	"database/sql"

	"easypalm_backend/internal/handlers"
	"easypalm_backend/internal/middleware"
	"easypalm_backend/internal/repositories"
	"easypalm_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Repositories
	employeeRepo := repositories.NewEmployeeRepository(db)
	farmerRepo := repositories.NewFarmerRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	productRepo := repositories.NewProductRepository(db)
	warehouseRepo := repositories.NewWarehouseRepository(db)
	stockRepo := repositories.NewStockRepository(db)
	purchaseOrderRepo := repositories.NewPurchaseOrderRepository(db)
	salesOrderRepo := repositories.NewSalesOrderRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// Services
	authService := services.NewAuthService(employeeRepo)
	employeeService := services.NewEmployeeService(employeeRepo, db)
	farmerService := services.NewFarmerService(farmerRepo, db)
	customerService := services.NewCustomerService(customerRepo, db)
	productService := services.NewProductService(productRepo, db)
	warehouseService := services.NewWarehouseService(warehouseRepo, stockRepo, db)
	stockService := services.NewStockService(stockRepo)
	purchaseOrderService := services.NewPurchaseOrderService(purchaseOrderRepo, farmerRepo, productRepo, warehouseRepo, stockRepo, db)
	salesOrderService := services.NewSalesOrderService(salesOrderRepo, customerRepo, productRepo, warehouseRepo, stockRepo, db)
	reportService := services.NewReportService(reportRepo, stockRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	farmerHandler := handlers.NewFarmerHandler(farmerService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	productHandler := handlers.NewProductHandler(productService)
	warehouseHandler := handlers.NewWarehouseHandler(warehouseService)
	stockHandler := handlers.NewStockHandler(stockService)
	purchaseOrderHandler := handlers.NewPurchaseOrderHandler(purchaseOrderService)
	salesOrderHandler := handlers.NewSalesOrderHandler(salesOrderService)
	reportHandler := handlers.NewReportHandler(reportService)

	apiV1 := engine.Group("/api/v1")

	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupEmployeeRoutes(authenticated, employeeHandler)
		SetupFarmerRoutes(authenticated, farmerHandler)
		SetupCustomerRoutes(authenticated, customerHandler)
		SetupProductRoutes(authenticated, productHandler)
		SetupWarehouseRoutes(authenticated, warehouseHandler, stockHandler)
		SetupPurchaseOrderRoutes(authenticated, purchaseOrderHandler)
		SetupSalesOrderRoutes(authenticated, salesOrderHandler)
		SetupReportRoutes(authenticated, reportHandler)
	}
}
