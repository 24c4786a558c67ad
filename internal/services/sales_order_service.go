package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"easypalm_backend/internal/models"
	"easypalm_backend/internal/repositories"
)

var (
	ErrSalesOrderNotFound   = errors.New("sales order not found")
	ErrSalesOrderValidation = errors.New("sales order validation error")
	ErrInsufficientStock    = errors.New("insufficient stock in warehouse")
	ErrSalesOrderPaid       = errors.New("sales order is already paid")
	ErrSalesOrderNotDelivered = errors.New("sales order must be delivered first")
	ErrShipmentTransition   = errors.New("invalid shipment status transition")
)

// --- Sales order DTOs ---
type SalesOrderItemRequest struct {
	ProductID    string  `json:"p_id" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required"`
	PricePerUnit float64 `json:"price_per_unit" binding:"required"`
}

type CreateSalesOrderRequest struct {
	CustomerID  string                  `json:"c_id" binding:"required"`
	WarehouseID string                  `json:"warehouse_id" binding:"required"`
	OrderDate   *string                 `json:"s_date"` // YYYY-MM-DD, defaults to today
	Items       []SalesOrderItemRequest `json:"items" binding:"required"`
}

type RequestReturnRequest struct {
	Reason *string `json:"reason"`
}

// SalesOrderService runs the customer-sale workflow: create the order against
// warehouse stock, ship, confirm delivery, confirm payment, handle returns.
type SalesOrderService interface {
	CreateSalesOrder(req CreateSalesOrderRequest, createdByID string) (*models.SalesOrder, error)
	GetSalesOrderByNumber(number string) (*models.SalesOrder, error)
	GetSalesOrders(filters models.SalesOrderFilters) ([]models.SalesOrder, error)
	ShipOrder(number, shippedByID string) (*models.SalesOrder, error)
	ConfirmDelivery(number, deliveredByID string) (*models.SalesOrder, error)
	ConfirmPayment(number, paidByID string) (*models.SalesOrder, error)
	RequestReturn(number string, req RequestReturnRequest, byID string) (*models.SalesOrder, error)
	GetPendingPaymentOrders() ([]models.SalesOrder, error)
	GetShipmentHistory(search *string) ([]models.SalesOrder, error)
}

type salesOrderService struct {
	orderRepo     repositories.SalesOrderRepository
	customerRepo  repositories.CustomerRepository
	productRepo   repositories.ProductRepository
	warehouseRepo repositories.WarehouseRepository
	stockRepo     repositories.StockRepository
	db            *sql.DB
}

// NewSalesOrderService creates a new instance of SalesOrderService.
func NewSalesOrderService(
	orderRepo repositories.SalesOrderRepository,
	customerRepo repositories.CustomerRepository,
	productRepo repositories.ProductRepository,
	warehouseRepo repositories.WarehouseRepository,
	stockRepo repositories.StockRepository,
	db *sql.DB,
) SalesOrderService {
	return &salesOrderService{
		orderRepo:     orderRepo,
		customerRepo:  customerRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		db:            db,
	}
}

// CreateSalesOrder validates the lines against available stock, consumes FIFO
// lots to price the cost of goods sold, lowers stock levels and writes the
// order in one transaction. Nothing is written when any line lacks stock.
func (s *salesOrderService) CreateSalesOrder(req CreateSalesOrderRequest, createdByID string) (*models.SalesOrder, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must have at least one item", ErrSalesOrderValidation)
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be greater than zero", ErrSalesOrderValidation)
		}
		if item.PricePerUnit <= 0 {
			return nil, fmt.Errorf("%w: item price must be greater than zero", ErrSalesOrderValidation)
		}
	}

	if _, err := s.customerRepo.GetCustomerByID(req.CustomerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	if _, err := s.warehouseRepo.GetWarehouseByID(req.WarehouseID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWarehouseNotFound
		}
		return nil, fmt.Errorf("failed to look up warehouse: %w", err)
	}

	orderDate := time.Now()
	if req.OrderDate != nil && *req.OrderDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("%w: order date must be YYYY-MM-DD", ErrSalesOrderValidation)
		}
		orderDate = parsed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Availability is checked up front so the whole order is rejected before
	// any lot is touched.
	for _, item := range req.Items {
		available, err := s.stockRepo.GetQuantity(tx, item.ProductID, req.WarehouseID)
		if err != nil {
			return nil, fmt.Errorf("failed to check stock: %w", err)
		}
		if available < item.Quantity {
			return nil, fmt.Errorf("%w: product %s has %.2f on hand, need %.2f",
				ErrInsufficientStock, item.ProductID, available, item.Quantity)
		}
	}

	number, err := repositories.NextSequentialID(tx, "sales_orders", "sale_order_number", "SO")
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	var total float64
	for _, item := range req.Items {
		total += item.Quantity * item.PricePerUnit
	}

	now := time.Now()
	order := &models.SalesOrder{
		Number:         number,
		CustomerID:     req.CustomerID,
		WarehouseID:    req.WarehouseID,
		OrderDate:      orderDate,
		TotalPrice:     total,
		PaymentStatus:  "Unpaid",
		ShipmentStatus: "Pending",
		CreatedByID:    &createdByID,
		CreatedDate:    &now,
	}
	if err := s.orderRepo.CreateSalesOrder(tx, order); err != nil {
		return nil, fmt.Errorf("failed to create sales order: %w", err)
	}

	for _, itemReq := range req.Items {
		cogs, err := s.stockRepo.ConsumeLotsFIFO(tx, itemReq.ProductID, req.WarehouseID, itemReq.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to consume stock lots: %w", err)
		}
		if err := s.stockRepo.AdjustLevel(tx, itemReq.ProductID, req.WarehouseID, -itemReq.Quantity); err != nil {
			return nil, fmt.Errorf("failed to lower stock level: %w", err)
		}

		item := models.SalesOrderItem{
			OrderNumber:  number,
			ProductID:    itemReq.ProductID,
			Quantity:     itemReq.Quantity,
			PricePerUnit: itemReq.PricePerUnit,
			COGS:         &cogs,
		}
		if _, err := s.orderRepo.CreateSalesOrderItem(tx, &item); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return order, nil
}

// GetSalesOrderByNumber retrieves one order with its items.
func (s *salesOrderService) GetSalesOrderByNumber(number string) (*models.SalesOrder, error) {
	order, err := s.orderRepo.GetSalesOrderByNumber(number)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSalesOrderNotFound
		}
		return nil, fmt.Errorf("failed to get sales order: %w", err)
	}
	return order, nil
}

// GetSalesOrders lists orders with optional filters.
func (s *salesOrderService) GetSalesOrders(filters models.SalesOrderFilters) ([]models.SalesOrder, error) {
	orders, err := s.orderRepo.GetSalesOrders(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales orders: %w", err)
	}
	return orders, nil
}

func (s *salesOrderService) transitionShipment(number, fromStatus, toStatus, byID string) (*models.SalesOrder, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetSalesOrderForUpdate(tx, number)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSalesOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock sales order: %w", err)
	}
	if order.ShipmentStatus != fromStatus {
		return nil, fmt.Errorf("%w: order is %s, expected %s", ErrShipmentTransition, order.ShipmentStatus, fromStatus)
	}

	now := time.Now()
	if err := s.orderRepo.UpdateShipmentStatus(tx, number, toStatus, byID, now); err != nil {
		return nil, fmt.Errorf("failed to update shipment status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	order.ShipmentStatus = toStatus
	return order, nil
}

// ShipOrder moves a pending order out of the warehouse.
func (s *salesOrderService) ShipOrder(number, shippedByID string) (*models.SalesOrder, error) {
	return s.transitionShipment(number, "Pending", "Shipped", shippedByID)
}

// ConfirmDelivery records the customer receiving the shipment.
func (s *salesOrderService) ConfirmDelivery(number, deliveredByID string) (*models.SalesOrder, error) {
	return s.transitionShipment(number, "Shipped", "Delivered", deliveredByID)
}

// ConfirmPayment records the customer's payment. Only delivered orders can be
// paid, and paying twice is a conflict.
func (s *salesOrderService) ConfirmPayment(number, paidByID string) (*models.SalesOrder, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetSalesOrderForUpdate(tx, number)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSalesOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock sales order: %w", err)
	}
	if order.PaymentStatus == "Paid" {
		return nil, ErrSalesOrderPaid
	}
	if order.ShipmentStatus != "Delivered" {
		return nil, ErrSalesOrderNotDelivered
	}

	now := time.Now()
	if err := s.orderRepo.MarkPaid(tx, number, paidByID, now); err != nil {
		return nil, fmt.Errorf("failed to mark sales order paid: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	order.PaymentStatus = "Paid"
	order.PaidByID = &paidByID
	order.PaidDate = &now
	return order, nil
}

// RequestReturn takes back a delivered, unpaid order. Each line is restored
// to the source warehouse as a new lot at its recorded unit cost, stock
// levels rise and the shipment status becomes Returned.
func (s *salesOrderService) RequestReturn(number string, req RequestReturnRequest, byID string) (*models.SalesOrder, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetSalesOrderForUpdate(tx, number)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSalesOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock sales order: %w", err)
	}
	if order.ShipmentStatus != "Delivered" {
		return nil, ErrSalesOrderNotDelivered
	}
	if order.PaymentStatus == "Paid" {
		return nil, ErrSalesOrderPaid
	}

	items, err := s.orderRepo.GetSalesOrderItems(tx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}

	now := time.Now()
	for _, item := range items {
		ret := &models.StockReturn{
			ReturnedAt:  now,
			ProductID:   item.ProductID,
			WarehouseID: order.WarehouseID,
			Quantity:    item.Quantity,
			Reason:      req.Reason,
			SOItemID:    item.ID,
		}
		if _, err := s.stockRepo.InsertReturn(tx, ret); err != nil {
			return nil, fmt.Errorf("failed to record stock return: %w", err)
		}

		unitCost := 0.0
		if item.COGS != nil && item.Quantity > 0 {
			unitCost = *item.COGS / item.Quantity
		}
		lot := &models.StockLot{
			ReceivedAt:        now,
			ProductID:         item.ProductID,
			WarehouseID:       order.WarehouseID,
			Quantity:          item.Quantity,
			UnitCost:          unitCost,
			RemainingQuantity: item.Quantity,
		}
		if _, err := s.stockRepo.InsertLot(tx, lot); err != nil {
			return nil, fmt.Errorf("failed to restore stock lot: %w", err)
		}
		if err := s.stockRepo.AdjustLevel(tx, item.ProductID, order.WarehouseID, item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to raise stock level: %w", err)
		}
	}

	if err := s.orderRepo.UpdateShipmentStatus(tx, number, "Returned", byID, now); err != nil {
		return nil, fmt.Errorf("failed to mark order returned: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	order.ShipmentStatus = "Returned"
	order.Items = items
	return order, nil
}

// GetPendingPaymentOrders returns delivered orders awaiting payment.
func (s *salesOrderService) GetPendingPaymentOrders() ([]models.SalesOrder, error) {
	orders, err := s.orderRepo.GetPendingPaymentOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending-payment orders: %w", err)
	}
	return orders, nil
}

// GetShipmentHistory returns shipped and delivered orders in one listing,
// optionally narrowed by order number or customer name.
func (s *salesOrderService) GetShipmentHistory(search *string) ([]models.SalesOrder, error) {
	orders, err := s.orderRepo.GetShipmentHistory(search)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipment history: %w", err)
	}
	return orders, nil
}
