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
	ErrPurchaseOrderNotFound   = errors.New("purchase order not found")
	ErrPurchaseOrderValidation = errors.New("purchase order validation error")
	ErrPurchaseOrderPaid       = errors.New("purchase order is already paid")
	ErrPurchaseOrderUnpaid     = errors.New("purchase order must be paid before receiving items")
	ErrPurchaseOrderReceived   = errors.New("purchase order items were already received")
)

// --- Purchase order DTOs ---
type PurchaseOrderItemRequest struct {
	ProductID    string  `json:"p_id" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required"`
	PricePerUnit float64 `json:"price_per_unit" binding:"required"`
}

type CreatePurchaseOrderRequest struct {
	FarmerID  string                     `json:"f_id" binding:"required"`
	OrderDate *string                    `json:"b_date"` // YYYY-MM-DD, defaults to today
	Items     []PurchaseOrderItemRequest `json:"items" binding:"required"`
}

type ReceiveItemsRequest struct {
	WarehouseID string `json:"warehouse_id" binding:"required"`
}

// PurchaseOrderService runs the farmer-purchase workflow: create order,
// record payment, receive goods into a warehouse.
type PurchaseOrderService interface {
	CreatePurchaseOrder(req CreatePurchaseOrderRequest, createdByID string) (*models.PurchaseOrder, error)
	GetPurchaseOrderByNumber(number string) (*models.PurchaseOrder, error)
	GetPurchaseOrders(filters models.PurchaseOrderFilters) ([]models.PurchaseOrder, error)
	GetPendingReceiptOrders() ([]models.PurchaseOrder, error)
	PayPurchaseOrder(number, paidByID string) (*models.PurchaseOrder, error)
	ReceiveItems(number string, req ReceiveItemsRequest, receivedByID string) (*models.PurchaseOrder, error)
}

type purchaseOrderService struct {
	orderRepo     repositories.PurchaseOrderRepository
	farmerRepo    repositories.FarmerRepository
	productRepo   repositories.ProductRepository
	warehouseRepo repositories.WarehouseRepository
	stockRepo     repositories.StockRepository
	db            *sql.DB
}

// NewPurchaseOrderService creates a new instance of PurchaseOrderService.
func NewPurchaseOrderService(
	orderRepo repositories.PurchaseOrderRepository,
	farmerRepo repositories.FarmerRepository,
	productRepo repositories.ProductRepository,
	warehouseRepo repositories.WarehouseRepository,
	stockRepo repositories.StockRepository,
	db *sql.DB,
) PurchaseOrderService {
	return &purchaseOrderService{
		orderRepo:     orderRepo,
		farmerRepo:    farmerRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		db:            db,
	}
}

// CreatePurchaseOrder validates the lines, generates a PO-prefixed number and
// writes the header and items in one transaction. The order starts Unpaid
// with stock status Not Received.
func (s *purchaseOrderService) CreatePurchaseOrder(req CreatePurchaseOrderRequest, createdByID string) (*models.PurchaseOrder, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must have at least one item", ErrPurchaseOrderValidation)
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be greater than zero", ErrPurchaseOrderValidation)
		}
		if item.PricePerUnit <= 0 {
			return nil, fmt.Errorf("%w: item price must be greater than zero", ErrPurchaseOrderValidation)
		}
	}

	if _, err := s.farmerRepo.GetFarmerByID(req.FarmerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFarmerNotFound
		}
		return nil, fmt.Errorf("failed to look up farmer: %w", err)
	}
	for _, item := range req.Items {
		if _, err := s.productRepo.GetProductByID(item.ProductID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %s", ErrProductNotFound, item.ProductID)
			}
			return nil, fmt.Errorf("failed to look up product: %w", err)
		}
	}

	orderDate := time.Now()
	if req.OrderDate != nil && *req.OrderDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("%w: order date must be YYYY-MM-DD", ErrPurchaseOrderValidation)
		}
		orderDate = parsed
	}

	var total float64
	for _, item := range req.Items {
		total += item.Quantity * item.PricePerUnit
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	number, err := repositories.NextSequentialID(tx, "purchase_orders", "purchase_order_number", "PO")
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	now := time.Now()
	order := &models.PurchaseOrder{
		Number:        number,
		FarmerID:      req.FarmerID,
		OrderDate:     orderDate,
		TotalPrice:    total,
		PaymentStatus: "Unpaid",
		StockStatus:   "Not Received",
		CreatedByID:   &createdByID,
		CreatedDate:   &now,
	}
	if err := s.orderRepo.CreatePurchaseOrder(tx, order); err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}

	for _, itemReq := range req.Items {
		item := models.PurchaseOrderItem{
			OrderNumber:  number,
			ProductID:    itemReq.ProductID,
			Quantity:     itemReq.Quantity,
			PricePerUnit: itemReq.PricePerUnit,
		}
		if _, err := s.orderRepo.CreatePurchaseOrderItem(tx, &item); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return order, nil
}

// GetPurchaseOrderByNumber retrieves one order with its items.
func (s *purchaseOrderService) GetPurchaseOrderByNumber(number string) (*models.PurchaseOrder, error) {
	order, err := s.orderRepo.GetPurchaseOrderByNumber(number)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPurchaseOrderNotFound
		}
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}
	return order, nil
}

// GetPurchaseOrders lists orders with optional filters.
func (s *purchaseOrderService) GetPurchaseOrders(filters models.PurchaseOrderFilters) ([]models.PurchaseOrder, error) {
	orders, err := s.orderRepo.GetPurchaseOrders(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	return orders, nil
}

// GetPendingReceiptOrders returns paid orders awaiting goods receipt.
func (s *purchaseOrderService) GetPendingReceiptOrders() ([]models.PurchaseOrder, error) {
	orders, err := s.orderRepo.GetPendingReceiptOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending-receipt orders: %w", err)
	}
	return orders, nil
}

// PayPurchaseOrder records payment to the farmer. The order becomes Paid and
// its stock status moves to Pending, queueing it for goods receipt.
func (s *purchaseOrderService) PayPurchaseOrder(number, paidByID string) (*models.PurchaseOrder, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetPurchaseOrderForUpdate(tx, number)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPurchaseOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock purchase order: %w", err)
	}
	if order.PaymentStatus == "Paid" {
		return nil, ErrPurchaseOrderPaid
	}

	now := time.Now()
	if err := s.orderRepo.MarkPaid(tx, number, paidByID, now); err != nil {
		return nil, fmt.Errorf("failed to mark purchase order paid: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	order.PaymentStatus = "Paid"
	order.StockStatus = "Pending"
	order.PaidByID = &paidByID
	order.PaidDate = &now
	return order, nil
}

// ReceiveItems stores the paid order's goods in a warehouse. Each order line
// becomes a FIFO lot at its purchase cost and the stock level rises by the
// line quantity. The order's stock status becomes Completed.
func (s *purchaseOrderService) ReceiveItems(number string, req ReceiveItemsRequest, receivedByID string) (*models.PurchaseOrder, error) {
	if _, err := s.warehouseRepo.GetWarehouseByID(req.WarehouseID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWarehouseNotFound
		}
		return nil, fmt.Errorf("failed to look up warehouse: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetPurchaseOrderForUpdate(tx, number)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPurchaseOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock purchase order: %w", err)
	}
	if order.PaymentStatus != "Paid" {
		return nil, ErrPurchaseOrderUnpaid
	}
	if order.StockStatus == "Completed" {
		return nil, ErrPurchaseOrderReceived
	}

	items, err := s.orderRepo.GetPurchaseOrderItems(tx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}

	now := time.Now()
	for _, item := range items {
		itemID := item.ID
		lot := &models.StockLot{
			ReceivedAt:        now,
			ProductID:         item.ProductID,
			WarehouseID:       req.WarehouseID,
			Quantity:          item.Quantity,
			UnitCost:          item.PricePerUnit,
			RemainingQuantity: item.Quantity,
			POItemID:          &itemID,
		}
		if _, err := s.stockRepo.InsertLot(tx, lot); err != nil {
			return nil, fmt.Errorf("failed to record stock lot: %w", err)
		}
		if err := s.stockRepo.AdjustLevel(tx, item.ProductID, req.WarehouseID, item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to raise stock level: %w", err)
		}
	}

	if err := s.orderRepo.MarkReceived(tx, number, receivedByID, now); err != nil {
		return nil, fmt.Errorf("failed to mark purchase order received: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	order.StockStatus = "Completed"
	order.ReceivedByID = &receivedByID
	order.ReceivedDate = &now
	order.Items = items
	return order, nil
}
