package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"easypalm_backend/internal/models"

	"github.com/lib/pq"
)

// PurchaseOrderRepository defines the interface for purchase-order database operations.
type PurchaseOrderRepository interface {
	CreatePurchaseOrder(executor SQLExecutor, order *models.PurchaseOrder) error
	CreatePurchaseOrderItem(executor SQLExecutor, item *models.PurchaseOrderItem) (int64, error)
	GetPurchaseOrderByNumber(number string) (*models.PurchaseOrder, error)
	GetPurchaseOrderForUpdate(executor SQLExecutor, number string) (*models.PurchaseOrder, error)
	GetPurchaseOrders(filters models.PurchaseOrderFilters) ([]models.PurchaseOrder, error)
	GetPendingReceiptOrders() ([]models.PurchaseOrder, error)
	GetPurchaseOrderItems(executor SQLExecutor, number string) ([]models.PurchaseOrderItem, error)
	MarkPaid(executor SQLExecutor, number, paidByID string, paidAt time.Time) error
	MarkReceived(executor SQLExecutor, number, receivedByID string, receivedAt time.Time) error
}

type purchaseOrderRepository struct {
	db *sql.DB
}

// NewPurchaseOrderRepository creates a new instance of PurchaseOrderRepository.
func NewPurchaseOrderRepository(db *sql.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

// CreatePurchaseOrder inserts the order header. The caller assigns the order
// number and creates items separately within the same transaction.
func (r *purchaseOrderRepository) CreatePurchaseOrder(executor SQLExecutor, order *models.PurchaseOrder) error {
	query := `INSERT INTO purchase_orders
	              (purchase_order_number, f_id, b_date, b_total_price, payment_status, stock_status,
	               created_by_id, created_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := executor.Exec(query,
		order.Number, order.FarmerID, order.OrderDate, order.TotalPrice,
		order.PaymentStatus, order.StockStatus, order.CreatedByID, order.CreatedDate,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
			if pqErr.Code == "23503" {
				return fmt.Errorf("%w: purchase order references missing farmer or employee", ErrForeignKeyViolation)
			}
		}
		return fmt.Errorf("%w: creating purchase order: %v", ErrDatabaseError, err)
	}
	return nil
}

// CreatePurchaseOrderItem inserts one order line and returns its generated ID.
func (r *purchaseOrderRepository) CreatePurchaseOrderItem(executor SQLExecutor, item *models.PurchaseOrderItem) (int64, error) {
	query := `INSERT INTO purchase_order_items (purchase_order_number, p_id, quantity, price_per_unit)
	          VALUES ($1, $2, $3, $4)
	          RETURNING po_item_id`

	err := executor.QueryRow(query, item.OrderNumber, item.ProductID, item.Quantity, item.PricePerUnit).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: order line references missing product", ErrForeignKeyViolation)
		}
		return 0, fmt.Errorf("%w: creating purchase order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

const purchaseOrderSelect = `SELECT po.purchase_order_number, po.f_id, f.f_name, po.b_date, po.b_total_price,
	       po.payment_status, po.stock_status,
	       po.created_by_id, cb.e_name, po.created_date,
	       po.paid_by_id, pb.e_name, po.paid_date,
	       po.received_by_id, rb.e_name, po.received_date
	FROM purchase_orders po
	JOIN farmers f ON f.f_id = po.f_id
	LEFT JOIN employees cb ON cb.e_id = po.created_by_id
	LEFT JOIN employees pb ON pb.e_id = po.paid_by_id
	LEFT JOIN employees rb ON rb.e_id = po.received_by_id`

func scanPurchaseOrder(row interface{ Scan(...interface{}) error }, po *models.PurchaseOrder) error {
	return row.Scan(
		&po.Number, &po.FarmerID, &po.FarmerName, &po.OrderDate, &po.TotalPrice,
		&po.PaymentStatus, &po.StockStatus,
		&po.CreatedByID, &po.CreatedByName, &po.CreatedDate,
		&po.PaidByID, &po.PaidByName, &po.PaidDate,
		&po.ReceivedByID, &po.ReceivedByName, &po.ReceivedDate,
	)
}

// GetPurchaseOrderByNumber retrieves one order with its items and joined names.
func (r *purchaseOrderRepository) GetPurchaseOrderByNumber(number string) (*models.PurchaseOrder, error) {
	order := &models.PurchaseOrder{}
	query := purchaseOrderSelect + ` WHERE po.purchase_order_number = $1`

	if err := scanPurchaseOrder(r.db.QueryRow(query, number), order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting purchase order %s: %v", ErrDatabaseError, number, err)
	}

	items, err := r.GetPurchaseOrderItems(r.db, number)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// GetPurchaseOrderForUpdate locks the order row inside a transaction so that
// payment and receipt transitions do not race.
func (r *purchaseOrderRepository) GetPurchaseOrderForUpdate(executor SQLExecutor, number string) (*models.PurchaseOrder, error) {
	order := &models.PurchaseOrder{}
	query := `SELECT purchase_order_number, f_id, b_date, b_total_price, payment_status, stock_status,
	                 created_by_id, created_date, paid_by_id, paid_date, received_by_id, received_date
	          FROM purchase_orders WHERE purchase_order_number = $1 FOR UPDATE`

	err := executor.QueryRow(query, number).Scan(
		&order.Number, &order.FarmerID, &order.OrderDate, &order.TotalPrice,
		&order.PaymentStatus, &order.StockStatus,
		&order.CreatedByID, &order.CreatedDate,
		&order.PaidByID, &order.PaidDate,
		&order.ReceivedByID, &order.ReceivedDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking purchase order %s: %v", ErrDatabaseError, number, err)
	}
	return order, nil
}

// GetPurchaseOrders lists orders newest first with optional payment/stock
// status, date-range and farmer-name/order-number search filters.
func (r *purchaseOrderRepository) GetPurchaseOrders(filters models.PurchaseOrderFilters) ([]models.PurchaseOrder, error) {
	query := purchaseOrderSelect + ` WHERE 1=1`
	var args []interface{}

	if filters.Status != nil && *filters.Status != "" {
		args = append(args, *filters.Status)
		query += fmt.Sprintf(` AND po.payment_status = $%d`, len(args))
	}
	if filters.StockStatus != nil && *filters.StockStatus != "" {
		args = append(args, *filters.StockStatus)
		query += fmt.Sprintf(` AND po.stock_status = $%d`, len(args))
	}
	if filters.Search != nil && *filters.Search != "" {
		args = append(args, "%"+*filters.Search+"%")
		query += fmt.Sprintf(` AND (po.purchase_order_number ILIKE $%d OR f.f_name ILIKE $%d)`, len(args), len(args))
	}
	if filters.StartDate != nil && *filters.StartDate != "" {
		args = append(args, *filters.StartDate)
		query += fmt.Sprintf(` AND po.b_date >= $%d`, len(args))
	}
	if filters.EndDate != nil && *filters.EndDate != "" {
		args = append(args, *filters.EndDate)
		query += fmt.Sprintf(` AND po.b_date <= $%d`, len(args))
	}
	query += ` ORDER BY po.b_date DESC, po.purchase_order_number DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing purchase orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.PurchaseOrder{}
	for rows.Next() {
		var po models.PurchaseOrder
		if err := scanPurchaseOrder(rows, &po); err != nil {
			return nil, fmt.Errorf("%w: scanning purchase order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, po)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating purchase orders: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

// GetPendingReceiptOrders returns paid orders whose goods have not been
// stored yet, oldest payment first. This is the warehouse receiving queue.
func (r *purchaseOrderRepository) GetPendingReceiptOrders() ([]models.PurchaseOrder, error) {
	query := purchaseOrderSelect + ` WHERE po.payment_status = 'Paid' AND po.stock_status = 'Pending'
		ORDER BY po.paid_date`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: listing pending-receipt orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.PurchaseOrder{}
	for rows.Next() {
		var po models.PurchaseOrder
		if err := scanPurchaseOrder(rows, &po); err != nil {
			return nil, fmt.Errorf("%w: scanning pending-receipt order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, po)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating pending-receipt orders: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

// GetPurchaseOrderItems returns the order lines with product names.
func (r *purchaseOrderRepository) GetPurchaseOrderItems(executor SQLExecutor, number string) ([]models.PurchaseOrderItem, error) {
	query := `SELECT poi.po_item_id, poi.purchase_order_number, poi.p_id, p.p_name, poi.quantity, poi.price_per_unit
	          FROM purchase_order_items poi
	          JOIN products p ON p.p_id = poi.p_id
	          WHERE poi.purchase_order_number = $1
	          ORDER BY poi.po_item_id`

	rows, err := executor.Query(query, number)
	if err != nil {
		return nil, fmt.Errorf("%w: listing purchase order items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	items := []models.PurchaseOrderItem{}
	for rows.Next() {
		var item models.PurchaseOrderItem
		if err := rows.Scan(&item.ID, &item.OrderNumber, &item.ProductID, &item.ProductName, &item.Quantity, &item.PricePerUnit); err != nil {
			return nil, fmt.Errorf("%w: scanning purchase order item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating purchase order items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

// MarkPaid records payment and queues the order for goods receipt.
func (r *purchaseOrderRepository) MarkPaid(executor SQLExecutor, number, paidByID string, paidAt time.Time) error {
	query := `UPDATE purchase_orders
	          SET payment_status = 'Paid', stock_status = 'Pending', paid_by_id = $1, paid_date = $2
	          WHERE purchase_order_number = $3`

	result, err := executor.Exec(query, paidByID, paidAt, number)
	if err != nil {
		return fmt.Errorf("%w: marking purchase order %s paid: %v", ErrDatabaseError, number, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: mark paid rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkReceived records that purchased goods have been stored.
func (r *purchaseOrderRepository) MarkReceived(executor SQLExecutor, number, receivedByID string, receivedAt time.Time) error {
	query := `UPDATE purchase_orders
	          SET stock_status = 'Completed', received_by_id = $1, received_date = $2
	          WHERE purchase_order_number = $3`

	result, err := executor.Exec(query, receivedByID, receivedAt, number)
	if err != nil {
		return fmt.Errorf("%w: marking purchase order %s received: %v", ErrDatabaseError, number, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: mark received rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
