package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"easypalm_backend/internal/models"

	"github.com/lib/pq"
)

// SalesOrderRepository defines the interface for sales-order database operations.
type SalesOrderRepository interface {
	CreateSalesOrder(executor SQLExecutor, order *models.SalesOrder) error
	CreateSalesOrderItem(executor SQLExecutor, item *models.SalesOrderItem) (int64, error)
	GetSalesOrderByNumber(number string) (*models.SalesOrder, error)
	GetSalesOrderForUpdate(executor SQLExecutor, number string) (*models.SalesOrder, error)
	GetSalesOrders(filters models.SalesOrderFilters) ([]models.SalesOrder, error)
	GetSalesOrderItems(executor SQLExecutor, number string) ([]models.SalesOrderItem, error)
	UpdateShipmentStatus(executor SQLExecutor, number, status, byID string, at time.Time) error
	MarkPaid(executor SQLExecutor, number, paidByID string, paidAt time.Time) error
	GetPendingPaymentOrders() ([]models.SalesOrder, error)
	GetShipmentHistory(search *string) ([]models.SalesOrder, error)
}

type salesOrderRepository struct {
	db *sql.DB
}

// NewSalesOrderRepository creates a new instance of SalesOrderRepository.
func NewSalesOrderRepository(db *sql.DB) SalesOrderRepository {
	return &salesOrderRepository{db: db}
}

// CreateSalesOrder inserts the order header. The caller assigns the order
// number and creates items separately within the same transaction.
func (r *salesOrderRepository) CreateSalesOrder(executor SQLExecutor, order *models.SalesOrder) error {
	query := `INSERT INTO sales_orders
	              (sale_order_number, c_id, warehouse_id, s_date, s_total_price,
	               payment_status, shipment_status, created_by_id, created_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := executor.Exec(query,
		order.Number, order.CustomerID, order.WarehouseID, order.OrderDate, order.TotalPrice,
		order.PaymentStatus, order.ShipmentStatus, order.CreatedByID, order.CreatedDate,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
			if pqErr.Code == "23503" {
				return fmt.Errorf("%w: sales order references missing customer, warehouse or employee", ErrForeignKeyViolation)
			}
		}
		return fmt.Errorf("%w: creating sales order: %v", ErrDatabaseError, err)
	}
	return nil
}

// CreateSalesOrderItem inserts one order line and returns its generated ID.
func (r *salesOrderRepository) CreateSalesOrderItem(executor SQLExecutor, item *models.SalesOrderItem) (int64, error) {
	query := `INSERT INTO sales_order_items (sale_order_number, p_id, quantity, price_per_unit, cogs)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING so_item_id`

	err := executor.QueryRow(query, item.OrderNumber, item.ProductID, item.Quantity, item.PricePerUnit, item.COGS).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: order line references missing product", ErrForeignKeyViolation)
		}
		return 0, fmt.Errorf("%w: creating sales order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

const salesOrderSelect = `SELECT so.sale_order_number, so.c_id, c.c_name, so.warehouse_id, so.s_date, so.s_total_price,
	       so.payment_status, so.shipment_status,
	       so.created_by_id, cb.e_name, so.created_date,
	       so.shipped_by_id, so.shipped_date,
	       so.delivered_by_id, so.delivered_date,
	       so.paid_by_id, so.paid_date
	FROM sales_orders so
	JOIN food_industries c ON c.c_id = so.c_id
	LEFT JOIN employees cb ON cb.e_id = so.created_by_id`

func scanSalesOrder(row interface{ Scan(...interface{}) error }, so *models.SalesOrder) error {
	return row.Scan(
		&so.Number, &so.CustomerID, &so.CustomerName, &so.WarehouseID, &so.OrderDate, &so.TotalPrice,
		&so.PaymentStatus, &so.ShipmentStatus,
		&so.CreatedByID, &so.CreatedByName, &so.CreatedDate,
		&so.ShippedByID, &so.ShippedDate,
		&so.DeliveredByID, &so.DeliveredDate,
		&so.PaidByID, &so.PaidDate,
	)
}

// GetSalesOrderByNumber retrieves one order with its items and joined names.
func (r *salesOrderRepository) GetSalesOrderByNumber(number string) (*models.SalesOrder, error) {
	order := &models.SalesOrder{}
	query := salesOrderSelect + ` WHERE so.sale_order_number = $1`

	if err := scanSalesOrder(r.db.QueryRow(query, number), order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting sales order %s: %v", ErrDatabaseError, number, err)
	}

	items, err := r.GetSalesOrderItems(r.db, number)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// GetSalesOrderForUpdate locks the order row inside a transaction so that
// shipment and payment transitions do not race.
func (r *salesOrderRepository) GetSalesOrderForUpdate(executor SQLExecutor, number string) (*models.SalesOrder, error) {
	order := &models.SalesOrder{}
	query := `SELECT sale_order_number, c_id, warehouse_id, s_date, s_total_price,
	                 payment_status, shipment_status,
	                 created_by_id, created_date, shipped_by_id, shipped_date,
	                 delivered_by_id, delivered_date, paid_by_id, paid_date
	          FROM sales_orders WHERE sale_order_number = $1 FOR UPDATE`

	err := executor.QueryRow(query, number).Scan(
		&order.Number, &order.CustomerID, &order.WarehouseID, &order.OrderDate, &order.TotalPrice,
		&order.PaymentStatus, &order.ShipmentStatus,
		&order.CreatedByID, &order.CreatedDate,
		&order.ShippedByID, &order.ShippedDate,
		&order.DeliveredByID, &order.DeliveredDate,
		&order.PaidByID, &order.PaidDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking sales order %s: %v", ErrDatabaseError, number, err)
	}
	return order, nil
}

// GetSalesOrders lists orders newest first with optional payment/shipment
// status, date-range and customer-name/order-number search filters.
func (r *salesOrderRepository) GetSalesOrders(filters models.SalesOrderFilters) ([]models.SalesOrder, error) {
	query := salesOrderSelect + ` WHERE 1=1`
	var args []interface{}

	if filters.PaymentStatus != nil && *filters.PaymentStatus != "" {
		args = append(args, *filters.PaymentStatus)
		query += fmt.Sprintf(` AND so.payment_status = $%d`, len(args))
	}
	if filters.ShipmentStatus != nil && *filters.ShipmentStatus != "" {
		args = append(args, *filters.ShipmentStatus)
		query += fmt.Sprintf(` AND so.shipment_status = $%d`, len(args))
	}
	if filters.Search != nil && *filters.Search != "" {
		args = append(args, "%"+*filters.Search+"%")
		query += fmt.Sprintf(` AND (so.sale_order_number ILIKE $%d OR c.c_name ILIKE $%d)`, len(args), len(args))
	}
	if filters.StartDate != nil && *filters.StartDate != "" {
		args = append(args, *filters.StartDate)
		query += fmt.Sprintf(` AND so.s_date >= $%d`, len(args))
	}
	if filters.EndDate != nil && *filters.EndDate != "" {
		args = append(args, *filters.EndDate)
		query += fmt.Sprintf(` AND so.s_date <= $%d`, len(args))
	}
	query += ` ORDER BY so.s_date DESC, so.sale_order_number DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing sales orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.SalesOrder{}
	for rows.Next() {
		var so models.SalesOrder
		if err := scanSalesOrder(rows, &so); err != nil {
			return nil, fmt.Errorf("%w: scanning sales order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, so)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sales orders: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

// GetSalesOrderItems returns the order lines with product names.
func (r *salesOrderRepository) GetSalesOrderItems(executor SQLExecutor, number string) ([]models.SalesOrderItem, error) {
	query := `SELECT soi.so_item_id, soi.sale_order_number, soi.p_id, p.p_name, soi.quantity, soi.price_per_unit, soi.cogs
	          FROM sales_order_items soi
	          JOIN products p ON p.p_id = soi.p_id
	          WHERE soi.sale_order_number = $1
	          ORDER BY soi.so_item_id`

	rows, err := executor.Query(query, number)
	if err != nil {
		return nil, fmt.Errorf("%w: listing sales order items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	items := []models.SalesOrderItem{}
	for rows.Next() {
		var item models.SalesOrderItem
		if err := rows.Scan(&item.ID, &item.OrderNumber, &item.ProductID, &item.ProductName, &item.Quantity, &item.PricePerUnit, &item.COGS); err != nil {
			return nil, fmt.Errorf("%w: scanning sales order item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sales order items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

// UpdateShipmentStatus moves the order to the given shipment status, stamping
// the matching audit columns.
func (r *salesOrderRepository) UpdateShipmentStatus(executor SQLExecutor, number, status, byID string, at time.Time) error {
	var query string
	switch status {
	case "Shipped":
		query = `UPDATE sales_orders SET shipment_status = 'Shipped', shipped_by_id = $1, shipped_date = $2
		         WHERE sale_order_number = $3`
	case "Delivered":
		query = `UPDATE sales_orders SET shipment_status = 'Delivered', delivered_by_id = $1, delivered_date = $2
		         WHERE sale_order_number = $3`
	case "Returned":
		query = `UPDATE sales_orders SET shipment_status = 'Returned', delivered_by_id = $1, delivered_date = $2
		         WHERE sale_order_number = $3`
	default:
		return fmt.Errorf("%w: unsupported shipment status %q", ErrDatabaseError, status)
	}

	result, err := executor.Exec(query, byID, at, number)
	if err != nil {
		return fmt.Errorf("%w: updating shipment status of %s: %v", ErrDatabaseError, number, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update shipment rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid records the customer's payment.
func (r *salesOrderRepository) MarkPaid(executor SQLExecutor, number, paidByID string, paidAt time.Time) error {
	query := `UPDATE sales_orders SET payment_status = 'Paid', paid_by_id = $1, paid_date = $2
	          WHERE sale_order_number = $3`

	result, err := executor.Exec(query, paidByID, paidAt, number)
	if err != nil {
		return fmt.Errorf("%w: marking sales order %s paid: %v", ErrDatabaseError, number, err)
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

// GetPendingPaymentOrders returns delivered orders awaiting payment.
func (r *salesOrderRepository) GetPendingPaymentOrders() ([]models.SalesOrder, error) {
	query := salesOrderSelect + ` WHERE so.shipment_status = 'Delivered' AND so.payment_status = 'Unpaid'
	          ORDER BY so.delivered_date`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: listing pending-payment orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.SalesOrder{}
	for rows.Next() {
		var so models.SalesOrder
		if err := scanSalesOrder(rows, &so); err != nil {
			return nil, fmt.Errorf("%w: scanning pending-payment order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, so)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating pending-payment orders: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

// GetShipmentHistory returns orders that have left the warehouse, shipped or
// delivered, newest shipment first. An optional search narrows by order
// number or customer name.
func (r *salesOrderRepository) GetShipmentHistory(search *string) ([]models.SalesOrder, error) {
	query := salesOrderSelect + ` WHERE so.shipment_status IN ('Shipped', 'Delivered')`
	var args []interface{}

	if search != nil && *search != "" {
		args = append(args, "%"+*search+"%")
		query += fmt.Sprintf(` AND (so.sale_order_number ILIKE $%d OR c.c_name ILIKE $%d)`, len(args), len(args))
	}
	query += ` ORDER BY so.shipped_date DESC, so.sale_order_number DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing shipment history: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.SalesOrder{}
	for rows.Next() {
		var so models.SalesOrder
		if err := scanSalesOrder(rows, &so); err != nil {
			return nil, fmt.Errorf("%w: scanning shipment-history order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, so)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shipment history: %v", ErrDatabaseError, err)
	}
	return orders, nil
}
