package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"easypalm_backend/internal/models"
)

// ReportRepository aggregates the figures behind the dashboards and the
// profit-loss report. All methods are read-only.
type ReportRepository interface {
	PurchaseTotalOnDate(day time.Time) (float64, error)
	PendingPaymentCount() (int, error)
	EmployeeCount() (int, error)
	FarmerCount() (int, error)
	RecentPurchases(limit int) ([]models.PurchaseOrder, error)
	RecentSales(limit int) ([]models.SalesOrder, error)
	PurchaseTotalsByDay(since time.Time) (map[string]float64, error)
	DailyTotals(since time.Time) ([]models.DailyTotals, error)
	RevenueAndCOGS(start, end *time.Time) (float64, float64, error)
	TotalPurchaseCost() (float64, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

// PurchaseTotalOnDate sums purchase orders dated on the given day.
func (r *reportRepository) PurchaseTotalOnDate(day time.Time) (float64, error) {
	query := `SELECT COALESCE(SUM(b_total_price), 0) FROM purchase_orders WHERE b_date::date = $1::date`

	var total float64
	if err := r.db.QueryRow(query, day).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: purchase total for day: %v", ErrDatabaseError, err)
	}
	return total, nil
}

// PendingPaymentCount counts unpaid purchase orders.
func (r *reportRepository) PendingPaymentCount() (int, error) {
	query := `SELECT COUNT(*) FROM purchase_orders WHERE payment_status = 'Unpaid'`

	var count int
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: pending payment count: %v", ErrDatabaseError, err)
	}
	return count, nil
}

// EmployeeCount counts active employees.
func (r *reportRepository) EmployeeCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM employees WHERE is_active`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: employee count: %v", ErrDatabaseError, err)
	}
	return count, nil
}

// FarmerCount counts registered farmers.
func (r *reportRepository) FarmerCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM farmers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: farmer count: %v", ErrDatabaseError, err)
	}
	return count, nil
}

// RecentPurchases returns the newest purchase orders with farmer names.
func (r *reportRepository) RecentPurchases(limit int) ([]models.PurchaseOrder, error) {
	query := `SELECT po.purchase_order_number, po.f_id, f.f_name, po.b_date, po.b_total_price,
	                 po.payment_status, po.stock_status
	          FROM purchase_orders po
	          JOIN farmers f ON f.f_id = po.f_id
	          ORDER BY po.b_date DESC, po.purchase_order_number DESC
	          LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: recent purchases: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.PurchaseOrder{}
	for rows.Next() {
		var po models.PurchaseOrder
		if err := rows.Scan(&po.Number, &po.FarmerID, &po.FarmerName, &po.OrderDate, &po.TotalPrice,
			&po.PaymentStatus, &po.StockStatus); err != nil {
			return nil, fmt.Errorf("%w: scanning recent purchase: %v", ErrDatabaseError, err)
		}
		orders = append(orders, po)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating recent purchases: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

// RecentSales returns the newest sales orders with customer names.
func (r *reportRepository) RecentSales(limit int) ([]models.SalesOrder, error) {
	query := `SELECT so.sale_order_number, so.c_id, c.c_name, so.warehouse_id, so.s_date, so.s_total_price,
	                 so.payment_status, so.shipment_status
	          FROM sales_orders so
	          JOIN food_industries c ON c.c_id = so.c_id
	          ORDER BY so.s_date DESC, so.sale_order_number DESC
	          LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: recent sales: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.SalesOrder{}
	for rows.Next() {
		var so models.SalesOrder
		if err := rows.Scan(&so.Number, &so.CustomerID, &so.CustomerName, &so.WarehouseID, &so.OrderDate,
			&so.TotalPrice, &so.PaymentStatus, &so.ShipmentStatus); err != nil {
			return nil, fmt.Errorf("%w: scanning recent sale: %v", ErrDatabaseError, err)
		}
		orders = append(orders, so)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating recent sales: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

// PurchaseTotalsByDay sums purchase totals per day since the given date.
func (r *reportRepository) PurchaseTotalsByDay(since time.Time) (map[string]float64, error) {
	query := `SELECT b_date::date, SUM(b_total_price)
	          FROM purchase_orders
	          WHERE b_date >= $1
	          GROUP BY b_date::date
	          ORDER BY b_date::date`

	rows, err := r.db.Query(query, since)
	if err != nil {
		return nil, fmt.Errorf("%w: purchase totals by day: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	totals := map[string]float64{}
	for rows.Next() {
		var day time.Time
		var total float64
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("%w: scanning purchase day total: %v", ErrDatabaseError, err)
		}
		totals[day.Format("2006-01-02")] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating purchase day totals: %v", ErrDatabaseError, err)
	}
	return totals, nil
}

// DailyTotals returns per-day sales and purchase totals since the given date.
// Days with no activity on either side are skipped.
func (r *reportRepository) DailyTotals(since time.Time) ([]models.DailyTotals, error) {
	query := `SELECT day, COALESCE(SUM(sales), 0), COALESCE(SUM(purchases), 0)
	          FROM (
	              SELECT s_date::date AS day, s_total_price AS sales, NULL::numeric AS purchases
	              FROM sales_orders WHERE s_date >= $1
	              UNION ALL
	              SELECT b_date::date AS day, NULL::numeric AS sales, b_total_price AS purchases
	              FROM purchase_orders WHERE b_date >= $1
	          ) activity
	          GROUP BY day
	          ORDER BY day`

	rows, err := r.db.Query(query, since)
	if err != nil {
		return nil, fmt.Errorf("%w: daily totals: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	totals := []models.DailyTotals{}
	for rows.Next() {
		var day time.Time
		var dt models.DailyTotals
		if err := rows.Scan(&day, &dt.Sales, &dt.Purchases); err != nil {
			return nil, fmt.Errorf("%w: scanning daily totals: %v", ErrDatabaseError, err)
		}
		dt.Date = day.Format("2006-01-02")
		totals = append(totals, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating daily totals: %v", ErrDatabaseError, err)
	}
	return totals, nil
}

// RevenueAndCOGS sums revenue and FIFO cost of goods sold over paid sales
// orders, optionally restricted to a date range.
func (r *reportRepository) RevenueAndCOGS(start, end *time.Time) (float64, float64, error) {
	// Summing revenue over a join with items would multiply it by the line
	// count, so the two sides are computed separately.
	revenueQuery := `SELECT COALESCE(SUM(s_total_price), 0) FROM sales_orders WHERE payment_status = 'Paid'`
	cogsQuery := `SELECT COALESCE(SUM(soi.cogs), 0)
	              FROM sales_order_items soi
	              JOIN sales_orders so ON so.sale_order_number = soi.sale_order_number
	              WHERE so.payment_status = 'Paid'`
	var revArgs []interface{}
	if start != nil {
		revArgs = append(revArgs, *start)
		revenueQuery += fmt.Sprintf(` AND s_date >= $%d`, len(revArgs))
		cogsQuery += fmt.Sprintf(` AND so.s_date >= $%d`, len(revArgs))
	}
	if end != nil {
		revArgs = append(revArgs, *end)
		revenueQuery += fmt.Sprintf(` AND s_date <= $%d`, len(revArgs))
		cogsQuery += fmt.Sprintf(` AND so.s_date <= $%d`, len(revArgs))
	}

	var revenue float64
	if err := r.db.QueryRow(revenueQuery, revArgs...).Scan(&revenue); err != nil {
		return 0, 0, fmt.Errorf("%w: revenue total: %v", ErrDatabaseError, err)
	}
	var cogs float64
	if err := r.db.QueryRow(cogsQuery, revArgs...).Scan(&cogs); err != nil {
		return 0, 0, fmt.Errorf("%w: cogs total: %v", ErrDatabaseError, err)
	}
	return revenue, cogs, nil
}

// TotalPurchaseCost sums all purchase order totals.
func (r *reportRepository) TotalPurchaseCost() (float64, error) {
	var total float64
	if err := r.db.QueryRow(`SELECT COALESCE(SUM(b_total_price), 0) FROM purchase_orders`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: total purchase cost: %v", ErrDatabaseError, err)
	}
	return total, nil
}
