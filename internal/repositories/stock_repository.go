package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"easypalm_backend/internal/models"
)

// StockRepository defines the interface for stock-level and FIFO-lot operations.
// Mutating methods take an executor so that order workflows can group stock
// movements into one transaction.
type StockRepository interface {
	GetStockLevels(filters models.StockFilters) ([]models.StockLevel, error)
	GetQuantity(executor SQLExecutor, productID, warehouseID string) (float64, error)
	AdjustLevel(executor SQLExecutor, productID, warehouseID string, delta float64) error
	InsertLot(executor SQLExecutor, lot *models.StockLot) (int64, error)
	ConsumeLotsFIFO(executor SQLExecutor, productID, warehouseID string, quantity float64) (float64, error)
	InsertReturn(executor SQLExecutor, ret *models.StockReturn) (int64, error)
	GetStockInHistory() ([]models.StockInEntry, error)
	TotalQuantityInWarehouse(warehouseID string) (float64, error)
	TotalStockValueFIFO() (float64, error)
}

type stockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new instance of StockRepository.
func NewStockRepository(db *sql.DB) StockRepository {
	return &stockRepository{db: db}
}

// GetStockLevels returns current on-hand stock with product/warehouse names
// and the FIFO average cost of the remaining lots. Rows with zero quantity
// are omitted.
func (r *stockRepository) GetStockLevels(filters models.StockFilters) ([]models.StockLevel, error) {
	query := `SELECT sl.p_id, sl.warehouse_id, sl.quantity, p.p_name, w.warehouse_name,
	                 COALESCE(
	                     (SELECT SUM(t.remaining_quantity * t.unit_cost) / NULLIF(SUM(t.remaining_quantity), 0)
	                      FROM stock_in_transactions t
	                      WHERE t.p_id = sl.p_id AND t.warehouse_id = sl.warehouse_id AND t.remaining_quantity > 0),
	                     0) AS average_cost
	          FROM stock_levels sl
	          JOIN products p ON p.p_id = sl.p_id
	          JOIN warehouses w ON w.warehouse_id = sl.warehouse_id
	          WHERE sl.quantity > 0`

	var args []interface{}
	if filters.WarehouseID != nil && *filters.WarehouseID != "" {
		args = append(args, *filters.WarehouseID)
		query += fmt.Sprintf(` AND sl.warehouse_id = $%d`, len(args))
	}
	if filters.Search != nil && *filters.Search != "" {
		args = append(args, "%"+*filters.Search+"%")
		query += fmt.Sprintf(` AND p.p_name ILIKE $%d`, len(args))
	}
	query += ` ORDER BY w.warehouse_name, p.p_name`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing stock levels: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	levels := []models.StockLevel{}
	for rows.Next() {
		var sl models.StockLevel
		if err := rows.Scan(&sl.ProductID, &sl.WarehouseID, &sl.Quantity, &sl.ProductName, &sl.WarehouseName, &sl.AverageCost); err != nil {
			return nil, fmt.Errorf("%w: scanning stock level: %v", ErrDatabaseError, err)
		}
		levels = append(levels, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stock levels: %v", ErrDatabaseError, err)
	}
	return levels, nil
}

// GetQuantity returns the on-hand quantity for a product in a warehouse,
// zero when no stock row exists yet.
func (r *stockRepository) GetQuantity(executor SQLExecutor, productID, warehouseID string) (float64, error) {
	query := `SELECT quantity FROM stock_levels WHERE p_id = $1 AND warehouse_id = $2`

	var quantity float64
	err := executor.QueryRow(query, productID, warehouseID).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: getting stock quantity: %v", ErrDatabaseError, err)
	}
	return quantity, nil
}

// AdjustLevel adds delta (positive or negative) to the stock level row,
// creating the row if it does not exist.
func (r *stockRepository) AdjustLevel(executor SQLExecutor, productID, warehouseID string, delta float64) error {
	query := `INSERT INTO stock_levels (p_id, warehouse_id, quantity)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (p_id, warehouse_id)
	          DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity`

	if _, err := executor.Exec(query, productID, warehouseID, delta); err != nil {
		return fmt.Errorf("%w: adjusting stock level for %s/%s: %v", ErrDatabaseError, productID, warehouseID, err)
	}
	return nil
}

// InsertLot records a goods receipt as a new FIFO lot.
func (r *stockRepository) InsertLot(executor SQLExecutor, lot *models.StockLot) (int64, error) {
	query := `INSERT INTO stock_in_transactions
	              (in_transaction_date, p_id, warehouse_id, in_quantity, unit_cost, remaining_quantity, po_item_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING in_transaction_id`

	err := executor.QueryRow(query,
		lot.ReceivedAt, lot.ProductID, lot.WarehouseID, lot.Quantity,
		lot.UnitCost, lot.RemainingQuantity, lot.POItemID,
	).Scan(&lot.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting stock lot: %v", ErrDatabaseError, err)
	}
	return lot.ID, nil
}

// ConsumeLotsFIFO draws the requested quantity from the oldest lots first and
// returns the total cost of goods consumed. It returns ErrNotFound when the
// lots cannot cover the quantity; callers should verify availability first.
func (r *stockRepository) ConsumeLotsFIFO(executor SQLExecutor, productID, warehouseID string, quantity float64) (float64, error) {
	query := `SELECT in_transaction_id, remaining_quantity, unit_cost
	          FROM stock_in_transactions
	          WHERE p_id = $1 AND warehouse_id = $2 AND remaining_quantity > 0
	          ORDER BY in_transaction_date, in_transaction_id
	          FOR UPDATE`

	rows, err := executor.Query(query, productID, warehouseID)
	if err != nil {
		return 0, fmt.Errorf("%w: locking stock lots: %v", ErrDatabaseError, err)
	}

	type lotDraw struct {
		id   int64
		take float64
	}
	var draws []lotDraw
	var cogs float64
	remaining := quantity
	for rows.Next() {
		var id int64
		var lotRemaining, unitCost float64
		if err := rows.Scan(&id, &lotRemaining, &unitCost); err != nil {
			rows.Close()
			return 0, fmt.Errorf("%w: scanning stock lot: %v", ErrDatabaseError, err)
		}
		if remaining <= 0 {
			break
		}
		take := lotRemaining
		if take > remaining {
			take = remaining
		}
		draws = append(draws, lotDraw{id: id, take: take})
		cogs += take * unitCost
		remaining -= take
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("%w: iterating stock lots: %v", ErrDatabaseError, err)
	}
	rows.Close()

	if remaining > 1e-9 {
		return 0, fmt.Errorf("%w: insufficient lots for %s in %s", ErrNotFound, productID, warehouseID)
	}

	updateQuery := `UPDATE stock_in_transactions SET remaining_quantity = remaining_quantity - $1 WHERE in_transaction_id = $2`
	for _, d := range draws {
		if _, err := executor.Exec(updateQuery, d.take, d.id); err != nil {
			return 0, fmt.Errorf("%w: drawing down lot %d: %v", ErrDatabaseError, d.id, err)
		}
	}
	return cogs, nil
}

// InsertReturn records goods returned from a delivered sales order.
func (r *stockRepository) InsertReturn(executor SQLExecutor, ret *models.StockReturn) (int64, error) {
	query := `INSERT INTO stock_return_transactions
	              (return_transaction_date, p_id, warehouse_id, return_quantity, reason, so_item_id)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING return_transaction_id`

	err := executor.QueryRow(query,
		ret.ReturnedAt, ret.ProductID, ret.WarehouseID, ret.Quantity, ret.Reason, ret.SOItemID,
	).Scan(&ret.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting stock return: %v", ErrDatabaseError, err)
	}
	return ret.ID, nil
}

// GetStockInHistory returns the goods-received log, newest first.
func (r *stockRepository) GetStockInHistory() ([]models.StockInEntry, error) {
	query := `SELECT t.in_transaction_id, t.in_transaction_date, p.p_name, t.in_quantity, t.unit_cost,
	                 w.warehouse_name, poi.purchase_order_number
	          FROM stock_in_transactions t
	          JOIN products p ON p.p_id = t.p_id
	          JOIN warehouses w ON w.warehouse_id = t.warehouse_id
	          JOIN purchase_order_items poi ON poi.po_item_id = t.po_item_id
	          ORDER BY t.in_transaction_date DESC, t.in_transaction_id DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: listing stock-in history: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	entries := []models.StockInEntry{}
	for rows.Next() {
		var e models.StockInEntry
		if err := rows.Scan(&e.TransactionID, &e.Date, &e.ProductName, &e.Quantity, &e.UnitCost, &e.WarehouseName, &e.PONumber); err != nil {
			return nil, fmt.Errorf("%w: scanning stock-in entry: %v", ErrDatabaseError, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stock-in history: %v", ErrDatabaseError, err)
	}
	return entries, nil
}

// TotalQuantityInWarehouse sums all stock held in one warehouse.
func (r *stockRepository) TotalQuantityInWarehouse(warehouseID string) (float64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_levels WHERE warehouse_id = $1`

	var total float64
	if err := r.db.QueryRow(query, warehouseID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: totaling stock in warehouse %s: %v", ErrDatabaseError, warehouseID, err)
	}
	return total, nil
}

// TotalStockValueFIFO values all remaining lots at their receipt cost.
func (r *stockRepository) TotalStockValueFIFO() (float64, error) {
	query := `SELECT COALESCE(SUM(remaining_quantity * unit_cost), 0) FROM stock_in_transactions WHERE remaining_quantity > 0`

	var total float64
	if err := r.db.QueryRow(query).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: totaling stock value: %v", ErrDatabaseError, err)
	}
	return total, nil
}
