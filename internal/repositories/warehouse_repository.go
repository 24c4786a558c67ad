package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"easypalm_backend/internal/models"

	"github.com/lib/pq"
)

// WarehouseRepository defines the interface for warehouse-related database operations.
type WarehouseRepository interface {
	CreateWarehouse(executor SQLExecutor, warehouse *models.Warehouse) error
	GetWarehouseByID(id string) (*models.Warehouse, error)
	GetWarehouses(searchTerm *string) ([]models.Warehouse, error)
	UpdateWarehouse(executor SQLExecutor, warehouse *models.Warehouse) error
	DeleteWarehouse(executor SQLExecutor, id string) error
	GetWarehouseSummaries() ([]models.WarehouseSummary, error)
}

type warehouseRepository struct {
	db *sql.DB
}

// NewWarehouseRepository creates a new instance of WarehouseRepository.
func NewWarehouseRepository(db *sql.DB) WarehouseRepository {
	return &warehouseRepository{db: db}
}

// CreateWarehouse inserts a new warehouse. The caller assigns warehouse.ID.
func (r *warehouseRepository) CreateWarehouse(executor SQLExecutor, warehouse *models.Warehouse) error {
	query := `INSERT INTO warehouses (warehouse_id, warehouse_name, location, capacity, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	currentTime := time.Now()
	if warehouse.CreatedAt.IsZero() {
		warehouse.CreatedAt = currentTime
	}
	warehouse.UpdatedAt = currentTime

	_, err := executor.Exec(query,
		warehouse.ID, warehouse.Name, warehouse.Location, warehouse.Capacity,
		warehouse.CreatedAt, warehouse.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: creating warehouse: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetWarehouseByID retrieves a warehouse by its ID.
func (r *warehouseRepository) GetWarehouseByID(id string) (*models.Warehouse, error) {
	warehouse := &models.Warehouse{}
	query := `SELECT warehouse_id, warehouse_name, location, capacity, created_at, updated_at
	          FROM warehouses WHERE warehouse_id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&warehouse.ID, &warehouse.Name, &warehouse.Location, &warehouse.Capacity,
		&warehouse.CreatedAt, &warehouse.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting warehouse %s: %v", ErrDatabaseError, id, err)
	}
	return warehouse, nil
}

// GetWarehouses retrieves all warehouses, optionally filtered by name or location.
func (r *warehouseRepository) GetWarehouses(searchTerm *string) ([]models.Warehouse, error) {
	query := `SELECT warehouse_id, warehouse_name, location, capacity, created_at, updated_at FROM warehouses`
	var args []interface{}
	if searchTerm != nil && *searchTerm != "" {
		query += ` WHERE warehouse_name ILIKE $1 OR location ILIKE $1`
		args = append(args, "%"+*searchTerm+"%")
	}
	query += ` ORDER BY warehouse_id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing warehouses: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	warehouses := []models.Warehouse{}
	for rows.Next() {
		var w models.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location, &w.Capacity, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning warehouse: %v", ErrDatabaseError, err)
		}
		warehouses = append(warehouses, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating warehouses: %v", ErrDatabaseError, err)
	}
	return warehouses, nil
}

// UpdateWarehouse updates an existing warehouse's details.
func (r *warehouseRepository) UpdateWarehouse(executor SQLExecutor, warehouse *models.Warehouse) error {
	query := `UPDATE warehouses SET warehouse_name = $1, location = $2, capacity = $3, updated_at = $4
	          WHERE warehouse_id = $5`

	warehouse.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		warehouse.Name, warehouse.Location, warehouse.Capacity, warehouse.UpdatedAt, warehouse.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating warehouse %s: %v", ErrDatabaseError, warehouse.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update warehouse rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWarehouse removes a warehouse. The service layer checks for remaining
// stock first; the FK check here is the backstop.
func (r *warehouseRepository) DeleteWarehouse(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM warehouses WHERE warehouse_id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: warehouse %s still holds stock or orders", ErrForeignKeyViolation, id)
		}
		return fmt.Errorf("%w: deleting warehouse %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete warehouse rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetWarehouseSummaries returns capacity utilization per warehouse.
func (r *warehouseRepository) GetWarehouseSummaries() ([]models.WarehouseSummary, error) {
	query := `SELECT w.warehouse_id, w.warehouse_name, w.location, w.capacity,
	                 COALESCE(SUM(sl.quantity), 0) AS current_stock
	          FROM warehouses w
	          LEFT JOIN stock_levels sl ON sl.warehouse_id = w.warehouse_id
	          GROUP BY w.warehouse_id, w.warehouse_name, w.location, w.capacity
	          ORDER BY w.warehouse_id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: warehouse summaries: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	summaries := []models.WarehouseSummary{}
	for rows.Next() {
		var s models.WarehouseSummary
		if err := rows.Scan(&s.WarehouseID, &s.WarehouseName, &s.Location, &s.Capacity, &s.CurrentStock); err != nil {
			return nil, fmt.Errorf("%w: scanning warehouse summary: %v", ErrDatabaseError, err)
		}
		s.RemainingCapacity = s.Capacity - s.CurrentStock
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating warehouse summaries: %v", ErrDatabaseError, err)
	}
	return summaries, nil
}
