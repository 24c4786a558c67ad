package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"easypalm_backend/internal/models"
	"easypalm_backend/internal/repositories"
)

var (
	ErrWarehouseNotFound   = errors.New("warehouse not found")
	ErrWarehouseValidation = errors.New("warehouse data validation error")
	ErrWarehouseDuplicate  = errors.New("warehouse with this name already exists")
	ErrWarehouseHasStock   = errors.New("warehouse cannot be deleted while it holds stock")
)

// --- Warehouse DTOs ---
type CreateWarehouseRequest struct {
	Name     string  `json:"warehouse_name" binding:"required"`
	Location *string `json:"location"`
	Capacity float64 `json:"capacity" binding:"required"`
}

type UpdateWarehouseRequest struct {
	Name     *string  `json:"warehouse_name"`
	Location *string  `json:"location"`
	Capacity *float64 `json:"capacity"`
}

// WarehouseService manages storage sites and their utilization view.
type WarehouseService interface {
	CreateWarehouse(req CreateWarehouseRequest) (*models.Warehouse, error)
	GetWarehouseByID(id string) (*models.Warehouse, error)
	GetWarehouses(searchTerm *string) ([]models.Warehouse, error)
	UpdateWarehouse(id string, req UpdateWarehouseRequest) (*models.Warehouse, error)
	DeleteWarehouse(id string) error
	GetWarehouseSummaries() ([]models.WarehouseSummary, error)
}

type warehouseService struct {
	warehouseRepo repositories.WarehouseRepository
	stockRepo     repositories.StockRepository
	db            *sql.DB
}

// NewWarehouseService creates a new instance of WarehouseService.
func NewWarehouseService(warehouseRepo repositories.WarehouseRepository, stockRepo repositories.StockRepository, db *sql.DB) WarehouseService {
	return &warehouseService{warehouseRepo: warehouseRepo, stockRepo: stockRepo, db: db}
}

func validateWarehouseFields(name string, capacity float64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrWarehouseValidation)
	}
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity must be greater than zero", ErrWarehouseValidation)
	}
	return nil
}

// CreateWarehouse registers a new warehouse with a generated W-prefixed ID.
func (s *warehouseService) CreateWarehouse(req CreateWarehouseRequest) (*models.Warehouse, error) {
	if err := validateWarehouseFields(req.Name, req.Capacity); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := repositories.NextSequentialID(tx, "warehouses", "warehouse_id", "W")
	if err != nil {
		return nil, fmt.Errorf("failed to generate warehouse ID: %w", err)
	}

	warehouse := &models.Warehouse{
		ID:       id,
		Name:     strings.TrimSpace(req.Name),
		Location: req.Location,
		Capacity: req.Capacity,
	}
	if err := s.warehouseRepo.CreateWarehouse(tx, warehouse); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrWarehouseDuplicate
		}
		return nil, fmt.Errorf("failed to create warehouse: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return warehouse, nil
}

// GetWarehouseByID retrieves one warehouse.
func (s *warehouseService) GetWarehouseByID(id string) (*models.Warehouse, error) {
	warehouse, err := s.warehouseRepo.GetWarehouseByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWarehouseNotFound
		}
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}
	return warehouse, nil
}

// GetWarehouses lists warehouses, optionally filtered by a search term.
func (s *warehouseService) GetWarehouses(searchTerm *string) ([]models.Warehouse, error) {
	warehouses, err := s.warehouseRepo.GetWarehouses(searchTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	return warehouses, nil
}

// UpdateWarehouse applies the provided fields to an existing warehouse.
func (s *warehouseService) UpdateWarehouse(id string, req UpdateWarehouseRequest) (*models.Warehouse, error) {
	warehouse, err := s.GetWarehouseByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		warehouse.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		warehouse.Location = req.Location
	}
	if req.Capacity != nil {
		warehouse.Capacity = *req.Capacity
	}
	if err := validateWarehouseFields(warehouse.Name, warehouse.Capacity); err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.UpdateWarehouse(s.db, warehouse); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrWarehouseDuplicate
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWarehouseNotFound
		}
		return nil, fmt.Errorf("failed to update warehouse: %w", err)
	}
	return warehouse, nil
}

// DeleteWarehouse removes an empty warehouse. Deletion is refused while any
// stock remains inside.
func (s *warehouseService) DeleteWarehouse(id string) error {
	if _, err := s.GetWarehouseByID(id); err != nil {
		return err
	}

	total, err := s.stockRepo.TotalQuantityInWarehouse(id)
	if err != nil {
		return fmt.Errorf("failed to check warehouse stock: %w", err)
	}
	if total > 0 {
		return ErrWarehouseHasStock
	}

	if err := s.warehouseRepo.DeleteWarehouse(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrWarehouseNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrWarehouseHasStock
		}
		return fmt.Errorf("failed to delete warehouse: %w", err)
	}
	return nil
}

// GetWarehouseSummaries returns capacity utilization per warehouse.
func (s *warehouseService) GetWarehouseSummaries() ([]models.WarehouseSummary, error) {
	summaries, err := s.warehouseRepo.GetWarehouseSummaries()
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse summaries: %w", err)
	}
	return summaries, nil
}
