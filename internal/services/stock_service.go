package services

import (
	"fmt"

	"easypalm_backend/internal/models"
	"easypalm_backend/internal/repositories"
)

// StockService exposes read-only inventory views. Stock mutations happen only
// through the order workflows.
type StockService interface {
	GetStockLevels(filters models.StockFilters) ([]models.StockLevel, error)
	GetStockInHistory() ([]models.StockInEntry, error)
}

type stockService struct {
	stockRepo repositories.StockRepository
}

// NewStockService creates a new instance of StockService.
func NewStockService(stockRepo repositories.StockRepository) StockService {
	return &stockService{stockRepo: stockRepo}
}

// GetStockLevels lists current on-hand stock with names and FIFO average cost.
func (s *stockService) GetStockLevels(filters models.StockFilters) ([]models.StockLevel, error) {
	levels, err := s.stockRepo.GetStockLevels(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock levels: %w", err)
	}
	return levels, nil
}

// GetStockInHistory returns the goods-received log, newest first.
func (s *stockService) GetStockInHistory() ([]models.StockInEntry, error) {
	entries, err := s.stockRepo.GetStockInHistory()
	if err != nil {
		return nil, fmt.Errorf("failed to list stock-in history: %w", err)
	}
	return entries, nil
}
