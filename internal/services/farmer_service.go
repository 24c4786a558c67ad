package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"easypalm_backend/internal/models"
	"easypalm_backend/internal/repositories"
	"easypalm_backend/pkg/utils"
)

var (
	ErrFarmerNotFound   = errors.New("farmer not found")
	ErrFarmerValidation = errors.New("farmer data validation error")
	ErrFarmerDuplicate  = errors.New("farmer with this citizen ID already exists")
	ErrFarmerInUse      = errors.New("farmer cannot be deleted while purchase orders reference them")
)

// --- Farmer DTOs ---
type CreateFarmerRequest struct {
	Name      string  `json:"f_name" binding:"required"`
	CitizenID string  `json:"f_citizen_id_card" binding:"required"`
	Tel       string  `json:"f_tel" binding:"required"`
	Address   *string `json:"f_address"`
}

type UpdateFarmerRequest struct {
	Name      *string `json:"f_name"`
	CitizenID *string `json:"f_citizen_id_card"`
	Tel       *string `json:"f_tel"`
	Address   *string `json:"f_address"`
}

// FarmerService manages the farmer registry.
type FarmerService interface {
	CreateFarmer(req CreateFarmerRequest) (*models.Farmer, error)
	GetFarmerByID(id string) (*models.Farmer, error)
	GetFarmers(searchTerm *string) ([]models.Farmer, error)
	UpdateFarmer(id string, req UpdateFarmerRequest) (*models.Farmer, error)
	DeleteFarmer(id string) error
}

type farmerService struct {
	farmerRepo repositories.FarmerRepository
	db         *sql.DB
}

// NewFarmerService creates a new instance of FarmerService.
func NewFarmerService(repo repositories.FarmerRepository, db *sql.DB) FarmerService {
	return &farmerService{farmerRepo: repo, db: db}
}

func validateFarmerFields(name, citizenID, tel string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrFarmerValidation)
	}
	if !utils.IsValidCitizenID(citizenID) {
		return fmt.Errorf("%w: citizen ID must be 13 digits", ErrFarmerValidation)
	}
	if !utils.IsValidPhoneNumber(tel) {
		return fmt.Errorf("%w: phone number must be 10 digits starting with 0", ErrFarmerValidation)
	}
	return nil
}

// CreateFarmer registers a new farmer with a generated F-prefixed ID.
func (s *farmerService) CreateFarmer(req CreateFarmerRequest) (*models.Farmer, error) {
	if err := validateFarmerFields(req.Name, req.CitizenID, req.Tel); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := repositories.NextSequentialID(tx, "farmers", "f_id", "F")
	if err != nil {
		return nil, fmt.Errorf("failed to generate farmer ID: %w", err)
	}

	farmer := &models.Farmer{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		CitizenID: req.CitizenID,
		Tel:       req.Tel,
		Address:   req.Address,
	}
	if err := s.farmerRepo.CreateFarmer(tx, farmer); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrFarmerDuplicate
		}
		return nil, fmt.Errorf("failed to create farmer: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return farmer, nil
}

// GetFarmerByID retrieves one farmer.
func (s *farmerService) GetFarmerByID(id string) (*models.Farmer, error) {
	farmer, err := s.farmerRepo.GetFarmerByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFarmerNotFound
		}
		return nil, fmt.Errorf("failed to get farmer: %w", err)
	}
	return farmer, nil
}

// GetFarmers lists farmers, optionally filtered by a search term.
func (s *farmerService) GetFarmers(searchTerm *string) ([]models.Farmer, error) {
	farmers, err := s.farmerRepo.GetFarmers(searchTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to list farmers: %w", err)
	}
	return farmers, nil
}

// UpdateFarmer applies the provided fields to an existing farmer.
func (s *farmerService) UpdateFarmer(id string, req UpdateFarmerRequest) (*models.Farmer, error) {
	farmer, err := s.GetFarmerByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		farmer.Name = strings.TrimSpace(*req.Name)
	}
	if req.CitizenID != nil {
		farmer.CitizenID = *req.CitizenID
	}
	if req.Tel != nil {
		farmer.Tel = *req.Tel
	}
	if req.Address != nil {
		farmer.Address = req.Address
	}
	if err := validateFarmerFields(farmer.Name, farmer.CitizenID, farmer.Tel); err != nil {
		return nil, err
	}

	if err := s.farmerRepo.UpdateFarmer(s.db, farmer); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrFarmerDuplicate
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFarmerNotFound
		}
		return nil, fmt.Errorf("failed to update farmer: %w", err)
	}
	return farmer, nil
}

// DeleteFarmer removes a farmer who has no purchase history.
func (s *farmerService) DeleteFarmer(id string) error {
	if err := s.farmerRepo.DeleteFarmer(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrFarmerNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrFarmerInUse
		}
		return fmt.Errorf("failed to delete farmer: %w", err)
	}
	return nil
}
