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
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrCustomerValidation = errors.New("customer data validation error")
	ErrCustomerDuplicate  = errors.New("customer with this name already exists")
	ErrCustomerInUse      = errors.New("customer cannot be deleted while sales orders reference them")
)

// --- Customer DTOs ---
type CreateCustomerRequest struct {
	Name    string  `json:"c_name" binding:"required"`
	Tel     string  `json:"c_tel" binding:"required"`
	Address *string `json:"address"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"c_name"`
	Tel     *string `json:"c_tel"`
	Address *string `json:"address"`
}

// CustomerService manages the industrial-customer registry.
type CustomerService interface {
	CreateCustomer(req CreateCustomerRequest) (*models.FoodIndustry, error)
	GetCustomerByID(id string) (*models.FoodIndustry, error)
	GetCustomers(searchTerm *string) ([]models.FoodIndustry, error)
	UpdateCustomer(id string, req UpdateCustomerRequest) (*models.FoodIndustry, error)
	DeleteCustomer(id string) error
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	db           *sql.DB
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(repo repositories.CustomerRepository, db *sql.DB) CustomerService {
	return &customerService{customerRepo: repo, db: db}
}

func validateCustomerFields(name, tel string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrCustomerValidation)
	}
	if !utils.IsValidPhoneNumber(tel) {
		return fmt.Errorf("%w: phone number must be 10 digits starting with 0", ErrCustomerValidation)
	}
	return nil
}

// CreateCustomer registers a new customer with a generated C-prefixed ID.
func (s *customerService) CreateCustomer(req CreateCustomerRequest) (*models.FoodIndustry, error) {
	if err := validateCustomerFields(req.Name, req.Tel); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := repositories.NextSequentialID(tx, "food_industries", "c_id", "C")
	if err != nil {
		return nil, fmt.Errorf("failed to generate customer ID: %w", err)
	}

	customer := &models.FoodIndustry{
		ID:      id,
		Name:    strings.TrimSpace(req.Name),
		Tel:     req.Tel,
		Address: req.Address,
	}
	if err := s.customerRepo.CreateCustomer(tx, customer); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrCustomerDuplicate
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return customer, nil
}

// GetCustomerByID retrieves one customer.
func (s *customerService) GetCustomerByID(id string) (*models.FoodIndustry, error) {
	customer, err := s.customerRepo.GetCustomerByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// GetCustomers lists customers, optionally filtered by a search term.
func (s *customerService) GetCustomers(searchTerm *string) ([]models.FoodIndustry, error) {
	customers, err := s.customerRepo.GetCustomers(searchTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// UpdateCustomer applies the provided fields to an existing customer.
func (s *customerService) UpdateCustomer(id string, req UpdateCustomerRequest) (*models.FoodIndustry, error) {
	customer, err := s.GetCustomerByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Tel != nil {
		customer.Tel = *req.Tel
	}
	if req.Address != nil {
		customer.Address = req.Address
	}
	if err := validateCustomerFields(customer.Name, customer.Tel); err != nil {
		return nil, err
	}

	if err := s.customerRepo.UpdateCustomer(s.db, customer); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrCustomerDuplicate
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// DeleteCustomer removes a customer who has no sales history.
func (s *customerService) DeleteCustomer(id string) error {
	if err := s.customerRepo.DeleteCustomer(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCustomerNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrCustomerInUse
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}
