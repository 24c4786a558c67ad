package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"easypalm_backend/internal/models"
	"easypalm_backend/internal/repositories"
	"easypalm_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeValidation = errors.New("employee data validation error")
	ErrEmployeeDuplicate  = errors.New("employee with this username or citizen ID already exists")
	ErrEmployeeSuspended  = errors.New("employee account is already suspended")
	ErrEmployeeActive     = errors.New("employee account is not suspended")
	ErrEmployeeInUse      = errors.New("employee cannot be deleted while orders reference them")
)

var validRoles = map[string]bool{
	"Admin":      true,
	"Purchasing": true,
	"Sales":      true,
	"Warehouse":  true,
	"Accounting": true,
	"Executive":  true,
}

// --- Employee DTOs ---
type CreateEmployeeRequest struct {
	Name           string  `json:"e_name" binding:"required"`
	Gender         *string `json:"gender"`
	CitizenID      string  `json:"e_citizen_id_card" binding:"required"`
	Tel            *string `json:"tel"`
	Email          *string `json:"email"`
	CitizenAddress *string `json:"citizen_address"`
	Address        *string `json:"address"`
	Position       string  `json:"position" binding:"required"`
	Role           string  `json:"e_role" binding:"required"`
	Username       string  `json:"username" binding:"required"`
	Password       string  `json:"password" binding:"required"`
}

type UpdateEmployeeRequest struct {
	Name           *string `json:"e_name"`
	Gender         *string `json:"gender"`
	CitizenID      *string `json:"e_citizen_id_card"`
	Tel            *string `json:"tel"`
	Email          *string `json:"email"`
	CitizenAddress *string `json:"citizen_address"`
	Address        *string `json:"address"`
	Position       *string `json:"position"`
	Role           *string `json:"e_role"`
}

// EmployeeService manages employee accounts, including suspension.
type EmployeeService interface {
	CreateEmployee(req CreateEmployeeRequest) (*models.Employee, error)
	GetEmployeeByID(id string) (*models.Employee, error)
	GetEmployees(searchTerm *string) ([]models.Employee, error)
	UpdateEmployee(id string, req UpdateEmployeeRequest) (*models.Employee, error)
	SuspendEmployee(id string) (*models.Employee, error)
	UnsuspendEmployee(id string) (*models.Employee, error)
	DeleteEmployee(id string) error
}

type employeeService struct {
	employeeRepo repositories.EmployeeRepository
	db           *sql.DB
}

// NewEmployeeService creates a new instance of EmployeeService.
func NewEmployeeService(repo repositories.EmployeeRepository, db *sql.DB) EmployeeService {
	return &employeeService{employeeRepo: repo, db: db}
}

func (s *employeeService) validateEmployeeFields(name, citizenID, role string, tel, email *string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrEmployeeValidation)
	}
	if !utils.IsValidCitizenID(citizenID) {
		return fmt.Errorf("%w: citizen ID must be 13 digits", ErrEmployeeValidation)
	}
	if !validRoles[role] {
		return fmt.Errorf("%w: unknown role %q", ErrEmployeeValidation, role)
	}
	if tel != nil && *tel != "" && !utils.IsValidPhoneNumber(*tel) {
		return fmt.Errorf("%w: phone number must be 10 digits starting with 0", ErrEmployeeValidation)
	}
	if email != nil && *email != "" && !utils.IsValidEmail(*email) {
		return fmt.Errorf("%w: invalid email address", ErrEmployeeValidation)
	}
	return nil
}

// CreateEmployee registers a new employee account with a generated E-prefixed
// ID and a bcrypt-hashed password. New accounts start active.
func (s *employeeService) CreateEmployee(req CreateEmployeeRequest) (*models.Employee, error) {
	if err := s.validateEmployeeFields(req.Name, req.CitizenID, req.Role, req.Tel, req.Email); err != nil {
		return nil, err
	}
	if !utils.IsValidPasswordLength(req.Password, 8) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrEmployeeValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := repositories.NextSequentialID(tx, "employees", "e_id", "E")
	if err != nil {
		return nil, fmt.Errorf("failed to generate employee ID: %w", err)
	}

	employee := &models.Employee{
		ID:             id,
		Name:           strings.TrimSpace(req.Name),
		Gender:         req.Gender,
		CitizenID:      req.CitizenID,
		Tel:            req.Tel,
		Email:          req.Email,
		CitizenAddress: req.CitizenAddress,
		Address:        req.Address,
		Position:       req.Position,
		Role:           req.Role,
		Username:       strings.TrimSpace(req.Username),
		PasswordHash:   string(hash),
		IsActive:       true,
	}
	if err := s.employeeRepo.CreateEmployee(tx, employee); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmployeeDuplicate
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return employee, nil
}

// GetEmployeeByID retrieves one employee.
func (s *employeeService) GetEmployeeByID(id string) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetEmployeeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

// GetEmployees lists employees, optionally filtered by a search term.
func (s *employeeService) GetEmployees(searchTerm *string) ([]models.Employee, error) {
	employees, err := s.employeeRepo.GetEmployees(searchTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// UpdateEmployee applies the provided profile fields to an existing employee.
func (s *employeeService) UpdateEmployee(id string, req UpdateEmployeeRequest) (*models.Employee, error) {
	employee, err := s.GetEmployeeByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		employee.Name = strings.TrimSpace(*req.Name)
	}
	if req.Gender != nil {
		employee.Gender = req.Gender
	}
	if req.CitizenID != nil {
		employee.CitizenID = *req.CitizenID
	}
	if req.Tel != nil {
		employee.Tel = req.Tel
	}
	if req.Email != nil {
		employee.Email = req.Email
	}
	if req.CitizenAddress != nil {
		employee.CitizenAddress = req.CitizenAddress
	}
	if req.Address != nil {
		employee.Address = req.Address
	}
	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.Role != nil {
		employee.Role = *req.Role
	}
	if err := s.validateEmployeeFields(employee.Name, employee.CitizenID, employee.Role, employee.Tel, employee.Email); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.UpdateEmployee(s.db, employee); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmployeeDuplicate
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return employee, nil
}

// SuspendEmployee disables an account. Suspended employees cannot log in.
func (s *employeeService) SuspendEmployee(id string) (*models.Employee, error) {
	employee, err := s.GetEmployeeByID(id)
	if err != nil {
		return nil, err
	}
	if !employee.IsActive {
		return nil, ErrEmployeeSuspended
	}

	now := time.Now()
	if err := s.employeeRepo.SetEmployeeActive(s.db, id, false, &now); err != nil {
		return nil, fmt.Errorf("failed to suspend employee: %w", err)
	}
	employee.IsActive = false
	employee.SuspendedAt = &now
	return employee, nil
}

// UnsuspendEmployee reinstates a suspended account.
func (s *employeeService) UnsuspendEmployee(id string) (*models.Employee, error) {
	employee, err := s.GetEmployeeByID(id)
	if err != nil {
		return nil, err
	}
	if employee.IsActive {
		return nil, ErrEmployeeActive
	}

	if err := s.employeeRepo.SetEmployeeActive(s.db, id, true, nil); err != nil {
		return nil, fmt.Errorf("failed to unsuspend employee: %w", err)
	}
	employee.IsActive = true
	employee.SuspendedAt = nil
	return employee, nil
}

// DeleteEmployee removes an employee record entirely. Suspension is the
// preferred way to retire accounts with order history.
func (s *employeeService) DeleteEmployee(id string) error {
	if err := s.employeeRepo.DeleteEmployee(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrEmployeeInUse
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}
