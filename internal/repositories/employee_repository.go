package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"easypalm_backend/internal/models"

	"github.com/lib/pq"
)

// EmployeeRepository defines the interface for employee-related database operations.
type EmployeeRepository interface {
	CreateEmployee(executor SQLExecutor, employee *models.Employee) error
	GetEmployeeByID(id string) (*models.Employee, error)
	GetEmployeeByUsername(username string) (*models.Employee, error)
	GetEmployees(searchTerm *string) ([]models.Employee, error)
	UpdateEmployee(executor SQLExecutor, employee *models.Employee) error
	SetEmployeeActive(executor SQLExecutor, id string, active bool, suspendedAt *time.Time) error
	DeleteEmployee(executor SQLExecutor, id string) error
}

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository.
func NewEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `e_id, e_name, gender, e_citizen_id_card, tel, email, citizen_address, address,
	position, e_role, username, password_hash, is_active, suspension_date, created_at, updated_at`

func scanEmployee(row interface{ Scan(...interface{}) error }, e *models.Employee) error {
	return row.Scan(
		&e.ID, &e.Name, &e.Gender, &e.CitizenID, &e.Tel, &e.Email, &e.CitizenAddress, &e.Address,
		&e.Position, &e.Role, &e.Username, &e.PasswordHash, &e.IsActive, &e.SuspendedAt,
		&e.CreatedAt, &e.UpdatedAt,
	)
}

// CreateEmployee inserts a new employee record. The caller assigns employee.ID
// and hashes the password before calling.
func (r *employeeRepository) CreateEmployee(executor SQLExecutor, employee *models.Employee) error {
	query := `INSERT INTO employees (` + employeeColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	currentTime := time.Now()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = currentTime
	}
	employee.UpdatedAt = currentTime

	_, err := executor.Exec(query,
		employee.ID, employee.Name, employee.Gender, employee.CitizenID, employee.Tel,
		employee.Email, employee.CitizenAddress, employee.Address, employee.Position,
		employee.Role, employee.Username, employee.PasswordHash, employee.IsActive,
		employee.SuspendedAt, employee.CreatedAt, employee.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: creating employee: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetEmployeeByID retrieves an employee by their ID.
func (r *employeeRepository) GetEmployeeByID(id string) (*models.Employee, error) {
	employee := &models.Employee{}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE e_id = $1`

	if err := scanEmployee(r.db.QueryRow(query, id), employee); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting employee %s: %v", ErrDatabaseError, id, err)
	}
	return employee, nil
}

// GetEmployeeByUsername retrieves an employee by login username.
func (r *employeeRepository) GetEmployeeByUsername(username string) (*models.Employee, error) {
	employee := &models.Employee{}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE username = $1`

	if err := scanEmployee(r.db.QueryRow(query, username), employee); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting employee by username: %v", ErrDatabaseError, err)
	}
	return employee, nil
}

// GetEmployees retrieves all employees, optionally filtered by name, username or role.
func (r *employeeRepository) GetEmployees(searchTerm *string) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees`
	var args []interface{}
	if searchTerm != nil && *searchTerm != "" {
		query += ` WHERE e_name ILIKE $1 OR username ILIKE $1 OR e_role ILIKE $1`
		args = append(args, "%"+*searchTerm+"%")
	}
	query += ` ORDER BY e_id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing employees: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		var e models.Employee
		if err := scanEmployee(rows, &e); err != nil {
			return nil, fmt.Errorf("%w: scanning employee: %v", ErrDatabaseError, err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating employees: %v", ErrDatabaseError, err)
	}
	return employees, nil
}

// UpdateEmployee updates an employee's profile fields. Password and activity
// status are managed by their own operations.
func (r *employeeRepository) UpdateEmployee(executor SQLExecutor, employee *models.Employee) error {
	query := `UPDATE employees SET e_name = $1, gender = $2, e_citizen_id_card = $3, tel = $4, email = $5,
	                 citizen_address = $6, address = $7, position = $8, e_role = $9, updated_at = $10
	          WHERE e_id = $11`

	employee.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		employee.Name, employee.Gender, employee.CitizenID, employee.Tel, employee.Email,
		employee.CitizenAddress, employee.Address, employee.Position, employee.Role,
		employee.UpdatedAt, employee.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating employee %s: %v", ErrDatabaseError, employee.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update employee rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetEmployeeActive suspends or reinstates an employee account.
func (r *employeeRepository) SetEmployeeActive(executor SQLExecutor, id string, active bool, suspendedAt *time.Time) error {
	query := `UPDATE employees SET is_active = $1, suspension_date = $2, updated_at = $3 WHERE e_id = $4`

	result, err := executor.Exec(query, active, suspendedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: setting employee %s active=%t: %v", ErrDatabaseError, id, active, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: set employee active rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEmployee removes an employee record.
func (r *employeeRepository) DeleteEmployee(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM employees WHERE e_id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: employee %s is referenced by orders", ErrForeignKeyViolation, id)
		}
		return fmt.Errorf("%w: deleting employee %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete employee rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
