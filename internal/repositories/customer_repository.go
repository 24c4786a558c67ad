package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"easypalm_backend/internal/models"

	"github.com/lib/pq"
)

// CustomerRepository defines the interface for industrial-customer database operations.
type CustomerRepository interface {
	CreateCustomer(executor SQLExecutor, customer *models.FoodIndustry) error
	GetCustomerByID(id string) (*models.FoodIndustry, error)
	GetCustomers(searchTerm *string) ([]models.FoodIndustry, error)
	UpdateCustomer(executor SQLExecutor, customer *models.FoodIndustry) error
	DeleteCustomer(executor SQLExecutor, id string) error
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// CreateCustomer inserts a new food-industry customer. The caller assigns customer.ID.
func (r *customerRepository) CreateCustomer(executor SQLExecutor, customer *models.FoodIndustry) error {
	query := `INSERT INTO food_industries (c_id, c_name, c_tel, address, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	currentTime := time.Now()
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = currentTime
	}
	customer.UpdatedAt = currentTime

	_, err := executor.Exec(query,
		customer.ID, customer.Name, customer.Tel, customer.Address,
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: creating customer: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetCustomerByID retrieves a customer by their ID.
func (r *customerRepository) GetCustomerByID(id string) (*models.FoodIndustry, error) {
	customer := &models.FoodIndustry{}
	query := `SELECT c_id, c_name, c_tel, address, created_at, updated_at
	          FROM food_industries WHERE c_id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&customer.ID, &customer.Name, &customer.Tel, &customer.Address,
		&customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer %s: %v", ErrDatabaseError, id, err)
	}
	return customer, nil
}

// GetCustomers retrieves all customers, optionally filtered by name or phone.
func (r *customerRepository) GetCustomers(searchTerm *string) ([]models.FoodIndustry, error) {
	query := `SELECT c_id, c_name, c_tel, address, created_at, updated_at FROM food_industries`
	var args []interface{}
	if searchTerm != nil && *searchTerm != "" {
		query += ` WHERE c_name ILIKE $1 OR c_tel ILIKE $1`
		args = append(args, "%"+*searchTerm+"%")
	}
	query += ` ORDER BY c_id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing customers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	customers := []models.FoodIndustry{}
	for rows.Next() {
		var c models.FoodIndustry
		if err := rows.Scan(&c.ID, &c.Name, &c.Tel, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning customer: %v", ErrDatabaseError, err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating customers: %v", ErrDatabaseError, err)
	}
	return customers, nil
}

// UpdateCustomer updates an existing customer's details.
func (r *customerRepository) UpdateCustomer(executor SQLExecutor, customer *models.FoodIndustry) error {
	query := `UPDATE food_industries SET c_name = $1, c_tel = $2, address = $3, updated_at = $4
	          WHERE c_id = $5`

	customer.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		customer.Name, customer.Tel, customer.Address, customer.UpdatedAt, customer.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating customer %s: %v", ErrDatabaseError, customer.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update customer rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCustomer removes a customer. Deletion fails with ErrForeignKeyViolation
// when sales orders still reference the customer.
func (r *customerRepository) DeleteCustomer(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM food_industries WHERE c_id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: customer %s is referenced by sales orders", ErrForeignKeyViolation, id)
		}
		return fmt.Errorf("%w: deleting customer %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete customer rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
