package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"easypalm_backend/internal/models"

	"github.com/lib/pq"
)

// FarmerRepository defines the interface for farmer-related database operations.
type FarmerRepository interface {
	CreateFarmer(executor SQLExecutor, farmer *models.Farmer) error
	GetFarmerByID(id string) (*models.Farmer, error)
	GetFarmers(searchTerm *string) ([]models.Farmer, error)
	UpdateFarmer(executor SQLExecutor, farmer *models.Farmer) error
	DeleteFarmer(executor SQLExecutor, id string) error
}

type farmerRepository struct {
	db *sql.DB
}

// NewFarmerRepository creates a new instance of FarmerRepository.
func NewFarmerRepository(db *sql.DB) FarmerRepository {
	return &farmerRepository{db: db}
}

// CreateFarmer inserts a new farmer. The caller is responsible for assigning
// farmer.ID (see NextSequentialID).
func (r *farmerRepository) CreateFarmer(executor SQLExecutor, farmer *models.Farmer) error {
	query := `INSERT INTO farmers (f_id, f_name, f_citizen_id_card, f_tel, f_address, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	currentTime := time.Now()
	if farmer.CreatedAt.IsZero() {
		farmer.CreatedAt = currentTime
	}
	farmer.UpdatedAt = currentTime

	_, err := executor.Exec(query,
		farmer.ID, farmer.Name, farmer.CitizenID, farmer.Tel, farmer.Address,
		farmer.CreatedAt, farmer.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: creating farmer: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetFarmerByID retrieves a farmer by their ID.
func (r *farmerRepository) GetFarmerByID(id string) (*models.Farmer, error) {
	farmer := &models.Farmer{}
	query := `SELECT f_id, f_name, f_citizen_id_card, f_tel, f_address, created_at, updated_at
	          FROM farmers WHERE f_id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&farmer.ID, &farmer.Name, &farmer.CitizenID, &farmer.Tel, &farmer.Address,
		&farmer.CreatedAt, &farmer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting farmer %s: %v", ErrDatabaseError, id, err)
	}
	return farmer, nil
}

// GetFarmers retrieves all farmers, optionally filtered by a search term over
// name, citizen ID and phone.
func (r *farmerRepository) GetFarmers(searchTerm *string) ([]models.Farmer, error) {
	query := `SELECT f_id, f_name, f_citizen_id_card, f_tel, f_address, created_at, updated_at
	          FROM farmers`
	var args []interface{}
	if searchTerm != nil && *searchTerm != "" {
		query += ` WHERE f_name ILIKE $1 OR f_citizen_id_card ILIKE $1 OR f_tel ILIKE $1`
		args = append(args, "%"+*searchTerm+"%")
	}
	query += ` ORDER BY f_id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing farmers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	farmers := []models.Farmer{}
	for rows.Next() {
		var f models.Farmer
		if err := rows.Scan(&f.ID, &f.Name, &f.CitizenID, &f.Tel, &f.Address, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning farmer: %v", ErrDatabaseError, err)
		}
		farmers = append(farmers, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating farmers: %v", ErrDatabaseError, err)
	}
	return farmers, nil
}

// UpdateFarmer updates an existing farmer's details.
func (r *farmerRepository) UpdateFarmer(executor SQLExecutor, farmer *models.Farmer) error {
	query := `UPDATE farmers SET f_name = $1, f_citizen_id_card = $2, f_tel = $3, f_address = $4, updated_at = $5
	          WHERE f_id = $6`

	farmer.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		farmer.Name, farmer.CitizenID, farmer.Tel, farmer.Address, farmer.UpdatedAt, farmer.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating farmer %s: %v", ErrDatabaseError, farmer.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update farmer rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFarmer removes a farmer. Deletion fails with ErrForeignKeyViolation
// when purchase orders still reference the farmer.
func (r *farmerRepository) DeleteFarmer(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM farmers WHERE f_id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: farmer %s is referenced by purchase orders", ErrForeignKeyViolation, id)
		}
		return fmt.Errorf("%w: deleting farmer %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete farmer rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
