package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"easypalm_backend/internal/models"

	"github.com/lib/pq"
)

// ProductRepository defines the interface for product-related database operations.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) error
	GetProductByID(id string) (*models.Product, error)
	GetProducts(searchTerm *string) ([]models.Product, error)
	UpdateProduct(executor SQLExecutor, product *models.Product) error
	DeleteProduct(executor SQLExecutor, id string) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// CreateProduct inserts a new product. The caller assigns product.ID.
func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) error {
	query := `INSERT INTO products (p_id, p_name, purchase_price_per_unit, sale_price_per_unit, effective_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	currentTime := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = currentTime
	}
	product.UpdatedAt = currentTime

	_, err := executor.Exec(query,
		product.ID, product.Name, product.PurchasePrice, product.SalePrice,
		product.EffectiveDate, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetProductByID retrieves a product by its ID.
func (r *productRepository) GetProductByID(id string) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT p_id, p_name, purchase_price_per_unit, sale_price_per_unit, effective_date, created_at, updated_at
	          FROM products WHERE p_id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&product.ID, &product.Name, &product.PurchasePrice, &product.SalePrice,
		&product.EffectiveDate, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product %s: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

// GetProducts retrieves all products, optionally filtered by name.
func (r *productRepository) GetProducts(searchTerm *string) ([]models.Product, error) {
	query := `SELECT p_id, p_name, purchase_price_per_unit, sale_price_per_unit, effective_date, created_at, updated_at
	          FROM products`
	var args []interface{}
	if searchTerm != nil && *searchTerm != "" {
		query += ` WHERE p_name ILIKE $1`
		args = append(args, "%"+*searchTerm+"%")
	}
	query += ` ORDER BY p_id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PurchasePrice, &p.SalePrice, &p.EffectiveDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating products: %v", ErrDatabaseError, err)
	}
	return products, nil
}

// UpdateProduct updates an existing product's details and prices.
func (r *productRepository) UpdateProduct(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products SET p_name = $1, purchase_price_per_unit = $2, sale_price_per_unit = $3, effective_date = $4, updated_at = $5
	          WHERE p_id = $6`

	product.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		product.Name, product.PurchasePrice, product.SalePrice, product.EffectiveDate,
		product.UpdatedAt, product.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating product %s: %v", ErrDatabaseError, product.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update product rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct removes a product. Deletion fails with ErrForeignKeyViolation
// when order lines or stock records still reference the product.
func (r *productRepository) DeleteProduct(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM products WHERE p_id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: product %s is referenced by orders or stock", ErrForeignKeyViolation, id)
		}
		return fmt.Errorf("%w: deleting product %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete product rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
