package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"easypalm_backend/internal/models"
	"easypalm_backend/internal/repositories"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductValidation = errors.New("product data validation error")
	ErrProductDuplicate  = errors.New("product with this name already exists")
	ErrProductInUse      = errors.New("product cannot be deleted while orders or stock reference it")
)

// --- Product DTOs ---
type CreateProductRequest struct {
	Name          string  `json:"p_name" binding:"required"`
	PurchasePrice float64 `json:"purchase_price_per_unit" binding:"required"`
	SalePrice     float64 `json:"sale_price_per_unit" binding:"required"`
	EffectiveDate *string `json:"effective_date"` // YYYY-MM-DD
}

type UpdateProductRequest struct {
	Name          *string  `json:"p_name"`
	PurchasePrice *float64 `json:"purchase_price_per_unit"`
	SalePrice     *float64 `json:"sale_price_per_unit"`
	EffectiveDate *string  `json:"effective_date"` // YYYY-MM-DD
}

// ProductService manages the product catalog and its reference prices.
type ProductService interface {
	CreateProduct(req CreateProductRequest) (*models.Product, error)
	GetProductByID(id string) (*models.Product, error)
	GetProducts(searchTerm *string) ([]models.Product, error)
	UpdateProduct(id string, req UpdateProductRequest) (*models.Product, error)
	DeleteProduct(id string) error
}

type productService struct {
	productRepo repositories.ProductRepository
	db          *sql.DB
}

// NewProductService creates a new instance of ProductService.
func NewProductService(repo repositories.ProductRepository, db *sql.DB) ProductService {
	return &productService{productRepo: repo, db: db}
}

func validateProductFields(name string, purchasePrice, salePrice float64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrProductValidation)
	}
	if purchasePrice <= 0 {
		return fmt.Errorf("%w: purchase price must be greater than zero", ErrProductValidation)
	}
	if salePrice <= 0 {
		return fmt.Errorf("%w: sale price must be greater than zero", ErrProductValidation)
	}
	return nil
}

func parseEffectiveDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, fmt.Errorf("%w: effective date must be YYYY-MM-DD", ErrProductValidation)
	}
	return &t, nil
}

// CreateProduct registers a new product with a generated P-prefixed ID.
func (s *productService) CreateProduct(req CreateProductRequest) (*models.Product, error) {
	if err := validateProductFields(req.Name, req.PurchasePrice, req.SalePrice); err != nil {
		return nil, err
	}
	effectiveDate, err := parseEffectiveDate(req.EffectiveDate)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := repositories.NextSequentialID(tx, "products", "p_id", "P")
	if err != nil {
		return nil, fmt.Errorf("failed to generate product ID: %w", err)
	}

	product := &models.Product{
		ID:            id,
		Name:          strings.TrimSpace(req.Name),
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		EffectiveDate: effectiveDate,
	}
	if err := s.productRepo.CreateProduct(tx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrProductDuplicate
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return product, nil
}

// GetProductByID retrieves one product.
func (s *productService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// GetProducts lists products, optionally filtered by name.
func (s *productService) GetProducts(searchTerm *string) ([]models.Product, error) {
	products, err := s.productRepo.GetProducts(searchTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// UpdateProduct applies the provided fields to an existing product.
func (s *productService) UpdateProduct(id string, req UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.PurchasePrice != nil {
		product.PurchasePrice = *req.PurchasePrice
	}
	if req.SalePrice != nil {
		product.SalePrice = *req.SalePrice
	}
	if req.EffectiveDate != nil {
		effectiveDate, err := parseEffectiveDate(req.EffectiveDate)
		if err != nil {
			return nil, err
		}
		product.EffectiveDate = effectiveDate
	}
	if err := validateProductFields(product.Name, product.PurchasePrice, product.SalePrice); err != nil {
		return nil, err
	}

	if err := s.productRepo.UpdateProduct(s.db, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrProductDuplicate
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product with no order or stock history.
func (s *productService) DeleteProduct(id string) error {
	if err := s.productRepo.DeleteProduct(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrProductInUse
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
