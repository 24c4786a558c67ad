package models

import "time"

// Product is a traded palm-oil product with a buying and a selling price.
// Prices are per unit (kg) and editable through the price-list pages.
type Product struct {
	ID            string     `json:"p_id" db:"p_id"`
	Name          string     `json:"p_name" db:"p_name" binding:"required"`
	PurchasePrice float64    `json:"purchase_price_per_unit" db:"purchase_price_per_unit"`
	SalePrice     float64    `json:"sale_price_per_unit" db:"sale_price_per_unit"`
	EffectiveDate *time.Time `json:"effective_date,omitempty" db:"effective_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
