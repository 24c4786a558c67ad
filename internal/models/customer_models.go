package models

import "time"

// FoodIndustry represents an industrial customer the company sells to.
type FoodIndustry struct {
	ID        string    `json:"c_id" db:"c_id"`
	Name      string    `json:"c_name" db:"c_name" binding:"required"`
	Tel       string    `json:"c_tel" db:"c_tel"`
	Address   *string   `json:"c_address,omitempty" db:"c_address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
