package models

import "time"

// Farmer represents a palm-oil farmer the company buys from.
type Farmer struct {
	ID        string    `json:"f_id" db:"f_id"`
	Name      string    `json:"f_name" db:"f_name" binding:"required"`
	CitizenID string    `json:"f_citizen_id_card" db:"f_citizen_id_card"`
	Tel       string    `json:"f_tel" db:"f_tel"`
	Address   *string   `json:"f_address,omitempty" db:"f_address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
