package models

import "time"

// Warehouse represents a storage site. Capacity is in kg and is a display
// ceiling only; stock accounting does not enforce it.
type Warehouse struct {
	ID        string    `json:"warehouse_id" db:"warehouse_id"`
	Name      string    `json:"warehouse_name" db:"warehouse_name" binding:"required"`
	Location  *string   `json:"location,omitempty" db:"location"`
	Capacity  float64   `json:"capacity" db:"capacity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// WarehouseSummary is the per-warehouse utilization row for the purchasing
// warehouse-summary view.
type WarehouseSummary struct {
	WarehouseID       string  `json:"warehouse_id"`
	WarehouseName     string  `json:"warehouse_name"`
	Location          *string `json:"location,omitempty"`
	Capacity          float64 `json:"capacity"`
	CurrentStock      float64 `json:"current_stock"`
	RemainingCapacity float64 `json:"remaining_capacity"`
}
