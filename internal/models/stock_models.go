package models

import "time"

// StockLevel is the current on-hand quantity of a product in a warehouse.
// ProductName, WarehouseName and AverageCost are filled by joined reads.
type StockLevel struct {
	ID            int64   `json:"-" db:"id"`
	ProductID     string  `json:"product_id" db:"p_id"`
	WarehouseID   string  `json:"warehouse_id" db:"warehouse_id"`
	Quantity      float64 `json:"quantity" db:"quantity"`
	ProductName   string  `json:"product_name,omitempty"`
	WarehouseName string  `json:"warehouse_name,omitempty"`
	AverageCost   float64 `json:"average_cost"`
}

// StockLot is a FIFO receipt lot created when purchased goods are stored.
// RemainingQuantity is drawn down as sales consume the lot.
type StockLot struct {
	ID                int64     `json:"lot_id" db:"in_transaction_id"`
	ReceivedAt        time.Time `json:"received_at" db:"in_transaction_date"`
	ProductID         string    `json:"product_id" db:"p_id"`
	WarehouseID       string    `json:"warehouse_id" db:"warehouse_id"`
	Quantity          float64   `json:"quantity" db:"in_quantity"`
	UnitCost          float64   `json:"unit_cost" db:"unit_cost"`
	RemainingQuantity float64   `json:"remaining_quantity" db:"remaining_quantity"`
	POItemID          *int64    `json:"po_item_id,omitempty" db:"po_item_id"`
}

// StockReturn records goods coming back from a delivered sales order.
type StockReturn struct {
	ID          int64     `json:"return_id" db:"return_transaction_id"`
	ReturnedAt  time.Time `json:"returned_at" db:"return_transaction_date"`
	ProductID   string    `json:"product_id" db:"p_id"`
	WarehouseID string    `json:"warehouse_id" db:"warehouse_id"`
	Quantity    float64   `json:"quantity" db:"return_quantity"`
	Reason      *string   `json:"reason,omitempty" db:"reason"`
	SOItemID    int64     `json:"so_item_id" db:"so_item_id"`
}

// StockInEntry is a row of the goods-received history view.
type StockInEntry struct {
	TransactionID int64     `json:"transaction_id"`
	Date          time.Time `json:"date"`
	ProductName   string    `json:"product_name"`
	Quantity      float64   `json:"quantity"`
	UnitCost      float64   `json:"unit_cost"`
	WarehouseName string    `json:"warehouse_name"`
	PONumber      string    `json:"po_number"`
}

// StockFilters defines the available filters for querying stock levels.
type StockFilters struct {
	WarehouseID *string `form:"warehouse_id"`
	Search      *string `form:"search"`
}
