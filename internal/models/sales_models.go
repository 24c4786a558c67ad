package models

import "time"

// SalesOrder is a sale to an industrial customer. Shipment moves
// Pending -> Shipped -> Delivered (or Returned); payment moves
// Unpaid -> Paid once delivery is confirmed.
type SalesOrder struct {
	Number          string     `json:"sale_order_number" db:"sale_order_number"`
	CustomerID      string     `json:"c_id" db:"c_id"`
	CustomerName    *string    `json:"customer_name,omitempty"`
	WarehouseID     string     `json:"warehouse_id" db:"warehouse_id"`
	OrderDate       time.Time  `json:"s_date" db:"s_date"`
	TotalPrice      float64    `json:"s_total_price" db:"s_total_price"`
	PaymentStatus   string     `json:"payment_status" db:"payment_status"`
	ShipmentStatus  string     `json:"shipment_status" db:"shipment_status"`
	CreatedByID     *string    `json:"created_by_id,omitempty" db:"created_by_id"`
	ShippedByID     *string    `json:"shipped_by_id,omitempty" db:"shipped_by_id"`
	DeliveredByID   *string    `json:"delivered_by_id,omitempty" db:"delivered_by_id"`
	PaidByID        *string    `json:"paid_by_id,omitempty" db:"paid_by_id"`
	CreatedByName   *string    `json:"created_by_name,omitempty"`
	CreatedDate     *time.Time `json:"created_date,omitempty" db:"created_date"`
	ShippedDate     *time.Time `json:"shipped_date,omitempty" db:"shipped_date"`
	DeliveredDate   *time.Time `json:"delivered_date,omitempty" db:"delivered_date"`
	PaidDate        *time.Time `json:"paid_date,omitempty" db:"paid_date"`
	Items           []SalesOrderItem `json:"items,omitempty"`
}

// SalesOrderItem is one product line of a sales order. COGS is the FIFO cost
// of the stock consumed by the line, recorded at creation time.
type SalesOrderItem struct {
	ID           int64    `json:"so_item_id" db:"so_item_id"`
	OrderNumber  string   `json:"sale_order_number" db:"sale_order_number"`
	ProductID    string   `json:"p_id" db:"p_id"`
	ProductName  *string  `json:"product_name,omitempty"`
	Quantity     float64  `json:"quantity" db:"quantity"`
	PricePerUnit float64  `json:"price_per_unit" db:"price_per_unit"`
	COGS         *float64 `json:"cogs,omitempty" db:"cogs"`
}

// SalesOrderFilters defines the available filters for querying sales orders.
type SalesOrderFilters struct {
	PaymentStatus  *string `form:"status"`
	ShipmentStatus *string `form:"shipment_status"`
	Search         *string `form:"search"`
	StartDate      *string `form:"start_date"` // YYYY-MM-DD
	EndDate        *string `form:"end_date"`   // YYYY-MM-DD
}
