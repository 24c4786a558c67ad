package models

import "time"

// PurchaseOrder is a buy from a farmer. It is created Unpaid / Not Received,
// marked Paid by accounting, then Completed when the goods are stored.
type PurchaseOrder struct {
	Number        string     `json:"purchase_order_number" db:"purchase_order_number"`
	FarmerID      string     `json:"f_id" db:"f_id"`
	FarmerName    *string    `json:"farmer_name,omitempty"`
	OrderDate     time.Time  `json:"b_date" db:"b_date"`
	TotalPrice    float64    `json:"b_total_price" db:"b_total_price"`
	PaymentStatus string     `json:"payment_status" db:"payment_status"`
	StockStatus   string     `json:"stock_status" db:"stock_status"`
	CreatedByID   *string    `json:"created_by_id,omitempty" db:"created_by_id"`
	PaidByID      *string    `json:"paid_by_id,omitempty" db:"paid_by_id"`
	ReceivedByID  *string    `json:"received_by_id,omitempty" db:"received_by_id"`
	CreatedByName *string    `json:"created_by_name,omitempty"`
	PaidByName    *string    `json:"paid_by_name,omitempty"`
	ReceivedByName *string   `json:"received_by_name,omitempty"`
	CreatedDate   *time.Time `json:"created_date,omitempty" db:"created_date"`
	PaidDate      *time.Time `json:"paid_date,omitempty" db:"paid_date"`
	ReceivedDate  *time.Time `json:"received_date,omitempty" db:"received_date"`
	Items         []PurchaseOrderItem `json:"items,omitempty"`
}

// PurchaseOrderItem is one product line of a purchase order.
type PurchaseOrderItem struct {
	ID           int64   `json:"po_item_id" db:"po_item_id"`
	OrderNumber  string  `json:"purchase_order_number" db:"purchase_order_number"`
	ProductID    string  `json:"p_id" db:"p_id"`
	ProductName  *string `json:"product_name,omitempty"`
	Quantity     float64 `json:"quantity" db:"quantity"`
	PricePerUnit float64 `json:"price_per_unit" db:"price_per_unit"`
}

// PurchaseOrderFilters defines the available filters for querying purchase orders.
type PurchaseOrderFilters struct {
	Status      *string `form:"status"`
	StockStatus *string `form:"stock_status"`
	Search      *string `form:"search"`
	StartDate   *string `form:"start_date"` // YYYY-MM-DD
	EndDate     *string `form:"end_date"`   // YYYY-MM-DD
}
