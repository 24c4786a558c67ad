package client

import (
	"context"
	"net/http"

	"easypalm_backend/internal/models"
)

// LoginResult is the response of the login and refresh endpoints.
type LoginResult struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Employee     models.Employee `json:"employee"`
}

// Login authenticates and stores the returned access token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var result LoginResult
	if err := c.post(ctx, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.AccessToken)
	return &result, nil
}

// ListFarmers fetches farmers, optionally filtered by a search term.
func (c *Client) ListFarmers(ctx context.Context, search string) ([]models.Farmer, error) {
	var farmers []models.Farmer
	err := c.get(ctx, "/farmers"+queryString(map[string]string{"search": search}), &farmers)
	return farmers, err
}

// ListCustomers fetches industrial customers, optionally filtered.
func (c *Client) ListCustomers(ctx context.Context, search string) ([]models.FoodIndustry, error) {
	var customers []models.FoodIndustry
	err := c.get(ctx, "/food-industries"+queryString(map[string]string{"search": search}), &customers)
	return customers, err
}

// ListProducts fetches the product catalog, optionally filtered by name.
func (c *Client) ListProducts(ctx context.Context, search string) ([]models.Product, error) {
	var products []models.Product
	err := c.get(ctx, "/products"+queryString(map[string]string{"search": search}), &products)
	return products, err
}

// ListWarehouses fetches warehouses, optionally filtered.
func (c *Client) ListWarehouses(ctx context.Context, search string) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	err := c.get(ctx, "/warehouses"+queryString(map[string]string{"search": search}), &warehouses)
	return warehouses, err
}

// GetStockLevels fetches on-hand stock, optionally scoped to one warehouse.
func (c *Client) GetStockLevels(ctx context.Context, warehouseID, search string) ([]models.StockLevel, error) {
	var levels []models.StockLevel
	err := c.get(ctx, "/stock"+queryString(map[string]string{"warehouse_id": warehouseID, "search": search}), &levels)
	return levels, err
}

// OrderItemInput is one line of an order being created.
type OrderItemInput struct {
	ProductID    string  `json:"p_id"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
}

// CreatePurchaseOrderInput is the payload for creating a purchase order.
type CreatePurchaseOrderInput struct {
	FarmerID  string           `json:"f_id"`
	OrderDate string           `json:"b_date,omitempty"`
	Items     []OrderItemInput `json:"items"`
}

// CreatePurchaseOrder records a buy from a farmer.
func (c *Client) CreatePurchaseOrder(ctx context.Context, input CreatePurchaseOrderInput) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	if err := c.post(ctx, "/purchase-orders", input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// PayPurchaseOrder records payment to the farmer.
func (c *Client) PayPurchaseOrder(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	if err := c.post(ctx, "/purchase-orders/"+number+"/pay", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ReceivePurchaseOrderItems stores a paid order's goods in a warehouse.
func (c *Client) ReceivePurchaseOrderItems(ctx context.Context, number, warehouseID string) (*models.PurchaseOrder, error) {
	body := map[string]string{"warehouse_id": warehouseID}
	var order models.PurchaseOrder
	if err := c.post(ctx, "/purchase-orders/"+number+"/receive-items", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateSalesOrderInput is the payload for creating a sales order.
type CreateSalesOrderInput struct {
	CustomerID  string           `json:"c_id"`
	WarehouseID string           `json:"warehouse_id"`
	OrderDate   string           `json:"s_date,omitempty"`
	Items       []OrderItemInput `json:"items"`
}

// CreateSalesOrder records a sale against warehouse stock.
func (c *Client) CreateSalesOrder(ctx context.Context, input CreateSalesOrderInput) (*models.SalesOrder, error) {
	var order models.SalesOrder
	if err := c.post(ctx, "/sales-orders", input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ConfirmSalesOrderPayment records the customer's payment on a delivered order.
func (c *Client) ConfirmSalesOrderPayment(ctx context.Context, number string) (*models.SalesOrder, error) {
	var order models.SalesOrder
	if err := c.post(ctx, "/sales-orders/"+number+"/confirm-payment", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteFarmer removes a farmer registration.
func (c *Client) DeleteFarmer(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, "/farmers/"+id, nil, nil)
}
