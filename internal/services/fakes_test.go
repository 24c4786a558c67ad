package services

// Hand-written repository fakes backed by maps. Services still need a real
// *sql.DB for transaction plumbing and ID generation, so the tests open an
// in-memory sqlite database holding just the ID columns; the fakes ignore the
// executor they are handed.

import (
	"database/sql"
	"sort"
	"strings"
	"testing"
	"time"

	"easypalm_backend/internal/models"
	"easypalm_backend/internal/repositories"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := []string{
		`CREATE TABLE employees (e_id TEXT PRIMARY KEY)`,
		`CREATE TABLE farmers (f_id TEXT PRIMARY KEY)`,
		`CREATE TABLE food_industries (c_id TEXT PRIMARY KEY)`,
		`CREATE TABLE products (p_id TEXT PRIMARY KEY)`,
		`CREATE TABLE warehouses (warehouse_id TEXT PRIMARY KEY)`,
		`CREATE TABLE purchase_orders (purchase_order_number TEXT PRIMARY KEY)`,
		`CREATE TABLE sales_orders (sale_order_number TEXT PRIMARY KEY)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("creating test table: %v", err)
		}
	}
	return db
}

// --- farmers ---

type fakeFarmerRepo struct {
	farmers map[string]*models.Farmer
}

func newFakeFarmerRepo() *fakeFarmerRepo {
	return &fakeFarmerRepo{farmers: map[string]*models.Farmer{}}
}

func (f *fakeFarmerRepo) CreateFarmer(_ repositories.SQLExecutor, farmer *models.Farmer) error {
	for _, existing := range f.farmers {
		if existing.CitizenID == farmer.CitizenID {
			return repositories.ErrDuplicateKey
		}
	}
	cp := *farmer
	f.farmers[farmer.ID] = &cp
	return nil
}

func (f *fakeFarmerRepo) GetFarmerByID(id string) (*models.Farmer, error) {
	farmer, ok := f.farmers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *farmer
	return &cp, nil
}

func (f *fakeFarmerRepo) GetFarmers(_ *string) ([]models.Farmer, error) {
	out := []models.Farmer{}
	for _, farmer := range f.farmers {
		out = append(out, *farmer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeFarmerRepo) UpdateFarmer(_ repositories.SQLExecutor, farmer *models.Farmer) error {
	if _, ok := f.farmers[farmer.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *farmer
	f.farmers[farmer.ID] = &cp
	return nil
}

func (f *fakeFarmerRepo) DeleteFarmer(_ repositories.SQLExecutor, id string) error {
	if _, ok := f.farmers[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.farmers, id)
	return nil
}

// --- customers ---

type fakeCustomerRepo struct {
	customers map[string]*models.FoodIndustry
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[string]*models.FoodIndustry{}}
}

func (f *fakeCustomerRepo) CreateCustomer(_ repositories.SQLExecutor, customer *models.FoodIndustry) error {
	cp := *customer
	f.customers[customer.ID] = &cp
	return nil
}

func (f *fakeCustomerRepo) GetCustomerByID(id string) (*models.FoodIndustry, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *customer
	return &cp, nil
}

func (f *fakeCustomerRepo) GetCustomers(_ *string) ([]models.FoodIndustry, error) {
	out := []models.FoodIndustry{}
	for _, customer := range f.customers {
		out = append(out, *customer)
	}
	return out, nil
}

func (f *fakeCustomerRepo) UpdateCustomer(_ repositories.SQLExecutor, customer *models.FoodIndustry) error {
	if _, ok := f.customers[customer.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *customer
	f.customers[customer.ID] = &cp
	return nil
}

func (f *fakeCustomerRepo) DeleteCustomer(_ repositories.SQLExecutor, id string) error {
	if _, ok := f.customers[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.customers, id)
	return nil
}

// --- products ---

type fakeProductRepo struct {
	products map[string]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*models.Product{}}
}

func (f *fakeProductRepo) CreateProduct(_ repositories.SQLExecutor, product *models.Product) error {
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeProductRepo) GetProductByID(id string) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *product
	return &cp, nil
}

func (f *fakeProductRepo) GetProducts(_ *string) ([]models.Product, error) {
	out := []models.Product{}
	for _, product := range f.products {
		out = append(out, *product)
	}
	return out, nil
}

func (f *fakeProductRepo) UpdateProduct(_ repositories.SQLExecutor, product *models.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeProductRepo) DeleteProduct(_ repositories.SQLExecutor, id string) error {
	if _, ok := f.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

// --- warehouses ---

type fakeWarehouseRepo struct {
	warehouses map[string]*models.Warehouse
}

func newFakeWarehouseRepo() *fakeWarehouseRepo {
	return &fakeWarehouseRepo{warehouses: map[string]*models.Warehouse{}}
}

func (f *fakeWarehouseRepo) CreateWarehouse(_ repositories.SQLExecutor, warehouse *models.Warehouse) error {
	cp := *warehouse
	f.warehouses[warehouse.ID] = &cp
	return nil
}

func (f *fakeWarehouseRepo) GetWarehouseByID(id string) (*models.Warehouse, error) {
	warehouse, ok := f.warehouses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *warehouse
	return &cp, nil
}

func (f *fakeWarehouseRepo) GetWarehouses(_ *string) ([]models.Warehouse, error) {
	out := []models.Warehouse{}
	for _, warehouse := range f.warehouses {
		out = append(out, *warehouse)
	}
	return out, nil
}

func (f *fakeWarehouseRepo) UpdateWarehouse(_ repositories.SQLExecutor, warehouse *models.Warehouse) error {
	if _, ok := f.warehouses[warehouse.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *warehouse
	f.warehouses[warehouse.ID] = &cp
	return nil
}

func (f *fakeWarehouseRepo) DeleteWarehouse(_ repositories.SQLExecutor, id string) error {
	if _, ok := f.warehouses[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.warehouses, id)
	return nil
}

func (f *fakeWarehouseRepo) GetWarehouseSummaries() ([]models.WarehouseSummary, error) {
	return []models.WarehouseSummary{}, nil
}

// --- employees ---

type fakeEmployeeRepo struct {
	employees map[string]*models.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: map[string]*models.Employee{}}
}

func (f *fakeEmployeeRepo) CreateEmployee(_ repositories.SQLExecutor, employee *models.Employee) error {
	for _, existing := range f.employees {
		if existing.Username == employee.Username || existing.CitizenID == employee.CitizenID {
			return repositories.ErrDuplicateKey
		}
	}
	cp := *employee
	f.employees[employee.ID] = &cp
	return nil
}

func (f *fakeEmployeeRepo) GetEmployeeByID(id string) (*models.Employee, error) {
	employee, ok := f.employees[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *employee
	return &cp, nil
}

func (f *fakeEmployeeRepo) GetEmployeeByUsername(username string) (*models.Employee, error) {
	for _, employee := range f.employees {
		if employee.Username == username {
			cp := *employee
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeEmployeeRepo) GetEmployees(_ *string) ([]models.Employee, error) {
	out := []models.Employee{}
	for _, employee := range f.employees {
		out = append(out, *employee)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEmployeeRepo) UpdateEmployee(_ repositories.SQLExecutor, employee *models.Employee) error {
	if _, ok := f.employees[employee.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *employee
	f.employees[employee.ID] = &cp
	return nil
}

func (f *fakeEmployeeRepo) SetEmployeeActive(_ repositories.SQLExecutor, id string, active bool, suspendedAt *time.Time) error {
	employee, ok := f.employees[id]
	if !ok {
		return repositories.ErrNotFound
	}
	employee.IsActive = active
	employee.SuspendedAt = suspendedAt
	return nil
}

func (f *fakeEmployeeRepo) DeleteEmployee(_ repositories.SQLExecutor, id string) error {
	if _, ok := f.employees[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.employees, id)
	return nil
}

// --- stock ---

type stockKey struct {
	productID   string
	warehouseID string
}

type fakeStockRepo struct {
	levels  map[stockKey]float64
	lots    []*models.StockLot
	returns []*models.StockReturn
	nextLot int64
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{levels: map[stockKey]float64{}, nextLot: 1}
}

// seedLot registers an existing lot and raises the matching stock level, the
// way a received purchase order would.
func (f *fakeStockRepo) seedLot(productID, warehouseID string, quantity, unitCost float64, receivedAt time.Time) {
	f.lots = append(f.lots, &models.StockLot{
		ID:                f.nextLot,
		ReceivedAt:        receivedAt,
		ProductID:         productID,
		WarehouseID:       warehouseID,
		Quantity:          quantity,
		UnitCost:          unitCost,
		RemainingQuantity: quantity,
	})
	f.nextLot++
	f.levels[stockKey{productID, warehouseID}] += quantity
}

func (f *fakeStockRepo) GetStockLevels(_ models.StockFilters) ([]models.StockLevel, error) {
	out := []models.StockLevel{}
	for key, qty := range f.levels {
		if qty > 0 {
			out = append(out, models.StockLevel{ProductID: key.productID, WarehouseID: key.warehouseID, Quantity: qty})
		}
	}
	return out, nil
}

func (f *fakeStockRepo) GetQuantity(_ repositories.SQLExecutor, productID, warehouseID string) (float64, error) {
	return f.levels[stockKey{productID, warehouseID}], nil
}

func (f *fakeStockRepo) AdjustLevel(_ repositories.SQLExecutor, productID, warehouseID string, delta float64) error {
	f.levels[stockKey{productID, warehouseID}] += delta
	return nil
}

func (f *fakeStockRepo) InsertLot(_ repositories.SQLExecutor, lot *models.StockLot) (int64, error) {
	cp := *lot
	cp.ID = f.nextLot
	f.nextLot++
	f.lots = append(f.lots, &cp)
	lot.ID = cp.ID
	return cp.ID, nil
}

func (f *fakeStockRepo) ConsumeLotsFIFO(_ repositories.SQLExecutor, productID, warehouseID string, quantity float64) (float64, error) {
	candidates := []*models.StockLot{}
	for _, lot := range f.lots {
		if lot.ProductID == productID && lot.WarehouseID == warehouseID && lot.RemainingQuantity > 0 {
			candidates = append(candidates, lot)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ReceivedAt.Equal(candidates[j].ReceivedAt) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].ReceivedAt.Before(candidates[j].ReceivedAt)
	})

	var cogs float64
	remaining := quantity
	for _, lot := range candidates {
		if remaining <= 0 {
			break
		}
		take := lot.RemainingQuantity
		if take > remaining {
			take = remaining
		}
		lot.RemainingQuantity -= take
		cogs += take * lot.UnitCost
		remaining -= take
	}
	if remaining > 1e-9 {
		return 0, repositories.ErrNotFound
	}
	return cogs, nil
}

func (f *fakeStockRepo) InsertReturn(_ repositories.SQLExecutor, ret *models.StockReturn) (int64, error) {
	cp := *ret
	cp.ID = int64(len(f.returns) + 1)
	f.returns = append(f.returns, &cp)
	ret.ID = cp.ID
	return cp.ID, nil
}

func (f *fakeStockRepo) GetStockInHistory() ([]models.StockInEntry, error) {
	return []models.StockInEntry{}, nil
}

func (f *fakeStockRepo) TotalQuantityInWarehouse(warehouseID string) (float64, error) {
	var total float64
	for key, qty := range f.levels {
		if key.warehouseID == warehouseID {
			total += qty
		}
	}
	return total, nil
}

func (f *fakeStockRepo) TotalStockValueFIFO() (float64, error) {
	var total float64
	for _, lot := range f.lots {
		if lot.RemainingQuantity > 0 {
			total += lot.RemainingQuantity * lot.UnitCost
		}
	}
	return total, nil
}

// --- purchase orders ---

type fakePurchaseOrderRepo struct {
	orders   map[string]*models.PurchaseOrder
	items    map[string][]models.PurchaseOrderItem
	nextItem int64
}

func newFakePurchaseOrderRepo() *fakePurchaseOrderRepo {
	return &fakePurchaseOrderRepo{
		orders:   map[string]*models.PurchaseOrder{},
		items:    map[string][]models.PurchaseOrderItem{},
		nextItem: 1,
	}
}

func (f *fakePurchaseOrderRepo) CreatePurchaseOrder(_ repositories.SQLExecutor, order *models.PurchaseOrder) error {
	if _, ok := f.orders[order.Number]; ok {
		return repositories.ErrDuplicateKey
	}
	cp := *order
	f.orders[order.Number] = &cp
	return nil
}

func (f *fakePurchaseOrderRepo) CreatePurchaseOrderItem(_ repositories.SQLExecutor, item *models.PurchaseOrderItem) (int64, error) {
	item.ID = f.nextItem
	f.nextItem++
	f.items[item.OrderNumber] = append(f.items[item.OrderNumber], *item)
	return item.ID, nil
}

func (f *fakePurchaseOrderRepo) GetPurchaseOrderByNumber(number string) (*models.PurchaseOrder, error) {
	order, ok := f.orders[number]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *order
	cp.Items = append([]models.PurchaseOrderItem{}, f.items[number]...)
	return &cp, nil
}

func (f *fakePurchaseOrderRepo) GetPurchaseOrderForUpdate(_ repositories.SQLExecutor, number string) (*models.PurchaseOrder, error) {
	order, ok := f.orders[number]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (f *fakePurchaseOrderRepo) GetPurchaseOrders(filters models.PurchaseOrderFilters) ([]models.PurchaseOrder, error) {
	out := []models.PurchaseOrder{}
	for _, order := range f.orders {
		if filters.Status != nil && *filters.Status != "" && order.PaymentStatus != *filters.Status {
			continue
		}
		if filters.StockStatus != nil && *filters.StockStatus != "" && order.StockStatus != *filters.StockStatus {
			continue
		}
		out = append(out, *order)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakePurchaseOrderRepo) GetPendingReceiptOrders() ([]models.PurchaseOrder, error) {
	out := []models.PurchaseOrder{}
	for _, order := range f.orders {
		if order.PaymentStatus == "Paid" && order.StockStatus == "Pending" {
			out = append(out, *order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakePurchaseOrderRepo) GetPurchaseOrderItems(_ repositories.SQLExecutor, number string) ([]models.PurchaseOrderItem, error) {
	return append([]models.PurchaseOrderItem{}, f.items[number]...), nil
}

func (f *fakePurchaseOrderRepo) MarkPaid(_ repositories.SQLExecutor, number, paidByID string, paidAt time.Time) error {
	order, ok := f.orders[number]
	if !ok {
		return repositories.ErrNotFound
	}
	order.PaymentStatus = "Paid"
	order.StockStatus = "Pending"
	order.PaidByID = &paidByID
	order.PaidDate = &paidAt
	return nil
}

func (f *fakePurchaseOrderRepo) MarkReceived(_ repositories.SQLExecutor, number, receivedByID string, receivedAt time.Time) error {
	order, ok := f.orders[number]
	if !ok {
		return repositories.ErrNotFound
	}
	order.StockStatus = "Completed"
	order.ReceivedByID = &receivedByID
	order.ReceivedDate = &receivedAt
	return nil
}

// --- sales orders ---

type fakeSalesOrderRepo struct {
	orders   map[string]*models.SalesOrder
	items    map[string][]models.SalesOrderItem
	nextItem int64
}

func newFakeSalesOrderRepo() *fakeSalesOrderRepo {
	return &fakeSalesOrderRepo{
		orders:   map[string]*models.SalesOrder{},
		items:    map[string][]models.SalesOrderItem{},
		nextItem: 1,
	}
}

func (f *fakeSalesOrderRepo) CreateSalesOrder(_ repositories.SQLExecutor, order *models.SalesOrder) error {
	if _, ok := f.orders[order.Number]; ok {
		return repositories.ErrDuplicateKey
	}
	cp := *order
	f.orders[order.Number] = &cp
	return nil
}

func (f *fakeSalesOrderRepo) CreateSalesOrderItem(_ repositories.SQLExecutor, item *models.SalesOrderItem) (int64, error) {
	item.ID = f.nextItem
	f.nextItem++
	f.items[item.OrderNumber] = append(f.items[item.OrderNumber], *item)
	return item.ID, nil
}

func (f *fakeSalesOrderRepo) GetSalesOrderByNumber(number string) (*models.SalesOrder, error) {
	order, ok := f.orders[number]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *order
	cp.Items = append([]models.SalesOrderItem{}, f.items[number]...)
	return &cp, nil
}

func (f *fakeSalesOrderRepo) GetSalesOrderForUpdate(_ repositories.SQLExecutor, number string) (*models.SalesOrder, error) {
	order, ok := f.orders[number]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (f *fakeSalesOrderRepo) GetSalesOrders(_ models.SalesOrderFilters) ([]models.SalesOrder, error) {
	out := []models.SalesOrder{}
	for _, order := range f.orders {
		out = append(out, *order)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeSalesOrderRepo) GetSalesOrderItems(_ repositories.SQLExecutor, number string) ([]models.SalesOrderItem, error) {
	return append([]models.SalesOrderItem{}, f.items[number]...), nil
}

func (f *fakeSalesOrderRepo) UpdateShipmentStatus(_ repositories.SQLExecutor, number, status, byID string, at time.Time) error {
	order, ok := f.orders[number]
	if !ok {
		return repositories.ErrNotFound
	}
	order.ShipmentStatus = status
	switch status {
	case "Shipped":
		order.ShippedByID = &byID
		order.ShippedDate = &at
	case "Delivered":
		order.DeliveredByID = &byID
		order.DeliveredDate = &at
	}
	return nil
}

func (f *fakeSalesOrderRepo) MarkPaid(_ repositories.SQLExecutor, number, paidByID string, paidAt time.Time) error {
	order, ok := f.orders[number]
	if !ok {
		return repositories.ErrNotFound
	}
	order.PaymentStatus = "Paid"
	order.PaidByID = &paidByID
	order.PaidDate = &paidAt
	return nil
}

func (f *fakeSalesOrderRepo) GetPendingPaymentOrders() ([]models.SalesOrder, error) {
	out := []models.SalesOrder{}
	for _, order := range f.orders {
		if order.ShipmentStatus == "Delivered" && order.PaymentStatus == "Unpaid" {
			out = append(out, *order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeSalesOrderRepo) GetShipmentHistory(search *string) ([]models.SalesOrder, error) {
	out := []models.SalesOrder{}
	for _, order := range f.orders {
		if order.ShipmentStatus != "Shipped" && order.ShipmentStatus != "Delivered" {
			continue
		}
		if search != nil && *search != "" {
			needle := strings.ToLower(*search)
			name := ""
			if order.CustomerName != nil {
				name = strings.ToLower(*order.CustomerName)
			}
			if !strings.Contains(strings.ToLower(order.Number), needle) && !strings.Contains(name, needle) {
				continue
			}
		}
		out = append(out, *order)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}
