package services

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"easypalm_backend/internal/models"
)

type salesOrderFixture struct {
	service   SalesOrderService
	orderRepo *fakeSalesOrderRepo
	stockRepo *fakeStockRepo
	db        *sql.DB
}

func newSalesOrderFixture(t *testing.T) *salesOrderFixture {
	t.Helper()
	db := newTestDB(t)

	customerRepo := newFakeCustomerRepo()
	customerRepo.customers["C001"] = &models.FoodIndustry{ID: "C001", Name: "Thai Food Factory", Tel: "0298765432"}

	productRepo := newFakeProductRepo()
	productRepo.products["P001"] = &models.Product{ID: "P001", Name: "Crude Palm Oil", PurchasePrice: 5, SalePrice: 7.5}

	warehouseRepo := newFakeWarehouseRepo()
	warehouseRepo.warehouses["W001"] = &models.Warehouse{ID: "W001", Name: "Main", Capacity: 100000}

	orderRepo := newFakeSalesOrderRepo()
	stockRepo := newFakeStockRepo()

	return &salesOrderFixture{
		service:   NewSalesOrderService(orderRepo, customerRepo, productRepo, warehouseRepo, stockRepo, db),
		orderRepo: orderRepo,
		stockRepo: stockRepo,
		db:        db,
	}
}

// recordOrderNumber mirrors a committed order number into the ID table so the
// next create generates the following number.
func (fx *salesOrderFixture) recordOrderNumber(t *testing.T, number string) {
	t.Helper()
	if _, err := fx.db.Exec(`INSERT INTO sales_orders (sale_order_number) VALUES ($1)`, number); err != nil {
		t.Fatalf("recording order number: %v", err)
	}
}

// seedStock puts two lots of P001 into W001: 60 kg at 4.00 then 100 kg at
// 5.00, so FIFO costing is observable.
func (fx *salesOrderFixture) seedStock() {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	fx.stockRepo.seedLot("P001", "W001", 60, 4, base)
	fx.stockRepo.seedLot("P001", "W001", 100, 5, base.Add(24*time.Hour))
}

func TestCreateSalesOrderFIFO(t *testing.T) {
	fx := newSalesOrderFixture(t)
	fx.seedStock()

	order, err := fx.service.CreateSalesOrder(CreateSalesOrderRequest{
		CustomerID:  "C001",
		WarehouseID: "W001",
		Items:       []SalesOrderItemRequest{{ProductID: "P001", Quantity: 100, PricePerUnit: 7.5}},
	}, "E001")
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}

	if order.Number != "SO001" {
		t.Errorf("order number = %q", order.Number)
	}
	if order.TotalPrice != 750 {
		t.Errorf("total = %v, want 750", order.TotalPrice)
	}
	if order.PaymentStatus != "Unpaid" || order.ShipmentStatus != "Pending" {
		t.Errorf("new order status = %s/%s", order.PaymentStatus, order.ShipmentStatus)
	}

	// 60 kg from the 4.00 lot plus 40 kg from the 5.00 lot.
	if len(order.Items) != 1 || order.Items[0].COGS == nil {
		t.Fatalf("items = %+v", order.Items)
	}
	if got := *order.Items[0].COGS; got != 440 {
		t.Errorf("COGS = %v, want 440", got)
	}

	// The oldest lot is exhausted, the newer one drawn down.
	if fx.stockRepo.lots[0].RemainingQuantity != 0 {
		t.Errorf("old lot remaining = %v", fx.stockRepo.lots[0].RemainingQuantity)
	}
	if fx.stockRepo.lots[1].RemainingQuantity != 60 {
		t.Errorf("new lot remaining = %v", fx.stockRepo.lots[1].RemainingQuantity)
	}
	if qty, _ := fx.stockRepo.GetQuantity(nil, "P001", "W001"); qty != 60 {
		t.Errorf("stock level = %v, want 60", qty)
	}
}

func TestCreateSalesOrderInsufficientStock(t *testing.T) {
	fx := newSalesOrderFixture(t)
	fx.seedStock() // 160 kg on hand

	_, err := fx.service.CreateSalesOrder(CreateSalesOrderRequest{
		CustomerID:  "C001",
		WarehouseID: "W001",
		Items:       []SalesOrderItemRequest{{ProductID: "P001", Quantity: 200, PricePerUnit: 7.5}},
	}, "E001")
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}

	// Nothing was written: no order, no lot movement, level unchanged.
	if len(fx.orderRepo.orders) != 0 {
		t.Errorf("order persisted despite shortage")
	}
	if qty, _ := fx.stockRepo.GetQuantity(nil, "P001", "W001"); qty != 160 {
		t.Errorf("stock level = %v, want 160", qty)
	}
	if fx.stockRepo.lots[0].RemainingQuantity != 60 {
		t.Errorf("lot touched despite shortage")
	}
}

func TestCreateSalesOrderValidation(t *testing.T) {
	fx := newSalesOrderFixture(t)
	fx.seedStock()

	cases := []struct {
		name    string
		req     CreateSalesOrderRequest
		wantErr error
	}{
		{
			name:    "no items",
			req:     CreateSalesOrderRequest{CustomerID: "C001", WarehouseID: "W001"},
			wantErr: ErrSalesOrderValidation,
		},
		{
			name: "zero quantity",
			req: CreateSalesOrderRequest{
				CustomerID:  "C001",
				WarehouseID: "W001",
				Items:       []SalesOrderItemRequest{{ProductID: "P001", Quantity: 0, PricePerUnit: 7.5}},
			},
			wantErr: ErrSalesOrderValidation,
		},
		{
			name: "unknown customer",
			req: CreateSalesOrderRequest{
				CustomerID:  "C999",
				WarehouseID: "W001",
				Items:       []SalesOrderItemRequest{{ProductID: "P001", Quantity: 10, PricePerUnit: 7.5}},
			},
			wantErr: ErrCustomerNotFound,
		},
		{
			name: "unknown warehouse",
			req: CreateSalesOrderRequest{
				CustomerID:  "C001",
				WarehouseID: "W999",
				Items:       []SalesOrderItemRequest{{ProductID: "P001", Quantity: 10, PricePerUnit: 7.5}},
			},
			wantErr: ErrWarehouseNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := fx.service.CreateSalesOrder(tc.req, "E001"); !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func (fx *salesOrderFixture) createOrder(t *testing.T, qty float64) *models.SalesOrder {
	t.Helper()
	order, err := fx.service.CreateSalesOrder(CreateSalesOrderRequest{
		CustomerID:  "C001",
		WarehouseID: "W001",
		Items:       []SalesOrderItemRequest{{ProductID: "P001", Quantity: qty, PricePerUnit: 7.5}},
	}, "E001")
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}
	return order
}

func TestShipmentLifecycle(t *testing.T) {
	fx := newSalesOrderFixture(t)
	fx.seedStock()
	order := fx.createOrder(t, 50)

	// Delivery before shipping is refused.
	if _, err := fx.service.ConfirmDelivery(order.Number, "E003"); !errors.Is(err, ErrShipmentTransition) {
		t.Errorf("deliver pending order: got %v, want ErrShipmentTransition", err)
	}

	shipped, err := fx.service.ShipOrder(order.Number, "E003")
	if err != nil {
		t.Fatalf("ShipOrder: %v", err)
	}
	if shipped.ShipmentStatus != "Shipped" {
		t.Errorf("status = %q", shipped.ShipmentStatus)
	}

	// Shipping twice is refused.
	if _, err := fx.service.ShipOrder(order.Number, "E003"); !errors.Is(err, ErrShipmentTransition) {
		t.Errorf("double ship: got %v", err)
	}

	delivered, err := fx.service.ConfirmDelivery(order.Number, "E003")
	if err != nil {
		t.Fatalf("ConfirmDelivery: %v", err)
	}
	if delivered.ShipmentStatus != "Delivered" {
		t.Errorf("status = %q", delivered.ShipmentStatus)
	}
}

func TestConfirmPayment(t *testing.T) {
	fx := newSalesOrderFixture(t)
	fx.seedStock()
	order := fx.createOrder(t, 50)

	// Only delivered orders can be paid.
	if _, err := fx.service.ConfirmPayment(order.Number, "E004"); !errors.Is(err, ErrSalesOrderNotDelivered) {
		t.Fatalf("pay pending order: got %v, want ErrSalesOrderNotDelivered", err)
	}

	if _, err := fx.service.ShipOrder(order.Number, "E003"); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.service.ConfirmDelivery(order.Number, "E003"); err != nil {
		t.Fatal(err)
	}

	pending, err := fx.service.GetPendingPaymentOrders()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].Number != order.Number {
		t.Errorf("pending payment list = %+v", pending)
	}

	paid, err := fx.service.ConfirmPayment(order.Number, "E004")
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if paid.PaymentStatus != "Paid" {
		t.Errorf("payment status = %q", paid.PaymentStatus)
	}

	if _, err := fx.service.ConfirmPayment(order.Number, "E004"); !errors.Is(err, ErrSalesOrderPaid) {
		t.Errorf("double pay: got %v, want ErrSalesOrderPaid", err)
	}

	pending, err = fx.service.GetPendingPaymentOrders()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("paid order still listed as pending payment")
	}
}

func TestShipmentHistory(t *testing.T) {
	fx := newSalesOrderFixture(t)
	fx.seedStock()

	first := fx.createOrder(t, 20)
	fx.recordOrderNumber(t, first.Number)
	second := fx.createOrder(t, 30)
	fx.recordOrderNumber(t, second.Number)

	// Nothing has left the warehouse yet.
	history, err := fx.service.GetShipmentHistory(nil)
	if err != nil {
		t.Fatalf("GetShipmentHistory: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("history before shipping = %+v", history)
	}

	if _, err := fx.service.ShipOrder(second.Number, "E003"); err != nil {
		t.Fatal(err)
	}
	history, err = fx.service.GetShipmentHistory(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Number != second.Number {
		t.Fatalf("history after shipping = %+v, want only %s", history, second.Number)
	}

	// Delivered orders stay in the history.
	if _, err := fx.service.ConfirmDelivery(second.Number, "E003"); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.service.ShipOrder(first.Number, "E003"); err != nil {
		t.Fatal(err)
	}

	// One call now covers both the shipped and the delivered order.
	history, err = fx.service.GetShipmentHistory(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %+v, want both orders", history)
	}

	search := second.Number
	narrowed, err := fx.service.GetShipmentHistory(&search)
	if err != nil {
		t.Fatal(err)
	}
	if len(narrowed) != 1 || narrowed[0].Number != second.Number {
		t.Errorf("search %q = %+v", search, narrowed)
	}
}

func TestRequestReturn(t *testing.T) {
	fx := newSalesOrderFixture(t)
	fx.seedStock()
	order := fx.createOrder(t, 100) // consumes 60@4 + 40@5, COGS 440

	// Returns only apply to delivered orders.
	if _, err := fx.service.RequestReturn(order.Number, RequestReturnRequest{}, "E003"); !errors.Is(err, ErrSalesOrderNotDelivered) {
		t.Fatalf("return pending order: got %v", err)
	}

	if _, err := fx.service.ShipOrder(order.Number, "E003"); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.service.ConfirmDelivery(order.Number, "E003"); err != nil {
		t.Fatal(err)
	}

	reason := "quality complaint"
	returned, err := fx.service.RequestReturn(order.Number, RequestReturnRequest{Reason: &reason}, "E003")
	if err != nil {
		t.Fatalf("RequestReturn: %v", err)
	}
	if returned.ShipmentStatus != "Returned" {
		t.Errorf("status = %q", returned.ShipmentStatus)
	}

	// Stock came back as a new lot at the blended unit cost (440 / 100).
	if qty, _ := fx.stockRepo.GetQuantity(nil, "P001", "W001"); qty != 160 {
		t.Errorf("stock level after return = %v, want 160", qty)
	}
	restored := fx.stockRepo.lots[len(fx.stockRepo.lots)-1]
	if restored.Quantity != 100 || restored.UnitCost != 4.4 {
		t.Errorf("restored lot = %+v, want 100 at 4.4", restored)
	}
	if len(fx.stockRepo.returns) != 1 {
		t.Fatalf("return transactions = %d", len(fx.stockRepo.returns))
	}
	if got := fx.stockRepo.returns[0]; got.Reason == nil || *got.Reason != reason {
		t.Errorf("return reason = %v", got.Reason)
	}
}

func TestRequestReturnRefusedWhenPaid(t *testing.T) {
	fx := newSalesOrderFixture(t)
	fx.seedStock()
	order := fx.createOrder(t, 50)

	if _, err := fx.service.ShipOrder(order.Number, "E003"); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.service.ConfirmDelivery(order.Number, "E003"); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.service.ConfirmPayment(order.Number, "E004"); err != nil {
		t.Fatal(err)
	}

	if _, err := fx.service.RequestReturn(order.Number, RequestReturnRequest{}, "E003"); !errors.Is(err, ErrSalesOrderPaid) {
		t.Errorf("return paid order: got %v, want ErrSalesOrderPaid", err)
	}
}
