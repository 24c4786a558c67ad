package orderdraft

import (
	"context"
	"errors"
	"testing"

	"easypalm_backend/internal/models"
	"easypalm_backend/pkg/client"
)

func testProducts() []models.Product {
	return []models.Product{
		{ID: "P001", Name: "Crude Palm Oil", PurchasePrice: 5.00, SalePrice: 7.50},
		{ID: "P002", Name: "Palm Kernel", PurchasePrice: 3.25, SalePrice: 4.00},
	}
}

func TestFilter(t *testing.T) {
	entities := []Entity{
		{ID: "F001", Name: "Somchai Plantation"},
		{ID: "F002", Name: "Green Palm Co-op"},
		{ID: "F003", Name: "somsak farm"},
	}

	if got := Filter(entities, ""); got != nil {
		t.Errorf("empty query should match nothing, got %d entities", len(got))
	}
	if got := Filter(entities, "   "); got != nil {
		t.Errorf("whitespace query should match nothing, got %d entities", len(got))
	}

	got := Filter(entities, "SOM")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches for %q, got %d", "SOM", len(got))
	}
	if got[0].ID != "F001" || got[1].ID != "F003" {
		t.Errorf("unexpected match order: %v", got)
	}

	if got := Filter(entities, "nomatch"); got != nil {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestCoerce(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"", 0},
		{".", 0},
		{"  ", 0},
		{"10", 10},
		{"5.00", 5},
		{"0.5", 0.5},
		{"abc", 0},
	}
	for _, tc := range cases {
		if got := Coerce(tc.raw); got != tc.want {
			t.Errorf("Coerce(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeOnBlur(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", "0"},
		{".", "0"},
		{"  ", "0"},
		{"12.5", "12.5"},
		{" 7 ", "7"},
	}
	for _, tc := range cases {
		if got := NormalizeOnBlur(tc.raw); got != tc.want {
			t.Errorf("NormalizeOnBlur(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestDraftStateFlow(t *testing.T) {
	d := NewPurchaseDraft(testProducts())
	if d.State() != StateIdle {
		t.Fatalf("new draft should be Idle, got %s", d.State())
	}

	if _, err := d.AddLine(); !errors.Is(err, ErrWrongState) {
		t.Errorf("AddLine before entity selection should fail, got %v", err)
	}

	if err := d.SelectEntity("F001"); err != nil {
		t.Fatalf("SelectEntity: %v", err)
	}
	if d.State() != StateEntitySelected {
		t.Fatalf("expected EntitySelected, got %s", d.State())
	}

	i, err := d.AddLine()
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if d.State() != StateItemsDraft {
		t.Fatalf("expected ItemsDraft after first line, got %s", d.State())
	}

	if err := d.RemoveLine(i); err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	if d.State() != StateEntitySelected {
		t.Errorf("removing the last line should return to EntitySelected, got %s", d.State())
	}
}

func TestDraftPriceSeedingAndTotals(t *testing.T) {
	d := NewPurchaseDraft(testProducts())
	if err := d.SelectEntity("F001"); err != nil {
		t.Fatal(err)
	}
	i, err := d.AddLine()
	if err != nil {
		t.Fatal(err)
	}

	if err := d.SetProduct(i, "P001"); err != nil {
		t.Fatalf("SetProduct: %v", err)
	}
	if got := d.Lines()[i].PricePerUnit; got != "5.00" {
		t.Errorf("purchase price seed = %q, want %q", got, "5.00")
	}

	if err := d.SetQuantity(i, "10"); err != nil {
		t.Fatal(err)
	}
	if got := d.LineTotal(i); got != 50.00 {
		t.Errorf("LineTotal = %v, want 50.00", got)
	}
	if got := d.Total(); got != 50.00 {
		t.Errorf("Total = %v, want 50.00", got)
	}

	// Changing the product re-seeds the price.
	if err := d.SetProduct(i, "P002"); err != nil {
		t.Fatal(err)
	}
	if got := d.Lines()[i].PricePerUnit; got != "3.25" {
		t.Errorf("re-seeded price = %q, want %q", got, "3.25")
	}
}

func TestSalesDraftSeedsSalePrice(t *testing.T) {
	d := NewSalesDraft(testProducts(), map[string]float64{"P001": 100})
	if err := d.SelectEntity("C001"); err != nil {
		t.Fatal(err)
	}
	i, err := d.AddLine()
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetProduct(i, "P001"); err != nil {
		t.Fatal(err)
	}
	if got := d.Lines()[i].PricePerUnit; got != "7.50" {
		t.Errorf("sale price seed = %q, want %q", got, "7.50")
	}
}

func TestDraftValidate(t *testing.T) {
	d := NewSalesDraft(testProducts(), map[string]float64{"P001": 20})

	if err := d.Validate(); !errors.Is(err, ErrNoEntity) {
		t.Errorf("expected ErrNoEntity, got %v", err)
	}
	if err := d.SelectEntity("C001"); err != nil {
		t.Fatal(err)
	}
	if err := d.Validate(); !errors.Is(err, ErrNoWarehouse) {
		t.Errorf("expected ErrNoWarehouse, got %v", err)
	}
	if err := d.SelectWarehouse("W001"); err != nil {
		t.Fatal(err)
	}
	if err := d.Validate(); !errors.Is(err, ErrNoLines) {
		t.Errorf("expected ErrNoLines, got %v", err)
	}

	i, err := d.AddLine()
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Validate(); !errors.Is(err, ErrLineNoProduct) {
		t.Errorf("expected ErrLineNoProduct, got %v", err)
	}

	if err := d.SetProduct(i, "P001"); err != nil {
		t.Fatal(err)
	}
	if err := d.Validate(); !errors.Is(err, ErrLineZeroQuantity) {
		t.Errorf("expected ErrLineZeroQuantity, got %v", err)
	}

	if err := d.SetQuantity(i, "5"); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPrice(i, "0"); err != nil {
		t.Fatal(err)
	}
	if err := d.Validate(); !errors.Is(err, ErrLineZeroPrice) {
		t.Errorf("a zero price must be rejected, got %v", err)
	}

	if err := d.SetPrice(i, "7.50"); err != nil {
		t.Fatal(err)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("expected valid draft, got %v", err)
	}

	// Over-stock quantity is rejected.
	if err := d.SetQuantity(i, "25"); err != nil {
		t.Fatal(err)
	}
	if err := d.Validate(); !errors.Is(err, ErrLineOverStock) {
		t.Errorf("expected ErrLineOverStock, got %v", err)
	}

	// A product with no known stock is unavailable.
	if err := d.SetProduct(i, "P002"); err != nil {
		t.Fatal(err)
	}
	if err := d.SetQuantity(i, "1"); err != nil {
		t.Fatal(err)
	}
	if err := d.Validate(); !errors.Is(err, ErrLineOverStock) {
		t.Errorf("unknown stock should be unavailable, got %v", err)
	}
}

type fakeSubmitter struct {
	purchaseErr error
	salesErr    error
	purchases   []client.CreatePurchaseOrderInput
	sales       []client.CreateSalesOrderInput
}

func (f *fakeSubmitter) CreatePurchaseOrder(_ context.Context, input client.CreatePurchaseOrderInput) (*models.PurchaseOrder, error) {
	f.purchases = append(f.purchases, input)
	if f.purchaseErr != nil {
		return nil, f.purchaseErr
	}
	return &models.PurchaseOrder{Number: "PO001"}, nil
}

func (f *fakeSubmitter) CreateSalesOrder(_ context.Context, input client.CreateSalesOrderInput) (*models.SalesOrder, error) {
	f.sales = append(f.sales, input)
	if f.salesErr != nil {
		return nil, f.salesErr
	}
	return &models.SalesOrder{Number: "SO001"}, nil
}

func confirmedPurchaseDraft(t *testing.T) *Draft {
	t.Helper()
	d := NewPurchaseDraft(testProducts())
	if err := d.SelectEntity("F001"); err != nil {
		t.Fatal(err)
	}
	i, err := d.AddLine()
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetProduct(i, "P001"); err != nil {
		t.Fatal(err)
	}
	if err := d.SetQuantity(i, "10"); err != nil {
		t.Fatal(err)
	}
	if err := d.Confirm(); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	return d
}

func TestDraftSubmitSuccess(t *testing.T) {
	d := confirmedPurchaseDraft(t)
	api := &fakeSubmitter{}

	if err := d.Submit(context.Background(), api); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if d.State() != StateCompleted {
		t.Errorf("expected Completed, got %s", d.State())
	}
	if d.OrderNumber() != "PO001" {
		t.Errorf("order number = %q, want PO001", d.OrderNumber())
	}
	if len(api.purchases) != 1 {
		t.Fatalf("expected exactly one POST, got %d", len(api.purchases))
	}
	input := api.purchases[0]
	if input.FarmerID != "F001" || len(input.Items) != 1 {
		t.Fatalf("unexpected payload: %+v", input)
	}
	if input.Items[0].Quantity != 10 || input.Items[0].PricePerUnit != 5.00 {
		t.Errorf("coerced item = %+v", input.Items[0])
	}
}

func TestDraftSubmitFailureKeepsLines(t *testing.T) {
	d := confirmedPurchaseDraft(t)
	api := &fakeSubmitter{purchaseErr: errors.New("boom")}

	if err := d.Submit(context.Background(), api); err == nil {
		t.Fatal("expected submit error")
	}
	if d.State() != StateItemsDraft {
		t.Errorf("failed submit should fall back to ItemsDraft, got %s", d.State())
	}
	if len(d.Lines()) != 1 {
		t.Errorf("draft lines should survive a failed submit, got %d", len(d.Lines()))
	}
}

func TestDraftConfirmRejectsInvalid(t *testing.T) {
	d := NewPurchaseDraft(testProducts())
	if err := d.SelectEntity("F001"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.AddLine(); err != nil {
		t.Fatal(err)
	}

	if err := d.Confirm(); !errors.Is(err, ErrLineNoProduct) {
		t.Errorf("Confirm should surface validation error, got %v", err)
	}
	if d.State() != StateItemsDraft {
		t.Errorf("failed Confirm should stay in ItemsDraft, got %s", d.State())
	}
}

func TestDraftReset(t *testing.T) {
	d := confirmedPurchaseDraft(t)
	d.Reset()
	if d.State() != StateIdle {
		t.Errorf("Reset should return to Idle, got %s", d.State())
	}
	if len(d.Lines()) != 0 {
		t.Errorf("Reset should clear lines")
	}
}
