package orderdraft

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"easypalm_backend/internal/models"
	"easypalm_backend/pkg/client"
)

// Mode selects which side of the business a draft belongs to.
type Mode int

const (
	// PurchaseMode drafts a buy from a farmer.
	PurchaseMode Mode = iota
	// SalesMode drafts a sale to an industrial customer from one warehouse.
	SalesMode
)

// State is the draft's position in the order-entry flow.
type State int

const (
	StateIdle State = iota
	StateEntitySelected
	StateItemsDraft
	StateConfirming
	StateSubmitting
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateEntitySelected:
		return "EntitySelected"
	case StateItemsDraft:
		return "ItemsDraft"
	case StateConfirming:
		return "Confirming"
	case StateSubmitting:
		return "Submitting"
	case StateCompleted:
		return "Completed"
	}
	return "Unknown"
}

var (
	ErrNoEntity         = errors.New("no counterparty selected")
	ErrNoWarehouse      = errors.New("no warehouse selected")
	ErrNoLines          = errors.New("order has no line items")
	ErrLineNoProduct    = errors.New("line has no product")
	ErrLineZeroQuantity = errors.New("line quantity must be greater than zero")
	ErrLineZeroPrice    = errors.New("line price must be greater than zero")
	ErrLineOverStock    = errors.New("line quantity exceeds available stock")
	ErrWrongState       = errors.New("operation not allowed in current state")
)

// Line is one product row under edit. Quantity and PricePerUnit stay raw
// strings while the user types; they are coerced on read.
type Line struct {
	ProductID    string
	Quantity     string
	PricePerUnit string
}

// Submitter is the slice of the API client the draft needs.
// *client.Client satisfies it.
type Submitter interface {
	CreatePurchaseOrder(ctx context.Context, input client.CreatePurchaseOrderInput) (*models.PurchaseOrder, error)
	CreateSalesOrder(ctx context.Context, input client.CreateSalesOrderInput) (*models.SalesOrder, error)
}

// Draft is an in-progress order. It moves
// Idle -> EntitySelected -> ItemsDraft -> Confirming -> Submitting -> Completed;
// a failed submit falls back to ItemsDraft with the lines intact.
type Draft struct {
	mode        Mode
	state       State
	entityID    string
	warehouseID string
	orderDate   string
	lines       []Line

	products map[string]models.Product
	stock    map[string]float64

	orderNumber string
}

// NewPurchaseDraft starts a farmer-purchase draft over the given catalog.
func NewPurchaseDraft(products []models.Product) *Draft {
	return newDraft(PurchaseMode, products, nil)
}

// NewSalesDraft starts a customer-sale draft. stock maps product ID to the
// quantity available in the chosen warehouse; products absent from the map
// are treated as unavailable.
func NewSalesDraft(products []models.Product, stock map[string]float64) *Draft {
	return newDraft(SalesMode, products, stock)
}

func newDraft(mode Mode, products []models.Product, stock map[string]float64) *Draft {
	catalog := make(map[string]models.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}
	return &Draft{mode: mode, state: StateIdle, products: catalog, stock: stock}
}

// State reports the current flow state.
func (d *Draft) State() State { return d.state }

// Mode reports which side of the business the draft is for.
func (d *Draft) Mode() Mode { return d.mode }

// OrderNumber returns the server-assigned number after a completed submit.
func (d *Draft) OrderNumber() string { return d.orderNumber }

// Lines returns a copy of the current line items.
func (d *Draft) Lines() []Line {
	out := make([]Line, len(d.lines))
	copy(out, d.lines)
	return out
}

// SelectEntity picks the counterparty. Re-selecting while drafting keeps the
// lines; selecting from Idle advances to EntitySelected.
func (d *Draft) SelectEntity(entityID string) error {
	switch d.state {
	case StateIdle:
		d.state = StateEntitySelected
	case StateEntitySelected, StateItemsDraft:
		// allowed, keeps current lines
	default:
		return fmt.Errorf("%w: select entity in %s", ErrWrongState, d.state)
	}
	d.entityID = entityID
	return nil
}

// SelectWarehouse picks the source warehouse for a sales draft.
func (d *Draft) SelectWarehouse(warehouseID string) error {
	if d.mode != SalesMode {
		return fmt.Errorf("%w: warehouse applies to sales drafts only", ErrWrongState)
	}
	if d.state == StateSubmitting || d.state == StateCompleted {
		return fmt.Errorf("%w: select warehouse in %s", ErrWrongState, d.state)
	}
	d.warehouseID = warehouseID
	return nil
}

// SetOrderDate overrides the order date (YYYY-MM-DD). Empty means today,
// decided server-side.
func (d *Draft) SetOrderDate(date string) { d.orderDate = date }

// AddLine appends an empty line and returns its index. Adding the first line
// moves the draft into ItemsDraft.
func (d *Draft) AddLine() (int, error) {
	switch d.state {
	case StateEntitySelected:
		d.state = StateItemsDraft
	case StateItemsDraft:
	default:
		return 0, fmt.Errorf("%w: add line in %s", ErrWrongState, d.state)
	}
	d.lines = append(d.lines, Line{})
	return len(d.lines) - 1, nil
}

// RemoveLine deletes the line at index i. Removing the last line drops the
// draft back to EntitySelected.
func (d *Draft) RemoveLine(i int) error {
	if d.state != StateItemsDraft {
		return fmt.Errorf("%w: remove line in %s", ErrWrongState, d.state)
	}
	if i < 0 || i >= len(d.lines) {
		return fmt.Errorf("line index %d out of range", i)
	}
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	if len(d.lines) == 0 {
		d.state = StateEntitySelected
	}
	return nil
}

// ClearLines removes every line and returns to EntitySelected.
func (d *Draft) ClearLines() error {
	if d.state != StateItemsDraft && d.state != StateEntitySelected {
		return fmt.Errorf("%w: clear lines in %s", ErrWrongState, d.state)
	}
	d.lines = nil
	if d.state == StateItemsDraft {
		d.state = StateEntitySelected
	}
	return nil
}

// SetProduct assigns a product to a line and seeds the line price from the
// catalog default (purchase or sale price depending on mode). Changing the
// product re-seeds the price.
func (d *Draft) SetProduct(i int, productID string) error {
	if err := d.checkLine(i); err != nil {
		return err
	}
	d.lines[i].ProductID = productID
	if p, ok := d.products[productID]; ok {
		price := p.PurchasePrice
		if d.mode == SalesMode {
			price = p.SalePrice
		}
		d.lines[i].PricePerUnit = strconv.FormatFloat(price, 'f', 2, 64)
	}
	return nil
}

// SetQuantity stores the raw quantity text for a line.
func (d *Draft) SetQuantity(i int, raw string) error {
	if err := d.checkLine(i); err != nil {
		return err
	}
	d.lines[i].Quantity = raw
	return nil
}

// SetPrice stores the raw unit-price text for a line.
func (d *Draft) SetPrice(i int, raw string) error {
	if err := d.checkLine(i); err != nil {
		return err
	}
	d.lines[i].PricePerUnit = raw
	return nil
}

func (d *Draft) checkLine(i int) error {
	if d.state != StateItemsDraft {
		return fmt.Errorf("%w: edit line in %s", ErrWrongState, d.state)
	}
	if i < 0 || i >= len(d.lines) {
		return fmt.Errorf("line index %d out of range", i)
	}
	return nil
}

// Coerce turns free-form numeric text into a value. Blank input, a bare
// decimal point and unparseable text all read as zero.
func Coerce(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "." {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// NormalizeOnBlur is the display form committed when a numeric field loses
// focus: blank and bare-decimal input become "0"; anything parseable keeps
// the user's text. Zero values are surfaced, not silently replaced, so that
// validation can reject them explicitly.
func NormalizeOnBlur(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "." {
		return "0"
	}
	return trimmed
}

// LineTotal returns quantity x price for the line at index i.
func (d *Draft) LineTotal(i int) float64 {
	if i < 0 || i >= len(d.lines) {
		return 0
	}
	return Coerce(d.lines[i].Quantity) * Coerce(d.lines[i].PricePerUnit)
}

// Total sums every line total.
func (d *Draft) Total() float64 {
	var total float64
	for i := range d.lines {
		total += d.LineTotal(i)
	}
	return total
}

// AvailableStock reports how much of a product the draft believes is on hand.
// Purchase drafts have no cap.
func (d *Draft) AvailableStock(productID string) (float64, bool) {
	if d.mode != SalesMode {
		return 0, false
	}
	qty, ok := d.stock[productID]
	return qty, ok
}

// Validate checks the draft is submittable: a counterparty (and, for sales, a
// warehouse) is chosen, at least one line exists, every line has a product,
// a positive quantity and a positive price, and sales quantities fit within
// known stock. The first problem found is returned.
func (d *Draft) Validate() error {
	if d.entityID == "" {
		return ErrNoEntity
	}
	if d.mode == SalesMode && d.warehouseID == "" {
		return ErrNoWarehouse
	}
	if len(d.lines) == 0 {
		return ErrNoLines
	}
	for i, line := range d.lines {
		if line.ProductID == "" {
			return fmt.Errorf("%w: line %d", ErrLineNoProduct, i+1)
		}
		qty := Coerce(line.Quantity)
		if qty <= 0 {
			return fmt.Errorf("%w: line %d", ErrLineZeroQuantity, i+1)
		}
		if Coerce(line.PricePerUnit) <= 0 {
			return fmt.Errorf("%w: line %d", ErrLineZeroPrice, i+1)
		}
		if d.mode == SalesMode {
			available, ok := d.stock[line.ProductID]
			if !ok || qty > available {
				return fmt.Errorf("%w: line %d (%s)", ErrLineOverStock, i+1, line.ProductID)
			}
		}
	}
	return nil
}

// Confirm validates the draft and moves it to the review step. A validation
// failure leaves the draft in ItemsDraft.
func (d *Draft) Confirm() error {
	if d.state != StateItemsDraft {
		return fmt.Errorf("%w: confirm in %s", ErrWrongState, d.state)
	}
	if err := d.Validate(); err != nil {
		return err
	}
	d.state = StateConfirming
	return nil
}

// CancelConfirm returns from the review step to editing.
func (d *Draft) CancelConfirm() error {
	if d.state != StateConfirming {
		return fmt.Errorf("%w: cancel confirm in %s", ErrWrongState, d.state)
	}
	d.state = StateItemsDraft
	return nil
}

// Submit posts the confirmed draft exactly once. On success the draft is
// Completed and keeps the server-assigned order number; on failure it falls
// back to ItemsDraft with every line intact so the user can retry.
func (d *Draft) Submit(ctx context.Context, api Submitter) error {
	if d.state != StateConfirming {
		return fmt.Errorf("%w: submit in %s", ErrWrongState, d.state)
	}
	d.state = StateSubmitting

	items := make([]client.OrderItemInput, len(d.lines))
	for i, line := range d.lines {
		items[i] = client.OrderItemInput{
			ProductID:    line.ProductID,
			Quantity:     Coerce(line.Quantity),
			PricePerUnit: Coerce(line.PricePerUnit),
		}
	}

	var err error
	switch d.mode {
	case PurchaseMode:
		var order *models.PurchaseOrder
		order, err = api.CreatePurchaseOrder(ctx, client.CreatePurchaseOrderInput{
			FarmerID:  d.entityID,
			OrderDate: d.orderDate,
			Items:     items,
		})
		if err == nil {
			d.orderNumber = order.Number
		}
	case SalesMode:
		var order *models.SalesOrder
		order, err = api.CreateSalesOrder(ctx, client.CreateSalesOrderInput{
			CustomerID:  d.entityID,
			WarehouseID: d.warehouseID,
			OrderDate:   d.orderDate,
			Items:       items,
		})
		if err == nil {
			d.orderNumber = order.Number
		}
	}

	if err != nil {
		d.state = StateItemsDraft
		return err
	}
	d.state = StateCompleted
	return nil
}

// Reset discards everything and returns the draft to Idle.
func (d *Draft) Reset() {
	d.state = StateIdle
	d.entityID = ""
	d.warehouseID = ""
	d.orderDate = ""
	d.lines = nil
	d.orderNumber = ""
}
