package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/retailbook/billing-api/internal/application/billing"
	"github.com/retailbook/billing-api/internal/application/dto"
	"github.com/retailbook/billing-api/internal/domain"
	domainbilling "github.com/retailbook/billing-api/internal/domain/billing"
	"github.com/retailbook/billing-api/internal/domain/entity"
	"github.com/retailbook/billing-api/internal/domain/repository"
	apphttp "github.com/retailbook/billing-api/internal/interfaces/http"
	"github.com/retailbook/billing-api/pkg/logger"
)

// In-memory repositories backing a full Fiber app, so the handler tests
// exercise routing, body parsing and status mapping end to end.

type stubCustomerRepo struct{ customers map[string]*entity.Customer }

func (r *stubCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.customers[c.ID] = c
	return nil
}
func (r *stubCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return r.customers[id], nil
}
func (r *stubCustomerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.customers {
		out = append(out, c)
	}
	return out, nil
}

type stubItemRepo struct{ items map[string]*entity.Item }

func (r *stubItemRepo) Create(_ context.Context, it *entity.Item) error {
	r.items[it.ID] = it
	return nil
}
func (r *stubItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return r.items[id], nil
}
func (r *stubItemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	for _, it := range r.items {
		if strings.EqualFold(it.Code, code) {
			return it, nil
		}
	}
	return nil, nil
}
func (r *stubItemRepo) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.items {
		out = append(out, it)
	}
	return out, nil
}

type stubInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	order    []string
}

func (r *stubInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	for _, existing := range r.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *inv
	r.invoices[inv.ID] = &cp
	r.order = append(r.order, inv.ID)
	return nil
}
func (r *stubInvoiceRepo) Replace(_ context.Context, inv *entity.Invoice) error {
	existing, ok := r.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	cp.InvoiceNumber = existing.InvoiceNumber
	cp.CreatedAt = existing.CreatedAt
	r.invoices[inv.ID] = &cp
	return nil
}
func (r *stubInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}
func (r *stubInvoiceRepo) List(_ context.Context, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for i := len(r.order) - 1; i >= 0; i-- {
		if inv, ok := r.invoices[r.order[i]]; ok {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *stubInvoiceRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}
func (r *stubInvoiceRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.invoices)), nil
}

type stubSequenceRepo struct{ last map[string]int64 }

func (r *stubSequenceRepo) Next(_ context.Context, fy string) (int64, error) {
	r.last[fy]++
	return r.last[fy], nil
}
func (r *stubSequenceRepo) Peek(_ context.Context, fy string) (int64, error) {
	return r.last[fy] + 1, nil
}

func (r *stubSequenceRepo) Skip(_ context.Context, fy string, taken int64) (int64, error) {
	if taken > r.last[fy] {
		r.last[fy] = taken
	}
	r.last[fy]++
	return r.last[fy], nil
}

type stubTxRunner struct {
	invoices *stubInvoiceRepo
	seqs     *stubSequenceRepo
}

func (r *stubTxRunner) RunBilling(_ context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	return fn(r.invoices, r.seqs)
}

type stubPDFGenerator struct{}

func (stubPDFGenerator) GenerateInvoicePDF(_ context.Context, doc *appbilling.PDFDocument) ([]byte, error) {
	return []byte("%PDF-1.4 " + doc.Invoice.InvoiceNumber), nil
}

// buildTestApp wires the full router over in-memory storage, with one
// customer and one 100.00 item preloaded.
func buildTestApp() *fiber.App {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	customers := &stubCustomerRepo{customers: map[string]*entity.Customer{
		"customer-1": {ID: "customer-1", Name: "Asha Traders", City: "Pune"},
	}}
	items := &stubItemRepo{items: map[string]*entity.Item{
		"item-1": {ID: "item-1", Code: "SOAP01", Name: "Soap", Price: decimal.NewFromInt(100)},
	}}
	invoices := &stubInvoiceRepo{invoices: map[string]*entity.Invoice{}}
	seqs := &stubSequenceRepo{last: map[string]int64{}}

	engine := domainbilling.NewEngine(decimal.RequireFromString("0.18"))
	allocator := appbilling.NewNumberAllocator("INV", log, nil)
	invoiceUC := appbilling.NewInvoiceUseCase(
		&stubTxRunner{invoices: invoices, seqs: seqs},
		customers, items, invoices, seqs,
		engine, allocator, log,
	)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CustomerUC: appbilling.NewCustomerUseCase(customers),
		ItemUC:     appbilling.NewItemUseCase(items),
		InvoiceUC:  invoiceUC,
		InvoicePDF: appbilling.NewPDFUseCase(invoices, customers, items, stubPDFGenerator{}),
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func do(t *testing.T, app *fiber.App, method, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func decodeInvoice(t *testing.T, resp *http.Response) dto.InvoiceResponse {
	t.Helper()
	var out dto.InvoiceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func soapOrder() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID:    "customer-1",
		Items:         []dto.InvoiceItemRequest{{ItemID: "item-1", Quantity: 10}},
		DiscountType:  entity.DiscountPercent,
		DiscountValue: decimal.NewFromInt(20),
	}
}

func TestPostInvoice_Returns201WithSnapshot(t *testing.T) {
	app := buildTestApp()

	resp := postJSON(t, app, "/api/invoices/", soapOrder())
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	inv := decodeInvoice(t, resp)
	assert.NotEmpty(t, inv.ID)
	assert.Regexp(t, `^INV-\d{4}-0001$`, inv.InvoiceNumber)
	assert.Equal(t, "Asha Traders", inv.CustomerName)
	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, inv.DiscountAmount.Equal(decimal.NewFromInt(200)))
	assert.True(t, inv.TaxAmount.Equal(decimal.NewFromInt(144)))
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(944)))
}

func TestPostInvoice_MissingCustomerIs400(t *testing.T) {
	app := buildTestApp()
	in := soapOrder()
	in.CustomerID = ""

	resp := postJSON(t, app, "/api/invoices/", in)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Message, "customer")
}

func TestPostInvoice_UnknownItemIs404(t *testing.T) {
	app := buildTestApp()
	in := soapOrder()
	in.Items = []dto.InvoiceItemRequest{{ItemID: "item-999", Quantity: 1}}

	resp := postJSON(t, app, "/api/invoices/", in)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostInvoice_MalformedBodyIs400(t *testing.T) {
	app := buildTestApp()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetInvoice_RoundTrip(t *testing.T) {
	app := buildTestApp()

	created := decodeInvoice(t, postJSON(t, app, "/api/invoices/", soapOrder()))

	resp := do(t, app, http.MethodGet, "/api/invoices/"+created.ID)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeInvoice(t, resp)
	assert.Equal(t, created.InvoiceNumber, got.InvoiceNumber)
	assert.True(t, got.Total.Equal(created.Total))
}

func TestGetInvoice_UnknownIs404(t *testing.T) {
	app := buildTestApp()
	resp := do(t, app, http.MethodGet, "/api/invoices/missing")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPutInvoice_KeepsNumber(t *testing.T) {
	app := buildTestApp()

	created := decodeInvoice(t, postJSON(t, app, "/api/invoices/", soapOrder()))

	in := soapOrder()
	in.DiscountType = entity.DiscountFlat
	in.DiscountValue = decimal.NewFromInt(100)
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/api/invoices/"+created.ID, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeInvoice(t, resp)
	assert.Equal(t, created.InvoiceNumber, got.InvoiceNumber)
	// 1000 - 100 flat = 900 taxable, 162 tax, 1062 total.
	assert.True(t, got.Total.Equal(decimal.NewFromInt(1062)))
}

func TestDeleteInvoice(t *testing.T) {
	app := buildTestApp()
	created := decodeInvoice(t, postJSON(t, app, "/api/invoices/", soapOrder()))

	resp := do(t, app, http.MethodDelete, "/api/invoices/"+created.ID)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/invoices/"+created.ID)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNextNumber_RouteNotSwallowedByID(t *testing.T) {
	app := buildTestApp()

	resp := do(t, app, http.MethodGet, "/api/invoices/next-number")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.NextNumberResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Regexp(t, `^INV-\d{4}-0001$`, body.NextNumber)
}

func TestInvoicePDF_StreamsDocument(t *testing.T) {
	app := buildTestApp()
	created := decodeInvoice(t, postJSON(t, app, "/api/invoices/", soapOrder()))

	resp := do(t, app, http.MethodGet, "/api/invoices/"+created.ID+"/pdf")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), created.ID)
}

func TestListInvoices_NewestFirst(t *testing.T) {
	app := buildTestApp()
	first := decodeInvoice(t, postJSON(t, app, "/api/invoices/", soapOrder()))
	second := decodeInvoice(t, postJSON(t, app, "/api/invoices/", soapOrder()))

	resp := do(t, app, http.MethodGet, "/api/invoices/")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []dto.InvoiceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestPostCustomer_ThenListed(t *testing.T) {
	app := buildTestApp()

	resp := postJSON(t, app, "/api/customers/", dto.CreateCustomerRequest{Name: "Meera Stores", City: "Nashik"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created dto.CustomerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Meera Stores", created.Name)
}

func TestGetItemByCode_BarcodeLookup(t *testing.T) {
	app := buildTestApp()

	// Scanned codes arrive in whatever case the barcode firmware sends.
	resp := do(t, app, http.MethodGet, "/api/items/code/soap01")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var item dto.ItemResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, "Soap", item.Name)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(100)))
}

func TestGetItemByCode_UnknownIs404(t *testing.T) {
	app := buildTestApp()
	resp := do(t, app, http.MethodGet, "/api/items/code/NOPE99")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostItem_EmptyNameIs400(t *testing.T) {
	app := buildTestApp()
	resp := postJSON(t, app, "/api/items/", dto.CreateItemRequest{Price: decimal.NewFromInt(10)})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
