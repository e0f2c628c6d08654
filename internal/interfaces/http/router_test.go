package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/margiesol/mew-bad/internal/application/analytics"
	"github.com/margiesol/mew-bad/internal/application/auth"
	"github.com/margiesol/mew-bad/internal/application/billing"
	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/application/usecase"
	"github.com/margiesol/mew-bad/internal/infrastructure/memory"
	"github.com/margiesol/mew-bad/internal/infrastructure/pdf"
	apphttp "github.com/margiesol/mew-bad/internal/interfaces/http"
	"github.com/margiesol/mew-bad/pkg/config"
)

// newTestServer arma la API completa sobre el store en memoria.
func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.New()
	repos := store.Billing()

	recompute := billing.NewRecomputeService(store, nil, nil)
	generator, err := pdf.NewMarotoPDFGenerator(config.PrintConfig{CompanyName: "Tienda de Prueba", CurrencyCode: "PHP"})
	require.NoError(t, err)

	customerUC := billing.NewCustomerUseCase(store.Customers())
	agentUC := usecase.NewAgentUseCase(store.Agents())
	bankUC := usecase.NewBankUseCase(store.Banks())
	productUC := usecase.NewProductUseCase(store.Products())

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}).WithBcryptCost(bcrypt.MinCost),
		UserUC:      usecase.NewUserUseCase(store.Users()),
		InvoiceUC:   billing.NewInvoiceUseCase(store, repos, store.Customers(), store.Agents(), recompute),
		RecordUC:    billing.NewRecordUseCase(store, repos, store.Products(), recompute),
		PaymentUC:   billing.NewPaymentUseCase(store, repos, store.Banks(), recompute),
		InvoicePDF:  billing.NewPDFUseCase(repos, store.Customers(), store.Agents(), store.Products(), generator),
		CustomerUC:  customerUC,
		AgentUC:     agentUC,
		BankUC:      bankUC,
		ProductUC:   productUC,
		ProfileUC:   usecase.NewProfileUseCase(productUC, customerUC, agentUC, bankUC),
		DashboardUC: appanalytics.NewDashboardUseCase(store.Dashboard(), nil, nil),
		JWTSecret:   testJWTSecret,
	})
	return app
}

// call hace una petición JSON y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, token string, body, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out), "%s %s", method, path)
	}
	return resp.StatusCode
}

// signup registra y autentica una cuenta; devuelve el token.
func signup(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	creds := map[string]string{"username": username, "password": "secreto123"}
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/auth/register", "", creds, nil))
	var login dto.LoginResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/auth/login", "", creds, &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

// seedInvoice crea cliente, producto (precio 5) y una factura vacía.
func seedInvoice(t *testing.T, app *fiber.App, token string) (invoiceID, productID string) {
	t.Helper()
	var customer dto.CustomerResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/customers", token,
		map[string]any{"name": "Tienda Sol"}, &customer))
	assert.Equal(t, "0001", customer.Code)
	assert.Equal(t, "No Selection", customer.Area)

	var product dto.ProductResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/products", token,
		map[string]any{"product_code": "ARZ-25", "description": "Arroz 25kg", "price": "5.00"}, &product))
	assert.Equal(t, "00001", product.Code)

	var inv dto.InvoiceResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/invoices", token,
		map[string]any{"number": "SI-0001", "date": "2026-05-01", "customer_id": customer.ID, "terms": 30}, &inv))
	assert.Equal(t, "0.00", inv.GrandTotal)
	assert.Equal(t, "Paid", inv.PaymentStatus)
	assert.Equal(t, "2026-05-31", inv.DueDate)
	return inv.ID, product.ID
}

func TestFlujoFactura_TotalesSeRecalculanConCadaCambio(t *testing.T) {
	app := newTestServer(t)
	token := signup(t, app, "admin")
	invID, productID := seedInvoice(t, app, token)
	base := "/api/invoices/" + invID

	var res dto.LineRecordMutationResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, base+"/orders", token,
		map[string]any{"product_id": productID, "quantity": "10"}, &res))
	assert.Equal(t, "50.00", res.Record.TotalPrice)
	assert.Equal(t, "50.00", res.Invoice.GrandTotal)
	assert.Equal(t, "Unpaid", res.Invoice.PaymentStatus)

	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, base+"/returns", token,
		map[string]any{"product_id": productID, "quantity": "2", "price_per_unit": "5.00", "rate": "1"}, &res))
	assert.Equal(t, "40.00", res.Invoice.GrandTotal)

	var inv dto.InvoiceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, base, token,
		map[string]any{"discount": "10.00"}, &inv))
	assert.Equal(t, "30.00", inv.GrandTotal)

	var pay dto.PaymentMutationResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, base+"/payments", token,
		map[string]any{"payment_date": "2026-05-11", "amount": "10.00", "payment_type": "cash"}, &pay))
	assert.Equal(t, 1, pay.Payment.SequenceNo)
	assert.Equal(t, 10, pay.Payment.Days)
	assert.Equal(t, "20.00", pay.Invoice.RemainingBalance)
	assert.Equal(t, "Partial", pay.Invoice.PaymentStatus)

	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, base+"/payments", token,
		map[string]any{"payment_date": "2026-05-20", "amount": "20.00", "payment_type": "cash"}, &pay))
	assert.Equal(t, 2, pay.Payment.SequenceNo)
	assert.Equal(t, "0.00", pay.Invoice.RemainingBalance)
	assert.Equal(t, "Paid", pay.Invoice.PaymentStatus)

	var detail dto.InvoiceDetailResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, base, token, nil, &detail))
	assert.Len(t, detail.Orders, 1)
	assert.Len(t, detail.Returns, 1)
	assert.Len(t, detail.Payments, 2)
	assert.Equal(t, "30.00", detail.PartialPayment)

	var again dto.InvoiceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, base+"/recompute", token, nil, &again))
	assert.Equal(t, detail.InvoiceResponse, again)
}

func TestFacturaEliminada_RechazaCambios(t *testing.T) {
	app := newTestServer(t)
	token := signup(t, app, "admin")
	invID, productID := seedInvoice(t, app, token)
	base := "/api/invoices/" + invID

	require.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, base, token, nil, nil))

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, base+"/orders", token,
		map[string]any{"product_id": productID, "quantity": "1"}, &errResp))
	assert.Equal(t, "INVOICE_DELETED", errResp.Code)

	var list dto.InvoiceListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/invoices", token, nil, &list))
	assert.Empty(t, list.Items)
}

func TestPurge_SoloAdmin(t *testing.T) {
	app := newTestServer(t)
	admin := signup(t, app, "admin")
	clerk := signup(t, app, "cajera")
	invID, _ := seedInvoice(t, app, admin)
	path := "/api/invoices/" + invID + "?purge=true"

	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodDelete, path, clerk, nil, nil))
	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, path, admin, nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/invoices/"+invID, admin, nil, nil))
}

func TestUsuarios_SoloAdminLista(t *testing.T) {
	app := newTestServer(t)
	admin := signup(t, app, "admin")
	clerk := signup(t, app, "cajera")

	var users []dto.UserResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/users", admin, nil, &users))
	assert.Len(t, users, 2)
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/users", clerk, nil, nil))
}

func TestCrearFactura_ValidacionListaCampos(t *testing.T) {
	app := newTestServer(t)
	token := signup(t, app, "admin")

	var errResp dto.ErrorResponse
	require.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/invoices", token,
		map[string]any{"date": "01/05/2026"}, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.NotEmpty(t, errResp.Fields)
}

func TestCuerpoInvalido_Retorna400(t *testing.T) {
	app := newTestServer(t)
	token := signup(t, app, "admin")

	req := httptest.NewRequest(http.MethodPost, "/api/invoices", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDescargarPDF(t *testing.T) {
	app := newTestServer(t)
	token := signup(t, app, "admin")
	invID, _ := seedInvoice(t, app, token)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/"+invID+"/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestProximosCodigos(t *testing.T) {
	app := newTestServer(t)
	token := signup(t, app, "admin")
	seedInvoice(t, app, token)

	var codes dto.NextCodesResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/profiles/next-codes", token, nil, &codes))
	assert.Equal(t, "00002", codes.Product)
	assert.Equal(t, "0002", codes.Customer)
	assert.Equal(t, "0001", codes.Agent)
	assert.Equal(t, "0001", codes.Bank)
}

func TestDashboard_ResumenDeVentas(t *testing.T) {
	app := newTestServer(t)
	token := signup(t, app, "admin")
	invID, productID := seedInvoice(t, app, token)
	base := "/api/invoices/" + invID

	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, base+"/orders", token,
		map[string]any{"product_id": productID, "quantity": "4"}, nil))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, base+"/payments", token,
		map[string]any{"payment_date": "2026-05-02", "amount": "5", "payment_type": "cash"}, nil))

	var sum dto.DashboardSummaryDTO
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/dashboard/summary?from=2026-05-01&to=2026-05-31", token, nil, &sum))
	assert.Equal(t, 1, sum.InvoiceCount)
	assert.Equal(t, "20.00", sum.TotalSales)
	assert.Equal(t, "5.00", sum.TotalReceived)
	assert.Equal(t, "15.00", sum.TotalOutstanding)
	assert.Equal(t, 1, sum.ByPaymentStatus["Partial"])
}
