package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"gemmary-backend/internal/adapter/repository/mysql"
	customerDomain "gemmary-backend/internal/domain/customer"
	"gemmary-backend/internal/testutil/testdb"
	customerUC "gemmary-backend/internal/usecase/customer"
	loanUC "gemmary-backend/internal/usecase/loan"
	trxUC "gemmary-backend/internal/usecase/transaction"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// harness wires the handlers against an in-memory database, the same
// way the usecase tests do. Handlers are invoked directly through an
// echo context rather than the router.
type harness struct {
	e  *echo.Echo
	db *gorm.DB

	custUC *customerUC.Usecase

	customers *CustomerHandler
	loans     *LoanHandler
	facts     *TransactionHandler
	reports   *ReportHandler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testdb.Open(t)
	tx := mysql.NewGormUoW(db)
	cu := customerUC.NewUsecase(mysql.NewCustomerRepository(db), tx, customerUC.DefaultPolicy())
	lu := loanUC.NewUsecase(mysql.NewLoanRepository(db), tx)
	tu := trxUC.NewUsecase(mysql.NewTransactionRepository(db), tx)
	return &harness{
		e:         newEchoWithValidator(),
		db:        db,
		custUC:    cu,
		customers: NewCustomerHandler(cu),
		loans:     NewLoanHandler(lu),
		facts:     NewTransactionHandler(tu),
		reports:   NewReportHandler(mysql.NewTransactionRepository(db)),
	}
}

func (h *harness) request(method, target string, body *bytes.Reader) (echo.Context, *httptest.ResponseRecorder) {
	var req *stdhttp.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return h.e.NewContext(req, rec), rec
}

func (h *harness) seedCustomer(t *testing.T) *customerDomain.Customer {
	t.Helper()
	cust, err := h.custUC.Create(context.Background(), customerUC.CreateInput{
		FullName: "Maria Clara Santos",
		Phone:    "+63-917-555-0101",
		Address:  "12 Mabini St, Poblacion, Quezon City",
		IDType:   customerDomain.IDUmid,
		IDNumber: "0028-1215-4412",
	})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return cust
}

func customerBody() map[string]any {
	return map[string]any{
		"full_name":     "Maria Clara Santos",
		"date_of_birth": "1990-04-12",
		"id_type":       "umid",
		"id_number":     "0028-1215-4412",
		"address":       "12 Mabini St, Poblacion, Quezon City",
		"phone":         "+63-917-555-0101",
	}
}

// -------- tests --------

func TestCreateCustomer_Success(t *testing.T) {
	h := newHarness(t)

	c, rec := h.request(stdhttp.MethodPost, "/customers", mustJSON(customerBody()))
	if err := h.customers.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var got customerDomain.Customer
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.CustomerID != "CUS-000001" {
		t.Fatalf("customer_id = %s, want CUS-000001", got.CustomerID)
	}
	if !got.IsCurrent {
		t.Fatal("created row must be current")
	}
}

func TestCreateCustomer_MissingPhone(t *testing.T) {
	h := newHarness(t)

	body := customerBody()
	delete(body, "phone")
	c, rec := h.request(stdhttp.MethodPost, "/customers", mustJSON(body))
	if err := h.customers.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetCustomer_NotFound(t *testing.T) {
	h := newHarness(t)

	c, rec := h.request(stdhttp.MethodGet, "/customers/CUS-999999", nil)
	c.SetParamNames("customer_id")
	c.SetParamValues("CUS-999999")
	if err := h.customers.GetCurrent(c); err != nil {
		t.Fatalf("GetCurrent error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateCustomer_NewVersion(t *testing.T) {
	h := newHarness(t)
	cust := h.seedCustomer(t)

	body := map[string]any{"phone": "+63-917-555-0202", "province": "Bulacan"}
	c, rec := h.request(stdhttp.MethodPut, "/customers/1", mustJSON(body))
	c.SetParamNames("customer_key")
	c.SetParamValues(strconv.FormatUint(cust.CustomerKey, 10))
	if err := h.customers.Update(c); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var got customerDomain.Customer
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Phone != "+63-917-555-0202" || got.Province != "Bulacan" {
		t.Fatalf("fields not applied: %+v", got)
	}
	if got.FullName != cust.FullName {
		t.Fatalf("untouched field changed: %s", got.FullName)
	}
	hist, err := h.custUC.History(context.Background(), cust.CustomerID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("history rows = %d, want 2", len(hist))
	}
}

func TestUpdateCustomer_SupersededKey(t *testing.T) {
	h := newHarness(t)
	cust := h.seedCustomer(t)

	ctx := context.Background()
	if _, err := h.custUC.Update(ctx, cust.CustomerKey, func(next *customerDomain.Customer) {
		next.Phone = "+63-917-555-0303"
	}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	// The original key now points at a closed row.
	c, rec := h.request(stdhttp.MethodPut, "/customers/1", mustJSON(map[string]any{"phone": "x"}))
	c.SetParamNames("customer_key")
	c.SetParamValues(strconv.FormatUint(cust.CustomerKey, 10))
	if err := h.customers.Update(c); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestSetWatchlist(t *testing.T) {
	h := newHarness(t)
	cust := h.seedCustomer(t)

	c, rec := h.request(stdhttp.MethodPut, "/customers/1/watchlist",
		mustJSON(map[string]any{"status": "flagged", "notes": "adverse media hit"}))
	c.SetParamNames("customer_key")
	c.SetParamValues(strconv.FormatUint(cust.CustomerKey, 10))
	if err := h.customers.SetWatchlist(c); err != nil {
		t.Fatalf("SetWatchlist error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var got customerDomain.Customer
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.WatchlistStatus != customerDomain.WatchlistFlagged {
		t.Fatalf("watchlist = %s, want flagged", got.WatchlistStatus)
	}
}

func TestSetWatchlist_BadStatus(t *testing.T) {
	h := newHarness(t)
	cust := h.seedCustomer(t)

	c, rec := h.request(stdhttp.MethodPut, "/customers/1/watchlist",
		mustJSON(map[string]any{"status": "banned"}))
	c.SetParamNames("customer_key")
	c.SetParamValues(strconv.FormatUint(cust.CustomerKey, 10))
	if err := h.customers.SetWatchlist(c); err != nil {
		t.Fatalf("SetWatchlist error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestAsOf_BadTimestamp(t *testing.T) {
	h := newHarness(t)

	c, rec := h.request(stdhttp.MethodGet, "/customers/CUS-000001/as-of?ts=yesterday", nil)
	c.SetParamNames("customer_id")
	c.SetParamValues("CUS-000001")
	if err := h.customers.AsOf(c); err != nil {
		t.Fatalf("AsOf error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchCustomers_Empty(t *testing.T) {
	h := newHarness(t)

	c, rec := h.request(stdhttp.MethodGet, "/customers/search?q=zz", nil)
	if err := h.customers.Search(c); err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("short query must return an empty list, got %q", body)
	}
}
