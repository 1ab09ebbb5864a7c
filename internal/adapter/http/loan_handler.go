package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	loanDomain "gemmary-backend/internal/domain/loan"
	trxDomain "gemmary-backend/internal/domain/transaction"
	"gemmary-backend/internal/pawncalc"
	loanUC "gemmary-backend/internal/usecase/loan"
)

type LoanHandler struct{ uc *loanUC.Usecase }

func NewLoanHandler(uc *loanUC.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

// Originate accepts the raw terms and derives interest and total here,
// so direct API callers get the same arithmetic as the wizard preview.
func (h *LoanHandler) Originate(c echo.Context) error {
	var in loanUC.OriginateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	in.InterestAmount = pawncalc.InterestAmount(in.Principal, in.InterestRate, in.TermDays)
	in.TotalDue = pawncalc.TotalDue(in.Principal, in.InterestAmount, in.ServiceFee)
	l, err := h.uc.Originate(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *LoanHandler) Get(c echo.Context) error {
	l, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, viewLoan(*l))
}

func (h *LoanHandler) Successor(c echo.Context) error {
	key, ok := keyParam(c, "loan_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_key"})
	}
	l, err := h.uc.Successor(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

type renewReq struct {
	TermDays int `json:"term_days" validate:"required,oneof=30 60 90 120"`
}

func (h *LoanHandler) Renew(c echo.Context) error {
	key, ok := keyParam(c, "loan_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_key"})
	}
	var req renewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	child, err := h.uc.Renew(c.Request().Context(), key, req.TermDays)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, child)
}

type redeemReq struct {
	PaymentMethod trxDomain.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash bank_transfer gcash maya"`
}

func (h *LoanHandler) Redeem(c echo.Context) error {
	key, ok := keyParam(c, "loan_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_key"})
	}
	var req redeemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = trxDomain.PayCash
	}
	l, err := h.uc.Redeem(c.Request().Context(), key, req.PaymentMethod)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, viewLoan(*l))
}

func (h *LoanHandler) Forfeit(c echo.Context) error {
	key, ok := keyParam(c, "loan_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_key"})
	}
	l, err := h.uc.Forfeit(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

type auctionReq struct {
	SaleAmount int64 `json:"sale_amount" validate:"required,gt=0"`
}

func (h *LoanHandler) Auction(c echo.Context) error {
	key, ok := keyParam(c, "loan_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_key"})
	}
	var req auctionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	l, err := h.uc.Auction(c.Request().Context(), key, req.SaleAmount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) Cancel(c echo.Context) error {
	key, ok := keyParam(c, "loan_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_key"})
	}
	l, err := h.uc.Cancel(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) Delete(c echo.Context) error {
	key, ok := keyParam(c, "loan_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_key"})
	}
	if err := h.uc.Delete(c.Request().Context(), key); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *LoanHandler) DueWithin(c echo.Context) error {
	days, err := strconv.Atoi(c.QueryParam("days"))
	if err != nil || days <= 0 {
		days = pawncalc.DueSoonWindowDays
	}
	out, err := h.uc.DueWithin(c.Request().Context(), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, viewLoans(out))
}

func (h *LoanHandler) Overdue(c echo.Context) error {
	out, err := h.uc.Overdue(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, viewLoans(out))
}

func (h *LoanHandler) ByCustomer(c echo.Context) error {
	key, ok := keyParam(c, "customer_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid customer_key"})
	}
	out, err := h.uc.ByCustomer(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, viewLoans(out))
}

// loanView annotates a loan row with the shared due-band status, so
// clients never re-derive the band boundaries.
type loanView struct {
	loanDomain.Loan
	DueStatus pawncalc.DueStatus `json:"due_status"`
}

func viewLoan(l loanDomain.Loan) loanView {
	return loanView{
		Loan:      l,
		DueStatus: pawncalc.ClassifyMaturity(l.MaturityDate, time.Now().UTC()),
	}
}

func viewLoans(in []loanDomain.Loan) []loanView {
	out := make([]loanView, 0, len(in))
	for _, l := range in {
		out = append(out, viewLoan(l))
	}
	return out
}
