package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	trxDomain "gemmary-backend/internal/domain/transaction"
	trxUC "gemmary-backend/internal/usecase/transaction"
)

type TransactionHandler struct{ uc *trxUC.Usecase }

func NewTransactionHandler(uc *trxUC.Usecase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

func (h *TransactionHandler) Record(c echo.Context) error {
	var in trxUC.RecordInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.uc.Record(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *TransactionHandler) ByLoan(c echo.Context) error {
	key, ok := keyParam(c, "loan_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_key"})
	}
	out, err := h.uc.ByLoan(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, emptyFactsIfNil(out))
}

func (h *TransactionHandler) ByCustomer(c echo.Context) error {
	key, ok := keyParam(c, "customer_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid customer_key"})
	}
	out, err := h.uc.ByCustomer(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, emptyFactsIfNil(out))
}

func (h *TransactionHandler) Recent(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	out, err := h.uc.Recent(c.Request().Context(), branchQuery(c), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, emptyFactsIfNil(out))
}

func (h *TransactionHandler) Today(c echo.Context) error {
	out, err := h.uc.TodayCashFlow(c.Request().Context(), branchQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TransactionHandler) Weekly(c echo.Context) error {
	out, err := h.uc.WeeklyStats(c.Request().Context(), branchQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func emptyFactsIfNil(in []trxDomain.Transaction) []trxDomain.Transaction {
	if in == nil {
		return []trxDomain.Transaction{}
	}
	return in
}
