package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	branchDomain "gemmary-backend/internal/domain/branch"
	customerDomain "gemmary-backend/internal/domain/customer"
	itemDomain "gemmary-backend/internal/domain/item"
	loanDomain "gemmary-backend/internal/domain/loan"
	trxDomain "gemmary-backend/internal/domain/transaction"
	customerUC "gemmary-backend/internal/usecase/customer"
	loanUC "gemmary-backend/internal/usecase/loan"
	trxUC "gemmary-backend/internal/usecase/transaction"
)

// writeError maps domain errors onto HTTP codes. Conflicts come back
// 409 so clients retry with a fresh read instead of overwriting.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, customerDomain.ErrNotFound),
		errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, itemDomain.ErrNotFound),
		errors.Is(err, branchDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, customerDomain.ErrConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loanDomain.ErrInvalidTransition):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, customerUC.ErrInvalidInput),
		errors.Is(err, loanUC.ErrInvalidInput),
		errors.Is(err, trxUC.ErrInvalidInput),
		errors.Is(err, trxDomain.ErrUnknownType):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
