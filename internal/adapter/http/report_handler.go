package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	trxDomain "gemmary-backend/internal/domain/transaction"
	"gemmary-backend/pkg/csvexport"
)

// maxExportDays bounds one export request.
const maxExportDays = 92

type ReportHandler struct{ facts trxDomain.Repository }

func NewReportHandler(facts trxDomain.Repository) *ReportHandler {
	return &ReportHandler{facts: facts}
}

// transactionColumns is the export layout. Surrogate keys and notes
// stay out of operator-facing files.
var transactionColumns = csvexport.Options{
	Columns: []string{
		"transaction_id", "date_key", "type", "principal", "interest",
		"service_fee", "penalty", "discount", "total_amount",
		"net_cash_flow", "payment_method", "reference_number", "notes",
	},
	Headers: map[string]string{
		"transaction_id":   "Transaction ID",
		"date_key":         "Date",
		"type":             "Type",
		"principal":        "Principal",
		"interest":         "Interest",
		"service_fee":      "Service Fee",
		"penalty":          "Penalty",
		"discount":         "Discount",
		"total_amount":     "Total Amount",
		"net_cash_flow":    "Net Cash Flow",
		"payment_method":   "Payment Method",
		"reference_number": "Reference No.",
	},
	Deny: []string{"notes"},
}

// ExportTransactions streams the facts for a date range as CSV.
// from/to are YYYY-MM-DD.
func (h *ReportHandler) ExportTransactions(c echo.Context) error {
	from, err := time.Parse("2006-01-02", c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from must be YYYY-MM-DD"})
	}
	to, err := time.Parse("2006-01-02", c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "to must be YYYY-MM-DD"})
	}
	if to.Before(from) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "to is before from"})
	}
	if to.Sub(from) > maxExportDays*24*time.Hour {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("range is capped at %d days", maxExportDays)})
	}
	branchKey := branchQuery(c)

	ctx := c.Request().Context()
	var rows []csvexport.Row
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		facts, err := h.facts.ByDateKey(ctx, branchKey, trxDomain.DateKeyFor(day))
		if err != nil {
			return writeError(c, err)
		}
		for i := range facts {
			rows = append(rows, factRow(&facts[i]))
		}
	}

	name := fmt.Sprintf("transactions_%s_%s.csv", from.Format("20060102"), to.Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return csvexport.Write(c.Response(), rows, transactionColumns)
}

func factRow(f *trxDomain.Transaction) csvexport.Row {
	return csvexport.Row{
		"transaction_id":   f.TransactionID,
		"date_key":         f.DateKey,
		"type":             string(f.Type),
		"principal":        f.Principal,
		"interest":         f.Interest,
		"service_fee":      f.ServiceFee,
		"penalty":          f.Penalty,
		"discount":         f.Discount,
		"total_amount":     f.TotalAmount,
		"net_cash_flow":    f.NetCashFlow,
		"payment_method":   string(f.PaymentMethod),
		"reference_number": f.ReferenceNumber,
		"notes":            f.Notes,
	}
}
