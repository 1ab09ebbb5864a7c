package http

import (
	"github.com/labstack/echo/v4"
)

// Handlers bundles everything Register wires onto the echo instance.
type Handlers struct {
	Health      *Handler
	Dashboard   *DashboardHandler
	Customers   *CustomerHandler
	Loans       *LoanHandler
	Facts       *TransactionHandler
	Branches    *BranchHandler
	Reports     *ReportHandler
	Calculator  *CalculatorHandler
	Idempotency echo.MiddlewareFunc
}

// Register mounts all routes. Mutating endpoints go through the
// idempotency middleware when one is supplied; reads never do.
func Register(e *echo.Echo, h Handlers) {
	e.GET("/health", h.Health.Health)
	e.GET("/dashboard", h.Dashboard.Overview)

	mutate := e.Group("")
	if h.Idempotency != nil {
		mutate.Use(h.Idempotency)
	}

	// customers. Reads address the business id (CUS-xxxxxx), writes
	// address the surrogate key of the current row.
	mutate.POST("/customers", h.Customers.Create)
	e.GET("/customers/search", h.Customers.Search)
	e.GET("/customers/:customer_id", h.Customers.GetCurrent)
	e.GET("/customers/:customer_id/history", h.Customers.History)
	e.GET("/customers/:customer_id/as-of", h.Customers.AsOf)
	mutate.PUT("/customers/:customer_key", h.Customers.Update)
	mutate.PUT("/customers/:customer_key/watchlist", h.Customers.SetWatchlist)
	mutate.PUT("/customers/:customer_key/kyc", h.Customers.SetKyc)

	// loans
	mutate.POST("/loans", h.Loans.Originate)
	e.GET("/loans/due", h.Loans.DueWithin)
	e.GET("/loans/overdue", h.Loans.Overdue)
	e.GET("/loans/:loan_id", h.Loans.Get)
	e.GET("/loans/:loan_key/successor", h.Loans.Successor)
	mutate.POST("/loans/:loan_key/renew", h.Loans.Renew)
	mutate.POST("/loans/:loan_key/redeem", h.Loans.Redeem)
	mutate.POST("/loans/:loan_key/forfeit", h.Loans.Forfeit)
	mutate.POST("/loans/:loan_key/auction", h.Loans.Auction)
	mutate.POST("/loans/:loan_key/cancel", h.Loans.Cancel)
	mutate.DELETE("/loans/:loan_key", h.Loans.Delete)
	e.GET("/customers/:customer_key/loans", h.Loans.ByCustomer)

	// transactions
	mutate.POST("/transactions", h.Facts.Record)
	e.GET("/transactions/recent", h.Facts.Recent)
	e.GET("/transactions/today", h.Facts.Today)
	e.GET("/transactions/weekly", h.Facts.Weekly)
	e.GET("/loans/:loan_key/transactions", h.Facts.ByLoan)
	e.GET("/customers/:customer_key/transactions", h.Facts.ByCustomer)

	// branches and staff
	mutate.POST("/branches", h.Branches.CreateBranch)
	e.GET("/branches", h.Branches.ListBranches)
	mutate.DELETE("/branches/:branch_key", h.Branches.DeactivateBranch)
	mutate.POST("/employees", h.Branches.CreateEmployee)
	e.GET("/employees", h.Branches.ListEmployees)
	mutate.DELETE("/employees/:employee_key", h.Branches.DeactivateEmployee)

	// reports and previews
	e.GET("/reports/transactions.csv", h.Reports.ExportTransactions)
	e.GET("/calculator/gold-value", h.Calculator.GoldValue)
}
