package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	loanUC "gemmary-backend/internal/usecase/loan"
	trxUC "gemmary-backend/internal/usecase/transaction"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// keyParam parses a numeric surrogate-key path parameter.
func keyParam(c echo.Context, name string) (uint64, bool) {
	key, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || key == 0 {
		return 0, false
	}
	return key, true
}

// branchQuery reads the optional ?branch scope. Zero (absent or
// unparsable) spans all branches, matching the repository contract.
func branchQuery(c echo.Context) uint64 {
	b, _ := strconv.ParseUint(c.QueryParam("branch"), 10, 64)
	return b
}

// DashboardHandler serves the landing-page panels: loan counts by due
// band plus today's and the week's cash flow.
type DashboardHandler struct {
	loans *loanUC.Usecase
	facts *trxUC.Usecase
}

func NewDashboardHandler(loans *loanUC.Usecase, facts *trxUC.Usecase) *DashboardHandler {
	return &DashboardHandler{loans: loans, facts: facts}
}

func (h *DashboardHandler) Overview(c echo.Context) error {
	ctx := c.Request().Context()
	branchKey := branchQuery(c)

	stats, err := h.loans.DashboardStats(ctx)
	if err != nil {
		return writeError(c, err)
	}
	today, err := h.facts.TodayCashFlow(ctx, branchKey)
	if err != nil {
		return writeError(c, err)
	}
	week, err := h.facts.WeeklyStats(ctx, branchKey)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"loans":  stats,
		"today":  today,
		"weekly": week,
	})
}
