package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gemmary-backend/internal/pawncalc"
)

// CalculatorHandler exposes the appraisal arithmetic to the
// front-end, so the purity table lives on the server only.
type CalculatorHandler struct{}

func NewCalculatorHandler() *CalculatorHandler { return &CalculatorHandler{} }

type goldValueReq struct {
	WeightGrams  float64 `query:"weight_grams" validate:"required,gt=0"`
	PricePerGram int64   `query:"price_per_gram" validate:"required,gt=0"`
	Karat        string  `query:"karat" validate:"required"`
}

// GoldValue previews a gold appraisal: weight x market price x karat
// purity. Unknown karat ratings fall back to the 18k fraction.
func (h *CalculatorHandler) GoldValue(c echo.Context) error {
	var req goldValueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"weight_grams":    req.WeightGrams,
		"price_per_gram":  req.PricePerGram,
		"karat":           req.Karat,
		"purity_fraction": pawncalc.PurityFraction(req.Karat),
		"estimated_value": pawncalc.GoldValue(req.WeightGrams, req.PricePerGram, req.Karat),
	})
}
