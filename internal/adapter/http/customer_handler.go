package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	customerDomain "gemmary-backend/internal/domain/customer"
	customerUC "gemmary-backend/internal/usecase/customer"
)

type CustomerHandler struct{ uc *customerUC.Usecase }

func NewCustomerHandler(uc *customerUC.Usecase) *CustomerHandler { return &CustomerHandler{uc: uc} }

func (h *CustomerHandler) Create(c echo.Context) error {
	var in customerUC.CreateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	created, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *CustomerHandler) GetCurrent(c echo.Context) error {
	out, err := h.uc.GetCurrent(c.Request().Context(), c.Param("customer_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) History(c echo.Context) error {
	out, err := h.uc.History(c.Request().Context(), c.Param("customer_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) AsOf(c echo.Context) error {
	ts, err := time.Parse(time.RFC3339, c.QueryParam("ts"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ts must be RFC3339"})
	}
	out, err := h.uc.AsOf(c.Request().Context(), c.Param("customer_id"), ts)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) Search(c echo.Context) error {
	out, err := h.uc.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		out = []customerDomain.Customer{}
	}
	return c.JSON(http.StatusOK, out)
}

// updateCustomerReq is a partial update: nil means "keep the prior
// version's value". Compliance flags have their own endpoints.
type updateCustomerReq struct {
	FullName         *string                     `json:"full_name,omitempty"`
	Phone            *string                     `json:"phone,omitempty"`
	AlternatePhone   *string                     `json:"alternate_phone,omitempty"`
	Email            *string                     `json:"email,omitempty"`
	Address          *string                     `json:"address,omitempty"`
	AddressLine1     *string                     `json:"address_line_1,omitempty"`
	AddressLine2     *string                     `json:"address_line_2,omitempty"`
	Barangay         *string                     `json:"barangay,omitempty"`
	CityMunicipality *string                     `json:"city_municipality,omitempty"`
	Province         *string                     `json:"province,omitempty"`
	PostalCode       *string                     `json:"postal_code,omitempty"`
	Occupation       *customerDomain.Occupation  `json:"occupation,omitempty"`
	EmployerName     *string                     `json:"employer_business_name,omitempty"`
	IncomeRange      *customerDomain.IncomeRange `json:"monthly_income_range,omitempty"`
	SourceOfIncome   *string                     `json:"source_of_income,omitempty"`
}

func (h *CustomerHandler) Update(c echo.Context) error {
	key, ok := keyParam(c, "customer_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid customer_key"})
	}
	var req updateCustomerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.uc.Update(c.Request().Context(), key, func(next *customerDomain.Customer) {
		setIf(&next.FullName, req.FullName)
		setIf(&next.Phone, req.Phone)
		setIf(&next.AlternatePhone, req.AlternatePhone)
		setIf(&next.Email, req.Email)
		setIf(&next.Address, req.Address)
		setIf(&next.AddressLine1, req.AddressLine1)
		setIf(&next.AddressLine2, req.AddressLine2)
		setIf(&next.Barangay, req.Barangay)
		setIf(&next.CityMunicipality, req.CityMunicipality)
		setIf(&next.Province, req.Province)
		setIf(&next.PostalCode, req.PostalCode)
		setIf(&next.Occupation, req.Occupation)
		setIf(&next.EmployerBusinessName, req.EmployerName)
		setIf(&next.MonthlyIncomeRange, req.IncomeRange)
		setIf(&next.SourceOfIncome, req.SourceOfIncome)
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

type watchlistReq struct {
	Status customerDomain.WatchlistStatus `json:"status" validate:"required,oneof=clear flagged blocked"`
	Notes  string                         `json:"notes"`
}

func (h *CustomerHandler) SetWatchlist(c echo.Context) error {
	key, ok := keyParam(c, "customer_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid customer_key"})
	}
	var req watchlistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	out, err := h.uc.SetWatchlistStatus(c.Request().Context(), key, req.Status, req.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type kycReq struct {
	Status customerDomain.KycStatus `json:"status" validate:"required,oneof=pending verified rejected"`
}

func (h *CustomerHandler) SetKyc(c echo.Context) error {
	key, ok := keyParam(c, "customer_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid customer_key"})
	}
	var req kycReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	out, err := h.uc.SetKycStatus(c.Request().Context(), key, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
