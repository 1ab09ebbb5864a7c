package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	branchDomain "gemmary-backend/internal/domain/branch"
)

type BranchHandler struct{ repo branchDomain.Repository }

func NewBranchHandler(repo branchDomain.Repository) *BranchHandler {
	return &BranchHandler{repo: repo}
}

type createBranchReq struct {
	BranchID    string `json:"branch_id" validate:"required,max=16"`
	Name        string `json:"name" validate:"required"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	OpeningDate string `json:"opening_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *BranchHandler) CreateBranch(c echo.Context) error {
	var req createBranchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	b := &branchDomain.Branch{
		BranchID:    req.BranchID,
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		IsActive:    true,
		OpeningDate: req.OpeningDate,
	}
	if err := h.repo.CreateBranch(c.Request().Context(), b); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BranchHandler) ListBranches(c echo.Context) error {
	out, err := h.repo.ActiveBranches(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		out = []branchDomain.Branch{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BranchHandler) DeactivateBranch(c echo.Context) error {
	key, ok := keyParam(c, "branch_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid branch_key"})
	}
	if err := h.repo.DeactivateBranch(c.Request().Context(), key); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type createEmployeeReq struct {
	EmployeeID string            `json:"employee_id" validate:"required,max=16"`
	BranchKey  uint64            `json:"branch_key" validate:"required"`
	FullName   string            `json:"full_name" validate:"required"`
	Email      string            `json:"email" validate:"omitempty,email"`
	Phone      string            `json:"phone"`
	Role       branchDomain.Role `json:"role" validate:"required,oneof=admin manager teller appraiser"`
}

func (h *BranchHandler) CreateEmployee(c echo.Context) error {
	var req createEmployeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	e := &branchDomain.Employee{
		EmployeeID: req.EmployeeID,
		BranchKey:  req.BranchKey,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Role:       req.Role,
		IsActive:   true,
	}
	if err := h.repo.CreateEmployee(c.Request().Context(), e); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *BranchHandler) ListEmployees(c echo.Context) error {
	out, err := h.repo.ActiveEmployees(c.Request().Context(), branchQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		out = []branchDomain.Employee{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BranchHandler) DeactivateEmployee(c echo.Context) error {
	key, ok := keyParam(c, "employee_key")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid employee_key"})
	}
	if err := h.repo.DeactivateEmployee(c.Request().Context(), key); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
