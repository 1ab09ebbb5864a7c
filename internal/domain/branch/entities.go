package branch

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("branch not found")

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleTeller    Role = "teller"
	RoleAppraiser Role = "appraiser"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTeller, RoleAppraiser:
		return true
	}
	return false
}

// Branch and Employee are reference data for scoping loans and facts.
// Both soft-deactivate only.
type Branch struct {
	BranchKey   uint64     `gorm:"primaryKey;column:branch_key" json:"branch_key"`
	BranchID    string     `gorm:"size:16;uniqueIndex;column:branch_id" json:"branch_id"`
	Name        string     `gorm:"size:120;column:name" json:"name"`
	Address     string     `gorm:"type:text;column:address" json:"address,omitempty"`
	Phone       string     `gorm:"size:30;column:phone" json:"phone,omitempty"`
	IsActive    bool       `gorm:"default:true;column:is_active" json:"is_active"`
	OpeningDate string     `gorm:"size:10;column:opening_date" json:"opening_date,omitempty"`
	ClosedAt    *time.Time `gorm:"column:closed_at" json:"closed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (Branch) TableName() string { return "dim_branch" }

type Employee struct {
	EmployeeKey  uint64     `gorm:"primaryKey;column:employee_key" json:"employee_key"`
	EmployeeID   string     `gorm:"size:16;uniqueIndex;column:employee_id" json:"employee_id"`
	BranchKey    uint64     `gorm:"index;column:branch_key" json:"branch_key"`
	FullName     string     `gorm:"size:255;column:full_name" json:"full_name"`
	Email        string     `gorm:"size:255;column:email" json:"email,omitempty"`
	Phone        string     `gorm:"size:30;column:phone" json:"phone,omitempty"`
	Role         Role       `gorm:"size:12;column:role" json:"role"`
	IsActive     bool       `gorm:"default:true;column:is_active" json:"is_active"`
	TerminatedAt *time.Time `gorm:"column:terminated_at" json:"terminated_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (Employee) TableName() string { return "dim_employee" }
