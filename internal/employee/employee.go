package employee

import (
	"time"

	"github.com/frahmantamala/workforce-admin/internal/access"
	employeeDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/employee"
)

type Employee struct {
	ID           int64       `json:"id"`
	EmployeeCode string      `json:"employee_code"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Designation  string      `json:"designation"`
	Department   string      `json:"department"`
	Role         access.Role `json:"role"`
	IsActive     bool        `json:"is_active"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (e *Employee) Ref() access.EmployeeRef {
	return access.EmployeeRef{ID: e.ID, Role: e.Role, Active: e.IsActive}
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		Name:         e.Name,
		Email:        e.Email,
		Designation:  e.Designation,
		Department:   e.Department,
		Role:         e.Role.String(),
		IsActive:     e.IsActive,
		PasswordHash: e.PasswordHash,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// FromDataModel normalizes the stored role. Rows with an unrecognized role
// come back as RoleUnknown and are denied by every rule.
func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	role, _ := access.ParseRole(e.Role)
	return &Employee{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		Name:         e.Name,
		Email:        e.Email,
		Designation:  e.Designation,
		Department:   e.Department,
		Role:         role,
		IsActive:     e.IsActive,
		PasswordHash: e.PasswordHash,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(rows))
	for i, e := range rows {
		result[i] = FromDataModel(e)
	}
	return result
}
