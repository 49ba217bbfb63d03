package employee

import (
	"strings"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/access"
	"github.com/frahmantamala/workforce-admin/internal/core/common/validation"
)

const minPasswordLength = 8

type CreateEmployeeDTO struct {
	EmployeeCode string `json:"employee_code"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Designation  string `json:"designation"`
	Department   string `json:"department"`
	Role         string `json:"role"`
	IsActive     *bool  `json:"is_active,omitempty"`
	Password     string `json:"password"`
}

func (dto CreateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(255)
	v.Field("email", dto.Email).Required().Email().MaxLength(255)
	v.Field("role", dto.Role).Required().Custom(roleValidator("role"))
	v.Field("password", dto.Password).Required().Custom(passwordValidator("password"))
	v.Field("employee_code", dto.EmployeeCode).MaxLength(32)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// UpdateEmployeeDTO is a partial update; nil fields are left unchanged.
type UpdateEmployeeDTO struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Designation *string `json:"designation,omitempty"`
	Department  *string `json:"department,omitempty"`
	Role        *string `json:"role,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	Password    *string `json:"password,omitempty"`
}

func (dto UpdateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(255)
	}
	if dto.Email != nil {
		v.Field("email", *dto.Email).Required().Email().MaxLength(255)
	}
	if dto.Role != nil {
		v.Field("role", *dto.Role).Required().Custom(roleValidator("role"))
	}
	if dto.Password != nil {
		v.Field("password", *dto.Password).Custom(passwordValidator("password"))
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func roleValidator(field string) validation.ValidatorFunc {
	return func(value interface{}) *errors.AppError {
		if s, ok := value.(string); ok {
			if _, err := access.ParseRole(s); err != nil {
				return errors.NewValidationFieldError(field, "role must be one of admin, manager, employee", errors.ErrCodeInvalidRole)
			}
		}
		return nil
	}
}

func passwordValidator(field string) validation.ValidatorFunc {
	return func(value interface{}) *errors.AppError {
		if s, ok := value.(string); ok && len(strings.TrimSpace(s)) < minPasswordLength {
			return errors.NewValidationFieldError(field, "password must be at least 8 characters", errors.ErrCodeValidationFailed)
		}
		return nil
	}
}

type EmployeesResponse struct {
	Employees []*Employee `json:"employees"`
}
