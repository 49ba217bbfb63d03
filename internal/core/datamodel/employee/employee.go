package employee

import "time"

type Employee struct {
	ID           int64     `gorm:"primaryKey"`
	EmployeeCode string    `gorm:"column:employee_code;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Designation  string    `gorm:"column:designation"`
	Department   string    `gorm:"column:department"`
	Role         string    `gorm:"column:role;not null"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
