package request

import "time"

type EquipmentRequest struct {
	ID          int64      `gorm:"primaryKey"`
	EmployeeID  int64      `gorm:"column:employee_id;index;not null"`
	ProjectID   int64      `gorm:"column:project_id;index;not null"`
	Equipment   string     `gorm:"column:equipment;not null"`
	Quantity    int        `gorm:"column:quantity;not null"`
	Reason      string     `gorm:"column:reason;not null"`
	Status      string     `gorm:"column:status;not null;default:Pending"`
	RequestedAt time.Time  `gorm:"column:requested_at;not null"`
	RespondedBy *int64     `gorm:"column:responded_by"`
	RespondedAt *time.Time `gorm:"column:responded_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (EquipmentRequest) TableName() string {
	return "equipment_requests"
}
