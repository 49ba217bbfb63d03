package task

import "time"

type Task struct {
	ID             int64     `gorm:"primaryKey"`
	ProjectID      int64     `gorm:"column:project_id;index;not null"`
	Name           string    `gorm:"column:name;not null"`
	Description    string    `gorm:"column:description"`
	AssignedTo     int64     `gorm:"column:assigned_to;index;not null"`
	TeamID         *string   `gorm:"column:team_id"`
	Deadline       time.Time `gorm:"column:deadline;type:date"`
	EstimatedHours int       `gorm:"column:estimated_hours;not null"`
	Status         string    `gorm:"column:status;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}
