package project

import "time"

type Project struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	StartDate   time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate     time.Time `gorm:"column:end_date;type:date;not null"`
	Status      string    `gorm:"column:status;not null;default:Planning"`
	ManagerID   int64     `gorm:"column:manager_id;index;not null"`
	TeamMembers []int64   `gorm:"column:team_members;type:jsonb;serializer:json"`
	Teams       []Team    `gorm:"column:teams;type:jsonb;serializer:json"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}

// Team is stored inside its project row.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []int64   `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}
