package task

import (
	"time"

	"github.com/frahmantamala/workforce-admin/internal/access"
	taskDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/task"
	"github.com/frahmantamala/workforce-admin/internal/core/status"
)

type Task struct {
	ID             int64             `json:"id"`
	ProjectID      int64             `json:"project_id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	AssignedTo     int64             `json:"assigned_to"`
	TeamID         *string           `json:"team_id,omitempty"`
	Deadline       time.Time         `json:"deadline"`
	EstimatedHours int               `json:"estimated_hours"`
	Status         status.TaskStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (t *Task) AssigneeID() int64 { return t.AssignedTo }

func (t *Task) IsDone() bool { return t.Status == status.TaskDone }

func (t *Task) Ref(project access.ProjectRef) access.TaskRef {
	return access.TaskRef{ID: t.ID, Project: project, AssignedTo: t.AssignedTo}
}

func ToDataModel(t *Task) *taskDatamodel.Task {
	return &taskDatamodel.Task{
		ID:             t.ID,
		ProjectID:      t.ProjectID,
		Name:           t.Name,
		Description:    t.Description,
		AssignedTo:     t.AssignedTo,
		TeamID:         t.TeamID,
		Deadline:       t.Deadline,
		EstimatedHours: t.EstimatedHours,
		Status:         string(t.Status),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func FromDataModel(t *taskDatamodel.Task) *Task {
	st, ok := status.ParseTask(t.Status)
	if !ok {
		st = status.TaskStatus(t.Status)
	}
	return &Task{
		ID:             t.ID,
		ProjectID:      t.ProjectID,
		Name:           t.Name,
		Description:    t.Description,
		AssignedTo:     t.AssignedTo,
		TeamID:         t.TeamID,
		Deadline:       t.Deadline,
		EstimatedHours: t.EstimatedHours,
		Status:         st,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*taskDatamodel.Task) []*Task {
	result := make([]*Task, len(rows))
	for i, t := range rows {
		result[i] = FromDataModel(t)
	}
	return result
}
