package task

import (
	"strings"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/core/common/validation"
	"github.com/frahmantamala/workforce-admin/internal/core/status"
)

const maxEstimatedHours = 10000

type CreateTaskDTO struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	AssignedTo     int64   `json:"assigned_to"`
	TeamID         *string `json:"team_id,omitempty"`
	Deadline       string  `json:"deadline"`
	EstimatedHours int     `json:"estimated_hours"`
	Status         string  `json:"status,omitempty"`
}

func (dto CreateTaskDTO) toTask(projectID int64) (*Task, error) {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(255)
	v.Field("assigned_to", dto.AssignedTo).Required()
	v.Field("estimated_hours", dto.EstimatedHours).
		Positive(errors.ErrCodeValidationFailed).
		MaxInt(maxEstimatedHours, errors.ErrCodeValidationFailed)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	deadline, appErr := validation.ParseDate("deadline", dto.Deadline)
	if appErr != nil {
		return nil, appErr
	}

	st := status.TaskToDo
	if dto.Status != "" {
		parsed, ok := status.ParseTask(dto.Status)
		if !ok {
			return nil, invalidStatus()
		}
		st = parsed
	}

	return &Task{
		ProjectID:      projectID,
		Name:           strings.TrimSpace(dto.Name),
		Description:    dto.Description,
		AssignedTo:     dto.AssignedTo,
		TeamID:         normalizeTeam(dto.TeamID),
		Deadline:       deadline,
		EstimatedHours: dto.EstimatedHours,
		Status:         st,
	}, nil
}

// UpdateTaskDTO is a partial update; nil fields are left unchanged. An
// empty team_id clears the team.
type UpdateTaskDTO struct {
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	AssignedTo     *int64  `json:"assigned_to,omitempty"`
	TeamID         *string `json:"team_id,omitempty"`
	Deadline       *string `json:"deadline,omitempty"`
	EstimatedHours *int    `json:"estimated_hours,omitempty"`
	Status         *string `json:"status,omitempty"`
}

// StatusOnly reports whether the update changes nothing but the status,
// the one edit an assigned employee may make.
func (dto UpdateTaskDTO) StatusOnly() bool {
	return dto.Status != nil &&
		dto.Name == nil && dto.Description == nil && dto.AssignedTo == nil &&
		dto.TeamID == nil && dto.Deadline == nil && dto.EstimatedHours == nil
}

func (dto UpdateTaskDTO) apply(t *Task) error {
	if dto.Name != nil {
		t.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Description != nil {
		t.Description = *dto.Description
	}
	if dto.AssignedTo != nil {
		t.AssignedTo = *dto.AssignedTo
	}
	if dto.TeamID != nil {
		t.TeamID = normalizeTeam(dto.TeamID)
	}
	if dto.Deadline != nil {
		deadline, appErr := validation.ParseDate("deadline", *dto.Deadline)
		if appErr != nil {
			return appErr
		}
		t.Deadline = deadline
	}
	if dto.EstimatedHours != nil {
		t.EstimatedHours = *dto.EstimatedHours
	}
	if dto.Status != nil {
		st, ok := status.ParseTask(*dto.Status)
		if !ok {
			return invalidStatus()
		}
		t.Status = st
	}

	v := validation.NewValidator()
	v.Field("name", t.Name).Required().MaxLength(255)
	v.Field("assigned_to", t.AssignedTo).Required()
	v.Field("estimated_hours", t.EstimatedHours).
		Positive(errors.ErrCodeValidationFailed).
		MaxInt(maxEstimatedHours, errors.ErrCodeValidationFailed)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func normalizeTeam(teamID *string) *string {
	if teamID == nil || strings.TrimSpace(*teamID) == "" {
		return nil
	}
	id := strings.TrimSpace(*teamID)
	return &id
}

func invalidStatus() error {
	return errors.NewValidationFieldError("status", "status must be one of To Do, In Progress, Done", errors.ErrCodeInvalidStatus)
}

type TasksResponse struct {
	Tasks []*Task `json:"tasks"`
}
