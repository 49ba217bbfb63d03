package project

import (
	"time"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/core/common/validation"
	"github.com/frahmantamala/workforce-admin/internal/core/status"
)

type CreateProjectDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Status      string  `json:"status"`
	ManagerID   int64   `json:"manager_id"`
	TeamMembers []int64 `json:"team_members"`
}

// parsed is the validated form of a create or update payload.
type parsed struct {
	start, end time.Time
	status     status.ProjectStatus
}

func (dto CreateProjectDTO) parse() (parsed, error) {
	var out parsed
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(255)
	v.Field("manager_id", dto.ManagerID).Required()
	v.Field("team_members", dto.TeamMembers).UniqueIDs()

	var dateErr error
	start, appErr := validation.ParseDate("start_date", dto.StartDate)
	if appErr != nil {
		dateErr = appErr
	}
	end, appErr := validation.ParseDate("end_date", dto.EndDate)
	if appErr != nil && dateErr == nil {
		dateErr = appErr
	}
	v.Field("end_date", end).NotBefore(start, "start_date")

	out.status = status.ProjectPlanning
	if dto.Status != "" {
		st, ok := status.ParseProject(dto.Status)
		if !ok {
			return out, errors.NewValidationFieldError("status", "status must be one of Planning, In Progress, Completed", errors.ErrCodeInvalidStatus)
		}
		out.status = st
	}

	if appErr := v.Validate(); appErr != nil {
		return out, appErr
	}
	if dateErr != nil {
		return out, dateErr
	}
	out.start, out.end = start, end
	return out, nil
}

// UpdateProjectDTO is a partial update; nil fields are left unchanged.
type UpdateProjectDTO struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	StartDate   *string  `json:"start_date,omitempty"`
	EndDate     *string  `json:"end_date,omitempty"`
	Status      *string  `json:"status,omitempty"`
	ManagerID   *int64   `json:"manager_id,omitempty"`
	TeamMembers *[]int64 `json:"team_members,omitempty"`
}

// TouchesAdminFields reports whether the update changes anything a project
// manager may not edit.
func (dto UpdateProjectDTO) TouchesAdminFields() bool {
	return dto.Name != nil || dto.ManagerID != nil || dto.TeamMembers != nil
}

// apply merges the update into p and validates the result.
func (dto UpdateProjectDTO) apply(p *Project) error {
	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}
	if dto.StartDate != nil {
		start, appErr := validation.ParseDate("start_date", *dto.StartDate)
		if appErr != nil {
			return appErr
		}
		p.StartDate = start
	}
	if dto.EndDate != nil {
		end, appErr := validation.ParseDate("end_date", *dto.EndDate)
		if appErr != nil {
			return appErr
		}
		p.EndDate = end
	}
	if dto.Status != nil {
		st, ok := status.ParseProject(*dto.Status)
		if !ok {
			return errors.NewValidationFieldError("status", "status must be one of Planning, In Progress, Completed", errors.ErrCodeInvalidStatus)
		}
		p.Status = st
	}
	if dto.ManagerID != nil {
		p.ManagerID = *dto.ManagerID
	}
	if dto.TeamMembers != nil {
		p.TeamMembers = append([]int64{}, (*dto.TeamMembers)...)
		p.pruneTeams()
	}

	v := validation.NewValidator()
	v.Field("name", p.Name).Required().MaxLength(255)
	v.Field("manager_id", p.ManagerID).Required()
	v.Field("team_members", p.TeamMembers).UniqueIDs()
	v.Field("end_date", p.EndDate).NotBefore(p.StartDate, "start_date")
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type TeamDTO struct {
	ID      string  `json:"id,omitempty"`
	Name    string  `json:"name"`
	Members []int64 `json:"members"`
}

type UpdateTeamsDTO struct {
	Teams []TeamDTO `json:"teams"`
}

type ProjectsResponse struct {
	Projects []*Overview `json:"projects"`
}
