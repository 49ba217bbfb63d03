package project

import (
	"time"

	"github.com/frahmantamala/workforce-admin/internal/access"
	projectDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/project"
	"github.com/frahmantamala/workforce-admin/internal/core/status"
	"github.com/frahmantamala/workforce-admin/internal/progress"
	"github.com/frahmantamala/workforce-admin/internal/timeline"
)

type Project struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     time.Time            `json:"end_date"`
	Status      status.ProjectStatus `json:"status"`
	ManagerID   int64                `json:"manager_id"`
	TeamMembers []int64              `json:"team_members"`
	Teams       []Team               `json:"teams"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type Team struct {
	ID        string    `json:"id"`
	ProjectID int64     `json:"project_id"`
	Name      string    `json:"name"`
	Members   []int64   `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// Overview is a project with its derived health, computed per request.
type Overview struct {
	*Project
	Timeline timeline.Health  `json:"timeline"`
	Progress progress.Summary `json:"progress"`
}

func (p *Project) Ref() access.ProjectRef {
	return access.ProjectRef{ID: p.ID, ManagerID: p.ManagerID, TeamMembers: p.TeamMembers}
}

func (p *Project) TeamRef() access.TeamRef {
	return access.TeamRef{Project: p.Ref()}
}

func (p *Project) HasTeam(teamID string) bool {
	for _, t := range p.Teams {
		if t.ID == teamID {
			return true
		}
	}
	return false
}

// Health evaluates the timeline on the day of now.
func (p *Project) Health(now time.Time) timeline.Health {
	return timeline.Evaluate(p.StartDate, p.EndDate, p.Status, now)
}

// pruneTeams drops team members that are no longer on the project.
func (p *Project) pruneTeams() {
	for i := range p.Teams {
		kept := p.Teams[i].Members[:0]
		for _, id := range p.Teams[i].Members {
			if p.Ref().HasMember(id) {
				kept = append(kept, id)
			}
		}
		p.Teams[i].Members = kept
	}
}

func ToDataModel(p *Project) *projectDatamodel.Project {
	teams := make([]projectDatamodel.Team, len(p.Teams))
	for i, t := range p.Teams {
		teams[i] = projectDatamodel.Team{
			ID:        t.ID,
			Name:      t.Name,
			Members:   t.Members,
			CreatedAt: t.CreatedAt,
		}
	}
	return &projectDatamodel.Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      string(p.Status),
		ManagerID:   p.ManagerID,
		TeamMembers: p.TeamMembers,
		Teams:       teams,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModel(p *projectDatamodel.Project) *Project {
	st, ok := status.ParseProject(p.Status)
	if !ok {
		st = status.ProjectStatus(p.Status)
	}
	members := p.TeamMembers
	if members == nil {
		members = []int64{}
	}
	teams := make([]Team, len(p.Teams))
	for i, t := range p.Teams {
		teamMembers := t.Members
		if teamMembers == nil {
			teamMembers = []int64{}
		}
		teams[i] = Team{
			ID:        t.ID,
			ProjectID: p.ID,
			Name:      t.Name,
			Members:   teamMembers,
			CreatedAt: t.CreatedAt,
		}
	}
	return &Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      st,
		ManagerID:   p.ManagerID,
		TeamMembers: members,
		Teams:       teams,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*projectDatamodel.Project) []*Project {
	result := make([]*Project, len(rows))
	for i, p := range rows {
		result[i] = FromDataModel(p)
	}
	return result
}
