// Package access decides, per role and per entity, which records a session
// may see and which mutations it may perform.
package access

// Action names a mutation checked by CanMutate.
type Action string

const (
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionUpdateStatus Action = "update_status"
	ActionDelete       Action = "delete"
	ActionRespond      Action = "respond"
)

// Entity is implemented by the reference views below. Services build them
// from their own records so this package depends on nothing.
type Entity interface {
	entity()
}

type ProjectRef struct {
	ID          int64
	ManagerID   int64
	TeamMembers []int64
}

func (ProjectRef) entity() {}

func (p ProjectRef) HasMember(employeeID int64) bool {
	for _, id := range p.TeamMembers {
		if id == employeeID {
			return true
		}
	}
	return false
}

// Involves reports whether employeeID is the manager or a team member.
func (p ProjectRef) Involves(employeeID int64) bool {
	return p.ManagerID == employeeID || p.HasMember(employeeID)
}

type TeamRef struct {
	Project ProjectRef
}

func (TeamRef) entity() {}

type TaskRef struct {
	ID         int64
	Project    ProjectRef
	AssignedTo int64
}

func (TaskRef) entity() {}

type RequestRef struct {
	ID         int64
	EmployeeID int64
	Project    ProjectRef
}

func (RequestRef) entity() {}

type EmployeeRef struct {
	ID     int64
	Role   Role
	Active bool
}

func (EmployeeRef) entity() {}

// CanView reports whether s may see e.
func CanView(s Session, e Entity) bool {
	if !s.Valid() {
		return false
	}
	switch e := e.(type) {
	case ProjectRef:
		return canViewProject(s, e)
	case TeamRef:
		return canViewProject(s, e.Project)
	case TaskRef:
		return canViewTask(s, e)
	case RequestRef:
		return canViewRequest(s, e)
	case EmployeeRef:
		return canViewEmployee(s, e)
	}
	return false
}

// CanMutate reports whether s may perform action on e. A false result must
// stop the caller before any write is attempted.
func CanMutate(s Session, e Entity, action Action) bool {
	if !s.Valid() {
		return false
	}
	switch e := e.(type) {
	case ProjectRef:
		return canMutateProject(s, e, action)
	case TeamRef:
		return canMutateTeam(s, e, action)
	case TaskRef:
		return canMutateTask(s, e, action)
	case RequestRef:
		return canMutateRequest(s, e, action)
	case EmployeeRef:
		return canMutateEmployee(s, action)
	}
	return false
}

func canViewProject(s Session, p ProjectRef) bool {
	switch s.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return p.ManagerID == s.ActorID
	case RoleEmployee:
		return p.HasMember(s.ActorID)
	}
	return false
}

func canMutateProject(s Session, p ProjectRef, action Action) bool {
	switch s.Role {
	case RoleAdmin:
		return action == ActionCreate || action == ActionUpdate || action == ActionUpdateStatus || action == ActionDelete
	case RoleManager:
		return p.ManagerID == s.ActorID && (action == ActionUpdate || action == ActionUpdateStatus)
	case RoleEmployee:
		return false
	}
	return false
}

func canMutateTeam(s Session, t TeamRef, action Action) bool {
	if action != ActionCreate && action != ActionUpdate && action != ActionDelete {
		return false
	}
	switch s.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return t.Project.ManagerID == s.ActorID
	case RoleEmployee:
		return false
	}
	return false
}

func canViewTask(s Session, t TaskRef) bool {
	switch s.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return t.Project.ManagerID == s.ActorID
	case RoleEmployee:
		return t.AssignedTo == s.ActorID
	}
	return false
}

func canMutateTask(s Session, t TaskRef, action Action) bool {
	switch action {
	case ActionCreate, ActionUpdate, ActionUpdateStatus, ActionDelete:
	default:
		return false
	}
	switch s.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return t.Project.ManagerID == s.ActorID
	case RoleEmployee:
		return action == ActionUpdateStatus && t.AssignedTo == s.ActorID
	}
	return false
}

func canViewRequest(s Session, r RequestRef) bool {
	switch s.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return r.EmployeeID == s.ActorID || r.Project.ManagerID == s.ActorID
	case RoleEmployee:
		return r.EmployeeID == s.ActorID
	}
	return false
}

func canMutateRequest(s Session, r RequestRef, action Action) bool {
	switch action {
	case ActionCreate:
		if r.EmployeeID != s.ActorID {
			return false
		}
		switch s.Role {
		case RoleAdmin:
			return true
		case RoleManager:
			return r.Project.ManagerID == s.ActorID
		case RoleEmployee:
			return r.Project.HasMember(s.ActorID)
		}
	case ActionRespond:
		// nobody answers their own request, whatever their role
		if r.EmployeeID == s.ActorID {
			return false
		}
		switch s.Role {
		case RoleAdmin:
			return true
		case RoleManager:
			return r.Project.ManagerID == s.ActorID
		case RoleEmployee:
			return false
		}
	case ActionDelete, ActionUpdate:
		switch s.Role {
		case RoleAdmin:
			return true
		case RoleManager, RoleEmployee:
			return false
		}
	}
	return false
}

func canViewEmployee(s Session, e EmployeeRef) bool {
	switch s.Role {
	case RoleAdmin, RoleManager:
		return true
	case RoleEmployee:
		return e.ID == s.ActorID
	}
	return false
}

func canMutateEmployee(s Session, action Action) bool {
	switch s.Role {
	case RoleAdmin:
		return action == ActionCreate || action == ActionUpdate || action == ActionDelete
	case RoleManager, RoleEmployee:
		return false
	}
	return false
}
