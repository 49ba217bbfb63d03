// Package status holds the lifecycle enums shared by projects, tasks and
// equipment requests.
package status

import "strings"

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "Planning"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectCompleted  ProjectStatus = "Completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectCompleted:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskToDo       TaskStatus = "To Do"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskToDo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestApproved RequestStatus = "Approved"
	RequestRejected RequestStatus = "Rejected"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// ParseProject accepts the canonical label in any case.
func ParseProject(v string) (ProjectStatus, bool) {
	for _, s := range []ProjectStatus{ProjectPlanning, ProjectInProgress, ProjectCompleted} {
		if strings.EqualFold(strings.TrimSpace(v), string(s)) {
			return s, true
		}
	}
	return "", false
}

func ParseTask(v string) (TaskStatus, bool) {
	for _, s := range []TaskStatus{TaskToDo, TaskInProgress, TaskDone} {
		if strings.EqualFold(strings.TrimSpace(v), string(s)) {
			return s, true
		}
	}
	return "", false
}

func ParseRequest(v string) (RequestStatus, bool) {
	for _, s := range []RequestStatus{RequestPending, RequestApproved, RequestRejected} {
		if strings.EqualFold(strings.TrimSpace(v), string(s)) {
			return s, true
		}
	}
	return "", false
}
