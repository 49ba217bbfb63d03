package access_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-admin/internal/access"
)

func TestAccess(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Access Suite")
}

var _ = Describe("Access policy", func() {
	var (
		admin    = access.Session{ActorID: 1, Role: access.RoleAdmin}
		manager  = access.Session{ActorID: 2, Role: access.RoleManager}
		other    = access.Session{ActorID: 3, Role: access.RoleManager}
		employee = access.Session{ActorID: 10, Role: access.RoleEmployee}
		outsider = access.Session{ActorID: 11, Role: access.RoleEmployee}
		project  access.ProjectRef
	)

	BeforeEach(func() {
		project = access.ProjectRef{ID: 100, ManagerID: 2, TeamMembers: []int64{10, 12}}
	})

	Describe("ParseRole", func() {
		It("normalizes case and whitespace", func() {
			role, err := access.ParseRole("  Manager ")
			Expect(err).NotTo(HaveOccurred())
			Expect(role).To(Equal(access.RoleManager))
		})

		It("rejects unknown roles", func() {
			_, err := access.ParseRole("superuser")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("projects", func() {
		It("lets admin see and mutate everything", func() {
			Expect(access.CanView(admin, project)).To(BeTrue())
			Expect(access.CanMutate(admin, project, access.ActionDelete)).To(BeTrue())
			Expect(access.CanMutate(admin, project, access.ActionCreate)).To(BeTrue())
		})

		It("scopes managers to the projects they manage", func() {
			Expect(access.CanView(manager, project)).To(BeTrue())
			Expect(access.CanMutate(manager, project, access.ActionUpdate)).To(BeTrue())
			Expect(access.CanMutate(manager, project, access.ActionDelete)).To(BeFalse())
			Expect(access.CanView(other, project)).To(BeFalse())
			Expect(access.CanMutate(other, project, access.ActionUpdate)).To(BeFalse())
		})

		It("only shows a project to employees listed as team members", func() {
			Expect(access.CanView(employee, project)).To(BeTrue())
			Expect(access.CanView(outsider, project)).To(BeFalse())
			Expect(access.CanMutate(employee, project, access.ActionUpdate)).To(BeFalse())
		})

		It("filters project lists per role", func() {
			projects := []access.ProjectRef{
				project,
				{ID: 101, ManagerID: 3, TeamMembers: []int64{11}},
			}
			ref := func(p access.ProjectRef) access.Entity { return p }

			Expect(access.Visible(admin, projects, ref)).To(HaveLen(2))
			Expect(access.Visible(manager, projects, ref)).To(ConsistOf(project))
			Expect(access.Visible(outsider, projects, ref)).To(ConsistOf(projects[1]))
			Expect(access.Visible(access.Session{ActorID: 99, Role: access.RoleEmployee}, projects, ref)).To(BeEmpty())
		})
	})

	Describe("tasks", func() {
		It("lets an assigned employee change only the status", func() {
			task := access.TaskRef{ID: 1, Project: project, AssignedTo: 10}
			Expect(access.CanView(employee, task)).To(BeTrue())
			Expect(access.CanMutate(employee, task, access.ActionUpdateStatus)).To(BeTrue())
			Expect(access.CanMutate(employee, task, access.ActionUpdate)).To(BeFalse())
			Expect(access.CanMutate(employee, task, access.ActionDelete)).To(BeFalse())
		})

		It("hides tasks assigned to someone else from employees", func() {
			task := access.TaskRef{ID: 1, Project: project, AssignedTo: 12}
			Expect(access.CanView(employee, task)).To(BeFalse())
			Expect(access.CanMutate(employee, task, access.ActionUpdateStatus)).To(BeFalse())
		})

		It("lets the project manager do anything to project tasks", func() {
			task := access.TaskRef{ID: 1, Project: project, AssignedTo: 12}
			Expect(access.CanMutate(manager, task, access.ActionCreate)).To(BeTrue())
			Expect(access.CanMutate(manager, task, access.ActionDelete)).To(BeTrue())
			Expect(access.CanMutate(other, task, access.ActionCreate)).To(BeFalse())
		})
	})

	Describe("teams", func() {
		It("follows project ownership", func() {
			team := access.TeamRef{Project: project}
			Expect(access.CanMutate(manager, team, access.ActionCreate)).To(BeTrue())
			Expect(access.CanMutate(other, team, access.ActionCreate)).To(BeFalse())
			Expect(access.CanMutate(employee, team, access.ActionCreate)).To(BeFalse())
			Expect(access.CanView(employee, team)).To(BeTrue())
		})
	})

	Describe("requests", func() {
		It("lets team members submit against their project only", func() {
			Expect(access.CanMutate(employee, access.RequestRef{EmployeeID: 10, Project: project}, access.ActionCreate)).To(BeTrue())
			Expect(access.CanMutate(outsider, access.RequestRef{EmployeeID: 11, Project: project}, access.ActionCreate)).To(BeFalse())
		})

		It("refuses submitting on behalf of someone else", func() {
			Expect(access.CanMutate(employee, access.RequestRef{EmployeeID: 12, Project: project}, access.ActionCreate)).To(BeFalse())
		})

		It("lets managers submit against projects they manage", func() {
			Expect(access.CanMutate(manager, access.RequestRef{EmployeeID: 2, Project: project}, access.ActionCreate)).To(BeTrue())
			Expect(access.CanMutate(other, access.RequestRef{EmployeeID: 3, Project: project}, access.ActionCreate)).To(BeFalse())
		})

		It("forbids self approval even for the project manager", func() {
			own := access.RequestRef{ID: 1, EmployeeID: 2, Project: project}
			Expect(access.CanView(manager, own)).To(BeTrue())
			Expect(access.CanMutate(manager, own, access.ActionRespond)).To(BeFalse())
		})

		It("lets the project manager respond to team requests", func() {
			req := access.RequestRef{ID: 1, EmployeeID: 10, Project: project}
			Expect(access.CanView(manager, req)).To(BeTrue())
			Expect(access.CanMutate(manager, req, access.ActionRespond)).To(BeTrue())
			Expect(access.CanView(other, req)).To(BeFalse())
			Expect(access.CanMutate(other, req, access.ActionRespond)).To(BeFalse())
		})

		It("restricts employees to their own requests", func() {
			mine := access.RequestRef{ID: 1, EmployeeID: 10, Project: project}
			theirs := access.RequestRef{ID: 2, EmployeeID: 12, Project: project}
			Expect(access.CanView(employee, mine)).To(BeTrue())
			Expect(access.CanView(employee, theirs)).To(BeFalse())
			Expect(access.CanMutate(employee, mine, access.ActionRespond)).To(BeFalse())
		})

		It("only lets admin delete", func() {
			req := access.RequestRef{ID: 1, EmployeeID: 10, Project: project}
			Expect(access.CanMutate(admin, req, access.ActionDelete)).To(BeTrue())
			Expect(access.CanMutate(manager, req, access.ActionDelete)).To(BeFalse())
			Expect(access.CanMutate(employee, req, access.ActionDelete)).To(BeFalse())
		})
	})

	Describe("employees", func() {
		It("gives managers read-only global visibility", func() {
			e := access.EmployeeRef{ID: 10, Role: access.RoleEmployee, Active: true}
			Expect(access.CanView(manager, e)).To(BeTrue())
			Expect(access.CanMutate(manager, e, access.ActionUpdate)).To(BeFalse())
			Expect(access.CanMutate(admin, e, access.ActionUpdate)).To(BeTrue())
		})

		It("shows employees only their own record", func() {
			Expect(access.CanView(employee, access.EmployeeRef{ID: 10})).To(BeTrue())
			Expect(access.CanView(employee, access.EmployeeRef{ID: 12})).To(BeFalse())
		})

		It("excludes deactivated people and other roles from pickers", func() {
			people := []access.EmployeeRef{
				{ID: 10, Role: access.RoleEmployee, Active: true},
				{ID: 11, Role: access.RoleEmployee, Active: false},
				{ID: 2, Role: access.RoleManager, Active: true},
				{ID: 4, Role: access.RoleManager, Active: false},
			}
			id := func(e access.EmployeeRef) access.EmployeeRef { return e }

			Expect(access.AssignableEmployees(people, id)).To(ConsistOf(people[0]))
			Expect(access.AssignableManagers(people, id)).To(ConsistOf(people[2]))
		})
	})

	It("denies everything to an invalid session", func() {
		Expect(access.CanView(access.Session{}, project)).To(BeFalse())
		Expect(access.CanMutate(access.Session{ActorID: 1}, project, access.ActionUpdate)).To(BeFalse())
	})
})
