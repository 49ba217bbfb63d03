package access

// Visible keeps the items s may view. ref maps an item to its entity view.
func Visible[T any](s Session, items []T, ref func(T) Entity) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if CanView(s, ref(item)) {
			out = append(out, item)
		}
	}
	return out
}

// AssignableEmployees keeps active employees with the employee role, the
// candidates offered when adding team members or assigning tasks.
func AssignableEmployees[T any](items []T, ref func(T) EmployeeRef) []T {
	return assignable(items, ref, RoleEmployee)
}

// AssignableManagers keeps active employees with the manager role.
func AssignableManagers[T any](items []T, ref func(T) EmployeeRef) []T {
	return assignable(items, ref, RoleManager)
}

func assignable[T any](items []T, ref func(T) EmployeeRef, role Role) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		e := ref(item)
		if e.Active && e.Role == role {
			out = append(out, item)
		}
	}
	return out
}
