package access

import (
	"fmt"
	"strings"
)

// Role is the closed set of actor roles. The zero value is not a role and
// is denied everything.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleManager
	RoleEmployee
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleManager:
		return "manager"
	case RoleEmployee:
		return "employee"
	}
	return "unknown"
}

// ParseRole normalizes a role read at a boundary (token claim, database row,
// request body). Comparison is case and whitespace insensitive.
func ParseRole(v string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "admin":
		return RoleAdmin, nil
	case "manager":
		return RoleManager, nil
	case "employee":
		return RoleEmployee, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", v)
}

func (r Role) MarshalText() ([]byte, error) {
	if r == RoleUnknown {
		return nil, fmt.Errorf("cannot marshal unknown role")
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Session is the identity every rule is evaluated against. It is passed
// explicitly into each service call.
type Session struct {
	ActorID int64
	Role    Role
}

func (s Session) Valid() bool {
	return s.ActorID > 0 && s.Role != RoleUnknown
}

func (s Session) IsAdmin() bool    { return s.Role == RoleAdmin }
func (s Session) IsManager() bool  { return s.Role == RoleManager }
func (s Session) IsEmployee() bool { return s.Role == RoleEmployee }
