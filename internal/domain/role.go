package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role は社員の権限区分。ゼロ値は無効。
type Role int

const (
	roleInvalid Role = iota
	RoleEmployee
	RoleManager
	RoleAdmin
)

const DefaultDepartment = "Unassigned"

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "employee":
		return RoleEmployee, nil
	case "manager":
		return RoleManager, nil
	case "admin":
		return RoleAdmin, nil
	}
	return roleInvalid, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return "employee"
	case RoleManager:
		return "manager"
	case RoleAdmin:
		return "admin"
	}
	return ""
}

func (r Role) Valid() bool { return r.String() != "" }

func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = v
	return nil
}
