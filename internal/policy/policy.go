// Package policy decides what a caller may see and change in the attendance ledger
// and the rectification queue. It performs no I/O.
package policy

import "attendance-backend/internal/domain"

// Subject is the owner of a row being read or written.
type Subject struct {
	IdentityID string
	Role       domain.Role
	Department string
}

// Scope restricts listings. Exactly one of All, Department or IdentityID applies.
type Scope struct {
	All        bool
	Department string
	IdentityID string
}

func ReadScope(c domain.Caller) Scope {
	switch c.Role {
	case domain.RoleAdmin:
		return Scope{All: true}
	case domain.RoleManager:
		return Scope{Department: c.Department}
	case domain.RoleEmployee:
		return Scope{IdentityID: c.IdentityID}
	}
	// 不正ロールは自分の行のみ（実際は認証ミドルウェアで弾かれる）
	return Scope{IdentityID: c.IdentityID}
}

func (s Scope) Allows(identityID, department string) bool {
	switch {
	case s.All:
		return true
	case s.IdentityID != "":
		return s.IdentityID == identityID
	default:
		return s.Department != "" && s.Department == department
	}
}

// CanMark reports whether the caller may self-mark attendance.
func CanMark(c domain.Caller) bool {
	switch c.Role {
	case domain.RoleEmployee, domain.RoleManager:
		return true
	case domain.RoleAdmin:
		return false
	}
	return false
}

func CanRequestRectification(c domain.Caller, targetID string) bool {
	return CanMark(c) && c.IdentityID == targetID
}

// CanCorrect reports whether the caller may write a corrected mark for target.
// A manager may only correct employees of their own department.
func CanCorrect(c domain.Caller, target Subject) bool {
	switch c.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleManager:
		return target.Role == domain.RoleEmployee &&
			c.Department != "" && c.Department == target.Department
	case domain.RoleEmployee:
		return false
	}
	return false
}
