package rectification

import (
	"time"

	"attendance-backend/internal/domain"
)

// Request は未処理の修正申請。承認時に削除される。
type Request struct {
	ID         int64
	IdentityID string
	Date       string
	Department string
	Role       domain.Role
	Current    domain.Mark
	Proposed   domain.Mark
	CreatedAt  time.Time
}

type requestRow struct {
	ID         int64
	IdentityID string
	Date       string
	Department string
	Role       string
	Current    string
	Proposed   string
	CreatedMs  int64
}

func (r requestRow) toModel() (Request, error) {
	role, err := domain.ParseRole(r.Role)
	if err != nil {
		return Request{}, err
	}
	cur, err := domain.ParseMark(r.Current)
	if err != nil {
		return Request{}, err
	}
	prop, err := domain.ParseMark(r.Proposed)
	if err != nil {
		return Request{}, err
	}
	return Request{
		ID:         r.ID,
		IdentityID: r.IdentityID,
		Date:       r.Date,
		Department: r.Department,
		Role:       role,
		Current:    cur,
		Proposed:   prop,
		CreatedAt:  time.UnixMilli(r.CreatedMs).UTC(),
	}, nil
}

func (r Request) toDTO() RequestResponse {
	return RequestResponse{
		UserID:        r.IdentityID,
		Date:          r.Date,
		Department:    r.Department,
		Role:          r.Role.String(),
		Attendance:    r.Current.String(),
		Rectification: r.Proposed.String(),
		CreatedAt:     r.CreatedAt,
	}
}
