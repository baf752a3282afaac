package attendance

import (
	"time"

	"attendance-backend/internal/domain"
)

// Record は (identity, date) につき1行。
type Record struct {
	ID         int64
	IdentityID string
	Date       string // YYYY-MM-DD
	Department string
	Role       domain.Role
	Mark       domain.Mark
	Rectified  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DB行に対応（スキャン用）
type recordRow struct {
	ID         int64
	IdentityID string
	Date       string
	Department string
	Role       string
	Mark       string
	Rectified  bool
	CreatedMs  int64
	UpdatedMs  int64
}

func (r recordRow) toModel() (Record, error) {
	role, err := domain.ParseRole(r.Role)
	if err != nil {
		return Record{}, err
	}
	mark, err := domain.ParseMark(r.Mark)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:         r.ID,
		IdentityID: r.IdentityID,
		Date:       r.Date,
		Department: r.Department,
		Role:       role,
		Mark:       mark,
		Rectified:  r.Rectified,
		CreatedAt:  time.UnixMilli(r.CreatedMs).UTC(),
		UpdatedAt:  time.UnixMilli(r.UpdatedMs).UTC(),
	}, nil
}

func (r Record) toDTO() RecordResponse {
	return RecordResponse{
		UserID:     r.IdentityID,
		Date:       r.Date,
		Department: r.Department,
		Role:       r.Role.String(),
		Attendance: r.Mark.String(),
		Rectified:  r.Rectified,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
