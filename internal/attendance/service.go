package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"attendance-backend/internal/audit"
	"attendance-backend/internal/domain"
	"attendance-backend/internal/platform/apierr"
	"attendance-backend/internal/platform/db"
	"attendance-backend/internal/policy"
	"attendance-backend/internal/profile"
)

// RequestConsumer removes the pending rectification request for (identityID, date)
// inside the correction transaction. It reports whether a request existed.
type RequestConsumer interface {
	ConsumeTx(ctx context.Context, tx db.DBTX, identityID, date string) (bool, error)
}

type Service struct {
	db       *db.DB
	store    *Store
	profiles *profile.Store
	audit    *audit.Store
	requests RequestConsumer
	clock    domain.Clock
}

func NewService(d *db.DB, clock domain.Clock, requests RequestConsumer) *Service {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Service{
		db:       d,
		store:    NewStore(d),
		profiles: profile.NewStore(d),
		audit:    audit.NewStore(d),
		requests: requests,
		clock:    clock,
	}
}

// POST /attendance/mark
// 当日分は1回だけ。修正は PUT /attendance/edit か申請経由
func (s *Service) Mark(ctx context.Context, caller domain.Caller, in MarkRequest) (MarkResponse, error) {
	if !policy.CanMark(caller) {
		return MarkResponse{}, apierr.Forbidden("role " + caller.Role.String() + " cannot mark attendance")
	}
	mark, err := domain.ParseMark(in.Attendance)
	if err != nil {
		return MarkResponse{}, apierr.Invalid("attendance must be present or absent")
	}

	now := s.clock.Now()
	rec := Record{
		IdentityID: caller.IdentityID,
		Date:       domain.Today(s.clock),
		Department: caller.Department,
		Role:       caller.Role,
		Mark:       mark,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.WithTx(tx)
		_, err := st.Get(ctx, rec.IdentityID, rec.Date)
		if err == nil {
			return apierr.Conflict("attendance already marked for today")
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := st.Insert(ctx, rec); err != nil {
			if db.IsDuplicateKey(err) {
				return apierr.Conflict("attendance already marked for today")
			}
			return err
		}
		return s.audit.WithTx(tx).Append(ctx, audit.Entry{
			IdentityID:  caller.IdentityID,
			Action:      audit.ActionAttendanceMark,
			Role:        caller.Role.String(),
			Department:  caller.Department,
			Description: fmt.Sprintf("marked %s for %s", mark, rec.Date),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return MarkResponse{}, err
	}
	return MarkResponse{Message: "attendance marked", Attendance: mark.String(), Date: rec.Date}, nil
}

// PUT /attendance/edit
// 記録を上書き（なければ作成）し、同じ日の申請があれば消化する
func (s *Service) Correct(ctx context.Context, caller domain.Caller, in EditRequest) (RecordResponse, error) {
	targetID := strings.TrimSpace(in.TargetUserID)
	if targetID == "" {
		return RecordResponse{}, apierr.Invalid("targetUserId is required")
	}
	date, err := domain.ParseDate(s.clock, in.Date)
	if err != nil {
		return RecordResponse{}, apierr.Invalid("date must be YYYY-MM-DD")
	}
	mark, err := domain.ParseMark(in.Attendance)
	if err != nil {
		return RecordResponse{}, apierr.Invalid("attendance must be present or absent")
	}

	now := s.clock.Now()
	var out Record
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx db.DBTX) error {
		target, err := s.profiles.WithTx(tx).Get(ctx, targetID)
		if errors.Is(err, profile.ErrNotFound) {
			return apierr.NotFound("target user not found")
		}
		if err != nil {
			return err
		}
		subject := policy.Subject{IdentityID: targetID, Role: target.Role, Department: target.Department}
		if !policy.CanCorrect(caller, subject) {
			return apierr.Forbidden("not allowed to correct attendance of this user")
		}

		st := s.store.WithTx(tx)
		err = st.Upsert(ctx, Record{
			IdentityID: targetID,
			Date:       date,
			Department: target.Department,
			Role:       target.Role,
			Mark:       mark,
			Rectified:  true,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}
		if out, err = st.Get(ctx, targetID, date); err != nil {
			return err
		}

		consumed, err := s.requests.ConsumeTx(ctx, tx, targetID, date)
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("set %s on %s to %s", targetID, date, mark)
		if consumed {
			desc += " (rectification request consumed)"
		}
		return s.audit.WithTx(tx).Append(ctx, audit.Entry{
			IdentityID:  caller.IdentityID,
			Action:      audit.ActionAttendanceCorrect,
			Role:        caller.Role.String(),
			Department:  caller.Department,
			Description: desc,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return RecordResponse{}, err
	}
	return out.toDTO(), nil
}

// GET /dashboard?date=
// employee は日付を無視して自分の全履歴
func (s *Service) Dashboard(ctx context.Context, caller domain.Caller, dateStr string) (DashboardResponse, error) {
	date, err := s.resolveDate(dateStr)
	if err != nil {
		return DashboardResponse{}, err
	}
	f := ListFilter{Scope: policy.ReadScope(caller), Date: date}
	if f.Scope.IdentityID != "" {
		f.Date = ""
	}

	rows, err := s.store.List(ctx, f)
	if err != nil {
		return DashboardResponse{}, err
	}
	out := make([]RecordResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		out = append(out, rows[i].toDTO())
	}
	return DashboardResponse{Date: date, Data: out}, nil
}

func (s *Service) resolveDate(v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return domain.Today(s.clock), nil
	}
	d, err := domain.ParseDate(s.clock, v)
	if err != nil {
		return "", apierr.Invalid("date must be YYYY-MM-DD")
	}
	return d, nil
}
