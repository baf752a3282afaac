package rectification

import (
	"context"
	"errors"
	"fmt"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/audit"
	"attendance-backend/internal/domain"
	"attendance-backend/internal/platform/apierr"
	"attendance-backend/internal/platform/db"
	"attendance-backend/internal/policy"
)

type Service struct {
	db      *db.DB
	store   *Store
	records *attendance.Store
	audit   *audit.Store
	clock   domain.Clock
}

func NewService(d *db.DB, clock domain.Clock) *Service {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Service{
		db:      d,
		store:   NewStore(d),
		records: attendance.NewStore(d),
		audit:   audit.NewStore(d),
		clock:   clock,
	}
}

// Consumer is handed to attendance.NewService.
func (s *Service) Consumer() attendance.RequestConsumer { return s.store }

// POST /rectification/:id
// チェック順: 本人 → 日付 → 申請重複(409) → 記録なし(404)
func (s *Service) Create(ctx context.Context, caller domain.Caller, targetID string, in CreateRequest) (RequestResponse, error) {
	if !policy.CanRequestRectification(caller, targetID) {
		return RequestResponse{}, apierr.Forbidden("rectification can only be requested for your own attendance")
	}
	date, err := domain.ParseDate(s.clock, in.Date)
	if err != nil {
		return RequestResponse{}, apierr.Invalid("date must be YYYY-MM-DD")
	}

	var out Request
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.WithTx(tx)
		_, err := st.Get(ctx, caller.IdentityID, date)
		if err == nil {
			return apierr.Conflict("rectification already requested for " + date)
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		rec, err := s.records.WithTx(tx).Get(ctx, caller.IdentityID, date)
		if errors.Is(err, attendance.ErrNotFound) {
			return apierr.NotFound("no attendance record for " + date)
		}
		if err != nil {
			return err
		}

		out = Request{
			IdentityID: caller.IdentityID,
			Date:       date,
			Department: caller.Department,
			Role:       caller.Role,
			Current:    rec.Mark,
			Proposed:   rec.Mark.Negate(),
			CreatedAt:  s.clock.Now(),
		}
		if err := st.Insert(ctx, out); err != nil {
			if db.IsDuplicateKey(err) {
				return apierr.Conflict("rectification already requested for " + date)
			}
			return err
		}
		return s.audit.WithTx(tx).Append(ctx, audit.Entry{
			IdentityID:  caller.IdentityID,
			Action:      audit.ActionRectificationRequest,
			Role:        caller.Role.String(),
			Department:  caller.Department,
			Description: fmt.Sprintf("requested %s -> %s for %s", out.Current, out.Proposed, date),
			CreatedAt:   out.CreatedAt,
		})
	})
	if err != nil {
		return RequestResponse{}, err
	}
	return out.toDTO(), nil
}

// GET /rectifications
func (s *Service) List(ctx context.Context, caller domain.Caller) ([]RequestResponse, error) {
	rows, err := s.store.List(ctx, policy.ReadScope(caller))
	if err != nil {
		return nil, err
	}
	out := make([]RequestResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		out = append(out, rows[i].toDTO())
	}
	return out, nil
}
