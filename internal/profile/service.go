package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"attendance-backend/internal/audit"
	"attendance-backend/internal/domain"
	"attendance-backend/internal/platform/apierr"
	"attendance-backend/internal/platform/db"
)

type Service struct {
	db    *db.DB
	store *Store
	audit *audit.Store
	clock domain.Clock
}

func NewService(d *db.DB, clock domain.Clock) *Service {
	return &Service{db: d, store: NewStore(d), audit: audit.NewStore(d), clock: clock}
}

// GET /profile/:id
func (s *Service) Get(ctx context.Context, identityID string) (ProfileResponse, error) {
	p, err := s.store.Get(ctx, identityID)
	if errors.Is(err, ErrNotFound) {
		return ProfileResponse{}, apierr.NotFound("profile not found")
	}
	if err != nil {
		return ProfileResponse{}, err
	}
	return p.toDTO(), nil
}

// POST /profile/:id
func (s *Service) Create(ctx context.Context, identityID string, in ProfileRequest) (ProfileResponse, error) {
	p, err := s.fromRequest(identityID, in, Profile{Role: domain.RoleEmployee, Department: domain.DefaultDepartment})
	if err != nil {
		return ProfileResponse{}, err
	}
	now := s.clock.Now()
	p.CreatedAt, p.UpdatedAt = now, now

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.WithTx(tx)
		ok, err := st.IdentityExists(ctx, identityID)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.NotFound("user not found")
		}
		if err := st.Insert(ctx, p); err != nil {
			if db.IsDuplicateKey(err) {
				return apierr.Conflict("profile already exists")
			}
			return err
		}
		return s.audit.WithTx(tx).Append(ctx, audit.Entry{
			IdentityID:  identityID,
			Action:      audit.ActionProfileCreate,
			Role:        p.Role.String(),
			Department:  p.Department,
			Description: "profile created",
			CreatedAt:   now,
		})
	})
	if err != nil {
		return ProfileResponse{}, err
	}
	return p.toDTO(), nil
}

// PUT /profile/:id
func (s *Service) Update(ctx context.Context, identityID string, in ProfileRequest) (ProfileResponse, error) {
	var out Profile
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.WithTx(tx)
		cur, err := st.Get(ctx, identityID)
		if errors.Is(err, ErrNotFound) {
			return apierr.NotFound("profile not found")
		}
		if err != nil {
			return err
		}

		p, err := s.fromRequest(identityID, in, cur)
		if err != nil {
			return err
		}
		p.CreatedAt = cur.CreatedAt
		p.UpdatedAt = s.clock.Now()
		if err := st.Update(ctx, p); err != nil {
			return err
		}
		out = p
		return s.audit.WithTx(tx).Append(ctx, audit.Entry{
			IdentityID:  identityID,
			Action:      audit.ActionProfileUpdate,
			Role:        p.Role.String(),
			Department:  p.Department,
			Description: describeChange(cur, p),
			CreatedAt:   p.UpdatedAt,
		})
	})
	if err != nil {
		return ProfileResponse{}, err
	}
	return out.toDTO(), nil
}

// fromRequest は未指定の role / department を base から引き継ぐ。
func (s *Service) fromRequest(identityID string, in ProfileRequest, base Profile) (Profile, error) {
	if strings.TrimSpace(identityID) == "" {
		return Profile{}, apierr.Invalid("id is required")
	}
	p := Profile{
		IdentityID: identityID,
		Role:       base.Role,
		Department: base.Department,
		Contact:    strings.TrimSpace(in.Contact),
		Address: Address{
			Country: strings.TrimSpace(in.Country),
			State:   strings.TrimSpace(in.State),
			City:    strings.TrimSpace(in.City),
			PinCode: strings.TrimSpace(in.PinCode),
		},
	}
	if v := strings.TrimSpace(in.Role); v != "" {
		role, err := domain.ParseRole(v)
		if err != nil {
			return Profile{}, apierr.Invalid("role must be employee, manager or admin")
		}
		p.Role = role
	}
	if v := strings.TrimSpace(in.Department); v != "" {
		p.Department = v
	}
	if v := strings.TrimSpace(in.JoinDate); v != "" {
		d, err := domain.ParseDate(s.clock, v)
		if err != nil {
			return Profile{}, apierr.Invalid("joinDate must be YYYY-MM-DD")
		}
		p.JoinDate = d
	}
	return p, nil
}

func describeChange(before, after Profile) string {
	var parts []string
	if before.Role != after.Role {
		parts = append(parts, fmt.Sprintf("role %s -> %s", before.Role, after.Role))
	}
	if before.Department != after.Department {
		parts = append(parts, fmt.Sprintf("department %s -> %s", before.Department, after.Department))
	}
	if len(parts) == 0 {
		return "profile updated"
	}
	return "profile updated: " + strings.Join(parts, ", ")
}
