package identity

import (
	"context"
	"errors"
	"strings"

	"attendance-backend/internal/audit"
	"attendance-backend/internal/domain"
	"attendance-backend/internal/platform/apierr"
	"attendance-backend/internal/platform/auth"
	"attendance-backend/internal/platform/db"
	"attendance-backend/internal/profile"
)

const msgInvalidCredentials = "invalid credentials"

type Service struct {
	db       *db.DB
	store    *Store
	profiles *profile.Store
	audit    *audit.Store
	issuer   *auth.Issuer
	clock    domain.Clock
	id       IDGen
}

func NewService(d *db.DB, iss *auth.Issuer, clock domain.Clock) *Service {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Service{
		db:       d,
		store:    NewStore(d),
		profiles: profile.NewStore(d),
		audit:    audit.NewStore(d),
		issuer:   iss,
		clock:    clock,
		id:       ulidGen{},
	}
}

// Directory exposes the store for RequireAuth.
func (s *Service) Directory() auth.Directory { return s.store }

// POST /signup
// identity・profile・監査ログを1トランザクションで作る
func (s *Service) Signup(ctx context.Context, in SignupRequest) (SignupResponse, error) {
	userName := normalizeUserName(in.UserName)
	email := normalizeEmail(in.Email)
	if userName == "" || email == "" {
		return SignupResponse{}, apierr.Invalid("userName and email are required")
	}
	// signin はどちらでも引けるので、ユーザー名がメールアドレスに見えてはいけない
	if strings.Contains(userName, "@") {
		return SignupResponse{}, apierr.Invalid("userName must not contain @")
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return SignupResponse{}, apierr.Invalid("password must be at most 72 bytes")
	}

	role := domain.RoleEmployee
	if v := strings.TrimSpace(in.Role); v != "" {
		r, err := domain.ParseRole(v)
		if err != nil {
			return SignupResponse{}, apierr.Invalid("role must be employee, manager or admin")
		}
		role = r
	}
	dept := strings.TrimSpace(in.Department)
	if dept == "" {
		dept = domain.DefaultDepartment
	}

	hash, err := auth.HashPassword(in.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return SignupResponse{}, apierr.Invalid("password must be at most 72 bytes")
	}
	if err != nil {
		return SignupResponse{}, err
	}

	now := s.clock.Now()
	id, err := s.id.New(now)
	if err != nil {
		return SignupResponse{}, err
	}

	ident := Identity{ID: id, UserName: userName, Email: email, PasswordHash: hash, CreatedAt: now}
	prof := profile.Profile{IdentityID: id, Role: role, Department: dept, CreatedAt: now, UpdatedAt: now}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.WithTx(tx)
		taken, err := st.Taken(ctx, userName, email)
		if err != nil {
			return err
		}
		if taken {
			return apierr.Conflict("user already exists")
		}
		if err := st.Insert(ctx, ident); err != nil {
			if db.IsDuplicateKey(err) {
				return apierr.Conflict("user already exists")
			}
			return err
		}
		if err := s.profiles.WithTx(tx).Insert(ctx, prof); err != nil {
			return err
		}
		return s.audit.WithTx(tx).Append(ctx, audit.Entry{
			IdentityID:  id,
			Action:      audit.ActionSignup,
			Role:        role.String(),
			Department:  dept,
			Description: "signed up as " + userName,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return SignupResponse{}, err
	}

	token, err := s.issuer.Issue(domain.Caller{
		IdentityID: id,
		UserName:   userName,
		Email:      email,
		Role:       role,
		Department: dept,
	})
	if err != nil {
		return SignupResponse{}, err
	}
	return SignupResponse{Message: "user created", Token: token, UserID: id}, nil
}

// POST /signin
// 未登録と不一致は区別しない
func (s *Service) Signin(ctx context.Context, in SigninRequest) (SigninResponse, error) {
	ident, err := s.store.FindByIdentifier(ctx, in.Identifier)
	if errors.Is(err, ErrNotFound) {
		auth.BurnCompare(in.Password)
		return SigninResponse{}, apierr.Unauthenticated(msgInvalidCredentials)
	}
	if err != nil {
		return SigninResponse{}, err
	}
	if !auth.CheckPassword(ident.PasswordHash, in.Password) {
		return SigninResponse{}, apierr.Unauthenticated(msgInvalidCredentials)
	}

	caller, err := s.store.Caller(ctx, ident.ID)
	if errors.Is(err, auth.ErrUnknownSubject) {
		return SigninResponse{}, apierr.Unauthenticated(msgInvalidCredentials)
	}
	if err != nil {
		return SigninResponse{}, err
	}

	token, err := s.issuer.Issue(caller)
	if err != nil {
		return SigninResponse{}, err
	}
	return SigninResponse{Message: "signed in", Token: token}, nil
}
