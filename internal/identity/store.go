package identity

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"attendance-backend/internal/domain"
	"attendance-backend/internal/platform/auth"
	"attendance-backend/internal/platform/db"
)

var ErrNotFound = errors.New("identity not found")

type Store struct {
	db      db.DBTX
	dialect db.Dialect
}

func NewStore(d *db.DB) *Store { return &Store{db: d, dialect: d.Dialect} }

func (s *Store) WithTx(tx db.DBTX) *Store { return &Store{db: tx, dialect: s.dialect} }

// Taken reports whether userName or email is already registered under
// either column. signin resolves both, so the two namespaces must not overlap.
func (s *Store) Taken(ctx context.Context, userName, email string) (bool, error) {
	const q = `SELECT COUNT(*) FROM identities WHERE user_name IN (?, ?) OR email IN (?, ?)`
	var n int
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(q),
		userName, email, normalizeEmail(userName), email,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Insert は重複時に db.IsDuplicateKey なエラーを返す。
func (s *Store) Insert(ctx context.Context, i Identity) error {
	const q = `
	INSERT INTO identities (id, user_name, email, password_hash, created_at_ms)
	VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(q),
		i.ID, i.UserName, i.Email, i.PasswordHash, i.CreatedAt.UTC().UnixMilli())
	return err
}

// FindByIdentifier は @ を含めばメールアドレスを優先し、それ以外はユーザー名を優先する。
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	first, second := s.byUserName, s.byEmail
	if strings.Contains(identifier, "@") {
		first, second = s.byEmail, s.byUserName
	}
	i, err := first(ctx, identifier)
	if !errors.Is(err, ErrNotFound) {
		return i, err
	}
	return second(ctx, identifier)
}

func (s *Store) byUserName(ctx context.Context, v string) (Identity, error) {
	return s.findBy(ctx, "user_name", normalizeUserName(v))
}

func (s *Store) byEmail(ctx context.Context, v string) (Identity, error) {
	return s.findBy(ctx, "email", normalizeEmail(v))
}

// col は呼び出し側の定数のみ
func (s *Store) findBy(ctx context.Context, col, v string) (Identity, error) {
	q := `SELECT id, user_name, email, password_hash, created_at_ms FROM identities WHERE ` + col + ` = ? LIMIT 1`
	var (
		i  Identity
		ms int64
	)
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(q), v).Scan(&i.ID, &i.UserName, &i.Email, &i.PasswordHash, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, ErrNotFound
	}
	if err != nil {
		return Identity{}, err
	}
	i.CreatedAt = time.UnixMilli(ms).UTC()
	return i, nil
}

// Caller implements auth.Directory.
func (s *Store) Caller(ctx context.Context, identityID string) (domain.Caller, error) {
	const q = `
	SELECT i.id, i.user_name, i.email, p.role, p.department
	FROM identities i
	JOIN profiles p ON p.identity_id = i.id
	WHERE i.id = ?`
	var (
		c    domain.Caller
		role string
	)
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(q), identityID).Scan(
		&c.IdentityID, &c.UserName, &c.Email, &role, &c.Department,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Caller{}, auth.ErrUnknownSubject
	}
	if err != nil {
		return domain.Caller{}, err
	}
	if c.Role, err = domain.ParseRole(role); err != nil {
		return domain.Caller{}, err
	}
	return c, nil
}

var _ auth.Directory = (*Store)(nil)
