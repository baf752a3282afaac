package profile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"attendance-backend/internal/platform/db"
)

var ErrNotFound = errors.New("profile not found")

type Store struct {
	db      db.DBTX
	dialect db.Dialect
}

func NewStore(d *db.DB) *Store { return &Store{db: d, dialect: d.Dialect} }

func (s *Store) WithTx(tx db.DBTX) *Store { return &Store{db: tx, dialect: s.dialect} }

const selectProfile = `
	SELECT identity_id, role, department, contact, join_date, country, state, city, pin_code, created_at_ms, updated_at_ms
	FROM profiles`

func (s *Store) Get(ctx context.Context, identityID string) (Profile, error) {
	var r profileRow
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(selectProfile+` WHERE identity_id = ?`), identityID).Scan(
		&r.IdentityID, &r.Role, &r.Department, &r.Contact, &r.JoinDate,
		&r.Country, &r.State, &r.City, &r.PinCode, &r.CreatedMs, &r.UpdatedMs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	return r.toModel()
}

// Insert は重複時に db.IsDuplicateKey なエラーを返す。
func (s *Store) Insert(ctx context.Context, p Profile) error {
	const q = `
	INSERT INTO profiles
	(identity_id, role, department, contact, join_date, country, state, city, pin_code, created_at_ms, updated_at_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(q),
		p.IdentityID, p.Role.String(), p.Department, p.Contact, p.JoinDate,
		p.Address.Country, p.Address.State, p.Address.City, p.Address.PinCode,
		millis(p.CreatedAt), millis(p.UpdatedAt),
	)
	return err
}

func (s *Store) Update(ctx context.Context, p Profile) error {
	const q = `
	UPDATE profiles
	SET role = ?, department = ?, contact = ?, join_date = ?, country = ?, state = ?, city = ?, pin_code = ?, updated_at_ms = ?
	WHERE identity_id = ?`
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(q),
		p.Role.String(), p.Department, p.Contact, p.JoinDate,
		p.Address.Country, p.Address.State, p.Address.City, p.Address.PinCode,
		millis(p.UpdatedAt), p.IdentityID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) IdentityExists(ctx context.Context, identityID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`SELECT COUNT(*) FROM identities WHERE id = ?`), identityID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func millis(t time.Time) int64 { return t.UTC().UnixMilli() }
