package rectification

import (
	"bytes"
	"context"
	"database/sql"
	"errors"

	"attendance-backend/internal/platform/db"
	"attendance-backend/internal/policy"
)

var ErrNotFound = errors.New("rectification request not found")

type Store struct {
	db      db.DBTX
	dialect db.Dialect
}

func NewStore(d *db.DB) *Store { return &Store{db: d, dialect: d.Dialect} }

func (s *Store) WithTx(tx db.DBTX) *Store { return &Store{db: tx, dialect: s.dialect} }

const selectRequest = `
	SELECT id, identity_id, date, department, role, current_mark, proposed_mark, created_at_ms
	FROM rectification_requests`

func scanRequest(sc interface{ Scan(...any) error }) (Request, error) {
	var r requestRow
	if err := sc.Scan(&r.ID, &r.IdentityID, &r.Date, &r.Department, &r.Role, &r.Current, &r.Proposed, &r.CreatedMs); err != nil {
		return Request{}, err
	}
	return r.toModel()
}

func (s *Store) Get(ctx context.Context, identityID, date string) (Request, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(selectRequest+` WHERE identity_id = ? AND date = ?`), identityID, date)
	r, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return r, err
}

// Insert は (identity_id, date) の重複時に db.IsDuplicateKey なエラーを返す。
func (s *Store) Insert(ctx context.Context, r Request) error {
	const q = `
	INSERT INTO rectification_requests (identity_id, date, department, role, current_mark, proposed_mark, created_at_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(q),
		r.IdentityID, r.Date, r.Department, r.Role.String(), r.Current.String(), r.Proposed.String(),
		r.CreatedAt.UTC().UnixMilli(),
	)
	return err
}

// Delete reports whether a row was removed.
func (s *Store) Delete(ctx context.Context, identityID, date string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM rectification_requests WHERE identity_id = ? AND date = ?`), identityID, date)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ConsumeTx は承認トランザクションの中で申請を消す（attendance.RequestConsumer）。
func (s *Store) ConsumeTx(ctx context.Context, tx db.DBTX, identityID, date string) (bool, error) {
	return s.WithTx(tx).Delete(ctx, identityID, date)
}

// List は日付の新しい順。
func (s *Store) List(ctx context.Context, scope policy.Scope) ([]Request, error) {
	var (
		buf  bytes.Buffer
		args []any
	)
	buf.WriteString(selectRequest)
	switch {
	case scope.All:
	case scope.IdentityID != "":
		buf.WriteString(" WHERE identity_id = ?")
		args = append(args, scope.IdentityID)
	default:
		buf.WriteString(" WHERE department = ? AND department <> ''")
		args = append(args, scope.Department)
	}
	buf.WriteString(" ORDER BY date DESC, created_at_ms DESC, id DESC")

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(buf.String()), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Request{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
