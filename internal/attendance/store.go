package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"attendance-backend/internal/platform/db"
	"attendance-backend/internal/policy"
)

var ErrNotFound = errors.New("attendance record not found")

type Store struct {
	db      db.DBTX
	dialect db.Dialect
}

func NewStore(d *db.DB) *Store { return &Store{db: d, dialect: d.Dialect} }

func (s *Store) WithTx(tx db.DBTX) *Store { return &Store{db: tx, dialect: s.dialect} }

const selectRecord = `
	SELECT id, identity_id, date, department, role, mark, rectified, created_at_ms, updated_at_ms
	FROM attendance_records`

func (s *Store) Get(ctx context.Context, identityID, date string) (Record, error) {
	var r recordRow
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(selectRecord+` WHERE identity_id = ? AND date = ?`), identityID, date).Scan(
		&r.ID, &r.IdentityID, &r.Date, &r.Department, &r.Role, &r.Mark, &r.Rectified, &r.CreatedMs, &r.UpdatedMs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return r.toModel()
}

// Insert は (identity_id, date) の重複時に db.IsDuplicateKey なエラーを返す。
func (s *Store) Insert(ctx context.Context, r Record) error {
	const q = `
	INSERT INTO attendance_records (identity_id, date, department, role, mark, rectified, created_at_ms, updated_at_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(q),
		r.IdentityID, r.Date, r.Department, r.Role.String(), r.Mark.String(), r.Rectified,
		millis(r.CreatedAt), millis(r.UpdatedAt),
	)
	return err
}

// Upsert: 既存行は mark / rectified / updated_at のみ更新し、部署・ロールは記録時のまま残す。
// 行がなければ r の内容で作る（バックフィル）
func (s *Store) Upsert(ctx context.Context, r Record) error {
	q := `
	INSERT INTO attendance_records (identity_id, date, department, role, mark, rectified, created_at_ms, updated_at_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)` +
		s.dialect.Upsert([]string{"identity_id", "date"}, []string{"mark", "rectified", "updated_at_ms"})
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(q),
		r.IdentityID, r.Date, r.Department, r.Role.String(), r.Mark.String(), r.Rectified,
		millis(r.CreatedAt), millis(r.UpdatedAt),
	)
	return err
}

type ListFilter struct {
	Scope policy.Scope
	Date  string // 空なら全日付
}

// List は日付の新しい順、同日内は identity_id 順。
func (s *Store) List(ctx context.Context, f ListFilter) ([]Record, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)
	buf.WriteString(selectRecord)

	switch {
	case f.Scope.All:
	case f.Scope.IdentityID != "":
		wheres = append(wheres, "identity_id = ?")
		args = append(args, f.Scope.IdentityID)
	default:
		// 部署が空のマネージャーは何も見えない
		wheres = append(wheres, "department = ? AND department <> ''")
		args = append(args, f.Scope.Department)
	}
	if f.Date != "" {
		wheres = append(wheres, "date = ?")
		args = append(args, f.Date)
	}
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	buf.WriteString(" ORDER BY date DESC, identity_id ASC")

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(buf.String()), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var r recordRow
		if err := rows.Scan(&r.ID, &r.IdentityID, &r.Date, &r.Department, &r.Role, &r.Mark, &r.Rectified, &r.CreatedMs, &r.UpdatedMs); err != nil {
			return nil, err
		}
		m, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func millis(t time.Time) int64 { return t.UTC().UnixMilli() }
