package audit

import (
	"context"
	"time"

	"attendance-backend/internal/platform/db"
)

type Action string

const (
	ActionSignup               Action = "signup"
	ActionProfileCreate        Action = "profile.create"
	ActionProfileUpdate        Action = "profile.update"
	ActionAttendanceMark       Action = "attendance.mark"
	ActionAttendanceCorrect    Action = "attendance.correct"
	ActionRectificationRequest Action = "rectification.request"
)

// Entry は監査ログの1行。追記のみで更新・削除はしない。
type Entry struct {
	ID          int64
	IdentityID  string
	Action      Action
	Role        string
	Department  string
	Description string
	CreatedAt   time.Time
}

type Store struct {
	db      db.DBTX
	dialect db.Dialect
}

func NewStore(d *db.DB) *Store { return &Store{db: d, dialect: d.Dialect} }

// WithTx binds the store to tx so the entry commits with the mutation it describes.
func (s *Store) WithTx(tx db.DBTX) *Store { return &Store{db: tx, dialect: s.dialect} }

func (s *Store) Append(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	const q = `
	INSERT INTO audit_entries (identity_id, action, role, department, description, created_at_ms)
	VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(q),
		e.IdentityID, string(e.Action), e.Role, e.Department, e.Description, e.CreatedAt.UTC().UnixMilli())
	return err
}

// ListByIdentity returns entries oldest first. Used for traceability checks, not exposed over HTTP.
func (s *Store) ListByIdentity(ctx context.Context, identityID string) ([]Entry, error) {
	const q = `
	SELECT id, identity_id, action, role, department, description, created_at_ms
	FROM audit_entries
	WHERE identity_id = ?
	ORDER BY created_at_ms ASC, id ASC`
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(q), identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			action string
			ms     int64
		)
		if err := rows.Scan(&e.ID, &e.IdentityID, &action, &e.Role, &e.Department, &e.Description, &ms); err != nil {
			return nil, err
		}
		e.Action = Action(action)
		e.CreatedAt = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
