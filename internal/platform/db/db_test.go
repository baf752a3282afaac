package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"

	"attendance-backend/internal/platform/db"
	"attendance-backend/internal/platform/db/dbtest"
)

func TestRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE x = ? AND y = ? LIMIT ?"
	if got := db.MySQL.Rebind(q); got != q {
		t.Fatalf("mysql rebind changed query: %s", got)
	}
	want := "SELECT a FROM t WHERE x = $1 AND y = $2 LIMIT $3"
	if got := db.Postgres.Rebind(q); got != want {
		t.Fatalf("postgres rebind=%s", got)
	}
}

func TestUpsertClause(t *testing.T) {
	keys := []string{"identity_id", "date"}
	cols := []string{"mark", "rectified"}

	got := db.MySQL.Upsert(keys, cols)
	if diff := cmp.Diff(" ON DUPLICATE KEY UPDATE mark = VALUES(mark), rectified = VALUES(rectified)", got); diff != "" {
		t.Fatalf("mysql upsert (-want +got):\n%s", diff)
	}
	got = db.SQLite.Upsert(keys, cols)
	want := " ON CONFLICT (identity_id, date) DO UPDATE SET mark = excluded.mark, rectified = excluded.rectified"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sqlite upsert (-want +got):\n%s", diff)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if !db.IsDuplicateKey(&mysql.MySQLError{Number: 1062}) {
		t.Fatalf("mysql 1062 should be duplicate")
	}
	if db.IsDuplicateKey(&mysql.MySQLError{Number: 1452}) {
		t.Fatalf("mysql 1452 is a FK error")
	}
	if !db.IsDuplicateKey(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("pg 23505 should be duplicate")
	}
	if db.IsDuplicateKey(errors.New("x")) || db.IsDuplicateKey(nil) {
		t.Fatalf("plain errors are not duplicates")
	}
}

func TestMigrateSQLiteIsIdempotent(t *testing.T) {
	h := dbtest.Open(t)
	ctx := context.Background()

	if err := h.Migrate(ctx); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var n int
	if err := h.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 applied migration, got %d", n)
	}
}

func TestSQLiteUniqueViolationIsDetected(t *testing.T) {
	h := dbtest.Open(t)
	ctx := context.Background()

	const q = `INSERT INTO identities (id, user_name, email, password_hash, created_at_ms) VALUES (?, ?, ?, 'h', 0)`
	if _, err := h.ExecContext(ctx, q, "01A", "alice", "alice@example.com"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := h.ExecContext(ctx, q, "01B", "alice", "other@example.com")
	if !db.IsDuplicateKey(err) {
		t.Fatalf("expected duplicate key, got %v", err)
	}
}

func TestRunInTxRollsBack(t *testing.T) {
	h := dbtest.Open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := h.RunInTx(ctx, nil, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO identities (id, user_name, email, password_hash, created_at_ms) VALUES ('01A', 'bob', 'bob@example.com', 'h', 0)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var n int
	if err := h.QueryRowContext(ctx, "SELECT COUNT(*) FROM identities").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("rollback left %d rows", n)
	}
}
