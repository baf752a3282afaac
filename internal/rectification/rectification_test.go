package rectification_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/domain"
	"attendance-backend/internal/platform/apierr"
	"attendance-backend/internal/platform/auth"
	"attendance-backend/internal/platform/db"
	"attendance-backend/internal/platform/db/dbtest"
	"attendance-backend/internal/rectification"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var now = time.Date(2026, 6, 3, 10, 0, 0, 0, time.UTC)

var (
	itEmp  = domain.Caller{IdentityID: "01E1", UserName: "e1", Role: domain.RoleEmployee, Department: "IT"}
	itEmp2 = domain.Caller{IdentityID: "01E2", UserName: "e2", Role: domain.RoleEmployee, Department: "IT"}
	hrEmp  = domain.Caller{IdentityID: "01E3", UserName: "e3", Role: domain.RoleEmployee, Department: "HR"}
	itMgr  = domain.Caller{IdentityID: "01M1", UserName: "m1", Role: domain.RoleManager, Department: "IT"}
	admin  = domain.Caller{IdentityID: "01A1", UserName: "a1", Role: domain.RoleAdmin, Department: "Ops"}
)

func setup(t *testing.T) (*db.DB, *rectification.Service) {
	t.Helper()
	h := dbtest.Open(t)
	ctx := context.Background()
	for _, c := range []domain.Caller{itEmp, itEmp2, hrEmp, itMgr, admin} {
		if _, err := h.ExecContext(ctx,
			`INSERT INTO identities (id, user_name, email, password_hash, created_at_ms) VALUES (?, ?, ?, 'x', 0)`,
			c.IdentityID, c.UserName, c.UserName+"@example.com"); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return h, rectification.NewService(h, fixedClock{now})
}

func mark(t *testing.T, h *db.DB, c domain.Caller, date string, m domain.Mark) {
	t.Helper()
	err := attendance.NewStore(h).Insert(context.Background(), attendance.Record{
		IdentityID: c.IdentityID, Date: date, Department: c.Department, Role: c.Role, Mark: m, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Insert record: %v", err)
	}
}

func TestProposedIsNegationOfCurrent(t *testing.T) {
	h, svc := setup(t)
	ctx := context.Background()
	mark(t, h, itEmp, "2026-06-01", domain.MarkPresent)
	mark(t, h, itEmp, "2026-06-02", domain.MarkAbsent)

	for date, want := range map[string][2]string{
		"2026-06-01": {"present", "absent"},
		"2026-06-02": {"absent", "present"},
	} {
		got, err := svc.Create(ctx, itEmp, itEmp.IdentityID, rectification.CreateRequest{Date: date})
		if err != nil {
			t.Fatalf("Create(%s): %v", date, err)
		}
		if got.Attendance != want[0] || got.Rectification != want[1] {
			t.Fatalf("Create(%s) = %s -> %s, want %s -> %s", date, got.Attendance, got.Rectification, want[0], want[1])
		}
	}
}

func TestCreateErrors(t *testing.T) {
	h, svc := setup(t)
	ctx := context.Background()
	mark(t, h, itEmp, "2026-06-01", domain.MarkPresent)

	if _, err := svc.Create(ctx, itEmp, itEmp.IdentityID, rectification.CreateRequest{Date: "2026-06-01"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cases := []struct {
		name   string
		caller domain.Caller
		target string
		date   string
		want   int
	}{
		{"duplicate", itEmp, itEmp.IdentityID, "2026-06-01", http.StatusConflict},
		{"no record", itEmp, itEmp.IdentityID, "2026-05-30", http.StatusNotFound},
		{"someone else", itEmp2, itEmp.IdentityID, "2026-06-01", http.StatusForbidden},
		{"admin", admin, admin.IdentityID, "2026-06-01", http.StatusForbidden},
		{"bad date", itEmp, itEmp.IdentityID, "June 1", http.StatusBadRequest},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.caller, tt.target, rectification.CreateRequest{Date: tt.date})
			if got := apierr.ToHTTPStatus(err); got != tt.want {
				t.Fatalf("status=%d err=%v, want %d", got, err, tt.want)
			}
		})
	}
}

// 既存申請のチェックが記録の有無より先
func TestDuplicateCheckedBeforeRecord(t *testing.T) {
	h, svc := setup(t)
	ctx := context.Background()
	mark(t, h, itEmp, "2026-06-01", domain.MarkPresent)
	if _, err := svc.Create(ctx, itEmp, itEmp.IdentityID, rectification.CreateRequest{Date: "2026-06-01"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := h.ExecContext(ctx, `DELETE FROM attendance_records`); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err := svc.Create(ctx, itEmp, itEmp.IdentityID, rectification.CreateRequest{Date: "2026-06-01"})
	if got := apierr.ToHTTPStatus(err); got != http.StatusConflict {
		t.Fatalf("status=%d, want 409", got)
	}
}

func TestListScope(t *testing.T) {
	h, svc := setup(t)
	ctx := context.Background()
	for _, c := range []domain.Caller{itEmp, itEmp2, hrEmp} {
		mark(t, h, c, "2026-06-01", domain.MarkPresent)
		if _, err := svc.Create(ctx, c, c.IdentityID, rectification.CreateRequest{Date: "2026-06-01"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	mark(t, h, itEmp, "2026-06-02", domain.MarkAbsent)
	if _, err := svc.Create(ctx, itEmp, itEmp.IdentityID, rectification.CreateRequest{Date: "2026-06-02"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	keys := func(c domain.Caller) []string {
		t.Helper()
		rows, err := svc.List(ctx, c)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		out := []string{}
		for _, r := range rows {
			out = append(out, r.UserID+"@"+r.Date)
		}
		return out
	}

	if diff := cmp.Diff([]string{"01E1@2026-06-02", "01E1@2026-06-01"}, keys(itEmp)); diff != "" {
		t.Fatalf("employee (-want +got):\n%s", diff)
	}
	if got := keys(itMgr); len(got) != 3 {
		t.Fatalf("IT manager sees %v", got)
	}
	if got := keys(admin); len(got) != 4 || got[0] != "01E1@2026-06-02" {
		t.Fatalf("admin sees %v", got)
	}
}

func TestConsumeTx(t *testing.T) {
	h, svc := setup(t)
	ctx := context.Background()
	mark(t, h, itEmp, "2026-06-01", domain.MarkPresent)
	if _, err := svc.Create(ctx, itEmp, itEmp.IdentityID, rectification.CreateRequest{Date: "2026-06-01"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i, want := range []bool{true, false} {
		var got bool
		err := h.RunInTx(ctx, nil, func(ctx context.Context, tx db.DBTX) error {
			var err error
			got, err = svc.Consumer().ConsumeTx(ctx, tx, itEmp.IdentityID, "2026-06-01")
			return err
		})
		if err != nil {
			t.Fatalf("ConsumeTx #%d: %v", i+1, err)
		}
		if got != want {
			t.Fatalf("ConsumeTx #%d = %v, want %v", i+1, got, want)
		}
	}
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, svc := setup(t)
	mark(t, h, itEmp, "2026-06-01", domain.MarkPresent)

	serve := func(c domain.Caller, method, path, body string) *httptest.ResponseRecorder {
		r := gin.New()
		g := r.Group("/", func(ctx *gin.Context) { auth.SetCaller(ctx, c); ctx.Next() })
		rectification.RegisterRoutes(g, svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	if w := serve(admin, http.MethodPost, "/rectification/01A1", `{"date":"2026-06-01"}`); w.Code != http.StatusForbidden {
		t.Fatalf("admin POST: %d", w.Code)
	}
	if w := serve(itEmp, http.MethodPost, "/rectification/01E1", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing date: %d", w.Code)
	}
	w := serve(itEmp, http.MethodPost, "/rectification/01E1", `{"date":"2026-06-01"}`)
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"rectification":"absent"`) {
		t.Fatalf("POST: %d %s", w.Code, w.Body.String())
	}
	w = serve(itMgr, http.MethodGet, "/rectifications", "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "[") {
		t.Fatalf("GET: %d %s", w.Code, w.Body.String())
	}
}
