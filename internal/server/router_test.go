package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/platform/config"
	"attendance-backend/internal/platform/db/dbtest"
	"attendance-backend/internal/server"
)

type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time { return c.t }

type client struct {
	t *testing.T
	h http.Handler
}

func (c client) do(method, path, token string, body any) (int, []byte) {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	return w.Code, w.Body.Bytes()
}

func (c client) decode(b []byte, v any) {
	c.t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		c.t.Fatalf("decode %s: %v", b, err)
	}
}

func newClient(t *testing.T, clk *stepClock) client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Mode:      "release",
		Auth:      config.AuthConfig{JWTSecret: "router-test-secret", TokenTTL: time.Hour},
		RateLimit: config.RateLimitConfig{PerMinute: 600, Burst: 100},
	}
	h := server.NewRouter(server.Deps{
		DB:     dbtest.Open(t),
		Config: cfg,
		Clock:  clk,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return client{t: t, h: h}
}

func (c client) signup(userName, role, dept string) (token, id string) {
	c.t.Helper()
	code, b := c.do(http.MethodPost, "/signup", "", map[string]string{
		"userName": userName, "email": userName + "@example.com", "password": "password1",
		"role": role, "department": dept,
	})
	if code != http.StatusCreated {
		c.t.Fatalf("signup %s: %d %s", userName, code, b)
	}
	var res struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	c.decode(b, &res)
	return res.Token, res.UserID
}

type record struct {
	UserID     string `json:"userId"`
	Attendance string `json:"attendance"`
	Rectified  bool   `json:"rectified"`
}

func TestRoundTrip(t *testing.T) {
	clk := &stepClock{time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)}
	c := newClient(t, clk)

	_, empID := c.signup("ravi", "employee", "IT")
	adminTok, _ := c.signup("root", "admin", "Ops")

	code, b := c.do(http.MethodPost, "/signin", "", map[string]string{"identifier": "ravi", "password": "password1"})
	if code != http.StatusOK {
		t.Fatalf("signin: %d %s", code, b)
	}
	var signin struct {
		Token string `json:"token"`
	}
	c.decode(b, &signin)
	tok := signin.Token

	if code, b := c.do(http.MethodPost, "/attendance/mark", tok, map[string]string{"attendance": "present"}); code != http.StatusCreated {
		t.Fatalf("mark: %d %s", code, b)
	}

	dashboard := func() []record {
		t.Helper()
		code, b := c.do(http.MethodGet, "/dashboard", tok, nil)
		if code != http.StatusOK {
			t.Fatalf("dashboard: %d %s", code, b)
		}
		var res struct {
			Data []record `json:"data"`
		}
		c.decode(b, &res)
		return res.Data
	}
	if got := dashboard(); len(got) != 1 || got[0].Attendance != "present" || got[0].Rectified {
		t.Fatalf("dashboard after mark: %+v", got)
	}

	if code, b := c.do(http.MethodPost, "/rectification/"+empID, tok, map[string]string{"date": "2026-07-01"}); code != http.StatusCreated {
		t.Fatalf("rectification: %d %s", code, b)
	}

	pending := func() []map[string]any {
		t.Helper()
		code, b := c.do(http.MethodGet, "/rectifications", tok, nil)
		if code != http.StatusOK {
			t.Fatalf("rectifications: %d %s", code, b)
		}
		var out []map[string]any
		c.decode(b, &out)
		return out
	}
	if got := pending(); len(got) != 1 || got[0]["rectification"] != "absent" {
		t.Fatalf("pending: %+v", got)
	}

	code, b = c.do(http.MethodPut, "/attendance/edit", adminTok, map[string]string{
		"targetUserId": empID, "date": "2026-07-01", "attendance": "absent",
	})
	if code != http.StatusOK {
		t.Fatalf("edit: %d %s", code, b)
	}

	if got := dashboard(); len(got) != 1 || got[0].Attendance != "absent" || !got[0].Rectified {
		t.Fatalf("dashboard after approval: %+v", got)
	}
	if got := pending(); len(got) != 0 {
		t.Fatalf("pending after approval: %+v", got)
	}
}

func TestExpiredTokenRejectedEverywhere(t *testing.T) {
	clk := &stepClock{time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)}
	c := newClient(t, clk)
	tok, id := c.signup("mona", "manager", "IT")

	clk.t = clk.t.Add(time.Hour + time.Minute)

	routes := []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/attendance/mark", map[string]string{"attendance": "present"}},
		{http.MethodPut, "/attendance/edit", map[string]string{"targetUserId": id, "date": "2026-07-01", "attendance": "absent"}},
		{http.MethodGet, "/attendance/export", nil},
		{http.MethodGet, "/dashboard", nil},
		{http.MethodPost, "/rectification/" + id, map[string]string{"date": "2026-07-01"}},
		{http.MethodGet, "/rectifications", nil},
	}
	for _, rt := range routes {
		if code, b := c.do(rt.method, rt.path, tok, rt.body); code != http.StatusUnauthorized {
			t.Fatalf("%s %s: %d %s, want 401", rt.method, rt.path, code, b)
		}
		if code, _ := c.do(rt.method, rt.path, "", rt.body); code != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: %d, want 401", rt.method, rt.path, code)
		}
	}
}

// プロフィール変更は次のリクエストから効く
func TestRoleChangeAppliesToExistingToken(t *testing.T) {
	clk := &stepClock{time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)}
	c := newClient(t, clk)
	tok, id := c.signup("kai", "employee", "IT")

	if code, _ := c.do(http.MethodPut, "/attendance/edit", tok, map[string]string{"targetUserId": id, "date": "2026-07-01", "attendance": "present"}); code != http.StatusForbidden {
		t.Fatalf("employee edit: %d, want 403", code)
	}
	if code, b := c.do(http.MethodPut, "/profile/"+id, "", map[string]string{"role": "admin", "department": "IT"}); code != http.StatusOK {
		t.Fatalf("profile update: %d %s", code, b)
	}
	if code, b := c.do(http.MethodPut, "/attendance/edit", tok, map[string]string{"targetUserId": id, "date": "2026-07-01", "attendance": "present"}); code != http.StatusOK {
		t.Fatalf("admin edit: %d %s", code, b)
	}
}

func TestManagerScopeOverHTTP(t *testing.T) {
	clk := &stepClock{time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)}
	c := newClient(t, clk)
	itTok, itID := c.signup("ines", "employee", "IT")
	hrMgr, _ := c.signup("hugo", "manager", "HR")

	if code, _ := c.do(http.MethodPost, "/attendance/mark", itTok, map[string]string{"attendance": "present"}); code != http.StatusCreated {
		t.Fatalf("mark: %d", code)
	}

	code, b := c.do(http.MethodGet, "/dashboard", hrMgr, nil)
	if code != http.StatusOK {
		t.Fatalf("dashboard: %d", code)
	}
	var res struct {
		Data []record `json:"data"`
	}
	c.decode(b, &res)
	if len(res.Data) != 0 {
		t.Fatalf("HR manager sees IT rows: %+v", res.Data)
	}

	if code, _ := c.do(http.MethodPut, "/attendance/edit", hrMgr, map[string]string{"targetUserId": itID, "date": "2026-07-01", "attendance": "absent"}); code != http.StatusForbidden {
		t.Fatalf("HR manager edit IT: %d, want 403", code)
	}
}

func TestOperationalRoutes(t *testing.T) {
	c := newClient(t, &stepClock{time.Now()})

	if code, b := c.do(http.MethodGet, "/healthz", "", nil); code != http.StatusOK || string(b) != "ok" {
		t.Fatalf("healthz: %d %s", code, b)
	}
	if code, b := c.do(http.MethodGet, "/debug/vars", "", nil); code != http.StatusOK || !bytes.Contains(b, []byte("requests_total")) {
		t.Fatalf("debug/vars: %d", code)
	}
	if code, b := c.do(http.MethodGet, "/swagger/doc.json", "", nil); code != http.StatusOK || !bytes.Contains(b, []byte("/attendance/mark")) {
		t.Fatalf("swagger: %d", code)
	}
	code, b := c.do(http.MethodGet, "/nope", "", nil)
	var e struct {
		Code string `json:"code"`
	}
	c.decode(b, &e)
	if code != http.StatusNotFound || e.Code != "NOT_FOUND" {
		t.Fatalf("no route: %d %s", code, b)
	}
}
