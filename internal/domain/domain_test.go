package domain

import (
	"encoding/json"
	"testing"
	"time"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"employee", RoleEmployee, false},
		{" Manager ", RoleManager, false},
		{"ADMIN", RoleAdmin, false},
		{"owner", roleInvalid, true},
		{"", roleInvalid, true},
	}
	for _, tt := range cases {
		got, err := ParseRole(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseRole(%q) err=%v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseRole(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMarkNegate(t *testing.T) {
	if MarkPresent.Negate() != MarkAbsent {
		t.Fatalf("present should negate to absent")
	}
	if MarkAbsent.Negate() != MarkPresent {
		t.Fatalf("absent should negate to present")
	}
	if markInvalid.Negate().Valid() {
		t.Fatalf("invalid mark must stay invalid")
	}
}

func TestMarkJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		M Mark `json:"m"`
	}{MarkAbsent})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"m":"absent"}` {
		t.Fatalf("got %s", b)
	}

	var out struct {
		M Mark `json:"m"`
	}
	if err := json.Unmarshal([]byte(`{"m":"late"}`), &out); err == nil {
		t.Fatalf("expected error for unknown mark")
	}
	if _, err := json.Marshal(markInvalid); err == nil {
		t.Fatalf("expected error marshalling invalid mark")
	}
}

func TestParseDate(t *testing.T) {
	clk := fixedClock{time.Date(2026, 3, 9, 23, 30, 0, 0, time.FixedZone("JST", 9*3600))}

	got, err := ParseDate(clk, "today")
	if err != nil {
		t.Fatalf("ParseDate today: %v", err)
	}
	// 23:30 JST is 14:30 UTC on the same day
	if got != "2026-03-09" {
		t.Fatalf("today=%s", got)
	}
	if _, err := ParseDate(clk, "2026-02-30"); err == nil {
		t.Fatalf("expected error for impossible date")
	}
	if _, err := ParseDate(clk, "09/03/2026"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
}
