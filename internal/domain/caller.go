package domain

import (
	"strings"
	"time"
)

// Caller is the authenticated subject of a request. Role and Department come from
// the profile store at request time, not from token claims.
type Caller struct {
	IdentityID string
	UserName   string
	Email      string
	Role       Role
	Department string
}

const DateLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Today is the UTC calendar day observed by the server.
func Today(c Clock) string {
	return c.Now().UTC().Format(DateLayout)
}

// ParseDate accepts "YYYY-MM-DD" or "today" and returns the canonical form.
func ParseDate(c Clock, s string) (string, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "today" {
		return Today(c), nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}
