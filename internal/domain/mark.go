package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Mark は出欠の二値。
type Mark int

const (
	markInvalid Mark = iota
	MarkPresent
	MarkAbsent
)

func ParseMark(s string) (Mark, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present":
		return MarkPresent, nil
	case "absent":
		return MarkAbsent, nil
	}
	return markInvalid, fmt.Errorf("unknown attendance mark %q", s)
}

func (m Mark) String() string {
	switch m {
	case MarkPresent:
		return "present"
	case MarkAbsent:
		return "absent"
	}
	return ""
}

func (m Mark) Valid() bool { return m.String() != "" }

// Negate returns the opposite mark. The invalid mark negates to itself.
func (m Mark) Negate() Mark {
	switch m {
	case MarkPresent:
		return MarkAbsent
	case MarkAbsent:
		return MarkPresent
	}
	return m
}

func (m Mark) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid attendance mark %d", int(m))
	}
	return json.Marshal(m.String())
}

func (m *Mark) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseMark(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
