package attendance

import "time"

const (
	EncodingUTF8 = "utf8"
	EncodingSJIS = "sjis"
)

// POST /attendance/mark
type MarkRequest struct {
	Attendance string `json:"attendance" binding:"required"` // present | absent
}

type MarkResponse struct {
	Message    string `json:"message"`
	Attendance string `json:"attendance"`
	Date       string `json:"date"`
}

// PUT /attendance/edit
type EditRequest struct {
	TargetUserID string `json:"targetUserId" binding:"required"`
	Date         string `json:"date" binding:"required"` // YYYY-MM-DD or "today"
	Attendance   string `json:"attendance" binding:"required"`
}

type RecordResponse struct {
	UserID     string    `json:"userId"`
	Date       string    `json:"date"`
	Department string    `json:"department"`
	Role       string    `json:"role"`
	Attendance string    `json:"attendance"`
	Rectified  bool      `json:"rectified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// GET /dashboard
type DashboardResponse struct {
	Date string           `json:"date"`
	Data []RecordResponse `json:"data"`
}
