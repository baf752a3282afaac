package rectification

import "time"

// POST /rectification/:id
// 希望する値は受け取らない。現在の記録の反転で決まる
type CreateRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
}

type RequestResponse struct {
	UserID        string    `json:"userId"`
	Date          string    `json:"date"`
	Department    string    `json:"department"`
	Role          string    `json:"role"`
	Attendance    string    `json:"attendance"`    // 現在の記録
	Rectification string    `json:"rectification"` // 申請後の値
	CreatedAt     time.Time `json:"createdAt"`
}
