package profile

import "time"

// POST/PUT /profile/:id 共通。住所はフラットに受ける
type ProfileRequest struct {
	Role       string `json:"role"`
	Department string `json:"department"`
	Contact    string `json:"contact"`
	JoinDate   string `json:"joinDate"` // YYYY-MM-DD
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	PinCode    string `json:"pinCode"`
}

type AddressDTO struct {
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
	PinCode string `json:"pinCode"`
}

type ProfileResponse struct {
	UserID     string     `json:"userId"`
	Role       string     `json:"role"`
	Department string     `json:"department"`
	Contact    string     `json:"contact"`
	JoinDate   string     `json:"joinDate"`
	Address    AddressDTO `json:"address"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
