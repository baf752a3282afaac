package profile

import (
	"time"

	"attendance-backend/internal/domain"
)

type Address struct {
	Country string
	State   string
	City    string
	PinCode string
}

// Profile はアイデンティティと 1:1。
type Profile struct {
	IdentityID string
	Role       domain.Role
	Department string
	Contact    string
	JoinDate   string
	Address    Address
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DB行に対応（スキャン用）
type profileRow struct {
	IdentityID string
	Role       string
	Department string
	Contact    string
	JoinDate   string
	Country    string
	State      string
	City       string
	PinCode    string
	CreatedMs  int64
	UpdatedMs  int64
}

func (r profileRow) toModel() (Profile, error) {
	role, err := domain.ParseRole(r.Role)
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		IdentityID: r.IdentityID,
		Role:       role,
		Department: r.Department,
		Contact:    r.Contact,
		JoinDate:   r.JoinDate,
		Address: Address{
			Country: r.Country,
			State:   r.State,
			City:    r.City,
			PinCode: r.PinCode,
		},
		CreatedAt: time.UnixMilli(r.CreatedMs).UTC(),
		UpdatedAt: time.UnixMilli(r.UpdatedMs).UTC(),
	}, nil
}

func (p Profile) toDTO() ProfileResponse {
	return ProfileResponse{
		UserID:     p.IdentityID,
		Role:       p.Role.String(),
		Department: p.Department,
		Contact:    p.Contact,
		JoinDate:   p.JoinDate,
		Address: AddressDTO{
			Country: p.Address.Country,
			State:   p.Address.State,
			City:    p.Address.City,
			PinCode: p.Address.PinCode,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
