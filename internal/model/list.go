package model

import "time"

// ShoppingList is an owner's named registry, shared via a short code.
type ShoppingList struct {
	ID         int64     `json:"id"`
	OwnerID    int64     `json:"owner_id"`
	Name       string    `json:"name"`
	BabyName   string    `json:"baby_name"`
	FatherName string    `json:"father_name"`
	MotherName string    `json:"mother_name"`
	Phone      string    `json:"phone"`
	ShareCode  string    `json:"share_code"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PublicList is the code-path projection of a list. It carries no owner
// identity.
type PublicList struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	BabyName   string `json:"baby_name"`
	FatherName string `json:"father_name"`
	MotherName string `json:"mother_name"`
	Phone      string `json:"phone"`
	ShareCode  string `json:"share_code"`
	IsArchived bool   `json:"is_archived"`
}

// Public returns the narrowed projection of l.
func (l *ShoppingList) Public() PublicList {
	return PublicList{
		ID:         l.ID,
		Name:       l.Name,
		BabyName:   l.BabyName,
		FatherName: l.FatherName,
		MotherName: l.MotherName,
		Phone:      l.Phone,
		ShareCode:  l.ShareCode,
		IsArchived: l.IsArchived,
	}
}
