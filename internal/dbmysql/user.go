package dbmysql

import (
	"time"

	"parallel/internal/model"
)

type User struct {
	ID               string    `gorm:"primaryKey;size:36"`
	Name             string    `gorm:"size:100;not null"`
	Email            string    `gorm:"size:255;index"`
	ProfileImageData []byte    `gorm:"type:mediumblob"`
	PartnerID        *string   `gorm:"size:36;index"`
	IsAuthenticated  bool      `gorm:"not null"`
	CreatedAt        time.Time `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func newUser(u *model.User) *User {
	return &User{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		ProfileImageData: u.ProfileImageData,
		PartnerID:        u.PartnerID,
		IsAuthenticated:  u.IsAuthenticated,
		CreatedAt:        u.CreatedAt,
	}
}

func (r *User) toModel() *model.User {
	return &model.User{
		ID:               r.ID,
		Name:             r.Name,
		Email:            r.Email,
		ProfileImageData: r.ProfileImageData,
		PartnerID:        r.PartnerID,
		IsAuthenticated:  r.IsAuthenticated,
		CreatedAt:        r.CreatedAt,
	}
}
