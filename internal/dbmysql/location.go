package dbmysql

import (
	"time"

	"parallel/internal/model"
)

// LocationShare stores the flag computed at write time in is_active. Readers
// derive the live state from sharing_duration and expires_at instead.
type LocationShare struct {
	ID              string     `gorm:"primaryKey;size:36"`
	UserID          string     `gorm:"index:idx_location_user_time;size:36;not null"`
	PartnerID       string     `gorm:"index;size:36;not null"`
	Latitude        float64    `gorm:"not null"`
	Longitude       float64    `gorm:"not null"`
	Accuracy        float64    `gorm:"not null"`
	Timestamp       time.Time  `gorm:"index:idx_location_user_time;not null"`
	BatteryLevel    *float64   `gorm:"column:battery_level"`
	SharingDuration string     `gorm:"size:20;not null"`
	ExpiresAt       *time.Time `gorm:"index"`
	IsActive        bool       `gorm:"not null"`
}

func (LocationShare) TableName() string {
	return "location_shares"
}

func newLocationShare(s *model.LocationShare) *LocationShare {
	return &LocationShare{
		ID:              s.ID,
		UserID:          s.UserID,
		PartnerID:       s.PartnerID,
		Latitude:        s.Coordinates.Latitude,
		Longitude:       s.Coordinates.Longitude,
		Accuracy:        s.Accuracy,
		Timestamp:       s.Timestamp,
		BatteryLevel:    s.BatteryLevel,
		SharingDuration: string(s.SharingDuration),
		ExpiresAt:       s.ExpiresAt,
		IsActive:        s.IsActive,
	}
}

func (r *LocationShare) toModel() *model.LocationShare {
	return &model.LocationShare{
		ID:              r.ID,
		UserID:          r.UserID,
		PartnerID:       r.PartnerID,
		Coordinates:     model.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude},
		Accuracy:        r.Accuracy,
		Timestamp:       r.Timestamp,
		BatteryLevel:    r.BatteryLevel,
		SharingDuration: model.SharingDuration(r.SharingDuration),
		ExpiresAt:       r.ExpiresAt,
		IsActive:        r.IsActive,
	}
}
