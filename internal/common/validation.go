package common

import (
	"regexp"
	"strings"

	"parallel/internal/model"
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return Validationf("invalid email format")
	}

	return nil
}

// ValidatePair rejects empty identifiers and a participant paired with itself.
func ValidatePair(fromID, toID string) error {
	if strings.TrimSpace(fromID) == "" || strings.TrimSpace(toID) == "" {
		return Validationf("participant IDs cannot be empty")
	}
	if fromID == toID {
		return Validationf("sender and recipient must differ")
	}
	return nil
}

func ValidateCoordinates(c model.Coordinates, accuracy float64) error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return Validationf("latitude %v out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return Validationf("longitude %v out of range", c.Longitude)
	}
	if accuracy < 0 {
		return Validationf("accuracy cannot be negative")
	}
	return nil
}

func ValidateBatteryLevel(level *float64) error {
	if level == nil {
		return nil
	}
	if *level < 0 || *level > 1 {
		return Validationf("battery level must be between 0 and 1")
	}
	return nil
}
