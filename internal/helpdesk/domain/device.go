package domain

import "time"

// Device is a registry entry maintained by administrators. Issues reference
// device types, not devices, so the registry is informational.
type Device struct {
	ID         string
	Name       string
	DeviceType DeviceType
	Location   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
