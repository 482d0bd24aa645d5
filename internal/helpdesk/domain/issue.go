package domain

import (
	"errors"
	"strings"
	"time"
)

// Status is the closed set of issue states.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusCompleted  Status = "completed"
	StatusClosed     Status = "closed"
)

var ErrUnknownStatus = errors.New("domain: unknown status")

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusOpen:
		return StatusOpen, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusResolved:
		return StatusResolved, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusClosed:
		return StatusClosed, nil
	default:
		return "", ErrUnknownStatus
	}
}

func (s Status) String() string { return string(s) }

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusClosed
}

// DeviceType is the closed set of device categories an issue can be filed
// against.
type DeviceType string

const (
	DeviceComputer      DeviceType = "Computer"
	DevicePrinter       DeviceType = "Printer"
	DeviceProjector     DeviceType = "Projector"
	DeviceNetworkSwitch DeviceType = "Network Switch"
	DeviceAccessPoint   DeviceType = "Access point"
	DeviceOther         DeviceType = "Other"
)

var ErrUnknownDeviceType = errors.New("domain: unknown device type")

// DeviceTypes lists all valid device types in display order.
func DeviceTypes() []DeviceType {
	return []DeviceType{
		DeviceComputer,
		DevicePrinter,
		DeviceProjector,
		DeviceNetworkSwitch,
		DeviceAccessPoint,
		DeviceOther,
	}
}

func ParseDeviceType(s string) (DeviceType, error) {
	for _, dt := range DeviceTypes() {
		if strings.EqualFold(strings.TrimSpace(s), string(dt)) {
			return dt, nil
		}
	}
	return "", ErrUnknownDeviceType
}

func (d DeviceType) String() string { return string(d) }

// Issue is a device complaint filed by a department head. The owner is
// fixed at creation and the initial status is always open.
type Issue struct {
	ID          string
	DeptHeadID  string // owning dept_head, immutable
	DeviceType  DeviceType
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
