package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/store"
	"github.com/vvpcampus/helpdesk/pkg/idx"
	"github.com/vvpcampus/helpdesk/pkg/slogx"
)

// DeviceService manages the informational device registry. Mutations are
// gated at the HTTP layer by the admin token; the service only validates
// shape.
type DeviceService struct {
	Store store.Store
}

func (s *DeviceService) Create(
	ctx context.Context,
	name, deviceType, location string,
) (domain.Device, error) {
	if name == "" {
		return domain.Device{}, fmt.Errorf("%w: device name is required", ErrValidation)
	}
	dt, err := domain.ParseDeviceType(deviceType)
	if err != nil {
		return domain.Device{}, fmt.Errorf("%w: unknown device type %q", ErrValidation, deviceType)
	}

	d := domain.Device{
		ID:         idx.New().String(),
		Name:       name,
		DeviceType: dt,
		Location:   location,
	}
	if err := s.Store.Devices().CreateDevice(ctx, d); err != nil {
		return domain.Device{}, storeFailure(ctx, "devices.create", err)
	}
	slogx.FromContext(ctx).Info("device registered",
		"device_id", d.ID,
		"device_type", dt.String(),
	)
	return d, nil
}

func (s *DeviceService) Get(ctx context.Context, deviceID string) (domain.Device, error) {
	d, err := s.Store.Devices().GetDeviceByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Device{}, fmt.Errorf("%w: device %s", ErrNotFound, deviceID)
		}
		return domain.Device{}, storeFailure(ctx, "devices.get", err)
	}
	return d, nil
}

func (s *DeviceService) Update(
	ctx context.Context,
	deviceID, name, deviceType, location string,
) (domain.Device, error) {
	if name == "" {
		return domain.Device{}, fmt.Errorf("%w: device name is required", ErrValidation)
	}
	dt, err := domain.ParseDeviceType(deviceType)
	if err != nil {
		return domain.Device{}, fmt.Errorf("%w: unknown device type %q", ErrValidation, deviceType)
	}

	d, err := s.Get(ctx, deviceID)
	if err != nil {
		return domain.Device{}, err
	}
	d.Name = name
	d.DeviceType = dt
	d.Location = location

	if err := s.Store.Devices().UpdateDevice(ctx, d); err != nil {
		return domain.Device{}, storeFailure(ctx, "devices.update", err)
	}
	return d, nil
}

func (s *DeviceService) Delete(ctx context.Context, deviceID string) error {
	if _, err := s.Get(ctx, deviceID); err != nil {
		return err
	}
	if err := s.Store.Devices().DeleteDevice(ctx, deviceID); err != nil {
		return storeFailure(ctx, "devices.delete", err)
	}
	return nil
}

func (s *DeviceService) List(ctx context.Context) ([]domain.Device, error) {
	out, err := s.Store.Devices().ListDevices(ctx)
	if err != nil {
		return nil, storeFailure(ctx, "devices.list", err)
	}
	return out, nil
}
