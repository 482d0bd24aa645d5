package sqlite

import (
	"context"
	"time"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
)

type devicesRepo struct {
	db querier
}

func (r *devicesRepo) CreateDevice(ctx context.Context, d domain.Device) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO devices (id, name, device_type, location, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.DeviceType.String(), d.Location, now, now,
	)
	return mapConflict(err)
}

func (r *devicesRepo) GetDeviceByID(ctx context.Context, id string) (domain.Device, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, device_type, location, created_at, updated_at
		 FROM devices WHERE id = ?`, id,
	)
	return scanDevice(row)
}

func (r *devicesRepo) UpdateDevice(ctx context.Context, d domain.Device) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE devices SET name = ?, device_type = ?, location = ?, updated_at = ?
		 WHERE id = ?`,
		d.Name, d.DeviceType.String(), d.Location, time.Now().UTC(), d.ID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *devicesRepo) DeleteDevice(ctx context.Context, deviceID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE id = ?`, deviceID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *devicesRepo) ListDevices(ctx context.Context) ([]domain.Device, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, device_type, location, created_at, updated_at
		 FROM devices ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDevice(row rowScanner) (domain.Device, error) {
	var (
		d          domain.Device
		deviceType string
	)
	err := row.Scan(&d.ID, &d.Name, &deviceType, &d.Location, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return domain.Device{}, mapNotFound(err)
	}

	if d.DeviceType, err = domain.ParseDeviceType(deviceType); err != nil {
		return domain.Device{}, err
	}
	return d, nil
}
