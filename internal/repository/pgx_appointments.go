package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

const appointmentColumns = `id, client_name, client_email, client_phone, service, agent_id,
        appointment_date, duration, status, notes, created_at`

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var a entity.Appointment
	var status string
	if err := row.Scan(&a.ID, &a.ClientName, &a.ClientEmail, &a.ClientPhone, &a.Service, &a.AgentID,
		&a.AppointmentDate, &a.Duration, &status, &a.Notes, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Status = entity.AppointmentStatus(status)
	return &a, nil
}

func (s *PGXStore) queryAppointments(ctx context.Context, query string, args ...any) ([]entity.Appointment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	appointments := make([]entity.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		appointments = append(appointments, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}
	return appointments, nil
}

// CreateAppointment inserts a booking.
func (s *PGXStore) CreateAppointment(ctx context.Context, in entity.NewAppointment) (*entity.Appointment, error) {
	row := s.pool.QueryRow(ctx, `
        INSERT INTO appointments (client_name, client_email, client_phone, service, agent_id,
            appointment_date, duration, status, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+appointmentColumns,
		in.ClientName, in.ClientEmail, in.ClientPhone, in.Service, in.AgentID,
		in.AppointmentDate, in.Duration, string(in.Status), in.Notes)

	appointment, err := scanAppointment(row)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	return appointment, nil
}

// ListAppointments returns every appointment, newest booking first.
func (s *PGXStore) ListAppointments(ctx context.Context) ([]entity.Appointment, error) {
	return s.queryAppointments(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY created_at DESC, seq DESC`)
}

// ListAppointmentsByAgent returns an agent's appointments, latest date first.
func (s *PGXStore) ListAppointmentsByAgent(ctx context.Context, agentID string) ([]entity.Appointment, error) {
	return s.queryAppointments(ctx, `SELECT `+appointmentColumns+`
        FROM appointments
        WHERE agent_id = $1
        ORDER BY appointment_date DESC, seq DESC`, agentID)
}

// UpdateAppointmentStatus sets the status of a local appointment.
func (s *PGXStore) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) (*entity.Appointment, error) {
	row := s.pool.QueryRow(ctx, `UPDATE appointments SET status = $1 WHERE id = $2 RETURNING `+appointmentColumns, string(status), id)

	appointment, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	return appointment, nil
}
