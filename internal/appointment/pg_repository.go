package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of *pgxpool.Pool the source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgSource reads the appointment collection from Postgres, newest first.
type PgSource struct {
	db Querier
}

func NewPgSource(db Querier) *PgSource {
	return &PgSource{db: db}
}

const selectAppointments = `
		SELECT id, patient_name, appointment_date, appointment_time, duration_minutes,
		       doctor_name, mode, status, reason
		FROM appointments
		ORDER BY created_at DESC, id
	`

// Helpers

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		a        Appointment
		date     time.Time
		mode     string
		status   string
		reason   *string
		duration int
	)

	err := row.Scan(
		&a.ID,
		&a.PatientName,
		&date,
		&a.Time,
		&duration,
		&a.DoctorName,
		&mode,
		&status,
		&reason,
	)
	if err != nil {
		return nil, err
	}

	a.Date = NewDate(date.Year(), date.Month(), date.Day())
	a.DurationMinutes = duration
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = defaultDurationMinutes
	}
	if a.Status, err = normalizeStatus(status); err != nil {
		return nil, fmt.Errorf("appointment %s: %w", a.ID, err)
	}
	if a.Mode, err = ParseMode(mode); err != nil {
		return nil, fmt.Errorf("appointment %s: %w", a.ID, err)
	}
	if reason != nil {
		a.Reason = *reason
	}
	return &a, nil
}

func (s *PgSource) FetchAppointments(ctx context.Context) ([]Appointment, error) {
	rows, err := s.db.Query(ctx, selectAppointments)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
