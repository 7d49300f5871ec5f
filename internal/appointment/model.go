package appointment

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
	StatusNoShow    Status = "NoShow"
)

// legacyStatusUpcoming shows up in older seed data where the bucket was
// stored as if it were a state.
const legacyStatusUpcoming = "upcoming"

type Mode string

const (
	ModeInPerson Mode = "InPerson"
	ModeVideo    Mode = "Video"
)

const defaultDurationMinutes = 30

type Appointment struct {
	ID              string `json:"id"`
	PatientName     string `json:"patient_name"`
	Date            Date   `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
	DoctorName      string `json:"doctor_name"`
	Mode            Mode   `json:"consultation_mode"`
	Status          Status `json:"status"`
	Reason          string `json:"reason,omitempty"`
}

// Valid reports whether s is one of the canonical statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// ParseStatus matches raw case-insensitively against the canonical set.
// "No-Show" and "No Show" are accepted spellings of NoShow.
func ParseStatus(raw string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "", " ", "", "_", "").Replace(key)
	switch key {
	case "scheduled":
		return StatusScheduled, nil
	case "confirmed":
		return StatusConfirmed, nil
	case "completed":
		return StatusCompleted, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	case "noshow":
		return StatusNoShow, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// normalizeStatus is ParseStatus plus the ingestion-only legacy mapping.
func normalizeStatus(raw string) (Status, error) {
	if strings.EqualFold(strings.TrimSpace(raw), legacyStatusUpcoming) {
		return StatusScheduled, nil
	}
	if strings.TrimSpace(raw) == "" {
		return StatusScheduled, nil
	}
	return ParseStatus(raw)
}

// ParseMode maps the spellings seen in upstream data onto the two modes.
// An empty value means in-person.
func ParseMode(raw string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "", " ", "", "_", "").Replace(key)
	switch key {
	case "", "inperson":
		return ModeInPerson, nil
	case "video", "videocall", "virtual", "telemedicine":
		return ModeVideo, nil
	}
	return "", fmt.Errorf("%w: unknown consultation mode %q", ErrInvalidAppointment, raw)
}

// ParseDurationMinutes accepts "30", "30 min", "45 mins" or "1h".
func ParseDurationMinutes(raw string) (int, error) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return defaultDurationMinutes, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n, nil
	}
	fields := strings.Fields(s)
	if len(fields) == 2 {
		if n, err := strconv.Atoi(fields[0]); err == nil && n > 0 {
			switch fields[1] {
			case "m", "min", "mins", "minute", "minutes":
				return n, nil
			case "h", "hr", "hrs", "hour", "hours":
				return n * 60, nil
			}
		}
	}
	if d, err := time.ParseDuration(s); err == nil && d >= time.Minute {
		return int(d / time.Minute), nil
	}
	return 0, fmt.Errorf("%w: bad duration %q", ErrInvalidAppointment, raw)
}

// RawAppointment is the loosely typed shape external sources hand over
// before normalisation.
type RawAppointment struct {
	ID          string `json:"id"`
	PatientName string `json:"name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Duration    string `json:"duration"`
	DoctorName  string `json:"doctorName"`
	Mode        string `json:"mode"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
}

// Normalize validates r and converts it into an Appointment.
func (r RawAppointment) Normalize() (Appointment, error) {
	if strings.TrimSpace(r.ID) == "" {
		return Appointment{}, fmt.Errorf("%w: empty id", ErrInvalidAppointment)
	}
	if strings.TrimSpace(r.PatientName) == "" {
		return Appointment{}, fmt.Errorf("%w: appointment %s has no patient name", ErrInvalidAppointment, r.ID)
	}

	date, err := ParseDate(r.Date)
	if err != nil {
		return Appointment{}, fmt.Errorf("appointment %s: %w", r.ID, err)
	}
	status, err := normalizeStatus(r.Status)
	if err != nil {
		return Appointment{}, fmt.Errorf("appointment %s: %w", r.ID, err)
	}
	mode, err := ParseMode(r.Mode)
	if err != nil {
		return Appointment{}, fmt.Errorf("appointment %s: %w", r.ID, err)
	}
	duration, err := ParseDurationMinutes(r.Duration)
	if err != nil {
		return Appointment{}, fmt.Errorf("appointment %s: %w", r.ID, err)
	}

	return Appointment{
		ID:              strings.TrimSpace(r.ID),
		PatientName:     strings.TrimSpace(r.PatientName),
		Date:            date,
		Time:            strings.TrimSpace(r.Time),
		DurationMinutes: duration,
		DoctorName:      strings.TrimSpace(r.DoctorName),
		Mode:            mode,
		Status:          status,
		Reason:          strings.TrimSpace(r.Reason),
	}, nil
}

// NormalizeAll converts a batch, failing on the first bad record.
func NormalizeAll(raws []RawAppointment) ([]Appointment, error) {
	out := make([]Appointment, 0, len(raws))
	for _, r := range raws {
		a, err := r.Normalize()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// AvailableTransitions lists the forward transitions a dashboard offers
// for an appointment currently in status s.
func AvailableTransitions(s Status) []Status {
	var out []Status
	if s != StatusConfirmed && s != StatusCompleted && s != StatusCancelled {
		out = append(out, StatusConfirmed)
	}
	if s != StatusCancelled && s != StatusCompleted {
		out = append(out, StatusCancelled)
	}
	return out
}

type Event struct {
	Type          string         `json:"type"`
	AppointmentID string         `json:"appointment_id"`
	Payload       map[string]any `json:"payload,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
