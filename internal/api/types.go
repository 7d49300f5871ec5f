package api

import (
	"github.com/hackgods/appointment-dashboard/internal/appointment"
)

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}

type QuickAddRequest struct {
	PatientName string `json:"patient_name" validate:"required,max=200"`
	DoctorName  string `json:"doctor_name" validate:"required,max=200"`
	Time        string `json:"time" validate:"required,max=32"`
	Mode        string `json:"mode" validate:"omitempty,max=32"`
}

// ViewRequest updates the session view. A nil field is left alone; an
// empty selected_date clears the calendar filter.
type ViewRequest struct {
	ActiveTab    *string `json:"active_tab" validate:"omitempty,max=32"`
	SelectedDate *string `json:"selected_date" validate:"omitempty,max=10"`
}

type AppointmentResponse struct {
	appointment.Appointment
	Transitions []appointment.Status `json:"transitions"`
}

type ListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Count        int                   `json:"count"`
	ActiveTab    appointment.Tab       `json:"active_tab"`
	SelectedDate appointment.Date      `json:"selected_date"`
}

type StatusResponse struct {
	OK             bool               `json:"ok"`
	ID             string             `json:"id,omitempty"`
	PreviousStatus appointment.Status `json:"previous_status,omitempty"`
	Status         appointment.Status `json:"status,omitempty"`
	Error          string             `json:"error,omitempty"`
}

type QuickAddResponse struct {
	Appointment AppointmentResponse `json:"appointment"`
	ActiveTab   appointment.Tab     `json:"active_tab"`
}

type LoadingResponse struct {
	State string `json:"state"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toResponse(a appointment.Appointment) AppointmentResponse {
	transitions := appointment.AvailableTransitions(a.Status)
	if transitions == nil {
		transitions = []appointment.Status{}
	}
	return AppointmentResponse{Appointment: a, Transitions: transitions}
}

func toResponses(list []appointment.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toResponse(a))
	}
	return out
}
