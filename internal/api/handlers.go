package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/appointment-dashboard/internal/appointment"
)

func listAppointmentsHandler(dash *appointment.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		view := dash.ViewState()

		if q.Has("tab") {
			view.ActiveTab = appointment.Tab(q.Get("tab"))
		}
		if q.Has("date") {
			date, err := parseOptionalDate(q.Get("date"))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
				return
			}
			view.SelectedDate = date
		}

		filter := appointment.Filter{Status: q.Get("status")}
		if raw := q.Get("mode"); raw != "" {
			mode, err := appointment.ParseMode(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_mode", err.Error())
				return
			}
			filter.Mode = mode
		}

		list, err := dash.Visible(view.ActiveTab, view.SelectedDate)
		if err != nil {
			handleReadError(w, err)
			return
		}
		list = appointment.ApplyFilter(list, filter)

		writeJSON(w, http.StatusOK, ListResponse{
			Appointments: toResponses(list),
			Count:        len(list),
			ActiveTab:    view.ActiveTab,
			SelectedDate: view.SelectedDate,
		})
	}
}

func bucketsHandler(dash *appointment.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buckets, err := dash.Categorize()
		if err != nil {
			handleReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, buckets)
	}
}

func statsHandler(dash *appointment.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := dash.Stats()
		if err != nil {
			handleReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func updateStatusHandler(dash *appointment.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req UpdateStatusRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		status, err := appointment.ParseStatus(req.Status)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, StatusResponse{OK: false, ID: id, Error: "invalid_status"})
			return
		}

		change, err := dash.UpdateStatus(r.Context(), id, status)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, StatusResponse{
				OK:             true,
				ID:             change.ID,
				PreviousStatus: change.PreviousStatus,
				Status:         change.NewStatus,
			})
		case errors.Is(err, appointment.ErrAppointmentNotFound):
			writeJSON(w, http.StatusNotFound, StatusResponse{OK: false, ID: id, Error: "appointment_not_found"})
		case errors.Is(err, appointment.ErrInvalidStatus):
			writeJSON(w, http.StatusBadRequest, StatusResponse{OK: false, ID: id, Error: "invalid_status"})
		default:
			handleMutationError(w, err)
		}
	}
}

func quickAddHandler(dash *appointment.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuickAddRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		in := appointment.StaticCollector{
			appointment.FieldPatientName: req.PatientName,
			appointment.FieldDoctorName:  req.DoctorName,
			appointment.FieldTime:        req.Time,
		}
		if req.Mode != "" {
			in[appointment.FieldMode] = req.Mode
		}

		appt, err := dash.QuickAdd(r.Context(), in)
		if err != nil {
			if errors.Is(err, appointment.ErrQuickAddAborted) {
				writeError(w, http.StatusBadRequest, "quick_add_aborted", err.Error())
				return
			}
			handleMutationError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, QuickAddResponse{
			Appointment: toResponse(appt),
			ActiveTab:   dash.ViewState().ActiveTab,
		})
	}
}

func getViewHandler(dash *appointment.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dash.ViewState())
	}
}

func putViewHandler(dash *appointment.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ViewRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if req.SelectedDate != nil {
			date, err := parseOptionalDate(*req.SelectedDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "selected_date must be YYYY-MM-DD")
				return
			}
			dash.SelectDate(date)
		}
		if req.ActiveTab != nil {
			dash.SetActiveTab(appointment.Tab(*req.ActiveTab))
		}

		writeJSON(w, http.StatusOK, dash.ViewState())
	}
}

func parseOptionalDate(raw string) (appointment.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return appointment.Date{}, nil
	}
	return appointment.ParseDate(raw)
}

func handleReadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrStillLoading):
		writeJSON(w, http.StatusAccepted, LoadingResponse{State: "loading"})
	case errors.Is(err, appointment.ErrLoadFailed):
		writeError(w, http.StatusServiceUnavailable, "load_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// handleMutationError refuses writes until the collection is loaded.
func handleMutationError(w http.ResponseWriter, err error) {
	if errors.Is(err, appointment.ErrStillLoading) {
		writeError(w, http.StatusConflict, "still_loading", err.Error())
		return
	}
	handleReadError(w, err)
}
