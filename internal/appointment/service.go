package appointment

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

const (
	EventStatusUpdated    = "APPOINTMENT_STATUS_UPDATED"
	EventAppointmentAdded = "APPOINTMENT_ADDED"
)

// Clock returns the current instant in the zone that defines "today".
type Clock func() time.Time

// ViewState is the session's tab and calendar selection.
type ViewState struct {
	ActiveTab    Tab  `json:"active_tab"`
	SelectedDate Date `json:"selected_date"`
}

// Dashboard is one session over a Store. Each call runs to completion
// before the next one starts, and nothing derived is cached: every read
// re-derives from the canonical collection.
type Dashboard struct {
	mu        sync.Mutex
	store     *Store
	publisher EventPublisher
	clock     Clock
	view      ViewState
}

func NewDashboard(store *Store, publisher EventPublisher, clock Clock) *Dashboard {
	if publisher == nil {
		publisher = NoopPublisher
	}
	if clock == nil {
		clock = time.Now
	}
	return &Dashboard{
		store:     store,
		publisher: publisher,
		clock:     clock,
		view:      ViewState{ActiveTab: TabAll},
	}
}

func (d *Dashboard) Today() Date {
	return DateOf(d.clock())
}

// Load fetches from src and replaces the collection. A fetch or
// validation failure moves the store into the failed state.
func (d *Dashboard) Load(ctx context.Context, src DataSource) error {
	start := time.Now()
	records, err := src.FetchAppointments(ctx)
	if err != nil {
		err = fmt.Errorf("fetch appointments: %w", err)
		d.store.Fail(err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.Load(records); err != nil {
		err = fmt.Errorf("load appointments: %w", err)
		d.store.Fail(err)
		return err
	}

	log.Printf("appointments loaded count=%d duration=%s", len(records), time.Since(start))
	return nil
}

func (d *Dashboard) State() (LoadState, error) {
	return d.store.State()
}

func (d *Dashboard) ready() error {
	state, err := d.store.State()
	switch state {
	case StateLoading:
		return ErrStillLoading
	case StateFailed:
		if err == nil {
			return ErrLoadFailed
		}
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return nil
}

// Visible returns the records for the given tab and optional date.
func (d *Dashboard) Visible(tab Tab, selectedDate Date) ([]Appointment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ready(); err != nil {
		return nil, err
	}
	return SelectVisible(d.store.Snapshot(), tab, selectedDate, d.Today()), nil
}

// Current is Visible for the session's own view state.
func (d *Dashboard) Current() ([]Appointment, ViewState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ready(); err != nil {
		return nil, d.view, err
	}
	return SelectVisible(d.store.Snapshot(), d.view.ActiveTab, d.view.SelectedDate, d.Today()), d.view, nil
}

func (d *Dashboard) Stats() (Stats, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ready(); err != nil {
		return Stats{}, err
	}
	return ComputeStats(d.store.Snapshot(), d.Today()), nil
}

func (d *Dashboard) Categorize() (Buckets, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ready(); err != nil {
		return Buckets{}, err
	}
	return Categorize(d.store.Snapshot(), d.Today()), nil
}

func (d *Dashboard) ViewState() ViewState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

func (d *Dashboard) SetActiveTab(tab Tab) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.ActiveTab = tab
}

func (d *Dashboard) SelectDate(date Date) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.SelectedDate = date
}

func (d *Dashboard) ClearDate() {
	d.SelectDate(Date{})
}

// UpdateStatus applies a status change and publishes it.
func (d *Dashboard) UpdateStatus(ctx context.Context, id string, status Status) (StatusChange, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ready(); err != nil {
		return StatusChange{}, err
	}

	change, err := d.store.UpdateStatus(id, status)
	if err != nil {
		return StatusChange{}, err
	}

	d.logEvent(ctx, id, EventStatusUpdated, map[string]any{
		"previous_status": change.PreviousStatus,
		"status":          change.NewStatus,
	})

	return change, nil
}

// QuickAdd captures a new appointment through in, prepends it and resets
// the active tab to All so it is visible.
func (d *Dashboard) QuickAdd(ctx context.Context, in InputCollector) (Appointment, error) {
	if err := func() error {
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.ready()
	}(); err != nil {
		return Appointment{}, err
	}

	// Prompts may block on a person, so they run outside the lock.
	appt, err := BuildQuickAdd(ctx, in, d.Today())
	if err != nil {
		return Appointment{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.Insert(appt); err != nil {
		return Appointment{}, fmt.Errorf("insert quick add: %w", err)
	}
	d.view.ActiveTab = TabAll

	d.logEvent(ctx, appt.ID, EventAppointmentAdded, map[string]any{
		"patient_name": appt.PatientName,
		"date":         appt.Date.String(),
		"time":         appt.Time,
	})

	return appt, nil
}

func (d *Dashboard) logEvent(ctx context.Context, appointmentID, eventType string, payload map[string]any) {
	ev := Event{
		Type:          eventType,
		AppointmentID: appointmentID,
		Payload:       payload,
		CreatedAt:     time.Now(),
	}

	if err := d.publisher.Publish(ctx, ev); err != nil {
		log.Printf("failed to publish event %s for appointment %s: %v", eventType, appointmentID, err)
	}
}
