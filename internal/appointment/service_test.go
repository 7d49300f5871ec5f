package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockPublisher records published events; PublishFunc overrides the result.
type MockPublisher struct {
	PublishFunc func(ctx context.Context, ev Event) error

	mu     sync.Mutex
	Events []Event
}

func (m *MockPublisher) Publish(ctx context.Context, ev Event) error {
	m.mu.Lock()
	m.Events = append(m.Events, ev)
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, ev)
	}
	return nil
}

// MockSource is a DataSource whose result is supplied by FetchFunc.
type MockSource struct {
	FetchFunc func(ctx context.Context) ([]Appointment, error)
}

func (m MockSource) FetchAppointments(ctx context.Context) ([]Appointment, error) {
	return m.FetchFunc(ctx)
}

func fixedClock(date string) Clock {
	d := MustParseDate(date)
	return func() time.Time {
		return d.Time().Add(15 * time.Hour)
	}
}

func newTestDashboard(t *testing.T, records []Appointment) (*Dashboard, *MockPublisher) {
	t.Helper()
	pub := &MockPublisher{}
	d := NewDashboard(NewStore(), pub, fixedClock("2025-11-06"))
	require.NoError(t, d.Load(context.Background(), SliceSource(records)))
	return d, pub
}

func TestDashboardReportsLoadingUntilFetchCompletes(t *testing.T) {
	release := make(chan struct{})
	src := MockSource{FetchFunc: func(ctx context.Context) ([]Appointment, error) {
		<-release
		return Fixtures(), nil
	}}
	d := NewDashboard(NewStore(), nil, fixedClock("2025-11-06"))

	done := make(chan error, 1)
	go func() { done <- d.Load(context.Background(), src) }()

	_, err := d.Visible(TabAll, Date{})
	assert.ErrorIs(t, err, ErrStillLoading)
	_, err = d.Stats()
	assert.ErrorIs(t, err, ErrStillLoading)
	_, err = d.UpdateStatus(context.Background(), "1", StatusConfirmed)
	assert.ErrorIs(t, err, ErrStillLoading)

	close(release)
	require.NoError(t, <-done)

	list, err := d.Visible(TabAll, Date{})
	require.NoError(t, err)
	assert.Len(t, list, 6)
}

func TestDashboardLoadFailureIsDistinct(t *testing.T) {
	boom := errors.New("connection refused")
	d := NewDashboard(NewStore(), nil, fixedClock("2025-11-06"))

	err := d.Load(context.Background(), MockSource{FetchFunc: func(context.Context) ([]Appointment, error) {
		return nil, boom
	}})
	require.ErrorIs(t, err, boom)

	_, err = d.Visible(TabAll, Date{})
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.NotErrorIs(t, err, ErrStillLoading)

	state, cause := d.State()
	assert.Equal(t, StateFailed, state)
	assert.ErrorIs(t, cause, boom)
}

func TestDashboardLoadRejectsDuplicateIDs(t *testing.T) {
	d := NewDashboard(NewStore(), nil, fixedClock("2025-11-06"))
	recs := append(Fixtures(), Fixtures()[0])

	err := d.Load(context.Background(), SliceSource(recs))
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = d.Stats()
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestDashboardScenarios(t *testing.T) {
	d, _ := newTestDashboard(t, scenario)

	today, err := d.Visible(TabToday, Date{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(today))

	upcoming, err := d.Visible(TabUpcoming, Date{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(upcoming))

	for _, tab := range []Tab{TabUpcoming, TabToday, TabPast, TabAll} {
		got, err := d.Visible(tab, MustParseDate("2025-11-15"))
		require.NoError(t, err)
		assert.Empty(t, got, tab)
	}

	before, err := d.Stats()
	require.NoError(t, err)

	change, err := d.UpdateStatus(context.Background(), "a", StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, change.PreviousStatus)

	today, err = d.Visible(TabToday, Date{})
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, StatusCancelled, today[0].Status)

	after, err := d.Stats()
	require.NoError(t, err)
	assert.Equal(t, before.Confirmed-1, after.Confirmed)
}

func TestDashboardStatsIgnoreViewState(t *testing.T) {
	d, _ := newTestDashboard(t, Fixtures())
	want, err := d.Stats()
	require.NoError(t, err)

	d.SetActiveTab(TabPast)
	d.SelectDate(MustParseDate("2025-11-15"))

	got, err := d.Stats()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 3, got.Today)
}

func TestDashboardCurrentUsesViewState(t *testing.T) {
	d, _ := newTestDashboard(t, Fixtures())

	list, view, err := d.Current()
	require.NoError(t, err)
	assert.Equal(t, TabAll, view.ActiveTab)
	assert.Len(t, list, 6)

	d.SetActiveTab(TabUpcoming)
	list, _, err = d.Current()
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "6"}, ids(list))

	d.SelectDate(MustParseDate("2025-11-05"))
	list, _, err = d.Current()
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, ids(list))

	d.ClearDate()
	assert.True(t, d.ViewState().SelectedDate.IsZero())
}

func TestDashboardUpdateStatusPublishes(t *testing.T) {
	d, pub := newTestDashboard(t, Fixtures())

	_, err := d.UpdateStatus(context.Background(), "2", StatusConfirmed)
	require.NoError(t, err)

	require.Len(t, pub.Events, 1)
	assert.Equal(t, EventStatusUpdated, pub.Events[0].Type)
	assert.Equal(t, "2", pub.Events[0].AppointmentID)
	assert.Equal(t, StatusScheduled, pub.Events[0].Payload["previous_status"])
}

func TestDashboardUpdateStatusFailuresDoNotPublish(t *testing.T) {
	d, pub := newTestDashboard(t, Fixtures())
	before := d.store.Snapshot()

	_, err := d.UpdateStatus(context.Background(), "nope", StatusConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	_, err = d.UpdateStatus(context.Background(), "1", Status("bogus"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	assert.Empty(t, pub.Events)
	assert.Equal(t, before, d.store.Snapshot())
}

func TestDashboardPublishFailureKeepsMutation(t *testing.T) {
	d, pub := newTestDashboard(t, Fixtures())
	pub.PublishFunc = func(context.Context, Event) error { return errors.New("redis down") }

	change, err := d.UpdateStatus(context.Background(), "1", StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, change.NewStatus)

	a, _ := d.store.Get("1")
	assert.Equal(t, StatusCompleted, a.Status)
}

func TestDashboardQuickAdd(t *testing.T) {
	d, pub := newTestDashboard(t, Fixtures())
	d.SetActiveTab(TabPast)

	in := StaticCollector{
		FieldPatientName: "Jane Roe",
		FieldDoctorName:  "Dr. Smith",
		FieldTime:        "10:30 AM",
	}
	a, err := d.QuickAdd(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "2025-11-06", a.Date.String())
	assert.Equal(t, StatusScheduled, a.Status)
	assert.Equal(t, TabAll, d.ViewState().ActiveTab)

	all, err := d.Visible(TabAll, Date{})
	require.NoError(t, err)
	assert.Equal(t, a.ID, all[0].ID)

	today, err := d.Visible(TabToday, Date{})
	require.NoError(t, err)
	assert.Contains(t, ids(today), a.ID)

	require.Len(t, pub.Events, 1)
	assert.Equal(t, EventAppointmentAdded, pub.Events[0].Type)
}

func TestDashboardQuickAddAbortLeavesStoreAndView(t *testing.T) {
	d, pub := newTestDashboard(t, Fixtures())
	d.SetActiveTab(TabPast)
	before := d.store.Snapshot()

	_, err := d.QuickAdd(context.Background(), StaticCollector{FieldPatientName: "Jane"})
	assert.ErrorIs(t, err, ErrQuickAddAborted)

	assert.Equal(t, before, d.store.Snapshot())
	assert.Equal(t, TabPast, d.ViewState().ActiveTab)
	assert.Empty(t, pub.Events)
}

func TestDashboardQuickAddUnknownModeStillInserts(t *testing.T) {
	d, _ := newTestDashboard(t, Fixtures())

	a, err := d.QuickAdd(context.Background(), StaticCollector{
		FieldPatientName: "Jane",
		FieldDoctorName:  "Dr. Who",
		FieldTime:        "09:00 AM",
		FieldMode:        "Phone",
	})
	require.NoError(t, err)
	assert.Equal(t, ModeInPerson, a.Mode)

	list, err := d.Visible(TabAll, Date{})
	require.NoError(t, err)
	require.Len(t, list, 7)
	assert.Equal(t, a.ID, list[0].ID)
}

func TestDashboardQuickAddRequiresLoadedStore(t *testing.T) {
	d := NewDashboard(NewStore(), nil, fixedClock("2025-11-06"))

	_, err := d.QuickAdd(context.Background(), StaticCollector{
		FieldPatientName: "Jane",
		FieldDoctorName:  "Dr",
		FieldTime:        "9",
	})
	assert.ErrorIs(t, err, ErrStillLoading)
}

func TestDashboardCategorize(t *testing.T) {
	d, _ := newTestDashboard(t, Fixtures())

	b, err := d.Categorize()
	require.NoError(t, err)
	assert.Len(t, b.Today, 3)
	assert.Len(t, b.Upcoming, 2)
	assert.Len(t, b.Past, 1)
}

func TestFixtureSourceHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FixtureSource{Delay: time.Minute}.FetchAppointments(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	recs, err := FixtureSource{}.FetchAppointments(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 6)
}
