package appointment

import (
	"context"
	"time"
)

// fixtureRecords is the demo data set, in the raw shape upstream systems
// send. Record 4 carries the legacy "Upcoming" status.
var fixtureRecords = []RawAppointment{
	{ID: "1", PatientName: "Sarah Johnson", Date: "2025-11-06", Time: "09:00 AM", Duration: "30 min", DoctorName: "Dr. Rajesh Kumar", Mode: "In-Person", Status: "Confirmed"},
	{ID: "2", PatientName: "Michael Chen", Date: "2025-11-06", Time: "10:00 AM", Duration: "45 min", DoctorName: "Dr. Priya Sharma", Mode: "In-Person", Status: "Scheduled"},
	{ID: "3", PatientName: "Emily Rodriguez", Date: "2025-11-06", Time: "11:30 AM", Duration: "30 min", DoctorName: "Dr. Rajesh Kumar", Mode: "Video Call", Status: "Confirmed"},
	{ID: "4", PatientName: "John Doe", Date: "2025-11-07", Time: "02:00 PM", Duration: "15 min", DoctorName: "Dr. Priya Sharma", Mode: "In-Person", Status: "Upcoming"},
	{ID: "5", PatientName: "Alice Cooper", Date: "2025-11-05", Time: "09:30 AM", Duration: "60 min", DoctorName: "Dr. Rajesh Kumar", Mode: "Video Call", Status: "Completed"},
	{ID: "6", PatientName: "Bob Smith", Date: "2025-11-15", Time: "04:00 PM", Duration: "30 min", DoctorName: "Dr. Priya Sharma", Mode: "In-Person", Status: "Scheduled"},
}

// Fixtures returns a fresh normalised copy of the demo data set.
func Fixtures() []Appointment {
	out, err := NormalizeAll(fixtureRecords)
	if err != nil {
		panic(err)
	}
	return out
}

// FixtureSource serves Fixtures, optionally after a delay that stands in
// for network latency.
type FixtureSource struct {
	Delay time.Duration
}

func (s FixtureSource) FetchAppointments(ctx context.Context) ([]Appointment, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return Fixtures(), nil
}

// SliceSource serves a fixed list.
type SliceSource []Appointment

func (s SliceSource) FetchAppointments(context.Context) ([]Appointment, error) {
	out := make([]Appointment, len(s))
	copy(out, s)
	return out, nil
}
