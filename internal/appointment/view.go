package appointment

import "strings"

type Tab string

const (
	TabUpcoming Tab = "Upcoming"
	TabToday    Tab = "Today"
	TabPast     Tab = "Past"
	TabAll      Tab = "All"
)

// SelectVisible derives the list a dashboard renders. A set selectedDate
// wins over the tab; unknown tabs behave like TabAll. Collection order is
// preserved and records is never modified.
func SelectVisible(records []Appointment, tab Tab, selectedDate, reference Date) []Appointment {
	out := make([]Appointment, 0, len(records))

	if !selectedDate.IsZero() {
		for _, a := range records {
			if MatchesDate(a.Date, selectedDate) {
				out = append(out, a)
			}
		}
		return out
	}

	for _, a := range records {
		c := Classify(a.Date, reference)
		switch tab {
		case TabUpcoming:
			if !c.IsUpcoming {
				continue
			}
		case TabPast:
			if !c.IsPast {
				continue
			}
		case TabToday:
			if !c.IsToday {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// Filter narrows a list by record attributes. Zero fields match anything;
// Status is compared case-insensitively.
type Filter struct {
	Date   Date
	Status string
	Mode   Mode
}

func (f Filter) IsZero() bool {
	return f.Date.IsZero() && f.Status == "" && f.Mode == ""
}

func (f Filter) Match(a Appointment) bool {
	if !f.Date.IsZero() && !a.Date.Equal(f.Date) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(string(a.Status), f.Status) {
		return false
	}
	if f.Mode != "" && a.Mode != f.Mode {
		return false
	}
	return true
}

func ApplyFilter(records []Appointment, f Filter) []Appointment {
	if f.IsZero() {
		return records
	}
	out := make([]Appointment, 0, len(records))
	for _, a := range records {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}

type Buckets struct {
	Today    []Appointment `json:"today"`
	Upcoming []Appointment `json:"upcoming"`
	Past     []Appointment `json:"past"`
}

// Categorize splits records into the three disjoint buckets.
func Categorize(records []Appointment, reference Date) Buckets {
	b := Buckets{
		Today:    []Appointment{},
		Upcoming: []Appointment{},
		Past:     []Appointment{},
	}
	for _, a := range records {
		switch Classify(a.Date, reference).Bucket() {
		case BucketToday:
			b.Today = append(b.Today, a)
		case BucketUpcoming:
			b.Upcoming = append(b.Upcoming, a)
		default:
			b.Past = append(b.Past, a)
		}
	}
	return b
}
