package appointment

// Stats are KPI counters over the unfiltered collection. The counters are
// independent: one record may contribute to several of them.
type Stats struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	Upcoming  int `json:"upcoming"`
	Confirmed int `json:"confirmed"`
	Video     int `json:"video"`
}

func ComputeStats(records []Appointment, reference Date) Stats {
	st := Stats{Total: len(records)}
	for _, a := range records {
		c := Classify(a.Date, reference)
		if c.IsToday {
			st.Today++
		}
		if c.IsUpcoming {
			st.Upcoming++
		}
		if a.Status == StatusConfirmed {
			st.Confirmed++
		}
		if a.Mode == ModeVideo {
			st.Video++
		}
	}
	return st
}
