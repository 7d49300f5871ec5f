package appointment

type Bucket string

const (
	BucketToday    Bucket = "today"
	BucketUpcoming Bucket = "upcoming"
	BucketPast     Bucket = "past"
)

// Classification is the position of an appointment date relative to a
// reference date. Exactly one of the three flags is set.
type Classification struct {
	IsToday    bool
	IsUpcoming bool
	IsPast     bool
}

func Classify(appointmentDate, reference Date) Classification {
	return Classification{
		IsToday:    appointmentDate.Equal(reference),
		IsUpcoming: appointmentDate.After(reference),
		IsPast:     appointmentDate.Before(reference),
	}
}

func (c Classification) Bucket() Bucket {
	switch {
	case c.IsToday:
		return BucketToday
	case c.IsUpcoming:
		return BucketUpcoming
	default:
		return BucketPast
	}
}

// MatchesDate is the calendar filter predicate.
func MatchesDate(appointmentDate, selected Date) bool {
	return appointmentDate.Equal(selected)
}
