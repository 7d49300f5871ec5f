package appointment

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := map[string]string{
		"2025-11-06":                "2025-11-06",
		" 2025-11-06 ":              "2025-11-06",
		"2025-11-06T23:59:59Z":      "2025-11-06",
		"2025-11-06T00:30:00+09:00": "2025-11-06",
		"2025-11-06T08:00:00":       "2025-11-06",
	}
	for in, want := range cases {
		d, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.String(), in)
	}

	for _, bad := range []string{"", "2025-13-01", "11/06/2025", "2025-11"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestTimestampsOnSameDayClassifyIdentically(t *testing.T) {
	ref := MustParseDate("2025-11-06")
	early := MustParseDate("2025-11-06T00:00:01+14:00")
	late := MustParseDate("2025-11-06T23:59:59-12:00")

	assert.Equal(t, Classify(early, ref), Classify(late, ref))
	assert.True(t, Classify(early, ref).IsToday)
}

func TestDateOfUsesWallClock(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	instant := time.Date(2025, 11, 5, 20, 0, 0, 0, time.UTC) // 05:00 on the 6th in UTC+9

	assert.Equal(t, "2025-11-05", DateOf(instant).String())
	assert.Equal(t, "2025-11-06", DateOf(instant.In(loc)).String())
}

func TestDateOfTruncatesToMidnightUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	late := time.Date(2025, 11, 6, 23, 59, 0, 0, loc)

	d := DateOf(late)
	assert.Equal(t, time.Date(2025, 11, 6, 0, 0, 0, 0, time.UTC), d.Time())
	assert.True(t, d.Equal(MustParseDate("2025-11-06")))
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		D Date `json:"d"`
	}

	data, err := json.Marshal(wrapper{D: NewDate(2025, time.November, 6)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2025-11-06"}`, string(data))

	data, err = json.Marshal(wrapper{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":null}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2025-11-07"}`), &w))
	assert.True(t, w.D.Equal(MustParseDate("2025-11-07")))

	require.NoError(t, json.Unmarshal([]byte(`{"d":null}`), &w))
	assert.True(t, w.D.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"d":"nope"}`), &w))
}

func TestDateOrdering(t *testing.T) {
	a := MustParseDate("2025-11-06")
	b := a.AddDays(1)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
	assert.Equal(t, "2025-12-01", MustParseDate("2025-11-30").AddDays(1).String())
}
