package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Clock
		wantErr bool
	}{
		{"simple", "09:30", Clock(9*60 + 30), false},
		{"midnight", "00:00", Clock(0), false},
		{"end of day", "23:59", Clock(23*60 + 59), false},
		{"with seconds", "17:00:00", Clock(17 * 60), false},
		{"seconds ignored", "17:00:45", Clock(17 * 60), false},
		{"hour out of range", "24:00", 0, true},
		{"minute out of range", "12:60", 0, true},
		{"negative hour", "-1:00", 0, true},
		{"missing minute", "12", 0, true},
		{"too many parts", "12:00:00:00", 0, true},
		{"not a number", "ab:cd", 0, true},
		{"bad seconds", "12:00:xx", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockString(t *testing.T) {
	assert.Equal(t, "09:30", MustClock("09:30").String())
	assert.Equal(t, "00:05", MustClock("0:5").String())
	assert.Equal(t, "23:00", MustClock("23:00:15").String())
}

func TestSpanHours(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  float64
	}{
		{"full day shift", "09:00", "17:00", 8},
		{"half hour granularity", "09:30", "12:00", 2.5},
		{"zero duration", "12:00", "12:00", 0},
		{"inverted treated as zero", "17:00", "09:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpanHours(MustClock(tt.start), MustClock(tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name       string
		input      time.Time
		wantMonday string
	}{
		{
			name:       "from a Wednesday",
			input:      time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC),
			wantMonday: "2026-03-02",
		},
		{
			name:       "from a Monday",
			input:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			wantMonday: "2026-03-02",
		},
		{
			name:       "from a Sunday",
			input:      time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC),
			wantMonday: "2026-03-02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week := WeekRange(tt.input)
			assert.Equal(t, tt.wantMonday, DateKey(week[0]))
			assert.Equal(t, time.Monday, week[0].Weekday())
			assert.Equal(t, time.Sunday, week[6].Weekday())
			for i, date := range week {
				assert.Equal(t, 0, date.Hour(), "date %d should be midnight", i)
				expected := week[0].AddDate(0, 0, i)
				assert.Equal(t, DateKey(expected), DateKey(date))
			}
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	week := WeekRange(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	for i, day := range Weekdays {
		assert.Equal(t, day, WeekdayOf(week[i]))
	}
}

func TestDateForWeekday(t *testing.T) {
	week := WeekRange(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))

	date, err := DateForWeekday(Thursday, week[:])
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", DateKey(date))

	_, err = DateForWeekday(Monday, week[:3])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWeek)

	_, err = DateForWeekday(Weekday("someday"), week[:])
	assert.Error(t, err)
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday("Monday")
	require.NoError(t, err)
	assert.Equal(t, Monday, day)

	day, err = ParseWeekday(" friday ")
	require.NoError(t, err)
	assert.Equal(t, Friday, day)

	_, err = ParseWeekday("humpday")
	assert.Error(t, err)
}
