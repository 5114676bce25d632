package trainlog_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aquaclub/swimtrack/internal/trainlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNormalizeDate(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "iso", input: "2025-03-05", want: "2025-03-05"},
		{name: "iso with time", input: "2025-03-05T18:30:00Z", want: "2025-03-05"},
		{name: "day first slash", input: "5/3/2025", want: "2025-03-05"},
		{name: "day first dash", input: "05-03-2025", want: "2025-03-05"},
		{name: "day first two digit", input: "17/11/2024", want: "2024-11-17"},
		{name: "rfc1123", input: "Wed, 05 Mar 2025 10:00:00 UTC", want: "2025-03-05"},
		{name: "whitespace around", input: "  2025-03-05  ", want: "2025-03-05"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "not-a-date", wantErr: true},
		{name: "day first invalid day", input: "32/01/2025", wantErr: true},
		{name: "day first invalid month", input: "01/13/2025", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := trainlog.NormalizeDate(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Format("2006-01-02"))
			assert.Equal(t, 0, got.Hour())
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestNormalizeDate_Idempotent(t *testing.T) {
	first, err := trainlog.NormalizeDate("17/11/2024")
	require.NoError(t, err)

	second, err := trainlog.NormalizeDate(first.Format("2006-01-02"))
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestCalendarDate_JSON(t *testing.T) {
	d, err := trainlog.ParseCalendarDate("5/3/2025")
	require.NoError(t, err)

	marshaled, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-05"`, string(marshaled))

	// lenient decode: both canonical and day-first inputs land on the same day
	var decoded trainlog.CalendarDate
	require.NoError(t, json.Unmarshal([]byte(`"05-03-2025"`), &decoded))
	assert.True(t, d.Equal(decoded.Time))

	var invalid trainlog.CalendarDate
	assert.Error(t, json.Unmarshal([]byte(`"whenever"`), &invalid))
}
