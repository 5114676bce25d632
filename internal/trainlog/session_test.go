package trainlog_test

import (
	"sort"
	"testing"

	"github.com/aquaclub/swimtrack/internal/trainlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func testSession(t *testing.T, date string, slot trainlog.TimeSlot) trainlog.SessionRecord {
	t.Helper()
	d, err := trainlog.ParseCalendarDate(date)
	require.NoError(t, err)
	return trainlog.SessionRecord{
		AthleteName: "Mira",
		SessionDate: d,
		TimeSlot:    slot,
		Duration:    90,
		Distance:    intPtr(3000),
		RPE:         6,
		Performance: intPtr(7),
		Engagement:  intPtr(8),
		Fatigue:     intPtr(4),
		Comments:    "solid aerobic block",
	}
}

func TestSessionRecord_Load(t *testing.T) {
	rec := testSession(t, "2025-03-05", trainlog.SlotMorning)
	assert.Equal(t, 540, rec.Load())

	rec.Duration = 0
	assert.Equal(t, 0, rec.Load())
}

func TestSessionRecord_IdentityKey(t *testing.T) {
	rec1 := testSession(t, "2025-03-05", trainlog.SlotMorning)
	rec2 := testSession(t, "2025-03-05", trainlog.SlotMorning)

	// comments don't participate in identity
	rec2.Comments = "edited later in the spreadsheet"
	assert.Equal(t, rec1.IdentityKey(), rec2.IdentityKey())

	rec2.TimeSlot = trainlog.SlotEvening
	assert.NotEqual(t, rec1.IdentityKey(), rec2.IdentityKey())

	rec3 := testSession(t, "2025-03-05", trainlog.SlotMorning)
	rec3.Distance = nil
	assert.NotEqual(t, rec1.IdentityKey(), rec3.IdentityKey())
}

func TestSessionRecord_Validate(t *testing.T) {
	valid := testSession(t, "2025-03-05", trainlog.SlotMorning)
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name   string
		mutate func(*trainlog.SessionRecord)
		field  string
	}{
		{
			name:   "empty athlete name",
			mutate: func(r *trainlog.SessionRecord) { r.AthleteName = "  " },
			field:  "athleteName",
		},
		{
			name:   "zero date",
			mutate: func(r *trainlog.SessionRecord) { r.SessionDate = trainlog.CalendarDate{} },
			field:  "sessionDate",
		},
		{
			name:   "negative duration",
			mutate: func(r *trainlog.SessionRecord) { r.Duration = -10 },
			field:  "duration",
		},
		{
			name:   "rpe too high",
			mutate: func(r *trainlog.SessionRecord) { r.RPE = 11 },
			field:  "rpe",
		},
		{
			name:   "rpe zero",
			mutate: func(r *trainlog.SessionRecord) { r.RPE = 0 },
			field:  "rpe",
		},
		{
			name:   "negative distance",
			mutate: func(r *trainlog.SessionRecord) { r.Distance = intPtr(-5) },
			field:  "distance",
		},
		{
			name:   "fatigue out of range",
			mutate: func(r *trainlog.SessionRecord) { r.Fatigue = intPtr(12) },
			field:  "fatigue",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := testSession(t, "2025-03-05", trainlog.SlotMorning)
			tc.mutate(&rec)
			err := rec.Validate()
			require.Error(t, err)
			var valErr *trainlog.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tc.field, valErr.Field)
		})
	}
}

func TestSessionRecord_ValidateOptionalFieldsAbsent(t *testing.T) {
	rec := testSession(t, "2025-03-05", trainlog.SlotMorning)
	rec.Distance = nil
	rec.Performance = nil
	rec.Engagement = nil
	rec.Fatigue = nil
	assert.NoError(t, rec.Validate())
}

func TestSessionRecord_CanonicalOrder(t *testing.T) {
	older := testSession(t, "2025-03-01", trainlog.SlotEvening)
	newerMorning := testSession(t, "2025-03-05", trainlog.SlotMorning)
	newerEvening := testSession(t, "2025-03-05", trainlog.SlotEvening)

	sessions := []trainlog.SessionRecord{older, newerEvening, newerMorning}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Less(sessions[j])
	})

	// newest day first, morning before evening within the day
	assert.Equal(t, newerMorning.IdentityKey(), sessions[0].IdentityKey())
	assert.Equal(t, newerEvening.IdentityKey(), sessions[1].IdentityKey())
	assert.Equal(t, older.IdentityKey(), sessions[2].IdentityKey())
}
