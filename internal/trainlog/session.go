package trainlog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type TimeSlot string

const (
	SlotMorning     TimeSlot = "morning"
	SlotEvening     TimeSlot = "evening"
	SlotUnspecified TimeSlot = "unspecified"
)

// slotRank orders slots within one day: morning first, evening second,
// anything else after that (ties broken lexicographically on the label)
func slotRank(s TimeSlot) int {
	switch s {
	case SlotMorning:
		return 0
	case SlotEvening:
		return 1
	default:
		return 2
	}
}

// SessionRecord is one logged training session. Records are immutable
// after creation: corrections happen by adding a new record.
type SessionRecord struct {
	AthleteName string       `json:"athleteName"`
	SessionDate CalendarDate `json:"sessionDate"`
	TimeSlot    TimeSlot     `json:"timeSlot"`
	Duration    int          `json:"duration"`           // minutes
	Distance    *int         `json:"distance,omitempty"` // meters
	RPE         int          `json:"rpe"`
	Performance *int         `json:"performance,omitempty"`
	Engagement  *int         `json:"engagement,omitempty"`
	Fatigue     *int         `json:"fatigue,omitempty"`
	Comments    string       `json:"comments"`
}

// Load is the training-stress proxy: duration x subjective difficulty.
// Never stored, always recomputed.
func (r SessionRecord) Load() int {
	return r.Duration * r.RPE
}

// IdentityKey produces the deduplication identity of a record. Two
// records with the same key are the same session, regardless of where
// they came from. Comments are deliberately excluded: trivial free-text
// drift between the local and the spreadsheet copy must not create
// duplicates.
func (r SessionRecord) IdentityKey() string {
	parts := []string{
		r.AthleteName,
		r.SessionDate.Key(),
		string(r.TimeSlot),
		strconv.Itoa(r.Duration),
		optIntKey(r.Distance),
		strconv.Itoa(r.RPE),
		optIntKey(r.Performance),
		optIntKey(r.Engagement),
		optIntKey(r.Fatigue),
	}
	return strings.Join(parts, "|")
}

func optIntKey(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid session record: %s %s", e.Field, e.Reason)
}

var ErrNoAthleteName = errors.New("athlete name empty")

// Validate checks a record at an ingestion boundary (form submit, remote
// fetch). Records failing validation never enter the store.
func (r SessionRecord) Validate() error {
	if strings.TrimSpace(r.AthleteName) == "" {
		return &ValidationError{Field: "athleteName", Reason: "must not be empty"}
	}
	if r.SessionDate.IsZero() {
		return &ValidationError{Field: "sessionDate", Reason: "missing or unparseable"}
	}
	if r.Duration < 0 {
		return &ValidationError{Field: "duration", Reason: "must be >= 0"}
	}
	if r.RPE < 1 || r.RPE > 10 {
		return &ValidationError{Field: "rpe", Reason: "must be within [1, 10]"}
	}
	if r.Distance != nil && *r.Distance < 0 {
		return &ValidationError{Field: "distance", Reason: "must be >= 0"}
	}
	for _, rating := range []struct {
		name string
		val  *int
	}{
		{"performance", r.Performance},
		{"engagement", r.Engagement},
		{"fatigue", r.Fatigue},
	} {
		if rating.val != nil && (*rating.val < 1 || *rating.val > 10) {
			return &ValidationError{Field: rating.name, Reason: "must be within [1, 10]"}
		}
	}
	return nil
}

// Less implements the canonical collection order: newest date first,
// morning before evening within one day, deterministic for the rest
func (r SessionRecord) Less(other SessionRecord) bool {
	if !r.SessionDate.Equal(other.SessionDate.Time) {
		return r.SessionDate.After(other.SessionDate.Time)
	}
	ra, rb := slotRank(r.TimeSlot), slotRank(other.TimeSlot)
	if ra != rb {
		return ra < rb
	}
	if r.TimeSlot != other.TimeSlot {
		return r.TimeSlot < other.TimeSlot
	}
	return r.IdentityKey() < other.IdentityKey()
}
