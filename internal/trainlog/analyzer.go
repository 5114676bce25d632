package trainlog

import (
	"fmt"
	"time"
)

// MetricField names a numeric per-session value the analyzer can
// aggregate over. Load is derived, the rest are stored fields.
type MetricField string

const (
	FieldDuration    MetricField = "duration"
	FieldDistance    MetricField = "distance"
	FieldRPE         MetricField = "rpe"
	FieldPerformance MetricField = "performance"
	FieldEngagement  MetricField = "engagement"
	FieldFatigue     MetricField = "fatigue"
	FieldLoad        MetricField = "load"
)

// ParseMetricField validates a field label coming from a request path.
func ParseMetricField(s string) (MetricField, error) {
	switch f := MetricField(s); f {
	case FieldDuration, FieldDistance, FieldRPE,
		FieldPerformance, FieldEngagement, FieldFatigue, FieldLoad:
		return f, nil
	default:
		return "", fmt.Errorf("unknown metric field: %q", s)
	}
}

// value extracts the field from one record. Optional fields that were
// never rated report ok=false and stay out of averages.
func (f MetricField) value(rec SessionRecord) (int, bool) {
	switch f {
	case FieldDuration:
		return rec.Duration, true
	case FieldDistance:
		if rec.Distance == nil {
			return 0, false
		}
		return *rec.Distance, true
	case FieldRPE:
		return rec.RPE, true
	case FieldPerformance:
		if rec.Performance == nil {
			return 0, false
		}
		return *rec.Performance, true
	case FieldEngagement:
		if rec.Engagement == nil {
			return 0, false
		}
		return *rec.Engagement, true
	case FieldFatigue:
		if rec.Fatigue == nil {
			return 0, false
		}
		return *rec.Fatigue, true
	case FieldLoad:
		return rec.Load(), true
	default:
		return 0, false
	}
}

// WindowFilter keeps the sessions dated within [today-days, today],
// both ends included. Non-positive days means no filtering.
func WindowFilter(sessions []SessionRecord, days int, now time.Time) []SessionRecord {
	if days <= 0 {
		return sessions
	}
	cutoff := TruncateToDay(now).AddDate(0, 0, -days)
	out := make([]SessionRecord, 0, len(sessions))
	for _, rec := range sessions {
		if rec.SessionDate.Before(cutoff) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Average computes the mean of a field over the sessions that carry it.
// The second return is false when no session carries the field, so the
// caller can render "no data" instead of a misleading zero.
func Average(sessions []SessionRecord, field MetricField) (float64, bool) {
	var sum, n int
	for _, rec := range sessions {
		v, ok := field.value(rec)
		if !ok {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// Sum totals a field over the sessions that carry it.
func Sum(sessions []SessionRecord, field MetricField) int {
	var sum int
	for _, rec := range sessions {
		v, ok := field.value(rec)
		if !ok {
			continue
		}
		sum += v
	}
	return sum
}

// TotalLoad is the accumulated training stress over the window.
func TotalLoad(sessions []SessionRecord) int {
	return Sum(sessions, FieldLoad)
}
