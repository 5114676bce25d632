package trainlog

import (
	"sort"
	"time"
)

type SeriesPoint struct {
	Date  CalendarDate `json:"date"`
	Value float64      `json:"value"`
}

// DailyAverage groups the sessions by day and averages the field within
// each day, skipping sessions that don't carry the field. Days with no
// carrying session produce no point. Points come back in ascending date
// order, chart ready.
func DailyAverage(sessions []SessionRecord, field MetricField) []SeriesPoint {
	type acc struct {
		sum int
		n   int
	}
	perDay := make(map[time.Time]*acc)
	for _, rec := range sessions {
		v, ok := field.value(rec)
		if !ok {
			continue
		}
		day := rec.SessionDate.Time
		a := perDay[day]
		if a == nil {
			a = &acc{}
			perDay[day] = a
		}
		a.sum += v
		a.n++
	}

	points := make([]SeriesPoint, 0, len(perDay))
	for day, a := range perDay {
		points = append(points, SeriesPoint{
			Date:  CalendarDate{Time: day},
			Value: float64(a.sum) / float64(a.n),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date.Time)
	})
	return points
}
