package trainlog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Dates arrive in whatever shape the source produced: the web form sends
// ISO, the spreadsheet round-trip tends to send day-first, and manual
// imports send who knows what. Everything is normalized to a UTC midnight
// before it is compared, stored or grouped.

const dayKeyLayout = "2006-01-02"

var (
	isoDateRegex      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	dayFirstDateRegex = regexp.MustCompile(`^(\d{1,2})([/-])(\d{1,2})[/-](\d{4})$`)

	// generic fallbacks, tried in order
	fallbackLayouts = []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006/01/02",
		time.RFC1123,
		time.RFC822,
	}
)

// swapped in tests
var timeNow = time.Now

var ErrInvalidDate = fmt.Errorf("invalid date")

// NormalizeDate parses a heterogeneous date representation into its
// canonical calendar-day identity: UTC, midnight, no time-of-day.
// It never panics; callers treat an error as "exclude this record".
func NormalizeDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, ErrInvalidDate
	}

	if m := isoDateRegex.FindStringSubmatch(input); m != nil {
		t, err := time.Parse(dayKeyLayout, fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3]))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, input)
		}
		return t, nil
	}

	if m := dayFirstDateRegex.FindStringSubmatch(input); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[3])
		t, err := time.Parse(dayKeyLayout, fmt.Sprintf("%s-%02d-%02d", m[4], month, day))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, input)
		}
		return t, nil
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return TruncateToDay(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, input)
}

// TruncateToDay drops the time-of-day part, keeping the calendar day in UTC
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKey returns the canonical YYYY-MM-DD grouping key for a date
func DayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}

// CalendarDate is a day-granular timestamp with lenient JSON decoding:
// it accepts every input shape NormalizeDate accepts, and always encodes
// back to the canonical YYYY-MM-DD form.
type CalendarDate struct {
	time.Time
}

func NewCalendarDate(t time.Time) CalendarDate {
	return CalendarDate{TruncateToDay(t)}
}

func ParseCalendarDate(input string) (CalendarDate, error) {
	t, err := NormalizeDate(input)
	if err != nil {
		return CalendarDate{}, err
	}
	return CalendarDate{t}, nil
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + DayKey(d.Time) + `"`), nil
}

func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	t, err := NormalizeDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d CalendarDate) Key() string {
	return DayKey(d.Time)
}
