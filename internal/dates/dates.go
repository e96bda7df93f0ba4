package dates

import (
	"fmt"
	"time"
)

// Layout is the only accepted text form of a Date.
const Layout = "2006-01-02"

// Date is a calendar day in UTC with no time component.
type Date struct {
	t time.Time
}

// Parse reads a strict YYYY-MM-DD literal. The second result is false for
// anything else, including out-of-range months and days.
func Parse(s string) (Date, bool) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, false
	}
	return Date{t: t}, true
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Date {
	d, ok := Parse(s)
	if !ok {
		panic(fmt.Sprintf("dates: invalid date %q", s))
	}
	return d
}

// FromTime truncates t to its calendar day in t's location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time { return d.t }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

const secondsPerDay = 24 * 60 * 60

// DaysUntil returns the number of calendar days from d to o, negative when o
// is earlier. Both sides are UTC midnights, so whole-second arithmetic is
// exact at any distance.
func (d Date) DaysUntil(o Date) int {
	return int((o.t.Unix() - d.t.Unix()) / secondsPerDay)
}

func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, ok := Parse(string(b))
	if !ok {
		return fmt.Errorf("dates: invalid date %q", string(b))
	}
	*d = parsed
	return nil
}

// NightsBetween returns the calendar-day difference between two date
// literals. It does not check that the result is positive.
func NightsBetween(checkIn, checkOut string) (int, bool) {
	in, ok := Parse(checkIn)
	if !ok {
		return 0, false
	}
	out, ok := Parse(checkOut)
	if !ok {
		return 0, false
	}
	return in.DaysUntil(out), true
}

// Overlaps reports whether [startA, endA) and [startB, endB) share a day.
// The end day of each range is not occupied.
func Overlaps(startA, endA, startB, endB Date) bool {
	return startA.Before(endB) && startB.Before(endA)
}
