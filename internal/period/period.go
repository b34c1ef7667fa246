package period

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period, want YYYY-MM")

// Period is one accounting month.
type Period struct {
	Year  int
	Month time.Month
}

func Parse(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

func FromTime(t time.Time) Period {
	return Period{Year: t.UTC().Year(), Month: t.UTC().Month()}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Start is the first instant of the period, in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the exclusive upper bound: the first instant of the next period.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

func (p Period) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(p.Start()) && u.Before(p.End())
}

func (p Period) Next() Period {
	return FromTime(p.End())
}

func (p Period) Prev() Period {
	return FromTime(p.Start().AddDate(0, -1, 0))
}

// Nights counts whole nights in a stay window, ignoring the time of day
// each endpoint carries.
func Nights(checkIn, checkOut time.Time) int {
	in := dateOnly(checkIn)
	out := dateOnly(checkOut)
	return int(out.Sub(in).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
