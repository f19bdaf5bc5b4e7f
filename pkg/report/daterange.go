package report

import (
	"time"
)

// DefaultDays is the length of the default report window, today
// included.
const DefaultDays = 30

// Range is an inclusive time interval of whole days.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t is inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// StartDate and EndDate format range limits as YYYY-MM-DD.
func (r Range) StartDate() string { return r.Start.Format(time.DateOnly) }
func (r Range) EndDate() string   { return r.End.Format(time.DateOnly) }

// ParseRange builds a report range from optional YYYY-MM-DD dates.
//
//   - no dates: the last 30 days, today included;
//   - start only: the start day;
//   - end only: 30 days ending with the end day;
//   - both: from the start of start to the end of end.
//
// Days are taken in the location of today.
func ParseRange(start, end string, today time.Time) (Range, error) {
	loc := today.Location()
	var res Range
	var hasStart, hasEnd bool

	if start != "" {
		d, err := time.ParseInLocation(time.DateOnly, start, loc)
		if err != nil {
			return res, DateError(start, err)
		}
		res.Start = startOfDay(d)
		hasStart = true
	}
	if end != "" {
		d, err := time.ParseInLocation(time.DateOnly, end, loc)
		if err != nil {
			return res, DateError(end, err)
		}
		res.End = endOfDay(d)
		hasEnd = true
	}

	switch {
	case !hasStart && !hasEnd:
		res.End = endOfDay(today)
		res.Start = startOfDay(today.AddDate(0, 0, -(DefaultDays - 1)))
	case hasStart && !hasEnd:
		res.End = endOfDay(res.Start)
	case !hasStart && hasEnd:
		res.Start = startOfDay(res.End.AddDate(0, 0, -(DefaultDays - 1)))
	}

	if res.Start.After(res.End) {
		return res, RangeError(res.StartDate(), res.EndDate())
	}
	return res, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Millisecond), t.Location())
}
