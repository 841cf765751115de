// Package request holds the input schema shared by the compensation endpoints.
package request

import (
	"net/http"
	"time"

	"go-fleetpay/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"period start must be before or equal period end",
		http.StatusBadRequest,
	)
	ErrPeriodRequired = apperror.New(
		apperror.CodeInvalidInput,
		"period start and period end are required",
		http.StatusBadRequest,
	)
	ErrIncompletePeriod = apperror.New(
		apperror.CodeInvalidInput,
		"period start and period end must be given together",
		http.StatusBadRequest,
	)
)

// Period is an inclusive calendar-date range in UTC.
type Period struct {
	Start time.Time
	End   time.Time
}

// EndExclusive is the first instant after the last day of the period, for
// filtering timestamp columns.
func (p Period) EndExclusive() time.Time {
	return p.End.AddDate(0, 0, 1)
}

func (p Period) Contains(t time.Time) bool {
	d := truncateDay(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// DateRange is the raw pair of date strings as bound from JSON. Endpoints
// embed the pair under their own field names and convert here.
type DateRange struct {
	Start string
	End   string
}

// Required parses both ends and rejects an empty side.
func (r DateRange) Required() (Period, error) {
	if r.Start == "" || r.End == "" {
		return Period{}, ErrPeriodRequired
	}
	return r.parse()
}

// OrDefault parses the range, or when both ends are empty returns the
// trailing window of days ending on today.
func (r DateRange) OrDefault(today time.Time, days int) (Period, error) {
	if r.Start == "" && r.End == "" {
		end := truncateDay(today)
		return Period{Start: end.AddDate(0, 0, -(days - 1)), End: end}, nil
	}
	if r.Start == "" || r.End == "" {
		return Period{}, ErrIncompletePeriod
	}
	return r.parse()
}

func (r DateRange) parse() (Period, error) {
	start, err := ParseDate(r.Start)
	if err != nil {
		return Period{}, err
	}
	end, err := ParseDate(r.End)
	if err != nil {
		return Period{}, err
	}
	if start.After(end) {
		return Period{}, ErrInvalidDateRange
	}
	return Period{Start: start, End: end}, nil
}

func ParseDate(v string) (time.Time, error) {
	t, err := time.Parse(apperror.DateLayout, v)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(apperror.DateLayout)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
