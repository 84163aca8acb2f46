package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date held at UTC midnight. Time of day is never used.
type Date struct {
	time.Time
}

var (
	isoDate    = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	brDate     = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	otherDates = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006/01/02",
		"02.01.2006",
		"Jan 2, 2006",
		"2 Jan 2006",
		"January 2, 2006",
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate accepts ISO (YYYY-MM-DD) and Brazilian (DD/MM/YYYY, DD-MM-YYYY)
// dates first, then a handful of other common layouts. Dates that do not
// exist on the calendar are rejected.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	if m := isoDate.FindStringSubmatch(s); m != nil {
		return civil(m[1], m[2], m[3])
	}
	if m := brDate.FindStringSubmatch(s); m != nil {
		return civil(m[3], m[2], m[1])
	}
	for _, layout := range otherDates {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true
		}
	}
	return Date{}, false
}

func civil(year, month, day string) (Date, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return Date{}, false
	}
	date := NewDate(y, m, d)
	// time.Date normalises 31/02 into March
	if date.Day() != d || int(date.Month()) != m {
		return Date{}, false
	}
	return date, true
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// DaysUntil counts whole calendar days from the date of now to d.
func (d Date) DaysUntil(now time.Time) int {
	today := DateOf(now)
	return int(d.Sub(today.Time).Hours() / 24)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidDate
	}
	v, ok := ParseDate(s)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	*d = v
	return nil
}
