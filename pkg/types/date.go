package types

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Year bounds a Date accepts. Both ends fit the four-digit yyyy form.
const (
	GregorianStart = 1582
	MaxYear        = 9999
)

// dateFormat matches zero-padded mm/dd/yyyy.
var dateFormat = regexp.MustCompile(`^(1[0-2]|0[1-9])/(3[01]|[12][0-9]|0[1-9])/[0-9]{4}$`)

// Date is a validated Gregorian calendar date. The zero value is not a valid
// date; constructors and record setters treat it as "unset".
type Date struct {
	Month int
	Day   int
	Year  int
}

// NewDate returns the date for the given month, day, and year.
// Returns an error wrapping ErrInvalidDate if any component is out of range.
func NewDate(month, day, year int) (Date, error) {
	if year < GregorianStart {
		return Date{}, fmt.Errorf("%w: year %d is before %d", ErrInvalidDate, year, GregorianStart)
	}
	if year > MaxYear {
		return Date{}, fmt.Errorf("%w: year %d is after %d", ErrInvalidDate, year, MaxYear)
	}
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("%w: month %d out of range", ErrInvalidDate, month)
	}
	if last := DaysInMonth(month, year); day < 1 || day > last {
		return Date{}, fmt.Errorf("%w: month %d of %d has %d days, got %d", ErrInvalidDate, month, year, last, day)
	}
	return Date{Month: month, Day: day, Year: year}, nil
}

// NewDateOrToday is NewDate with the fallback made explicit: an invalid
// date yields Today.
func NewDateOrToday(month, day, year int) Date {
	d, err := NewDate(month, day, year)
	if err != nil {
		return Today()
	}
	return d
}

// ParseDate parses a zero-padded mm/dd/yyyy string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if !dateFormat.MatchString(s) {
		return Date{}, fmt.Errorf("%w: %q is not mm/dd/yyyy", ErrInvalidDate, s)
	}
	parts := strings.Split(s, "/")
	// The pattern guarantees three numeric parts.
	month, _ := strconv.Atoi(parts[0])
	day, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])
	return NewDate(month, day, year)
}

// ParseDateOrToday parses s, falling back to Today when s is invalid.
func ParseDateOrToday(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		return Today()
	}
	return d
}

// ValidDate reports whether s is a zero-padded mm/dd/yyyy string naming a
// real Gregorian date. It does not construct a Date.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// Today returns the current local date.
func Today() Date {
	now := time.Now()
	return Date{Month: int(now.Month()), Day: now.Day(), Year: now.Year()}
}

// DaysInMonth returns the number of days in month of year.
func DaysInMonth(month, year int) int {
	switch month {
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// IsZero reports whether d is the unset zero value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare orders dates by year, then month, then day.
func (d Date) Compare(other Date) int {
	if c := cmp.Compare(d.Year, other.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Month, other.Month); c != 0 {
		return c
	}
	return cmp.Compare(d.Day, other.Day)
}

// Equal reports whether both dates name the same day.
func (d Date) Equal(other Date) bool {
	return d == other
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// String formats the date as mm/dd/yyyy.
func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%d", d.Month, d.Day, d.Year)
}

// MarshalText encodes the date as mm/dd/yyyy.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes an mm/dd/yyyy date.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Check returns an error wrapping ErrInvalidDate unless d names a real date.
// The zero value fails.
func (d Date) Check() error {
	_, err := NewDate(d.Month, d.Day, d.Year)
	return err
}

// orToday substitutes Today for an unset date.
func orToday(d Date) Date {
	if d.IsZero() {
		return Today()
	}
	return d
}

// setDate converts an update value for a date field. An unset date becomes
// Today; any other date must be valid.
func setDate(field string, value any) (Date, error) {
	d, ok := value.(Date)
	if !ok {
		return Date{}, mismatch(field, "Date", value)
	}
	if d.IsZero() {
		return Today(), nil
	}
	if err := d.Check(); err != nil {
		return Date{}, fmt.Errorf("field %q: %w", field, err)
	}
	return d, nil
}
