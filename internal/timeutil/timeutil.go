// Package timeutil parses and formats the dataset's timezone-free
// timestamps. Values are seconds since 1970-01-01 00:00, computed with
// plain integer arithmetic so parsing and formatting round-trip exactly.
package timeutil

import (
	"errors"
	"fmt"
)

// Absent is the timestamp produced by the "N/A" sentinel in optional
// time columns. It never collides with a parsed value (those are whole
// minutes) and compares before every timestamp from the epoch onward;
// dates before 1970 parse to values below it.
const Absent int64 = -1

const daySeconds = 86400

var (
	// ErrBadFormat reports a shape mismatch: wrong length, a separator
	// out of position, or a non-digit where a digit belongs.
	ErrBadFormat = errors.New("timeutil: malformed timestamp")

	// ErrOutOfRange reports well-shaped input with an impossible
	// calendar or clock field.
	ErrOutOfRange = errors.New("timeutil: field out of range")
)

// Cumulative day counts before each month in a non-leap year.
var daysBeforeMonth = [12]int64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func daysInMonth(y, m int) int {
	switch m {
	case 2:
		if isLeap(y) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}

func digit(c byte) (int, bool) {
	if c < '0' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}

func number(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		d, ok := digit(s[i])
		if !ok {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// Days-since-epoch for the start of year y. The leap count (y-1969)/4 is
// taken with floor division, so years before 1970 land on their true day
// and stored values format back to the strings they came from. Every
// fourth year counts as a leap year here, which is exact for 1901-2099.
func daysForYear(y int) int64 {
	leaps := int64(y-1969) / 4
	if y < 1969 && (y-1969)%4 != 0 {
		leaps--
	}
	return int64(y-1970)*365 + leaps
}

func epochDay(y, m, d int) int64 {
	days := daysForYear(y) + daysBeforeMonth[m-1] + int64(d-1)
	if isLeap(y) && m > 2 {
		days++
	}
	return days
}

// ParseDate parses "YYYY-MM-DD" strictly: month in [1,12] and day within
// the month's true length, February honouring the leap-year rule.
func ParseDate(s string) (int64, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return 0, ErrBadFormat
	}
	y, okY := number(s[0:4])
	m, okM := number(s[5:7])
	d, okD := number(s[8:10])
	if !okY || !okM || !okD {
		return 0, ErrBadFormat
	}
	if m < 1 || m > 12 || d < 1 || d > daysInMonth(y, m) {
		return 0, ErrOutOfRange
	}
	return epochDay(y, m, d) * daySeconds, nil
}

// ParseDateTime parses "YYYY-MM-DD HH:MM" with the same calendar rules as
// ParseDate plus hour in [0,23] and minute in [0,59].
func ParseDateTime(s string) (int64, error) {
	if len(s) != 16 || s[4] != '-' || s[7] != '-' || s[10] != ' ' || s[13] != ':' {
		return 0, ErrBadFormat
	}
	y, okY := number(s[0:4])
	m, okM := number(s[5:7])
	d, okD := number(s[8:10])
	h, okH := number(s[11:13])
	min, okMin := number(s[14:16])
	if !okY || !okM || !okD || !okH || !okMin {
		return 0, ErrBadFormat
	}
	if m < 1 || m > 12 || d < 1 || d > daysInMonth(y, m) {
		return 0, ErrOutOfRange
	}
	if h > 23 || min > 59 {
		return 0, ErrOutOfRange
	}
	return epochDay(y, m, d)*daySeconds + int64(h)*3600 + int64(min)*60, nil
}

// ParseOptionalDateTime is ParseDateTime except that the literal "N/A"
// yields (Absent, nil) rather than an error.
func ParseOptionalDateTime(s string) (int64, error) {
	if s == "N/A" {
		return Absent, nil
	}
	return ParseDateTime(s)
}

// TruncateDay clamps a timestamp to its day boundary.
func TruncateDay(t int64) int64 {
	return t - t%daySeconds
}

// Compare is total integer ordering over timestamps.
func Compare(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// civil inverts epochDay using the same year arithmetic.
func civil(days int64) (y, m, d int) {
	// Estimate the year, then settle it against daysForYear. The estimate
	// is within one of the answer for the whole supported range.
	y = 1970 + int(days/365)
	for daysForYear(y) > days {
		y--
	}
	for daysForYear(y+1) <= days {
		y++
	}
	rem := days - daysForYear(y)
	leapShift := int64(0)
	if isLeap(y) {
		leapShift = 1
	}
	m = 12
	for i := 1; i < 12; i++ {
		bound := daysBeforeMonth[i]
		if i+1 > 2 {
			bound += leapShift
		}
		if rem < bound {
			m = i
			break
		}
	}
	rem -= daysBeforeMonth[m-1]
	if m > 2 {
		rem -= leapShift
	}
	d = int(rem) + 1
	return y, m, d
}

func split(t int64) (days, secs int64) {
	days = t / daySeconds
	secs = t - days*daySeconds
	if secs < 0 {
		days--
		secs += daySeconds
	}
	return days, secs
}

// FormatDate renders a timestamp's date as "YYYY-MM-DD".
func FormatDate(t int64) string {
	days, _ := split(t)
	y, m, d := civil(days)
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// FormatDateTime renders a timestamp as "YYYY-MM-DD HH:MM".
func FormatDateTime(t int64) string {
	days, secs := split(t)
	y, m, d := civil(days)
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", y, m, d, secs/3600, secs%3600/60)
}
