// Package month implements the calendar-month bucket key used by the
// reporting queries. Keys have the form "YYYY-MM" and are derived from
// the zero-padded ISO date strings stored in the database, so string
// comparison matches calendar order.
package month

import (
	"fmt"
	"strings"
	"time"
)

// Key is a calendar-month grouping key in "YYYY-MM" form.
type Key string

// Of returns the key for the month containing t.
func Of(t time.Time) Key {
	return Key(t.Format("2006-01"))
}

// Current returns the key for the current calendar month.
func Current() Key {
	return Of(time.Now())
}

// OfDate returns the key for a stored "YYYY-MM-DD" date string.
// Malformed or short strings yield an empty key.
func OfDate(date string) Key {
	if len(date) < 7 {
		return ""
	}
	return Key(date[:7])
}

// Valid reports whether k parses as a real year-month.
func (k Key) Valid() bool {
	_, err := time.Parse("2006-01", string(k))
	return err == nil
}

// Prev returns the preceding month, wrapping January back to December
// of the previous year.
func (k Key) Prev() Key {
	y, m := k.parts()
	m--
	if m < 1 {
		m = 12
		y--
	}
	return Key(fmt.Sprintf("%04d-%02d", y, m))
}

// Sub returns the key n months before k. Sub(0) is k itself.
func (k Key) Sub(n int) Key {
	for i := 0; i < n; i++ {
		k = k.Prev()
	}
	return k
}

// Window returns n consecutive keys ending at ref (inclusive), in
// ascending order. n <= 0 yields an empty slice.
func Window(ref Key, n int) []Key {
	if n <= 0 {
		return nil
	}
	keys := make([]Key, n)
	k := ref
	for i := n - 1; i >= 0; i-- {
		keys[i] = k
		k = k.Prev()
	}
	return keys
}

func (k Key) parts() (year, month int) {
	fmt.Sscanf(string(k), "%d-%d", &year, &month)
	return year, month
}

// NormalizeDate parses a calendar date string and returns it in
// zero-padded "YYYY-MM-DD" form. Zero padding is what guarantees that
// lexicographic comparison of stored dates matches calendar order, so
// every write path must pass dates through here.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-1-2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", s)
}
