package formatversion

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"
	_ "time/tzdata"
)

var (
	// ErrDateOutOfRange is returned for dates before the first known key date.
	ErrDateOutOfRange = errors.New("date before first format version")
	// ErrInvalidFormatVersion is returned for tags that are not of the form FVyymm or are unknown.
	ErrInvalidFormatVersion = errors.New("invalid format version")
)

var pattern = regexp.MustCompile(`^FV\d{2}(04|10)$`)

var berlin = mustLoad("Europe/Berlin")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type keyDate struct {
	tag   string
	start time.Time
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, berlin)
}

// keyDates are ordered by start. FV2404 and FV2504 deviate from the regular first of month.
var keyDates = []keyDate{
	{"FV2104", day(2021, time.April, 1)},
	{"FV2110", day(2021, time.October, 1)},
	{"FV2204", day(2022, time.April, 1)},
	{"FV2210", day(2022, time.October, 1)},
	{"FV2304", day(2023, time.April, 1)},
	{"FV2310", day(2023, time.October, 1)},
	{"FV2404", day(2024, time.April, 3)},
	{"FV2410", day(2024, time.October, 1)},
	{"FV2504", day(2025, time.June, 6)},
	{"FV2510", day(2025, time.October, 1)},
	{"FV2604", day(2026, time.April, 1)},
	{"FV2610", day(2026, time.October, 1)},
}

// FromDate returns the format version in effect at t.
func FromDate(t time.Time) (string, error) {
	local := t.In(berlin)
	i := sort.Search(len(keyDates), func(i int) bool {
		return keyDates[i].start.After(local)
	})
	if i == 0 {
		return "", fmt.Errorf("%w: %s", ErrDateOutOfRange, local.Format(time.DateOnly))
	}
	return keyDates[i-1].tag, nil
}

// Start returns the key date of a format version.
func Start(fv string) (time.Time, error) {
	for _, k := range keyDates {
		if k.tag == fv {
			return k.start, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormatVersion, fv)
}

// Validate checks that fv is a known format version tag.
func Validate(fv string) error {
	if !pattern.MatchString(fv) {
		return fmt.Errorf("%w: %q", ErrInvalidFormatVersion, fv)
	}
	_, err := Start(fv)
	return err
}

// All returns every known format version, oldest first.
func All() []string {
	out := make([]string, len(keyDates))
	for i, k := range keyDates {
		out[i] = k.tag
	}
	return out
}

// Less orders format versions chronologically. FVyymm tags sort lexicographically.
func Less(a, b string) bool {
	return a < b
}

// ParseDate parses a YYYY-MM-DD date as midnight German time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, berlin)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
