// Package refcode formats and allocates AWD reference numbers of the form
// AWD-<year>-<4-digit sequence>.
package refcode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrMalformed is returned when a code does not match AWD-YYYY-NNNN.
var ErrMalformed = errors.New("malformed AWD reference number")

const prefix = "AWD"

var pattern = regexp.MustCompile(`^AWD-(\d{4})-(\d{4,})$`)

// Format renders a reference number, zero-padding the sequence to four digits.
func Format(year, seq int) string {
	return fmt.Sprintf("%s-%04d-%04d", prefix, year, seq)
}

// Parse splits a reference number into its year and sequence.
func Parse(code string) (year, seq int, err error) {
	m := pattern.FindStringSubmatch(code)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformed, code)
	}
	year, _ = strconv.Atoi(m[1])
	seq, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformed, code)
	}
	return year, seq, nil
}

// YearPrefix is the LIKE-friendly prefix shared by every code of year.
func YearPrefix(year int) string {
	return fmt.Sprintf("%s-%04d-", prefix, year)
}

// Next returns the code following the highest sequence among existing codes
// for year. Codes of other years and malformed codes are ignored.
//
// Next is not safe against concurrent allocation on its own; callers must run
// it under a lock that covers the subsequent insert.
func Next(existing []string, year int) string {
	maxSeq := 0
	for _, code := range existing {
		y, seq, err := Parse(code)
		if err != nil || y != year {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return Format(year, maxSeq+1)
}
