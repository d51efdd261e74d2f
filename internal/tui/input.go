package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	maxVisitTotal = 180
	maxDartScore  = 60
)

// ErrBadInput is returned by ParseVisit for anything that is not a visit.
var ErrBadInput = errors.New("invalid visit")

// ParseVisit reads a visit typed at the scoreboard. A single number is the
// visit total (0-180); two or three numbers are individual darts (0-60 each).
// Commas work as separators too.
func ParseVisit(input string) ([]int, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: enter a total or up to three darts", ErrBadInput)
	}
	if len(fields) > 3 {
		return nil, fmt.Errorf("%w: at most three darts, got %d", ErrBadInput, len(fields))
	}

	darts := make([]int, 0, len(fields))
	total := 0
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrBadInput, f)
		}
		darts = append(darts, n)
		total += n
	}

	if len(darts) == 1 {
		if total < 0 || total > maxVisitTotal {
			return nil, fmt.Errorf("%w: a visit scores 0 to %d, got %d", ErrBadInput, maxVisitTotal, total)
		}
		return darts, nil
	}
	for _, d := range darts {
		if d < 0 || d > maxDartScore {
			return nil, fmt.Errorf("%w: a dart scores 0 to %d, got %d", ErrBadInput, maxDartScore, d)
		}
	}
	return darts, nil
}
