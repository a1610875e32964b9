package session

import (
	"fmt"
	"strconv"
	"strings"
)

// InputFormatError reports non-integer input at a numeric prompt.
type InputFormatError struct {
	Input string
	Want  string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("Invalid input. Please enter %s.", e.Want)
}

// RangeError reports a region without voxels or a time index outside the
// recorded range.
type RangeError struct {
	Kind  string
	Value int
	// Max is the largest valid time index.
	Max int
	// Name is the region display name.
	Name string
}

// Range error kinds.
const (
	EmptyRegion = "region"
	TimeRange   = "time"
)

func (e *RangeError) Error() string {
	if e.Kind == EmptyRegion {
		return fmt.Sprintf("Region '%s' (ID: %d) has 0 voxels. Please try another Cerebra ID.", e.Name, e.Value)
	}
	return fmt.Sprintf("Invalid Time Location. Please enter a value between 0 and %d.", e.Max)
}

const (
	wantRegion = "a valid Cerebra ID (an integer)"
	wantTime   = "a valid time location (integer)"
)

func parseInt(input, want string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, &InputFormatError{Input: input, Want: want}
	}
	return v, nil
}

// CheckTime accepts 0 <= t < timestamps.
func CheckTime(t, timestamps int) error {
	if t < 0 || t >= timestamps {
		return &RangeError{Kind: TimeRange, Value: t, Max: timestamps - 1}
	}
	return nil
}
