package effort

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidIDFormat is returned when a stored effort ID is not a decimal number.
var ErrInvalidIDFormat = errors.New("invalid effort ID format")

// GenerateEffortID returns the next effort ID given the IDs already in use.
// The format is the decimal string of (max existing ID, default 0) + 1, so an
// empty ledger starts at "1" and gaps are never reused.
func GenerateEffortID(existing []string) (string, error) {
	currentMax := 0
	for _, id := range existing {
		num, err := ParseEffortNumber(id)
		if err != nil {
			return "", err
		}
		if num > currentMax {
			currentMax = num
		}
	}
	return strconv.Itoa(currentMax + 1), nil
}

// ParseEffortNumber extracts the numeric value of an effort ID.
func ParseEffortNumber(id string) (int, error) {
	num, err := strconv.Atoi(id)
	if err != nil || num < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIDFormat, id)
	}
	return num, nil
}
