package cleaner

import (
	"fmt"
	"strconv"
	"strings"
)

// Decision is the operator's answer for one duplicate set: keep exactly
// one member, or leave the whole set untouched.
type Decision struct {
	keep int
	skip bool
}

// Keep returns a decision to keep the member at the 1-based index and
// remove the others.
func Keep(index int) Decision {
	return Decision{keep: index}
}

// SkipAll returns a decision to leave every member of the set on disk.
func SkipAll() Decision {
	return Decision{skip: true}
}

// IsSkip reports whether the set is to be left intact.
func (d Decision) IsSkip() bool {
	return d.skip
}

// KeepIndex returns the 1-based index of the member to keep. The second
// value is false for a skip decision.
func (d Decision) KeepIndex() (int, bool) {
	if d.skip {
		return 0, false
	}
	return d.keep, true
}

func (d Decision) String() string {
	if d.skip {
		return "skip"
	}
	return fmt.Sprintf("keep %d", d.keep)
}

// InvalidSelectionError is returned when a response is neither empty nor
// an index in [1, Count].
type InvalidSelectionError struct {
	Input string
	Count int
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection %q: enter a number from 1 to %d, or nothing to skip", e.Input, e.Count)
}

// ParseDecision resolves a prompt response for a set of count members.
// An empty (or all-whitespace) response skips the set.
func ParseDecision(input string, count int) (Decision, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return SkipAll(), nil
	}

	index, err := strconv.Atoi(trimmed)
	if err != nil || index < 1 || index > count {
		return Decision{}, &InvalidSelectionError{Input: input, Count: count}
	}
	return Keep(index), nil
}
