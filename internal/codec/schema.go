package codec

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/DjordjeVuckovic/client-ingest/internal/domain"
)

const (
	MaxFullNameLength = 100
	MaxStatusLength   = 10
)

var (
	// MinEntryDate and MaxEntryDate bound the range a SQL date column can hold.
	MinEntryDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxEntryDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Violation describes one schema constraint a client failed.
type Violation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

type Violations []Violation

func (v Violations) String() string {
	msgs := make([]string, len(v))
	for i, violation := range v {
		msgs[i] = violation.Field + ": " + violation.Message
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every schema constraint of c and returns all violations found.
// An empty result means the client is valid.
func Validate(c domain.Client) Violations {
	var violations Violations

	violations = append(violations, checkLength("fullName", c.FullName, 1, MaxFullNameLength)...)

	if c.DNI <= 0 {
		violations = append(violations, Violation{
			Field:      "dni",
			Constraint: "positive",
			Message:    fmt.Sprintf("must be a positive integer, got %d", c.DNI),
		})
	}

	violations = append(violations, checkLength("status", c.Status, 1, MaxStatusLength)...)

	if c.EntryDate.Before(MinEntryDate) || c.EntryDate.After(MaxEntryDate) {
		violations = append(violations, Violation{
			Field:      "entryDate",
			Constraint: "range",
			Message:    fmt.Sprintf("out of SQL date range: %s", c.EntryDate.Format(time.DateOnly)),
		})
	}

	return violations
}

func checkLength(field, value string, min, max int) Violations {
	n := utf8.RuneCountInString(value)
	switch {
	case n < min:
		return Violations{{
			Field:      field,
			Constraint: "min",
			Message:    fmt.Sprintf("must contain at least %d character(s)", min),
		}}
	case n > max:
		return Violations{{
			Field:      field,
			Constraint: "max",
			Message:    fmt.Sprintf("must contain at most %d character(s), got %d", max, n),
		}}
	}
	return nil
}
