// Package codec turns raw source lines into validated domain.Client values.
//
// A line has the shape
//
//	first|last|dni|status|MM/DD/YYYY|pep[|obligated]
//
// Parsing never performs I/O; rejected lines are reported through a
// *RejectionError and it is up to the caller to log or persist them.
package codec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/client-ingest/internal/domain"
)

const (
	Delimiter = "|"

	requiredFields = 6
	maxFields      = 7
)

var datePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

type RejectionKind string

const (
	MalformedShape    RejectionKind = "MalformedShape"
	InvalidIdentifier RejectionKind = "InvalidIdentifier"
	InvalidDate       RejectionKind = "InvalidDate"
	SchemaViolation   RejectionKind = "SchemaViolation"
)

// RejectionError reports why a line could not become a client.
type RejectionError struct {
	Kind   RejectionKind
	Reason string
	// set only for SchemaViolation
	Violations Violations
}

func (e *RejectionError) Error() string {
	return string(e.Kind) + ": " + e.Reason
}

func reject(kind RejectionKind, format string, args ...any) *RejectionError {
	return &RejectionError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Parse decodes and validates a single line.
func Parse(line string) (domain.Client, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) < requiredFields || len(fields) > maxFields {
		return domain.Client{}, reject(MalformedShape, "expected %d or %d fields, got %d", requiredFields, maxFields, len(fields))
	}
	for i := 0; i < requiredFields; i++ {
		fields[i] = strings.TrimSpace(fields[i])
		if fields[i] == "" {
			return domain.Client{}, reject(MalformedShape, "required field %d is empty", i+1)
		}
	}

	dni, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return domain.Client{}, reject(InvalidIdentifier, "dni %q is not a base-10 integer", fields[2])
	}
	if dni <= 0 {
		return domain.Client{}, reject(InvalidIdentifier, "dni %d is not positive", dni)
	}

	entryDate, err := parseDate(fields[4])
	if err != nil {
		return domain.Client{}, reject(InvalidDate, "%v", err)
	}

	client := domain.Client{
		FullName:  fields[0] + " " + fields[1],
		DNI:       dni,
		Status:    fields[3],
		EntryDate: entryDate,
		IsPEP:     parseFlag(fields[5]),
	}
	if len(fields) == maxFields {
		if raw := strings.TrimSpace(fields[6]); raw != "" {
			flag := parseFlag(raw)
			client.IsObligatedSubject = &flag
		}
	}

	if violations := Validate(client); len(violations) > 0 {
		return domain.Client{}, &RejectionError{
			Kind:       SchemaViolation,
			Reason:     violations.String(),
			Violations: violations,
		}
	}

	return client, nil
}

// parseDate accepts M/D/YYYY style dates and refuses impossible calendar days
// instead of rolling them over into the next month.
func parseDate(token string) (time.Time, error) {
	m := datePattern.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, fmt.Errorf("date %q does not match MM/DD/YYYY", token)
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("date %q is not a valid calendar date", token)
	}
	return t, nil
}

// parseFlag is deliberately lenient: only "true" (any case) is true.
func parseFlag(token string) bool {
	return strings.EqualFold(strings.TrimSpace(token), "true")
}
