package codec

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidLine(t *testing.T) {
	client, err := Parse("Jane|Doe|12345|ACT|01/15/2023|true|false")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", client.FullName)
	assert.Equal(t, int64(12345), client.DNI)
	assert.Equal(t, "ACT", client.Status)
	assert.Equal(t, time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC), client.EntryDate)
	assert.True(t, client.IsPEP)
	require.NotNil(t, client.IsObligatedSubject)
	assert.False(t, *client.IsObligatedSubject)
}

func TestParse_TrimsFields(t *testing.T) {
	client, err := Parse("  Jane | Doe | 42 | ACT | 1/5/2020 | TRUE | True ")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", client.FullName)
	assert.Equal(t, int64(42), client.DNI)
	assert.Equal(t, "ACT", client.Status)
	assert.Equal(t, time.Date(2020, time.January, 5, 0, 0, 0, 0, time.UTC), client.EntryDate)
	assert.True(t, client.IsPEP)
	require.NotNil(t, client.IsObligatedSubject)
	assert.True(t, *client.IsObligatedSubject)
}

func TestParse_SecondaryFlag(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *bool
	}{
		{name: "absent", line: "Jane|Doe|1|ACT|01/15/2023|true", want: nil},
		{name: "blank", line: "Jane|Doe|1|ACT|01/15/2023|true|", want: nil},
		{name: "whitespace", line: "Jane|Doe|1|ACT|01/15/2023|true|   ", want: nil},
		{name: "true", line: "Jane|Doe|1|ACT|01/15/2023|true|true", want: ptr(true)},
		{name: "garbage", line: "Jane|Doe|1|ACT|01/15/2023|true|yes", want: ptr(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.IsObligatedSubject)
		})
	}
}

func TestParse_PrimaryFlagIsLenient(t *testing.T) {
	for _, token := range []string{"false", "FALSE", "no", "1", "maybe"} {
		client, err := Parse("Jane|Doe|1|ACT|01/15/2023|" + token)
		require.NoError(t, err, token)
		assert.False(t, client.IsPEP, token)
	}
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind RejectionKind
	}{
		{name: "missing status", line: "Jane|Doe|12345||01/15/2023|true|false", kind: MalformedShape},
		{name: "blank first name", line: " |Doe|12345|ACT|01/15/2023|true", kind: MalformedShape},
		{name: "too few fields", line: "Jane|Doe|12345|ACT|01/15/2023", kind: MalformedShape},
		{name: "too many fields", line: "Jane|Doe|12345|ACT|01/15/2023|true|false|extra", kind: MalformedShape},
		{name: "empty line", line: "", kind: MalformedShape},
		{name: "non numeric dni", line: "Jane|Doe|abc|ACT|01/15/2023|true|false", kind: InvalidIdentifier},
		{name: "trailing garbage dni", line: "Jane|Doe|123abc|ACT|01/15/2023|true|false", kind: InvalidIdentifier},
		{name: "zero dni", line: "Jane|Doe|0|ACT|01/15/2023|true|false", kind: InvalidIdentifier},
		{name: "negative dni", line: "Jane|Doe|-7|ACT|01/15/2023|true|false", kind: InvalidIdentifier},
		{name: "impossible date", line: "Jane|Doe|12345|ACT|13/45/2023|true|false", kind: InvalidDate},
		{name: "february 30", line: "Jane|Doe|12345|ACT|02/30/2023|true|false", kind: InvalidDate},
		{name: "iso date", line: "Jane|Doe|12345|ACT|2023-01-15|true|false", kind: InvalidDate},
		{name: "two digit year", line: "Jane|Doe|12345|ACT|01/15/23|true|false", kind: InvalidDate},
		{name: "status too long", line: "Jane|Doe|12345|ACTIVE_LONG_STATUS|01/15/2023|true|false", kind: SchemaViolation},
		{name: "year zero", line: "Jane|Doe|12345|ACT|01/15/0000|true|false", kind: SchemaViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.line)
			require.Error(t, err)

			var rejection *RejectionError
			require.True(t, errors.As(err, &rejection))
			assert.Equal(t, tt.kind, rejection.Kind)
			assert.NotEmpty(t, rejection.Reason)
		})
	}
}

func TestParse_SchemaViolationListsEveryConstraint(t *testing.T) {
	longName := strings.Repeat("a", 60)
	_, err := Parse(longName + "|" + longName + "|12345|ACTIVE_LONG_STATUS|01/15/2023|true")

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, SchemaViolation, rejection.Kind)
	require.Len(t, rejection.Violations, 2)
	assert.Equal(t, "fullName", rejection.Violations[0].Field)
	assert.Equal(t, "max", rejection.Violations[0].Constraint)
	assert.Equal(t, "status", rejection.Violations[1].Field)
	assert.Contains(t, err.Error(), "SchemaViolation")
}

func ptr(b bool) *bool {
	return &b
}
