package slash

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func TestParseDurationMillis(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"30s", 30_000, true},
		{"5m", 300_000, true},
		{"1h", 3_600_000, true},
		{"1h30m", 5_400_000, true},
		{"1h 30m", 5_400_000, true},
		{"2d", 172_800_000, true},
		{"1w", 604_800_000, true},
		{"90 seconds", 90_000, true},
		{"10 minutes", 600_000, true},
		{"1d12h", 129_600_000, true},
		{"forever", DurationForever, true},
		{"permanent", DurationForever, true},
		{"FOREVER", DurationForever, true},
		{"off", 0, true},
		{"disable", 0, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1hgarbage", 0, false},
		{"garbage1h", 0, false},
		{"1x", 0, false},
		{"h", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDurationMillis(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-12-01", "2025-12-01", true},
		{"today", "2025-03-10", true},
		{"tomorrow", "2025-03-11", true},
		{"yesterday", "2025-03-09", true},
		{"in 3 days", "2025-03-13", true},
		{"in 1 day", "2025-03-11", true},
		{"next tuesday", "", false},
		{"12/01/2025", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseDate(tt.in, testNow)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"9:30", "09:30:00", true},
		{"09:30:15", "09:30:15", true},
		{"2:15pm", "14:15:00", true},
		{"12:00am", "00:00:00", true},
		{"12:00pm", "12:00:00", true},
		{"23:59", "23:59:00", true},
		{"24:00", "", false},
		{"9:75", "", false},
		{"noon", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseClock(tt.in)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateTime(t *testing.T) {
	got, ok := parseDateTime("in 2h", testNow)
	require.True(t, ok)
	assert.Equal(t, testNow.Add(2*time.Hour).Format(time.RFC3339), got)

	got, ok = parseDateTime("in 45 min", testNow)
	require.True(t, ok)
	assert.Equal(t, testNow.Add(45*time.Minute).Format(time.RFC3339), got)

	got, ok = parseDateTime("tomorrow at 9:00", testNow)
	require.True(t, ok)
	want := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, want.Format(time.RFC3339), got)

	got, ok = parseDateTime("2025-06-01T10:00:00Z", testNow)
	require.True(t, ok)
	assert.Equal(t, "2025-06-01T10:00:00Z", got)

	_, ok = parseDateTime("whenever", testNow)
	assert.False(t, ok)
}

func TestCoerceNumber(t *testing.T) {
	def := &ArgumentDefinition{
		Name: "count", Type: ArgNumber,
		Validation: &ArgValidation{Min: fptr(1), Max: fptr(100)},
	}

	arg := coerce(def, "42", testNow)
	require.True(t, arg.Valid)
	assert.Equal(t, float64(42), arg.Value)

	arg = coerce(def, "0", testNow)
	require.False(t, arg.Valid)
	assert.Equal(t, IssueValidationFailed, arg.Err.Code)

	arg = coerce(def, "101", testNow)
	assert.False(t, arg.Valid)

	arg = coerce(def, "many", testNow)
	assert.False(t, arg.Valid)
}

func TestCoerceBoolean(t *testing.T) {
	def := &ArgumentDefinition{Name: "flag", Type: ArgBoolean}

	for _, raw := range []string{"true", "yes", "1", "on", "TRUE"} {
		arg := coerce(def, raw, testNow)
		require.True(t, arg.Valid, raw)
		assert.Equal(t, true, arg.Value, raw)
	}
	for _, raw := range []string{"false", "no", "0", "off"} {
		arg := coerce(def, raw, testNow)
		require.True(t, arg.Valid, raw)
		assert.Equal(t, false, arg.Value, raw)
	}
	arg := coerce(def, "maybe", testNow)
	assert.False(t, arg.Valid)
}

func TestCoerceUserAndChannel(t *testing.T) {
	user := &ArgumentDefinition{Name: "user", Type: ArgUser}
	arg := coerce(user, "@alice", testNow)
	require.True(t, arg.Valid)
	assert.Equal(t, "alice", arg.Value)

	arg = coerce(user, "bob", testNow)
	require.True(t, arg.Valid)
	assert.Equal(t, "bob", arg.Value)

	arg = coerce(user, "@", testNow)
	assert.False(t, arg.Valid)

	channel := &ArgumentDefinition{Name: "channel", Type: ArgChannel}
	arg = coerce(channel, "#general", testNow)
	require.True(t, arg.Valid)
	assert.Equal(t, "general", arg.Value)
}

func TestCoerceChoice(t *testing.T) {
	def := &ArgumentDefinition{
		Name: "visibility", Type: ArgChoice,
		Choices: []Choice{{Label: "Public", Value: "public"}, {Label: "Private", Value: "private"}},
	}

	arg := coerce(def, "public", testNow)
	require.True(t, arg.Valid)
	assert.Equal(t, "public", arg.Value)

	arg = coerce(def, "hidden", testNow)
	require.False(t, arg.Valid)
	assert.Contains(t, arg.Err.Message, "public, private")
}

func TestCoerceLengthAndPattern(t *testing.T) {
	def := &ArgumentDefinition{
		Name: "name", Type: ArgString,
		Validation: &ArgValidation{MinLength: intPtr(3), MaxLength: intPtr(5), Pattern: `^[a-z]+$`},
	}

	arg := coerce(def, "abc", testNow)
	assert.True(t, arg.Valid)

	arg = coerce(def, "ab", testNow)
	assert.False(t, arg.Valid)

	arg = coerce(def, "abcdef", testNow)
	assert.False(t, arg.Valid)

	arg = coerce(def, "ab1", testNow)
	assert.False(t, arg.Valid)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "42", formatValue(float64(42)))
	assert.Equal(t, "4.5", formatValue(4.5))
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, "5000", formatValue(int64(5000)))
	assert.Equal(t, "a b c", formatValue([]string{"a", "b", "c"}))
}
