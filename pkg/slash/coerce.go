package slash

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Duration sentinels. DurationForever marks an indefinite duration
// ("forever"/"permanent"); an explicit zero ("off"/"disable"/"0") is a valid
// disabled value, distinct from a missing argument.
const DurationForever int64 = -1

var (
	userRefRe     = regexp.MustCompile(`^\S+$`)
	inDaysRe      = regexp.MustCompile(`^in\s+(\d+)\s+days?$`)
	clockRe       = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(am|pm)?$`)
	inOffsetRe    = regexp.MustCompile(`^in\s+(\d+)\s*(m|min|mins|minute|minutes|h|hr|hrs|hour|hours|d|day|days)$`)
	tomorrowAtRe  = regexp.MustCompile(`^tomorrow\s+at\s+(.+)$`)
	durationRunRe = regexp.MustCompile(`(\d+)\s*(seconds|second|secs|sec|s|minutes|minute|mins|min|m|hours|hour|hrs|hr|h|days|day|d|weeks|week|w)`)
)

// coerce parses a raw token according to the argument's declared type and
// runs the shared length/pattern validator. The returned ParsedArgument is
// always populated; Valid and Err describe failures.
func coerce(def *ArgumentDefinition, raw string, now time.Time) ParsedArgument {
	arg := ParsedArgument{Def: def, Raw: raw, Valid: true}

	fail := func(format string, a ...any) ParsedArgument {
		arg.Valid = false
		arg.Err = &ParseIssue{
			Code:     IssueValidationFailed,
			Argument: def.Name,
			Message:  fmt.Sprintf(format, a...),
		}
		return arg
	}

	switch def.Type {
	case ArgString, ArgRest:
		arg.Value = raw

	case ArgNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fail("%s must be a number, got %q", def.Name, raw)
		}
		if v := def.Validation; v != nil {
			if v.Min != nil && n < *v.Min {
				return fail("%s must be at least %v", def.Name, *v.Min)
			}
			if v.Max != nil && n > *v.Max {
				return fail("%s must be at most %v", def.Name, *v.Max)
			}
		}
		arg.Value = n

	case ArgBoolean:
		switch strings.ToLower(raw) {
		case "true", "yes", "1", "on":
			arg.Value = true
		case "false", "no", "0", "off":
			arg.Value = false
		default:
			return fail("%s must be a boolean (true/false, yes/no, on/off), got %q", def.Name, raw)
		}

	case ArgUser:
		ref := strings.TrimPrefix(raw, "@")
		if ref == "" || !userRefRe.MatchString(ref) {
			return fail("%s must be a user reference, got %q", def.Name, raw)
		}
		arg.Value = ref

	case ArgChannel:
		ref := strings.TrimPrefix(raw, "#")
		if ref == "" || !userRefRe.MatchString(ref) {
			return fail("%s must be a channel reference, got %q", def.Name, raw)
		}
		arg.Value = ref

	case ArgDate:
		day, ok := parseDate(raw, now)
		if !ok {
			return fail("%s must be a date (YYYY-MM-DD, today, tomorrow, or \"in N days\"), got %q", def.Name, raw)
		}
		arg.Value = day

	case ArgTime:
		clock, ok := parseClock(raw)
		if !ok {
			return fail("%s must be a time (H:MM, optionally :SS and am/pm), got %q", def.Name, raw)
		}
		arg.Value = clock

	case ArgDateTime:
		ts, ok := parseDateTime(raw, now)
		if !ok {
			return fail("%s must be a datetime (ISO, \"in N m/h/d\", or \"tomorrow at H:MM\"), got %q", def.Name, raw)
		}
		arg.Value = ts

	case ArgDuration:
		ms, ok := ParseDurationMillis(raw)
		if !ok {
			return fail("%s must be a duration like 1h30m, \"forever\", or \"off\", got %q", def.Name, raw)
		}
		arg.Value = ms

	case ArgChoice:
		found := false
		for _, c := range def.Choices {
			if c.Value == raw {
				found = true
				break
			}
		}
		if !found {
			values := make([]string, len(def.Choices))
			for i, c := range def.Choices {
				values[i] = c.Value
			}
			return fail("%s must be one of: %s", def.Name, strings.Join(values, ", "))
		}
		arg.Value = raw

	default:
		return fail("%s has unsupported type %q", def.Name, def.Type)
	}

	if msg := checkConstraints(def, raw); msg != "" {
		return fail("%s", msg)
	}
	return arg
}

// checkConstraints runs the shared length/pattern validator against the raw
// token. Numeric min/max is handled in the number parser.
func checkConstraints(def *ArgumentDefinition, raw string) string {
	v := def.Validation
	if v == nil {
		return ""
	}
	if v.MinLength != nil && len(raw) < *v.MinLength {
		return fmt.Sprintf("%s must be at least %d characters", def.Name, *v.MinLength)
	}
	if v.MaxLength != nil && len(raw) > *v.MaxLength {
		return fmt.Sprintf("%s must be at most %d characters", def.Name, *v.MaxLength)
	}
	if v.Pattern != "" {
		re, err := regexp.Compile(v.Pattern)
		if err == nil && !re.MatchString(raw) {
			return fmt.Sprintf("%s does not match the expected format", def.Name)
		}
	}
	return ""
}

// parseDate accepts ISO dates, the literals today/tomorrow/yesterday, and
// "in N day(s)". The result is normalized to YYYY-MM-DD.
func parseDate(raw string, now time.Time) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))

	switch lower {
	case "today":
		return now.Format("2006-01-02"), true
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02"), true
	case "yesterday":
		return now.AddDate(0, 0, -1).Format("2006-01-02"), true
	}

	if m := inDaysRe.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", false
		}
		return now.AddDate(0, 0, n).Format("2006-01-02"), true
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006/01/02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// parseClock accepts H:MM[:SS][am|pm] and normalizes to HH:MM:SS 24-hour.
func parseClock(raw string) (string, bool) {
	m := clockRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(raw)))
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}

	switch m[4] {
	case "pm":
		if hour > 12 {
			return "", false
		}
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour > 12 {
			return "", false
		}
		if hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 || second > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second), true
}

// parseDateTime accepts ISO timestamps, "in N (m|h|d)" relative offsets, and
// "tomorrow at <time>". The result is a normalized RFC 3339 timestamp.
func parseDateTime(raw string, now time.Time) (string, bool) {
	trimmed := strings.TrimSpace(raw)

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			if t.Location() == time.UTC && layout != time.RFC3339 {
				t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, now.Location())
			}
			return t.Format(time.RFC3339), true
		}
	}

	lower := strings.ToLower(trimmed)
	if m := inOffsetRe.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", false
		}
		var d time.Duration
		switch m[2][0] {
		case 'm':
			d = time.Duration(n) * time.Minute
		case 'h':
			d = time.Duration(n) * time.Hour
		case 'd':
			d = time.Duration(n) * 24 * time.Hour
		}
		return now.Add(d).Format(time.RFC3339), true
	}

	if m := tomorrowAtRe.FindStringSubmatch(lower); m != nil {
		clock, ok := parseClock(m[1])
		if !ok {
			return "", false
		}
		hour, _ := strconv.Atoi(clock[0:2])
		minute, _ := strconv.Atoi(clock[3:5])
		second, _ := strconv.Atoi(clock[6:8])
		day := now.AddDate(0, 0, 1)
		t := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, now.Location())
		return t.Format(time.RFC3339), true
	}

	return "", false
}

// ParseDurationMillis parses duration strings that accumulate unit runs, e.g.
// "1h30m" = 5400000. Units: s/sec/second(s), m/min/minute(s), h/hr/hour(s),
// d/day(s), w/week(s). Two reserved literals short-circuit: "forever" and
// "permanent" return the DurationForever sentinel; "off", "disable" and a
// bare "0" return an explicit zero. Anything else is invalid.
func ParseDurationMillis(raw string) (int64, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))

	switch lower {
	case "forever", "permanent":
		return DurationForever, true
	case "off", "disable", "0":
		return 0, true
	case "":
		return 0, false
	}

	matches := durationRunRe.FindAllStringSubmatchIndex(lower, -1)
	if len(matches) == 0 {
		return 0, false
	}

	// Every character must belong to a run (whitespace between runs is
	// fine); "1hgarbage" is invalid.
	consumed := 0
	var total int64
	for _, m := range matches {
		if strings.TrimSpace(lower[consumed:m[0]]) != "" {
			return 0, false
		}
		consumed = m[1]

		n, err := strconv.ParseInt(lower[m[2]:m[3]], 10, 64)
		if err != nil {
			return 0, false
		}
		var unit int64
		switch lower[m[4]:m[5]][0] {
		case 's':
			unit = 1000
		case 'm':
			unit = 60 * 1000
		case 'h':
			unit = 60 * 60 * 1000
		case 'd':
			unit = 24 * 60 * 60 * 1000
		case 'w':
			unit = 7 * 24 * 60 * 60 * 1000
		}
		total += n * unit
	}
	if strings.TrimSpace(lower[consumed:]) != "" {
		return 0, false
	}
	return total, true
}

// formatValue renders a coerced value for templates and payloads.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case []string:
		return strings.Join(val, " ")
	default:
		return fmt.Sprintf("%v", val)
	}
}
