package slash

import (
	"fmt"
	"strings"
	"time"
)

// Bind tokenizes the argument text of a command and maps the tokens onto the
// definition's positional and flag arguments. Binder errors are advisory per
// argument; the caller checks ParsedCommand.Valid for the conjunction.
func Bind(def *CommandDefinition, argText string, now time.Time) *ParsedCommand {
	tok := tokenize(argText, def)

	parsed := &ParsedCommand{
		Def:   def,
		Flags: make(map[string]ParsedArgument),
	}
	parsed.Issues = append(parsed.Issues, tok.issues...)

	record := func(arg ParsedArgument) ParsedArgument {
		if !arg.Valid && arg.Err != nil {
			parsed.Issues = append(parsed.Issues, *arg.Err)
		}
		return arg
	}

	positional := def.PositionalArguments()
	next := 0
	sawRest := false

	for i := range positional {
		adef := &positional[i]

		if adef.Type == ArgRest {
			// A rest argument consumes everything that is left, even
			// zero tokens, and terminates positional binding.
			rest := tok.positional[next:]
			parsed.Positional = append(parsed.Positional, ParsedArgument{
				Def:   adef,
				Raw:   strings.Join(rest, " "),
				Value: append([]string{}, rest...),
				Valid: true,
			})
			next = len(tok.positional)
			sawRest = true
			break
		}

		if next < len(tok.positional) {
			parsed.Positional = append(parsed.Positional, record(coerce(adef, tok.positional[next], now)))
			next++
			continue
		}

		parsed.Positional = append(parsed.Positional, record(bindMissing(adef, now)))
	}

	for i := range def.Arguments {
		adef := &def.Arguments[i]
		if adef.Position != nil || adef.Flag == "" {
			continue
		}
		raw, ok := tok.flags[adef.Flag]
		if !ok {
			parsed.Flags[adef.Name] = record(bindMissing(adef, now))
			continue
		}
		parsed.Flags[adef.Name] = record(coerce(adef, raw, now))
	}

	// Unclaimed positional tokens become the remainder, but only when no
	// rest argument exists to absorb them.
	if !sawRest && next < len(tok.positional) {
		parsed.Remainder = strings.Join(tok.positional[next:], " ")
	}

	return parsed
}

// bindMissing produces the binding for an argument with no token: required
// arguments yield a missing_required issue, optional ones their default.
func bindMissing(def *ArgumentDefinition, now time.Time) ParsedArgument {
	if def.Required {
		return ParsedArgument{
			Def:   def,
			Valid: false,
			Err: &ParseIssue{
				Code:     IssueMissingRequired,
				Argument: def.Name,
				Message:  fmt.Sprintf("%s is required", def.Name),
			},
		}
	}
	if def.Default != "" {
		arg := coerce(def, def.Default, now)
		// A broken default is a definition bug, not user error; surface
		// the default as-is rather than failing the invocation.
		if !arg.Valid {
			return ParsedArgument{Def: def, Raw: def.Default, Value: def.Default, Valid: true}
		}
		return arg
	}
	return ParsedArgument{Def: def, Valid: true}
}
