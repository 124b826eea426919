package slash

import (
	"fmt"
	"strings"
)

// rawToken is one scanned token. Quoted tokens are always positional, even
// when their text looks like a flag.
type rawToken struct {
	text   string
	quoted bool
}

// tokens is the tokenizer output: positional tokens in input order plus a
// flag-name -> value map. Short flags are already resolved to their
// canonical long names.
type tokens struct {
	positional []string
	flags      map[string]string
	issues     []ParseIssue
}

// scan splits input into whitespace-separated tokens. A double or single
// quote opens a run that ends at the matching unescaped quote; the quotes are
// stripped and the content stays one token. A backslash escapes the next
// character inside and outside quotes.
func scan(input string) []rawToken {
	var out []rawToken
	var cur strings.Builder
	var quote byte // 0 when outside a quoted run
	escaped := false
	started := false
	quoted := false

	flush := func() {
		if started {
			out = append(out, rawToken{text: cur.String(), quoted: quoted})
		}
		cur.Reset()
		started = false
		quoted = false
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]
		switch {
		case escaped:
			cur.WriteByte(ch)
			started = true
			escaped = false
		case ch == '\\':
			escaped = true
			started = true
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				cur.WriteByte(ch)
			}
		case ch == '"' || ch == '\'':
			quote = ch
			quoted = true
			started = true
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			flush()
		default:
			cur.WriteByte(ch)
			started = true
		}
	}
	flush()
	return out
}

// tokenize scans the argument text of a command and separates flags from
// positional tokens. Long flags take their value from the text after "=" or
// from the next token; short flags are resolved through the definition's
// ShortFlag declarations. Unknown short flags are recorded as issues without
// aborting the scan.
func tokenize(input string, def *CommandDefinition) tokens {
	raw := scan(input)
	result := tokens{flags: make(map[string]string)}

	shortToLong := make(map[string]string)
	if def != nil {
		for _, a := range def.FlagArguments() {
			if a.ShortFlag != "" {
				shortToLong[a.ShortFlag] = a.Flag
			}
		}
	}

	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		if tok.quoted {
			result.positional = append(result.positional, tok.text)
			continue
		}

		switch {
		case strings.HasPrefix(tok.text, "--") && len(tok.text) > 2:
			name, value, hasValue := strings.Cut(tok.text[2:], "=")
			if !hasValue {
				if i+1 < len(raw) {
					i++
					value = raw[i].text
				}
			}
			result.flags[strings.ToLower(name)] = value

		case len(tok.text) == 2 && tok.text[0] == '-' && isFlagChar(tok.text[1]):
			long, ok := shortToLong[tok.text[1:]]
			if !ok {
				result.issues = append(result.issues, ParseIssue{
					Code:    IssueUnknownFlag,
					Message: fmt.Sprintf("unknown flag: %s", tok.text),
				})
				continue
			}
			var value string
			if i+1 < len(raw) {
				i++
				value = raw[i].text
			}
			result.flags[long] = value

		default:
			result.positional = append(result.positional, tok.text)
		}
	}
	return result
}

func isFlagChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'
}
