package slash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func banLikeDef() *CommandDefinition {
	return &CommandDefinition{
		Trigger: "ban",
		Arguments: []ArgumentDefinition{
			{Name: "user", Description: "target user", Type: ArgUser, Required: true, Position: pos(0)},
			{Name: "reason", Description: "audit reason", Type: ArgRest, Position: pos(1)},
			{Name: "duration", Description: "ban length", Type: ArgDuration, Flag: "duration", ShortFlag: "d"},
		},
	}
}

func TestBindPositionalAndFlags(t *testing.T) {
	def := banLikeDef()

	parsed := Bind(def, "@alice spamming the channel --duration 7d", testNow)
	require.True(t, parsed.Valid())

	user, ok := parsed.Argument("user")
	require.True(t, ok)
	assert.Equal(t, "alice", user.Value)

	reason, ok := parsed.Argument("reason")
	require.True(t, ok)
	assert.Equal(t, []string{"spamming", "the", "channel"}, reason.Value)
	assert.Equal(t, "spamming the channel", reason.StringValue())

	duration, ok := parsed.Argument("duration")
	require.True(t, ok)
	assert.Equal(t, int64(7*24*60*60*1000), duration.Value)
}

func TestBindMissingRequired(t *testing.T) {
	def := banLikeDef()

	parsed := Bind(def, "", testNow)
	require.False(t, parsed.Valid())
	require.Len(t, parsed.Issues, 1)
	assert.Equal(t, IssueMissingRequired, parsed.Issues[0].Code)
	assert.Equal(t, "user", parsed.Issues[0].Argument)
}

func TestBindRestConsumesQuotedTokens(t *testing.T) {
	def := &CommandDefinition{
		Trigger: "poll",
		Arguments: []ArgumentDefinition{
			{Name: "question", Description: "poll question", Type: ArgString, Required: true, Position: pos(0)},
			{Name: "options", Description: "poll options", Type: ArgRest, Position: pos(1)},
		},
	}

	parsed := Bind(def, `"Lunch?" "A" "B" "C"`, testNow)
	require.True(t, parsed.Valid())
	assert.Equal(t, "Lunch?", parsed.String("question"))

	options, ok := parsed.Argument("options")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B", "C"}, options.Value)
}

func TestBindRestEmptyIsValid(t *testing.T) {
	def := &CommandDefinition{
		Trigger: "status",
		Arguments: []ArgumentDefinition{
			{Name: "text", Description: "status text", Type: ArgRest, Position: pos(0)},
		},
	}

	parsed := Bind(def, "", testNow)
	require.True(t, parsed.Valid())

	text, ok := parsed.Argument("text")
	require.True(t, ok)
	assert.Equal(t, []string{}, text.Value)
	assert.Equal(t, "", text.StringValue())
}

func TestBindOptionalDefault(t *testing.T) {
	def := &CommandDefinition{
		Trigger: "slow",
		Arguments: []ArgumentDefinition{
			{Name: "duration", Description: "post delay", Type: ArgDuration, Position: pos(0), Default: "30s"},
		},
	}

	parsed := Bind(def, "", testNow)
	require.True(t, parsed.Valid())
	duration, ok := parsed.Argument("duration")
	require.True(t, ok)
	assert.Equal(t, int64(30_000), duration.Value)
}

func TestBindOptionalAbsentIsNil(t *testing.T) {
	def := &CommandDefinition{
		Trigger: "dnd",
		Arguments: []ArgumentDefinition{
			{Name: "duration", Description: "dnd length", Type: ArgDuration, Position: pos(0)},
		},
	}

	parsed := Bind(def, "", testNow)
	require.True(t, parsed.Valid())
	duration, ok := parsed.Argument("duration")
	require.True(t, ok)
	assert.Nil(t, duration.Value)
}

func TestBindRemainder(t *testing.T) {
	def := &CommandDefinition{
		Trigger: "rename",
		Arguments: []ArgumentDefinition{
			{Name: "name", Description: "new name", Type: ArgString, Required: true, Position: pos(0)},
		},
	}

	parsed := Bind(def, "lounge extra tokens", testNow)
	require.True(t, parsed.Valid())
	assert.Equal(t, "lounge", parsed.String("name"))
	assert.Equal(t, "extra tokens", parsed.Remainder)
}

func TestBindCoercionIssueCarriesArgumentName(t *testing.T) {
	def := &CommandDefinition{
		Trigger: "clear",
		Arguments: []ArgumentDefinition{
			{Name: "count", Description: "message count", Type: ArgNumber, Required: true, Position: pos(0),
				Validation: &ArgValidation{Min: fptr(1), Max: fptr(100)}},
		},
	}

	parsed := Bind(def, "9000", testNow)
	require.False(t, parsed.Valid())
	require.Len(t, parsed.Issues, 1)
	assert.Equal(t, IssueValidationFailed, parsed.Issues[0].Code)
	assert.Equal(t, "count", parsed.Issues[0].Argument)
}
