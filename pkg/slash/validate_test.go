package slash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *CommandDefinition {
	return &CommandDefinition{
		ID:          "custom.greet",
		Trigger:     "greet",
		Name:        "Greet",
		Description: "Greets the named user warmly",
		Category:    CategoryGeneral,
		Arguments: []ArgumentDefinition{
			{Name: "user", Description: "user to greet", Type: ArgUser, Required: true, Position: pos(0)},
		},
		ActionType: ActionMessage,
		Action:     Action{Message: &MessageAction{Template: "hello {{user}}"}},
	}
}

func issueCodes(issues []ValidationIssue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Code
	}
	return out
}

func TestValidateDefinitionOK(t *testing.T) {
	res := ValidateDefinition(validDraft())
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidateTrigger(t *testing.T) {
	tests := []struct {
		name    string
		trigger string
		code    string
	}{
		{"too short", "x", "TRIGGER_LENGTH"},
		{"uppercase", "Greet", "TRIGGER_INVALID"},
		{"leading digit", "9greet", "TRIGGER_INVALID"},
		{"reserved", "admin", "TRIGGER_RESERVED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDraft()
			def.Trigger = tt.trigger
			res := ValidateDefinition(def)
			require.False(t, res.Valid)
			assert.Contains(t, issueCodes(res.Errors), tt.code)
		})
	}
}

func TestValidateNameDescriptionCategory(t *testing.T) {
	def := validDraft()
	def.Name = "X"
	def.Description = "short"
	def.Category = "mystery"

	res := ValidateDefinition(def)
	require.False(t, res.Valid)
	codes := issueCodes(res.Errors)
	assert.Contains(t, codes, "NAME_LENGTH")
	assert.Contains(t, codes, "DESCRIPTION_LENGTH")
	assert.Contains(t, codes, "CATEGORY_INVALID")
}

func TestValidateArgumentBinding(t *testing.T) {
	def := validDraft()
	def.Arguments = []ArgumentDefinition{
		{Name: "both", Description: "bound twice", Type: ArgString, Position: pos(0), Flag: "both"},
		{Name: "neither", Description: "bound never", Type: ArgString},
	}

	res := ValidateDefinition(def)
	require.False(t, res.Valid)
	codes := issueCodes(res.Errors)
	assert.Contains(t, codes, "ARG_BINDING_AMBIGUOUS")
	assert.Contains(t, codes, "ARG_BINDING_MISSING")
}

func TestValidateRestRules(t *testing.T) {
	def := validDraft()
	def.Arguments = []ArgumentDefinition{
		{Name: "text", Description: "rest in the middle", Type: ArgRest, Position: pos(0)},
		{Name: "after", Description: "comes after rest", Type: ArgString, Position: pos(1)},
	}
	res := ValidateDefinition(def)
	require.False(t, res.Valid)
	assert.Contains(t, issueCodes(res.Errors), "ARG_REST_NOT_LAST")

	def = validDraft()
	def.Arguments = []ArgumentDefinition{
		{Name: "text", Description: "flag-bound rest", Type: ArgRest, Flag: "text"},
	}
	res = ValidateDefinition(def)
	require.False(t, res.Valid)
	assert.Contains(t, issueCodes(res.Errors), "ARG_REST_NOT_POSITIONAL")

	def = validDraft()
	def.Arguments = []ArgumentDefinition{
		{Name: "a", Description: "first rest", Type: ArgRest, Position: pos(0)},
		{Name: "b", Description: "second rest", Type: ArgRest, Position: pos(1)},
	}
	res = ValidateDefinition(def)
	require.False(t, res.Valid)
	assert.Contains(t, issueCodes(res.Errors), "ARG_REST_DUPLICATE")
}

func TestValidateDuplicates(t *testing.T) {
	def := validDraft()
	def.Arguments = []ArgumentDefinition{
		{Name: "user", Description: "first", Type: ArgString, Position: pos(0)},
		{Name: "user", Description: "second", Type: ArgString, Position: pos(0)},
	}
	res := ValidateDefinition(def)
	require.False(t, res.Valid)
	codes := issueCodes(res.Errors)
	assert.Contains(t, codes, "ARG_NAME_DUPLICATE")
	assert.Contains(t, codes, "ARG_POSITION_DUPLICATE")
}

func TestValidateRequiredAfterOptionalWarns(t *testing.T) {
	def := validDraft()
	def.Arguments = []ArgumentDefinition{
		{Name: "a", Description: "optional first", Type: ArgString, Position: pos(0)},
		{Name: "b", Description: "required second", Type: ArgString, Required: true, Position: pos(1)},
	}
	res := ValidateDefinition(def)
	assert.True(t, res.Valid)
	assert.Contains(t, issueCodes(res.Warnings), "ARG_REQUIRED_AFTER_OPTIONAL")
}

func TestValidatePositionGapWarns(t *testing.T) {
	def := validDraft()
	def.Arguments = []ArgumentDefinition{
		{Name: "a", Description: "at zero", Type: ArgString, Position: pos(0)},
		{Name: "b", Description: "skips one", Type: ArgString, Position: pos(2)},
	}
	res := ValidateDefinition(def)
	assert.True(t, res.Valid)
	assert.Contains(t, issueCodes(res.Warnings), "ARG_POSITION_GAP")
}

func TestValidateChoices(t *testing.T) {
	def := validDraft()
	def.Arguments = []ArgumentDefinition{
		{Name: "mode", Description: "pick one", Type: ArgChoice, Position: pos(0)},
	}
	res := ValidateDefinition(def)
	require.False(t, res.Valid)
	assert.Contains(t, issueCodes(res.Errors), "CHOICES_REQUIRED")

	choices := make([]Choice, maxChoices+1)
	for i := range choices {
		choices[i] = Choice{Label: "x", Value: "x"}
	}
	def.Arguments[0].Choices = choices
	res = ValidateDefinition(def)
	assert.Contains(t, issueCodes(res.Errors), "CHOICES_TOO_MANY")

	def = validDraft()
	def.Arguments[0].Choices = []Choice{{Label: "x", Value: "x"}}
	res = ValidateDefinition(def)
	assert.Contains(t, issueCodes(res.Errors), "CHOICES_UNEXPECTED")
}

func TestValidateRanges(t *testing.T) {
	def := validDraft()
	def.Arguments[0].Validation = &ArgValidation{Min: fptr(10), Max: fptr(1)}
	res := ValidateDefinition(def)
	require.False(t, res.Valid)
	assert.Contains(t, issueCodes(res.Errors), "RANGE_INVALID")

	def = validDraft()
	def.Arguments[0].Validation = &ArgValidation{Pattern: "[unclosed"}
	res = ValidateDefinition(def)
	assert.Contains(t, issueCodes(res.Errors), "PATTERN_INVALID")
}

func TestValidateActionPayloads(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CommandDefinition)
		code   string
	}{
		{"message without template", func(d *CommandDefinition) {
			d.ActionType = ActionMessage
			d.Action = Action{}
		}, "ACTION_MESSAGE_TEMPLATE"},
		{"webhook without url", func(d *CommandDefinition) {
			d.ActionType = ActionWebhook
			d.Action = Action{Webhook: &WebhookAction{}}
		}, "ACTION_WEBHOOK_CONFIG"},
		{"workflow without name", func(d *CommandDefinition) {
			d.ActionType = ActionWorkflow
			d.Action = Action{Workflow: &WorkflowAction{}}
		}, "ACTION_WORKFLOW_CONFIG"},
		{"unknown action type", func(d *CommandDefinition) {
			d.ActionType = "teleport"
		}, "ACTION_TYPE_INVALID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDraft()
			tt.mutate(def)
			res := ValidateDefinition(def)
			require.False(t, res.Valid)
			assert.Contains(t, issueCodes(res.Errors), tt.code)
		})
	}
}

func TestValidateCustomActionWarns(t *testing.T) {
	def := validDraft()
	def.ActionType = ActionCustom
	def.Action = Action{}

	res := ValidateDefinition(def)
	assert.True(t, res.Valid)
	assert.Contains(t, issueCodes(res.Warnings), "ACTION_CUSTOM_UNSUPPORTED")
}

func TestBuiltinDefinitionsAreValid(t *testing.T) {
	for _, def := range BuiltinDefinitions() {
		res := ValidateDefinition(def)
		// Built-ins may use reserved triggers; every other rule applies.
		for _, e := range res.Errors {
			assert.Equal(t, "TRIGGER_RESERVED", e.Code, "/%s: %s", def.Trigger, e.Message)
		}
	}
}
