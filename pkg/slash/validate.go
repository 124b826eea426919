package slash

import (
	"fmt"
	"regexp"
	"sort"
)

// ValidationIssue is one definition-time problem. Errors block saving a
// definition; warnings do not.
type ValidationIssue struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of validating a command definition draft.
type ValidationResult struct {
	Valid    bool              `json:"is_valid"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []ValidationIssue `json:"warnings,omitempty"`
}

var (
	triggerRe = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
	argNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// reservedTriggers may not be claimed by administrative definition drafts.
var reservedTriggers = map[string]bool{
	"help": true, "commands": true, "admin": true, "debug": true, "system": true,
}

const maxChoices = 25

// ValidateDefinition checks a definition draft for structural correctness.
// It runs on the administrative create/edit path, never per invocation, and
// does not consult the registry; trigger ownership is checked at
// registration time.
func ValidateDefinition(def *CommandDefinition) ValidationResult {
	var res ValidationResult

	errf := func(code, field, format string, args ...any) {
		res.Errors = append(res.Errors, ValidationIssue{Code: code, Field: field, Message: fmt.Sprintf(format, args...)})
	}
	warnf := func(code, field, format string, args ...any) {
		res.Warnings = append(res.Warnings, ValidationIssue{Code: code, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	validateTrigger(def, errf)
	if len(def.Name) < 2 || len(def.Name) > 50 {
		errf("NAME_LENGTH", "name", "name must be 2-50 characters")
	}
	if len(def.Description) < 10 || len(def.Description) > 200 {
		errf("DESCRIPTION_LENGTH", "description", "description must be 10-200 characters")
	}
	if !knownCategories[def.Category] {
		errf("CATEGORY_INVALID", "category", "unknown category %q", def.Category)
	}

	validateArguments(def, errf, warnf)
	validateAction(def, errf, warnf)

	res.Valid = len(res.Errors) == 0
	return res
}

type issueFunc func(code, field, format string, args ...any)

func validateTrigger(def *CommandDefinition, errf issueFunc) {
	if len(def.Trigger) < 2 || len(def.Trigger) > 32 {
		errf("TRIGGER_LENGTH", "trigger", "trigger must be 2-32 characters")
	}
	if !triggerRe.MatchString(def.Trigger) {
		errf("TRIGGER_INVALID", "trigger", "trigger must start with a letter and contain only a-z, 0-9, _ and -")
	}
	if reservedTriggers[def.Trigger] {
		errf("TRIGGER_RESERVED", "trigger", "%q is a reserved trigger", def.Trigger)
	}
	for _, a := range def.Aliases {
		if !triggerRe.MatchString(a) {
			errf("ALIAS_INVALID", "aliases", "alias %q must match the trigger format", a)
		}
	}
}

func validateArguments(def *CommandDefinition, errf, warnf issueFunc) {
	names := make(map[string]bool)
	flags := make(map[string]bool)
	positions := make(map[int]bool)
	var maxPos = -1
	restPos := -1
	optionalSeen := false

	for i := range def.Arguments {
		a := &def.Arguments[i]
		field := fmt.Sprintf("arguments[%d]", i)

		if !argNameRe.MatchString(a.Name) {
			errf("ARG_NAME_INVALID", field, "argument name %q must contain only letters, digits and underscores", a.Name)
		}
		if names[a.Name] {
			errf("ARG_NAME_DUPLICATE", field, "duplicate argument name %q", a.Name)
		}
		names[a.Name] = true

		if len(a.Description) < 3 {
			errf("ARG_DESCRIPTION_SHORT", field, "argument %q needs a description of at least 3 characters", a.Name)
		}
		if !knownArgTypes[a.Type] {
			errf("ARG_TYPE_INVALID", field, "argument %q has unknown type %q", a.Name, a.Type)
		}

		switch {
		case a.Position != nil && a.Flag != "":
			errf("ARG_BINDING_AMBIGUOUS", field, "argument %q must have either a position or a flag, not both", a.Name)
		case a.Position == nil && a.Flag == "":
			errf("ARG_BINDING_MISSING", field, "argument %q must have a position or a flag", a.Name)
		case a.Position != nil:
			if positions[*a.Position] {
				errf("ARG_POSITION_DUPLICATE", field, "duplicate position %d", *a.Position)
			}
			positions[*a.Position] = true
			if *a.Position > maxPos {
				maxPos = *a.Position
			}
			if a.Type == ArgRest {
				if restPos >= 0 {
					errf("ARG_REST_DUPLICATE", field, "only one rest argument is allowed")
				}
				restPos = *a.Position
			}
			if a.Required && optionalSeen {
				warnf("ARG_REQUIRED_AFTER_OPTIONAL", field, "required argument %q follows an optional one", a.Name)
			}
			if !a.Required {
				optionalSeen = true
			}
		default: // flag-bound
			if flags[a.Flag] {
				errf("ARG_FLAG_DUPLICATE", field, "duplicate flag --%s", a.Flag)
			}
			flags[a.Flag] = true
			if a.ShortFlag != "" {
				if len(a.ShortFlag) != 1 {
					errf("ARG_SHORT_FLAG_INVALID", field, "short flag %q must be a single character", a.ShortFlag)
				}
				if flags["-"+a.ShortFlag] {
					errf("ARG_FLAG_DUPLICATE", field, "duplicate short flag -%s", a.ShortFlag)
				}
				flags["-"+a.ShortFlag] = true
			}
			if a.Type == ArgRest {
				errf("ARG_REST_NOT_POSITIONAL", field, "rest argument %q cannot be flag-bound", a.Name)
			}
		}

		validateArgDetails(a, field, errf)
	}

	if restPos >= 0 && restPos != maxPos {
		errf("ARG_REST_NOT_LAST", "arguments", "the rest argument must hold the highest position")
	}

	// Gapped positions still bind in sorted order, so this is only a warning.
	if len(positions) > 0 {
		sorted := make([]int, 0, len(positions))
		for p := range positions {
			sorted = append(sorted, p)
		}
		sort.Ints(sorted)
		for i, p := range sorted {
			if p != i {
				warnf("ARG_POSITION_GAP", "arguments", "positions are not gapless from 0")
				break
			}
		}
	}
}

func validateArgDetails(a *ArgumentDefinition, field string, errf issueFunc) {
	if a.Type == ArgChoice {
		if len(a.Choices) == 0 {
			errf("CHOICES_REQUIRED", field, "choice argument %q needs at least one choice", a.Name)
		}
		if len(a.Choices) > maxChoices {
			errf("CHOICES_TOO_MANY", field, "choice argument %q has more than %d choices", a.Name, maxChoices)
		}
	} else if len(a.Choices) > 0 {
		errf("CHOICES_UNEXPECTED", field, "argument %q is not choice-typed but declares choices", a.Name)
	}

	if v := a.Validation; v != nil {
		if v.Min != nil && v.Max != nil && *v.Min > *v.Max {
			errf("RANGE_INVALID", field, "argument %q has min > max", a.Name)
		}
		if v.MinLength != nil && v.MaxLength != nil && *v.MinLength > *v.MaxLength {
			errf("RANGE_INVALID", field, "argument %q has minLength > maxLength", a.Name)
		}
		if v.Pattern != "" {
			if _, err := regexp.Compile(v.Pattern); err != nil {
				errf("PATTERN_INVALID", field, "argument %q has an invalid pattern: %v", a.Name, err)
			}
		}
	}
}

func validateAction(def *CommandDefinition, errf, warnf issueFunc) {
	if !knownActionTypes[def.ActionType] {
		errf("ACTION_TYPE_INVALID", "action_type", "unknown action type %q", def.ActionType)
		return
	}

	switch def.ActionType {
	case ActionMessage:
		if def.Action.Message == nil || def.Action.Message.Template == "" {
			errf("ACTION_MESSAGE_TEMPLATE", "action", "message actions need a template")
		}
	case ActionStatus:
		if def.Action.Status == nil || def.Action.Status.Status == "" {
			errf("ACTION_STATUS_REQUIRED", "action", "status actions need a status value")
		}
	case ActionNavigate:
		if def.Action.Navigate == nil || def.Action.Navigate.URL == "" {
			errf("ACTION_NAVIGATE_URL", "action", "navigate actions need a URL")
		}
	case ActionModal:
		if def.Action.Modal == nil || def.Action.Modal.Component == "" {
			errf("ACTION_MODAL_COMPONENT", "action", "modal actions need a component name")
		}
	case ActionAPI:
		if def.Action.API == nil || def.Action.API.Endpoint == "" {
			errf("ACTION_API_ENDPOINT", "action", "api actions need an endpoint")
		}
	case ActionWebhook:
		if def.Action.Webhook == nil || def.Action.Webhook.URL == "" {
			errf("ACTION_WEBHOOK_CONFIG", "action", "webhook actions need a URL")
		}
	case ActionWorkflow:
		if def.Action.Workflow == nil || def.Action.Workflow.Name == "" {
			errf("ACTION_WORKFLOW_CONFIG", "action", "workflow actions need a workflow name")
		}
	case ActionBuiltin:
		// Handler falls back to the trigger name at dispatch time.
	case ActionCustom:
		warnf("ACTION_CUSTOM_UNSUPPORTED", "action",
			"custom actions execute user-supplied scripts and are not supported; the command will always fail")
	}
}
