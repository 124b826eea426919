package slash

import "errors"

// IssueCode classifies a runtime parse problem.
type IssueCode string

const (
	IssueMissingRequired  IssueCode = "missing_required"
	IssueValidationFailed IssueCode = "validation_failed"
	IssueUnknownFlag      IssueCode = "unknown_flag"
)

// ParseIssue is one advisory binder/tokenizer error. Issues are collected,
// never fail-fast, so the user can correct the whole input at once.
type ParseIssue struct {
	Code     IssueCode `json:"code"`
	Argument string    `json:"argument,omitempty"`
	Message  string    `json:"message"`
}

func (i ParseIssue) Error() string { return i.Message }

// Registry errors. Definition-time validation issues live in validate.go;
// these cover trigger ownership at registration time.
var (
	ErrTriggerConflict = errors.New("trigger already owned by another custom command")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrDuplicateID     = errors.New("command id already registered")
)

// Registration warning and error codes surfaced to administrative callers.
const (
	CodeTriggerConflict         = "TRIGGER_CONFLICT"
	CodeTriggerOverridesBuiltin = "TRIGGER_OVERRIDES_BUILTIN"
)
