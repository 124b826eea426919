package slash

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Role is a chat role in the five-level hierarchy the engine understands.
// The source of truth for who holds which role lives in the host application;
// the engine only compares ranks through a RoleOracle.
type Role string

const (
	RoleGuest     Role = "guest"
	RoleMember    Role = "member"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
	RoleOwner     Role = "owner"
)

var roleRank = map[Role]int{
	RoleGuest:     0,
	RoleMember:    1,
	RoleModerator: 2,
	RoleAdmin:     3,
	RoleOwner:     4,
}

// Rank returns the numeric rank of the role, or -1 for unknown roles.
func (r Role) Rank() int {
	rank, ok := roleRank[r]
	if !ok {
		return -1
	}
	return rank
}

// RoleOracle answers whether actor satisfies the required role. The host
// application may plug in its own hierarchy; HasRoleOrHigher is the default.
type RoleOracle func(actor, required Role) bool

// HasRoleOrHigher reports whether actor ranks at or above required in the
// default owner > admin > moderator > member > guest hierarchy.
func HasRoleOrHigher(actor, required Role) bool {
	return actor.Rank() >= required.Rank()
}

// ArgType is the declared type of a command argument.
type ArgType string

const (
	ArgString   ArgType = "string"
	ArgNumber   ArgType = "number"
	ArgBoolean  ArgType = "boolean"
	ArgUser     ArgType = "user"
	ArgChannel  ArgType = "channel"
	ArgDate     ArgType = "date"
	ArgTime     ArgType = "time"
	ArgDateTime ArgType = "datetime"
	ArgDuration ArgType = "duration"
	ArgChoice   ArgType = "choice"
	ArgRest     ArgType = "rest"
)

var knownArgTypes = map[ArgType]bool{
	ArgString: true, ArgNumber: true, ArgBoolean: true, ArgUser: true,
	ArgChannel: true, ArgDate: true, ArgTime: true, ArgDateTime: true,
	ArgDuration: true, ArgChoice: true, ArgRest: true,
}

// Choice is one allowed value of a choice-typed argument.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ArgValidation holds optional per-argument constraints. Length and pattern
// apply to the raw token, min/max to the parsed number.
type ArgValidation struct {
	MinLength *int     `json:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
}

// ArgumentDefinition declares one positional or flag argument of a command.
// Exactly one of Position and Flag must be set.
type ArgumentDefinition struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Type        ArgType        `json:"type"`
	Required    bool           `json:"required"`
	Position    *int           `json:"position,omitempty"`
	Flag        string         `json:"flag,omitempty"`
	ShortFlag   string         `json:"short_flag,omitempty"`
	Default     string         `json:"default,omitempty"`
	Choices     []Choice       `json:"choices,omitempty"`
	Validation  *ArgValidation `json:"validation,omitempty"`
}

// ChannelType classifies where a command was invoked.
type ChannelType string

const (
	ChannelPublic  ChannelType = "public"
	ChannelPrivate ChannelType = "private"
	ChannelDirect  ChannelType = "direct"
	ChannelGroup   ChannelType = "group"
)

// PermissionConfig gates who may run a command.
type PermissionConfig struct {
	MinRole      Role     `json:"min_role"`
	AllowedRoles []Role   `json:"allowed_roles,omitempty"`
	AllowedUsers []string `json:"allowed_users,omitempty"`
	DeniedUsers  []string `json:"denied_users,omitempty"`
	AllowGuests  bool     `json:"allow_guests"`
}

// ChannelConfig gates where a command may run. An empty AllowedTypes list
// permits every channel type; explicit allow/block lists override it.
type ChannelConfig struct {
	AllowedTypes    []ChannelType `json:"allowed_types,omitempty"`
	AllowedChannels []string      `json:"allowed_channels,omitempty"`
	BlockedChannels []string      `json:"blocked_channels,omitempty"`
	AllowInThreads  bool          `json:"allow_in_threads"`
}

// ResponseConfig shapes the textual response of a command.
type ResponseConfig struct {
	Type       string `json:"type"`
	Template   string `json:"template,omitempty"`
	Ephemeral  bool   `json:"ephemeral"`
	ShowTyping bool   `json:"show_typing"`
}

// ActionType selects the action variant a command dispatches to.
type ActionType string

const (
	ActionMessage  ActionType = "message"
	ActionStatus   ActionType = "status"
	ActionNavigate ActionType = "navigate"
	ActionModal    ActionType = "modal"
	ActionAPI      ActionType = "api"
	ActionWebhook  ActionType = "webhook"
	ActionWorkflow ActionType = "workflow"
	ActionBuiltin  ActionType = "builtin"
	ActionCustom   ActionType = "custom"
)

var knownActionTypes = map[ActionType]bool{
	ActionMessage: true, ActionStatus: true, ActionNavigate: true,
	ActionModal: true, ActionAPI: true, ActionWebhook: true,
	ActionWorkflow: true, ActionBuiltin: true, ActionCustom: true,
}

// MessageAction posts a templated message.
type MessageAction struct {
	Template string `json:"template"`
}

// StatusAction mutates the invoking user's presence.
type StatusAction struct {
	Status string `json:"status"`
	Text   string `json:"text,omitempty"`
	Emoji  string `json:"emoji,omitempty"`
}

// NavigateAction sends the client to a URL or in-app route.
type NavigateAction struct {
	URL string `json:"url"`
}

// ModalAction opens a named client component.
type ModalAction struct {
	Component string         `json:"component"`
	Props     map[string]any `json:"props,omitempty"`
}

// APIAction asks the host to call one of its own endpoints.
type APIAction struct {
	Endpoint string            `json:"endpoint"`
	Method   string            `json:"method,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
}

// WebhookAction performs an inline HTTP call. TimeoutMS is clamped to the
// 1000–30000 range at execution time.
type WebhookAction struct {
	URL          string            `json:"url"`
	Method       string            `json:"method,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	Body         string            `json:"body,omitempty"`
	TimeoutMS    int               `json:"timeout_ms,omitempty"`
	Retries      int               `json:"retries,omitempty"`
	ResponsePath string            `json:"response_path,omitempty"`
}

// WorkflowAction emits a named workflow trigger for the host to run.
type WorkflowAction struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

// BuiltinAction routes to a handler in the executor's builtin table.
type BuiltinAction struct {
	Handler string `json:"handler,omitempty"`
}

// Action is the variant payload of a command; the field matching the
// command's ActionType must be set, all others nil. The custom variant
// carries no payload because it is never executed.
type Action struct {
	Message  *MessageAction  `json:"message,omitempty"`
	Status   *StatusAction   `json:"status,omitempty"`
	Navigate *NavigateAction `json:"navigate,omitempty"`
	Modal    *ModalAction    `json:"modal,omitempty"`
	API      *APIAction      `json:"api,omitempty"`
	Webhook  *WebhookAction  `json:"webhook,omitempty"`
	Workflow *WorkflowAction `json:"workflow,omitempty"`
	Builtin  *BuiltinAction  `json:"builtin,omitempty"`
}

// CommandDefinition is the full schema of one slash command.
type CommandDefinition struct {
	ID          string               `json:"id"`
	Trigger     string               `json:"trigger"`
	Aliases     []string             `json:"aliases,omitempty"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Arguments   []ArgumentDefinition `json:"arguments,omitempty"`
	Permissions PermissionConfig     `json:"permissions"`
	Channels    ChannelConfig        `json:"channels"`
	Response    ResponseConfig       `json:"response"`
	ActionType  ActionType           `json:"action_type"`
	Action      Action               `json:"action"`
	Enabled     bool                 `json:"enabled"`
	BuiltIn     bool                 `json:"built_in"`
}

// PositionalArguments returns the positional argument definitions sorted by
// position.
func (d *CommandDefinition) PositionalArguments() []ArgumentDefinition {
	var out []ArgumentDefinition
	for _, a := range d.Arguments {
		if a.Position != nil {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Position < *out[j].Position
	})
	return out
}

// FlagArguments returns the flag-bound argument definitions in declaration
// order.
func (d *CommandDefinition) FlagArguments() []ArgumentDefinition {
	var out []ArgumentDefinition
	for _, a := range d.Arguments {
		if a.Position == nil && a.Flag != "" {
			out = append(out, a)
		}
	}
	return out
}

// Usage renders a one-line usage string, e.g.
// "/ban <user> [--duration <duration>] [reason...]".
func (d *CommandDefinition) Usage() string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(d.Trigger)
	for _, a := range d.PositionalArguments() {
		name := a.Name
		if a.Type == ArgRest {
			name += "..."
		}
		if a.Required {
			fmt.Fprintf(&b, " <%s>", name)
		} else {
			fmt.Fprintf(&b, " [%s]", name)
		}
	}
	for _, a := range d.FlagArguments() {
		flag := "--" + a.Flag
		if a.ShortFlag != "" {
			flag += "|-" + a.ShortFlag
		}
		if a.Required {
			fmt.Fprintf(&b, " %s <%s>", flag, a.Name)
		} else {
			fmt.Fprintf(&b, " [%s <%s>]", flag, a.Name)
		}
	}
	return b.String()
}

// CommandContext describes a single invocation. It is never persisted and
// never shared between invocations.
type CommandContext struct {
	UserID      string
	Username    string
	Role        Role
	ChannelID   string
	ChannelName string
	ChannelType ChannelType
	ThreadID    string
	Input       string
	Timestamp   time.Time
}

// InThread reports whether the invocation happened inside a thread.
func (c *CommandContext) InThread() bool { return c.ThreadID != "" }

// ParsedArgument is one bound argument with its coerced value. Value holds
// string, float64, bool, int64 (duration milliseconds) or []string (rest),
// or nil when the argument was absent.
type ParsedArgument struct {
	Def   *ArgumentDefinition
	Raw   string
	Value any
	Valid bool
	Err   *ParseIssue
}

// StringValue renders the coerced value as a plain string; rest values are
// joined with single spaces.
func (p ParsedArgument) StringValue() string {
	return formatValue(p.Value)
}

// ParsedCommand is the result of binding tokenized input to a definition.
type ParsedCommand struct {
	Def        *CommandDefinition
	Positional []ParsedArgument
	Flags      map[string]ParsedArgument
	Remainder  string
	Issues     []ParseIssue
}

// Valid reports whether binding produced no errors.
func (p *ParsedCommand) Valid() bool { return len(p.Issues) == 0 }

// Argument looks up a bound argument by its declared name, searching
// positional bindings first, then flags.
func (p *ParsedCommand) Argument(name string) (ParsedArgument, bool) {
	for _, a := range p.Positional {
		if a.Def != nil && a.Def.Name == name {
			return a, true
		}
	}
	if a, ok := p.Flags[name]; ok {
		return a, true
	}
	return ParsedArgument{}, false
}

// String returns the named argument rendered as a string, or "" when unset.
func (p *ParsedCommand) String(name string) string {
	a, ok := p.Argument(name)
	if !ok {
		return ""
	}
	return a.StringValue()
}

// Response is the user-visible reply of a successful invocation.
type Response struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	Ephemeral bool   `json:"ephemeral"`
}

// SideEffect is a declarative instruction for the host application; the
// engine never applies one itself.
type SideEffect struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// CommandResult is the terminal value of one invocation.
type CommandResult struct {
	Success     bool         `json:"success"`
	Response    *Response    `json:"response,omitempty"`
	Error       string       `json:"error,omitempty"`
	SideEffects []SideEffect `json:"side_effects,omitempty"`
}

// Fail builds a failure result with no side effects.
func Fail(format string, args ...any) *CommandResult {
	return &CommandResult{Success: false, Error: fmt.Sprintf(format, args...)}
}
