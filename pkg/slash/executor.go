package slash

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var triggerExtractRe = regexp.MustCompile(`^/(\S+)`)

// Invocation is what a builtin handler receives: the per-call context, the
// bound arguments, and the registry for handlers (like /help) that reflect
// over the command set.
type Invocation struct {
	Context  *CommandContext
	Parsed   *ParsedCommand
	Registry *Registry
}

// BuiltinHandler is a pure function producing a result from an invocation.
// Handlers never mutate state; they emit side effects describing intent.
type BuiltinHandler func(inv *Invocation) (*CommandResult, error)

// Executor runs the per-invocation pipeline: resolve, enabled check,
// permission check, channel check, parse, dispatch, result assembly. It is
// terminal on the first failing stage and safe for concurrent use.
type Executor struct {
	registry *Registry
	roles    RoleOracle
	webhook  *WebhookClient
	handlers map[string]BuiltinHandler
	now      func() time.Time
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRoleOracle replaces the default role hierarchy comparison.
func WithRoleOracle(oracle RoleOracle) ExecutorOption {
	return func(e *Executor) { e.roles = oracle }
}

// WithWebhookClient replaces the default webhook HTTP client.
func WithWebhookClient(c *WebhookClient) ExecutorOption {
	return func(e *Executor) { e.webhook = c }
}

// WithClock fixes the time source; used in tests.
func WithClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) { e.now = now }
}

// WithHandler adds or replaces a builtin handler.
func WithHandler(name string, h BuiltinHandler) ExecutorOption {
	return func(e *Executor) { e.handlers[name] = h }
}

// NewExecutor builds an executor over the given registry, with the stock
// builtin handler table installed.
func NewExecutor(registry *Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry: registry,
		roles:    HasRoleOrHigher,
		webhook:  NewWebhookClient(5),
		handlers: builtinHandlers(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the executor resolves against.
func (e *Executor) Registry() *Registry { return e.registry }

// Execute resolves and runs one slash-command line. It always returns a
// non-nil result; handler panics and errors are converted into failure
// results and never propagate to the caller.
func (e *Executor) Execute(ctx context.Context, input string, cctx *CommandContext) (result *CommandResult) {
	defer func() {
		if r := recover(); r != nil {
			result = Fail("command failed: %v", r)
		}
	}()

	if cctx.Input == "" {
		cctx.Input = input
	}
	if cctx.Timestamp.IsZero() {
		cctx.Timestamp = e.now()
	}

	m := triggerExtractRe.FindStringSubmatch(input)
	if m == nil {
		return Fail("not a command: input must start with /")
	}
	trigger := m[1]
	argText := strings.TrimSpace(input[len(m[0]):])

	def, ok := e.registry.Resolve(trigger)
	if !ok {
		return Fail("unknown command: /%s", trigger)
	}
	if !def.Enabled {
		return Fail("command /%s is disabled", def.Trigger)
	}

	if reason := e.checkPermissions(def, cctx); reason != "" {
		return Fail("%s", reason)
	}
	if reason := checkChannel(def, cctx); reason != "" {
		return Fail("%s", reason)
	}

	parsed := Bind(def, argText, cctx.Timestamp)
	if !parsed.Valid() {
		msgs := make([]string, 0, len(parsed.Issues))
		for _, issue := range parsed.Issues {
			msgs = append(msgs, issue.Message)
		}
		return Fail("%s\nUsage: %s", strings.Join(msgs, "; "), def.Usage())
	}

	return e.dispatch(ctx, def, cctx, parsed)
}

// checkPermissions returns a denial reason, or "" when the actor may run the
// command. Owners and admins bypass everything except an explicit deny.
func (e *Executor) checkPermissions(def *CommandDefinition, cctx *CommandContext) string {
	p := def.Permissions

	for _, id := range p.DeniedUsers {
		if id == cctx.UserID {
			return fmt.Sprintf("you are not allowed to use /%s", def.Trigger)
		}
	}

	if cctx.Role == RoleOwner || cctx.Role == RoleAdmin {
		return ""
	}
	if cctx.Role == RoleGuest && !p.AllowGuests {
		return fmt.Sprintf("guests cannot use /%s", def.Trigger)
	}

	for _, id := range p.AllowedUsers {
		if id == cctx.UserID {
			return ""
		}
	}
	for _, role := range p.AllowedRoles {
		if role == cctx.Role {
			return ""
		}
	}

	minRole := p.MinRole
	if minRole == "" {
		minRole = RoleMember
	}
	if !e.roles(cctx.Role, minRole) {
		return fmt.Sprintf("/%s requires the %s role or higher", def.Trigger, minRole)
	}
	return ""
}

// checkChannel returns a denial reason, or "" when the channel context is
// acceptable. Explicit allow/block lists override the type rules.
func checkChannel(def *CommandDefinition, cctx *CommandContext) string {
	c := def.Channels

	for _, id := range c.BlockedChannels {
		if id == cctx.ChannelID {
			return fmt.Sprintf("/%s is blocked in this channel", def.Trigger)
		}
	}
	for _, id := range c.AllowedChannels {
		if id == cctx.ChannelID {
			return ""
		}
	}

	if len(c.AllowedTypes) > 0 {
		ok := false
		for _, t := range c.AllowedTypes {
			if t == cctx.ChannelType {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Sprintf("/%s cannot be used in %s channels", def.Trigger, cctx.ChannelType)
		}
	}
	if cctx.InThread() && !c.AllowInThreads {
		return fmt.Sprintf("/%s cannot be used in threads", def.Trigger)
	}
	return ""
}

// dispatch runs the action variant of a resolved, authorized, parsed command.
// ActionType is a closed enum, so this switch is the single place a new
// action variant must be handled.
func (e *Executor) dispatch(ctx context.Context, def *CommandDefinition, cctx *CommandContext, parsed *ParsedCommand) *CommandResult {
	bindings := buildBindings(cctx, parsed)

	switch def.ActionType {
	case ActionMessage:
		if def.Action.Message == nil {
			return Fail("/%s has no message payload", def.Trigger)
		}
		content := strings.TrimSpace(Interpolate(def.Action.Message.Template, bindings))
		return e.respond(def, content, nil, bindings)

	case ActionStatus:
		if def.Action.Status == nil {
			return Fail("/%s has no status payload", def.Trigger)
		}
		a := def.Action.Status
		eff := SideEffect{Type: "status", Payload: map[string]any{
			"status": Interpolate(a.Status, bindings),
			"text":   Interpolate(a.Text, bindings),
			"emoji":  a.Emoji,
			"user":   cctx.UserID,
		}}
		return e.respond(def, fmt.Sprintf("Status set to %s", a.Status), []SideEffect{eff}, bindings)

	case ActionNavigate:
		if def.Action.Navigate == nil {
			return Fail("/%s has no navigate payload", def.Trigger)
		}
		url := Interpolate(def.Action.Navigate.URL, bindings)
		eff := SideEffect{Type: "navigate", Payload: map[string]any{"url": url}}
		return e.respond(def, "", []SideEffect{eff}, bindings)

	case ActionModal:
		if def.Action.Modal == nil {
			return Fail("/%s has no modal payload", def.Trigger)
		}
		a := def.Action.Modal
		payload := map[string]any{"component": a.Component}
		if len(a.Props) > 0 {
			props := make(map[string]any, len(a.Props))
			for k, v := range a.Props {
				if s, ok := v.(string); ok {
					props[k] = Interpolate(s, bindings)
				} else {
					props[k] = v
				}
			}
			payload["props"] = props
		}
		eff := SideEffect{Type: "modal", Payload: payload}
		return e.respond(def, "", []SideEffect{eff}, bindings)

	case ActionAPI:
		if def.Action.API == nil {
			return Fail("/%s has no api payload", def.Trigger)
		}
		a := def.Action.API
		params := make(map[string]any, len(a.Params))
		for k, v := range a.Params {
			params[k] = Interpolate(v, bindings)
		}
		eff := SideEffect{Type: "api", Payload: map[string]any{
			"endpoint": Interpolate(a.Endpoint, bindings),
			"method":   a.Method,
			"params":   params,
		}}
		return e.respond(def, "", []SideEffect{eff}, bindings)

	case ActionWebhook:
		if def.Action.Webhook == nil {
			return Fail("/%s has no webhook payload", def.Trigger)
		}
		content, err := e.webhook.Call(ctx, def.Action.Webhook, bindings)
		if err != nil {
			return Fail("/%s: %v", def.Trigger, err)
		}
		return e.respond(def, content, nil, bindings)

	case ActionWorkflow:
		if def.Action.Workflow == nil {
			return Fail("/%s has no workflow payload", def.Trigger)
		}
		a := def.Action.Workflow
		payload := map[string]any{"action": a.Name}
		for k, v := range a.Params {
			payload[k] = Interpolate(v, bindings)
		}
		eff := SideEffect{Type: "workflow", Payload: payload}
		return e.respond(def, "", []SideEffect{eff}, bindings)

	case ActionBuiltin:
		name := def.Trigger
		if def.Action.Builtin != nil && def.Action.Builtin.Handler != "" {
			name = def.Action.Builtin.Handler
		}
		handler, ok := e.handlers[name]
		if !ok {
			return Fail("/%s has no builtin handler %q", def.Trigger, name)
		}
		result, err := handler(&Invocation{Context: cctx, Parsed: parsed, Registry: e.registry})
		if err != nil {
			return Fail("/%s: %v", def.Trigger, err)
		}
		return result

	case ActionCustom:
		// Declared but unsupported: custom actions would execute
		// user-supplied scripts, which this engine refuses to do.
		return Fail("/%s: custom actions are not implemented", def.Trigger)

	default:
		return Fail("/%s has unknown action type %q", def.Trigger, def.ActionType)
	}
}

// respond assembles a success result. A response template on the definition
// overrides the dispatch-computed content.
func (e *Executor) respond(def *CommandDefinition, content string, effects []SideEffect, bindings map[string]string) *CommandResult {
	result := &CommandResult{Success: true, SideEffects: effects}

	if def.Response.Template != "" {
		content = strings.TrimSpace(Interpolate(def.Response.Template, bindings))
	}
	rtype := def.Response.Type
	if rtype == "" {
		rtype = "text"
	}
	if content != "" {
		result.Response = &Response{Type: rtype, Content: content, Ephemeral: def.Response.Ephemeral}
	}
	return result
}

// buildBindings exposes context fields and bound argument values to
// templates. Argument names win over context names on collision.
func buildBindings(cctx *CommandContext, parsed *ParsedCommand) map[string]string {
	b := map[string]string{
		"user":         cctx.Username,
		"user_id":      cctx.UserID,
		"username":     cctx.Username,
		"channel":      cctx.ChannelName,
		"channel_id":   cctx.ChannelID,
		"channel_name": cctx.ChannelName,
		"role":         string(cctx.Role),
		"timestamp":    cctx.Timestamp.Format(time.RFC3339),
	}
	for _, a := range parsed.Positional {
		if a.Def != nil {
			b[a.Def.Name] = a.StringValue()
		}
	}
	for name, a := range parsed.Flags {
		b[name] = a.StringValue()
	}
	return b
}
