package slash

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// builtinHandlers returns the stock handler table. Keys match the Handler
// field of builtin actions, falling back to the trigger name.
func builtinHandlers() map[string]BuiltinHandler {
	return map[string]BuiltinHandler{
		"help":    handleHelp,
		"dnd":     handleDND,
		"status":  handleStatus,
		"mute":    handleMute,
		"unmute":  handleUnmute,
		"invite":  handleInvite,
		"leave":   handleLeave,
		"topic":   handleTopic,
		"rename":  handleRename,
		"archive": handleArchive,
		"remind":  handleRemind,
		"poll":    handlePoll,
		"search":  handleSearch,
		"giphy":   handleGiphy,
		"dm":      handleDM,
		"kick":    handleKick,
		"ban":     handleBan,
		"unban":   handleUnban,
		"slow":    handleSlow,
		"clear":   handleClear,
	}
}

// reply builds a success result honoring the invoked command's response
// config.
func reply(inv *Invocation, content string, effects ...SideEffect) (*CommandResult, error) {
	rc := inv.Parsed.Def.Response
	rtype := rc.Type
	if rtype == "" {
		rtype = "text"
	}
	result := &CommandResult{Success: true, SideEffects: effects}
	if content != "" {
		result.Response = &Response{Type: rtype, Content: content, Ephemeral: rc.Ephemeral}
	}
	return result, nil
}

func workflow(action string, payload map[string]any) SideEffect {
	p := map[string]any{"action": action}
	for k, v := range payload {
		p[k] = v
	}
	return SideEffect{Type: "workflow", Payload: p}
}

// durationMillis returns the bound duration argument in milliseconds, or
// fallback when the argument was not provided.
func durationMillis(inv *Invocation, name string, fallback int64) int64 {
	arg, ok := inv.Parsed.Argument(name)
	if !ok || arg.Value == nil {
		return fallback
	}
	ms, ok := arg.Value.(int64)
	if !ok {
		return fallback
	}
	return ms
}

func handleHelp(inv *Invocation) (*CommandResult, error) {
	trigger := inv.Parsed.String("command")
	if trigger != "" {
		def, ok := inv.Registry.Resolve(strings.TrimPrefix(trigger, "/"))
		if !ok {
			return nil, fmt.Errorf("no such command: /%s", trigger)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "**/%s** — %s\n", def.Trigger, def.Description)
		fmt.Fprintf(&b, "Usage: %s", def.Usage())
		if len(def.Aliases) > 0 {
			fmt.Fprintf(&b, "\nAliases: %s", strings.Join(def.Aliases, ", "))
		}
		return reply(inv, b.String())
	}

	byCategory := make(map[string][]*CommandDefinition)
	for _, def := range inv.Registry.All() {
		if !def.Enabled {
			continue
		}
		byCategory[def.Category] = append(byCategory[def.Category], def)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "\n**%s**\n", c)
		for _, def := range byCategory[c] {
			fmt.Fprintf(&b, "  /%s — %s\n", def.Trigger, def.Description)
		}
	}
	return reply(inv, b.String())
}

func handleDND(inv *Invocation) (*CommandResult, error) {
	ms := durationMillis(inv, "duration", DurationForever)

	payload := map[string]any{
		"status": "dnd",
		"user":   inv.Context.UserID,
	}
	msg := "Do not disturb enabled"
	if ms > 0 {
		payload["duration"] = ms
		msg = fmt.Sprintf("Do not disturb enabled for %s", inv.Parsed.String("duration"))
	}
	return reply(inv, msg, SideEffect{Type: "status", Payload: payload})
}

func handleStatus(inv *Invocation) (*CommandResult, error) {
	text := inv.Parsed.String("text")
	emoji := inv.Parsed.String("emoji")

	if text == "" && emoji == "" {
		eff := SideEffect{Type: "status", Payload: map[string]any{
			"status": "active", "text": "", "user": inv.Context.UserID,
		}}
		return reply(inv, "Status cleared", eff)
	}
	eff := SideEffect{Type: "status", Payload: map[string]any{
		"status": "custom", "text": text, "emoji": emoji, "user": inv.Context.UserID,
	}}
	return reply(inv, fmt.Sprintf("Status set to %q", text), eff)
}

func handleMute(inv *Invocation) (*CommandResult, error) {
	user := inv.Parsed.String("user")
	ms := durationMillis(inv, "duration", DurationForever)

	payload := map[string]any{"user": user, "channel": inv.Context.ChannelID}
	msg := fmt.Sprintf("Muted @%s", user)
	if ms > 0 {
		payload["duration"] = ms
		msg = fmt.Sprintf("Muted @%s for %s", user, inv.Parsed.String("duration"))
	}
	return reply(inv, msg, workflow("mute_user", payload))
}

func handleUnmute(inv *Invocation) (*CommandResult, error) {
	user := inv.Parsed.String("user")
	eff := workflow("unmute_user", map[string]any{"user": user, "channel": inv.Context.ChannelID})
	return reply(inv, fmt.Sprintf("Unmuted @%s", user), eff)
}

func handleInvite(inv *Invocation) (*CommandResult, error) {
	user := inv.Parsed.String("user")
	eff := workflow("invite_user", map[string]any{"user": user, "channel": inv.Context.ChannelID})
	return reply(inv, fmt.Sprintf("Invited @%s to #%s", user, inv.Context.ChannelName), eff)
}

func handleLeave(inv *Invocation) (*CommandResult, error) {
	eff := workflow("leave_channel", map[string]any{
		"user": inv.Context.UserID, "channel": inv.Context.ChannelID,
	})
	return reply(inv, "", eff)
}

func handleTopic(inv *Invocation) (*CommandResult, error) {
	text := inv.Parsed.String("text")
	if text == "" {
		return nil, errors.New("topic text is required")
	}
	eff := workflow("set_topic", map[string]any{"topic": text, "channel": inv.Context.ChannelID})
	return reply(inv, fmt.Sprintf("Topic set to %q", text), eff)
}

func handleRename(inv *Invocation) (*CommandResult, error) {
	name := inv.Parsed.String("name")
	eff := workflow("rename_channel", map[string]any{"name": name, "channel": inv.Context.ChannelID})
	return reply(inv, fmt.Sprintf("Channel renamed to #%s", name), eff)
}

func handleArchive(inv *Invocation) (*CommandResult, error) {
	eff := workflow("archive_channel", map[string]any{"channel": inv.Context.ChannelID})
	return reply(inv, fmt.Sprintf("#%s archived", inv.Context.ChannelName), eff)
}

func handleRemind(inv *Invocation) (*CommandResult, error) {
	at := inv.Parsed.String("when")
	text := inv.Parsed.String("text")
	if text == "" {
		return nil, errors.New("reminder text is required")
	}
	eff := workflow("schedule_reminder", map[string]any{
		"at": at, "text": text,
		"user": inv.Context.UserID, "channel": inv.Context.ChannelID,
	})
	return reply(inv, fmt.Sprintf("Reminder set for %s", at), eff)
}

func handlePoll(inv *Invocation) (*CommandResult, error) {
	question := inv.Parsed.String("question")

	var options []string
	if arg, ok := inv.Parsed.Argument("options"); ok {
		if vals, ok := arg.Value.([]string); ok {
			options = vals
		}
	}
	if len(options) < 2 {
		return nil, errors.New("a poll needs a question and at least 2 quoted options")
	}

	eff := workflow("create_poll", map[string]any{
		"question": question,
		"options":  options,
		"channel":  inv.Context.ChannelID,
		"user":     inv.Context.UserID,
	})
	return reply(inv, fmt.Sprintf("Poll created: %s", question), eff)
}

func handleSearch(inv *Invocation) (*CommandResult, error) {
	query := inv.Parsed.String("query")
	if query == "" {
		return nil, errors.New("search query is required")
	}
	eff := SideEffect{Type: "navigate", Payload: map[string]any{
		"url": "/search?q=" + url.QueryEscape(query),
	}}
	return reply(inv, "", eff)
}

func handleGiphy(inv *Invocation) (*CommandResult, error) {
	query := inv.Parsed.String("query")
	if query == "" {
		return nil, errors.New("search text is required")
	}
	eff := SideEffect{Type: "api", Payload: map[string]any{
		"endpoint": "giphy.search",
		"method":   "GET",
		"params":   map[string]any{"q": query, "channel": inv.Context.ChannelID},
	}}
	return reply(inv, "", eff)
}

func handleDM(inv *Invocation) (*CommandResult, error) {
	user := inv.Parsed.String("user")
	message := inv.Parsed.String("message")

	effects := []SideEffect{{Type: "navigate", Payload: map[string]any{"url": "/dm/" + url.PathEscape(user)}}}
	if message != "" {
		effects = append(effects, workflow("send_dm", map[string]any{
			"to": user, "text": message, "from": inv.Context.UserID,
		}))
	}
	return reply(inv, "", effects...)
}

func handleKick(inv *Invocation) (*CommandResult, error) {
	user := inv.Parsed.String("user")
	eff := workflow("kick_user", map[string]any{
		"user": user, "reason": inv.Parsed.String("reason"), "channel": inv.Context.ChannelID,
	})
	return reply(inv, fmt.Sprintf("Kicked @%s", user), eff)
}

func handleBan(inv *Invocation) (*CommandResult, error) {
	user := inv.Parsed.String("user")
	payload := map[string]any{
		"user": user, "reason": inv.Parsed.String("reason"), "channel": inv.Context.ChannelID,
	}
	msg := fmt.Sprintf("Banned @%s", user)
	if ms := durationMillis(inv, "duration", DurationForever); ms > 0 {
		payload["duration"] = ms
		msg = fmt.Sprintf("Banned @%s for %s", user, inv.Parsed.String("duration"))
	}
	return reply(inv, msg, workflow("ban_user", payload))
}

func handleUnban(inv *Invocation) (*CommandResult, error) {
	user := inv.Parsed.String("user")
	eff := workflow("unban_user", map[string]any{"user": user})
	return reply(inv, fmt.Sprintf("Unbanned @%s", user), eff)
}

func handleSlow(inv *Invocation) (*CommandResult, error) {
	ms := durationMillis(inv, "duration", 0)
	if ms == DurationForever {
		return nil, errors.New("slow mode needs a finite duration or \"off\"")
	}
	eff := workflow("set_slow_mode", map[string]any{
		"duration": ms, "channel": inv.Context.ChannelID,
	})
	msg := fmt.Sprintf("Slow mode set to %s", inv.Parsed.String("duration"))
	if ms == 0 {
		msg = "Slow mode disabled"
	}
	return reply(inv, msg, eff)
}

func handleClear(inv *Invocation) (*CommandResult, error) {
	count := int64(0)
	if arg, ok := inv.Parsed.Argument("count"); ok {
		if n, ok := arg.Value.(float64); ok {
			count = int64(n)
		}
	}
	eff := workflow("clear_messages", map[string]any{
		"count": count, "channel": inv.Context.ChannelID,
	})
	return reply(inv, fmt.Sprintf("Clearing %d message(s)", count), eff)
}
