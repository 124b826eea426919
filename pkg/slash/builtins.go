package slash

// Command categories. The set is closed; the definition validator rejects
// categories outside it.
const (
	CategoryGeneral    = "general"
	CategoryPresence   = "presence"
	CategoryMessaging  = "messaging"
	CategoryModeration = "moderation"
	CategoryFun        = "fun"
	CategoryNavigation = "navigation"
)

var knownCategories = map[string]bool{
	CategoryGeneral: true, CategoryPresence: true, CategoryMessaging: true,
	CategoryModeration: true, CategoryFun: true, CategoryNavigation: true,
}

func pos(n int) *int { v := n; return &v }

func intPtr(n int) *int { v := n; return &v }

func fptr(f float64) *float64 { v := f; return &v }

// allChannels permits every channel type including threads.
var allChannels = ChannelConfig{AllowInThreads: true}

// guildChannels permits public and private channels only; moderation
// commands make no sense in DMs.
var guildChannels = ChannelConfig{
	AllowedTypes: []ChannelType{ChannelPublic, ChannelPrivate},
}

func memberPerms() PermissionConfig {
	return PermissionConfig{MinRole: RoleMember}
}

func modPerms() PermissionConfig {
	return PermissionConfig{MinRole: RoleModerator}
}

// builtinDef fills the boilerplate every built-in definition shares.
func builtinDef(trigger, name, description, category string) *CommandDefinition {
	return &CommandDefinition{
		ID:          "builtin." + trigger,
		Trigger:     trigger,
		Name:        name,
		Description: description,
		Category:    category,
		Permissions: memberPerms(),
		Channels:    allChannels,
		Response:    ResponseConfig{Type: "text"},
		ActionType:  ActionBuiltin,
		Enabled:     true,
		BuiltIn:     true,
	}
}

// BuiltinDefinitions returns the stock command set. The slice is rebuilt on
// every call so hosts may tweak definitions before registration.
func BuiltinDefinitions() []*CommandDefinition {
	var defs []*CommandDefinition
	add := func(d *CommandDefinition) { defs = append(defs, d) }

	// --- general ---

	help := builtinDef("help", "Help", "Lists available commands or shows usage for one command", CategoryGeneral)
	help.Aliases = []string{"h"}
	help.Permissions = PermissionConfig{MinRole: RoleGuest, AllowGuests: true}
	help.Response.Ephemeral = true
	help.Arguments = []ArgumentDefinition{{
		ID: "help.command", Name: "command", Description: "Command to describe",
		Type: ArgString, Position: pos(0),
	}}
	add(help)

	// --- presence ---

	away := builtinDef("away", "Away", "Marks you as away so others know not to expect a reply", CategoryPresence)
	away.ActionType = ActionStatus
	away.Action = Action{Status: &StatusAction{Status: "away"}}
	away.Response.Ephemeral = true
	add(away)

	active := builtinDef("active", "Active", "Clears your away state and marks you as active", CategoryPresence)
	active.Aliases = []string{"back"}
	active.ActionType = ActionStatus
	active.Action = Action{Status: &StatusAction{Status: "active"}}
	active.Response.Ephemeral = true
	add(active)

	dnd := builtinDef("dnd", "Do Not Disturb", "Silences notifications, optionally for a limited duration", CategoryPresence)
	dnd.Response.Ephemeral = true
	dnd.Arguments = []ArgumentDefinition{{
		ID: "dnd.duration", Name: "duration", Description: "How long to stay in do-not-disturb",
		Type: ArgDuration, Position: pos(0),
	}}
	add(dnd)

	status := builtinDef("status", "Set Status", "Sets a custom status text, optionally with an emoji", CategoryPresence)
	status.Response.Ephemeral = true
	status.Arguments = []ArgumentDefinition{
		{ID: "status.text", Name: "text", Description: "Status text to show", Type: ArgRest, Position: pos(0)},
		{ID: "status.emoji", Name: "emoji", Description: "Emoji shown next to the status", Type: ArgString, Flag: "emoji", ShortFlag: "e"},
	}
	add(status)

	// --- messaging / channel management ---

	mute := builtinDef("mute", "Mute User", "Mutes a user in this channel, optionally for a duration", CategoryModeration)
	mute.Permissions = modPerms()
	mute.Channels = guildChannels
	mute.Arguments = []ArgumentDefinition{
		{ID: "mute.user", Name: "user", Description: "User to mute", Type: ArgUser, Required: true, Position: pos(0)},
		{ID: "mute.duration", Name: "duration", Description: "Mute duration, e.g. 10m or forever", Type: ArgDuration, Position: pos(1)},
	}
	add(mute)

	unmute := builtinDef("unmute", "Unmute User", "Lifts an active mute from a user in this channel", CategoryModeration)
	unmute.Permissions = modPerms()
	unmute.Channels = guildChannels
	unmute.Arguments = []ArgumentDefinition{
		{ID: "unmute.user", Name: "user", Description: "User to unmute", Type: ArgUser, Required: true, Position: pos(0)},
	}
	add(unmute)

	invite := builtinDef("invite", "Invite User", "Invites a user into the current channel", CategoryMessaging)
	invite.Arguments = []ArgumentDefinition{
		{ID: "invite.user", Name: "user", Description: "User to invite", Type: ArgUser, Required: true, Position: pos(0)},
	}
	add(invite)

	leave := builtinDef("leave", "Leave Channel", "Removes you from the current channel", CategoryMessaging)
	leave.Channels = guildChannels
	add(leave)

	topic := builtinDef("topic", "Set Topic", "Sets the topic of the current channel", CategoryMessaging)
	topic.Permissions = modPerms()
	topic.Channels = guildChannels
	topic.Arguments = []ArgumentDefinition{
		{ID: "topic.text", Name: "text", Description: "New channel topic", Type: ArgRest, Position: pos(0)},
	}
	add(topic)

	rename := builtinDef("rename", "Rename Channel", "Renames the current channel for everyone", CategoryModeration)
	rename.Permissions = modPerms()
	rename.Channels = guildChannels
	rename.Arguments = []ArgumentDefinition{
		{ID: "rename.name", Name: "name", Description: "New channel name", Type: ArgString, Required: true, Position: pos(0),
			Validation: &ArgValidation{MinLength: intPtr(1), MaxLength: intPtr(80)}},
	}
	add(rename)

	archive := builtinDef("archive", "Archive Channel", "Archives the current channel; history stays readable", CategoryModeration)
	archive.Permissions = PermissionConfig{MinRole: RoleAdmin}
	archive.Channels = guildChannels
	add(archive)

	remind := builtinDef("remind", "Remind", "Schedules a reminder message for a future time", CategoryGeneral)
	remind.Response.Ephemeral = true
	remind.Arguments = []ArgumentDefinition{
		{ID: "remind.when", Name: "when", Description: "When to fire, e.g. \"in 2h\" or \"tomorrow at 9:00\"", Type: ArgDateTime, Required: true, Position: pos(0)},
		{ID: "remind.text", Name: "text", Description: "Reminder text", Type: ArgRest, Position: pos(1)},
	}
	add(remind)

	poll := builtinDef("poll", "Poll", "Creates a poll from a question and at least two options", CategoryMessaging)
	poll.Arguments = []ArgumentDefinition{
		{ID: "poll.question", Name: "question", Description: "Poll question", Type: ArgString, Required: true, Position: pos(0)},
		{ID: "poll.options", Name: "options", Description: "Poll options, each quoted", Type: ArgRest, Position: pos(1)},
	}
	add(poll)

	search := builtinDef("search", "Search", "Searches messages and files in this workspace", CategoryNavigation)
	search.Arguments = []ArgumentDefinition{
		{ID: "search.query", Name: "query", Description: "Search query", Type: ArgRest, Position: pos(0)},
	}
	add(search)

	giphy := builtinDef("giphy", "Giphy", "Posts a random GIF matching the given search text", CategoryFun)
	giphy.Aliases = []string{"gif"}
	giphy.Arguments = []ArgumentDefinition{
		{ID: "giphy.query", Name: "query", Description: "GIF search text", Type: ArgRest, Position: pos(0)},
	}
	add(giphy)

	// --- fun fixed-string templates ---

	shrug := builtinDef("shrug", "Shrug", "Appends the shrug kaomoji to your message", CategoryFun)
	shrug.ActionType = ActionMessage
	shrug.Action = Action{Message: &MessageAction{Template: `{{text}} ¯\_(ツ)_/¯`}}
	shrug.Arguments = []ArgumentDefinition{
		{ID: "shrug.text", Name: "text", Description: "Optional message text", Type: ArgRest, Position: pos(0)},
	}
	add(shrug)

	tableflip := builtinDef("tableflip", "Table Flip", "Appends the table flip kaomoji to your message", CategoryFun)
	tableflip.Aliases = []string{"flip"}
	tableflip.ActionType = ActionMessage
	tableflip.Action = Action{Message: &MessageAction{Template: `{{text}} (╯°□°)╯︵ ┻━┻`}}
	tableflip.Arguments = []ArgumentDefinition{
		{ID: "tableflip.text", Name: "text", Description: "Optional message text", Type: ArgRest, Position: pos(0)},
	}
	add(tableflip)

	unflip := builtinDef("unflip", "Unflip", "Puts the table back where it belongs", CategoryFun)
	unflip.ActionType = ActionMessage
	unflip.Action = Action{Message: &MessageAction{Template: `{{text}} ┬─┬ノ( º _ ºノ)`}}
	unflip.Arguments = []ArgumentDefinition{
		{ID: "unflip.text", Name: "text", Description: "Optional message text", Type: ArgRest, Position: pos(0)},
	}
	add(unflip)

	me := builtinDef("me", "Action Message", "Sends your message as a third-person action line", CategoryFun)
	me.ActionType = ActionMessage
	me.Action = Action{Message: &MessageAction{Template: `*{{username}} {{text}}*`}}
	me.Arguments = []ArgumentDefinition{
		{ID: "me.text", Name: "text", Description: "Action text", Type: ArgRest, Position: pos(0)},
	}
	add(me)

	// --- navigation ---

	dm := builtinDef("dm", "Direct Message", "Opens a direct message conversation with a user", CategoryNavigation)
	dm.Aliases = []string{"msg"}
	dm.Arguments = []ArgumentDefinition{
		{ID: "dm.user", Name: "user", Description: "User to message", Type: ArgUser, Required: true, Position: pos(0)},
		{ID: "dm.message", Name: "message", Description: "Optional first message", Type: ArgRest, Position: pos(1)},
	}
	add(dm)

	apps := builtinDef("apps", "Apps", "Opens the installed applications directory", CategoryNavigation)
	apps.ActionType = ActionNavigate
	apps.Action = Action{Navigate: &NavigateAction{URL: "/apps"}}
	add(apps)

	settings := builtinDef("settings", "Settings", "Opens your personal settings page", CategoryNavigation)
	settings.Aliases = []string{"prefs"}
	settings.ActionType = ActionNavigate
	settings.Action = Action{Navigate: &NavigateAction{URL: "/settings"}}
	add(settings)

	feedback := builtinDef("feedback", "Feedback", "Opens the feedback form so you can tell us what broke", CategoryGeneral)
	feedback.ActionType = ActionModal
	feedback.Action = Action{Modal: &ModalAction{
		Component: "feedback-form",
		Props:     map[string]any{"user": "{{username}}"},
	}}
	add(feedback)

	// --- moderation ---

	kick := builtinDef("kick", "Kick User", "Removes a user from the current channel", CategoryModeration)
	kick.Permissions = modPerms()
	kick.Channels = guildChannels
	kick.Arguments = []ArgumentDefinition{
		{ID: "kick.user", Name: "user", Description: "User to kick", Type: ArgUser, Required: true, Position: pos(0)},
		{ID: "kick.reason", Name: "reason", Description: "Reason shown in the audit log", Type: ArgRest, Position: pos(1)},
	}
	add(kick)

	ban := builtinDef("ban", "Ban User", "Bans a user from the workspace, optionally temporarily", CategoryModeration)
	ban.Permissions = modPerms()
	ban.Channels = guildChannels
	ban.Arguments = []ArgumentDefinition{
		{ID: "ban.user", Name: "user", Description: "User to ban", Type: ArgUser, Required: true, Position: pos(0)},
		{ID: "ban.reason", Name: "reason", Description: "Reason shown in the audit log", Type: ArgRest, Position: pos(1)},
		{ID: "ban.duration", Name: "duration", Description: "Ban duration, e.g. 7d or forever", Type: ArgDuration, Flag: "duration", ShortFlag: "d"},
	}
	add(ban)

	unban := builtinDef("unban", "Unban User", "Lifts an active ban so the user can rejoin", CategoryModeration)
	unban.Permissions = modPerms()
	unban.Channels = guildChannels
	unban.Arguments = []ArgumentDefinition{
		{ID: "unban.user", Name: "user", Description: "User to unban", Type: ArgUser, Required: true, Position: pos(0)},
	}
	add(unban)

	slow := builtinDef("slow", "Slow Mode", "Limits how often members may post in this channel", CategoryModeration)
	slow.Permissions = modPerms()
	slow.Channels = guildChannels
	slow.Arguments = []ArgumentDefinition{
		{ID: "slow.duration", Name: "duration", Description: "Delay between messages, or \"off\"", Type: ArgDuration, Required: true, Position: pos(0)},
	}
	add(slow)

	clear := builtinDef("clear", "Clear Messages", "Deletes the most recent messages in this channel", CategoryModeration)
	clear.Permissions = modPerms()
	clear.Channels = guildChannels
	clear.Arguments = []ArgumentDefinition{
		{ID: "clear.count", Name: "count", Description: "How many messages to delete", Type: ArgNumber, Required: true, Position: pos(0),
			Validation: &ArgValidation{Min: fptr(1), Max: fptr(100)}},
	}
	add(clear)

	return defs
}

// RegisterBuiltins loads the stock command set into a registry. Built-ins
// load before any custom definitions.
func RegisterBuiltins(r *Registry) error {
	for _, def := range BuiltinDefinitions() {
		if err := r.RegisterBuiltin(def); err != nil {
			return err
		}
	}
	return nil
}
