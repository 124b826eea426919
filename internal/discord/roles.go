package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"slashkit/pkg/slash"
)

// moderatorPerms is the permission set that maps a member onto the engine's
// moderator role.
const moderatorPerms = discordgo.PermissionModerateMembers |
	discordgo.PermissionKickMembers |
	discordgo.PermissionManageMessages

// resolveRole maps Discord permissions onto the engine's five-level
// hierarchy. DMs have no guild context and count as member.
func (b *Bot) resolveRole(s *discordgo.Session, m *discordgo.MessageCreate) slash.Role {
	if m.GuildID == "" {
		return slash.RoleMember
	}

	if guild, err := s.State.Guild(m.GuildID); err == nil && guild.OwnerID == m.Author.ID {
		return slash.RoleOwner
	}

	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		return slash.RoleGuest
	}
	switch {
	case perms&discordgo.PermissionAdministrator != 0:
		return slash.RoleAdmin
	case perms&moderatorPerms != 0:
		return slash.RoleModerator
	case m.Member != nil && m.Member.Pending:
		return slash.RoleGuest
	default:
		return slash.RoleMember
	}
}

// mapChannelType reduces Discord's channel zoo to the engine's closed set.
func mapChannelType(ch *discordgo.Channel) slash.ChannelType {
	switch ch.Type {
	case discordgo.ChannelTypeDM:
		return slash.ChannelDirect
	case discordgo.ChannelTypeGroupDM:
		return slash.ChannelGroup
	default:
		return slash.ChannelPublic
	}
}

// resolveUserID turns an engine user reference (a raw mention like
// "<@123>", a bare snowflake, or a username) into a Discord user id.
func (b *Bot) resolveUserID(s *discordgo.Session, guildID, ref string) (string, bool) {
	ref = strings.TrimPrefix(ref, "@")
	if strings.HasPrefix(ref, "<@") && strings.HasSuffix(ref, ">") {
		id := strings.TrimSuffix(strings.TrimPrefix(ref, "<@"), ">")
		return strings.TrimPrefix(id, "!"), true
	}
	if isSnowflake(ref) {
		return ref, true
	}
	if guildID == "" {
		return "", false
	}
	members, err := s.GuildMembersSearch(guildID, ref, 1)
	if err != nil || len(members) == 0 || members[0].User == nil {
		return "", false
	}
	return members[0].User.ID, true
}

func isSnowflake(s string) bool {
	if len(s) < 15 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
