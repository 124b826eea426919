package discord

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"slashkit/pkg/slash"
)

// discordMaxTimeout is Discord's ceiling for member timeouts; indefinite
// mutes are clamped to it.
const discordMaxTimeout = 28 * 24 * time.Hour

// apply executes one declarative side effect against Discord. Effects that
// only make sense inside a client (navigate, modal, api, status) are logged
// and skipped; the engine stays transport-agnostic, adapters pick what they
// can honor.
func (b *Bot) apply(s *discordgo.Session, m *discordgo.MessageCreate, cctx *slash.CommandContext, eff slash.SideEffect) error {
	switch eff.Type {
	case "workflow":
		return b.applyWorkflow(s, m, cctx, eff.Payload)
	case "status", "navigate", "modal", "api":
		log.Printf("[INFO] Skipping client-side effect %q for /%s", eff.Type, cctx.Input)
		return nil
	default:
		log.Printf("[WARN] Unknown side effect type %q", eff.Type)
		return nil
	}
}

func (b *Bot) applyWorkflow(s *discordgo.Session, m *discordgo.MessageCreate, cctx *slash.CommandContext, payload map[string]any) error {
	action, _ := payload["action"].(string)
	channelID := payloadString(payload, "channel")
	if channelID == "" {
		channelID = m.ChannelID
	}

	switch action {
	case "set_slow_mode":
		secs := int(payloadInt64(payload, "duration") / 1000)
		_, err := s.ChannelEdit(channelID, &discordgo.ChannelEdit{RateLimitPerUser: &secs})
		return err

	case "set_topic":
		topic := payloadString(payload, "topic")
		_, err := s.ChannelEdit(channelID, &discordgo.ChannelEdit{Topic: topic})
		return err

	case "rename_channel":
		_, err := s.ChannelEdit(channelID, &discordgo.ChannelEdit{Name: payloadString(payload, "name")})
		return err

	case "archive_channel":
		ch, err := s.Channel(channelID)
		if err != nil {
			return err
		}
		if !ch.IsThread() {
			return fmt.Errorf("only threads can be archived on Discord")
		}
		archived := true
		_, err = s.ChannelEdit(channelID, &discordgo.ChannelEdit{Archived: &archived})
		return err

	case "clear_messages":
		count := int(payloadInt64(payload, "count"))
		msgs, err := s.ChannelMessages(channelID, count, "", "", "")
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(msgs))
		for _, msg := range msgs {
			ids = append(ids, msg.ID)
		}
		return s.ChannelMessagesBulkDelete(channelID, ids)

	case "mute_user":
		userID, ok := b.resolveUserID(s, m.GuildID, payloadString(payload, "user"))
		if !ok {
			return fmt.Errorf("user %q not found", payloadString(payload, "user"))
		}
		d := time.Duration(payloadInt64(payload, "duration")) * time.Millisecond
		if d <= 0 || d > discordMaxTimeout {
			d = discordMaxTimeout
		}
		until := time.Now().Add(d)
		return s.GuildMemberTimeout(m.GuildID, userID, &until)

	case "unmute_user":
		userID, ok := b.resolveUserID(s, m.GuildID, payloadString(payload, "user"))
		if !ok {
			return fmt.Errorf("user %q not found", payloadString(payload, "user"))
		}
		return s.GuildMemberTimeout(m.GuildID, userID, nil)

	case "kick_user":
		userID, ok := b.resolveUserID(s, m.GuildID, payloadString(payload, "user"))
		if !ok {
			return fmt.Errorf("user %q not found", payloadString(payload, "user"))
		}
		return s.GuildMemberDeleteWithReason(m.GuildID, userID, payloadString(payload, "reason"))

	case "ban_user":
		userID, ok := b.resolveUserID(s, m.GuildID, payloadString(payload, "user"))
		if !ok {
			return fmt.Errorf("user %q not found", payloadString(payload, "user"))
		}
		if err := s.GuildBanCreateWithReason(m.GuildID, userID, payloadString(payload, "reason"), 0); err != nil {
			return err
		}
		if ms := payloadInt64(payload, "duration"); ms > 0 {
			guildID := m.GuildID
			b.jobs.Schedule("unban:"+userID, time.Duration(ms)*time.Millisecond, func() {
				if err := s.GuildBanDelete(guildID, userID); err != nil {
					log.Printf("[ERR] Scheduled unban of %s failed: %v", userID, err)
				}
			})
		}
		return nil

	case "unban_user":
		userID, ok := b.resolveUserID(s, m.GuildID, payloadString(payload, "user"))
		if !ok {
			return fmt.Errorf("user %q not found", payloadString(payload, "user"))
		}
		b.jobs.Stop("unban:" + userID)
		return s.GuildBanDelete(m.GuildID, userID)

	case "invite_user":
		invite, err := s.ChannelInviteCreate(channelID, discordgo.Invite{MaxUses: 1, MaxAge: 86400})
		if err != nil {
			return err
		}
		userID, ok := b.resolveUserID(s, m.GuildID, payloadString(payload, "user"))
		if !ok {
			return fmt.Errorf("user %q not found", payloadString(payload, "user"))
		}
		dm, err := s.UserChannelCreate(userID)
		if err != nil {
			return err
		}
		_, err = s.ChannelMessageSend(dm.ID, fmt.Sprintf("You were invited to <#%s>: https://discord.gg/%s", channelID, invite.Code))
		return err

	case "schedule_reminder":
		at, err := time.Parse(time.RFC3339, payloadString(payload, "at"))
		if err != nil {
			return fmt.Errorf("bad reminder time: %w", err)
		}
		userID := payloadString(payload, "user")
		text := payloadString(payload, "text")
		name := fmt.Sprintf("remind:%s:%d", userID, at.UnixMilli())
		b.jobs.Schedule(name, time.Until(at), func() {
			if _, err := s.ChannelMessageSend(channelID, fmt.Sprintf("⏰ <@%s> %s", userID, text)); err != nil {
				log.Printf("[ERR] Reminder delivery failed: %v", err)
			}
		})
		return nil

	case "create_poll":
		return b.postPoll(s, channelID, payload)

	case "send_dm":
		userID, ok := b.resolveUserID(s, m.GuildID, payloadString(payload, "to"))
		if !ok {
			return fmt.Errorf("user %q not found", payloadString(payload, "to"))
		}
		dm, err := s.UserChannelCreate(userID)
		if err != nil {
			return err
		}
		_, err = s.ChannelMessageSend(dm.ID, payloadString(payload, "text"))
		return err

	case "leave_channel":
		log.Printf("[INFO] leave_channel has no Discord equivalent for members; skipped")
		return nil

	default:
		log.Printf("[WARN] Unknown workflow action %q", action)
		return nil
	}
}

var pollEmoji = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

func (b *Bot) postPoll(s *discordgo.Session, channelID string, payload map[string]any) error {
	question := payloadString(payload, "question")
	options := payloadStrings(payload, "options")
	if len(options) > len(pollEmoji) {
		options = options[:len(pollEmoji)]
	}

	var body strings.Builder
	fmt.Fprintf(&body, "📊 **%s**\n", question)
	for i, opt := range options {
		fmt.Fprintf(&body, "%s %s\n", pollEmoji[i], opt)
	}

	msg, err := s.ChannelMessageSend(channelID, body.String())
	if err != nil {
		return err
	}
	for i := range options {
		if err := s.MessageReactionAdd(channelID, msg.ID, pollEmoji[i]); err != nil {
			return err
		}
	}
	return nil
}

func payloadString(p map[string]any, key string) string {
	v, _ := p[key].(string)
	return v
}

func payloadInt64(p map[string]any, key string) int64 {
	switch v := p[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func payloadStrings(p map[string]any, key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
