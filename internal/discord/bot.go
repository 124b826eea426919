// Package discord hosts the slash engine on Discord: guild messages that
// start with "/" are executed through the engine, the textual response is
// sent back, and declarative side effects are applied against Discord's API.
package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"slashkit/internal/config"
	"slashkit/internal/storage"
	"slashkit/pkg/jobmgr"
	"slashkit/pkg/slash"
)

// Bot connects one Discord session to the engine.
type Bot struct {
	dg      *discordgo.Session
	exec    *slash.Executor
	storage *storage.Storage
	jobs    *jobmgr.Manager
	cfg     *config.Config
}

// NewBot builds a bot around an executor. Storage may be nil when custom
// command persistence is not wanted.
func NewBot(cfg *config.Config, exec *slash.Executor, store *storage.Storage) *Bot {
	return &Bot{
		exec:    exec,
		storage: store,
		jobs:    jobmgr.New(),
		cfg:     cfg,
	}
}

// Run opens the Discord session and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	b.jobs.StopAll()
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("[INFO] Logged in as %s#%s", r.User.Username, r.User.Discriminator)
}

// onMessageCreate runs every "/..." message through the engine.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, "/") {
		return
	}

	cctx, err := b.buildContext(s, m)
	if err != nil {
		log.Printf("[ERR] Failed to build command context: %v", err)
		return
	}

	result := b.exec.Execute(context.Background(), m.Content, cctx)
	b.deliver(s, m, cctx, result)
}

// buildContext maps a Discord message onto the engine's invocation context.
func (b *Bot) buildContext(s *discordgo.Session, m *discordgo.MessageCreate) (*slash.CommandContext, error) {
	channel, err := s.State.Channel(m.ChannelID)
	if err != nil {
		channel, err = s.Channel(m.ChannelID)
		if err != nil {
			return nil, fmt.Errorf("channel lookup: %w", err)
		}
	}

	cctx := &slash.CommandContext{
		UserID:      m.Author.ID,
		Username:    m.Author.Username,
		ChannelID:   m.ChannelID,
		ChannelName: channel.Name,
		Input:       m.Content,
	}

	cctx.ChannelType = mapChannelType(channel)
	if channel.IsThread() {
		cctx.ThreadID = channel.ID
		cctx.ChannelID = channel.ParentID
		if parent, err := s.State.Channel(channel.ParentID); err == nil {
			cctx.ChannelName = parent.Name
			cctx.ChannelType = mapChannelType(parent)
		}
	}

	cctx.Role = b.resolveRole(s, m)
	return cctx, nil
}

// deliver sends the result back: ephemeral responses go to the user's DMs,
// everything else to the channel; side effects are applied afterwards.
func (b *Bot) deliver(s *discordgo.Session, m *discordgo.MessageCreate, cctx *slash.CommandContext, result *slash.CommandResult) {
	content := ""
	ephemeral := false
	switch {
	case !result.Success:
		content = "⚠️ " + result.Error
		ephemeral = true
	case result.Response != nil:
		content = result.Response.Content
		ephemeral = result.Response.Ephemeral
	}

	if content != "" {
		if err := b.send(s, m, content, ephemeral); err != nil {
			log.Printf("[ERR] Failed to deliver response for %q: %v", cctx.Input, err)
		}
	}
	if !result.Success {
		return
	}

	for _, eff := range result.SideEffects {
		if err := b.apply(s, m, cctx, eff); err != nil {
			log.Printf("[ERR] Side effect %s failed: %v", eff.Type, err)
			_ = b.send(s, m, fmt.Sprintf("⚠️ %s failed: %v", eff.Type, err), true)
		}
	}
}

func (b *Bot) send(s *discordgo.Session, m *discordgo.MessageCreate, content string, ephemeral bool) error {
	channelID := m.ChannelID
	if ephemeral {
		dm, err := s.UserChannelCreate(m.Author.ID)
		if err != nil {
			return fmt.Errorf("open DM: %w", err)
		}
		channelID = dm.ID
	}
	_, err := s.ChannelMessageSend(channelID, content)
	return err
}
