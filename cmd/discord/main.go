// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"slashkit/internal/config"
	"slashkit/internal/discord"
	"slashkit/internal/logutil"
	"slashkit/internal/storage"
	v "slashkit/internal/version"
	"slashkit/pkg/slash"
)

func main() {
	log.Printf("[INFO] Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DiscordToken == "" {
		log.Fatal("[ERR] DISCORD_TOKEN is not set")
	}

	logutil.Setup(logutil.Options{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	registry := slash.NewRegistry()
	if err := slash.RegisterBuiltins(registry); err != nil {
		log.Fatal(err)
	}
	restored, err := store.Restore(registry)
	if err != nil {
		log.Printf("[WARN] Restoring custom commands: %v", err)
	}
	log.Printf("[INFO] Registered %d commands (%d custom restored)", len(registry.All()), restored)

	exec := slash.NewExecutor(registry,
		slash.WithWebhookClient(slash.NewWebhookClient(cfg.WebhookRPS)),
	)

	bot := discord.NewBot(cfg, exec, store)

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %v, shutting down", s)
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Fatalf("[ERR] Bot stopped: %v", err)
		}
	}
	log.Println("[INFO] Bye!")
}
