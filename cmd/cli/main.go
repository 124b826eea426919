// cmd/cli/main.go
//
// Interactive shell for exercising the command engine without a chat
// backend. Type "/help" to list commands, "exit" to quit.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"slashkit/internal/config"
	v "slashkit/internal/version"
	"slashkit/pkg/slash"
)

func main() {
	role := flag.String("role", string(slash.RoleMember), "role to run as (guest|member|moderator|admin|owner)")
	channel := flag.String("channel", "general", "channel name for the session")
	chanType := flag.String("channel-type", string(slash.ChannelPublic), "channel type (public|private|direct|group)")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	registry := slash.NewRegistry()
	if err := slash.RegisterBuiltins(registry); err != nil {
		log.Fatal(err)
	}
	exec := slash.NewExecutor(registry,
		slash.WithWebhookClient(slash.NewWebhookClient(cfg.WebhookRPS)),
	)

	cctx := &slash.CommandContext{
		UserID:      "cli",
		Username:    "cli",
		Role:        slash.Role(*role),
		ChannelID:   "cli-channel",
		ChannelName: *channel,
		ChannelType: slash.ChannelType(*chanType),
	}

	fmt.Printf("%s %s interactive shell. Role: %s. Type /help for commands, exit to quit.\n",
		v.AppName, v.Version, cctx.Role)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if !strings.HasPrefix(line, "/") {
			fmt.Println("commands start with /")
			continue
		}

		cctx.Input = line
		result := exec.Execute(context.Background(), line, cctx)
		printResult(result)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("[ERR] Reading input: %v", err)
	}
}

func printResult(result *slash.CommandResult) {
	if !result.Success {
		fmt.Printf("error: %s\n", result.Error)
		return
	}
	if result.Response != nil && result.Response.Content != "" {
		marker := ""
		if result.Response.Ephemeral {
			marker = " (only you)"
		}
		fmt.Printf("%s%s\n", result.Response.Content, marker)
	}
	for _, eff := range result.SideEffects {
		fmt.Printf("  effect %s: %v\n", eff.Type, eff.Payload)
	}
}
