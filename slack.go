package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// StartSlackBot runs the presentation collaborator: users submit a
// scenario (or a bare number) with /corep and get the rendered extract
// back. Each command is handled in its own goroutine; the pipeline is
// safe for concurrent invocations.
func StartSlackBot(cfg Config, pipeline *Pipeline, api *slack.Client) error {
	client := socketmode.New(api)

	go func() {
		for evt := range client.Events {
			switch evt.Type {
			case socketmode.EventTypeSlashCommand:
				client.Ack(*evt.Request)
				cmd, ok := evt.Data.(slack.SlashCommand)
				if !ok {
					continue
				}
				log.Printf("Slash command received: %s from user=%s channel=%s", cmd.Command, cmd.UserID, cmd.ChannelID)
				go handleSlashCommand(api, pipeline, cfg, cmd)
			}
		}
	}()

	log.Println("Slack bot connected via Socket Mode")
	return client.Run()
}

func handleSlashCommand(api *slack.Client, pipeline *Pipeline, cfg Config, cmd slack.SlashCommand) {
	switch cmd.Command {
	case "/corep":
		handleScenario(api, pipeline, cmd)
	case "/corep-rules":
		handleRulesStatus(api, pipeline, cfg, cmd)
	case "/corep-help", "/help":
		handleHelp(api, cmd)
	}
}

func handleScenario(api *slack.Client, pipeline *Pipeline, cmd slack.SlashCommand) {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		postEphemeral(api, cmd, "Usage: /corep <scenario or numeric value>\n"+
			"Example: /corep The bank has £50m in CET1 capital and £5m of goodwill\n"+
			"A bare number (e.g. `50000000`) is auto-mapped to R010 (CET1 Capital).")
		return
	}

	result := pipeline.Process(context.Background(), text)
	if result.Failed() {
		postEphemeral(api, cmd, fmt.Sprintf(":x: %s", result.Err))
		return
	}

	msg := FormatExtractionResult(result)
	if _, _, err := api.PostMessage(cmd.ChannelID, slack.MsgOptionText(msg, false)); err != nil {
		log.Printf("scenario post error user=%s: %v", cmd.UserID, err)
		postEphemeral(api, cmd, "Error posting extract: "+err.Error())
	}
}

func handleRulesStatus(api *slack.Client, pipeline *Pipeline, cfg Config, cmd slack.SlashCommand) {
	msg := fmt.Sprintf("Rule corpus: %d rules loaded from %s\nSchema: %s\nRetrieval: top %d, fallback %d",
		pipeline.RuleCount(), cfg.RulesPath, cfg.SchemaPath, cfg.RetrievalTopN, cfg.RetrievalFallbackN)
	postEphemeral(api, cmd, msg)
}

func handleHelp(api *slack.Client, cmd slack.SlashCommand) {
	help := "*COREP Reporting Assistant*\n" +
		"• `/corep <scenario>` — Extract C 01.00 figures from a narrative scenario\n" +
		"• `/corep <number>` — Auto-map a bare value to R010 (CET1 Capital)\n" +
		"• `/corep-rules` — Show loaded rule corpus and retrieval settings\n" +
		"• `/corep-help` — This message"
	postEphemeral(api, cmd, help)
}

func postEphemeral(api *slack.Client, cmd slack.SlashCommand, text string) {
	_, err := api.PostEphemeral(cmd.ChannelID, cmd.UserID, slack.MsgOptionText(text, false))
	if err != nil {
		log.Printf("ephemeral post error user=%s channel=%s: %v", cmd.UserID, cmd.ChannelID, err)
	}
}
