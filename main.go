package main

import (
	"log"

	"github.com/slack-go/slack"
)

func main() {
	cfg := LoadConfig()

	rules, err := LoadRules(cfg.RulesPath)
	if err != nil {
		log.Printf("Rules load failed (pipeline will report a configuration error): %v", err)
	}
	schema, schemaErr := LoadSchema(cfg.SchemaPath)
	if schemaErr != nil {
		log.Printf("Schema load failed (pipeline will report a configuration error): %v", schemaErr)
	}

	pipeline := NewPipeline(cfg, rules, schema)
	if err != nil {
		pipeline.SetDataError(err)
	} else if schemaErr != nil {
		pipeline.SetDataError(schemaErr)
	} else {
		log.Printf("Loaded %d rules and %d schema rows", len(rules), len(schema.Rows))
	}

	audit, err := InitAuditDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init audit database: %v", err)
	}
	defer audit.Close()
	pipeline.SetAuditSink(audit)

	api := slack.New(
		cfg.SlackBotToken,
		slack.OptionAppLevelToken(cfg.SlackAppToken),
	)

	StartDataRefreshScheduler(cfg, pipeline)

	log.Println("Starting COREP Reporting Assistant...")
	if err := StartSlackBot(cfg, pipeline, api); err != nil {
		log.Fatalf("Slack bot error: %v", err)
	}
}
