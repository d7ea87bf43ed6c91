package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// StartDataRefreshScheduler reloads the rule corpus and schema on a cron
// schedule so a re-published rulebook extract is picked up without a
// restart. The schedule is a standard 5-field cron expression
// (minute hour day-of-month month day-of-week), e.g. "0 6 * * *".
func StartDataRefreshScheduler(cfg Config, pipeline *Pipeline) {
	schedule := strings.TrimSpace(cfg.DataRefreshSchedule)
	if schedule == "" {
		log.Println("Data refresh disabled (data_refresh_schedule not set)")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid data_refresh_schedule '%s': %v — data refresh disabled", schedule, err)
		return
	}

	log.Printf("Data refresh scheduled (cron: %s) from %s and %s", schedule, cfg.RulesPath, cfg.SchemaPath)

	go func() {
		for {
			now := time.Now()
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next data refresh at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			if err := ReloadData(cfg, pipeline); err != nil {
				// Keep serving the previous snapshot on a failed reload.
				log.Printf("Data refresh failed: %v", err)
			}
		}
	}()
}

// ReloadData loads both data sources and swaps them into the pipeline
// only if both succeed.
func ReloadData(cfg Config, pipeline *Pipeline) error {
	rules, err := LoadRules(cfg.RulesPath)
	if err != nil {
		return fmt.Errorf("reload rules: %w", err)
	}
	schema, err := LoadSchema(cfg.SchemaPath)
	if err != nil {
		return fmt.Errorf("reload schema: %w", err)
	}
	pipeline.ReplaceData(rules, schema)
	log.Printf("Data refresh complete: rules=%d schema_rows=%d", len(rules), len(schema.Rows))
	return nil
}
