package main

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SlackBotToken string `yaml:"slack_bot_token"`
	SlackAppToken string `yaml:"slack_app_token"`

	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	LLMTimeoutSecs  int    `yaml:"llm_timeout_seconds"`

	RulesPath  string `yaml:"rules_path"`
	SchemaPath string `yaml:"schema_path"`
	DBPath     string `yaml:"db_path"`

	// Retrieval tuning. Defaults match the published scoring scheme; the
	// knobs exist for experiments, not because other values are known to
	// work better. Zero (or unset) means use the default; explicit zero
	// weights are not supported.
	RetrievalTopN       int `yaml:"retrieval_top_n"`
	RetrievalFallbackN  int `yaml:"retrieval_fallback_n"`
	KeywordMatchScore   int `yaml:"keyword_match_score"`   // keyword in rule and narrative
	KeywordPresentScore int `yaml:"keyword_present_score"` // keyword in rule only
	RowColumnBonus      int `yaml:"row_column_bonus"`      // row/column token in narrative

	// Standard 5-field cron expression; empty disables scheduled reloads.
	DataRefreshSchedule string `yaml:"data_refresh_schedule"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackAppToken, "SLACK_APP_TOKEN")
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverrideInt(&cfg.LLMTimeoutSecs, "LLM_TIMEOUT_SECONDS")
	envOverride(&cfg.RulesPath, "RULES_PATH")
	envOverride(&cfg.SchemaPath, "SCHEMA_PATH")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverrideInt(&cfg.RetrievalTopN, "RETRIEVAL_TOP_N")
	envOverrideInt(&cfg.RetrievalFallbackN, "RETRIEVAL_FALLBACK_N")
	envOverrideInt(&cfg.KeywordMatchScore, "KEYWORD_MATCH_SCORE")
	envOverrideInt(&cfg.KeywordPresentScore, "KEYWORD_PRESENT_SCORE")
	envOverrideInt(&cfg.RowColumnBonus, "ROW_COLUMN_BONUS")
	envOverride(&cfg.DataRefreshSchedule, "DATA_REFRESH_SCHEDULE")

	// Defaults
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "anthropic"
	}
	if cfg.LLMTimeoutSecs == 0 {
		cfg.LLMTimeoutSecs = 120
	}
	if cfg.RulesPath == "" {
		cfg.RulesPath = "./data/pra_rules_subset.txt"
	}
	if cfg.SchemaPath == "" {
		cfg.SchemaPath = "./data/schema.json"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./corepbot.db"
	}
	if cfg.RetrievalTopN == 0 {
		cfg.RetrievalTopN = 10
	}
	if cfg.RetrievalFallbackN == 0 {
		cfg.RetrievalFallbackN = 5
	}
	if cfg.KeywordMatchScore == 0 {
		cfg.KeywordMatchScore = 2
	}
	if cfg.KeywordPresentScore == 0 {
		cfg.KeywordPresentScore = 1
	}
	if cfg.RowColumnBonus == 0 {
		cfg.RowColumnBonus = 3
	}

	// Validate required fields. The LLM API key is intentionally not
	// checked here: its absence is a configuration error the pipeline
	// reports per invocation, not a startup crash.
	required := map[string]string{
		"slack_bot_token": cfg.SlackBotToken,
		"slack_app_token": cfg.SlackAppToken,
	}
	for name, val := range required {
		if val == "" {
			log.Fatalf("Required config '%s' is not set (via config.yaml or env var)", name)
		}
	}

	switch cfg.LLMProvider {
	case "anthropic", "openai":
	default:
		log.Fatalf("llm_provider must be 'anthropic' or 'openai', got '%s'", cfg.LLMProvider)
	}

	if cfg.LLMTimeoutSecs < 1 {
		log.Fatalf("invalid llm_timeout_seconds '%d': must be >= 1", cfg.LLMTimeoutSecs)
	}
	if cfg.RetrievalTopN < 1 {
		log.Fatalf("invalid retrieval_top_n '%d': must be >= 1", cfg.RetrievalTopN)
	}
	if cfg.RetrievalFallbackN < 1 {
		log.Fatalf("invalid retrieval_fallback_n '%d': must be >= 1", cfg.RetrievalFallbackN)
	}
	if cfg.KeywordMatchScore < 1 || cfg.KeywordPresentScore < 1 || cfg.RowColumnBonus < 0 {
		log.Fatalf("invalid retrieval scoring weights: match=%d present=%d bonus=%d",
			cfg.KeywordMatchScore, cfg.KeywordPresentScore, cfg.RowColumnBonus)
	}

	return cfg
}

// APIKeyConfigured reports whether the active provider has a credential.
func (c Config) APIKeyConfigured() bool {
	switch c.LLMProvider {
	case "openai":
		return c.OpenAIAPIKey != ""
	default:
		return c.AnthropicAPIKey != ""
	}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
