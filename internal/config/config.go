package config

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}
	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: getEnvOr("MIGRATIONS_DIR", "./migrations"),
		Port:          getEnvOr("PORT", "8080"),
		Turso: TursoConfig{
			PrimaryURL: getEnvOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOr("TURSO_AUTH_TOKEN", ""),
		},
		Slack: SlackConfig{
			Token:     getEnvOr("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnvOr("SLACK_CHANNEL_ID", ""),
		},
		Players: PlayersConfig{
			PayerOrder:     splitNames(getEnvOr("PAYER_ORDER", "")),
			DefaultPlayers: splitNames(getEnvOr("DEFAULT_PLAYERS", "Minh,Toàn,Hải")),
			AutoInit:       getEnvOr("AUTO_INIT_PLAYERS", "true") != "false",
		},
	}
	return cfg
}

func splitNames(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
