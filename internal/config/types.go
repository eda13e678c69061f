package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	Slack         SlackConfig
	Players       PlayersConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// PlayersConfig controls seeding and the payer rotation ordering.
type PlayersConfig struct {
	// PayerOrder is an optional priority list of player names. Registered
	// players appear in this order first; anyone not listed follows
	// alphabetically. Empty means rotation follows registration order.
	PayerOrder []string
	// DefaultPlayers are seeded at startup when AutoInit is set.
	DefaultPlayers []string
	AutoInit       bool
}
