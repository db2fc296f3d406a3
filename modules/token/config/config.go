package config

import "github.com/forge-network/token-ledger/internal/postgres"

type Config struct {
	Database      string          `mapstructure:"database"` // Database to store ledger state. e.g. `postgres`
	Postgres      postgres.Config `mapstructure:"postgres"`
	APIHandlers   []string        `mapstructure:"api_handlers"`   // e.g. `http`
	AuditInterval string          `mapstructure:"audit_interval"` // Supply audit interval, Go duration string. Defaults to 60s.
}
