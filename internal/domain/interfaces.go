package domain

import (
	"context"
)

// TrialRepository is the read-only content collaborator that supplies trial records.
type TrialRepository interface {
	Get(ctx context.Context, id string) (*TrialRecord, error)
	List(ctx context.Context) ([]TrialRecord, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetDatabaseConfig() *DatabaseConfig
	GetServerConfig() *ServerConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	GetDatabaseURL() string
	GetRedisConnectionString() string
	IsProduction() bool
	IsDevelopment() bool
	UsesPostgres() bool
}
