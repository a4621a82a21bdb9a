package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerSettings holds runtime settings for the dedicated server binary.
type ServerSettings struct {
	Port        uint          `env:"SHIPDUEL_PORT" envDefault:"12345"`
	Name        string        `env:"SHIPDUEL_SERVER_NAME" envDefault:"Shipduel Server"`
	StartDelay  time.Duration `env:"SHIPDUEL_START_DELAY" envDefault:"3s"`
	HoldLimit   uint32        `env:"SHIPDUEL_HOLD_LIMIT" envDefault:"0"`
	DebugDBPath string        `env:"SHIPDUEL_DEBUG_DB"`
}

// ClientSettings holds runtime settings for the headless client binary.
type ClientSettings struct {
	ServerAddress string        `env:"SHIPDUEL_SERVER" envDefault:"localhost:12345"`
	HoldLimit     uint32        `env:"SHIPDUEL_HOLD_LIMIT" envDefault:"0"`
	BotDifficulty int           `env:"SHIPDUEL_BOT_DIFFICULTY" envDefault:"1"`
	BotSeed       uint64        `env:"SHIPDUEL_BOT_SEED"`
	PingInterval  time.Duration `env:"SHIPDUEL_PING_INTERVAL" envDefault:"1s"`
	DebugDBPath   string        `env:"SHIPDUEL_DEBUG_DB"`
}

// LoadServerSettings reads ServerSettings from the environment.
func LoadServerSettings() (ServerSettings, error) {
	var s ServerSettings
	if err := env.Parse(&s); err != nil {
		return ServerSettings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// LoadClientSettings reads ClientSettings from the environment.
func LoadClientSettings() (ClientSettings, error) {
	var s ClientSettings
	if err := env.Parse(&s); err != nil {
		return ClientSettings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
