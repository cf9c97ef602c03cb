package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
	"sam-server/internal/util"
	"sam-server/pkg/playable/sam"
)

// store backends
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config provides configuration for the Sâm server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	// Store is either postgres or memory
	Store string `yaml:"store"`
	// TickInterval is how often a dealer checks for an expired turn
	TickInterval time.Duration `yaml:"tickInterval" envconfig:"tick_interval"`
	JWT          struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	}
	Log struct {
		Level             string `yaml:"level"`
		Format            string `yaml:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	Stakes struct {
		OneCard              int `yaml:"oneCard" envconfig:"one_card"`
		Fired                int `yaml:"fired"`
		Tiger                int `yaml:"tiger"`
		StarOfHopeMultiplier int `yaml:"starOfHopeMultiplier" envconfig:"star_of_hope_multiplier"`
	}
	Table struct {
		// Limit is how many tables the server will hold open
		Limit              int `yaml:"limit"`
		DefaultTurnTimeout int `yaml:"defaultTurnTimeout" envconfig:"default_turn_timeout"`
	}
	AdminPlayerIDs []string `yaml:"adminPlayerIds" envconfig:"admin_player_ids"`
}

var config Config

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	opts := sam.DefaultOptions()

	var cfg Config
	cfg.PGDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"
	cfg.MigrationsPath = "./sql"
	cfg.Store = StorePostgres
	cfg.TickInterval = time.Second
	cfg.JWT.PublicKey = "public.pem"
	cfg.JWT.PrivateKey = "private.key"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Stakes.OneCard = opts.Stakes.OneCard
	cfg.Stakes.Fired = opts.Stakes.Fired
	cfg.Stakes.Tiger = opts.Stakes.Tiger
	cfg.Stakes.StarOfHopeMultiplier = opts.StarOfHopeMultiplier
	cfg.Table.Limit = 10
	cfg.Table.DefaultTurnTimeout = 30
	cfg.AdminPlayerIDs = []string{}

	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error, the defaults and the environment are used instead.
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("SAM_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("sam", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}

// EngineOptions returns the engine options for the configured stakes
func (c Config) EngineOptions() sam.Options {
	opts := sam.DefaultOptions()
	opts.Stakes = sam.Stakes{
		OneCard: c.Stakes.OneCard,
		Fired:   c.Stakes.Fired,
		Tiger:   c.Stakes.Tiger,
	}
	opts.StarOfHopeMultiplier = c.Stakes.StarOfHopeMultiplier

	return opts
}
