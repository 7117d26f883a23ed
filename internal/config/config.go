package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Auriosi/AuriNPC/internal/model"
)

// EnvConfigPath overrides the config file path.
const EnvConfigPath = "AURINPC_CONFIG"

// DefaultConfigPath is used when EnvConfigPath is unset.
const DefaultConfigPath = "config/npcserver.yaml"

// Server holds all configuration for the NPC server.
type Server struct {
	LogLevel string `yaml:"log_level"`

	// Loops
	TickInterval      time.Duration `yaml:"tick_interval"`      // behavior step (default: 50ms)
	RespawnResolution time.Duration `yaml:"respawn_resolution"` // due-respawn check (default: 25ms)

	// World
	DefaultShard string   `yaml:"default_shard"`
	Shards       []string `yaml:"shards"` // created in addition to default_shard

	// Storage
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`

	// Scripts
	ScriptsDir string `yaml:"scripts_dir"`

	// Presets declared inline; spawned in addition to database presets.
	Presets []model.Preset `yaml:"presets"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds skin catalog connection parameters.
type RedisConfig struct {
	Enabled   bool                  `yaml:"enabled"`
	Addr      string                `yaml:"addr"`
	DB        int                   `yaml:"db"`
	KeyPrefix string                `yaml:"key_prefix"`
	Skins     map[string]model.Skin `yaml:"skins"` // seeded into the catalog on startup
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		LogLevel:          "info",
		TickInterval:      50 * time.Millisecond,
		RespawnResolution: 25 * time.Millisecond,
		DefaultShard:      "overworld",
		Database: DatabaseConfig{
			Enabled:  false,
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "aurinpc",
			Password: "aurinpc",
			DBName:   "aurinpc",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Enabled:   false,
			Addr:      "127.0.0.1:6379",
			KeyPrefix: "aurinpc:",
		},
		ScriptsDir: "scripts",
	}
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the config path from the environment or the default.
func Path() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultConfigPath
}

// Validate reports every invalid setting at once.
func (s Server) Validate() error {
	var errs []error
	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %v", s.TickInterval))
	}
	if s.RespawnResolution <= 0 {
		errs = append(errs, fmt.Errorf("respawn_resolution must be positive, got %v", s.RespawnResolution))
	}
	if s.DefaultShard == "" {
		errs = append(errs, errors.New("default_shard must not be empty"))
	}
	if s.Database.Enabled && s.Database.Host == "" {
		errs = append(errs, errors.New("database.host must be set when the database is enabled"))
	}
	if s.Redis.Enabled && s.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr must be set when redis is enabled"))
	}

	seen := make(map[string]bool, len(s.Presets))
	for i, p := range s.Presets {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("presets[%d]: name must not be empty", i))
			continue
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("presets[%d]: duplicate name %q", i, p.Name))
		}
		seen[p.Name] = true
	}
	return errors.Join(errs...)
}

// AllShards returns the default shard followed by the extra shards, without duplicates.
func (s Server) AllShards() []string {
	out := []string{s.DefaultShard}
	seen := map[string]bool{s.DefaultShard: true}
	for _, name := range s.Shards {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
