// Package config provides Viper-based configuration loading for the
// craps simulator.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/craps/internal/game/craps"
)

// DatabaseConfig holds PostgreSQL connection settings for the backtest
// recorder.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimConfig holds batch-run settings.
type SimConfig struct {
	// Seed feeds the dice RNG; runs with equal seeds and scripts replay
	// identically.
	Seed int64 `mapstructure:"seed"`
	// MaxRolls stops the run after this many rolls; 0 means no cap.
	MaxRolls int `mapstructure:"max_rolls"`
	// MaxShooters stops the run after this many shooters; 0 means no cap.
	MaxShooters int `mapstructure:"max_shooters"`
	// Runout keeps rolling after a stop condition until no bets remain.
	Runout bool `mapstructure:"runout"`
	// Bankroll is each player's starting bankroll.
	Bankroll float64 `mapstructure:"bankroll"`
	// Unit is the base betting unit.
	Unit float64 `mapstructure:"unit"`
	// Strategy names a built-in strategy; empty plays command scripts only.
	Strategy string `mapstructure:"strategy"`
	// ScriptPath points at a Lua strategy; overrides Strategy when set.
	ScriptPath string `mapstructure:"script_path"`
	// ScriptInstLimit caps Lua opcodes per hook call; 0 uses the default.
	ScriptInstLimit int `mapstructure:"script_inst_limit"`
	// CommandFile points at a YAML command script to replay.
	CommandFile string `mapstructure:"command_file"`
	// Record persists events and snapshots to PostgreSQL.
	Record bool `mapstructure:"record"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Sim      SimConfig      `mapstructure:"sim"`
	// Table carries the table rules applied to every session.
	Table craps.Settings `mapstructure:"table"`
}

// Validate checks all configuration invariants. Database settings are
// only validated when recording is enabled.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSim(c.Sim); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTable(c.Table); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Sim.Record {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSim(s SimConfig) error {
	var errs []string
	if s.MaxRolls < 0 {
		errs = append(errs, fmt.Sprintf("sim.max_rolls must be >= 0, got %d", s.MaxRolls))
	}
	if s.MaxShooters < 0 {
		errs = append(errs, fmt.Sprintf("sim.max_shooters must be >= 0, got %d", s.MaxShooters))
	}
	if s.Bankroll <= 0 {
		errs = append(errs, fmt.Sprintf("sim.bankroll must be > 0, got %.2f", s.Bankroll))
	}
	if s.Unit <= 0 {
		errs = append(errs, fmt.Sprintf("sim.unit must be > 0, got %.2f", s.Unit))
	}
	if s.ScriptInstLimit < 0 {
		errs = append(errs, fmt.Sprintf("sim.script_inst_limit must be >= 0, got %d", s.ScriptInstLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTable(t craps.Settings) error {
	validRounding := map[craps.Rounding]bool{
		craps.RoundNone:          true,
		craps.RoundCeilDollar:    true,
		craps.RoundNearestDollar: true,
	}
	if !validRounding[t.VigRounding] {
		return fmt.Errorf("table.vig_rounding must be one of [none, ceil_dollar, nearest_dollar], got %q", t.VigRounding)
	}
	if t.VigFloor < 0 {
		return fmt.Errorf("table.vig_floor must be >= 0, got %.2f", t.VigFloor)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with CRAPS_ prefix
	v.SetEnvPrefix("CRAPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if cfg.Table.FieldPayouts == nil {
		cfg.Table.FieldPayouts = craps.DefaultSettings().FieldPayouts
	}
	if cfg.Table.FirePoints == nil {
		cfg.Table.FirePoints = craps.DefaultSettings().FirePoints
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults creates a standalone Viper instance with every default set,
// for callers that run without a config file.
//
// Postcondition: LoadFromViper(Defaults()) never fails.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "craps")
	v.SetDefault("database.password", "craps")
	v.SetDefault("database.name", "craps")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("sim.seed", 1)
	v.SetDefault("sim.max_rolls", 1000)
	v.SetDefault("sim.max_shooters", 0)
	v.SetDefault("sim.runout", false)
	v.SetDefault("sim.bankroll", 1000)
	v.SetDefault("sim.unit", 10)
	v.SetDefault("sim.record", false)

	v.SetDefault("table.vig_rounding", "nearest_dollar")
	v.SetDefault("table.vig_floor", 0)
	v.SetDefault("table.vig_paid_on_win", false)
	v.SetDefault("table.allow_fixed_dice", false)
}
