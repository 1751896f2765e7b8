// Package config loads SDK configuration from environment variables (with
// optional .env support), following the same precedence the rest of the
// stack uses elsewhere: explicit process environment wins, then .env, then
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Mode selects the Orchestrator's degradation level.
type Mode string

const (
	ModeFull      Mode = "full"
	ModeDegraded  Mode = "degraded"
	ModeMinimal   Mode = "minimal"
	ModeEmergency Mode = "emergency"
)

// Config is the SDK's environment-derived configuration.
type Config struct {
	DataDir        string
	RulesPath      string
	Mode           Mode
	RateBurst      float64
	RateRefill     float64
	BindHost       string
	BindPort       int
	MetricsAddr    string
	ConfigVersion  string
}

// Load reads a .env file (if present, without overriding already-set
// process environment variables) and builds a Config from the environment,
// applying defaults for anything unset.
func Load() (*Config, error) {
	_ = godotenv.Load() // best effort; absence of .env is not an error

	cfg := &Config{
		DataDir:       getenv("NOVIN_DATA_DIR", "./data"),
		RulesPath:     getenv("NOVIN_RULES_PATH", ""),
		Mode:          Mode(getenv("NOVIN_MODE", string(ModeFull))),
		BindHost:      getenv("NOVIN_BIND_HOST", "127.0.0.1"),
		MetricsAddr:   getenv("NOVIN_METRICS_ADDR", ""),
		ConfigVersion: getenv("NOVIN_CONFIG_VERSION", "1"),
	}

	var err error
	if cfg.RateBurst, err = getenvFloat("NOVIN_RATE_BURST", 100); err != nil {
		return nil, err
	}
	if cfg.RateRefill, err = getenvFloat("NOVIN_RATE_REFILL", 100); err != nil {
		return nil, err
	}
	if cfg.BindPort, err = getenvInt("NOVIN_BIND_PORT", 8088); err != nil {
		return nil, err
	}

	switch cfg.Mode {
	case ModeFull, ModeDegraded, ModeMinimal, ModeEmergency:
	default:
		return nil, fmt.Errorf("config: invalid NOVIN_MODE %q", cfg.Mode)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return n, nil
}
