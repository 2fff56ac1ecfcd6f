// Package config holds server settings read from the environment.
package config

import (
    "fmt"
    "os"
    "time"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Config is the runtime configuration of the server.
type Config struct {
    Addr      string        `json:"addr"`
    DBPath    string        `json:"db_path"`
    AISide    string        `json:"ai_side"`
    Heartbeat time.Duration `json:"heartbeat"`
}

// Default returns the built-in settings. An empty DBPath keeps results in memory.
func Default() Config {
    return Config{
        Addr:      ":8080",
        AISide:    "O",
        Heartbeat: 15 * time.Second,
    }
}

// FromEnv overlays TTT_ADDR, TTT_DB_PATH, TTT_AI_SIDE and TTT_HEARTBEAT on
// the defaults.
func FromEnv() (Config, error) {
    return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
    cfg := Default()
    if v, ok := lookup("TTT_ADDR"); ok && v != "" {
        cfg.Addr = v
    }
    if v, ok := lookup("TTT_DB_PATH"); ok {
        cfg.DBPath = v
    }
    if v, ok := lookup("TTT_AI_SIDE"); ok && v != "" {
        cfg.AISide = v
    }
    if v, ok := lookup("TTT_HEARTBEAT"); ok && v != "" {
        d, err := time.ParseDuration(v)
        if err != nil {
            return Config{}, fmt.Errorf("TTT_HEARTBEAT: %w", err)
        }
        cfg.Heartbeat = d
    }
    return cfg, cfg.Validate()
}

// Validate checks that the values are usable.
func (c Config) Validate() error {
    if _, ok := domain.ParseCell(c.AISide); !ok {
        return fmt.Errorf("ai side must be X or O, got %q", c.AISide)
    }
    if c.Heartbeat <= 0 {
        return fmt.Errorf("heartbeat must be positive, got %s", c.Heartbeat)
    }
    if c.Addr == "" {
        return fmt.Errorf("addr must not be empty")
    }
    return nil
}

// ComputerSide returns the parsed AISide.
func (c Config) ComputerSide() domain.Cell {
    side, _ := domain.ParseCell(c.AISide)
    return side
}
