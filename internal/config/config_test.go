package config

import (
    "testing"
    "time"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

func env(m map[string]string) func(string) (string, bool) {
    return func(k string) (string, bool) {
        v, ok := m[k]
        return v, ok
    }
}

func TestDefaults(t *testing.T) {
    cfg, err := fromLookup(env(nil))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if cfg != Default() {
        t.Fatalf("expected defaults, got %+v", cfg)
    }
    if cfg.ComputerSide() != domain.O {
        t.Fatalf("expected computer on O, got %v", cfg.ComputerSide())
    }
}

func TestOverrides(t *testing.T) {
    cfg, err := fromLookup(env(map[string]string{
        "TTT_ADDR":      "127.0.0.1:9000",
        "TTT_DB_PATH":   "/tmp/ttt.db",
        "TTT_AI_SIDE":   "x",
        "TTT_HEARTBEAT": "2s",
    }))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if cfg.Addr != "127.0.0.1:9000" || cfg.DBPath != "/tmp/ttt.db" || cfg.Heartbeat != 2*time.Second {
        t.Fatalf("overrides not applied: %+v", cfg)
    }
    if cfg.ComputerSide() != domain.X {
        t.Fatalf("expected computer on X, got %v", cfg.ComputerSide())
    }
}

func TestInvalidValues(t *testing.T) {
    cases := []map[string]string{
        {"TTT_AI_SIDE": "Z"},
        {"TTT_HEARTBEAT": "soon"},
        {"TTT_HEARTBEAT": "-1s"},
    }
    for _, c := range cases {
        if _, err := fromLookup(env(c)); err == nil {
            t.Fatalf("expected error for %v", c)
        }
    }
}
