package main

import (
	"errors"
	"flag"
	"io"
	"testing"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("parkour", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Level != "yard" || cfg.PrefabDir != "prefabs" || cfg.TPS != 60 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Debug || cfg.AllAbilities || !cfg.Watch {
		t.Fatalf("bool defaults = %+v", cfg)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("PARKOUR_LEVEL", "tower")
	t.Setenv("PARKOUR_DEBUG", "true")
	t.Setenv("PARKOUR_TPS", "120")

	tests := []struct {
		name      string
		args      []string
		wantLevel string
		wantTPS   int
		wantAB    bool
	}{
		{"env only", nil, "tower", 120, false},
		{"flags win", []string{"-level", "yard", "-tps", "30", "-ab"}, "yard", 30, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseConfig(newFlagSet(), tt.args)
			if err != nil {
				t.Fatalf("parse config: %v", err)
			}
			if cfg.Level != tt.wantLevel || cfg.TPS != tt.wantTPS || cfg.AllAbilities != tt.wantAB {
				t.Fatalf("config = %+v", cfg)
			}
			if !cfg.Debug {
				t.Fatalf("debug from env lost")
			}
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	t.Run("bad env", func(t *testing.T) {
		t.Setenv("PARKOUR_TPS", "fast")
		if _, err := parseConfig(newFlagSet(), nil); err == nil {
			t.Fatalf("expected env error")
		}
	})
	t.Run("zero tps", func(t *testing.T) {
		_, err := parseConfig(newFlagSet(), []string{"-tps", "0"})
		if !errors.Is(err, errBadTPS) {
			t.Fatalf("err = %v, want errBadTPS", err)
		}
	})
	t.Run("unknown flag", func(t *testing.T) {
		if _, err := parseConfig(newFlagSet(), []string{"-nope"}); err == nil {
			t.Fatalf("expected flag error")
		}
	})
}
