package config

import (
	"errors"
	"testing"
)

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	if _, err := LoadConfig(); !errors.Is(err, ErrDiscordTokenNotSet) {
		t.Errorf("expected ErrDiscordTokenNotSet, got %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("CACHE_DIR", "")
	t.Setenv("COMMAND_PREFIX", "")
	t.Setenv("PLAY_ON_FREEZE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.CommandPrefix != "!" {
		t.Errorf("default prefix = %q, want !", cfg.CommandPrefix)
	}
	if cfg.CacheDir == "" {
		t.Error("cache dir should default to a local path")
	}
	if cfg.PlayOnFreeze {
		t.Error("play-on-freeze should default to off")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("COMMAND_PREFIX", "?")
	t.Setenv("CACHE_DIR", "/tmp/seiun-cache")
	t.Setenv("PLAY_ON_FREEZE", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.CommandPrefix != "?" || cfg.CacheDir != "/tmp/seiun-cache" || !cfg.PlayOnFreeze {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}
