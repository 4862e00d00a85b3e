package config

import (
	"log/slog"
	"slices"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOAD_SCALE", "0.5")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.LoadScale != 0.5 {
		t.Errorf("LoadScale = %v, want 0.5", cfg.LoadScale)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 10<<20)
	}
}

func TestLoadRejectsBadScale(t *testing.T) {
	t.Setenv("LOAD_SCALE", "big")
	if _, err := Load(); err == nil {
		t.Error("Load accepted LOAD_SCALE=big")
	}
}

func TestOrigins(t *testing.T) {
	cfg := Config{AllowedOrigins: " http://a.test, ,http://b.test ,"}
	want := []string{"http://a.test", "http://b.test"}
	if got := cfg.Origins(); !slices.Equal(got, want) {
		t.Errorf("Origins() = %q, want %q", got, want)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg := Config{LogLevel: tt.in}
			if got := cfg.Level(); got != tt.want {
				t.Errorf("Level() = %v, want %v", got, tt.want)
			}
		})
	}
}
