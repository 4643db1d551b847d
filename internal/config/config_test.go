package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test default values
	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.ServerName != "formforge" {
		t.Errorf("Expected default server name to be 'formforge', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.QuestionsSource != "default.json" {
		t.Errorf("Expected default questions source to be 'default.json', got '%s'", cfg.QuestionsSource)
	}

	if cfg.OverrideSource != "" {
		t.Errorf("Expected default override source to be empty, got '%s'", cfg.OverrideSource)
	}

	if cfg.MaxUploadSize != 10*1024*1024 {
		t.Errorf("Expected default max upload size to be 10MB, got %d", cfg.MaxUploadSize)
	}

	// Test that storage directories default to subdirectories of the working directory
	currentDir, _ := os.Getwd()
	if cfg.DataDirectory != filepath.Join(currentDir, "data") {
		t.Errorf("Expected default data directory to be under '%s', got '%s'", currentDir, cfg.DataDirectory)
	}
	if cfg.ExportDirectory != filepath.Join(currentDir, "exports") {
		t.Errorf("Expected default export directory to be under '%s', got '%s'", currentDir, cfg.ExportDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	validConfig := func(t *testing.T) *Config {
		base := t.TempDir()
		return &Config{
			Mode:            "stdio",
			Host:            "127.0.0.1",
			Port:            8080,
			DataDirectory:   filepath.Join(base, "data"),
			ExportDirectory: filepath.Join(base, "exports"),
			QuestionsSource: "default.json",
			LogLevel:        "info",
			MaxUploadSize:   1024,
		}
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config - stdio mode",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid config - server mode",
			modify:  func(c *Config) { c.Mode = "server" },
			wantErr: false,
		},
		{
			name:    "invalid mode",
			modify:  func(c *Config) { c.Mode = "invalid" },
			wantErr: true,
		},
		{
			name: "invalid port - too low",
			modify: func(c *Config) {
				c.Mode = "server"
				c.Port = 0
			},
			wantErr: true,
		},
		{
			name: "invalid port - too high",
			modify: func(c *Config) {
				c.Mode = "server"
				c.Port = 65536
			},
			wantErr: true,
		},
		{
			name: "port ignored in stdio mode",
			modify: func(c *Config) {
				c.Mode = "stdio"
				c.Port = 0
			},
			wantErr: false,
		},
		{
			name:    "empty question source",
			modify:  func(c *Config) { c.QuestionsSource = "" },
			wantErr: true,
		},
		{
			name:    "empty data directory",
			modify:  func(c *Config) { c.DataDirectory = "" },
			wantErr: true,
		},
		{
			name:    "empty export directory",
			modify:  func(c *Config) { c.ExportDirectory = "" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "zero max upload size",
			modify:  func(c *Config) { c.MaxUploadSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative max upload size",
			modify:  func(c *Config) { c.MaxUploadSize = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateCreatesDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := &Config{
		Mode:            "stdio",
		DataDirectory:   filepath.Join(base, "data"),
		ExportDirectory: filepath.Join(base, "exports"),
		QuestionsSource: "default.json",
		LogLevel:        "info",
		MaxUploadSize:   1024,
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() unexpected error: %v", err)
	}

	for _, dir := range []string{cfg.DataDirectory, cfg.ExportDirectory} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("Expected directory %s to be created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("Expected %s to be a directory", dir)
		}
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: 9090}
	if got := cfg.Address(); got != "localhost:9090" {
		t.Errorf("Expected address to be 'localhost:9090', got '%s'", got)
	}
}

func TestConfigIsDebug(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	if !cfg.IsDebug() {
		t.Error("Expected IsDebug to be true for debug log level")
	}

	cfg.LogLevel = "info"
	if cfg.IsDebug() {
		t.Error("Expected IsDebug to be false for info log level")
	}
}

func TestConfigModeHelpers(t *testing.T) {
	cfg := &Config{Mode: ModeServer}
	if !cfg.IsServerMode() || cfg.IsStdioMode() {
		t.Error("Expected server mode helpers to report server mode")
	}

	cfg.Mode = ModeStdio
	if cfg.IsServerMode() || !cfg.IsStdioMode() {
		t.Error("Expected mode helpers to report stdio mode")
	}
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.String()
	if s == "" {
		t.Error("Expected String() to return a non-empty representation")
	}
}
