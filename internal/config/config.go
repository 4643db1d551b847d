package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort            = 8080
	DefaultHost            = "127.0.0.1"
	DefaultLogLevel        = "info"
	DefaultMaxUploadSize   = 10 * 1024 * 1024 // 10MB
	DefaultQuestionsSource = "default.json"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the form collection service
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Storage configuration
	DataDirectory   string // saved forms and image database live here
	ExportDirectory string // generated PDF documents are written here

	// Question source configuration
	QuestionsSource string // fixed default source, always loaded first
	OverrideSource  string // optional override, supersedes the default when it validates

	// Application configuration
	Version       string
	ServerName    string
	LogLevel      string
	MaxUploadSize int64 // Maximum uploaded image payload size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio, // Default to stdio mode for MCP compatibility
		Host:            DefaultHost,
		Port:            DefaultPort,
		DataDirectory:   filepath.Join(currentDir, "data"),
		ExportDirectory: filepath.Join(currentDir, "exports"),
		QuestionsSource: DefaultQuestionsSource,
		OverrideSource:  "",
		Version:         "1.0.0",
		ServerName:      "formforge",
		LogLevel:        DefaultLogLevel,
		MaxUploadSize:   DefaultMaxUploadSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if expandedPath, err := filepath.Abs(cfg.DataDirectory); err == nil {
		cfg.DataDirectory = expandedPath
	}
	if expandedPath, err := filepath.Abs(cfg.ExportDirectory); err == nil {
		cfg.ExportDirectory = expandedPath
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("FORMFORGE")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("datadir", cfg.DataDirectory)
	viper.SetDefault("exportdir", cfg.ExportDirectory)
	viper.SetDefault("questions", cfg.QuestionsSource)
	viper.SetDefault("override", cfg.OverrideSource)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxuploadsize", cfg.MaxUploadSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("datadir", cfg.DataDirectory, "Directory holding the saved-form store and image database")
	pflag.String("exportdir", cfg.ExportDirectory, "Directory generated PDF documents are written to")
	pflag.String("questions", cfg.QuestionsSource, "Default question source (URL or file path), always loaded first")
	pflag.String("override", cfg.OverrideSource, "Optional override question source, supersedes the default")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxuploadsize", cfg.MaxUploadSize, "Maximum uploaded image payload size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("datadir", pflag.Lookup("datadir"))
	_ = viper.BindPFlag("exportdir", pflag.Lookup("exportdir"))
	_ = viper.BindPFlag("questions", pflag.Lookup("questions"))
	_ = viper.BindPFlag("override", pflag.Lookup("override"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxuploadsize", pflag.Lookup("maxuploadsize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFormForge - collect questionnaire responses and export them as PDF\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                        "+
			"# stdio mode, bundled default questions\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --questions=https://example.com/q.json # stdio mode, remote questions\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --port=8081              # HTTP form page\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FORMFORGE_MODE          Server mode\n")
		fmt.Fprintf(os.Stderr, "  FORMFORGE_HOST          Server host\n")
		fmt.Fprintf(os.Stderr, "  FORMFORGE_PORT          Server port\n")
		fmt.Fprintf(os.Stderr, "  FORMFORGE_DATADIR       Data directory\n")
		fmt.Fprintf(os.Stderr, "  FORMFORGE_EXPORTDIR     Export directory\n")
		fmt.Fprintf(os.Stderr, "  FORMFORGE_QUESTIONS     Default question source\n")
		fmt.Fprintf(os.Stderr, "  FORMFORGE_OVERRIDE      Override question source\n")
		fmt.Fprintf(os.Stderr, "  FORMFORGE_LOGLEVEL      Log level\n")
		fmt.Fprintf(os.Stderr, "  FORMFORGE_MAXUPLOADSIZE Maximum upload size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DataDirectory = viper.GetString("datadir")
	cfg.ExportDirectory = viper.GetString("exportdir")
	cfg.QuestionsSource = viper.GetString("questions")
	cfg.OverrideSource = viper.GetString("override")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxUploadSize = viper.GetInt64("maxuploadsize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate question source
	if c.QuestionsSource == "" {
		return errors.New("default question source cannot be empty")
	}

	// Check storage directories exist, create if they don't
	for _, dir := range []string{c.DataDirectory, c.ExportDirectory} {
		if dir == "" {
			return errors.New("storage directory cannot be empty")
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", dir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access directory %s: %w", dir, err)
		}
	}

	// Validate max upload size
	if c.MaxUploadSize <= 0 {
		return errors.New("maximum upload size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DataDirectory: %s, ExportDirectory: %s, "+
		"QuestionsSource: %s, OverrideSource: %s, LogLevel: %s, MaxUploadSize: %d}",
		c.Mode, c.Host, c.Port, c.DataDirectory, c.ExportDirectory,
		c.QuestionsSource, c.OverrideSource, c.LogLevel, c.MaxUploadSize)
}

// IsServerMode returns true if the service is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the service is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
