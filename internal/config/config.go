// Package config handles CrewComm configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vesselworks/crewcomm/internal/models"
)

// Config is the root configuration structure for CrewComm.
type Config struct {
	// Global settings
	Global GlobalConfig `yaml:"global" mapstructure:"global"`

	// Server settings for the message service the client talks to.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Operator is the signed-in identity.
	Operator OperatorConfig `yaml:"operator" mapstructure:"operator"`

	// Database settings (crewcommd only).
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Listen settings (crewcommd only).
	Listen ListenConfig `yaml:"listen" mapstructure:"listen"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// TUI settings
	TUI TUIConfig `yaml:"tui" mapstructure:"tui"`
}

// GlobalConfig contains global CrewComm settings.
type GlobalConfig struct {
	// DataDir is where CrewComm stores its data (default: ~/.local/share/crewcomm).
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// ConfigDir is where config files are stored (default: ~/.config/crewcomm).
	ConfigDir string `yaml:"config_dir" mapstructure:"config_dir"`
}

// ServerConfig describes the message service endpoint.
type ServerConfig struct {
	// URL is the base URL of the message service.
	URL string `yaml:"url" mapstructure:"url"`

	// Timeout bounds each request to the service.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// OperatorConfig carries the signed-in operator identity.
type OperatorConfig struct {
	ID       string `yaml:"id" mapstructure:"id"`
	CrewID   string `yaml:"crew_id" mapstructure:"crew_id"`
	FullName string `yaml:"full_name" mapstructure:"full_name"`
	Role     string `yaml:"role" mapstructure:"role"`
	Vessel   string `yaml:"vessel" mapstructure:"vessel"`
}

// Model converts the operator config into the domain identity.
func (o OperatorConfig) Model() models.Operator {
	return models.Operator{
		ID:       o.ID,
		CrewID:   o.CrewID,
		FullName: o.FullName,
		Role:     models.Role(o.Role),
		Vessel:   o.Vessel,
	}
}

// DatabaseConfig contains database settings for crewcommd.
type DatabaseConfig struct {
	// Path is the SQLite database file path.
	Path string `yaml:"path" mapstructure:"path"`

	// MaxConnections is the maximum number of database connections.
	MaxConnections int `yaml:"max_connections" mapstructure:"max_connections"`

	// BusyTimeout is how long to wait for a locked database (milliseconds).
	BusyTimeoutMs int `yaml:"busy_timeout_ms" mapstructure:"busy_timeout_ms"`
}

// ListenConfig contains crewcommd listener settings.
type ListenConfig struct {
	// Addr is the listen address, host:port.
	Addr string `yaml:"addr" mapstructure:"addr"`

	// AllowedOrigins restricts CORS for browser clients on the vessel LAN.
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// File is an optional log file path.
	File string `yaml:"file" mapstructure:"file"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// TUIConfig contains TUI settings.
type TUIConfig struct {
	// Theme is the color theme (default, high-contrast).
	Theme string `yaml:"theme" mapstructure:"theme"`

	// ShowTimestamps shows timestamps next to messages.
	ShowTimestamps bool `yaml:"show_timestamps" mapstructure:"show_timestamps"`

	// QuickTemplates are canned phrases offered by the compose bar.
	QuickTemplates []string `yaml:"quick_templates" mapstructure:"quick_templates"`
}

// DefaultQuickTemplates are the canned health-report phrases offered when
// the config does not override them.
var DefaultQuickTemplates = []string{
	"Please report to the medical bay.",
	"Your health check is due today.",
	"Medication ready for pickup.",
	"All clear, resume normal duties.",
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Global: GlobalConfig{
			DataDir:   filepath.Join(homeDir, ".local", "share", "crewcomm"),
			ConfigDir: filepath.Join(homeDir, ".config", "crewcomm"),
		},
		Server: ServerConfig{
			URL:     "http://127.0.0.1:8790",
			Timeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Path:           "", // Will be set to DataDir/crewcomm.db
			MaxConnections: 10,
			BusyTimeoutMs:  5000,
		},
		Listen: ListenConfig{
			Addr:           "127.0.0.1:8790",
			AllowedOrigins: []string{"http://localhost:*"},
		},
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "console",
			EnableCaller: false,
		},
		TUI: TUIConfig{
			Theme:          "default",
			ShowTimestamps: true,
			QuickTemplates: append([]string(nil), DefaultQuickTemplates...),
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url is required")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database.max_connections must be at least 1")
	}
	if c.Listen.Addr == "" {
		return fmt.Errorf("listen.addr is required")
	}
	switch c.TUI.Theme {
	case "default", "high-contrast":
	default:
		return fmt.Errorf("tui.theme must be one of default, high-contrast")
	}
	return nil
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Global.DataDir,
		c.Global.ConfigDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// DatabasePath returns the full database path.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(c.Global.DataDir, "crewcomm.db")
}

// ContextPath returns the path of the persisted selection context.
func (c *Config) ContextPath() string {
	return filepath.Join(c.Global.ConfigDir, "context.yaml")
}
