package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It covers the Moonraker installation targets, gcode locations, the metadata
// database, the HTTP server and the watch daemon.
type Config struct {
	Moonraker struct {
		ConfigFile string `yaml:"config_file"` // Moonraker configuration file
		InstallDir string `yaml:"install_dir"` // Moonraker installation base directory
		Section    string `yaml:"section"`     // Config section ensured by the installer
	} `yaml:"moonraker"`
	Install struct {
		SourceDir string `yaml:"source_dir"` // Local directory of component files to install
	} `yaml:"install"`
	Gcodes struct {
		Dirs     []string `yaml:"dirs"`     // Directories containing sliced gcode files
		Patterns []string `yaml:"patterns"` // Glob patterns for files treated as gcode
	} `yaml:"gcodes"`
	Database struct {
		Path string `yaml:"path"` // SQLite metadata database path
	} `yaml:"database"`
	Server struct {
		Address string `yaml:"address"` // HTTP listen address
	} `yaml:"server"`
	Scan struct {
		IgnoreOptions []string `yaml:"ignore_options"` // Option name globs dropped during parsing
		BufferSize    int      `yaml:"buffer_size"`    // Reverse reader chunk size in bytes
		RawValues     bool     `yaml:"raw_values"`     // Keep option values as strings instead of casting
	} `yaml:"scan"`
	Watch struct {
		Enabled  bool `yaml:"enabled"`  // Enable the gcode watch daemon
		Workers  int  `yaml:"workers"`  // Scan worker goroutines
		Debounce int  `yaml:"debounce"` // Delay in milliseconds before scanning a new file
	} `yaml:"watch"`
	Logging struct {
		Level string `yaml:"level"` // Log level: debug, info, warn, error
		File  string `yaml:"file"`  // Optional log file (stdout if empty)
	} `yaml:"logging"`
}

// LoadConfig loads configuration from the default location
// (~/.config/contrast/config.yaml).
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".config", "contrast", "config.yaml")
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Moonraker.ConfigFile != "" {
		cfg.Moonraker.ConfigFile = tempCfg.Moonraker.ConfigFile
	}
	if tempCfg.Moonraker.InstallDir != "" {
		cfg.Moonraker.InstallDir = tempCfg.Moonraker.InstallDir
	}
	if tempCfg.Moonraker.Section != "" {
		cfg.Moonraker.Section = tempCfg.Moonraker.Section
	}
	if tempCfg.Install.SourceDir != "" {
		cfg.Install.SourceDir = tempCfg.Install.SourceDir
	}
	if len(tempCfg.Gcodes.Dirs) > 0 {
		cfg.Gcodes.Dirs = tempCfg.Gcodes.Dirs
	}
	if len(tempCfg.Gcodes.Patterns) > 0 {
		cfg.Gcodes.Patterns = tempCfg.Gcodes.Patterns
	}
	if tempCfg.Database.Path != "" {
		cfg.Database.Path = tempCfg.Database.Path
	}
	if tempCfg.Server.Address != "" {
		cfg.Server.Address = tempCfg.Server.Address
	}
	if len(tempCfg.Scan.IgnoreOptions) > 0 {
		cfg.Scan.IgnoreOptions = tempCfg.Scan.IgnoreOptions
	}
	if tempCfg.Scan.BufferSize > 0 {
		cfg.Scan.BufferSize = tempCfg.Scan.BufferSize
	}
	cfg.Scan.RawValues = tempCfg.Scan.RawValues
	cfg.Watch.Enabled = tempCfg.Watch.Enabled
	if tempCfg.Watch.Workers > 0 {
		cfg.Watch.Workers = tempCfg.Watch.Workers
	}
	if tempCfg.Watch.Debounce > 0 {
		cfg.Watch.Debounce = tempCfg.Watch.Debounce
	}
	if tempCfg.Logging.Level != "" {
		cfg.Logging.Level = tempCfg.Logging.Level
	}
	if tempCfg.Logging.File != "" {
		cfg.Logging.File = tempCfg.Logging.File
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	cfg.Moonraker.ConfigFile = filepath.Join(home, "printer_data", "config", "moonraker.conf")
	cfg.Moonraker.InstallDir = filepath.Join(home, "moonraker")
	cfg.Moonraker.Section = "slicer"

	cfg.Install.SourceDir = "components"

	cfg.Gcodes.Dirs = []string{filepath.Join(home, "printer_data", "gcodes")}
	cfg.Gcodes.Patterns = []string{"*.gcode", "*.gco", "*.g"}

	cfg.Database.Path = filepath.Join(home, ".local", "share", "contrast", "metadata.db")

	cfg.Server.Address = "127.0.0.1:7225"

	cfg.Scan.IgnoreOptions = []string{"thumbnails*"}
	cfg.Scan.BufferSize = 8192
	cfg.Scan.RawValues = false

	cfg.Watch.Enabled = false
	cfg.Watch.Workers = 2
	cfg.Watch.Debounce = 500

	cfg.Logging.Level = "info"

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if c.Moonraker.Section == "" {
		return fmt.Errorf("moonraker section name is required")
	}

	if len(c.Gcodes.Dirs) == 0 {
		return fmt.Errorf("at least one gcodes directory is required")
	}

	for _, pattern := range c.Gcodes.Patterns {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid gcode pattern %q: %w", pattern, err)
		}
	}

	for _, pattern := range c.Scan.IgnoreOptions {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid ignore_options pattern %q: %w", pattern, err)
		}
	}

	if c.Scan.BufferSize < 256 {
		return fmt.Errorf("scan buffer_size must be >= 256 bytes")
	}

	if c.Watch.Enabled && c.Watch.Workers < 1 {
		return fmt.Errorf("watch workers must be >= 1")
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must be >= 0 milliseconds")
	}

	if c.Server.Address == "" {
		return fmt.Errorf("server address is required")
	}

	return nil
}

// IgnoreGlobs compiles the ignore_options patterns. Validate guarantees they
// compile, so errors here are ignored.
func (c *Config) IgnoreGlobs() []glob.Glob {
	globs := make([]glob.Glob, 0, len(c.Scan.IgnoreOptions))
	for _, pattern := range c.Scan.IgnoreOptions {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		globs = append(globs, g)
	}
	return globs
}

// GcodeGlobs compiles the gcode filename patterns.
func (c *Config) GcodeGlobs() []glob.Glob {
	globs := make([]glob.Glob, 0, len(c.Gcodes.Patterns))
	for _, pattern := range c.Gcodes.Patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		globs = append(globs, g)
	}
	return globs
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig(baseDir string) *Config {
	cfg := defaultConfig()
	cfg.Moonraker.ConfigFile = filepath.Join(baseDir, "moonraker.conf")
	cfg.Moonraker.InstallDir = filepath.Join(baseDir, "moonraker")
	cfg.Install.SourceDir = filepath.Join(baseDir, "components")
	cfg.Gcodes.Dirs = []string{filepath.Join(baseDir, "gcodes")}
	cfg.Database.Path = filepath.Join(baseDir, "metadata.db")
	cfg.Watch.Debounce = 10
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}
