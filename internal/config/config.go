package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/navtree/internal/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Locales maps a locale name to its URL prefix ("en": "/", "es": "/es/").
	Locales map[string]string `yaml:"locales"`

	// Pages optionally points at a JSON page manifest used instead of ContentDir.
	Pages string `yaml:"pages,omitempty"`

	ContentDir string        `yaml:"content_dir"`
	OutputDir  string        `yaml:"output_dir"`
	Production bool          `yaml:"production"`
	Tree       TreeConfig    `yaml:"tree"`
	Logging    LoggingConfig `yaml:"logging"`
}

// TreeConfig controls navigation tree construction and the mind-map export.
type TreeConfig struct {
	// Dump enables the mind-map export (files and client lookup).
	Dump bool `yaml:"dump"`
	// URLBase overrides the link base of the mind-map export.
	URLBase string `yaml:"url_base,omitempty"`
	// MissingParent is "create" or "fail".
	MissingParent string `yaml:"missing_parent,omitempty"`
	// TreesDir is where mind-map files go; defaults to <output_dir>/../trees.
	TreesDir string `yaml:"trees_dir,omitempty"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just note it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data, filepath.Dir(configPath))
}

// Parse decodes YAML configuration, expands environment variables, applies
// defaults and validates. Relative directories are resolved against baseDir.
func Parse(data []byte, baseDir string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	cfg.resolvePaths(baseDir)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ContentDir == "" {
		cfg.ContentDir = "docs"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "dist"
	}
	if cfg.Tree.MissingParent == "" {
		cfg.Tree.MissingParent = "create"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = string(LogLevelInfo)
	}
}

func (c *Config) resolvePaths(baseDir string) {
	if baseDir == "" {
		return
	}
	for _, p := range []*string{&c.ContentDir, &c.OutputDir, &c.Pages, &c.Tree.TreesDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(baseDir, *p)
		}
	}
}

// LocaleNames returns the configured locale names in sorted order.
func (c *Config) LocaleNames() []string {
	names := make([]string, 0, len(c.Locales))
	for name := range c.Locales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TreesDir returns the directory for mind-map files.
func (c *Config) TreesDir() string {
	if c.Tree.TreesDir != "" {
		return c.Tree.TreesDir
	}
	return filepath.Join(c.OutputDir, "..", "trees")
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Locales:    map[string]string{"en": "/", "ru": "/ru/"},
		ContentDir: "docs",
		OutputDir:  "docs/.vuepress/dist",
		Tree: TreeConfig{
			Dump:          true,
			MissingParent: "create",
		},
		Logging: LoggingConfig{Level: "info"},
	}

	var buf bytes.Buffer
	buf.WriteString("# navtree configuration\n" +
		"# tree.url_base defaults to https://tlroadmap.io in production, http://localhost:8080 otherwise.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(example); err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
