package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultListen      = ":3000"
	DefaultToolTimeout = 10 * time.Second
	DefaultProjectName = "Demo Project"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	ToolsDirName       = "Tools"
	OutputDirName      = "Scripts"
)

// Config holds the resolved runtime settings.
type Config struct {
	Root        string        `yaml:"root"`
	ToolsDir    string        `yaml:"toolsDir"`
	OutputDir   string        `yaml:"outputDir"`
	CatalogFile string        `yaml:"catalogFile"`
	Listen      string        `yaml:"listen"`
	StaticDir   string        `yaml:"staticDir"`
	ToolTimeout time.Duration `yaml:"toolTimeout"`
	ProjectName string        `yaml:"projectName"`
	LogLevel    string        `yaml:"logLevel"`
	LogFormat   string        `yaml:"logFormat"`
}

// Defaults returns the built-in settings before any file, environment or
// directory resolution is applied.
func Defaults() *Config {
	return &Config{
		ToolsDir:    ToolsDirName,
		OutputDir:   OutputDirName,
		Listen:      DefaultListen,
		ToolTimeout: DefaultToolTimeout,
		ProjectName: DefaultProjectName,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
	}
}

// Load builds a Config from defaults, the YAML file at path (or the default
// config file when path is empty and it exists) and the environment.
// Relative directories are resolved against Root.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := cfg.mergeFile(path, explicit); err != nil {
		return nil, err
	}
	cfg.mergeEnv()

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write stores c as YAML at path, creating parent directories.
func (c *Config) Write(path string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) mergeFile(path string, required bool) error {
	f, err := os.Open(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Root, EnvRoot)
	set(&c.CatalogFile, EnvCatalog)
	set(&c.Listen, EnvListen)
	set(&c.ToolsDir, EnvToolsDir)
	set(&c.OutputDir, EnvOutputDir)
	set(&c.LogLevel, EnvLogLevel)
}

// Finalize fills derived directories and checks enumerated settings.
// It is safe to call again after flags have overridden fields.
func (c *Config) Finalize() error {
	if c.Root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		c.Root = wd
	}
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return fmt.Errorf("resolve root %q: %w", c.Root, err)
	}
	c.Root = root
	if c.ToolsDir == "" {
		c.ToolsDir = ToolsDirName
	}
	if c.OutputDir == "" {
		c.OutputDir = OutputDirName
	}
	c.ToolsDir = c.resolve(c.ToolsDir)
	c.OutputDir = c.resolve(c.OutputDir)
	if c.StaticDir != "" {
		c.StaticDir = c.resolve(c.StaticDir)
	}
	if c.CatalogFile != "" {
		c.CatalogFile = c.resolve(c.CatalogFile)
	}
	if c.ToolTimeout <= 0 {
		c.ToolTimeout = DefaultToolTimeout
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	c.LogFormat = strings.ToLower(c.LogFormat)
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Root, p)
}
