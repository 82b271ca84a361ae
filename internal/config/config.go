// Package config provides configuration management for the qrkit command.
package config

import (
	"os"
	"path/filepath"

	"github.com/facebookgo/atomicfile"
	"gopkg.in/yaml.v3"

	"github.com/ericlevine/qrkit/render"
)

// Config represents the qrkit configuration.
type Config struct {
	Render      RenderConfig      `yaml:"render"`
	Logo        LogoConfig        `yaml:"logo"`
	Export      ExportConfig      `yaml:"export"`
	Preferences PreferencesConfig `yaml:"preferences"`
	Log         LogConfig         `yaml:"log"`
}

// RenderConfig contains the default look of generated codes.
type RenderConfig struct {
	Size          int    `yaml:"size"`
	Foreground    string `yaml:"foreground"`
	Background    string `yaml:"background"`
	Level         string `yaml:"level"`
	Margin        int    `yaml:"margin"`
	IncludeMargin bool   `yaml:"include_margin"`
}

// LogoConfig names a logo drawn on every generated code.
type LogoConfig struct {
	Path  string  `yaml:"path"`
	Scale float64 `yaml:"scale"`
}

// ExportConfig controls where exports go.
type ExportConfig struct {
	Format       string `yaml:"format"`
	SavePath     string `yaml:"save_path"`
	OutputDir    string `yaml:"output_dir"`
	DownloadsDir string `yaml:"downloads_dir"`
	Interactive  bool   `yaml:"interactive"`
}

// PreferencesConfig locates the preferences file.
type PreferencesConfig struct {
	Path string `yaml:"path"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a default configuration.
func Default() *Config {
	opts := render.DefaultOptions()
	return &Config{
		Render: RenderConfig{
			Size:          opts.Size,
			Foreground:    opts.Foreground,
			Background:    opts.Background,
			Level:         string(opts.Level),
			Margin:        opts.Margin,
			IncludeMargin: opts.IncludeMargin,
		},
		Logo: LogoConfig{
			Scale: 0.2,
		},
		Export: ExportConfig{
			Format: "png",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// RenderOptions converts the render section to render options.
func (c *Config) RenderOptions() (render.Options, error) {
	level, err := render.ParseLevel(c.Render.Level)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Size:          c.Render.Size,
		Foreground:    c.Render.Foreground,
		Background:    c.Render.Background,
		Level:         level,
		Margin:        c.Render.Margin,
		IncludeMargin: c.Render.IncludeMargin,
	}, nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "qrkit", "config.yaml")
}

// Load loads the configuration from a file. Settings the file leaves out
// keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, replacing any existing file atomically.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	f, err := atomicfile.New(path, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Abort()
		return err
	}
	return f.Close()
}
