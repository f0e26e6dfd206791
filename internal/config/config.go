package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Ideas     IdeasConfig     `yaml:"ideas"`
	Voice     VoiceConfig     `yaml:"voice"`
	Imagery   ImageryConfig   `yaml:"imagery"`
	Video     VideoConfig     `yaml:"video"`
	Thumbnail ThumbnailConfig `yaml:"thumbnail"`
	Upload    UploadConfig    `yaml:"upload"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type WorkspaceConfig struct {
	Root       string   `yaml:"root"`
	Retention  Duration `yaml:"retention"`
	SweepEvery Duration `yaml:"sweep_every"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "24h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type IdeasConfig struct {
	// Source selects the idea backend: "sheet" (default) uses the sheet
	// URL from the start request, "reddit" mines the configured subreddits.
	Source       string   `yaml:"source"`
	Subreddits   []string `yaml:"subreddits"`
	MinScore     int      `yaml:"min_score"`
	LookbackDays int      `yaml:"lookback_days"`
}

type VoiceConfig struct {
	Language string `yaml:"language"`
}

type ImageryConfig struct {
	ProviderURL string `yaml:"provider_url"`
}

type VideoConfig struct {
	FPS           int     `yaml:"fps"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	AmbientVolume float64 `yaml:"ambient_volume"`
}

type ThumbnailConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type UploadConfig struct {
	CategoryID string `yaml:"category_id"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML config file and fills in defaults. An empty path
// returns a pure-default config.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Workspace.Retention == 0 {
		c.Workspace.Retention = Duration(24 * time.Hour)
	}
	if c.Workspace.SweepEvery == 0 {
		c.Workspace.SweepEvery = Duration(15 * time.Minute)
	}
	if c.Ideas.Source == "" {
		c.Ideas.Source = "sheet"
	}
	if c.Ideas.MinScore == 0 {
		c.Ideas.MinScore = 50
	}
	if c.Ideas.LookbackDays == 0 {
		c.Ideas.LookbackDays = 7
	}
	if c.Voice.Language == "" {
		c.Voice.Language = "en"
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = 30
	}
	if c.Video.Width == 0 {
		c.Video.Width = 1280
	}
	if c.Video.Height == 0 {
		c.Video.Height = 720
	}
	if c.Video.AmbientVolume == 0 {
		c.Video.AmbientVolume = 0.35
	}
	if c.Thumbnail.Width == 0 {
		c.Thumbnail.Width = 1280
	}
	if c.Thumbnail.Height == 0 {
		c.Thumbnail.Height = 720
	}
	if c.Upload.CategoryID == "" {
		c.Upload.CategoryID = "28" // Science & Technology
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
