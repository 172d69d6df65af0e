// Package config loads settings from config.yaml and RESAMPLER_* environment
// variables. Command line flags override both.
package config

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/kkyr/fig"
	"github.com/rm-hull/image-resampler/internal/resample"
)

const EnvPrefix = "RESAMPLER"

type Config struct {
	Server   Server   `fig:"server"`
	Resample Resample `fig:"resample"`
	Batch    Batch    `fig:"batch"`
}

type Server struct {
	Port           int    `fig:"port" default:"8080"`
	OutputDir      string `fig:"output_dir" default:"./data/out"`
	Debug          bool   `fig:"debug"`
	MaxUploadBytes int64  `fig:"max_upload_bytes" default:"67108864"`
	UserAgent      string `fig:"user_agent" default:"image-resampler"`
}

type Resample struct {
	Filter        string `fig:"filter" default:"lanczos3"`
	Workers       int    `fig:"workers"`
	ScratchLimit  int    `fig:"scratch_limit" default:"536870912"`
	MaxPixels     int    `fig:"max_pixels" default:"67108864"`
	PlanCacheSize int    `fig:"plan_cache_size" default:"128"`
}

type Batch struct {
	InputDir  string        `fig:"input_dir" default:"./data/in"`
	OutputDir string        `fig:"output_dir" default:"./data/out"`
	PoolSize  int           `fig:"pool_size" default:"2"`
	Width     int           `fig:"width"`
	Height    int           `fig:"height"`
	BlurSigma float64       `fig:"blur_sigma"`
	Schedule  string        `fig:"schedule"`
	Settle    time.Duration `fig:"settle" default:"500ms"`
}

// Load reads the config file at path, or config.yaml from . or config/ when
// path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		err := fig.Load(&cfg,
			fig.File(filepath.Base(path)),
			fig.Dirs(filepath.Dir(path)),
			fig.UseEnv(EnvPrefix))
		if err != nil {
			return nil, err
		}
		return &cfg, cfg.validate()
	}

	err := fig.Load(&cfg, fig.Dirs(".", "config"), fig.UseEnv(EnvPrefix))
	if errors.Is(err, fig.ErrFileNotFound) {
		cfg = Config{}
		err = fig.Load(&cfg, fig.IgnoreFile(), fig.UseEnv(EnvPrefix))
	}
	if err != nil {
		return nil, err
	}
	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	_, err := c.Resample.ParseFilter()
	return err
}

func (r Resample) ParseFilter() (resample.Filter, error) {
	return resample.ParseFilter(r.Filter)
}
