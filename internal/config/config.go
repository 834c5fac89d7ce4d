// Package config loads site configuration from config.yaml, PINPAGE_*
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Bitlatte/pinpage/internal/markdown"
)

var ErrInvalidPageSize = errors.New("paginate must be at least 1")

type Config struct {
	SiteTitle     string          `mapstructure:"siteTitle"`
	BaseURL       string          `mapstructure:"baseURL"`
	OutputDir     string          `mapstructure:"outputDir"`
	ContentDir    string          `mapstructure:"contentDir"`
	LayoutsDir    string          `mapstructure:"layoutsDir"`
	StaticDir     string          `mapstructure:"staticDir"`
	Paginate      int             `mapstructure:"paginate"`
	PaginatePath  string          `mapstructure:"paginatePath"`
	ExcerptLength int             `mapstructure:"excerptLength"`
	Markdown      string          `mapstructure:"markdown"`
	Drafts        bool            `mapstructure:"drafts"`
	LogLevel      string          `mapstructure:"logLevel"`
	PageViews     PageViewsConfig `mapstructure:"pageViews"`
}

// PageViewsConfig configures the optional client-side page view counter.
type PageViewsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Script  string `mapstructure:"script"`
}

// Active reports whether the counter should be rendered.
func (p PageViewsConfig) Active() bool {
	return p.Enabled && p.Script != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("siteTitle", "My Blog")
	v.SetDefault("baseURL", "")
	v.SetDefault("outputDir", "public")
	v.SetDefault("contentDir", "content")
	v.SetDefault("layoutsDir", "layouts")
	v.SetDefault("staticDir", "static")
	v.SetDefault("paginate", 10)
	v.SetDefault("paginatePath", "/page:num/")
	v.SetDefault("excerptLength", 120)
	v.SetDefault("markdown", markdown.EngineGoldmark)
	v.SetDefault("drafts", false)
	v.SetDefault("logLevel", "info")
	v.SetDefault("pageViews.enabled", false)
	v.SetDefault("pageViews.script", "")
}

// Default returns the configuration used when no file or env overrides exist.
// It panics if the registered defaults no longer decode into Config.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: decoding defaults: %v", err))
	}
	return cfg
}

// Load reads cfgFile, or ./config.yaml when cfgFile is empty. A missing
// implicit config file is not an error; found reports whether one was read.
func Load(cfgFile string) (cfg Config, found string, err error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PINPAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return cfg, "", fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		found = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, found, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, found, err
	}
	return cfg, found, nil
}

// Validate checks values the build cannot work around.
func (c Config) Validate() error {
	if c.Paginate < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, c.Paginate)
	}
	if !markdown.Known(c.Markdown) {
		return fmt.Errorf("%w: %q", markdown.ErrUnknownEngine, c.Markdown)
	}
	return nil
}
