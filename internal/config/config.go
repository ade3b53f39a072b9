package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every variable name.
const Prefix = "QUAKE3_WEB_"

const defaultPort = "8080"

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig  `envPrefix:"SERVER_"`
	Content ContentConfig `envPrefix:"CONTENT_"`
	Site    SiteConfig    `envPrefix:"SITE_"`
	Status  StatusConfig  `envPrefix:"STATUS_"`
	// Dev re-reads content fragments on every request.
	Dev bool `env:"DEV"`
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port              string        `env:"PORT"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ContentConfig locates the site content and static assets.
type ContentConfig struct {
	// Dir holds pages.yaml and fragments. Empty means the embedded site.
	Dir       string `env:"DIR"`
	PublicDir string `env:"PUBLIC_DIR" envDefault:"public"`
}

// SiteConfig is the fixed layout shell.
type SiteConfig struct {
	Name    string `env:"NAME" envDefault:"ioquake3"`
	Tagline string `env:"TAGLINE" envDefault:"Quake 3 without fault"`
	Footer  string `env:"FOOTER" envDefault:"Quake III Arena is a trademark of id Software. Source code released under the GPL."`
	// BaseURL enables canonical links, e.g. https://ioquake3.org.
	BaseURL string `env:"BASE_URL"`
}

// StatusConfig controls the platform status feed.
type StatusConfig struct {
	FeedURL  string        `env:"FEED_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"2m"`
}

// Addr returns the listen address.
func (c Config) Addr() string { return ":" + c.Server.Port }

// ValidationError is returned when configuration fields are invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

type loadOptions struct {
	envMap    map[string]string
	systemEnv bool
}

// Option customises Load.
type Option func(*loadOptions)

// WithEnvMap overlays values on top of the process environment.
func WithEnvMap(m map[string]string) Option {
	return func(o *loadOptions) {
		for k, v := range m {
			o.envMap[k] = v
		}
	}
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *loadOptions) { o.systemEnv = false }
}

// Load reads configuration from the environment.
func Load(opts ...Option) (Config, error) {
	o := loadOptions{envMap: map[string]string{}, systemEnv: true}
	for _, opt := range opts {
		opt(&o)
	}
	environment := map[string]string{}
	if o.systemEnv {
		environment = env.ToMap(os.Environ())
	}
	for k, v := range o.envMap {
		environment[k] = v
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment, Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	// Cloud Run style PORT is honoured when the prefixed variable is unset.
	if strings.TrimSpace(cfg.Server.Port) == "" {
		cfg.Server.Port = firstNonEmpty(environment["PORT"], defaultPort)
	}
	cfg.Content.Dir = strings.TrimSpace(cfg.Content.Dir)
	cfg.Status.FeedURL = strings.TrimSpace(cfg.Status.FeedURL)
	cfg.Site.BaseURL = strings.TrimSpace(cfg.Site.BaseURL)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var invalid []string
	if p, err := strconv.Atoi(c.Server.Port); err != nil || p < 1 || p > 65535 {
		invalid = append(invalid, Prefix+"SERVER_PORT")
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"SERVER_READ_HEADER_TIMEOUT", c.Server.ReadHeaderTimeout},
		{"SERVER_READ_TIMEOUT", c.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout},
		{"SERVER_REQUEST_TIMEOUT", c.Server.RequestTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout},
		{"STATUS_CACHE_TTL", c.Status.CacheTTL},
	}
	for _, d := range durations {
		if d.d <= 0 {
			invalid = append(invalid, Prefix+d.name)
		}
	}
	if strings.TrimSpace(c.Site.Name) == "" {
		invalid = append(invalid, Prefix+"SITE_NAME")
	}
	if c.Site.BaseURL != "" && !httpURL(c.Site.BaseURL) {
		invalid = append(invalid, Prefix+"SITE_BASE_URL")
	}
	if c.Status.FeedURL != "" && !httpURL(c.Status.FeedURL) {
		invalid = append(invalid, Prefix+"STATUS_FEED_URL")
	}
	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func httpURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
