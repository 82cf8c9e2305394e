package lexsite

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/eringen/lexsite/contact"
)

// SiteConfig holds all configuration for a lexsite server.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "SAR Abogados Especializados")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Phone       string `mapstructure:"phone"`       // Contact phone shown in the footer
	Email       string `mapstructure:"email"`       // Contact email shown in the footer

	Addr         string `mapstructure:"addr"`          // Listen address (default ":3000")
	DatabasePath string `mapstructure:"database_path"` // SQLite path (default "data/site.db")

	ContentPath  string `mapstructure:"content_path"`  // YAML post file; empty uses the embedded posts
	WatchContent bool   `mapstructure:"watch_content"` // Reload ContentPath when it changes
	PageSize     int    `mapstructure:"page_size"`     // Posts per listing page (default 5)

	AnalyticsEnabled       bool   `mapstructure:"analytics_enabled"`        // Enable analytics (LoadConfig default true)
	AnalyticsDatabasePath  string `mapstructure:"analytics_database_path"`  // Analytics SQLite path (default "data/analytics.db")
	AnalyticsRetentionDays int    `mapstructure:"analytics_retention_days"` // Days of events to keep (default 365)

	SessionSecret string `mapstructure:"session_secret"` // Required: session encryption secret
	CookieSecure  bool   `mapstructure:"cookie_secure"`  // Set true for HTTPS

	PostCacheTTL     time.Duration `mapstructure:"post_cache_ttl"`     // Post cache TTL (default 5min)
	ContactDelay     time.Duration `mapstructure:"contact_delay"`      // Simulated submission delay (default 1.5s)
	ContactRateLimit int           `mapstructure:"contact_rate_limit"` // Submissions per IP per hour (default 5)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "SAR Abogados Especializados"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.PageSize <= 0 {
		c.PageSize = 5
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.AnalyticsRetentionDays <= 0 {
		c.AnalyticsRetentionDays = 365
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.ContactDelay == 0 {
		c.ContactDelay = 1500 * time.Millisecond
	}
	if c.ContactRateLimit <= 0 {
		c.ContactRateLimit = 5
	}
}

// LoadConfig reads configuration from an optional YAML file at path and
// from LEXSITE_* environment variables, which take precedence.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("lexsite")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can see it during Unmarshal.
	v.SetDefault("name", "")
	v.SetDefault("url", "")
	v.SetDefault("description", "Asesoría legal especializada para personas y empresas.")
	v.SetDefault("phone", "")
	v.SetDefault("email", "")
	v.SetDefault("addr", "")
	v.SetDefault("database_path", "")
	v.SetDefault("content_path", "")
	v.SetDefault("watch_content", false)
	v.SetDefault("page_size", 5)
	v.SetDefault("analytics_enabled", true)
	v.SetDefault("analytics_database_path", "")
	v.SetDefault("analytics_retention_days", 365)
	v.SetDefault("session_secret", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("post_cache_ttl", 5*time.Minute)
	v.SetDefault("contact_delay", 1500*time.Millisecond)
	v.SetDefault("contact_rate_limit", 5)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return SiteConfig{}, fmt.Errorf("lexsite: read config %s: %w", path, err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("lexsite: decode config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithViews replaces the page components.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithSubmitter replaces the simulated contact delivery.
func WithSubmitter(s contact.Submitter) Option {
	return func(a *App) {
		a.submitter = s
	}
}
