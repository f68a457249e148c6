package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"luxesalon.cz/salon-web/internal/format"
	"luxesalon.cz/salon-web/internal/i18n"
)

const envPrefix = "SALON_WEB"

// Config holds all configuration for the web server.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Content   ContentConfig   `mapstructure:"content"`
	Gallery   GalleryConfig   `mapstructure:"gallery"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Contact   ContactConfig   `mapstructure:"contact"`
	I18n      I18nConfig      `mapstructure:"i18n"`
	Session   SessionConfig   `mapstructure:"session"`
	Site      SiteConfig      `mapstructure:"site"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ServerConfig holds HTTP listener and asset locations.
type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	Dev       bool   `mapstructure:"dev"`
	Env       string `mapstructure:"env"`
	Templates string `mapstructure:"templates"`
	Public    string `mapstructure:"public"`
}

// Prod reports whether the server runs in production.
func (s ServerConfig) Prod() bool { return strings.EqualFold(s.Env, "prod") }

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ContentConfig points at the headless CMS. An empty BaseURL serves the
// bundled fallback dataset.
type ContentConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	Token           string `mapstructure:"token"`
	UploadFolder    string `mapstructure:"upload_folder"`
	LeadsCollection string `mapstructure:"leads_collection"`
	CategoryField   string `mapstructure:"category_field"`
	LoadCategories  bool   `mapstructure:"load_categories"`
	SortByCategory  bool   `mapstructure:"sort_by_category"`
}

type GalleryConfig struct {
	PreviewLimit int `mapstructure:"preview_limit"`
}

// PricingConfig selects the price display variant. With Currency set every
// price is shown in that currency as whole units; otherwise each service's
// own currency (or DefaultCurrency) is used with standard fraction digits.
type PricingConfig struct {
	Locale          string `mapstructure:"locale"`
	Currency        string `mapstructure:"currency"`
	DefaultCurrency string `mapstructure:"default_currency"`
}

// For returns the currency configuration for a service priced in code.
func (p PricingConfig) For(code string) format.CurrencyConfig {
	if strings.TrimSpace(p.Currency) != "" {
		return format.WholeUnits(p.Locale, p.Currency)
	}
	if strings.TrimSpace(code) == "" {
		code = p.DefaultCurrency
	}
	return format.StandardCurrency(p.Locale, code)
}

type ContactConfig struct {
	Subject        string          `mapstructure:"subject"`
	MaxUploadBytes int64           `mapstructure:"max_upload_bytes"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig throttles contact submissions per client IP. A zero
// PerHour disables throttling; RedisAddr selects the shared Redis store.
type RateLimitConfig struct {
	PerHour       int    `mapstructure:"per_hour"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

type I18nConfig struct {
	Default string `mapstructure:"default"`
	Dir     string `mapstructure:"dir"`
}

// DefaultLanguage returns the language served when the visitor expresses no preference.
func (c I18nConfig) DefaultLanguage() i18n.Language {
	lang, _ := i18n.ParseLanguage(c.Default)
	return lang
}

type SessionConfig struct {
	SigningKey string `mapstructure:"signing_key"`
}

// SiteConfig carries the salon's public contact details.
type SiteConfig struct {
	Name    string   `mapstructure:"name"`
	URL     string   `mapstructure:"url"`
	Phone   string   `mapstructure:"phone"`
	Email   string   `mapstructure:"email"`
	Address string   `mapstructure:"address"`
	Hours   []string `mapstructure:"hours"`
}

// AnalyticsConfig holds client instrumentation identifiers surfaced to templates.
type AnalyticsConfig struct {
	GA4MeasurementID string `mapstructure:"ga_measurement_id"`
	GTMContainerID   string `mapstructure:"gtm_container_id"`
}

// Load reads config.yaml (optional, or the file at path) and applies
// SALON_WEB_* environment overrides, e.g. SALON_WEB_CONTENT_BASE_URL.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	// Cloud Run style PORT applies unless the address was set explicitly.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" && os.Getenv(envPrefix+"_SERVER_ADDR") == "" && !v.InConfig("server.addr") {
		cfg.Server.Addr = ":" + port
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Content.BaseURL = strings.TrimRight(strings.TrimSpace(c.Content.BaseURL), "/")
	if c.Gallery.PreviewLimit <= 0 {
		c.Gallery.PreviewLimit = 6
	}
	if strings.TrimSpace(c.Content.LeadsCollection) == "" {
		c.Content.LeadsCollection = "contact_messages"
	}
	if strings.TrimSpace(c.Content.CategoryField) == "" {
		c.Content.CategoryField = "category"
	}
	if c.Contact.MaxUploadBytes <= 0 {
		c.Contact.MaxUploadBytes = 10 << 20
	}
	if _, ok := i18n.ParseLanguage(c.I18n.Default); !ok {
		c.I18n.Default = "uk"
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.dev", false)
	v.SetDefault("server.env", "dev")
	v.SetDefault("server.templates", "templates")
	v.SetDefault("server.public", "public")

	v.SetDefault("log.level", "info")

	v.SetDefault("content.base_url", "")
	v.SetDefault("content.token", "")
	v.SetDefault("content.upload_folder", "")
	v.SetDefault("content.leads_collection", "contact_messages")
	v.SetDefault("content.category_field", "category")
	v.SetDefault("content.load_categories", false)
	v.SetDefault("content.sort_by_category", true)

	v.SetDefault("gallery.preview_limit", 6)

	v.SetDefault("pricing.locale", "cs-CZ")
	v.SetDefault("pricing.currency", "")
	v.SetDefault("pricing.default_currency", "CZK")

	v.SetDefault("contact.subject", "Website contact form")
	v.SetDefault("contact.max_upload_bytes", 10<<20)
	v.SetDefault("contact.rate_limit.per_hour", 5)
	v.SetDefault("contact.rate_limit.redis_addr", "")
	v.SetDefault("contact.rate_limit.redis_password", "")
	v.SetDefault("contact.rate_limit.redis_db", 0)

	v.SetDefault("i18n.default", "uk")
	v.SetDefault("i18n.dir", "locales")

	v.SetDefault("session.signing_key", "")

	v.SetDefault("site.name", "Luxe Salon")
	v.SetDefault("site.url", "")
	v.SetDefault("site.phone", "+420 777 123 456")
	v.SetDefault("site.email", "concierge@luxesalon.cz")
	v.SetDefault("site.address", "Bělohorská 12, Praha 6 - Břevnov")
	v.SetDefault("site.hours", []string{"Mon - Sat: 09:00 - 20:00", "Sun: 10:00 - 18:00"})

	v.SetDefault("analytics.ga_measurement_id", "")
	v.SetDefault("analytics.gtm_container_id", "")
}
