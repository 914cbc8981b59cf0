package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Session SessionConfig `mapstructure:"session"`
	OIDC    OIDCConfig    `mapstructure:"oidc"`
	Log     LogConfig     `mapstructure:"log"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Admin   AdminConfig   `mapstructure:"admin"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port    string    `mapstructure:"port"`
	BaseURL string    `mapstructure:"base_url"`
	TLS     TLSConfig `mapstructure:"tls"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// DBConfig holds database-specific configuration.
type DBConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// SessionConfig holds the admin/visitor session cookie settings.
type SessionConfig struct {
	LifetimeHours int    `mapstructure:"lifetime_hours"`
	CookieName    string `mapstructure:"cookie_name"`
}

// OIDCConfig holds OIDC client configuration. Single sign-on is disabled when IssuerURL is empty.
type OIDCConfig struct {
	IssuerURL    string `mapstructure:"issuer_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// Enabled reports whether OIDC login should be wired.
func (c OIDCConfig) Enabled() bool {
	return c.IssuerURL != ""
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// CacheConfig holds the sqlite cache settings.
type CacheConfig struct {
	FilePath         string `mapstructure:"file_path"`
	SearchTTLSeconds int    `mapstructure:"search_ttl_seconds"`
}

// UploadConfig holds file upload settings. Dir is the public web root; files land in Dir/uploads/<type>.
type UploadConfig struct {
	Dir           string `mapstructure:"dir"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// AdminConfig is the bootstrap admin account created on startup when missing.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env file is fine; real environments set variables directly.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("db.dsn", "portal:portal@tcp(localhost:3306)/portal?parseTime=true")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("session.lifetime_hours", 24)
	v.SetDefault("session.cookie_name", "portal_session")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cache.file_path", "cache.db")
	v.SetDefault("cache.search_ttl_seconds", 60)
	v.SetDefault("upload.dir", "public")
	v.SetDefault("upload.max_file_size_mb", 100)
	v.SetDefault("admin.name", "Admin")

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/ir-portal/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The upload limit has historically been configured without the prefix.
	if err := v.BindEnv("upload.max_file_size_mb", "PORTAL_UPLOAD_MAX_FILE_SIZE_MB", "MAX_FILE_SIZE_MB"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("admin.email", "PORTAL_ADMIN_EMAIL", "ADMIN_EMAIL"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("admin.password", "PORTAL_ADMIN_PASSWORD", "ADMIN_PASSWORD"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
