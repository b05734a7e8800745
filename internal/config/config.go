package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	PDF     PDFConfig
	Extract ExtractConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for the raw-upload archive bucket. An empty bucket
// disables archival.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PDFConfig holds PDF rasterization settings.
type PDFConfig struct {
	Pdftoppm string `mapstructure:"pdftoppm"` // binary name or absolute path
	DPI      int    `mapstructure:"dpi"`
}

// ExtractProviderConfig holds settings for a single extraction provider.
type ExtractProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	VisionModel string `mapstructure:"vision_model"`
	TextModel   string `mapstructure:"text_model"`
	Endpoint    string `mapstructure:"endpoint"` // override for tests / proxies
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractConfig holds AI extraction settings with primary/secondary fallback.
type ExtractConfig struct {
	Primary   ExtractProviderConfig `mapstructure:"primary"`
	Secondary ExtractProviderConfig `mapstructure:"secondary"`
}

// Load reads configuration from environment variables with the INVODEX_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVODEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 25)

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invodex")
	v.SetDefault("db.password", "invodex_secret")
	v.SetDefault("db.name", "invodex_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// PDF defaults
	v.SetDefault("pdf.pdftoppm", "pdftoppm")
	v.SetDefault("pdf.dpi", 144)

	// Extraction defaults: Groq's OpenAI-compatible API
	v.SetDefault("extract.primary.provider", "groq")
	v.SetDefault("extract.primary.api_key", "")
	v.SetDefault("extract.primary.vision_model", "")
	v.SetDefault("extract.primary.text_model", "")
	v.SetDefault("extract.primary.endpoint", "")
	v.SetDefault("extract.primary.timeout_secs", 120)
	v.SetDefault("extract.secondary.provider", "")
	v.SetDefault("extract.secondary.api_key", "")
	v.SetDefault("extract.secondary.vision_model", "")
	v.SetDefault("extract.secondary.text_model", "")
	v.SetDefault("extract.secondary.endpoint", "")
	v.SetDefault("extract.secondary.timeout_secs", 120)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "INVODEX_SERVER_PORT",
		"server.read_timeout":  "INVODEX_SERVER_READ_TIMEOUT",
		"server.write_timeout": "INVODEX_SERVER_WRITE_TIMEOUT",
		"server.environment":   "INVODEX_SERVER_ENVIRONMENT",
		"server.max_upload_mb": "INVODEX_SERVER_MAX_UPLOAD_MB",
		"db.host":              "INVODEX_DB_HOST",
		"db.port":              "INVODEX_DB_PORT",
		"db.user":              "INVODEX_DB_USER",
		"db.password":          "INVODEX_DB_PASSWORD",
		"db.name":              "INVODEX_DB_NAME",
		"db.sslmode":           "INVODEX_DB_SSLMODE",
		"db.max_open":          "INVODEX_DB_MAX_OPEN",
		"db.max_idle":          "INVODEX_DB_MAX_IDLE",
		"s3.region":            "INVODEX_S3_REGION",
		"s3.bucket":            "INVODEX_S3_BUCKET",
		"s3.endpoint":          "INVODEX_S3_ENDPOINT",
		"s3.access_key":        "INVODEX_S3_ACCESS_KEY",
		"s3.secret_key":        "INVODEX_S3_SECRET_KEY",
		"log.level":            "INVODEX_LOG_LEVEL",
		"log.format":           "INVODEX_LOG_FORMAT",
		"cors.allowed_origins": "INVODEX_CORS_ALLOWED_ORIGINS",
		"pdf.pdftoppm":         "INVODEX_PDF_PDFTOPPM",
		"pdf.dpi":              "INVODEX_PDF_DPI",

		"extract.primary.provider":       "INVODEX_EXTRACT_PRIMARY_PROVIDER",
		"extract.primary.api_key":        "INVODEX_EXTRACT_PRIMARY_API_KEY",
		"extract.primary.vision_model":   "INVODEX_EXTRACT_PRIMARY_VISION_MODEL",
		"extract.primary.text_model":     "INVODEX_EXTRACT_PRIMARY_TEXT_MODEL",
		"extract.primary.endpoint":       "INVODEX_EXTRACT_PRIMARY_ENDPOINT",
		"extract.primary.timeout_secs":   "INVODEX_EXTRACT_PRIMARY_TIMEOUT_SECS",
		"extract.secondary.provider":     "INVODEX_EXTRACT_SECONDARY_PROVIDER",
		"extract.secondary.api_key":      "INVODEX_EXTRACT_SECONDARY_API_KEY",
		"extract.secondary.vision_model": "INVODEX_EXTRACT_SECONDARY_VISION_MODEL",
		"extract.secondary.text_model":   "INVODEX_EXTRACT_SECONDARY_TEXT_MODEL",
		"extract.secondary.endpoint":     "INVODEX_EXTRACT_SECONDARY_ENDPOINT",
		"extract.secondary.timeout_secs": "INVODEX_EXTRACT_SECONDARY_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it unless the port was
	// explicitly configured.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVODEX_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.PDF = PDFConfig{
		Pdftoppm: v.GetString("pdf.pdftoppm"),
		DPI:      v.GetInt("pdf.dpi"),
	}

	cfg.Extract = ExtractConfig{
		Primary: ExtractProviderConfig{
			Provider:    v.GetString("extract.primary.provider"),
			APIKey:      v.GetString("extract.primary.api_key"),
			VisionModel: v.GetString("extract.primary.vision_model"),
			TextModel:   v.GetString("extract.primary.text_model"),
			Endpoint:    v.GetString("extract.primary.endpoint"),
			TimeoutSecs: v.GetInt("extract.primary.timeout_secs"),
		},
		Secondary: ExtractProviderConfig{
			Provider:    v.GetString("extract.secondary.provider"),
			APIKey:      v.GetString("extract.secondary.api_key"),
			VisionModel: v.GetString("extract.secondary.vision_model"),
			TextModel:   v.GetString("extract.secondary.text_model"),
			Endpoint:    v.GetString("extract.secondary.endpoint"),
			TimeoutSecs: v.GetInt("extract.secondary.timeout_secs"),
		},
	}

	return cfg, nil
}
