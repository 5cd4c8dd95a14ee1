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
	Server   ServerConfig
	DB       DBConfig
	JWT      JWTConfig
	S3       S3Config
	Log      LogConfig
	CORS     CORSConfig
	Email    EmailConfig
	OCR      OCRConfig
	Quality  QualityConfig
	Matcher  MatcherConfig
	Registry RegistryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
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

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for document image storage.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
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

// EmailConfig holds email delivery settings for review notifications.
type EmailConfig struct {
	Provider        string `mapstructure:"provider"`
	Region          string `mapstructure:"region"`
	FromAddress     string `mapstructure:"from_address"`
	FromName        string `mapstructure:"from_name"`
	ReviewRecipient string `mapstructure:"review_recipient"`
}

// OCRProviderConfig holds settings for a single text recognition provider.
type OCRProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Command     string `mapstructure:"command"`
	Languages   string `mapstructure:"languages"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// OCRConfig holds text recognition settings with primary/secondary fallback.
type OCRConfig struct {
	Primary   OCRProviderConfig `mapstructure:"primary"`
	Secondary OCRProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary OCR provider config, or nil if not configured.
func (o *OCRConfig) SecondaryConfig() *OCRProviderConfig {
	if o.Secondary.Provider != "" {
		return &o.Secondary
	}
	return nil
}

// QualityConfig holds the quality-gate policy thresholds and the endpoint of
// the external scoring analyzer.
type QualityConfig struct {
	AnalyzerEndpoint string `mapstructure:"analyzer_endpoint"`
	AnalyzerTimeout  int    `mapstructure:"analyzer_timeout_secs"`

	MinSharpness     float64 `mapstructure:"min_sharpness"`      // 0-100
	MinBrightnessRaw float64 `mapstructure:"min_brightness_raw"` // 0-255
	MaxBrightnessRaw float64 `mapstructure:"max_brightness_raw"` // 0-255
	MaxSkewDegrees   float64 `mapstructure:"max_skew_degrees"`
	MinWidthPx       int     `mapstructure:"min_width_px"`
	MinHeightPx      int     `mapstructure:"min_height_px"`
	MaxMinorIssues   int     `mapstructure:"max_minor_issues"`
}

// Validate checks threshold sanity. Invalid thresholds are a configuration
// fault and abort startup; there is no meaningful recovery.
func (q *QualityConfig) Validate() error {
	if q.MinSharpness < 0 || q.MinSharpness > 100 {
		return fmt.Errorf("quality.min_sharpness must be in [0,100], got %v", q.MinSharpness)
	}
	if q.MinBrightnessRaw < 0 || q.MaxBrightnessRaw > 255 || q.MinBrightnessRaw >= q.MaxBrightnessRaw {
		return fmt.Errorf("quality brightness bounds invalid: min=%v max=%v", q.MinBrightnessRaw, q.MaxBrightnessRaw)
	}
	if q.MinWidthPx <= 0 || q.MinHeightPx <= 0 {
		return fmt.Errorf("quality resolution floor must be positive, got %dx%d", q.MinWidthPx, q.MinHeightPx)
	}
	if q.MaxSkewDegrees <= 0 {
		return fmt.Errorf("quality.max_skew_degrees must be positive, got %v", q.MaxSkewDegrees)
	}
	if q.MaxMinorIssues < 0 {
		return fmt.Errorf("quality.max_minor_issues must be >= 0, got %d", q.MaxMinorIssues)
	}
	return nil
}

// MatcherConfig holds identity matcher cutoffs.
type MatcherConfig struct {
	MatchThreshold        float64 `mapstructure:"match_threshold"`         // composite score a candidate must exceed
	AccountWarnSimilarity int     `mapstructure:"account_warn_similarity"` // >= this similarity downgrades mismatch to warning
	NameWarnSimilarity    int     `mapstructure:"name_warn_similarity"`
}

// RegistryConfig holds snapshot refresh settings.
type RegistryConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// Load reads configuration from environment variables with the AGRIVERIFY_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AGRIVERIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "agriverify")
	v.SetDefault("db.password", "agriverify_secret")
	v.SetDefault("db.name", "agriverify_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "agriverify")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "agriverify-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@agriverify.org")
	v.SetDefault("email.from_name", "AgriVerify")
	v.SetDefault("email.review_recipient", "")

	// OCR defaults: Google Vision primary, local tesseract fallback
	v.SetDefault("ocr.primary.provider", "vision")
	v.SetDefault("ocr.primary.api_key", "")
	v.SetDefault("ocr.primary.command", "")
	v.SetDefault("ocr.primary.languages", "hi,mr,en")
	v.SetDefault("ocr.primary.timeout_secs", 30)
	v.SetDefault("ocr.secondary.provider", "tesseract")
	v.SetDefault("ocr.secondary.api_key", "")
	v.SetDefault("ocr.secondary.command", "tesseract")
	v.SetDefault("ocr.secondary.languages", "hin+eng")
	v.SetDefault("ocr.secondary.timeout_secs", 60)

	// Quality gate defaults
	v.SetDefault("quality.analyzer_endpoint", "http://localhost:8090")
	v.SetDefault("quality.analyzer_timeout_secs", 15)
	v.SetDefault("quality.min_sharpness", 30)
	v.SetDefault("quality.min_brightness_raw", 50)
	v.SetDefault("quality.max_brightness_raw", 200)
	v.SetDefault("quality.max_skew_degrees", 10)
	v.SetDefault("quality.min_width_px", 800)
	v.SetDefault("quality.min_height_px", 600)
	v.SetDefault("quality.max_minor_issues", 2)

	// Matcher defaults
	v.SetDefault("matcher.match_threshold", 60)
	v.SetDefault("matcher.account_warn_similarity", 90)
	v.SetDefault("matcher.name_warn_similarity", 70)

	// Registry defaults
	v.SetDefault("registry.refresh_interval", "5m")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "AGRIVERIFY_SERVER_PORT",
		"server.read_timeout":           "AGRIVERIFY_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "AGRIVERIFY_SERVER_WRITE_TIMEOUT",
		"server.environment":            "AGRIVERIFY_SERVER_ENVIRONMENT",
		"db.host":                       "AGRIVERIFY_DB_HOST",
		"db.port":                       "AGRIVERIFY_DB_PORT",
		"db.user":                       "AGRIVERIFY_DB_USER",
		"db.password":                   "AGRIVERIFY_DB_PASSWORD",
		"db.name":                       "AGRIVERIFY_DB_NAME",
		"db.sslmode":                    "AGRIVERIFY_DB_SSLMODE",
		"db.max_open":                   "AGRIVERIFY_DB_MAX_OPEN",
		"db.max_idle":                   "AGRIVERIFY_DB_MAX_IDLE",
		"jwt.secret":                    "AGRIVERIFY_JWT_SECRET",
		"jwt.access_expiry":             "AGRIVERIFY_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":            "AGRIVERIFY_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                    "AGRIVERIFY_JWT_ISSUER",
		"s3.region":                     "AGRIVERIFY_S3_REGION",
		"s3.bucket":                     "AGRIVERIFY_S3_BUCKET",
		"s3.endpoint":                   "AGRIVERIFY_S3_ENDPOINT",
		"s3.access_key":                 "AGRIVERIFY_S3_ACCESS_KEY",
		"s3.secret_key":                 "AGRIVERIFY_S3_SECRET_KEY",
		"s3.max_file_size_mb":           "AGRIVERIFY_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":             "AGRIVERIFY_S3_PRESIGN_EXPIRY",
		"log.level":                     "AGRIVERIFY_LOG_LEVEL",
		"log.format":                    "AGRIVERIFY_LOG_FORMAT",
		"cors.allowed_origins":          "AGRIVERIFY_CORS_ALLOWED_ORIGINS",
		"email.provider":                "AGRIVERIFY_EMAIL_PROVIDER",
		"email.region":                  "AGRIVERIFY_EMAIL_REGION",
		"email.from_address":            "AGRIVERIFY_EMAIL_FROM_ADDRESS",
		"email.from_name":               "AGRIVERIFY_EMAIL_FROM_NAME",
		"email.review_recipient":        "AGRIVERIFY_EMAIL_REVIEW_RECIPIENT",
		"ocr.primary.provider":          "AGRIVERIFY_OCR_PRIMARY_PROVIDER",
		"ocr.primary.api_key":           "AGRIVERIFY_OCR_PRIMARY_API_KEY",
		"ocr.primary.command":           "AGRIVERIFY_OCR_PRIMARY_COMMAND",
		"ocr.primary.languages":         "AGRIVERIFY_OCR_PRIMARY_LANGUAGES",
		"ocr.primary.timeout_secs":      "AGRIVERIFY_OCR_PRIMARY_TIMEOUT_SECS",
		"ocr.secondary.provider":        "AGRIVERIFY_OCR_SECONDARY_PROVIDER",
		"ocr.secondary.api_key":         "AGRIVERIFY_OCR_SECONDARY_API_KEY",
		"ocr.secondary.command":         "AGRIVERIFY_OCR_SECONDARY_COMMAND",
		"ocr.secondary.languages":       "AGRIVERIFY_OCR_SECONDARY_LANGUAGES",
		"ocr.secondary.timeout_secs":    "AGRIVERIFY_OCR_SECONDARY_TIMEOUT_SECS",
		"quality.analyzer_endpoint":     "AGRIVERIFY_QUALITY_ANALYZER_ENDPOINT",
		"quality.analyzer_timeout_secs": "AGRIVERIFY_QUALITY_ANALYZER_TIMEOUT_SECS",
		"quality.min_sharpness":         "AGRIVERIFY_QUALITY_MIN_SHARPNESS",
		"quality.min_brightness_raw":    "AGRIVERIFY_QUALITY_MIN_BRIGHTNESS_RAW",
		"quality.max_brightness_raw":    "AGRIVERIFY_QUALITY_MAX_BRIGHTNESS_RAW",
		"quality.max_skew_degrees":      "AGRIVERIFY_QUALITY_MAX_SKEW_DEGREES",
		"quality.min_width_px":          "AGRIVERIFY_QUALITY_MIN_WIDTH_PX",
		"quality.min_height_px":         "AGRIVERIFY_QUALITY_MIN_HEIGHT_PX",
		"quality.max_minor_issues":      "AGRIVERIFY_QUALITY_MAX_MINOR_ISSUES",
		"matcher.match_threshold":       "AGRIVERIFY_MATCHER_MATCH_THRESHOLD",
		"matcher.account_warn_similarity": "AGRIVERIFY_MATCHER_ACCOUNT_WARN_SIMILARITY",
		"matcher.name_warn_similarity":    "AGRIVERIFY_MATCHER_NAME_WARN_SIMILARITY",
		"registry.refresh_interval":       "AGRIVERIFY_REGISTRY_REFRESH_INTERVAL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if AGRIVERIFY_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("AGRIVERIFY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
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
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
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

	cfg.Email = EmailConfig{
		Provider:        v.GetString("email.provider"),
		Region:          v.GetString("email.region"),
		FromAddress:     v.GetString("email.from_address"),
		FromName:        v.GetString("email.from_name"),
		ReviewRecipient: v.GetString("email.review_recipient"),
	}
	cfg.OCR = OCRConfig{
		Primary: OCRProviderConfig{
			Provider:    v.GetString("ocr.primary.provider"),
			APIKey:      v.GetString("ocr.primary.api_key"),
			Command:     v.GetString("ocr.primary.command"),
			Languages:   v.GetString("ocr.primary.languages"),
			TimeoutSecs: v.GetInt("ocr.primary.timeout_secs"),
		},
		Secondary: OCRProviderConfig{
			Provider:    v.GetString("ocr.secondary.provider"),
			APIKey:      v.GetString("ocr.secondary.api_key"),
			Command:     v.GetString("ocr.secondary.command"),
			Languages:   v.GetString("ocr.secondary.languages"),
			TimeoutSecs: v.GetInt("ocr.secondary.timeout_secs"),
		},
	}
	cfg.Quality = QualityConfig{
		AnalyzerEndpoint: v.GetString("quality.analyzer_endpoint"),
		AnalyzerTimeout:  v.GetInt("quality.analyzer_timeout_secs"),
		MinSharpness:     v.GetFloat64("quality.min_sharpness"),
		MinBrightnessRaw: v.GetFloat64("quality.min_brightness_raw"),
		MaxBrightnessRaw: v.GetFloat64("quality.max_brightness_raw"),
		MaxSkewDegrees:   v.GetFloat64("quality.max_skew_degrees"),
		MinWidthPx:       v.GetInt("quality.min_width_px"),
		MinHeightPx:      v.GetInt("quality.min_height_px"),
		MaxMinorIssues:   v.GetInt("quality.max_minor_issues"),
	}
	if err := cfg.Quality.Validate(); err != nil {
		return nil, fmt.Errorf("invalid quality config: %w", err)
	}

	cfg.Matcher = MatcherConfig{
		MatchThreshold:        v.GetFloat64("matcher.match_threshold"),
		AccountWarnSimilarity: v.GetInt("matcher.account_warn_similarity"),
		NameWarnSimilarity:    v.GetInt("matcher.name_warn_similarity"),
	}
	cfg.Registry = RegistryConfig{
		RefreshInterval: v.GetDuration("registry.refresh_interval"),
	}

	return cfg, nil
}
