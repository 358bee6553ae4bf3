package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether a database host was configured. Without one the
// service still generates documents but keeps no history.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RedisConfig holds the optional Redis connection used to coordinate the
// retention sweep between replicas.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DocumentConfig holds everything the generation pipeline needs.
type DocumentConfig struct {
	ProposalTemplate  string
	ContractTemplate  string
	WorkDir           string
	ConverterBinary   string
	ConvertTimeoutSec int
	// Image sizing in millimetres. A non-zero ImageWidthMM wins over the box.
	ImageWidthMM     float64
	ImageMaxWidthMM  float64
	ImageMaxHeightMM float64
	RetentionDays    int
	SweepIntervalMin int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	Timezone    string
	LogLevel    string
	BodyLimitMB int
	Database    DatabaseConfig
	MinIO       MinIOConfig
	Redis       RedisConfig
	Documents   DocumentConfig
}

// Location resolves the configured time zone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"),
		Timezone:    getEnv("APP_TIMEZONE", "America/Sao_Paulo"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		BodyLimitMB: getEnvPositiveInt("BODY_LIMIT_MB", 16),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "artifacts"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Documents: DocumentConfig{
			ProposalTemplate:  getEnv("PROPOSAL_TEMPLATE", "templates/proposal.docx"),
			ContractTemplate:  getEnv("CONTRACT_TEMPLATE", "templates/contract.docx"),
			WorkDir:           getEnv("WORK_DIR", os.TempDir()),
			ConverterBinary:   getEnv("CONVERTER_BINARY", "soffice"),
			ConvertTimeoutSec: getEnvPositiveInt("CONVERT_TIMEOUT_SEC", 60),
			ImageWidthMM:      getEnvFloat("IMAGE_WIDTH_MM", 0),
			ImageMaxWidthMM:   getEnvFloat("IMAGE_MAX_WIDTH_MM", 160),
			ImageMaxHeightMM:  getEnvFloat("IMAGE_MAX_HEIGHT_MM", 100),
			RetentionDays:     getEnvPositiveInt("RETENTION_DAYS", 10),
			SweepIntervalMin:  getEnvPositiveInt("SWEEP_INTERVAL_MIN", 60),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvPositiveInt is getEnvInt for durations and limits, where zero or a
// negative value falls back to def.
func getEnvPositiveInt(key string, def int) int {
	if i := getEnvInt(key, def); i > 0 {
		return i
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
