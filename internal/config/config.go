package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Auth    AuthConfig
	CIBNDB  CIBNDBConfig
	Storage StorageConfig
	Cart    CartConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  int // hours
}

// CIBNDBConfig describes the external CIBN membership SQL Server.
// The Members table is owned by membership administration; this
// application only reads it and stamps LastLogin.
type CIBNDBConfig struct {
	User     string
	Password string
	Server   string
	Port     int
	Database string
}

type StorageConfig struct {
	Dir string // persistent key-value store directory
}

type CartConfig struct {
	VATRateBps int // VAT rate in basis points, 750 = 7.5%
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "5000"),
			Host: getEnv("HOST", "localhost"),
			Env:  getEnv("ENV", "development"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
			TokenTTL:  getEnvAsInt("TOKEN_TTL_HOURS", 24),
		},
		CIBNDB: CIBNDBConfig{
			User:     getEnv("CIBN_DB_USER", ""),
			Password: getEnv("CIBN_DB_PASSWORD", ""),
			Server:   getEnv("CIBN_DB_SERVER", "localhost"),
			Port:     getEnvAsInt("CIBN_DB_PORT", 1433),
			Database: getEnv("CIBN_DB_NAME", "cibn_members"),
		},
		Storage: StorageConfig{
			Dir: getEnv("STORAGE_DIR", "./data"),
		},
		Cart: CartConfig{
			VATRateBps: getEnvAsInt("VAT_RATE_BPS", 750),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnv("LOG_PRETTY", "") == "true",
		},
	}

	return config, nil
}

// IsDevelopment reports whether the server runs in development mode.
// Error responses include stack traces only in this mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
