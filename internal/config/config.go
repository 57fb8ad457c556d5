package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	pkgconfig "github.com/Skotchmaster/storefront/pkg/config"
)

type Config struct {
	ServerPort int
	LogLevel   string

	DatabaseURL string

	JWTSecret     []byte
	RefreshSecret []byte

	// DemoUserID owns the cart for requests carrying no session. Kept for
	// parity with the storefront UI, which browses anonymously.
	DemoUserID uint

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env not found, using process environment: %v", err)
	}

	cfg := &Config{
		ServerPort: pkgconfig.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   pkgconfig.EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		RefreshSecret: []byte(os.Getenv("REFRESH_SECRET")),

		DemoUserID: uint(pkgconfig.EnvIntDefault("DEMO_USER_ID", 1)),

		KafkaBrokers: pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    pkgconfig.EnvDefault("ES_INDEX", "items"),
	}

	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	pkgconfig.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	pkgconfig.MustNonEmptyBytes(cfg.RefreshSecret, "REFRESH_SECRET")

	return cfg
}
