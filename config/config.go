package config

import (
	"os"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds everything the server reads from the environment. A missing
// STRIPE_SECRET_KEY does not prevent startup; payment routes degrade to 500s.
type Config struct {
	Port              string
	DBPath            string // empty runs the in-memory store
	StripeSecretKey   string
	StaticCheckoutURL string
	PublicBaseURL     string
}

// Load reads a .env file if present, then the environment.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Port:              getEnv("PORT", "8080"),
		DBPath:            os.Getenv("DB_PATH"),
		StripeSecretKey:   os.Getenv("STRIPE_SECRET_KEY"),
		StaticCheckoutURL: getEnv("STATIC_CHECKOUT_URL", "https://buy.stripe.com/test_static_checkout"),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// OpenDB opens the SQLite database used by the durable store.
func OpenDB(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}
