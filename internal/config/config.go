package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  The commerce backend
// endpoint and the admin secret are mandatory; the identity-index
// database and the message broker are optional features that degrade
// gracefully when left unconfigured.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	AdminSecret string // shared secret expected in X-Admin-Secret on admin routes

	ShopAPIURL       string // admin GraphQL endpoint of the commerce backend
	ShopAPIToken     string // access token for the backend
	ShopLocationID   string // stock location override (empty -> first backend location)
	BundleCollection string // collection handle new bundles are attached to

	DBUser string // identity index database user
	DBPass string // database password (optional)
	DBHost string // database host (empty disables the identity index)
	DBPort string // database port number
	DBName string // database name

	RabbitURL string // broker URL for batch events (empty disables publishing)
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		AdminSecret:      must("ADMIN_SECRET"),
		ShopAPIURL:       must("SHOP_API_URL"),
		ShopAPIToken:     must("SHOP_API_TOKEN"),
		ShopLocationID:   os.Getenv("SHOP_LOCATION_ID"),
		BundleCollection: getenv("BUNDLE_COLLECTION", "calendario"),
		DBHost:           os.Getenv("DB_HOST"),
		RabbitURL:        os.Getenv("RABBITMQ_URL"),
	}
	if cfg.RabbitURL == "" {
		cfg.RabbitURL = os.Getenv("AMQP_URL")
	}
	// The slot identity index is optional; when a DB host is given the
	// rest of the connection settings become mandatory.
	if cfg.DBHost != "" {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// IndexEnabled reports whether the slot identity index database is configured.
func (c Config) IndexEnabled() bool { return c.DBHost != "" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
