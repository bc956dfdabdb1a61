package config // package config loads service configuration from environment variables

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// loadDotenv reads an optional .env file.  Variables already present in the
// environment win over the file.
func loadDotenv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// StoreConfig holds the settings shared by the three backing services
// (reservation, payment, loyalty).  Each of them owns one MySQL database.
type StoreConfig struct {
	Env      string // application environment (e.g. "dev", "prod")
	Port     string // HTTP port to listen on
	DBUser   string // database username
	DBPass   string // database password (optional)
	DBHost   string // database host address
	DBPort   string // database port number
	DBName   string // database name
	LogLevel string // debug, info, warn or error
}

// LoadStore reads the store configuration.  Missing required variables
// terminate the process.
func LoadStore() StoreConfig {
	loadDotenv()
	return StoreConfig{
		Env:      envStr("APP_ENV", "dev"),
		Port:     must("APP_PORT"),
		DBUser:   must("DB_USER"),
		DBPass:   os.Getenv("DB_PASS"),
		DBHost:   must("DB_HOST"),
		DBPort:   envStr("DB_PORT", "3306"),
		DBName:   must("DB_NAME"),
		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

// GatewayConfig holds the settings of the edge service.  The gateway has no
// database; it only knows where its three collaborators live.
type GatewayConfig struct {
	Env            string
	Port           string
	ReservationURL string // base URL of the hotel catalog & reservation store
	PaymentURL     string // base URL of the payment ledger
	LoyaltyURL     string // base URL of the loyalty service
	JWTSecret      string // optional; enables bearer-token identity
	AMQPURL        string // optional; saga events are dropped when empty
	SagaAuditLog   string // optional; path of the reconciliation log written by the audit consumer
	LogLevel       string
}

// LoadGateway reads the gateway configuration.
func LoadGateway() GatewayConfig {
	loadDotenv()
	amqpURL := os.Getenv("RABBITMQ_URL")
	if amqpURL == "" {
		amqpURL = os.Getenv("AMQP_URL")
	}
	return GatewayConfig{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("APP_PORT", "8080"),
		ReservationURL: trimSlash(envStr("RESERVATION_URL", "http://reservation:8070")),
		PaymentURL:     trimSlash(envStr("PAYMENT_URL", "http://payment:8060")),
		LoyaltyURL:     trimSlash(envStr("LOYALTY_URL", "http://loyalty:8050")),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AMQPURL:        amqpURL,
		SagaAuditLog:   os.Getenv("SAGA_AUDIT_LOG"),
		LogLevel:       envStr("LOG_LEVEL", "info"),
	}
}

func trimSlash(s string) string { return strings.TrimRight(s, "/") }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
