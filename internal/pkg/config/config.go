// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jcmexdev/menu-cart/internal/cart-service/core/summary"
	"github.com/jcmexdev/menu-cart/internal/pkg/money"
)

type Config struct {
	Port     string
	LogLevel string

	// WhatsAppNumber is the destination of order messages.
	WhatsAppNumber string
	// MessageServiceBase is the deep link prefix the number is appended to.
	MessageServiceBase string
	CheckoutMode       summary.Mode

	Locale   string
	Currency string
	MenuPath string

	// RedisAddr empty keeps sessions in process memory.
	RedisAddr  string
	SessionTTL time.Duration
	// DispatchDBPath empty disables the dispatch log.
	DispatchDBPath string

	ServiceName       string
	OTLPEndpoint      string
	Environment       string
	TraceSampleRatio  float64
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Load builds a Config from environment variables.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	mode, err := summary.ParseMode(getenv("CHECKOUT_MODE"))
	if err != nil {
		return Config{}, fmt.Errorf("config: CHECKOUT_MODE: %w", err)
	}
	ttl, err := time.ParseDuration(get("SESSION_TTL", "2h"))
	if err != nil {
		return Config{}, fmt.Errorf("config: SESSION_TTL: %w", err)
	}
	shutdown, err := time.ParseDuration(get("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("config: SHUTDOWN_TIMEOUT: %w", err)
	}
	ratio, err := strconv.ParseFloat(get("OTEL_TRACES_SAMPLER_ARG", "1"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("config: OTEL_TRACES_SAMPLER_ARG: %w", err)
	}

	cfg := Config{
		Port:               get("PORT", "8080"),
		LogLevel:           get("LOG_LEVEL", "info"),
		WhatsAppNumber:     get("WHATSAPP_NUMBER", "573122477439"),
		MessageServiceBase: get("MESSAGE_SERVICE_BASE", summary.DefaultServiceBase),
		CheckoutMode:       mode,
		Locale:             get("LOCALE", money.DefaultLocale),
		Currency:           get("CURRENCY", money.DefaultCurrency),
		MenuPath:           getenv("MENU_PATH"),
		RedisAddr:          getenv("REDIS_ADDR"),
		SessionTTL:         ttl,
		DispatchDBPath:     getenv("DISPATCH_DB_PATH"),
		ServiceName:        get("OTEL_SERVICE_NAME", "cart-service"),
		OTLPEndpoint:       getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Environment:        get("DEPLOYMENT_ENVIRONMENT", "local"),
		TraceSampleRatio:   ratio,
		ReadHeaderTimeout:  10 * time.Second,
		ShutdownTimeout:    shutdown,
	}
	return cfg, nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string { return ":" + c.Port }
