package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port                    string
	AllowedOrigin           string
	VATRate                 decimal.Decimal
	StoreName               string
	StoreAddress            string
	RedisAddr               string
	RedisPassword           string
	RedisDB                 int
	DocumentCacheTTLSeconds int
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttl, err := strconv.Atoi(getEnv("DOCUMENT_CACHE_TTL_SECONDS", "300"))
	if err != nil || ttl < 1 {
		ttl = 300
	}

	vatRate, err := decimal.NewFromString(getEnv("VAT_RATE", "0.19"))
	if err != nil {
		vatRate = decimal.NewFromFloat(0.19)
	}

	cfg := Config{
		Port:                    getEnv("PORT", "8080"),
		AllowedOrigin:           getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		VATRate:                 vatRate,
		StoreName:               getEnv("STORE_NAME", "Motorepuestos STARCV"),
		StoreAddress:            getEnv("STORE_ADDRESS", "Calle 45 #12-30, Bogotá"),
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		RedisPassword:           os.Getenv("REDIS_PASSWORD"),
		RedisDB:                 redisDB,
		DocumentCacheTTLSeconds: ttl,
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

// Validate rejects settings that would silently produce wrong totals.
func (c Config) Validate() error {
	if c.VATRate.IsNegative() {
		return fmt.Errorf("VAT_RATE cannot be negative")
	}
	if c.VATRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("VAT_RATE is a fraction, not a percentage (got %s)", c.VATRate)
	}
	return nil
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
