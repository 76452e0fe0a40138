package config

import "os"

type Config struct {
	Port                  string
	DatabaseURL           string
	GSTRatePercent        string
	DefaultCommissionRate string
}

func Load() *Config {
	return &Config{
		Port:                  getEnv("PORT", "8081"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		GSTRatePercent:        getEnv("GST_RATE_PERCENT", "9"),
		DefaultCommissionRate: getEnv("DEFAULT_COMMISSION_RATE", "6.00"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
