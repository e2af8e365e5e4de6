package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr     string
	MySQLDSN     string
	RedisAddr    string
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from the environment, falling back to local
// development defaults.
func Load() Config {
	return Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		MySQLDSN:     getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/warehouse_orders?parseTime=true"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order-events"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
