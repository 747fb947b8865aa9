package config

import "os"

// RelayConfig holds what the outbox relay needs and nothing else.
type RelayConfig struct {
	DatabaseURL     string
	RabbitMQURL     string
	ReportQueueName string
	HealthPort      string
}

func LoadRelayConfig() *RelayConfig {
	loadDotEnv()

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		DatabaseURL:     dbURL,
		RabbitMQURL:     rabbitURL,
		ReportQueueName: getEnv("REPORT_QUEUE_NAME", "meal_reports"),
		HealthPort:      getEnv("RELAY_HEALTH_PORT", "8090"),
	}
}
