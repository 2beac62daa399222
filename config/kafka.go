package config

import (
	"os"
	"strings"
)

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// GetKafkaConfig returns nil when KAFKA_BROKERS is unset.
func GetKafkaConfig() (*KafkaConfig, error) {
	raw := os.Getenv("KAFKA_BROKERS")
	if raw == "" {
		return nil, nil
	}
	var brokers []string
	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}

	return &KafkaConfig{
		Brokers: brokers,
		Topic:   getEnvDefault("KAFKA_TOPIC_GENERATION_REQUESTS", "presentation-generation-requests"),
		GroupID: getEnvDefault("KAFKA_GROUP_ID", "presentation-pipeline"),
	}, nil
}
