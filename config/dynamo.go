package config

import (
	"os"
)

type DynamoConfig struct {
	TableName  string
	TtlMinutes int
}

// GetDynamoConfig returns nil when job records stay in memory.
func GetDynamoConfig() (*DynamoConfig, error) {
	tableName := os.Getenv("DYNAMO_TABLE_NAME")
	if tableName == "" {
		return nil, nil
	}
	ttlMinutes, err := getIntEnv("DYNAMO_TTL_MINUTES", 7*24*60)
	if err != nil {
		return nil, err
	}

	return &DynamoConfig{
		TableName:  tableName,
		TtlMinutes: ttlMinutes,
	}, nil
}
