package config

import (
	"fmt"
	"os"
)

type S3Config struct {
	BucketName string
	Region     string
	KeyPrefix  string
}

// GetS3Config returns nil when no archive bucket is configured.
func GetS3Config() (*S3Config, error) {
	bucketName := os.Getenv("S3_BUCKET_NAME")
	if bucketName == "" {
		return nil, nil
	}

	region := os.Getenv("REGION")
	if region == "" {
		return nil, fmt.Errorf("REGION must be set")
	}

	return &S3Config{
		BucketName: bucketName,
		Region:     region,
		KeyPrefix:  getEnvDefault("S3_KEY_PREFIX", "presentations"),
	}, nil
}
