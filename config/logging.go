package config

type LoggingConfig struct {
	Level  string
	Format string
}

func GetLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:  getEnvDefault("LOG_LEVEL", "info"),
		Format: getEnvDefault("LOG_FORMAT", "json"),
	}
}
