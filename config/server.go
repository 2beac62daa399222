package config

import "time"

type ServerConfig struct {
	Addr            string
	JanitorSchedule string
	JanitorMaxAge   time.Duration
	MockLessonPath  string
}

func GetServerConfig() (*ServerConfig, error) {
	maxAge, err := getDurationEnv("JANITOR_MAX_AGE", time.Hour)
	if err != nil {
		return nil, err
	}
	return &ServerConfig{
		Addr:            getEnvDefault("HTTP_ADDR", ":8080"),
		JanitorSchedule: getEnvDefault("JANITOR_SCHEDULE", "@every 15m"),
		JanitorMaxAge:   maxAge,
		MockLessonPath:  getEnvDefault("MOCK_LESSON_PATH", "mock/lesson.json"),
	}, nil
}
