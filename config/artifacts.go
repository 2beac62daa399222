package config

type ArtifactsConfig struct {
	Root string
}

func GetArtifactsConfig() (*ArtifactsConfig, error) {
	return &ArtifactsConfig{
		Root: getEnvDefault("PRESENTATIONS_DIR", "presentations"),
	}, nil
}
