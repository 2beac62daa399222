package config

import "fmt"

type PipelineConfig struct {
	IOWorkers        int
	MediaWorkers     int
	SynthesisRetries int
	CaptureRetries   int
}

func GetPipelineConfig() (*PipelineConfig, error) {
	ioWorkers, err := getIntEnv("PIPELINE_IO_WORKERS", 16)
	if err != nil {
		return nil, err
	}
	mediaWorkers, err := getIntEnv("PIPELINE_MEDIA_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	if ioWorkers < 1 || mediaWorkers < 1 {
		return nil, fmt.Errorf("PIPELINE_IO_WORKERS and PIPELINE_MEDIA_WORKERS must be positive")
	}
	synthesisRetries, err := getIntEnv("SYNTHESIS_RETRIES", 0)
	if err != nil {
		return nil, err
	}
	captureRetries, err := getIntEnv("CAPTURE_RETRIES", 0)
	if err != nil {
		return nil, err
	}
	if synthesisRetries < 0 || captureRetries < 0 {
		return nil, fmt.Errorf("retry counts must not be negative")
	}

	return &PipelineConfig{
		IOWorkers:        ioWorkers,
		MediaWorkers:     mediaWorkers,
		SynthesisRetries: synthesisRetries,
		CaptureRetries:   captureRetries,
	}, nil
}
