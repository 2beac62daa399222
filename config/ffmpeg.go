package config

import "time"

type FFmpegConfig struct {
	FFmpegPath    string
	AudioBitrate  string
	MuxTimeout    time.Duration
	ConcatTimeout time.Duration
	ProbeTimeout  time.Duration
}

func GetFFmpegConfig() (*FFmpegConfig, error) {
	muxTimeout, err := getDurationEnv("FFMPEG_MUX_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	concatTimeout, err := getDurationEnv("FFMPEG_CONCAT_TIMEOUT", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	probeTimeout, err := getDurationEnv("FFPROBE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	return &FFmpegConfig{
		FFmpegPath:    getEnvDefault("FFMPEG_BINARY", "ffmpeg"),
		AudioBitrate:  getEnvDefault("FFMPEG_AUDIO_BITRATE", "128k"),
		MuxTimeout:    muxTimeout,
		ConcatTimeout: concatTimeout,
		ProbeTimeout:  probeTimeout,
	}, nil
}
