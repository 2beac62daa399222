package adapters

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"os"
)

// evenDimensions rounds both sides down to even values, libx264 with yuv420p rejects odd sizes.
const evenDimensions = "scale=trunc(iw/2)*2:trunc(ih/2)*2"

type ffmpegClipMuxer struct {
	logger       outbound.LoggerPort
	runner       ProcessRunner
	ffmpegPath   string
	audioBitrate string
}

func NewFFmpegClipMuxer(logger outbound.LoggerPort, runner ProcessRunner, ffmpegPath string, audioBitrate string) outbound.ClipMuxerPort {
	return &ffmpegClipMuxer{
		logger:       logger,
		runner:       runner,
		ffmpegPath:   ffmpegPath,
		audioBitrate: audioBitrate,
	}
}

func (m *ffmpegClipMuxer) Mux(ctx context.Context, req outbound.MuxClipRequest) error {
	for _, input := range []string{req.ImagePath, req.AudioPath} {
		if _, err := os.Stat(input); err != nil {
			return domain.Wrap(domain.KindArtifactNotFound, "mux", "stat input", input, err)
		}
	}

	args := muxArgs(req, m.audioBitrate)
	if err := m.runner.Run(ctx, m.ffmpegPath, args...); err != nil {
		_ = os.Remove(req.OutputPath)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return domain.Wrap(domain.KindEncodeFailure, "mux", "ffmpeg", req.OutputPath, err)
	}
	if info, err := os.Stat(req.OutputPath); err != nil || info.Size() == 0 {
		_ = os.Remove(req.OutputPath)
		return domain.Wrap(domain.KindEncodeFailure, "mux", "verify output", req.OutputPath, err)
	}

	m.logger.DebugWithFields("clip muxed", map[string]interface{}{
		"image": req.ImagePath,
		"audio": req.AudioPath,
		"clip":  req.OutputPath,
	})
	return nil
}

func muxArgs(req outbound.MuxClipRequest, audioBitrate string) []string {
	image := ffmpeg.Input(req.ImagePath, ffmpeg.KwArgs{"loop": 1})
	audio := ffmpeg.Input(req.AudioPath)
	return ffmpeg.Output([]*ffmpeg.Stream{image, audio}, req.OutputPath, ffmpeg.KwArgs{
		"c:v":      "libx264",
		"tune":     "stillimage",
		"c:a":      "aac",
		"b:a":      audioBitrate,
		"vf":       evenDimensions,
		"pix_fmt":  "yuv420p",
		"shortest": "",
	}).OverWriteOutput().GetArgs()
}
