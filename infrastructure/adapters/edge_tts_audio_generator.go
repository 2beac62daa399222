package adapters

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
)

type edgeTTSAudioGenerator struct {
	runner ProcessRunner
	binary string
	logger outbound.LoggerPort
}

func NewEdgeTTSAudioGenerator(runner ProcessRunner, binary string, logger outbound.LoggerPort) outbound.AudioGeneratorPort {
	return &edgeTTSAudioGenerator{
		runner: runner,
		binary: binary,
		logger: logger,
	}
}

func (g *edgeTTSAudioGenerator) Generate(ctx context.Context, req outbound.GenerateAudioRequest) error {
	args := edgeTTSArgs(req)
	g.logger.DebugWithFields("running edge-tts", map[string]interface{}{
		"voice":  req.VoiceID,
		"output": req.OutputPath,
	})
	if err := g.runner.Run(ctx, g.binary, args...); err != nil {
		return domain.Wrap(domain.KindUpstreamUnavailable, "speech", "edge-tts", req.VoiceID, err)
	}
	return nil
}

// The text is passed as a single "--text=" argument so scripts starting with a dash are not read as flags.
func edgeTTSArgs(req outbound.GenerateAudioRequest) []string {
	return []string{
		"--voice", req.VoiceID,
		"--text=" + req.Text,
		"--write-media", req.OutputPath,
	}
}
