package adapters

import (
	"context"
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"os"
	"path/filepath"
	"strings"
)

type VoiceTable struct {
	Default string
	Voices  map[domain.Language]string
}

func NewVoiceTable(defaultVoice string, voices map[string]string) VoiceTable {
	table := VoiceTable{
		Default: defaultVoice,
		Voices:  make(map[domain.Language]string, len(voices)),
	}
	for lang, voice := range voices {
		table.Voices[domain.ParseLanguage(lang)] = voice
	}
	return table
}

func (t VoiceTable) Resolve(language domain.Language) string {
	if voice, ok := t.Voices[domain.ParseLanguage(string(language))]; ok && voice != "" {
		return voice
	}
	return t.Default
}

type speechSynthesizer struct {
	logger  outbound.LoggerPort
	backend outbound.AudioGeneratorPort
	voices  VoiceTable
}

func NewSpeechSynthesizer(logger outbound.LoggerPort, backend outbound.AudioGeneratorPort, voices VoiceTable) outbound.SpeechSynthesizerPort {
	return &speechSynthesizer{
		logger:  logger,
		backend: backend,
		voices:  voices,
	}
}

func (s *speechSynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeSpeechRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", domain.Wrap(domain.KindValidation, "speech", "synthesize", fmt.Sprintf("slide %d has no text", req.SlideID), nil)
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return "", domain.Wrap(domain.KindInternal, "speech", "create audio dir", req.OutputDir, err)
	}
	voice := s.voices.Resolve(req.Language)
	outputPath := filepath.Join(req.OutputDir, fmt.Sprintf("audio%d.mp3", req.SlideID))

	err := s.backend.Generate(ctx, outbound.GenerateAudioRequest{
		Text:       req.Text,
		VoiceID:    voice,
		OutputPath: outputPath,
	})
	if err == nil {
		err = checkNonEmpty(outputPath)
	}
	if err != nil {
		_ = os.Remove(outputPath)
		return "", err
	}

	s.logger.InfoWithFields("narration synthesized", map[string]interface{}{
		"slide_id": req.SlideID,
		"voice":    voice,
		"path":     outputPath,
	})
	return outputPath, nil
}

func checkNonEmpty(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Wrap(domain.KindUpstreamUnavailable, "speech", "verify output", path, err)
	}
	if info.Size() == 0 {
		return domain.Wrap(domain.KindUpstreamUnavailable, "speech", "verify output", "empty audio file", nil)
	}
	return nil
}
