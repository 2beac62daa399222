package adapters

import (
	"context"
	"errors"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/config"
	"github.com/MonsefRH/E-learn/domain"
	"os"
	"path/filepath"
	"testing"
)

type recordingAudioGenerator struct {
	voices  []string
	payload []byte
	err     error
}

func (r *recordingAudioGenerator) Generate(_ context.Context, req outbound.GenerateAudioRequest) error {
	r.voices = append(r.voices, req.VoiceID)
	if err := os.WriteFile(req.OutputPath, r.payload, 0o644); err != nil {
		return err
	}
	return r.err
}

func newEdgeVoiceTable() VoiceTable {
	return NewVoiceTable("en-US-AriaNeural", config.DefaultEdgeVoices())
}

func TestVoiceTable_Resolve(t *testing.T) {
	table := newEdgeVoiceTable()
	tests := map[domain.Language]string{
		"fr":  "fr-FR-DeniseNeural",
		"FR ": "fr-FR-DeniseNeural",
		"es":  "es-ES-ElviraNeural",
		"it":  "it-IT-ElsaNeural",
		"en":  "en-US-AriaNeural",
		"de":  "en-US-AriaNeural",
		"":    "en-US-AriaNeural",
	}
	for lang, want := range tests {
		if got := table.Resolve(lang); got != want {
			t.Fatalf("Resolve(%q) = %s, want %s", lang, got, want)
		}
	}
}

func TestSpeechSynthesizer_UsesLanguageVoice(t *testing.T) {
	backend := &recordingAudioGenerator{payload: []byte("ID3")}
	synth := NewSpeechSynthesizer(newTestLogger(), backend, newEdgeVoiceTable())
	dir := filepath.Join(t.TempDir(), "audios")

	path, err := synth.Synthesize(context.Background(), outbound.SynthesizeSpeechRequest{
		SlideID:   4,
		Text:      "Bonjour",
		Language:  domain.LanguageFrench,
		OutputDir: dir,
	})
	if err != nil {
		t.Fatal("Failed to synthesize:", err)
	}
	if path != filepath.Join(dir, "audio4.mp3") {
		t.Fatalf("unexpected path %s", path)
	}
	if len(backend.voices) != 1 || backend.voices[0] != "fr-FR-DeniseNeural" {
		t.Fatalf("unexpected voices %v", backend.voices)
	}
}

func TestSpeechSynthesizer_RemovesPartialOutputOnFailure(t *testing.T) {
	backend := &recordingAudioGenerator{payload: []byte("partial"), err: errors.New("connection reset")}
	synth := NewSpeechSynthesizer(newTestLogger(), backend, newEdgeVoiceTable())
	dir := t.TempDir()

	if _, err := synth.Synthesize(context.Background(), outbound.SynthesizeSpeechRequest{
		SlideID: 1, Text: "Hello", Language: domain.LanguageEnglish, OutputDir: dir,
	}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(filepath.Join(dir, "audio1.mp3")); !os.IsNotExist(err) {
		t.Fatal("partial audio must be removed")
	}
}

func TestSpeechSynthesizer_RejectsEmptyAudio(t *testing.T) {
	backend := &recordingAudioGenerator{}
	synth := NewSpeechSynthesizer(newTestLogger(), backend, newEdgeVoiceTable())
	_, err := synth.Synthesize(context.Background(), outbound.SynthesizeSpeechRequest{
		SlideID: 1, Text: "Hello", OutputDir: t.TempDir(),
	})
	if domain.KindOf(err) != domain.KindUpstreamUnavailable {
		t.Fatalf("expected upstream unavailable, got %v", err)
	}
}

func TestSpeechSynthesizer_RejectsBlankText(t *testing.T) {
	backend := &recordingAudioGenerator{}
	synth := NewSpeechSynthesizer(newTestLogger(), backend, newEdgeVoiceTable())
	_, err := synth.Synthesize(context.Background(), outbound.SynthesizeSpeechRequest{SlideID: 1, Text: "  ", OutputDir: t.TempDir()})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(backend.voices) != 0 {
		t.Fatal("backend must not be called")
	}
}

func TestEdgeTTSArgs(t *testing.T) {
	args := edgeTTSArgs(outbound.GenerateAudioRequest{Text: "-5 degrees", VoiceID: "fr-FR-DeniseNeural", OutputPath: "/tmp/a.mp3"})
	want := []string{"--voice", "fr-FR-DeniseNeural", "--text=-5 degrees", "--write-media", "/tmp/a.mp3"}
	if len(args) != len(want) {
		t.Fatalf("unexpected args %v", args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg %d = %q, want %q", i, args[i], want[i])
		}
	}
}
