package adapters

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type streamSignature struct {
	VideoCodec string
	Width      int
	Height     int
	PixFmt     string
	AudioCodec string
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		PixFmt    string `json:"pix_fmt"`
	} `json:"streams"`
}

type ffmpegClipConcatenator struct {
	logger     outbound.LoggerPort
	runner     ProcessRunner
	ffmpegPath string
	probe      func(path string) (string, error)
}

func NewFFmpegClipConcatenator(logger outbound.LoggerPort, runner ProcessRunner, ffmpegPath string, probeTimeout time.Duration) outbound.ClipConcatenatorPort {
	return &ffmpegClipConcatenator{
		logger:     logger,
		runner:     runner,
		ffmpegPath: ffmpegPath,
		probe: func(path string) (string, error) {
			return ffmpeg.ProbeWithTimeout(path, probeTimeout, ffmpeg.KwArgs{})
		},
	}
}

func (c *ffmpegClipConcatenator) Concatenate(ctx context.Context, req outbound.ConcatenateClipsRequest) error {
	if len(req.Clips) == 0 {
		return domain.Wrap(domain.KindNoRenderableContent, "concat", "", "no clips to concatenate", nil)
	}
	if err := c.checkCompatible(req.Clips); err != nil {
		return err
	}

	if err := writeManifest(req.ManifestPath, req.Clips); err != nil {
		_ = os.Remove(req.ManifestPath)
		return domain.Wrap(domain.KindEncodeFailure, "concat", "write manifest", req.ManifestPath, err)
	}
	defer func() {
		if err := os.Remove(req.ManifestPath); err != nil && !os.IsNotExist(err) {
			c.logger.Error(err, "Failed to remove concat manifest")
		}
	}()

	partial := req.PartialPath
	if partial == "" {
		partial = req.OutputPath + ".partial"
	}
	if err := c.runner.Run(ctx, c.ffmpegPath, concatArgs(req.ManifestPath, partial)...); err != nil {
		_ = os.Remove(partial)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return domain.Wrap(domain.KindEncodeFailure, "concat", "ffmpeg", "", err)
	}
	if err := os.Rename(partial, req.OutputPath); err != nil {
		_ = os.Remove(partial)
		return domain.Wrap(domain.KindEncodeFailure, "concat", "publish output", req.OutputPath, err)
	}

	c.logger.InfoWithFields("clips concatenated", map[string]interface{}{
		"clips":  len(req.Clips),
		"output": req.OutputPath,
	})
	return nil
}

// checkCompatible rejects clip sets that stream copy cannot join.
func (c *ffmpegClipConcatenator) checkCompatible(clips []string) error {
	var first streamSignature
	for i, clip := range clips {
		raw, err := c.probe(clip)
		if err != nil {
			return domain.Wrap(domain.KindEncodeFailure, "concat", "probe", clip, err)
		}
		sig, err := parseStreamSignature(raw)
		if err != nil {
			return domain.Wrap(domain.KindEncodeFailure, "concat", "probe", clip, err)
		}
		if i == 0 {
			first = sig
			continue
		}
		if sig != first {
			return domain.Wrap(domain.KindEncodeFailure, "concat", "compatibility",
				fmt.Sprintf("%s has %+v, expected %+v", filepath.Base(clip), sig, first), nil)
		}
	}
	return nil
}

func parseStreamSignature(raw string) (streamSignature, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return streamSignature{}, err
	}
	var sig streamSignature
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if sig.VideoCodec == "" {
				sig.VideoCodec = s.CodecName
				sig.Width = s.Width
				sig.Height = s.Height
				sig.PixFmt = s.PixFmt
			}
		case "audio":
			if sig.AudioCodec == "" {
				sig.AudioCodec = s.CodecName
			}
		}
	}
	if sig.VideoCodec == "" {
		return streamSignature{}, fmt.Errorf("no video stream")
	}
	return sig, nil
}

func writeManifest(path string, clips []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	writer := bufio.NewWriter(file)
	for _, clip := range clips {
		abs, err := filepath.Abs(clip)
		if err != nil {
			_ = file.Close()
			return err
		}
		if _, err := fmt.Fprintf(writer, "file '%s'\n", escapeManifestPath(abs)); err != nil {
			_ = file.Close()
			return err
		}
	}
	if err := writer.Flush(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func escapeManifestPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}

func concatArgs(manifest string, output string) []string {
	return ffmpeg.Input(manifest, ffmpeg.KwArgs{"f": "concat", "safe": 0}).
		Output(output, ffmpeg.KwArgs{"c": "copy", "f": "mp4"}).
		OverWriteOutput().
		GetArgs()
}
