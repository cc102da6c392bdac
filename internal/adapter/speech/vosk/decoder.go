package vosk

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Decoder converts a recording into mono signed 16-bit little-endian PCM.
type Decoder interface {
	Decode(ctx context.Context, audio []byte, mimeType string, sampleRate int) ([]byte, error)
}

// FFmpegDecoder shells out to ffmpeg. Raw PCM passes through untouched.
type FFmpegDecoder struct {
	Path string
}

func (d FFmpegDecoder) Decode(ctx context.Context, audio []byte, mimeType string, sampleRate int) ([]byte, error) {
	if IsRawPCM(mimeType) {
		return audio, nil
	}

	path := d.Path
	if path == "" {
		path = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, path,
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-acodec", "pcm_s16le",
		"-f", "s16le",
		"pipe:1",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(audio)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// IsRawPCM reports whether mimeType already denotes 16-bit PCM samples.
func IsRawPCM(mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case "audio/l16", "audio/pcm", "audio/x-raw", "audio/s16le":
		return true
	}
	return false
}
