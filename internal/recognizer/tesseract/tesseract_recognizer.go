// Package tesseract implements text recognition by shelling out to the
// tesseract CLI. It is the offline fallback when the cloud engine is
// unavailable.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"agriverify/internal/config"
	"agriverify/internal/port"
)

// Recognizer implements port.TextRecognizer using a local tesseract binary.
type Recognizer struct {
	command   string
	languages string
	timeout   time.Duration
}

// NewRecognizer creates a tesseract-based recognizer from a provider config.
func NewRecognizer(cfg *config.OCRProviderConfig) *Recognizer {
	command := cfg.Command
	if command == "" {
		command = "tesseract"
	}
	languages := cfg.Languages
	if languages == "" {
		languages = "hin+eng"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Recognizer{
		command:   command,
		languages: languages,
		timeout:   timeout,
	}
}

func (r *Recognizer) Recognize(ctx context.Context, input port.RecognitionInput) (*port.RecognitionOutput, error) {
	tmp, err := os.CreateTemp("", "agriverify-ocr-*"+extensionFor(input.ContentType))
	if err != nil {
		return nil, fmt.Errorf("creating temp image: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(input.Image); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("writing temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp image: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := r.run(ctx, tmp.Name(), r.languages, "txt")
	if err != nil {
		// Some installs lack the Devanagari training data. Retry with
		// English before giving up.
		if r.languages != "eng" {
			text, err = r.run(ctx, tmp.Name(), "eng", "txt")
		}
		if err != nil {
			return nil, fmt.Errorf("running tesseract: %w", err)
		}
	}

	confidence := 0.6
	if tsv, tsvErr := r.run(ctx, tmp.Name(), r.languages, "tsv"); tsvErr == nil {
		if c, ok := meanConfidence(tsv); ok {
			confidence = c
		} else {
			confidence = 0.5
		}
	}

	return &port.RecognitionOutput{
		Text:       text,
		Confidence: confidence,
		Engine:     "tesseract",
	}, nil
}

func (r *Recognizer) run(ctx context.Context, imagePath, languages, format string) (string, error) {
	args := []string{imagePath, "stdout", "-l", languages}
	if format == "tsv" {
		args = append(args, "tsv")
	}
	cmd := exec.CommandContext(ctx, r.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s: %w (%s)", r.command, languages, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// meanConfidence averages the per-word confidence column of tesseract TSV
// output, scaled to 0..1. Rows with non-positive confidence are layout
// records, not words.
func meanConfidence(tsv string) (float64, bool) {
	lines := strings.Split(tsv, "\n")
	if len(lines) < 2 {
		return 0, false
	}
	sum, count := 0.0, 0
	for _, line := range lines[1:] {
		cols := strings.Split(line, "\t")
		if len(cols) < 11 {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf <= 0 {
			continue
		}
		sum += conf
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count) / 100, true
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}
