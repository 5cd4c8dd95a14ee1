// Package vision implements text recognition using the Google Cloud Vision
// REST API.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agriverify/internal/config"
	"agriverify/internal/port"
	"agriverify/internal/recognizer"
)

const apiURL = "https://vision.googleapis.com/v1/images:annotate"

// Recognizer implements port.TextRecognizer using Vision document text
// detection.
type Recognizer struct {
	apiKey    string
	endpoint  string
	langHints []string
	client    *http.Client
}

// NewRecognizer creates a Vision-based recognizer from a provider config.
func NewRecognizer(cfg *config.OCRProviderConfig) *Recognizer {
	return newRecognizer(cfg, apiURL)
}

// NewRecognizerWithEndpoint creates a recognizer pointing at a custom API
// endpoint (for testing).
func NewRecognizerWithEndpoint(cfg *config.OCRProviderConfig, endpoint string) *Recognizer {
	return newRecognizer(cfg, endpoint)
}

func newRecognizer(cfg *config.OCRProviderConfig, endpoint string) *Recognizer {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	var hints []string
	for _, h := range strings.Split(cfg.Languages, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hints = append(hints, h)
		}
	}
	return &Recognizer{
		apiKey:    cfg.APIKey,
		endpoint:  endpoint,
		langHints: hints,
		client:    &http.Client{Timeout: timeout},
	}
}

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image        imageContent  `json:"image"`
	Features     []feature     `json:"features"`
	ImageContext *imageContext `json:"imageContext,omitempty"`
}

type imageContent struct {
	Content string `json:"content"`
}

type feature struct {
	Type string `json:"type"`
}

type imageContext struct {
	LanguageHints []string `json:"languageHints,omitempty"`
}

type annotateResponse struct {
	Responses []struct {
		FullTextAnnotation *struct {
			Text  string `json:"text"`
			Pages []struct {
				Confidence float64 `json:"confidence"`
			} `json:"pages"`
		} `json:"fullTextAnnotation"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

func (r *Recognizer) Recognize(ctx context.Context, input port.RecognitionInput) (*port.RecognitionOutput, error) {
	reqBody := annotateRequest{
		Requests: []imageRequest{{
			Image:    imageContent{Content: base64.StdEncoding.EncodeToString(input.Image)},
			Features: []feature{{Type: "DOCUMENT_TEXT_DETECTION"}},
			ImageContext: &imageContext{
				LanguageHints: r.langHints,
			},
		}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := r.endpoint
	if r.apiKey != "" {
		url = fmt.Sprintf("%s?key=%s", r.endpoint, r.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling vision API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("vision API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := recognizer.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, recognizer.NewRateLimitError("vision", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody)
}

func parseResponse(respBody []byte) (*port.RecognitionOutput, error) {
	var parsed annotateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(parsed.Responses) == 0 {
		return nil, fmt.Errorf("vision API returned no responses")
	}
	first := parsed.Responses[0]
	if first.Error != nil {
		return nil, fmt.Errorf("vision API error: %s", first.Error.Message)
	}

	out := &port.RecognitionOutput{Engine: "google_vision", Confidence: 0.9}
	if first.FullTextAnnotation != nil {
		out.Text = first.FullTextAnnotation.Text
		if len(first.FullTextAnnotation.Pages) > 0 && first.FullTextAnnotation.Pages[0].Confidence > 0 {
			out.Confidence = first.FullTextAnnotation.Pages[0].Confidence
		}
	}
	return out, nil
}
