package port

import "context"

// RecognitionInput carries the image to run text recognition on.
type RecognitionInput struct {
	Image       []byte
	ContentType string
}

// RecognitionOutput contains the recognized text and the engine's own
// confidence in it.
type RecognitionOutput struct {
	Text       string
	Confidence float64 // 0..1, as reported by the engine
	Engine     string
}

// TextRecognizer abstracts an OCR engine. The core treats it as an opaque,
// possibly-failing call; no retry policy is implied.
type TextRecognizer interface {
	Recognize(ctx context.Context, input RecognitionInput) (*RecognitionOutput, error)
}
