package recognizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriverify/internal/port"
)

type stubRecognizer struct {
	out   *port.RecognitionOutput
	err   error
	calls int
}

func (s *stubRecognizer) Recognize(_ context.Context, _ port.RecognitionInput) (*port.RecognitionOutput, error) {
	s.calls++
	return s.out, s.err
}

func TestFallbackRecognizer_PrimarySucceeds(t *testing.T) {
	primary := &stubRecognizer{out: &port.RecognitionOutput{Text: "hello", Engine: "google_vision"}}
	secondary := &stubRecognizer{out: &port.RecognitionOutput{Text: "fallback", Engine: "tesseract"}}
	f := NewFallbackRecognizer([]port.TextRecognizer{primary, secondary}, []string{"vision", "tesseract"})

	out, err := f.Recognize(context.Background(), port.RecognitionInput{})

	require.NoError(t, err)
	assert.Equal(t, "hello", out.Text)
	assert.Equal(t, 0, secondary.calls)
}

func TestFallbackRecognizer_FallsThroughOnError(t *testing.T) {
	primary := &stubRecognizer{err: errors.New("boom")}
	secondary := &stubRecognizer{out: &port.RecognitionOutput{Text: "fallback", Engine: "tesseract"}}
	f := NewFallbackRecognizer([]port.TextRecognizer{primary, secondary}, []string{"vision", "tesseract"})

	out, err := f.Recognize(context.Background(), port.RecognitionInput{})

	require.NoError(t, err)
	assert.Equal(t, "fallback", out.Text)
	assert.Equal(t, 1, primary.calls)
}

func TestFallbackRecognizer_AllFail(t *testing.T) {
	primary := &stubRecognizer{err: errors.New("boom")}
	secondary := &stubRecognizer{err: errors.New("bust")}
	f := NewFallbackRecognizer([]port.TextRecognizer{primary, secondary}, []string{"vision", "tesseract"})

	_, err := f.Recognize(context.Background(), port.RecognitionInput{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all recognizers failed")
}

func TestFallbackRecognizer_RateLimitOpensCircuit(t *testing.T) {
	primary := &stubRecognizer{err: NewRateLimitError("vision", errors.New("429"), 60)}
	secondary := &stubRecognizer{out: &port.RecognitionOutput{Text: "fallback", Engine: "tesseract"}}
	f := NewFallbackRecognizer([]port.TextRecognizer{primary, secondary}, []string{"vision", "tesseract"})

	_, err := f.Recognize(context.Background(), port.RecognitionInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)

	// Second call skips the rate-limited provider entirely.
	_, err = f.Recognize(context.Background(), port.RecognitionInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, secondary.calls)
}

func TestFallbackRecognizer_AllRateLimited(t *testing.T) {
	primary := &stubRecognizer{err: NewRateLimitError("vision", errors.New("429"), 30)}
	secondary := &stubRecognizer{err: NewRateLimitError("tesseract", errors.New("429"), 60)}
	f := NewFallbackRecognizer([]port.TextRecognizer{primary, secondary}, []string{"vision", "tesseract"})

	_, err := f.Recognize(context.Background(), port.RecognitionInput{})

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "all", rlErr.Provider)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 30, ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, ParseRetryAfterHeader(""))
	assert.Equal(t, 0, ParseRetryAfterHeader("soon"))
}
