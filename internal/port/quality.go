package port

import "context"

// QualityMetrics are the raw image measurements produced by the external
// scoring analyzer. The core never computes pixel math itself.
type QualityMetrics struct {
	Sharpness     float64 `json:"sharpness"`      // 0-100, higher = sharper
	BrightnessRaw float64 `json:"brightness_raw"` // mean brightness on the 0-255 scale
	GlarePercent  float64 `json:"glare_percent"`  // share of blown-out highlight pixels
	SkewDegrees   float64 `json:"skew_degrees"`   // dominant edge deviation from level
	WidthPx       int     `json:"width_px"`
	HeightPx      int     `json:"height_px"`
}

// QualityAnalyzer abstracts the pixel-level image analysis collaborator.
type QualityAnalyzer interface {
	Analyze(ctx context.Context, image []byte) (*QualityMetrics, error)
}
