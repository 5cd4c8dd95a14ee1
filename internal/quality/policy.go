// Package quality decides whether a document photo is good enough for text
// recognition. Pixel-level measurement happens in an external analyzer; this
// package only applies policy to the measured metrics.
package quality

import (
	"fmt"
	"math"

	"agriverify/internal/config"
	"agriverify/internal/port"
)

// Report is the outcome of the quality gate for one image.
type Report struct {
	IsAcceptable    bool     `json:"is_acceptable"`
	BlurScore       float64  `json:"blur_score"`       // 0-100, higher is sharper
	BrightnessScore float64  `json:"brightness_score"` // 0-100, 100 at mid-gray
	GlareScore      float64  `json:"glare_score"`      // 0-100, higher is less glare
	AngleScore      float64  `json:"angle_score"`      // 0-100, higher is straighter
	ResolutionOK    bool     `json:"resolution_ok"`
	Issues          []string `json:"issues"`
	Suggestions     []string `json:"suggestions"`
}

// Policy evaluates quality metrics against configured thresholds.
type Policy struct {
	cfg config.QualityConfig
}

// NewPolicy creates a quality policy with the given thresholds.
func NewPolicy(cfg config.QualityConfig) *Policy {
	return &Policy{cfg: cfg}
}

// Unreadable is the report returned when the image bytes could not be decoded
// at all. It carries a fixed issue so callers can surface a useful message.
func Unreadable() *Report {
	return &Report{
		IsAcceptable: false,
		Issues:       []string{"Could not read image file"},
		Suggestions:  []string{"Please upload a valid JPG or PNG image"},
	}
}

// Decide converts raw analyzer metrics into scores and applies the acceptance
// policy. Glare score maps each percent of glare area to a ten point penalty.
// Angle score stays at 100 until the skew limit is crossed.
func (p *Policy) Decide(m *port.QualityMetrics) *Report {
	r := &Report{}

	r.BlurScore = round1(math.Min(100, m.Sharpness))
	if r.BlurScore < p.cfg.MinSharpness {
		r.Issues = append(r.Issues, "Image is blurry")
		r.Suggestions = append(r.Suggestions, "Hold camera steady and ensure document is in focus")
	}

	r.BrightnessScore = round1(100 - math.Abs(m.BrightnessRaw-127)/1.27)
	if m.BrightnessRaw < p.cfg.MinBrightnessRaw {
		r.Issues = append(r.Issues, "Image too dark")
		r.Suggestions = append(r.Suggestions, "Move to better lighting or use flash")
	} else if m.BrightnessRaw > p.cfg.MaxBrightnessRaw {
		r.Issues = append(r.Issues, "Image too bright/overexposed")
		r.Suggestions = append(r.Suggestions, "Reduce lighting or avoid direct sunlight")
	}

	r.GlareScore = round1(math.Max(0, 100-m.GlarePercent*10))
	if m.GlarePercent > 5 {
		r.Issues = append(r.Issues, "Glare detected on document")
		r.Suggestions = append(r.Suggestions, "Tilt document to avoid reflections")
	}

	r.ResolutionOK = m.WidthPx >= p.cfg.MinWidthPx && m.HeightPx >= p.cfg.MinHeightPx
	if !r.ResolutionOK {
		r.Issues = append(r.Issues, fmt.Sprintf("Resolution too low (%dx%d)", m.WidthPx, m.HeightPx))
		r.Suggestions = append(r.Suggestions, "Move closer to document or use higher camera quality")
	}

	r.AngleScore = 100
	if m.SkewDegrees > p.cfg.MaxSkewDegrees {
		r.AngleScore = round1(math.Max(0, 100-m.SkewDegrees*5))
		r.Issues = append(r.Issues, fmt.Sprintf("Document is tilted (%.1f°)", m.SkewDegrees))
		r.Suggestions = append(r.Suggestions, "Align document edges with camera frame")
	}

	r.IsAcceptable = r.BlurScore >= p.cfg.MinSharpness &&
		r.ResolutionOK &&
		r.GlareScore > 50 &&
		len(r.Issues) <= p.cfg.MaxMinorIssues

	if r.IsAcceptable {
		r.Suggestions = nil
	}
	return r
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
