// Package engine derives a category prediction, colour profile and frequency reading from a
// text or frequency description before any image is rendered.
package engine

import (
	"context"

	"silorealm/internal/domain"
)

type SiloPrediction struct {
	PrimarySilo    string   `json:"primary_silo"`
	Confidence     float64  `json:"confidence"`
	SecondarySilos []string `json:"secondary_silos"`
}

type ColorProfile struct {
	PrimaryHex     string   `json:"primary_hex"`
	SecondaryHexes []string `json:"secondary_hexes"`
	VibeWords      []string `json:"vibe_words"`
}

type FrequencyAnalysis struct {
	HasInput               bool     `json:"has_input"`
	InterpretedFrequencyHz *float64 `json:"interpreted_frequency_hz"`
	Band                   string   `json:"band"`
	BandColorHex           string   `json:"band_color_hex"`
}

// Result is the structured analysis attached to text, frequency and auto responses.
type Result struct {
	SiloPrediction    SiloPrediction    `json:"silo_prediction"`
	ColorProfile      ColorProfile      `json:"color_profile"`
	FrequencyAnalysis FrequencyAnalysis `json:"frequency_analysis"`
	PersonalityNotes  string            `json:"personality_notes"`
	Provider          string            `json:"provider"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// Analyzer produces a Result for a normalized request. Implementations degrade to a
// deterministic result rather than failing on provider trouble.
type Analyzer interface {
	Analyze(ctx context.Context, req domain.GenerationRequest) (*Result, error)
}
