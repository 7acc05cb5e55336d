package engine

import (
	"context"
	"strings"

	"silorealm/internal/domain"
	"silorealm/internal/domain/silo"
)

// StaticAnalyzer answers without any network call. Output depends only on the request.
type StaticAnalyzer struct {
	catalog *silo.Catalog
}

func NewStaticAnalyzer(catalog *silo.Catalog) *StaticAnalyzer {
	if catalog == nil {
		catalog = silo.Default()
	}
	return &StaticAnalyzer{catalog: catalog}
}

func (s *StaticAnalyzer) Analyze(ctx context.Context, req domain.GenerationRequest) (*Result, error) {
	profile := s.catalog.Lookup(req.CategoryHint)
	res := &Result{
		SiloPrediction: SiloPrediction{
			PrimarySilo:    profile.Name,
			Confidence:     0.5,
			SecondarySilos: []string{},
		},
		ColorProfile:      paletteProfile(profile),
		FrequencyAnalysis: analyzeFrequency(req.FrequencyHz),
		PersonalityNotes:  profile.Personality,
		Provider:          staticProviderName,
		Metadata:          map[string]string{},
	}
	return res, nil
}

func paletteProfile(p silo.Profile) ColorProfile {
	out := ColorProfile{SecondaryHexes: []string{}, VibeWords: vibeWords(p.Style, 3)}
	if len(p.Palette) > 0 {
		out.PrimaryHex = p.Palette[0]
		out.SecondaryHexes = append(out.SecondaryHexes, p.Palette[1:]...)
	}
	return out
}

// vibeWords takes the first n comma separated phrases of a style line.
func vibeWords(style string, n int) []string {
	var words []string
	for _, part := range strings.Split(style, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		words = append(words, part)
		if len(words) == n {
			break
		}
	}
	return words
}

var _ Analyzer = (*StaticAnalyzer)(nil)
