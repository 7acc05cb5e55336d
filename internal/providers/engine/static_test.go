package engine

import (
	"context"
	"reflect"
	"testing"

	"silorealm/internal/domain"
	"silorealm/internal/domain/silo"
)

func TestStaticAnalyzerDeterministic(t *testing.T) {
	a := NewStaticAnalyzer(silo.Default())
	hz := 120.0
	req := domain.GenerationRequest{CategoryHint: "Elementals", FrequencyHz: &hz}

	first, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	second, _ := a.Analyze(context.Background(), req)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%+v\n%+v", first, second)
	}
	if first.SiloPrediction.PrimarySilo != "Elementals" || first.SiloPrediction.Confidence != 0.5 {
		t.Fatalf("prediction = %+v", first.SiloPrediction)
	}
	if first.ColorProfile.PrimaryHex != "#FF5400" {
		t.Fatalf("PrimaryHex = %q", first.ColorProfile.PrimaryHex)
	}
	if len(first.ColorProfile.VibeWords) != 3 {
		t.Fatalf("VibeWords = %v", first.ColorProfile.VibeWords)
	}
	if first.FrequencyAnalysis.Band != "low" || !first.FrequencyAnalysis.HasInput {
		t.Fatalf("frequency analysis = %+v", first.FrequencyAnalysis)
	}
}

func TestStaticAnalyzerUnknownHintDefaults(t *testing.T) {
	res, _ := NewStaticAnalyzer(nil).Analyze(context.Background(), domain.GenerationRequest{CategoryHint: "cosmics"})
	if res.SiloPrediction.PrimarySilo != silo.DefaultName {
		t.Fatalf("PrimarySilo = %q, want %q", res.SiloPrediction.PrimarySilo, silo.DefaultName)
	}
	if res.FrequencyAnalysis.HasInput {
		t.Fatal("HasInput should be false without a frequency")
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		hz   float64
		want string
	}{
		{hz: 0, want: "infra-low"},
		{hz: 99.9, want: "infra-low"},
		{hz: 100, want: "low"},
		{hz: 299, want: "low"},
		{hz: 432, want: "mid"},
		{hz: 600, want: "high"},
		{hz: 899.5, want: "high"},
		{hz: 900, want: "ultra"},
		{hz: 20000, want: "ultra"},
	}
	for _, tc := range tests {
		name, color := Band(tc.hz)
		if name != tc.want {
			t.Fatalf("Band(%v) = %q, want %q", tc.hz, name, tc.want)
		}
		if got, ok := BandColor(name); !ok || got != color {
			t.Fatalf("BandColor(%q) = %q, %v; want %q", name, got, ok, color)
		}
	}
	if _, ok := BandColor("sub"); ok {
		t.Fatal("unknown band should not resolve")
	}
}
