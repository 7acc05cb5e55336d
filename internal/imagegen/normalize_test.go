package imagegen

import (
	"bytes"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"silorealm/internal/domain"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func multipartBody(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", "selfie.png")
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		if _, err := fw.Write(image); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestNormalizeMultipartWithImage(t *testing.T) {
	body, ct := multipartBody(t, map[string]string{"silo": "Cosmics"}, pngBytes)

	req, err := Normalize(body, ct, 1<<20)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if req.Mode != domain.ModePhoto {
		t.Fatalf("Mode = %q, want photo", req.Mode)
	}
	if req.CategoryHint != "Cosmics" {
		t.Fatalf("CategoryHint = %q", req.CategoryHint)
	}
	if !bytes.Equal(req.ImageBytes, pngBytes) {
		t.Fatalf("image bytes not preserved")
	}
	if req.ImageMIME != "image/png" {
		t.Fatalf("ImageMIME = %q, want image/png", req.ImageMIME)
	}
	if !req.WantsImage || req.Placeholder {
		t.Fatalf("unexpected flags: wants=%v placeholder=%v", req.WantsImage, req.Placeholder)
	}
}

func TestNormalizeMultipartFields(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]string
		wantMode   domain.Mode
		wantWants  bool
		wantFreq   *float64
		wantHint   string
		wantNotes  string
		wantFiller bool
	}{
		{
			name:       "royals without image stays photo",
			fields:     map[string]string{"silo": "Royals"},
			wantMode:   domain.ModePhoto,
			wantWants:  true,
			wantHint:   "Royals",
			wantFiller: true,
		},
		{
			name:      "category alias and frequency",
			fields:    map[string]string{"category": "Metallics", "frequency_hz": "432"},
			wantMode:  domain.ModeFrequency,
			wantWants: true,
			wantFreq:  ptr(432),
			wantHint:  "Metallics",
		},
		{
			name:       "wantsImage false is case insensitive",
			fields:     map[string]string{"wantsImage": "FALSE", "notes": "calm"},
			wantMode:   domain.ModePhoto,
			wantWants:  false,
			wantNotes:  "calm",
			wantFiller: true,
		},
		{
			name:       "non numeric frequency is dropped",
			fields:     map[string]string{"frequency_hz": "loud", "mode": "frequency"},
			wantMode:   domain.ModeFrequency,
			wantWants:  true,
			wantFiller: true,
		},
		{
			name:       "NaN frequency is dropped",
			fields:     map[string]string{"frequency_hz": "NaN"},
			wantMode:   domain.ModePhoto,
			wantWants:  true,
			wantFiller: true,
		},
		{
			name:       "infinite frequency is dropped",
			fields:     map[string]string{"frequency_hz": "Inf"},
			wantMode:   domain.ModePhoto,
			wantWants:  true,
			wantFiller: true,
		},
		{
			name:       "overflowing frequency is dropped",
			fields:     map[string]string{"frequency_hz": "1e400"},
			wantMode:   domain.ModePhoto,
			wantWants:  true,
			wantFiller: true,
		},
		{
			name:      "explicit mode wins",
			fields:    map[string]string{"text": "sunrise runner", "mode": "auto"},
			wantMode:  domain.ModeAuto,
			wantWants: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, ct := multipartBody(t, tc.fields, nil)
			req, err := Normalize(body, ct, 1<<20)
			if err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}
			if req.Mode != tc.wantMode {
				t.Fatalf("Mode = %q, want %q", req.Mode, tc.wantMode)
			}
			if req.WantsImage != tc.wantWants {
				t.Fatalf("WantsImage = %v, want %v", req.WantsImage, tc.wantWants)
			}
			if !sameFreq(req.FrequencyHz, tc.wantFreq) {
				t.Fatalf("FrequencyHz = %v, want %v", req.FrequencyHz, tc.wantFreq)
			}
			if req.CategoryHint != tc.wantHint {
				t.Fatalf("CategoryHint = %q, want %q", req.CategoryHint, tc.wantHint)
			}
			if req.Notes != tc.wantNotes {
				t.Fatalf("Notes = %q, want %q", req.Notes, tc.wantNotes)
			}
			if req.Placeholder != tc.wantFiller {
				t.Fatalf("Placeholder = %v, want %v", req.Placeholder, tc.wantFiller)
			}
		})
	}
}

func TestNormalizeJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		ct        string
		wantMode  domain.Mode
		wantText  string
		wantHint  string
		wantFreq  *float64
		wantWants bool
	}{
		{
			name:      "text only",
			body:      `{"text":"I love thunderstorms and neon"}`,
			ct:        "application/json",
			wantMode:  domain.ModeText,
			wantText:  "I love thunderstorms and neon",
			wantWants: true,
		},
		{
			name:      "frequency as string with hint",
			body:      `{"frequencyHz":"528","siloHint":"Earthers","wantsImage":false}`,
			ct:        "application/json; charset=utf-8",
			wantMode:  domain.ModeFrequency,
			wantHint:  "Earthers",
			wantFreq:  ptr(528),
			wantWants: false,
		},
		{
			name:      "wantsImage only honored as boolean",
			body:      `{"text":"x","wantsImage":"false","mode":"text"}`,
			ct:        "text/plain",
			wantMode:  domain.ModeText,
			wantText:  "x",
			wantWants: true,
		},
		{
			name:      "empty body defaults to auto with placeholder",
			body:      ``,
			ct:        "",
			wantMode:  domain.ModeAuto,
			wantText:  PlaceholderText,
			wantWants: true,
		},
		{
			name:      "non finite frequency string is dropped",
			body:      `{"frequencyHz":"NaN"}`,
			ct:        "application/json",
			wantMode:  domain.ModeAuto,
			wantText:  PlaceholderText,
			wantWants: true,
		},
		{
			name:      "unknown mode falls back to inference",
			body:      `{"mode":"dream","frequencyHz":40}`,
			ct:        "application/json",
			wantMode:  domain.ModeFrequency,
			wantFreq:  ptr(40),
			wantWants: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := Normalize(strings.NewReader(tc.body), tc.ct, 1<<20)
			if err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}
			if req.Mode != tc.wantMode {
				t.Fatalf("Mode = %q, want %q", req.Mode, tc.wantMode)
			}
			if tc.wantText != "" && req.FreeText != tc.wantText {
				t.Fatalf("FreeText = %q, want %q", req.FreeText, tc.wantText)
			}
			if req.CategoryHint != tc.wantHint {
				t.Fatalf("CategoryHint = %q, want %q", req.CategoryHint, tc.wantHint)
			}
			if !sameFreq(req.FrequencyHz, tc.wantFreq) {
				t.Fatalf("FrequencyHz = %v, want %v", req.FrequencyHz, tc.wantFreq)
			}
			if req.WantsImage != tc.wantWants {
				t.Fatalf("WantsImage = %v, want %v", req.WantsImage, tc.wantWants)
			}
		})
	}
}

func TestNormalizeRejectsBadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		ct   string
		max  int64
	}{
		{name: "malformed json", body: `{"text":`, ct: "application/json", max: 1 << 20},
		{name: "multipart without boundary", body: "--x--", ct: "multipart/form-data", max: 1 << 20},
		{name: "oversize body", body: strings.Repeat("a", 64), ct: "application/json", max: 16},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(strings.NewReader(tc.body), tc.ct, tc.max)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrValidation) || !IsValidation(err) {
				t.Fatalf("error %v should match domain.ErrValidation", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %T is not a ValidationError", err)
			}
		})
	}
}

func ptr(v float64) *float64 { return &v }

func sameFreq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
