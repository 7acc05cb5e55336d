package image

import (
	"context"
	"time"
)

// Kind tells the composer how to read a Result payload.
type Kind string

const (
	KindURL         Kind = "url"
	KindInlineBytes Kind = "inlineBytes"
	KindNone        Kind = "none"
)

// Failure reasons carried on KindNone results.
const (
	ReasonMissingAPIKey = "missing_api_key"
	ReasonMissingOutput = "missing output"
	ReasonTimeout       = "timeout"
	ReasonCanceled      = "canceled"
)

const DefaultSize = "1024x1024"

// DefaultTimeout bounds a single provider call when none is configured.
const DefaultTimeout = 90 * time.Second

// Request is what every provider receives.
type Request struct {
	Prompt    string
	Image     []byte
	ImageMIME string
	Size      string
}

func (r Request) HasImage() bool {
	return len(r.Image) > 0
}

// Result is the normalized provider outcome. Payload holds a URL for KindURL and base64 text for
// KindInlineBytes.
type Result struct {
	Kind    Kind
	Payload string
	MIME    string
	Reason  string
}

func none(reason string) Result {
	return Result{Kind: KindNone, Reason: reason}
}

// Generator is the contract implemented by all image providers. Provider failures are reported
// as KindNone results, never as errors.
type Generator interface {
	Generate(ctx context.Context, req Request) Result
}
