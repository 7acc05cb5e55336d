package imagegen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"silorealm/internal/domain"
)

// PlaceholderText is injected when a request carries nothing to describe.
const PlaceholderText = "No description provided. Infer a gentle default profile."

// ValidationError reports a request body that could not be understood.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

// Unwrap lets callers match both the cause and domain.ErrValidation.
func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{domain.ErrValidation, e.Err}
	}
	return []error{domain.ErrValidation}
}

func invalid(msg string, err error) error {
	return &ValidationError{Msg: msg, Err: err}
}

type jsonBody struct {
	Text        string          `json:"text"`
	UserNotes   string          `json:"userNotes"`
	SiloHint    string          `json:"siloHint"`
	Silo        string          `json:"silo"`
	Category    string          `json:"category"`
	FrequencyHz json.RawMessage `json:"frequencyHz"`
	WantsImage  json.RawMessage `json:"wantsImage"`
	Mode        string          `json:"mode"`
}

// Normalize turns a raw request body into a GenerationRequest. Multipart bodies are read as a
// form upload; anything else is read as JSON.
func Normalize(body io.Reader, contentType string, maxUpload int64) (domain.GenerationRequest, error) {
	raw, err := readLimited(body, maxUpload)
	if err != nil {
		return domain.GenerationRequest{}, err
	}

	mediaType, params, _ := mime.ParseMediaType(contentType)
	var (
		req       domain.GenerationRequest
		explicit string
		isForm   = mediaType == "multipart/form-data"
	)
	if isForm {
		explicit, err = fromMultipart(&req, raw, params["boundary"], maxUpload)
	} else {
		explicit, err = fromJSON(&req, raw)
	}
	if err != nil {
		return domain.GenerationRequest{}, err
	}

	req.Mode = resolveMode(req, explicit, isForm)

	if !req.HasImage() && req.FreeText == "" && !req.HasFrequency() {
		req.FreeText = PlaceholderText
		req.Placeholder = true
	}
	return req, nil
}

func readLimited(body io.Reader, maxUpload int64) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	raw, err := io.ReadAll(io.LimitReader(body, maxUpload+1))
	if err != nil {
		return nil, invalid("unable to read request body", err)
	}
	if int64(len(raw)) > maxUpload {
		return nil, invalid(fmt.Sprintf("request body exceeds %d bytes", maxUpload), nil)
	}
	return raw, nil
}

func fromMultipart(req *domain.GenerationRequest, raw []byte, boundary string, maxUpload int64) (string, error) {
	if boundary == "" {
		return "", invalid("multipart body without boundary", nil)
	}
	form, err := multipart.NewReader(bytes.NewReader(raw), boundary).ReadForm(maxUpload)
	if err != nil {
		return "", invalid("malformed multipart body", err)
	}
	defer form.RemoveAll()

	value := func(keys ...string) string {
		for _, k := range keys {
			if vs := form.Value[k]; len(vs) > 0 {
				if v := strings.TrimSpace(vs[0]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	req.CategoryHint = value("silo", "category")
	req.FreeText = value("text")
	req.Notes = value("notes")
	req.FrequencyHz = parseFrequency(value("frequency_hz"))
	req.WantsImage = !strings.EqualFold(value("wantsImage"), "false")

	if files := form.File["image"]; len(files) > 0 {
		data, err := readPart(files[0])
		if err != nil {
			return "", invalid("unable to read image upload", err)
		}
		if len(data) > 0 {
			req.ImageBytes = data
			req.ImageMIME = mimetype.Detect(data).String()
		}
	}
	return value("mode"), nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func fromJSON(req *domain.GenerationRequest, raw []byte) (string, error) {
	var body jsonBody
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			return "", invalid("malformed JSON body", err)
		}
	}

	req.FreeText = strings.TrimSpace(body.Text)
	req.Notes = strings.TrimSpace(body.UserNotes)
	req.CategoryHint = strings.TrimSpace(coalesce(body.SiloHint, body.Silo, body.Category))
	req.FrequencyHz = jsonFrequency(body.FrequencyHz)
	req.WantsImage = true
	var wants bool
	if len(body.WantsImage) > 0 && json.Unmarshal(body.WantsImage, &wants) == nil {
		req.WantsImage = wants
	}
	return strings.TrimSpace(body.Mode), nil
}

// jsonFrequency accepts numbers and numeric strings.
func jsonFrequency(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return finite(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseFrequency(s)
	}
	return nil
}

func parseFrequency(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return finite(n)
}

func finite(n float64) *float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

func resolveMode(req domain.GenerationRequest, explicit string, isForm bool) domain.Mode {
	if m, ok := domain.ParseMode(strings.ToLower(explicit)); ok {
		return m
	}
	switch {
	case req.HasImage():
		return domain.ModePhoto
	case req.HasFrequency():
		return domain.ModeFrequency
	case req.FreeText != "":
		return domain.ModeText
	case isForm:
		return domain.ModePhoto
	default:
		return domain.ModeAuto
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// IsValidation reports whether err came from request normalization.
func IsValidation(err error) bool {
	return errors.Is(err, domain.ErrValidation)
}
