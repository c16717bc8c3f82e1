// Package vision sends photographs to Google Cloud Vision and returns the
// detected object labels and recognized text.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	cloudvision "google.golang.org/api/vision/v1"

	"github.com/lepinkainen/mediacat/internal/config"
	"github.com/lepinkainen/mediacat/internal/errors"
	"github.com/lepinkainen/mediacat/internal/media"
)

const providerName = "Cloud Vision"

// Extraction is the result of analysing one image.
type Extraction struct {
	Labels  []media.ObjectLabel
	RawText string
}

// Extractor calls the Cloud Vision images:annotate endpoint.
type Extractor struct {
	cfg config.VisionConfig
}

// NewExtractor creates an Extractor. A missing API key is not an error
// here; it is reported by Extract so the rest of the program still starts.
func NewExtractor(cfg config.VisionConfig) *Extractor {
	if cfg.MaxLabels <= 0 {
		cfg.MaxLabels = 10
	}
	return &Extractor{cfg: cfg}
}

// Configured reports whether an API key is present.
func (e *Extractor) Configured() bool {
	return strings.TrimSpace(e.cfg.APIKey) != ""
}

// Extract runs object localization and text detection on image.
//
// It returns a *errors.ConfigurationError without any network traffic when
// no API key is configured, and a *errors.ProviderError for transport
// failures, non-2xx responses and per-image error statuses.
func (e *Extractor) Extract(ctx context.Context, image []byte) (*Extraction, error) {
	if !e.Configured() {
		return nil, errors.NewConfigurationError("vision.api_key")
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	svc, err := e.service(ctx)
	if err != nil {
		return nil, errors.NewProviderError(providerName, err)
	}

	payload := downscale(image, e.cfg.MaxDimension)
	req := &cloudvision.BatchAnnotateImagesRequest{
		Requests: []*cloudvision.AnnotateImageRequest{{
			Image: &cloudvision.Image{Content: base64.StdEncoding.EncodeToString(payload)},
			Features: []*cloudvision.Feature{
				{Type: "OBJECT_LOCALIZATION", MaxResults: int64(e.cfg.MaxLabels)},
				{Type: "TEXT_DETECTION"},
			},
		}},
	}

	resp, err := svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return nil, toProviderError(err)
	}
	if len(resp.Responses) == 0 {
		return &Extraction{}, nil
	}

	r := resp.Responses[0]
	if r.Error != nil && r.Error.Code != 0 {
		return nil, errors.NewProviderStatusError(providerName, 0,
			fmt.Sprintf("image annotation failed (code %d): %s", r.Error.Code, r.Error.Message))
	}

	out := &Extraction{RawText: bestText(r)}
	for _, obj := range r.LocalizedObjectAnnotations {
		if len(out.Labels) == e.cfg.MaxLabels {
			break
		}
		out.Labels = append(out.Labels, media.ObjectLabel{Name: obj.Name, Score: obj.Score})
	}

	slog.Debug("Vision extraction complete", "labels", len(out.Labels), "text_chars", len(out.RawText))
	return out, nil
}

// service builds a Vision client. WithHTTPClient is not used because it
// bypasses the API key transport.
func (e *Extractor) service(ctx context.Context) (*cloudvision.Service, error) {
	opts := []option.ClientOption{option.WithAPIKey(e.cfg.APIKey)}
	if e.cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(e.cfg.Endpoint))
	}
	svc, err := cloudvision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}
	return svc, nil
}

// bestText prefers the full-page text, then the first text annotation.
func bestText(r *cloudvision.AnnotateImageResponse) string {
	if r.FullTextAnnotation != nil && r.FullTextAnnotation.Text != "" {
		return r.FullTextAnnotation.Text
	}
	if len(r.TextAnnotations) > 0 && r.TextAnnotations[0] != nil {
		return r.TextAnnotations[0].Description
	}
	return ""
}

func toProviderError(err error) error {
	var apiErr *googleapi.Error
	if stdErrors.As(err, &apiErr) {
		detail := apiErr.Message
		if detail == "" {
			detail = strings.TrimSpace(apiErr.Body)
		}
		provErr := errors.NewProviderStatusError(providerName, apiErr.Code, detail)
		provErr.Err = err
		return provErr
	}
	return errors.NewProviderError(providerName, err)
}

// downscale shrinks image to fit within maxDim on its longest side and
// re-encodes it as JPEG. Small or undecodable images are returned as-is.
func downscale(image []byte, maxDim int) []byte {
	if maxDim <= 0 {
		return image
	}

	img, err := imaging.Decode(bytes.NewReader(image), imaging.AutoOrientation(true))
	if err != nil {
		slog.Debug("Image not decodable, sending as-is", "error", err)
		return image
	}

	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return image
	}

	resized := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		slog.Debug("Re-encoding resized image failed, sending original", "error", err)
		return image
	}

	slog.Debug("Image downscaled for upload",
		"from", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
		"to", fmt.Sprintf("%dx%d", resized.Bounds().Dx(), resized.Bounds().Dy()))
	return buf.Bytes()
}
