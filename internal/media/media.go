// Package media defines the provider-agnostic types shared by the barcode
// and photo resolution paths.
package media

import "fmt"

// MediaType identifies the kind of catalog item.
type MediaType string

const (
	Book  MediaType = "book"
	Audio MediaType = "audio"
	Video MediaType = "video"
)

// ParseMediaType validates s as one of the known media types.
func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(s) {
	case Book, Audio, Video:
		return MediaType(s), nil
	}
	return "", fmt.Errorf("unknown media type %q", s)
}

// Ptr returns a pointer to a copy of t, for use in NormalizedMetadata.
func (t MediaType) Ptr() *MediaType {
	return &t
}

// ProviderID names a lookup capability the orchestrator can dispatch to.
type ProviderID string

const (
	ProviderISBNChain    ProviderID = "isbn-chain"
	ProviderAudioBarcode ProviderID = "audio-barcode"
	ProviderVideoBarcode ProviderID = "video-barcode"
)

// Candidate is one (provider, assumed media type) pair to try for a raw
// identifier. Candidates are tried in slice order.
type Candidate struct {
	Provider         ProviderID `json:"provider"`
	AssumedMediaType MediaType  `json:"assumed_media_type"`
}

// ObjectLabel is a single object detection result from vision analysis.
type ObjectLabel struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// NormalizedMetadata is the canonical envelope returned by both resolution
// paths. Every pointer field is optional; the zero value is a valid, empty
// envelope.
type NormalizedMetadata struct {
	MediaType *MediaType `json:"media_type" yaml:"media_type"`
	Title     *string    `json:"title" yaml:"title"`
	// Creator is the author, artist or director depending on MediaType.
	Creator    *string `json:"author" yaml:"author"`
	Year       *string `json:"year" yaml:"year"`
	Publisher  *string `json:"publisher" yaml:"publisher"`
	ISBN       *string `json:"isbn" yaml:"isbn"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	SourceText string  `json:"source_text" yaml:"source_text"`
}

// StringPtr returns nil for an empty string, otherwise a pointer to s.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
