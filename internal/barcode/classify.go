// Package barcode maps a raw scanned identifier onto the ordered list of
// lookup candidates worth trying for it.
//
// The mapping is a length heuristic, not a symbology detector: check digits
// are deliberately not validated, so a 10- or 13-character string that is
// not an ISBN is still routed to the book chain and simply fails there.
package barcode

import (
	"strings"
	"unicode/utf8"

	"github.com/lepinkainen/mediacat/internal/media"
)

// Classify returns the candidates for raw in the order they must be tried.
// A 13-character identifier yields book, audio, video. Lengths outside
// {10, 12, 13} yield an empty slice.
func Classify(raw string) []media.Candidate {
	n := utf8.RuneCountInString(strings.TrimSpace(raw))

	var candidates []media.Candidate
	if n == 10 || n == 13 {
		candidates = append(candidates, media.Candidate{
			Provider:         media.ProviderISBNChain,
			AssumedMediaType: media.Book,
		})
	}
	if n == 12 || n == 13 {
		candidates = append(candidates,
			media.Candidate{Provider: media.ProviderAudioBarcode, AssumedMediaType: media.Audio},
			media.Candidate{Provider: media.ProviderVideoBarcode, AssumedMediaType: media.Video},
		)
	}
	return candidates
}
