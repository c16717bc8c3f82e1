package catalog

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/lepinkainen/mediacat/internal/media"
)

func sp(s string) *string { return &s }

func TestDraftFromMetadata(t *testing.T) {
	tests := []struct {
		name string
		md   *media.NormalizedMetadata
		want *Item
	}{
		{
			name: "book",
			md: &media.NormalizedMetadata{
				MediaType: media.Book.Ptr(), Title: sp("Dune"), Creator: sp("Frank Herbert"),
				Year: sp("1965"), Publisher: sp("Chilton"), ISBN: sp("9780441013593"),
			},
			want: &Item{
				Title: "Dune", MediaType: media.Book, Year: intp(1965),
				Book: &BookDetails{Author: "Frank Herbert", ISBN: "9780441013593", Publisher: "Chilton"},
			},
		},
		{
			name: "audio uses title as album",
			md:   &media.NormalizedMetadata{MediaType: media.Audio.Ptr(), Title: sp("Kind of Blue"), Creator: sp("Miles Davis")},
			want: &Item{
				Title: "Kind of Blue", MediaType: media.Audio,
				Audio: &AudioDetails{Artist: "Miles Davis", Album: "Kind of Blue"},
			},
		},
		{
			name: "video",
			md:   &media.NormalizedMetadata{MediaType: media.Video.Ptr(), Title: sp("Alien"), Year: sp("not a year")},
			want: &Item{Title: "Alien", MediaType: media.Video, Video: &VideoDetails{}},
		},
		{
			name: "untyped envelope drafts a book",
			md:   &media.NormalizedMetadata{Title: sp("Something Long Enough")},
			want: &Item{Title: "Something Long Enough", MediaType: media.Book, Book: &BookDetails{}},
		},
		{
			name: "nil envelope",
			want: &Item{MediaType: media.Book, Book: &BookDetails{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DraftFromMetadata(tt.md))
		})
	}
}

func TestItemAccessorsIgnoreMismatchedDetails(t *testing.T) {
	it := &Item{MediaType: media.Audio, Book: &BookDetails{Author: "x", Genre: "y"}}
	assert.Equal(t, "", it.Creator())
	assert.Equal(t, "", it.Genre())
}
