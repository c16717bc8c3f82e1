// Package catalog persists media items in SQLite: one parent row per item
// plus exactly one type-specific detail row sharing its id.
package catalog

import (
	"strconv"

	"github.com/lepinkainen/mediacat/internal/media"
)

// Item is a catalog entry. Only the detail struct matching MediaType is
// stored; the others are ignored on write and nil on read.
type Item struct {
	ID        int64           `json:"id" yaml:"id"`
	Title     string          `json:"title" yaml:"title"`
	MediaType media.MediaType `json:"media_type" yaml:"media_type"`
	Year      *int            `json:"year,omitempty" yaml:"year,omitempty"`
	Notes     string          `json:"notes,omitempty" yaml:"notes,omitempty"`
	// DateAdded is a calendar date, YYYY-MM-DD.
	DateAdded string `json:"date_added" yaml:"date_added"`

	Book  *BookDetails  `json:"book,omitempty" yaml:"book,omitempty"`
	Audio *AudioDetails `json:"audio,omitempty" yaml:"audio,omitempty"`
	Video *VideoDetails `json:"video,omitempty" yaml:"video,omitempty"`
}

type BookDetails struct {
	Author              string `json:"author,omitempty" yaml:"author,omitempty"`
	ISBN                string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Publisher           string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PageCount           *int   `json:"page_count,omitempty" yaml:"page_count,omitempty"`
	PhysicalDescription string `json:"physical_description,omitempty" yaml:"physical_description,omitempty"`
	Genre               string `json:"genre,omitempty" yaml:"genre,omitempty"`
}

type AudioDetails struct {
	Artist     string `json:"artist,omitempty" yaml:"artist,omitempty"`
	Album      string `json:"album,omitempty" yaml:"album,omitempty"`
	TrackCount *int   `json:"track_count,omitempty" yaml:"track_count,omitempty"`
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`
	Genre      string `json:"genre,omitempty" yaml:"genre,omitempty"`
}

type VideoDetails struct {
	Director       string `json:"director,omitempty" yaml:"director,omitempty"`
	RuntimeMinutes *int   `json:"runtime_minutes,omitempty" yaml:"runtime_minutes,omitempty"`
	Rating         string `json:"rating,omitempty" yaml:"rating,omitempty"`
	Format         string `json:"format,omitempty" yaml:"format,omitempty"`
	Genre          string `json:"genre,omitempty" yaml:"genre,omitempty"`
}

// Creator returns the author, artist or director for the item's type.
func (it *Item) Creator() string {
	switch {
	case it.MediaType == media.Book && it.Book != nil:
		return it.Book.Author
	case it.MediaType == media.Audio && it.Audio != nil:
		return it.Audio.Artist
	case it.MediaType == media.Video && it.Video != nil:
		return it.Video.Director
	}
	return ""
}

// Genre returns the genre from the item's detail record.
func (it *Item) Genre() string {
	switch {
	case it.MediaType == media.Book && it.Book != nil:
		return it.Book.Genre
	case it.MediaType == media.Audio && it.Audio != nil:
		return it.Audio.Genre
	case it.MediaType == media.Video && it.Video != nil:
		return it.Video.Genre
	}
	return ""
}

// DraftFromMetadata pre-fills an unsaved item from a resolved envelope.
// An envelope without a media type drafts a book, the most common case for
// the add form; the envelope itself is left untouched.
func DraftFromMetadata(md *media.NormalizedMetadata) *Item {
	item := &Item{MediaType: media.Book}
	if md == nil {
		item.Book = &BookDetails{}
		return item
	}
	if md.MediaType != nil {
		item.MediaType = *md.MediaType
	}

	item.Title = media.Deref(md.Title)
	if md.Year != nil {
		if y, err := strconv.Atoi(*md.Year); err == nil {
			item.Year = &y
		}
	}

	creator := media.Deref(md.Creator)
	switch item.MediaType {
	case media.Audio:
		item.Audio = &AudioDetails{Artist: creator, Album: item.Title}
	case media.Video:
		item.Video = &VideoDetails{Director: creator}
	default:
		item.Book = &BookDetails{
			Author:    creator,
			ISBN:      media.Deref(md.ISBN),
			Publisher: media.Deref(md.Publisher),
		}
	}
	return item
}
