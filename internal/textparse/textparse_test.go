package textparse

import (
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func ptr(s string) *string { return &s }

func TestLines(t *testing.T) {
	seq := Lines("  first  \n\n\t\nsecond\r\n third")
	want := []string{"first", "second", "third"}

	assert.Equal(t, want, slices.Collect(seq))
	// restartable
	assert.Equal(t, want, slices.Collect(seq))
}

func TestLines_Empty(t *testing.T) {
	assert.Equal(t, 0, len(slices.Collect(Lines(" \n \n"))))
}

func TestParse_TitleLengthBoundary(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *string
	}{
		{name: "exactly 10 characters excluded", text: "ABCDEFGHIJ", want: nil},
		{name: "11 characters eligible", text: "ABCDEFGHIJK", want: ptr("ABCDEFGHIJK")},
		{name: "counts runes not bytes", text: "Äöüäöüäöüä", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text).Title)
		})
	}
}

func TestParse_TitleSelection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *string
	}{
		{
			name: "longest wins",
			text: "A Short Title\nA Considerably Longer Title\nMid Length Title",
			want: ptr("A Considerably Longer Title"),
		},
		{
			name: "first wins on tie",
			text: "First Title Here\nOther Title Here",
			want: ptr("First Title Here"),
		},
		{
			name: "excluded prefixes are case-insensitive",
			text: "ISBN 978-0-13-110362-7\nCOPYRIGHT 1988 PRENTICE HALL\nBy Brian Kernighan and Dennis\nThe C Language",
			want: ptr("The C Language"),
		},
		{
			name: "no survivors",
			text: "isbn 0131103628\nshort",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text).Title)
		})
	}
}

func TestParse_YearFirstMatchWins(t *testing.T) {
	got := Parse("Copyright 1999 Jane Doe, published 2005")
	assert.Equal(t, ptr("1999"), got.Year)
}

func TestParse_YearAcrossLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *string
	}{
		{name: "earlier line wins", text: "Reprinted 2010\nFirst edition 1978", want: ptr("2010")},
		{name: "embedded in longer digit run", text: "Catalog 319881", want: ptr("1988")},
		{name: "out of range centuries ignored", text: "Printed 1888 and 2199", want: nil},
		{name: "none", text: "no digits here", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text).Year)
		})
	}
}

func TestParse_AuthorTwoTokenRuleFiresFirst(t *testing.T) {
	got := Parse(strings.Join([]string{"Jane Doe", "The Great Book", "by John Smith"}, "\n"))
	assert.Equal(t, ptr("Jane Doe"), got.Author)
}

func TestParse_Author(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *string
	}{
		{name: "explicit by line", text: "The Great Book Title\nby John Smith", want: ptr("John Smith")},
		{name: "uppercase By matches but prefix is kept", text: "Written By Someone Else", want: ptr("Written By Someone Else")},
		{name: "leading By is not stripped", text: "By Anne Author", want: ptr("By Anne Author")},
		{name: "two tokens with digit skipped", text: "Volume 2\nAda Lovelace", want: ptr("Ada Lovelace")},
		{name: "three tokens skipped", text: "Three Word Line", want: nil},
		{name: "none", text: "ISBN0131103628", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text).Author)
		})
	}
}

func TestParse_PassesAreIndependent(t *testing.T) {
	// "by " line is both the author and excluded from titles; the year
	// line is also the only title candidate.
	got := Parse("by Someone Important\nPublished in 1984 London")

	assert.Equal(t, ptr("Someone Important"), got.Author)
	assert.Equal(t, ptr("1984"), got.Year)
	assert.Equal(t, ptr("Published in 1984 London"), got.Title)
}

func TestParse_EmptyInput(t *testing.T) {
	assert.Equal(t, Fields{}, Parse(""))
}

func TestParse_Deterministic(t *testing.T) {
	text := "THE GREAT GATSBY\nF. Scott Fitzgerald\nCopyright 1925\nISBN 9780743273565"

	first := Parse(text)
	second := Parse(text)
	assert.Equal(t, first, second)
}

func TestParse_ReparseOwnOutputs(t *testing.T) {
	got := Parse("The Pragmatic Programmer\nby Andrew Hunt\n1999")

	for _, field := range []*string{got.Title, got.Author, got.Year} {
		if field == nil {
			continue
		}
		// Only determinism is promised for re-parsing.
		assert.Equal(t, Parse(*field), Parse(*field))
	}
}

func TestFindYear(t *testing.T) {
	assert.Equal(t, "1988", FindYear("1988-03-22"))
	assert.Equal(t, "2001", FindYear("March 2001"))
	assert.Equal(t, "", FindYear("n.d."))
}
