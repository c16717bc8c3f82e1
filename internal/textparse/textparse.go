// Package textparse guesses bibliographic fields from OCR text.
package textparse

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// minTitleLen is exclusive: a line must be longer than this to be a title.
const minTitleLen = 10

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// Lines that are never a title, compared after case folding.
var titleExcludedPrefixes = []string{"isbn", "by ", "copyright"}

// Fields holds the best-guess values extracted from a text block. Any of
// them may be nil when no line qualified.
type Fields struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Year   *string `json:"year"`
}

// Lines yields the trimmed, non-empty lines of text. The sequence can be
// iterated any number of times.
func Lines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.Lines(text) {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

// FindYear returns the first (19|20)\d{2} run in s, or "".
func FindYear(s string) string {
	return yearPattern.FindString(s)
}

// Parse extracts title, author and year from text. Each field is found by
// its own pass over the same lines, so one line may feed several fields.
func Parse(text string) Fields {
	fold := cases.Fold()
	lines := Lines(text)

	return Fields{
		Title:  findTitle(lines, fold),
		Author: findAuthor(lines, fold),
		Year:   findYear(lines),
	}
}

// findAuthor takes the first line that mentions "by " or looks like a bare
// two-word name.
func findAuthor(lines iter.Seq[string], fold cases.Caser) *string {
	for line := range lines {
		if strings.Contains(fold.String(line), "by ") || isTwoWordName(line) {
			author := strings.TrimSpace(strings.TrimPrefix(line, "by "))
			return &author
		}
	}
	return nil
}

func isTwoWordName(line string) bool {
	return len(strings.Fields(line)) == 2 && !strings.ContainsFunc(line, unicode.IsDigit)
}

func findYear(lines iter.Seq[string]) *string {
	for line := range lines {
		if year := FindYear(line); year != "" {
			return &year
		}
	}
	return nil
}

// findTitle picks the longest eligible line; the first one wins a tie.
func findTitle(lines iter.Seq[string], fold cases.Caser) *string {
	var best string
	bestLen := 0

	for line := range lines {
		n := utf8.RuneCountInString(line)
		if n <= minTitleLen || hasExcludedPrefix(fold.String(line)) {
			continue
		}
		if n > bestLen {
			best, bestLen = line, n
		}
	}

	if bestLen == 0 {
		return nil
	}
	return &best
}

func hasExcludedPrefix(folded string) bool {
	for _, prefix := range titleExcludedPrefixes {
		if strings.HasPrefix(folded, prefix) {
			return true
		}
	}
	return false
}
