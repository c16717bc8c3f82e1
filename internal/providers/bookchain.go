package providers

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/lepinkainen/mediacat/internal/lookup"
)

// BookChain tries book catalogs in order and returns the first record
// found. Results are never merged.
type BookChain struct {
	members []lookup.Provider
}

var _ lookup.Provider = (*BookChain)(nil)

// NewBookChain creates a chain over members, tried in the given order.
func NewBookChain(members ...lookup.Provider) *BookChain {
	chain := &BookChain{}
	for _, m := range members {
		if m != nil {
			chain.members = append(chain.members, m)
		}
	}
	return chain
}

// Name lists the member names in order.
func (c *BookChain) Name() string {
	names := make([]string, 0, len(c.members))
	for _, m := range c.members {
		names = append(names, m.Name())
	}
	return "ISBN chain (" + strings.Join(names, ", ") + ")"
}

// Lookup asks each member in turn. A failing member is logged and the next
// one is still tried. The chain only reports an error when every member
// failed, and then it is the last member's error.
func (c *BookChain) Lookup(ctx context.Context, isbn string) (*lookup.Record, error) {
	isbn = NormalizeISBN(isbn)

	var lastErr error
	failures := 0
	for _, m := range c.members {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := m.Lookup(ctx, isbn)
		if err != nil {
			slog.Debug("Book catalog failed", "source", m.Name(), "isbn", isbn, "error", err)
			lastErr = err
			failures++
			continue
		}
		if rec != nil {
			return rec, nil
		}
	}

	if failures > 0 && failures == len(c.members) {
		return nil, lastErr
	}
	return nil, nil
}

// NormalizeISBN strips hyphens and whitespace. A lower-case "x" check
// character becomes "X".
func NormalizeISBN(isbn string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '-' || unicode.IsSpace(r):
			return -1
		case r == 'x':
			return 'X'
		}
		return r
	}, isbn)
}
