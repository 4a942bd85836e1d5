package scalar

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatOptions controls locale sensitive parts of scalar resolution and rendering.
// The zero value uses the root locale and is ready to use.
type FormatOptions struct {
	// Locale selects the case folding rules used when comparing scalar text against canonical renderings.
	Locale language.Tag
}

// DefaultFormatOptions returns options using the root (undetermined) locale.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{Locale: language.Und}
}

// Fold lower cases s using the configured locale.
func (o FormatOptions) Fold(s string) string {
	// Casers carry state so one is built per call.
	return cases.Lower(o.Locale).String(s)
}

// EqualFold reports whether a and b are equal under the configured locale's case folding.
func (o FormatOptions) EqualFold(a, b string) bool {
	if a == b {
		return true
	}
	return o.Fold(a) == o.Fold(b)
}
