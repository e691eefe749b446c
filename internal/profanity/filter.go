// Package profanity censors offensive words in free-text fields.
package profanity

import goaway "github.com/TwiN/go-away"

// Cleaner rewrites text with offensive words masked.
type Cleaner interface {
	Clean(text string) string
}

// Filter is the default Cleaner backed by go-away's detector.
type Filter struct {
	detector *goaway.ProfanityDetector
}

func NewFilter() *Filter {
	return &Filter{detector: goaway.NewProfanityDetector()}
}

// Clean returns text with every detected profanity replaced by asterisks.
func (f *Filter) Clean(text string) string {
	if text == "" {
		return text
	}
	return f.detector.Censor(text)
}

// Nop leaves text unchanged.
type Nop struct{}

func (Nop) Clean(text string) string { return text }
