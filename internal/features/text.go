// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package features

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// minTokenLength is the shortest token kept in a text vector.
const minTokenLength = 2

// TextVector maps normalized terms to non-negative weights (term frequency).
// An empty vector is valid and means the product has no text signal.
type TextVector map[string]float64

// Empty reports whether the vector carries no terms.
func (v TextVector) Empty() bool {
	return len(v) == 0
}

// Terms returns the vector's terms sorted by descending weight, then ascending term.
func (v TextVector) Terms() []string {
	terms := make([]string, 0, len(v))
	for t := range v {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if v[terms[i]] != v[terms[j]] {
			return v[terms[i]] > v[terms[j]]
		}
		return terms[i] < terms[j]
	})
	return terms
}

// TextExtractor builds term-frequency vectors from free text.
type TextExtractor struct {
	stopwords map[string]struct{}
	stripHTML bool
}

// TextOption configures a TextExtractor.
type TextOption func(*TextExtractor)

// WithStopwords replaces the default stopword set.
func WithStopwords(words []string) TextOption {
	return func(e *TextExtractor) {
		e.stopwords = make(map[string]struct{}, len(words))
		for _, w := range words {
			e.stopwords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// WithoutHTMLStripping disables markup removal before tokenization.
func WithoutHTMLStripping() TextOption {
	return func(e *TextExtractor) {
		e.stripHTML = false
	}
}

// NewTextExtractor creates an extractor using the built-in English stopword set.
func NewTextExtractor(opts ...TextOption) *TextExtractor {
	e := &TextExtractor{
		stopwords: defaultStopwords,
		stripHTML: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the term-frequency vector for text. Empty input yields an
// empty vector; Extract never fails.
func (e *TextExtractor) Extract(text string) TextVector {
	vec := make(TextVector)
	if strings.TrimSpace(text) == "" {
		return vec
	}
	if e.stripHTML && strings.ContainsRune(text, '<') {
		text = StripHTML(text)
	}

	for _, tok := range Tokenize(text) {
		if len(tok) < minTokenLength {
			continue
		}
		if _, stop := e.stopwords[tok]; stop {
			continue
		}
		vec[tok]++
	}
	return vec
}

// Tokenize lowercases text and splits it on non-alphanumeric boundaries.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// StripHTML returns the text content of an HTML fragment with tags removed.
// Script and style bodies are dropped. Malformed markup is tolerated; on a
// tokenizer error the text collected so far is returned.
func StripHTML(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way keep what was collected
			return strings.TrimSpace(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if isRawTextTag(name) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			if isRawTextTag(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawTextTag(name []byte) bool {
	s := string(name)
	return s == "script" || s == "style"
}
