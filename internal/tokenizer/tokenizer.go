package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonAlphanumericRegex matches sequences of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// acronymRegex handles cases like "HTTPRequest" -> "HTTP Request"
var acronymRegex = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)

// camelCaseRegex handles cases like "theOffice" -> "the Office" or "myAPI" -> "my API"
var camelCaseRegex = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// Options configures a Tokenizer.
type Options struct {
	StopWords []string // dropped after lowercasing, matched against the unstemmed token
	Stemming  bool     // reduce tokens with the Snowball English stemmer
}

// Tokenizer turns free text into a deterministic sequence of terms.
// It is safe for concurrent use once constructed.
type Tokenizer struct {
	stopWords map[string]struct{}
	stemming  bool
}

// New creates a Tokenizer from options.
func New(opts Options) *Tokenizer {
	t := &Tokenizer{
		stopWords: make(map[string]struct{}, len(opts.StopWords)),
		stemming:  opts.Stemming,
	}
	for _, w := range opts.StopWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			t.stopWords[w] = struct{}{}
		}
	}
	return t
}

// Default is a Tokenizer without stop words or stemming.
var Default = New(Options{})

// Tokenize converts a string into a slice of tokens using the tokenizer's options.
func (t *Tokenizer) Tokenize(text string) []string {
	raw := Tokenize(text)
	if len(t.stopWords) == 0 && !t.stemming {
		return raw
	}

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := t.stopWords[tok]; stop {
			continue
		}
		if t.stemming {
			tok = english.Stem(tok, true)
		}
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Term normalizes a single query word the same way Tokenize normalizes text.
// It returns "" when the word produces no token or more than one.
func (t *Tokenizer) Term(word string) string {
	tokens := t.Tokenize(word)
	if len(tokens) != 1 {
		return ""
	}
	return tokens[0]
}

// Tokenize converts a string into a slice of tokens.
// It folds accents, splits camel/PascalCase, lowercases the string, and splits by non-alphanumeric characters.
func Tokenize(text string) []string {
	// 1. Strip diacritics so "café" and "cafe" index the same
	folded := foldAccents(text)

	// 2. Split camelCase/PascalCase
	processedText := acronymRegex.ReplaceAllString(folded, "$1 $2")
	processedText = camelCaseRegex.ReplaceAllString(processedText, "$1 $2")

	// 3. Lowercase
	lowerText := strings.ToLower(processedText)

	// 4. Split by non-alphanumeric characters
	split := nonAlphanumericRegex.Split(lowerText, -1)

	tokens := make([]string, 0) // Initialize as empty slice, not nil
	for _, s := range split {
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

func foldAccents(text string) string {
	if isASCII(text) {
		return text
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
