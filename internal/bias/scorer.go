// Package bias splits raw text into sentences and scores each one for
// subjectivity: a lexical estimate of how opinion-laden the phrasing is,
// where 0 reads as flatly factual and 1 as pure opinion.
package bias

import (
	"strings"
	"unicode"
)

// Sentence is one segmented unit with its subjectivity score in [0,1]
type Sentence struct {
	Text         string
	Subjectivity float64
}

// Scorer segments text and estimates per-sentence subjectivity. Scoring is
// purely lexical and deterministic for a given input.
type Scorer struct {
	strong       map[string]struct{}
	weak         map[string]struct{}
	intensifiers map[string]struct{}
	stance       map[string]struct{}
}

// NewScorer creates a scorer with the built-in lexicon
func NewScorer() *Scorer {
	return &Scorer{
		strong:       toSet(strongWords),
		weak:         toSet(weakWords),
		intensifiers: toSet(intensifierWords),
		stance:       toSet(stanceWords),
	}
}

// Score splits text into sentences and scores each in order. Empty or
// whitespace-only input yields an empty slice.
func (s *Scorer) Score(text string) []Sentence {
	raw := splitSentences(text)
	sentences := make([]Sentence, 0, len(raw))
	for _, sentence := range raw {
		sentences = append(sentences, Sentence{
			Text:         sentence,
			Subjectivity: s.subjectivity(sentence),
		})
	}
	return sentences
}

// subjectivity estimates how opinion-laden one sentence is
func (s *Scorer) subjectivity(sentence string) float64 {
	tokens := tokenize(sentence)
	if len(tokens) == 0 {
		return 0
	}

	var points float64
	for _, token := range tokens {
		switch {
		case member(s.strong, token):
			points += 1.0
		case member(s.weak, token):
			points += 0.6
		case member(s.intensifiers, token):
			points += 0.4
		case member(s.stance, token):
			points += 0.3
		}
	}

	// Density of subjective vocabulary, scaled so a handful of loaded words
	// in a short sentence saturates the scale.
	score := points / float64(len(tokens)) * 3

	// Exclamation marks read as emphasis regardless of vocabulary.
	score += 0.1 * float64(strings.Count(sentence, "!"))

	return clamp(score)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func member(set map[string]struct{}, token string) bool {
	_, ok := set[token]
	return ok
}

func tokenize(sentence string) []string {
	fields := strings.FieldsFunc(strings.ToLower(sentence), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// abbreviations that end with a period but do not terminate a sentence
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "st": {}, "jr": {}, "sr": {},
	"vs": {}, "etc": {}, "inc": {}, "ltd": {}, "no": {}, "dept": {}, "est": {},
	"e.g": {}, "i.e": {}, "u.s": {}, "u.k": {},
}

// splitSentences splits text on terminal punctuation and newlines, keeping
// common abbreviations intact. Sentence text is trimmed but otherwise
// untouched.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		current.Reset()
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' {
			flush()
			continue
		}
		current.WriteRune(r)

		switch r {
		case '!', '?':
			if atBoundary(runes, i) {
				flush()
			}
		case '.':
			if atBoundary(runes, i) && !endsWithAbbreviation(current.String()) {
				flush()
			}
		}
	}
	flush()

	return sentences
}

// atBoundary reports whether the terminator at index i is followed by
// whitespace or end of input, so decimals like 0.56 stay whole.
func atBoundary(runes []rune, i int) bool {
	if i+1 >= len(runes) {
		return true
	}
	next := runes[i+1]
	return next == ' ' || next == '\t' || next == '\n'
}

// endsWithAbbreviation reports whether the text ends in a known abbreviation
// plus its period.
func endsWithAbbreviation(text string) bool {
	text = strings.TrimSuffix(text, ".")
	idx := strings.LastIndexFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
	word := strings.ToLower(text[idx+1:])
	_, ok := abbreviations[word]
	return ok
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
