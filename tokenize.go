// Kinoticon title tokenizer
//
// Movie titles are turned into the canonical lowercase tokens the game
// treats as guessable. Most of the work is mechanical cleanup, but real
// catalogs are full of titles that defeat naive word splitting, so the
// tables below carry the exceptions:
// - literal overrides for titles that are nothing but letters/symbols
// - acronym collapsing (C.R.A.Z.Y. style)
// - compound words split into their guessable parts
// - spoken forms for honorifics, "vs", and leetspeak (Se7en)
// - numbers and Roman numerals spelled out
// Single letters survive only when they are Roman numerals on their own.

package main

import (
	"regexp"
	"strings"
)

var titleOverrides = map[string][]string{
	"WALL·E":     {"walle"},
	"C.R.A.Z.Y.": {"crazy"},
}

var numberWords = map[string][]string{
	"0":    {"zero"},
	"1":    {"one"},
	"2":    {"two"},
	"3":    {"three"},
	"4":    {"four"},
	"6":    {"six"},
	"7":    {"seven"},
	"9":    {"nine"},
	"10":   {"ten"},
	"12":   {"twelve"},
	"21":   {"twenty", "one"},
	"50":   {"fifty"},
	"300":  {"three", "hundred"},
	"500":  {"five", "hundred"},
	"1917": {"nineteen", "seventeen"},
	"2001": {"two", "thousand", "one"},
	"2049": {"twenty", "forty", "nine"},
}

var romanWords = map[string]string{
	"ii":   "two",
	"iii":  "three",
	"iv":   "four",
	"vi":   "six",
	"vii":  "seven",
	"viii": "eight",
	"ix":   "nine",
}

var validSingleLetters = map[string]bool{
	"x": true,
	"v": true,
	"i": true,
}

var compoundWords = map[string][]string{
	"wilderpeople": {"wilder", "people"},
	"wolfwalkers":  {"wolf", "walkers"},
	"mockingbird":  {"mocking", "bird"},
	"birdman":      {"bird", "man"},
}

var specialWords = map[string]string{
	"se7en": "seven",
	"la":    "la",
	"walle": "walle",
	"mr":    "mister",
	"dr":    "doctor",
	"vs":    "versus",
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"of": true, "in": true, "to": true, "for": true, "is": true,
	"on": true, "at": true, "by": true, "with": true, "from": true,
	"as": true, "part": true, "chapter": true, "vol": true,
	"volume": true, "episode": true, "movie": true, "story": true,
	"tale": true, "not": true, "can": true, "you": true,
	"advance": true, "it": true,
}

var (
	reParenthetical = regexp.MustCompile(`\([^)]+\)`)
	reAcronymFive   = regexp.MustCompile(`([A-Z])\.([A-Z])\.([A-Z])\.([A-Z])\.([A-Z])\.`)
	reAcronymTwo    = regexp.MustCompile(`([A-Z])\.([A-Z])\.`)
	reTrailingDot   = regexp.MustCompile(`([A-Z][a-z]+)\.`)
	reNonAlnum      = regexp.MustCompile(`[^a-zA-Z0-9 ]`)
)

var wordSeparators = strings.NewReplacer("·", " ", ":", " ", "-", " ", "—", " ", "&", " ")

// extractStandardWords applies the generic cleanup pipeline and token
// tables, in order. Callers dedupe.
func extractStandardWords(text string) []string {
	cleaned := reAcronymFive.ReplaceAllString(text, "$1$2$3$4$5")
	cleaned = reAcronymTwo.ReplaceAllString(cleaned, "$1$2")
	cleaned = reTrailingDot.ReplaceAllString(cleaned, "$1")
	cleaned = wordSeparators.Replace(cleaned)
	cleaned = reNonAlnum.ReplaceAllString(cleaned, "")

	var words []string
	for _, token := range strings.Fields(strings.ToLower(cleaned)) {
		switch {
		case len(token) == 1:
			if validSingleLetters[token] {
				words = append(words, token)
			}
		case compoundWords[token] != nil:
			words = append(words, compoundWords[token]...)
		case specialWords[token] != "":
			words = append(words, specialWords[token])
		case numberWords[token] != nil:
			words = append(words, numberWords[token]...)
		case romanWords[token] != "":
			words = append(words, romanWords[token])
		case len(token) >= 2 && !stopWords[token]:
			words = append(words, token)
		}
	}

	// Expansions can reintroduce stop-words ("Wreck-It" drops its "it"
	// here, not earlier).
	kept := words[:0]
	for _, w := range words {
		if !stopWords[w] {
			kept = append(kept, w)
		}
	}
	return kept
}

// tokenizeTitle returns the canonical token sequence for a title:
// deduplicated, insertion-ordered. The order is not meaningful to the
// game but keeps hash sequences stable per title.
func tokenizeTitle(title string) []string {
	if override, ok := titleOverrides[title]; ok {
		return override
	}
	if strings.Contains(title, "Wreck-It") {
		rest := strings.Replace(title, "Wreck-It", "", 1)
		return dedupe(append([]string{"wreck"}, extractStandardWords(rest)...))
	}
	cleaned := reParenthetical.ReplaceAllString(title, "")
	return dedupe(extractStandardWords(cleaned))
}

func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func tokenSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
