package engine

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Journal quality thresholds. Deliberately named here rather than scattered
// through callers; product tuning happens in one place.
const (
	// MinJournalChars is the minimum journal length in characters.
	MinJournalChars = 120
	// MinSentenceMarks is the minimum count of sentence terminators.
	MinSentenceMarks = 2
	// MinUniqueRatio is the minimum distinct-word share of the journal.
	// A character-level ratio caps out near the alphabet size for any text
	// this long, so variety is measured over words; character-level
	// degeneracy is caught by the meaningful-content checks below.
	MinUniqueRatio = 0.6
	// MinDwellSeconds is the shortest believable writing time.
	MinDwellSeconds = 45
	// MaxSimilarity rejects near-duplicates of the previous entry
	// (trigram Jaccard overlap).
	MaxSimilarity = 0.80

	// Meaningful-content floors: mostly letters, no long single-character
	// runs, and a minimal distinct vocabulary.
	minLetterRatio   = 0.5
	maxSameRuneRun   = 10
	minDistinctWords = 8
	minDistinctRunes = 10
)

// ValidateJournal judges a submission against the quality and anti-abuse
// thresholds. priorJournal is the user's immediately previous entry ("" when
// none). Pure and deterministic; returns nil on pass or a ValidationError
// naming the first failed threshold.
func ValidateJournal(journal, priorJournal string, dwellSeconds int) error {
	text := strings.TrimSpace(journal)

	if utf8.RuneCountInString(text) < MinJournalChars {
		return ValidationError{
			Reason:  ReasonTooShort,
			Message: fmt.Sprintf("write at least %d characters", MinJournalChars),
		}
	}

	if countSentenceMarks(text) < MinSentenceMarks {
		return ValidationError{
			Reason:  ReasonTooFewSentences,
			Message: fmt.Sprintf("use at least %d full sentences", MinSentenceMarks),
		}
	}

	if uniqueWordRatio(text) < MinUniqueRatio {
		return ValidationError{
			Reason:  ReasonLowVariety,
			Message: "too much repetition, vary your wording",
		}
	}

	if dwellSeconds < MinDwellSeconds {
		return ValidationError{
			Reason:  ReasonDwellTooShort,
			Message: fmt.Sprintf("spend at least %d seconds on the entry", MinDwellSeconds),
		}
	}

	if priorJournal != "" && trigramSimilarity(text, priorJournal) >= MaxSimilarity {
		return ValidationError{
			Reason:  ReasonNearDuplicate,
			Message: "entry is nearly identical to your previous one",
		}
	}

	if !looksMeaningful(text) {
		return ValidationError{
			Reason:  ReasonNotMeaningful,
			Message: "entry does not read as written language",
		}
	}

	return nil
}

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func countSentenceMarks(text string) int {
	n := 0
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			n++
		}
	}
	return n
}

func uniqueWordRatio(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		seen[strings.Trim(w, ".,!?;:\"'()")] = true
	}
	return float64(len(seen)) / float64(len(words))
}

// trigramSimilarity is the Jaccard overlap of character trigram sets over
// the lowercased, whitespace-collapsed texts.
func trigramSimilarity(a, b string) float64 {
	sa := trigramSet(a)
	sb := trigramSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	inter := 0
	for g := range sa {
		if sb[g] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

func trigramSet(text string) map[string]bool {
	norm := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	runes := []rune(norm)
	set := make(map[string]bool)
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = true
	}
	return set
}

// looksMeaningful is a cheap language heuristic against keyboard-mash and
// repeated-character spam that clears the length and word-variety bars.
func looksMeaningful(text string) bool {
	var (
		letters  int
		nonSpace int
		prevRune rune
		run      int
		distinct = make(map[rune]bool)
	)
	for _, r := range text {
		if unicode.IsSpace(r) {
			prevRune = 0
			run = 0
			continue
		}
		nonSpace++
		distinct[unicode.ToLower(r)] = true
		if unicode.IsLetter(r) {
			letters++
		}
		if r == prevRune {
			run++
			if run >= maxSameRuneRun {
				return false
			}
		} else {
			prevRune = r
			run = 1
		}
	}
	if nonSpace == 0 {
		return false
	}
	if float64(letters)/float64(nonSpace) < minLetterRatio {
		return false
	}
	if len(distinct) < minDistinctRunes {
		return false
	}
	words := strings.Fields(strings.ToLower(text))
	distinctWords := make(map[string]bool, len(words))
	for _, w := range words {
		distinctWords[w] = true
	}
	return len(distinctWords) >= minDistinctWords
}
