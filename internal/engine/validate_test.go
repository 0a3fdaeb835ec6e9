package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const passingJournal = `Sat by the window for ten minutes and just breathed before touching my phone. ` +
	`The noise in my head settled faster than expected. Tomorrow I want to try the same thing before lunch.`

func requireReason(t *testing.T, err error, want ValidationReason) {
	t.Helper()
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, want, ve.Reason)
}

func TestValidateJournalPasses(t *testing.T) {
	require.NoError(t, ValidateJournal(passingJournal, "", 50))
}

func TestLengthBoundary(t *testing.T) {
	// 119 characters fail, regardless of anything else.
	short := strings.Repeat("abcdefg. ", 14)[:119]
	require.Equal(t, 119, len([]rune(short)))
	requireReason(t, ValidateJournal(short, "", 50), ReasonTooShort)
}

func TestTooFewSentences(t *testing.T) {
	text := strings.Repeat("many different words flowing along without any terminator at all ", 3)
	requireReason(t, ValidateJournal(text, "", 50), ReasonTooFewSentences)
}

func TestLowWordVariety(t *testing.T) {
	text := strings.Repeat("same words again. ", 10)
	requireReason(t, ValidateJournal(text, "", 50), ReasonLowVariety)
}

func TestDwellTooShort(t *testing.T) {
	requireReason(t, ValidateJournal(passingJournal, "", 44), ReasonDwellTooShort)
	require.NoError(t, ValidateJournal(passingJournal, "", 45))
}

func TestNearDuplicateRejected(t *testing.T) {
	// Trivial padding does not beat the trigram overlap.
	tweaked := passingJournal + " Really."
	requireReason(t, ValidateJournal(tweaked, passingJournal, 50), ReasonNearDuplicate)

	// A genuinely different entry passes against the same prior.
	other := `Called my brother instead of texting him and we spoke for half an hour. ` +
		`He sounded tired but glad I rang. Noted how much easier hard topics are out loud.`
	require.NoError(t, ValidateJournal(other, passingJournal, 50))
}

func TestDegenerateContentRejected(t *testing.T) {
	// Long repeated-character runs read as spam even when the words differ.
	mash := "aaaaaaaaaaaa. bbbbbbbbbbbb! cccccccccccc dddddddddddd eeeeeeeeeeee " +
		"ffffffffffff gggggggggggg hhhhhhhhhhhh iiiiiiiiiiii jjjjjjjjjjjj"
	requireReason(t, ValidateJournal(mash, "", 50), ReasonNotMeaningful)

	// Mostly digits and punctuation is not written language.
	digits := "10293847 56610283 94057162! 73829405 16273849 50617283. 94051627 " +
		"38495062 72849406 16283840 50637285 91827364 45362718 60594837 21436587 87651234"
	requireReason(t, ValidateJournal(digits, "", 50), ReasonNotMeaningful)
}

func TestWordCount(t *testing.T) {
	require.Equal(t, 0, WordCount("   "))
	require.Equal(t, 3, WordCount("one  two\nthree"))
}
