package term

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTFCountsCaseNormalizedOccurrences(t *testing.T) {
	tokens := []string{"hippopotamus", "is", "large", "hippopotamus"}
	require.Equal(t, 2.0, TF(tokens, "hippopotamus"))
	require.Equal(t, 1.0, TF(tokens, "large"))
	require.Equal(t, 0.0, TF(tokens, "elephant"))
}

func TestRecordPageOnlyBumpsPageFrequencyOnce(t *testing.T) {
	tm := New("hippopotamus")
	tm.RecordPage("page-1", 2)
	tm.RecordPage("page-1", 5) // re-recording the same page must not double count
	require.Equal(t, 1, tm.PageFrequency)
	require.Equal(t, 5.0, tm.TFScores["page-1"])
}

func TestRecordPageIgnoresZeroTF(t *testing.T) {
	tm := New("elephant")
	tm.RecordPage("page-1", 0)
	require.Equal(t, 0, tm.PageFrequency)
	require.Empty(t, tm.TFScores)
}

func TestRefreshZeroIDFWhenPageFrequencyZero(t *testing.T) {
	tm := New("ghost")
	tm.Refresh(10)
	require.Equal(t, 0.0, tm.IDF)
}

func TestRefreshZeroIDFWhenNumPagesZero(t *testing.T) {
	tm := New("hippopotamus")
	tm.RecordPage("page-1", 1)
	tm.Refresh(0)
	require.Equal(t, 0.0, tm.IDF)
}

// Mirrors the two-page scenario where "hippopotamus" and "elephant" each
// appear on exactly one of two pages: both end up with idf = log10(2) and
// the same tf-idf score.
func TestRefreshTwoPageScenario(t *testing.T) {
	hippo := New("hippopotamus")
	hippo.RecordPage("page-1", 1)
	hippo.Refresh(2)

	elephant := New("elephant")
	elephant.RecordPage("page-2", 1)
	elephant.Refresh(2)

	want := math.Log10(2)
	require.InDelta(t, want, hippo.IDF, 1e-9)
	require.InDelta(t, want, elephant.IDF, 1e-9)
	require.InDelta(t, want, hippo.TFIDFScores["page-1"], 1e-9)
	require.InDelta(t, want, elephant.TFIDFScores["page-2"], 1e-9)
}

func TestMergeFromUnionsTFScoresPreferringNewOnConflict(t *testing.T) {
	persisted := New("hippopotamus")
	persisted.TFScores["page-1"] = 3
	persisted.TFScores["page-2"] = 1
	persisted.IDF = 0.5

	fresh := New("hippopotamus")
	fresh.TFScores["page-1"] = 9 // same page re-crawled with a different count
	fresh.TFScores["page-3"] = 2
	fresh.IDF = 0.7

	fresh.MergeFrom(persisted)

	require.Equal(t, 9.0, fresh.TFScores["page-1"]) // fresh wins on conflict
	require.Equal(t, 1.0, fresh.TFScores["page-2"]) // kept from persisted
	require.Equal(t, 2.0, fresh.TFScores["page-3"]) // kept from fresh
	require.InDelta(t, 0.7*9, fresh.TFIDFScores["page-1"], 1e-9)
	require.InDelta(t, 0.7*1, fresh.TFIDFScores["page-2"], 1e-9)
}

func TestNormalizeStripsPunctuationAndLowercases(t *testing.T) {
	got, ok := Normalize("Hippopotamus,")
	require.True(t, ok)
	require.Equal(t, "hippopotamus", got)
}

func TestNormalizeStripsDiacritics(t *testing.T) {
	got, ok := Normalize("café")
	require.True(t, ok)
	require.Equal(t, "cafe", got)
}

func TestNormalizeRejectsStopWords(t *testing.T) {
	_, ok := Normalize("The")
	require.False(t, ok)
}

func TestNormalizeRejectsPureDigits(t *testing.T) {
	_, ok := Normalize("1234")
	require.False(t, ok)
}

func TestNormalizeRejectsTokenContainingADigit(t *testing.T) {
	_, ok := Normalize("covid19")
	require.False(t, ok)
}

func TestNormalizeRejectsEmptyAfterStripping(t *testing.T) {
	_, ok := Normalize("...")
	require.False(t, ok)
}

func TestTokenizeFiltersRejectedTokens(t *testing.T) {
	tokens := Tokenize("The hippopotamus and the elephant, 123")
	require.Equal(t, []string{"hippopotamus", "elephant"}, tokens)
}
