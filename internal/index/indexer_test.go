package index

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dastarruer/search-engine/internal/page"
	"github.com/dastarruer/search-engine/internal/store"
)

func seedCrawledPage(t *testing.T, gw store.Gateway, url, bodyHTML string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, gw.InsertUncrawled(ctx, url))
	require.NoError(t, gw.MarkCrawled(ctx, url, "<html><body>"+bodyHTML+"</body></html>", "title"))
}

func onlyValue(m map[string]float64) float64 {
	for _, v := range m {
		return v
	}
	return 0
}

// TestTwoPageScenario mirrors the case where two distinct pages each
// mention exactly one topic-specific term: both terms end up with
// page_frequency 1 and idf log10(2), since each appears on exactly one of
// the two pages in the corpus.
func TestTwoPageScenario(t *testing.T) {
	gw := store.NewMemory()
	seedCrawledPage(t, gw, "https://example.com/hippo", "A large hippopotamus wallows here.")
	seedCrawledPage(t, gw, "https://example.com/elephant", "An elephant trumpets nearby.")

	ix, err := New(context.Background(), gw, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, ix.Run(context.Background()))

	hippo, found, err := gw.FetchTerm(context.Background(), "hippopotamus")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, hippo.PageFrequency)
	require.InDelta(t, math.Log10(2), hippo.IDF, 1e-9)
	require.Len(t, hippo.TFScores, 1)
	require.Equal(t, 1.0, onlyValue(hippo.TFScores))
	require.InDelta(t, math.Log10(2), onlyValue(hippo.TFIDFScores), 1e-9)

	elephant, found, err := gw.FetchTerm(context.Background(), "elephant")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, elephant.PageFrequency)
	require.InDelta(t, math.Log10(2), elephant.IDF, 1e-9)
}

// TestThreePageScenario indexes three pages that share no terms,
// confirming a term's page_frequency stays 1 and its idf reflects the
// full three-page corpus once every page has been indexed.
func TestThreePageScenario(t *testing.T) {
	gw := store.NewMemory()
	seedCrawledPage(t, gw, "https://example.com/ladder", "Climb the tall ladder carefully.")
	seedCrawledPage(t, gw, "https://example.com/hippo", "A hippopotamus wallows here.")
	seedCrawledPage(t, gw, "https://example.com/pipe", "The pipe burst under pressure.")

	ix, err := New(context.Background(), gw, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, ix.Run(context.Background()))

	ladder, found, err := gw.FetchTerm(context.Background(), "ladder")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, ladder.PageFrequency)
	require.InDelta(t, math.Log10(3), ladder.IDF, 1e-9)

	pipe, found, err := gw.FetchTerm(context.Background(), "pipe")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, pipe.PageFrequency)
	require.InDelta(t, math.Log10(3), pipe.IDF, 1e-9)
}

// TestMarksPagesIndexed confirms every crawled page ends up flagged
// indexed once the batch completes.
func TestMarksPagesIndexed(t *testing.T) {
	gw := store.NewMemory()
	seedCrawledPage(t, gw, "https://example.com/a", "alpha")
	seedCrawledPage(t, gw, "https://example.com/b", "beta")

	ix, err := New(context.Background(), gw, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, ix.Run(context.Background()))

	count, err := gw.CountIndexed(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	remaining, err := gw.FetchUnindexedCrawled(context.Background(), 100)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

// TestRunFlushesInBatchesOfLimit seeds a corpus larger than page.Limit so
// Run must complete more than one pop/flush cycle; the in-memory term map
// must never be left holding more than a single batch's worth of work, and
// every page still ends up indexed regardless of how many batches it took.
func TestRunFlushesInBatchesOfLimit(t *testing.T) {
	gw := store.NewMemory()
	total := page.Limit + 5
	for i := 0; i < total; i++ {
		url := fmt.Sprintf("https://example.com/page-%d", i)
		seedCrawledPage(t, gw, url, fmt.Sprintf("uniqueword%d common", i))
	}

	ix, err := New(context.Background(), gw, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, ix.Run(context.Background()))

	require.Empty(t, ix.terms, "term map must be cleared after the final flush")

	count, err := gw.CountIndexed(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(total), count)

	common, found, err := gw.FetchTerm(context.Background(), "common")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, total, common.PageFrequency)
}
