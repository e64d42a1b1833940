package index

import (
	"context"

	"github.com/dastarruer/search-engine/internal/page"
	"github.com/dastarruer/search-engine/internal/store"
)

// frontier is the indexer's own pull queue over crawled-but-unindexed
// pages. It mirrors page.Queue's refill-on-empty shape but carries the
// page ID and HTML the indexer needs instead of a bare URL, since the
// crawler and indexer frontiers are never the same table scan.
type frontier struct {
	items  []store.IndexablePage
	gw     store.Gateway
}

func newFrontier(gw store.Gateway) *frontier {
	return &frontier{gw: gw}
}

func (f *frontier) pop(ctx context.Context) (store.IndexablePage, bool, error) {
	if len(f.items) == 0 {
		batch, err := f.gw.FetchUnindexedCrawled(ctx, page.Limit)
		if err != nil {
			return store.IndexablePage{}, false, err
		}
		f.items = batch
		if len(f.items) == 0 {
			return store.IndexablePage{}, false, nil
		}
	}

	next := f.items[0]
	f.items = f.items[1:]
	return next, true, nil
}
