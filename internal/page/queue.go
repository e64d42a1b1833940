package page

import "context"

// Limit bounds how many rows a single refill pulls from storage. Kept as a
// package constant because both the crawler and the indexer frontiers use
// the same figure, mirroring the original QUEUE_LIMIT.
const Limit = 100

// Refiller is called by Queue.Pop when the in-memory queue runs dry. It
// returns the next batch of URLs to enqueue, or an empty slice when the
// backing store has nothing left.
type Refiller func(ctx context.Context, limit int) ([]string, error)

// Queue is a FIFO frontier of pages to crawl, paired with a membership set
// so duplicate URLs are rejected in O(1) instead of scanning the deque.
// It is not safe for concurrent use without external locking; the single-
// threaded Engine uses its Queue from one goroutine, and FanoutEngine
// guards the same Queue with its own mutex.
type Queue struct {
	items   []Page
	present map[string]struct{}
	refill  Refiller
}

// NewQueue builds an empty Queue that refills itself from refill once it
// runs out of in-memory work.
func NewQueue(refill Refiller) *Queue {
	return &Queue{
		present: make(map[string]struct{}),
		refill:  refill,
	}
}

// Push enqueues a page, ignoring it if it is already present in the queue.
// It does not consult the "already crawled" set; callers are expected to
// check that separately before pushing.
func (q *Queue) Push(p Page) {
	if _, ok := q.present[p.URL]; ok {
		return
	}
	q.present[p.URL] = struct{}{}
	q.items = append(q.items, p)
}

// Contains reports whether url is currently sitting in the queue.
func (q *Queue) Contains(url string) bool {
	_, ok := q.present[url]
	return ok
}

// Len returns the number of pages currently buffered in memory, without
// triggering a refill.
func (q *Queue) Len() int {
	return len(q.items)
}

// Pop removes and returns the next page in FIFO order. When the queue is
// empty it asks the Refiller for another batch first; if the refill also
// comes back empty, ok is false and the frontier is considered exhausted.
func (q *Queue) Pop(ctx context.Context) (p Page, ok bool, err error) {
	if len(q.items) == 0 {
		urls, rerr := q.refill(ctx, Limit)
		if rerr != nil {
			return Page{}, false, rerr
		}
		for _, u := range urls {
			q.Push(Page{URL: u})
		}
		if len(q.items) == 0 {
			return Page{}, false, nil
		}
	}

	next := q.items[0]
	q.items = q.items[1:]
	delete(q.present, next.URL)
	return next, true, nil
}
