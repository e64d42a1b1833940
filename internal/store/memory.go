package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/dastarruer/search-engine/internal/term"
)

type memoryPage struct {
	id        string
	url       string
	title     string
	html      string
	crawled   bool
	indexed   bool
}

// Memory is an in-process Gateway with no external dependency, used by
// tests and by any run that doesn't need durability across restarts. It
// implements the same conflict-ignored insert and overwrite-on-upsert
// semantics as Postgres, just against maps guarded by a mutex instead of
// SQL.
type Memory struct {
	mu      sync.Mutex
	byURL   map[string]*memoryPage
	nextID  int
	terms   map[string]*term.Term
}

// NewMemory returns an empty Memory gateway.
func NewMemory() *Memory {
	return &Memory{
		byURL: make(map[string]*memoryPage),
		terms: make(map[string]*term.Term),
	}
}

func (m *Memory) Close() {}

func (m *Memory) InsertUncrawled(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byURL[url]; ok {
		return nil
	}
	m.nextID++
	m.byURL[url] = &memoryPage{id: strconv.Itoa(m.nextID), url: url}
	return nil
}

func (m *Memory) MarkCrawled(_ context.Context, url, html, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byURL[url]
	if !ok {
		return nil
	}
	p.html = html
	p.title = title
	p.crawled = true
	return nil
}

func (m *Memory) FetchUncrawledBatch(_ context.Context, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var urls []string
	for _, p := range m.byURL {
		if !p.crawled {
			urls = append(urls, p.url)
			if len(urls) >= limit {
				break
			}
		}
	}
	return urls, nil
}

func (m *Memory) FetchCrawledSet(_ context.Context, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var urls []string
	for _, p := range m.byURL {
		if p.crawled {
			urls = append(urls, p.url)
			if len(urls) >= limit {
				break
			}
		}
	}
	return urls, nil
}

func (m *Memory) FetchUnindexedCrawled(_ context.Context, limit int) ([]IndexablePage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pages []IndexablePage
	for _, p := range m.byURL {
		if p.crawled && !p.indexed {
			pages = append(pages, IndexablePage{ID: p.id, HTML: p.html})
			if len(pages) >= limit {
				break
			}
		}
	}
	return pages, nil
}

func (m *Memory) MarkIndexed(_ context.Context, pageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byURL {
		if p.id == pageID {
			p.indexed = true
			return nil
		}
	}
	return nil
}

func (m *Memory) CountIndexed(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, p := range m.byURL {
		if p.indexed {
			count++
		}
	}
	return count, nil
}

func (m *Memory) FetchTerm(_ context.Context, normalized string) (*term.Term, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.terms[normalized]
	if !ok {
		return nil, false, nil
	}
	cp := term.New(normalized)
	cp.IDF = t.IDF
	cp.PageFrequency = t.PageFrequency
	for k, v := range t.TFScores {
		cp.TFScores[k] = v
	}
	for k, v := range t.TFIDFScores {
		cp.TFIDFScores[k] = v
	}
	return cp, true, nil
}

func (m *Memory) UpsertTerm(_ context.Context, t *term.Term) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := term.New(t.Term)
	stored.IDF = t.IDF
	stored.PageFrequency = t.PageFrequency
	for k, v := range t.TFScores {
		stored.TFScores[k] = v
	}
	for k, v := range t.TFIDFScores {
		stored.TFIDFScores[k] = v
	}
	m.terms[t.Term] = stored
	return nil
}
