package contentpolicy

import "github.com/dastarruer/search-engine/internal/crawlerr"

// Filter bundles the blocked-keyword trie used to reject inappropriate
// pages. A nil *Filter is not valid; use NewFilter or DefaultFilter.
type Filter struct {
	blocked *Trie
}

// NewFilter builds a Filter around a caller-supplied trie, letting callers
// swap in a richer keyword list than Default without touching call sites.
func NewFilter(blocked *Trie) *Filter {
	return &Filter{blocked: blocked}
}

// DefaultFilter returns a Filter seeded with the package's default
// keyword trie.
func DefaultFilter() *Filter {
	return NewFilter(Default())
}

// Check runs both gates against a fetched page: the page's URL and its
// extracted visible text are scanned for severe keywords, and the root
// lang attribute is checked for English. It returns the first applicable
// crawlerr.Error, or nil if the page passes both gates.
func (f *Filter) Check(url, rootLang, visibleText string) error {
	if !IsEnglish(rootLang) {
		return crawlerr.New(crawlerr.NonEnglishPage, url)
	}
	if f.isInappropriate(url, visibleText) {
		return crawlerr.New(crawlerr.InappropriateSite, url)
	}
	return nil
}

func (f *Filter) isInappropriate(url, text string) bool {
	if severity, found := f.blocked.WorstMatch(url); found && severity >= Severe {
		return true
	}
	severity, found := f.blocked.WorstMatch(text)
	return found && severity >= Severe
}
