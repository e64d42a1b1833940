// Package page holds the shared Page/CrawledPage types, the bounded
// in-memory frontier queue used by the crawl engine, and the batch Limit
// that both the crawl engine and the indexer use.
package page

// Page is an uncrawled URL sitting in the frontier.
type Page struct {
	URL string
}

// CrawledPage is the result of successfully fetching and parsing a Page:
// its URL, its title, and the raw HTML that was stored.
type CrawledPage struct {
	URL   string
	Title string
	HTML  string
}

// ToPage drops the crawl-time fields, keeping only the URL. Used when a
// CrawledPage needs to be compared against or inserted into a Queue of
// Pages (e.g. deduping freshly discovered links against in-flight work).
func (c CrawledPage) ToPage() Page {
	return Page{URL: c.URL}
}
