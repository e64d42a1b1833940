// Package extract pulls the pieces a crawled page needs out of a parsed
// HTML document: its title, its declared language, the anchors worth
// following, and the visible text that the content filter scans.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// inlineTextSelector covers every element whose text should contribute to
// the indexed body: paragraphs and the common inline wrappers around them,
// the heading levels, and list items. script/style are never matched here
// because goquery's .Text() on an ancestor selector would include them;
// walking these specific tags instead of "*" keeps out every script/style
// that is not nested inside one of them.
const inlineTextSelector = "p, span, a, b, i, strong, em, h1, h2, h3, h4, h5, h6, li"

// Title returns the document's <title> text, trimmed, or "" if absent.
func Title(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// RootLang returns the lang attribute of the document's root <html>
// element, or "" if it declares none. Parsing must use a full-document
// parser (goquery.NewDocumentFromReader, not a fragment parser) for the
// <html> element to be reachable at all.
func RootLang(doc *goquery.Document) string {
	lang, _ := doc.Find("html").First().Attr("lang")
	return lang
}

// VisibleText concatenates the text of every paragraph, inline wrapper,
// heading, and list item in document order, then appends the alt text of
// every image with a non-empty alt attribute. This is what the content
// filter scans for blocked keywords. The indexer does not use it: it
// tokenizes the full text of <body> (see index.Indexer.ParsePage).
func VisibleText(doc *goquery.Document) string {
	var b strings.Builder

	doc.Find(inlineTextSelector).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		b.WriteString(text)
		b.WriteString(" ")
	})

	doc.Find("img[alt]").Each(func(_ int, s *goquery.Selection) {
		alt := strings.TrimSpace(s.AttrOr("alt", ""))
		if alt == "" {
			return
		}
		b.WriteString(alt)
		b.WriteString(" ")
	})

	return strings.TrimSpace(b.String())
}

// Anchor is a single outbound link discovered on a page: its raw href
// attribute (still possibly relative) and the anchor's visible text.
type Anchor struct {
	Href string
	Text string
}

// Anchors returns every <a href> in document order, unresolved. Resolution
// against the page's base URL and normalisation happen in urlnorm, kept
// separate so extraction stays a pure function of the document.
func Anchors(doc *goquery.Document) []Anchor {
	var anchors []Anchor
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		anchors = append(anchors, Anchor{
			Href: href,
			Text: strings.TrimSpace(s.Text()),
		})
	})
	return anchors
}
