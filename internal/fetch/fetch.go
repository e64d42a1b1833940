// Package fetch implements the HTTP client contract the crawler uses to
// pull pages: a stable User-Agent, transparent gzip, a short per-request
// timeout, and a narrow, spec-exact interpretation of 429 responses.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dastarruer/search-engine/internal/crawlerr"
)

const (
	requestTimeout = 15 * time.Second
	maxAttempts    = 10
	maxRetryDelay  = 60 * time.Second
)

// Fetcher retrieves and parses pages over HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// New builds a Fetcher whose User-Agent identifies the crawler by version
// and a contact URL, per convention expected by well-behaved crawl targets.
func New(version, contactURL string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        200,
				MaxIdleConnsPerHost: 50,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
				// DisableCompression left false: net/http transparently
				// requests and decodes gzip when Accept-Encoding is unset.
			},
		},
		userAgent: fmt.Sprintf("crawler/%s (%s)", version, contactURL),
	}
}

// Fetch retrieves pageURL and parses it as a full HTML document. 200
// responses are parsed directly. A 429 response triggers a single sleep,
// computed from its Retry-After header, after which the remaining request
// budget (up to maxAttempts total tries) is spent re-polling without
// sleeping again; any other status is reported as MalformedHttpStatus.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	slept := false

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, crawlerr.New(crawlerr.FailedRequest, pageURL).WithDetail(err.Error())
		}
		req.Header.Set("User-Agent", f.userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, crawlerr.New(crawlerr.FailedRequest, pageURL).WithDetail(err.Error())
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			doc, derr := f.decode(pageURL, resp)
			resp.Body.Close()
			return doc, derr

		case resp.StatusCode == http.StatusTooManyRequests:
			if slept {
				resp.Body.Close()
				continue
			}

			delay, retryErr := retryDelay(pageURL, resp)
			resp.Body.Close()
			if retryErr != nil {
				return nil, retryErr
			}
			time.Sleep(delay)
			slept = true
			continue

		default:
			resp.Body.Close()
			return nil, crawlerr.New(crawlerr.MalformedHttpStatus, pageURL).WithStatus(resp.StatusCode)
		}
	}

	return nil, crawlerr.New(crawlerr.RequestTimeout, pageURL)
}

// retryDelay reads and validates a 429 response's Retry-After header,
// returning the duration the caller should sleep before retrying. A
// missing or unparseable header, or a delay longer than maxRetryDelay,
// is reported as an error instead.
func retryDelay(pageURL string, resp *http.Response) (time.Duration, error) {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0, crawlerr.New(crawlerr.InvalidRetryByHeader, pageURL)
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return 0, crawlerr.New(crawlerr.InvalidRetryByHeader, pageURL).WithDetail(raw)
	}

	delay := time.Duration(seconds) * time.Second
	if delay > maxRetryDelay {
		return 0, crawlerr.New(crawlerr.RequestTimeout, pageURL)
	}

	return delay, nil
}

func (f *Fetcher) decode(pageURL string, resp *http.Response) (*goquery.Document, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, crawlerr.New(crawlerr.FailedRequest, pageURL).WithDetail(err.Error())
	}
	if len(body) == 0 {
		return nil, crawlerr.New(crawlerr.EmptyPage, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, crawlerr.New(crawlerr.HtmlDecoding, pageURL).WithDetail(err.Error())
	}
	return doc, nil
}
