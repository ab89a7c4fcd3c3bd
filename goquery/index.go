package goquery

import (
	"bytes"
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/heritage"
)

// recordPath is the path of register detail pages, compared case-insensitively
// because the register runs on a case-insensitive server.
const recordPath = "/register/listingdetail.asp"

// RecordIDs returns the record IDs linked from an index page, in document
// order and without duplicates. Relative links are resolved against baseURL.
func RecordIDs(body []byte, baseURL string) ([]int, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, heritage.Errorf(heritage.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, heritage.Errorf(heritage.EPARSE, "failed to parse index HTML: %v", err)
	}

	seen := make(map[int]bool)
	var ids []int
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" || isNonHTTPLink(href) {
			return
		}

		id, ok := recordID(base, href)
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	})

	return ids, nil
}

// MaxRecordID returns the largest record ID linked from an index page,
// or 1 when there are none so that a run always has a non-empty range.
func MaxRecordID(body []byte, baseURL string) (int, error) {
	ids, err := RecordIDs(body, baseURL)
	if err != nil {
		return 0, err
	}
	maxID := 1
	for _, id := range ids {
		maxID = max(maxID, id)
	}
	return maxID, nil
}

// recordID extracts the RID query parameter of a detail page link.
func recordID(base *url.URL, href string) (int, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return 0, false
	}
	u := base.ResolveReference(ref)
	if !strings.HasSuffix(strings.ToLower(u.Path), recordPath) {
		return 0, false
	}

	for key, values := range u.Query() {
		if !strings.EqualFold(key, "RID") || len(values) == 0 {
			continue
		}
		id, err := strconv.Atoi(values[0])
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	}
	return 0, false
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// Ensure Discoverer implements heritage.Discoverer at compile time.
var _ heritage.Discoverer = (*Discoverer)(nil)

// Discoverer finds the highest record ID by reading the register's
// recent-registrations index.
type Discoverer struct {
	fetcher  heritage.Fetcher
	indexURL string
}

// NewDiscoverer creates a Discoverer that fetches indexURL with fetcher.
func NewDiscoverer(fetcher heritage.Fetcher, indexURL string) *Discoverer {
	return &Discoverer{fetcher: fetcher, indexURL: indexURL}
}

// DiscoverMaxID fetches the index page and returns the largest linked ID.
// Every failure carries the EDISCOVERY code: without the index there is no
// ID range to iterate.
func (d *Discoverer) DiscoverMaxID(ctx context.Context) (int, error) {
	resp, err := d.fetcher.Fetch(ctx, d.indexURL)
	if err != nil {
		return 0, heritage.WrapError(heritage.EDISCOVERY, err, "fetch index %s", d.indexURL)
	}

	maxID, err := MaxRecordID(resp.Body, resp.URL)
	if err != nil {
		return 0, heritage.WrapError(heritage.EDISCOVERY, err, "read index %s", d.indexURL)
	}
	return maxID, nil
}
