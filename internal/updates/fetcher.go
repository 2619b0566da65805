// Package updates serves official disaster updates scraped from FEMA,
// behind a cache and a circuit breaker so upstream trouble stays contained.
package updates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const femaNewsURL = "https://www.fema.gov/about/news-multimedia/press-releases"

// Update is one official announcement.
type Update struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Date  string `json:"date"`
}

// Fetcher retrieves the current list of official updates.
type Fetcher interface {
	FetchOfficialUpdates(ctx context.Context) ([]Update, error)
}

// FEMAFetcher scrapes the FEMA press-release listing page.
//
// The markup is not an API and changes without notice; the patterns below
// match the listing view as of mid-2025 and an empty result is treated as
// a parse failure rather than "no news".
type FEMAFetcher struct {
	httpClient *http.Client
	url        string
}

func NewFEMAFetcher() *FEMAFetcher {
	return &FEMAFetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		url:        femaNewsURL,
	}
}

var (
	newsRowPattern  = regexp.MustCompile(`(?s)<div class="views-row">(.*?)</div>\s*</div>`)
	newsLinkPattern = regexp.MustCompile(`<a href="([^"]+)"[^>]*>([^<]+)</a>`)
	newsDatePattern = regexp.MustCompile(`<time[^>]*datetime="([^"]+)"`)
)

func (f *FEMAFetcher) FetchOfficialUpdates(ctx context.Context) ([]Update, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build FEMA request: %w", err)
	}
	req.Header.Set("User-Agent", "disaster-response-platform/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch FEMA updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FEMA returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read FEMA response: %w", err)
	}

	updates := parseUpdates(string(body))
	if len(updates) == 0 {
		return nil, fmt.Errorf("no updates found in FEMA page, markup may have changed")
	}
	return updates, nil
}

func parseUpdates(html string) []Update {
	var updates []Update
	for _, row := range newsRowPattern.FindAllStringSubmatch(html, -1) {
		link := newsLinkPattern.FindStringSubmatch(row[1])
		if link == nil {
			continue
		}
		update := Update{
			Title: strings.TrimSpace(link[2]),
			Link:  absoluteLink(strings.TrimSpace(link[1])),
		}
		if date := newsDatePattern.FindStringSubmatch(row[1]); date != nil {
			update.Date = date[1]
		}
		if update.Title != "" {
			updates = append(updates, update)
		}
	}
	return updates
}

func absoluteLink(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return "https://www.fema.gov" + href
}
