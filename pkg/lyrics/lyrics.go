package lyrics

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Result represents the outcome of a lyrics search.
type Result struct {
	Title  string
	Artist string
	Lyrics string
	URL    string
	Source string
	Found  bool
	Error  error
}

// Client looks up lyrics by title and artist. Lookups are rate limited
// and retried; results are cached in memory for a while so repeated
// !lyrics calls for the same track don't hammer the source site.
type Client struct {
	http    *retryablehttp.Client
	limiter *rate.Limiter

	mu       sync.Mutex
	cache    map[string]cachedResult
	cacheTTL time.Duration
}

type cachedResult struct {
	result  *Result
	expires time.Time
}

// NewClient creates a lyrics client.
func NewClient() *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.RetryWaitMin = 500 * time.Millisecond
	httpClient.RetryWaitMax = 5 * time.Second
	httpClient.HTTPClient.Timeout = 10 * time.Second
	httpClient.Logger = nil

	return &Client{
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Every(2*time.Second), 3),
		cache:    make(map[string]cachedResult),
		cacheTTL: 30 * time.Minute,
	}
}

// Search looks up lyrics for a title/artist pair. It never returns nil.
func (c *Client) Search(ctx context.Context, title, artist string) *Result {
	query := strings.TrimSpace(strings.TrimSpace(title) + " " + strings.TrimSpace(artist))
	if query == "" {
		return &Result{Found: false, Error: fmt.Errorf("empty search query")}
	}

	cacheKey := strings.ToLower(query)
	if cached := c.lookupCache(cacheKey); cached != nil {
		return cached
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &Result{Found: false, Error: err}
	}

	result := c.searchAnimeLyrics(ctx, query)
	c.storeCache(cacheKey, result)
	return result
}

// ClearCache drops every cached lookup.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cachedResult)
}

func (c *Client) lookupCache(key string) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	if !ok || time.Now().After(entry.expires) {
		return nil
	}
	return entry.result
}

func (c *Client) storeCache(key string, result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cachedResult{result: result, expires: time.Now().Add(c.cacheTTL)}
}

// searchAnimeLyrics searches AnimeLyrics.com and fetches the first hit.
func (c *Client) searchAnimeLyrics(ctx context.Context, query string) *Result {
	searchURL := fmt.Sprintf("https://www.animelyrics.com/search.php?search=%s", url.QueryEscape(query))

	doc, err := c.fetchDocument(ctx, searchURL)
	if err != nil {
		return &Result{Found: false, Error: fmt.Errorf("failed to fetch search results: %w", err)}
	}

	var firstResultURL string
	doc.Find("a[href*='anime/']").Each(func(i int, s *goquery.Selection) {
		if firstResultURL == "" {
			if href, exists := s.Attr("href"); exists {
				firstResultURL = href
			}
		}
	})

	if firstResultURL == "" {
		return &Result{Found: false, Error: fmt.Errorf("no lyrics found for: %s", query)}
	}
	if !strings.HasPrefix(firstResultURL, "http") {
		firstResultURL = "https://www.animelyrics.com/" + strings.TrimPrefix(firstResultURL, "/")
	}

	return c.fetchLyricsPage(ctx, firstResultURL)
}

// fetchLyricsPage fetches and parses a specific lyrics page.
func (c *Client) fetchLyricsPage(ctx context.Context, pageURL string) *Result {
	doc, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		return &Result{Found: false, Error: fmt.Errorf("failed to fetch lyrics page: %w", err)}
	}

	title := ""
	doc.Find("h1, h2, h3").Each(func(i int, s *goquery.Selection) {
		if title == "" {
			title = strings.TrimSpace(s.Text())
		}
	})

	artist := ""
	doc.Find("p, div").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if artist == "" && strings.Contains(text, "Artist:") {
			parts := strings.SplitN(text, ":", 2)
			if len(parts) == 2 {
				artist = strings.TrimSpace(parts[1])
			}
		}
	})

	lyrics := ""
	doc.Find("div.lyrics, div#lyrics, pre, .lyrics-content").Each(func(i int, s *goquery.Selection) {
		if lyrics == "" {
			lyrics = strings.TrimSpace(s.Text())
		}
	})

	lyrics = CleanLyrics(lyrics)
	if lyrics == "" {
		return &Result{Found: false, Error: fmt.Errorf("no lyrics content found on the page")}
	}

	return &Result{
		Title:  title,
		Artist: artist,
		Lyrics: lyrics,
		URL:    pageURL,
		Source: "AnimeLyrics.com",
		Found:  true,
	}
}

func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

var whitespaceRe = regexp.MustCompile(`[ \t]*\n[ \t\n]*`)

// CleanLyrics collapses whitespace, strips HTML entity leftovers, and
// truncates to something an embed can hold.
func CleanLyrics(lyrics string) string {
	if lyrics == "" {
		return ""
	}

	lyrics = whitespaceRe.ReplaceAllString(lyrics, "\n")
	lyrics = strings.ReplaceAll(lyrics, "&nbsp;", " ")
	lyrics = strings.ReplaceAll(lyrics, "&amp;", "&")
	lyrics = strings.ReplaceAll(lyrics, "&lt;", "<")
	lyrics = strings.ReplaceAll(lyrics, "&gt;", ">")
	lyrics = strings.TrimSpace(lyrics)

	// Discord embed descriptions cap out well above this, but keep room
	// for the header fields. Back up to a rune boundary so a multi-byte
	// character is never cut in half.
	if len(lyrics) > 2000 {
		cut := 1997
		for cut > 0 && !utf8.RuneStart(lyrics[cut]) {
			cut--
		}
		lyrics = lyrics[:cut] + "..."
	}
	return lyrics
}
