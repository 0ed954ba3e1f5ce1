package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ai-procurement-be/pkg/resilience"
)

// Client is one marketplace adapter.
type Client interface {
	Platform() string
	Search(ctx context.Context, query string) ([]Product, error)
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// httpClient is the shared transport base for platform adapters.
type httpClient struct {
	platform string
	baseURL  string
	client   *http.Client
}

func newHTTPClient(platform, baseURL string, timeout time.Duration) *httpClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpClient{
		platform: platform,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

// fetch performs one GET with rotating headers. Network faults, 429s
// and upstream 5xx responses are marked transient so the retry layer
// knows they are worth another attempt.
func (c *httpClient) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.platform, err)
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Referer", "https://www.google.com/")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, resilience.Transient(fmt.Errorf("%s: %w", c.platform, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, resilience.Transient(fmt.Errorf("%s: upstream status %d", c.platform, resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", c.platform, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, resilience.Transient(fmt.Errorf("%s: read body: %w", c.platform, err))
	}
	return body, nil
}

var ldJSONPattern = regexp.MustCompile(`(?s)<script[^>]+application/ld\+json[^>]*>(.*?)</script>`)

// ldProduct mirrors the subset of schema.org Product/Offer markup the
// marketplaces embed. Everything is optional; malformed blocks are
// skipped, not fatal.
type ldProduct struct {
	Type  string `json:"@type"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Image any    `json:"image"`
	Offers struct {
		Price         any    `json:"price"`
		PriceCurrency string `json:"priceCurrency"`
		Availability  string `json:"availability"`
		Seller        struct {
			Name string `json:"name"`
		} `json:"seller"`
	} `json:"offers"`
	AggregateRating struct {
		RatingValue any `json:"ratingValue"`
		ReviewCount any `json:"reviewCount"`
	} `json:"aggregateRating"`
	ItemListElement []struct {
		Item json.RawMessage `json:"item"`
	} `json:"itemListElement"`
}

// parseStructuredProducts pulls schema.org product entries out of an
// HTML page. One bad block never aborts the batch.
func parseStructuredProducts(platform string, page []byte) []Product {
	var out []Product
	for _, m := range ldJSONPattern.FindAllSubmatch(page, -1) {
		var block ldProduct
		if err := json.Unmarshal(m[1], &block); err != nil {
			continue
		}

		if len(block.ItemListElement) > 0 {
			for _, el := range block.ItemListElement {
				var item ldProduct
				if err := json.Unmarshal(el.Item, &item); err != nil {
					continue
				}
				if p, ok := toProduct(platform, item); ok {
					out = append(out, p)
				}
			}
			continue
		}

		if p, ok := toProduct(platform, block); ok {
			out = append(out, p)
		}
	}
	return out
}

func toProduct(platform string, item ldProduct) (Product, bool) {
	if !strings.EqualFold(item.Type, "Product") || item.Name == "" {
		return Product{}, false
	}
	price, ok := toFloat(item.Offers.Price)
	if !ok {
		return Product{}, false
	}

	p := Product{
		Platform:     platform,
		Name:         item.Name,
		Price:        price,
		Currency:     defaultString(item.Offers.PriceCurrency, "KES"),
		URL:          item.URL,
		Seller:       defaultString(item.Offers.Seller.Name, "Unknown"),
		Availability: normaliseAvailability(item.Offers.Availability),
		ScrapedAt:    time.Now(),
	}
	if img, ok := item.Image.(string); ok {
		p.ImageURL = img
	}
	if rating, ok := toFloat(item.AggregateRating.RatingValue); ok && rating > 0 {
		p.Rating = &rating
	}
	if reviews, ok := toFloat(item.AggregateRating.ReviewCount); ok && reviews > 0 {
		n := int(reviews)
		p.ReviewsCount = &n
	}
	return p, true
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		cleaned := strings.NewReplacer(",", "", "KSh", "", "KES", "", " ", "").Replace(x)
		f, err := strconv.ParseFloat(cleaned, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func normaliseAvailability(s string) string {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "instock"):
		return "in_stock"
	case strings.Contains(s, "outofstock"):
		return "out_of_stock"
	case strings.Contains(s, "limited"):
		return "limited"
	default:
		return "unknown"
	}
}
