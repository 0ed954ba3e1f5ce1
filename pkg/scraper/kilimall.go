package scraper

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

const kilimallBaseURL = "https://www.kilimall.co.ke"

// KilimallClient reads product listings from Kilimall Kenya.
type KilimallClient struct {
	http       *httpClient
	maxResults int
}

func NewKilimallClient(baseURL string, timeout time.Duration) *KilimallClient {
	if baseURL == "" {
		baseURL = kilimallBaseURL
	}
	return &KilimallClient{
		http:       newHTTPClient("kilimall", baseURL, timeout),
		maxResults: 10,
	}
}

func (c *KilimallClient) Platform() string { return "kilimall" }

func (c *KilimallClient) Search(ctx context.Context, query string) ([]Product, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s", c.http.baseURL, url.QueryEscape(query))

	page, err := c.http.fetch(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	products := parseStructuredProducts(c.Platform(), page)
	if len(products) > c.maxResults {
		products = products[:c.maxResults]
	}
	return products, nil
}
