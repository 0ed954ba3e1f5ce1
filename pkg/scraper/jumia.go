package scraper

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

const jumiaBaseURL = "https://www.jumia.co.ke"

// JumiaClient reads product listings from Jumia Kenya's catalog search.
type JumiaClient struct {
	http       *httpClient
	maxResults int
}

func NewJumiaClient(baseURL string, timeout time.Duration) *JumiaClient {
	if baseURL == "" {
		baseURL = jumiaBaseURL
	}
	return &JumiaClient{
		http:       newHTTPClient("jumia", baseURL, timeout),
		maxResults: 10,
	}
}

func (c *JumiaClient) Platform() string { return "jumia" }

func (c *JumiaClient) Search(ctx context.Context, query string) ([]Product, error) {
	searchURL := fmt.Sprintf("%s/catalog/?q=%s", c.http.baseURL, url.QueryEscape(query))

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
