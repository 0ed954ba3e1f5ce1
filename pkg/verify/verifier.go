// Package verify is the seller verification tool boundary. With a
// registry API key configured it defers to the registry; without one it
// falls back to name heuristics plus a blacklist, the same checks a
// human auditor would start with.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-procurement-be/pkg/resilience"
)

// Result is the typed verification outcome. RiskLevel is one of
// low/medium/high.
type Result struct {
	SellerName     string   `json:"seller_name"`
	Platform       string   `json:"platform"`
	IsVerified     bool     `json:"is_verified"`
	IsSafe         bool     `json:"is_safe"`
	IsBlacklisted  bool     `json:"is_blacklisted"`
	RiskLevel      string   `json:"risk_level"`
	Flags          []string `json:"flags,omitempty"`
	Recommendation string   `json:"recommendation"`
}

// Verifier checks one seller at a time.
type Verifier interface {
	VerifySeller(ctx context.Context, sellerName, platform string) (*Result, error)
}

var defaultBlacklist = []string{
	"quick imports",
	"global traders kenya",
	"cheap electronics nairobi",
}

var suspiciousTokens = []string{"international", "global", "trading", "imports", "wholesale"}

// Client implements Verifier against the business registry with a
// heuristic fallback.
type Client struct {
	apiKey    string
	baseURL   string
	http      *http.Client
	blacklist []string
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		blacklist: defaultBlacklist,
	}
}

func (c *Client) VerifySeller(ctx context.Context, sellerName, platform string) (*Result, error) {
	blacklisted := c.isBlacklisted(sellerName)

	var verified bool
	var flags []string
	var risk string

	if c.apiKey != "" && c.baseURL != "" {
		registered, err := c.queryRegistry(ctx, sellerName)
		if err != nil {
			return nil, err
		}
		verified = registered
		risk = "low"
		if !registered {
			risk = "medium"
			flags = append(flags, "not_registered")
		}
	} else {
		flags, risk = heuristicCheck(sellerName)
	}

	safe := !blacklisted && risk != "high"
	recommendation := "approve"
	switch {
	case blacklisted:
		recommendation = "reject"
	case !safe || !verified:
		recommendation = "review"
	}

	return &Result{
		SellerName:     sellerName,
		Platform:       platform,
		IsVerified:     verified,
		IsSafe:         safe,
		IsBlacklisted:  blacklisted,
		RiskLevel:      risk,
		Flags:          flags,
		Recommendation: recommendation,
	}, nil
}

func (c *Client) isBlacklisted(sellerName string) bool {
	name := strings.ToLower(sellerName)
	for _, bad := range c.blacklist {
		if strings.Contains(name, bad) {
			return true
		}
	}
	return false
}

func (c *Client) queryRegistry(ctx context.Context, sellerName string) (bool, error) {
	endpoint := fmt.Sprintf("%s/v1/business/search?name=%s", c.baseURL, url.QueryEscape(sellerName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, resilience.Transient(fmt.Errorf("registry: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return false, resilience.Transient(fmt.Errorf("registry: status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("registry: status %d", resp.StatusCode)
	}

	var body struct {
		Registered bool `json:"registered"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("registry: decode: %w", err)
	}
	return body.Registered, nil
}

// heuristicCheck flags generic trading names and unincorporated
// sellers. One flag is medium risk, more is high.
func heuristicCheck(sellerName string) ([]string, string) {
	name := strings.ToLower(sellerName)

	var flags []string
	for _, token := range suspiciousTokens {
		if strings.Contains(name, token) {
			flags = append(flags, "generic_name")
			break
		}
	}
	if !strings.Contains(name, "ltd") && !strings.Contains(name, "limited") {
		flags = append(flags, "not_limited")
	}

	switch len(flags) {
	case 0:
		return flags, "low"
	case 1:
		return flags, "medium"
	default:
		return flags, "high"
	}
}
