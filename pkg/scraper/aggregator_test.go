package scraper

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClient struct {
	platform string
	products []Product
	err      error
	calls    int
}

func (f *fakeClient) Platform() string { return f.platform }

func (f *fakeClient) Search(context.Context, string) ([]Product, error) {
	f.calls++
	return f.products, f.err
}

func product(platform, seller string, price float64) Product {
	return Product{
		Platform:  platform,
		Name:      "item",
		Price:     price,
		Currency:  "KES",
		Seller:    seller,
		ScrapedAt: time.Now(),
	}
}

func TestAggregatorMergesAndRanksCheapest(t *testing.T) {
	agg := NewAggregator(nil,
		&fakeClient{platform: "jumia", products: []Product{product("jumia", "A", 300), product("jumia", "B", 100)}},
		&fakeClient{platform: "kilimall", products: []Product{product("kilimall", "C", 200)}},
	)

	res, err := agg.Search(context.Background(), "phone", PreferCheapest, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalResults != 3 {
		t.Fatalf("total = %d, want 3", res.TotalResults)
	}
	if res.BestOption == nil || res.BestOption.Price != 100 {
		t.Fatalf("best option = %+v, want the 100 KES offer", res.BestOption)
	}
	if res.PlatformStats["jumia"].Count != 2 {
		t.Fatalf("jumia stat = %+v", res.PlatformStats["jumia"])
	}
}

func TestAggregatorPlatformFailureIsNotFatal(t *testing.T) {
	agg := NewAggregator(nil,
		&fakeClient{platform: "jumia", err: errors.New("blocked")},
		&fakeClient{platform: "kilimall", products: []Product{product("kilimall", "C", 50)}},
	)

	res, err := agg.Search(context.Background(), "phone", PreferCheapest, []string{"jumia", "kilimall"})
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalResults != 1 {
		t.Fatalf("total = %d, want 1", res.TotalResults)
	}
	if res.PlatformStats["jumia"].Error == "" {
		t.Fatal("jumia failure not recorded in stats")
	}
}

func TestAggregatorUnknownPlatformsOnly(t *testing.T) {
	agg := NewAggregator(nil, &fakeClient{platform: "jumia"})

	if _, err := agg.Search(context.Background(), "phone", PreferCheapest, []string{"amazon"}); err == nil {
		t.Fatal("want error when no requested platform is known")
	}
}

func TestAggregatorUsesCache(t *testing.T) {
	client := &fakeClient{platform: "jumia", products: []Product{product("jumia", "A", 10)}}
	agg := NewAggregator(NewMemoryCache(time.Minute), client)

	ctx := context.Background()
	if _, err := agg.Search(ctx, "phone", PreferCheapest, nil); err != nil {
		t.Fatal(err)
	}
	res, err := agg.Search(ctx, "phone", PreferCheapest, nil)
	if err != nil {
		t.Fatal(err)
	}

	if client.calls != 1 {
		t.Fatalf("client hit %d times, want 1 (second search served from cache)", client.calls)
	}
	if !res.PlatformStats["jumia"].FromCache {
		t.Fatal("stat should mark the cache hit")
	}
}

func TestRankByRatingAndDiscount(t *testing.T) {
	fp := func(v float64) *float64 { return &v }

	rated := []Product{
		{Platform: "a", Seller: "low", Price: 100, Rating: fp(3.0)},
		{Platform: "b", Seller: "high", Price: 150, Rating: fp(4.5)},
	}
	rankResults(rated, PreferBestRated)
	if rated[0].Seller != "high" {
		t.Fatalf("best rated first = %s, want high", rated[0].Seller)
	}

	discounted := []Product{
		{Platform: "a", Seller: "full", Price: 100},
		{Platform: "b", Seller: "deal", Price: 100, OriginalPrice: fp(200)},
	}
	rankResults(discounted, PreferDiscount)
	if discounted[0].Seller != "deal" {
		t.Fatalf("biggest discount first = %s, want deal", discounted[0].Seller)
	}
}
