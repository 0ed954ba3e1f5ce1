package scraper

import "testing"

const samplePage = `<html><head>
<script type="application/ld+json">
{"@type":"Product","name":"Galaxy S23","url":"/galaxy-s23",
 "offers":{"price":"KSh 89,999","priceCurrency":"KES",
           "availability":"https://schema.org/InStock",
           "seller":{"name":"Samsung Store"}},
 "aggregateRating":{"ratingValue":4.6,"reviewCount":120}}
</script>
<script type="application/ld+json">not even json</script>
<script type="application/ld+json">
{"@type":"ItemList","itemListElement":[
  {"item":{"@type":"Product","name":"Galaxy S23 FE","offers":{"price":64999}}},
  {"item":{"@type":"Product","name":"No price listed","offers":{}}}
]}
</script>
</head><body></body></html>`

func TestParseStructuredProducts(t *testing.T) {
	products := parseStructuredProducts("jumia", []byte(samplePage))

	// Broken JSON and the price-less item are dropped, not fatal.
	if len(products) != 2 {
		t.Fatalf("parsed %d products, want 2", len(products))
	}

	first := products[0]
	if first.Name != "Galaxy S23" || first.Price != 89999 {
		t.Fatalf("first = %+v", first)
	}
	if first.Seller != "Samsung Store" || first.Availability != "in_stock" {
		t.Fatalf("first seller/availability = %q/%q", first.Seller, first.Availability)
	}
	if first.Rating == nil || *first.Rating != 4.6 {
		t.Fatalf("first rating = %v", first.Rating)
	}

	second := products[1]
	if second.Name != "Galaxy S23 FE" || second.Price != 64999 {
		t.Fatalf("second = %+v", second)
	}
	// Missing fields get boundary defaults.
	if second.Seller != "Unknown" || second.Currency != "KES" {
		t.Fatalf("second defaults = %q/%q", second.Seller, second.Currency)
	}
}

func TestToFloatFormats(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{1234.5, 1234.5, true},
		{"1,234", 1234, true},
		{"KSh 99", 99, true},
		{nil, 0, false},
		{"not a price", 0, false},
	}
	for _, tt := range tests {
		got, ok := toFloat(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("toFloat(%v) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
