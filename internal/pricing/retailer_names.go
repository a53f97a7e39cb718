package pricing

import (
	"net/url"
	"strings"
	"unicode"
)

var retailerNames = map[string]string{
	"chemistwarehouse.com.au": "Chemist Warehouse",
	"priceline.com.au":        "Priceline",
	"amazon.com.au":           "Amazon AU",
	"ebay.com.au":             "eBay",
	"woolworths.com.au":       "Woolworths",
	"coles.com.au":            "Coles",
	"bigw.com.au":             "Big W",
	"kmart.com.au":            "Kmart",
	"target.com.au":           "Target",
	"pharmacy4less.com.au":    "Pharmacy 4 Less",
	"mydeal.com.au":           "MyDeal",
	"catch.com.au":            "Catch",
}

// RetailerDisplayName resolves a human-readable seller name from a retailer
// URL or domain string. Unknown hosts fall back to the title-cased first DNS
// label.
func RetailerDisplayName(raw string) string {
	lower := strings.ToLower(raw)
	for domain, name := range retailerNames {
		if strings.Contains(lower, domain) {
			return name
		}
	}

	host := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = u.Host
	} else if i := strings.IndexByte(host, '/'); i >= 0 {
		// Bare domain without a scheme.
		host = host[:i]
	}
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return raw
	}
	return titleWord(label)
}

func titleWord(s string) string {
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
