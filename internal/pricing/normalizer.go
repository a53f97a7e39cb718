package pricing

import (
	"time"

	json "github.com/goccy/go-json"

	"pricewatch/internal/models"
)

// UnknownRetailer is the bucket for list entries that carry no retailer key.
const UnknownRetailer = "unknown"

// Normalize converts a raw price-history payload into canonical records
// grouped by retailer identifier. Three payload shapes are understood:
//
//  1. a mapping of retailer -> entry list,
//  2. a list of retailer objects, each with a nested entry list ("prices" or
//     "price_history") or a single inline price,
//  3. a single object with an inline price.
//
// Entries with a missing or unparseable timestamp, or a price <= 0, are
// dropped. Normalize never fails: anything unrecognizable degrades to an
// empty result, which upstream treats as "no price data".
func Normalize(raw []byte) map[string][]models.PriceRecord {
	out := make(map[string][]models.PriceRecord)
	if len(raw) == 0 {
		return out
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return out
	}

	switch v := doc.(type) {
	case map[string]any:
		grouped := false
		for retailer, val := range v {
			if entries, ok := val.([]any); ok {
				collectEntries(out, retailer, entries)
				grouped = true
			}
		}
		if !grouped {
			// Single inline object.
			if _, ok := entryPrice(v); ok {
				collectEntries(out, retailerKey(v), []any{v})
			}
		}
	case []any:
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			key := retailerKey(obj)
			if entries, ok := nestedEntries(obj); ok {
				collectEntries(out, key, entries)
			} else if _, ok := entryPrice(obj); ok {
				collectEntries(out, key, []any{obj})
			}
		}
	}
	return out
}

func collectEntries(out map[string][]models.PriceRecord, retailer string, entries []any) {
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		rec, ok := parseEntry(retailer, obj)
		if !ok {
			continue
		}
		out[retailer] = append(out[retailer], rec)
	}
}

func parseEntry(retailer string, obj map[string]any) (models.PriceRecord, bool) {
	ts, ok := entryTimestamp(obj)
	if !ok {
		return models.PriceRecord{}, false
	}
	price, ok := entryPrice(obj)
	if !ok || price <= 0 {
		return models.PriceRecord{}, false
	}
	return models.PriceRecord{
		Retailer:   retailer,
		Price:      price,
		ObservedAt: ts,
	}, true
}

func entryPrice(obj map[string]any) (float64, bool) {
	for _, key := range []string{"base_price", "price"} {
		if v, ok := obj[key].(float64); ok {
			return v, true
		}
	}
	return 0, false
}

func entryTimestamp(obj map[string]any) (time.Time, bool) {
	for _, key := range []string{"created_at", "timestamp"} {
		s, ok := obj[key].(string)
		if !ok || s == "" {
			continue
		}
		// RFC 3339 covers both wire formats: "Z"-suffixed with and
		// without fractional seconds.
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			continue
		}
		return t.UTC(), true
	}
	return time.Time{}, false
}

func retailerKey(obj map[string]any) string {
	for _, key := range []string{"url", "retailer"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return UnknownRetailer
}

func nestedEntries(obj map[string]any) ([]any, bool) {
	for _, key := range []string{"prices", "price_history"} {
		if entries, ok := obj[key].([]any); ok && len(entries) > 0 {
			return entries, true
		}
	}
	return nil, false
}
