package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User holds notification preferences. PriceLimit is the discount threshold
// in percent (0-100); RetailerExclusions are matched case-insensitively as
// substrings against retailer URLs.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u" json:"-"`

	Username                  string   `bun:"username,pk" json:"username"`
	PushoverCode              string   `bun:"pushover_code" json:"pushover_code"`
	PriceLimit                float64  `bun:"price_limit" json:"price_limit"`
	NotificationFrequencyDays int      `bun:"notification_frequency_days" json:"notification_frequency_days"`
	RetailerExclusions        []string `bun:"retailer_exclusions,type:jsonb" json:"retailer_exclusions"`
}

type WatchlistEntry struct {
	bun.BaseModel `bun:"table:watchlists,alias:w" json:"-"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username" json:"username"`
	URL      string `bun:"url" json:"url"`
}

// NotificationState records, per (user, product), the discount that was last
// actually notified. It is written only after a successful dispatch, so the
// hysteresis baseline survives refreshes that do not fire.
type NotificationState struct {
	bun.BaseModel `bun:"table:notification_states,alias:ns" json:"-"`

	ID                          int64     `bun:"id,pk,autoincrement" json:"id"`
	Username                    string    `bun:"username" json:"username"`
	URL                         string    `bun:"url" json:"url"`
	LastNotifiedDiscountPercent float64   `bun:"last_notified_discount_percent" json:"last_notified_discount_percent"`
	NotifiedAt                  time.Time `bun:"notified_at" json:"notified_at"`
}
