// Package analytics records named site events (page loads, clicks, form
// submissions, listing navigation) in a local SQLite database. Nothing is
// forwarded to a third-party provider.
package analytics

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
)

// salt holds the per-installation random salt for IP hashing, protected by sync.Once.
var salt struct {
	once  sync.Once
	value string
}

// InitSalt loads or generates a persistent salt for IP hashing.
// Must be called once at startup before any requests are served.
func InitSalt(store *Store) error {
	var initErr error
	salt.once.Do(func() {
		s, err := store.GetSetting("hash_salt")
		if err != nil {
			initErr = fmt.Errorf("read hash salt: %w", err)
			return
		}
		if s == "" {
			b := make([]byte, 32)
			if _, err := rand.Read(b); err != nil {
				initErr = fmt.Errorf("generate salt: %w", err)
				return
			}
			s = hex.EncodeToString(b)
			if err := store.SetSetting("hash_salt", s); err != nil {
				initErr = fmt.Errorf("store hash salt: %w", err)
				return
			}
		}
		salt.value = s
	})
	return initErr
}

// Event is one named occurrence with free-form string parameters.
type Event struct {
	ID        int64
	Name      string
	Category  string
	Label     string
	Path      string
	VisitorID string
	Params    map[string]string
	Timestamp time.Time
}

// DefaultCategory is applied to events that do not name a category.
const DefaultCategory = "engagement"

// preset fills in category and label for well-known events.
type preset struct {
	category string
	label    string
}

var presets = map[string]preset{
	"contact_form_submit": {"lead_generation", "Contact Form"},
	"phone_click":         {"contact", "Phone Number"},
	"email_click":         {"contact", "Email Address"},
	"category_select":     {"listing", ""},
	"page_change":         {"listing", ""},
	"time_on_page":        {"engagement", ""},
	"page_load":           {"performance", ""},
}

// NewEvent builds an event, moving event_category and event_label out of
// params and filling defaults: a preset for known names, otherwise
// DefaultCategory, and label falling back to the page title.
func NewEvent(name, title string, params map[string]string) Event {
	ev := Event{
		Name:      name,
		Params:    make(map[string]string, len(params)),
		Timestamp: time.Now().UTC(),
	}
	for k, v := range params {
		ev.Params[k] = v
	}
	if p, ok := presets[name]; ok {
		ev.Category, ev.Label = p.category, p.label
	}
	if v := ev.Params["event_category"]; v != "" {
		ev.Category = v
	}
	if v := ev.Params["event_label"]; v != "" {
		ev.Label = v
	}
	delete(ev.Params, "event_category")
	delete(ev.Params, "event_label")
	if ev.Category == "" {
		ev.Category = DefaultCategory
	}
	if ev.Label == "" {
		ev.Label = title
	}
	return ev
}

// EventCount is the number of events recorded under one name.
type EventCount struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// HashIP creates a salted SHA-256 hash of an IP address.
func HashIP(ip string) string {
	h := sha256.New()
	h.Write([]byte(salt.value + ip))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// VisitorID derives an anonymous, salted visitor ID from IP and User-Agent.
func VisitorID(ip, userAgent string) string {
	h := sha256.New()
	h.Write([]byte(salt.value + ip + "|" + userAgent))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

var botMarkers = []string{
	"bot", "crawler", "spider", "crawl", "slurp", "scrape",
	"yandex", "baidu", "facebookexternalhit", "headless",
}

// IsBot checks if the User-Agent is likely a bot/crawler.
func IsBot(ua string) bool {
	ua = strings.ToLower(ua)
	for _, m := range botMarkers {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}
