package analytics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "analytics.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewEventDefaults(t *testing.T) {
	ev := NewEvent("time_on_page", "Inicio", map[string]string{"value": "42"})
	if ev.Category != DefaultCategory || ev.Label != "Inicio" {
		t.Errorf("category/label = %q/%q", ev.Category, ev.Label)
	}
	if ev.Params["value"] != "42" {
		t.Errorf("params = %v", ev.Params)
	}
}

func TestNewEventPresetsAndOverrides(t *testing.T) {
	ev := NewEvent("phone_click", "Inicio", nil)
	if ev.Category != "contact" || ev.Label != "Phone Number" {
		t.Errorf("phone_click = %q/%q", ev.Category, ev.Label)
	}

	ev = NewEvent("phone_click", "Inicio", map[string]string{"event_category": "custom", "event_label": "Footer"})
	if ev.Category != "custom" || ev.Label != "Footer" {
		t.Errorf("override = %q/%q", ev.Category, ev.Label)
	}
	if _, ok := ev.Params["event_category"]; ok {
		t.Error("event_category should be moved out of params")
	}
}

func TestIsBot(t *testing.T) {
	if !IsBot("Mozilla/5.0 (compatible; Googlebot/2.1)") {
		t.Error("Googlebot should be detected")
	}
	if IsBot("Mozilla/5.0 (Windows NT 10.0; Win64; x64) Firefox/120.0") {
		t.Error("Firefox should not be a bot")
	}
}

func TestStoreSaveAndCount(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"phone_click", "phone_click", "email_click"} {
		if err := s.SaveEvent(NewEvent(name, "", map[string]string{"k": "v"})); err != nil {
			t.Fatalf("SaveEvent: %v", err)
		}
	}

	counts, err := s.CountByName(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("CountByName: %v", err)
	}
	if len(counts) != 2 || counts[0].Name != "phone_click" || counts[0].Count != 2 {
		t.Errorf("counts = %+v", counts)
	}

	recent, err := s.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(recent) != 3 || recent[0].Params["k"] != "v" {
		t.Errorf("recent = %+v", recent)
	}
}

func TestStoreSettings(t *testing.T) {
	s := newTestStore(t)
	if v, err := s.GetSetting("missing"); err != nil || v != "" {
		t.Fatalf("GetSetting(missing) = %q, %v", v, err)
	}
	if err := s.SetSetting("k", "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSetting("k", "b"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.GetSetting("k"); v != "b" {
		t.Errorf("GetSetting(k) = %q, want b", v)
	}
}

func TestStoreCleanup(t *testing.T) {
	s := newTestStore(t)
	old := NewEvent("page_load", "", nil)
	old.Timestamp = time.Now().AddDate(0, 0, -400)
	if err := s.SaveEvent(old); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveEvent(NewEvent("page_load", "", nil)); err != nil {
		t.Fatal(err)
	}
	n, err := s.CleanupOldEvents(365)
	if err != nil || n != 1 {
		t.Errorf("CleanupOldEvents = %d, %v; want 1", n, err)
	}
}

type memRecorder struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (m *memRecorder) SaveEvent(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("boom")
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *memRecorder) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func TestTrackerWritesAndDrains(t *testing.T) {
	rec := &memRecorder{}
	tr := NewTracker(rec, 8)
	tr.Track("category_select", map[string]string{"category": "laboral"})
	tr.Track("page_change", map[string]string{"page": "2"})
	tr.Close()

	if rec.len() != 2 {
		t.Fatalf("recorded %d events, want 2", rec.len())
	}
	if rec.events[0].Category != "listing" {
		t.Errorf("category = %q, want listing", rec.events[0].Category)
	}
	if tr.Enqueue(NewEvent("late", "", nil)) {
		t.Error("Enqueue after Close should drop")
	}
	if tr.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", tr.Dropped())
	}
}

func TestTrackerConcurrentEnqueueAndClose(t *testing.T) {
	rec := &memRecorder{}
	tr := NewTracker(rec, 4)

	var wg sync.WaitGroup
	var accepted atomic.Int64
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if tr.Enqueue(NewEvent("page_load", "", nil)) {
					accepted.Add(1)
				}
			}
		}()
	}
	tr.Close()
	wg.Wait()
	tr.Close()

	if got := accepted.Load() + tr.Dropped(); got != 400 {
		t.Errorf("accepted+dropped = %d, want 400", got)
	}
	if int64(rec.len()) != accepted.Load() {
		t.Errorf("recorded %d events, accepted %d", rec.len(), accepted.Load())
	}
}

func TestTrackerSurvivesRecorderErrors(t *testing.T) {
	tr := NewTracker(&memRecorder{fail: true}, 2)
	tr.Track("page_load", nil)
	tr.Close()
}

func TestRateLimiter(t *testing.T) {
	now := time.Now()
	rl := newRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("a") {
		t.Error("third request should be limited")
	}
	if !rl.allow("b") {
		t.Error("limits are per key")
	}
	now = now.Add(2 * time.Minute)
	if !rl.allow("a") {
		t.Error("window should have expired")
	}
}

func collect(h *Handler, body string, header map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/collect", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	_ = h.Collect(e.NewContext(req, rec))
	return rec
}

func TestCollect(t *testing.T) {
	rec := &memRecorder{}
	tr := NewTracker(rec, 8)
	h := NewHandler(tr)

	res := collect(h, `{"name":"email_click","title":"Contacto","path":"/contacto/"}`, map[string]string{"User-Agent": "Mozilla/5.0 Firefox/120.0"})
	if res.Code != http.StatusNoContent {
		t.Fatalf("status = %d", res.Code)
	}
	if res := collect(h, `{"name":"Bad Name!"}`, nil); res.Code != http.StatusBadRequest {
		t.Errorf("bad name status = %d", res.Code)
	}
	collect(h, `{"name":"page_load"}`, map[string]string{"DNT": "1"})
	collect(h, `{"name":"page_load"}`, map[string]string{"User-Agent": "bingbot/2.0"})

	tr.Close()
	if rec.len() != 1 {
		t.Fatalf("recorded %d events, want 1", rec.len())
	}
	ev := rec.events[0]
	if ev.Path != "/contacto/" || ev.Category != "contact" || ev.VisitorID == "" {
		t.Errorf("event = %+v", ev)
	}
}
