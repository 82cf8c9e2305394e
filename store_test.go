package lexsite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/lexsite/contact"
	"github.com/eringen/lexsite/listing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "site.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testPosts() []listing.Post {
	return []listing.Post{
		{Slug: "despido", Title: "Despido injustificado", Date: "2023-10-01", Excerpt: "Qué hacer", URL: "/posts/despido.html", Category: "laboral"},
		{Slug: "herencia", Title: "Herencias", Date: "2023-09-15", Excerpt: "Testamentos", URL: "/posts/herencia.html", Category: "civil"},
		{Slug: "sociedad", Title: "Constituir una sociedad", Date: "2023-09-01", Excerpt: "Pasos", URL: "/posts/sociedad.html", Category: "empresarial"},
		{Slug: "sin-categoria", Title: "Aviso", Date: "2023-08-01", URL: "/posts/aviso.html"},
	}
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
	n, err := s.CountPosts()
	if err != nil {
		t.Fatalf("CountPosts failed: %v", err)
	}
	if n != 0 {
		t.Errorf("new store has %d posts, want 0", n)
	}
}

func TestReplaceAndListPosts(t *testing.T) {
	s := setupTestStore(t)
	want := testPosts()

	if err := s.ReplacePosts(want); err != nil {
		t.Fatalf("ReplacePosts failed: %v", err)
	}
	got, err := s.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d posts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("post %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReplacePostsDropsOldPosts(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplacePosts(testPosts()); err != nil {
		t.Fatalf("ReplacePosts failed: %v", err)
	}
	reordered := []listing.Post{testPosts()[2], testPosts()[0]}
	if err := s.ReplacePosts(reordered); err != nil {
		t.Fatalf("ReplacePosts failed: %v", err)
	}
	got, err := s.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 2 || got[0].Slug != "sociedad" || got[1].Slug != "despido" {
		t.Errorf("posts after replace = %v", got)
	}
}

func TestReplacePostsRollsBackOnDuplicate(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplacePosts(testPosts()); err != nil {
		t.Fatalf("ReplacePosts failed: %v", err)
	}
	dup := []listing.Post{testPosts()[0], testPosts()[0]}
	if err := s.ReplacePosts(dup); err == nil {
		t.Fatal("expected duplicate slug to fail")
	}
	n, err := s.CountPosts()
	if err != nil {
		t.Fatalf("CountPosts failed: %v", err)
	}
	if n != len(testPosts()) {
		t.Errorf("count after failed replace = %d, want %d", n, len(testPosts()))
	}
}

func TestSaveAndListMessages(t *testing.T) {
	s := setupTestStore(t)
	older := contact.Message{ID: "1", Name: "Ana", Email: "ana@example.com", Body: "Necesito asesoría", CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	newer := contact.Message{ID: "2", Name: "Luis", Email: "luis@example.com", Body: "Consulta laboral", CreatedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}

	for _, m := range []contact.Message{older, newer} {
		if err := s.SaveMessage(m); err != nil {
			t.Fatalf("SaveMessage failed: %v", err)
		}
	}
	got, err := s.ListMessages(10)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if got[0].ID != "2" || got[1].ID != "1" {
		t.Errorf("messages not newest first: %v, %v", got[0].ID, got[1].ID)
	}
	if got[1].Body != older.Body || !got[1].CreatedAt.Equal(older.CreatedAt) {
		t.Errorf("message = %+v, want %+v", got[1], older)
	}

	limited, err := s.ListMessages(1)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: got %d", len(limited))
	}
}

func TestPostCache(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplacePosts(testPosts()); err != nil {
		t.Fatalf("ReplacePosts failed: %v", err)
	}
	c := NewPostCache(s, time.Minute)

	r1, err := c.Registry()
	if err != nil {
		t.Fatalf("Registry failed: %v", err)
	}
	r2, _ := c.Registry()
	if r1 != r2 {
		t.Error("expected cached registry to be reused")
	}
	if got := r1.Categories(); len(got) != 3 {
		t.Errorf("categories = %v", got)
	}

	if _, err := c.GetPost("nope"); err != ErrNotFound {
		t.Errorf("GetPost(missing) err = %v, want ErrNotFound", err)
	}

	if err := s.ReplacePosts(testPosts()[:1]); err != nil {
		t.Fatalf("ReplacePosts failed: %v", err)
	}
	if r, _ := c.Registry(); r.Len() != 4 {
		t.Errorf("registry changed before invalidate: %d", r.Len())
	}
	c.Invalidate()
	r3, err := c.Registry()
	if err != nil {
		t.Fatalf("Registry failed: %v", err)
	}
	if r3.Len() != 1 {
		t.Errorf("registry after invalidate has %d posts, want 1", r3.Len())
	}
	if r1.Len() != 4 {
		t.Error("old registry must keep its posts")
	}
}
