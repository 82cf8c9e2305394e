// Package content loads blog posts from a YAML content file. It is the only
// source of posts for the listing; the site never scrapes its own markup.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/lexsite/listing"
)

// defaultPosts is the content file shipped with the site.
//
//go:embed defaults.yaml
var defaultPosts []byte

type file struct {
	Posts []entry `yaml:"posts"`
}

type entry struct {
	Slug     string `yaml:"slug"`
	Title    string `yaml:"title"`
	Date     string `yaml:"date"`
	Excerpt  string `yaml:"excerpt"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

// Load decodes a content file and returns its posts in file order.
func Load(r io.Reader) ([]listing.Post, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("content: decode: %w", err)
	}
	posts := make([]listing.Post, 0, len(f.Posts))
	seen := make(map[string]int)
	for i, e := range f.Posts {
		p, err := e.post()
		if err != nil {
			return nil, fmt.Errorf("content: post %d: %w", i+1, err)
		}
		if prev, ok := seen[p.Slug]; ok {
			return nil, fmt.Errorf("content: post %d: duplicate slug %q (first used by post %d)", i+1, p.Slug, prev)
		}
		seen[p.Slug] = i + 1
		posts = append(posts, p)
	}
	return posts, nil
}

// LoadFile reads posts from the content file at path.
func LoadFile(path string) ([]listing.Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the posts embedded in the binary.
func Default() ([]listing.Post, error) {
	return Load(bytes.NewReader(defaultPosts))
}

func (e entry) post() (listing.Post, error) {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return listing.Post{}, fmt.Errorf("title is required")
	}
	date := strings.TrimSpace(e.Date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return listing.Post{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", e.Date)
	}
	url := strings.TrimSpace(e.URL)
	slug := strings.TrimSpace(e.Slug)
	if slug == "" {
		slug = strings.TrimSuffix(path.Base(url), path.Ext(url))
	}
	if slug == "" || slug == "." || slug == "/" {
		return listing.Post{}, fmt.Errorf("slug or url is required")
	}
	return listing.Post{
		Slug:     slug,
		Title:    title,
		Date:     date,
		Excerpt:  strings.TrimSpace(e.Excerpt),
		URL:      url,
		Category: strings.TrimSpace(e.Category),
	}, nil
}
