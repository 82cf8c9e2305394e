package lexsite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCachePolicy(t *testing.T) {
	tests := []struct {
		path    string
		session bool
		want    string
	}{
		{"/public/site.css", true, "public, max-age=31536000, immutable"},
		{"/feed.xml", false, "public, max-age=86400"},
		{"/sitemap.xml", true, "public, max-age=86400"},
		{"/contacto/", false, "no-store"},
		{"/contacto/validar/", true, "no-store"},
		{"/metrics", false, "no-store"},
		{"/blog/", false, "public, max-age=300"},
		{"/blog/", true, "private, no-cache"},
		{"/", true, "private, no-cache"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cachePolicy(tt.path, tt.session), "%s session=%v", tt.path, tt.session)
	}
}

func TestSecurityHeaders(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, contentSecurityPolicy, rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
}
