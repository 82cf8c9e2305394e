package lexsite

import "embed"

// EmbeddedAssets contains static assets shipped with the site:
// lexsite.js and site.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
