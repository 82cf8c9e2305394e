// Package lexsite serves a law firm's website: a landing page, a paginated
// and category-filtered blog listing, a contact form, analytics beacons,
// RSS and a sitemap.
//
// Page components live in the views package and can be replaced through
// ViewFuncs; lexsite handles the handler logic, middleware and storage.
package lexsite

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/lexsite/analytics"
	"github.com/eringen/lexsite/contact"
	"github.com/eringen/lexsite/content"
	"github.com/eringen/lexsite/listing"
	"github.com/eringen/lexsite/views"
)

// ViewFuncs holds the page components the handlers render.
type ViewFuncs struct {
	Home         func(views.HomePage) templ.Component
	Blog         func(views.BlogPage) templ.Component
	BlogList     func(views.BlogPage) templ.Component
	Contact      func(views.ContactPage) templ.Component
	ContactField func(views.Field) templ.Component
	NotFound     func(views.ErrorPage) templ.Component
	ServerError  func(views.ErrorPage) templ.Component
}

// DefaultViews returns the built-in page components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:         views.Home,
		Blog:         views.Blog,
		BlogList:     views.BlogList,
		Contact:      views.Contact,
		ContactField: views.ContactField,
		NotFound:     views.NotFound,
		ServerError:  views.ServerError,
	}
}

// App wires together the store, cache, handlers, middleware and views.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs

	metrics        *Metrics
	tracker        *analytics.Tracker
	analyticsStore *analytics.Store
	contactLimiter *SubmitLimiter
	contactSvc     *contact.Service
	submitter      contact.Submitter
	customRoutes   []func(*App)
	staticDir      string
	stop           []func()
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     DefaultViews(),
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the stores, seeds posts and registers middleware and routes.
// Start calls it; tests call it directly and drive a.Echo with httptest.
func (a *App) Init() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("lexsite: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("lexsite: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.metrics = NewMetrics()

	if err := a.seedPosts(); err != nil {
		return err
	}

	if a.Config.WatchContent && a.Config.ContentPath != "" {
		ctx, cancel := context.WithCancel(context.Background())
		a.stop = append(a.stop, cancel)
		go func() {
			err := content.Watch(ctx, a.Config.ContentPath, 200*time.Millisecond, a.reloadPosts)
			if err != nil {
				a.Echo.Logger.Errorf("content watch: %v", err)
			}
		}()
	}

	if a.Config.AnalyticsEnabled {
		analyticsStore, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("lexsite: init analytics: %w", err)
		}
		a.analyticsStore = analyticsStore
		if err := analytics.InitSalt(analyticsStore); err != nil {
			return fmt.Errorf("lexsite: init analytics salt: %w", err)
		}
		a.stop = append(a.stop, analyticsStore.StartCleanupScheduler(a.Config.AnalyticsRetentionDays, 24*time.Hour))
		a.tracker = analytics.NewTracker(analyticsStore, 512)
	}

	if a.submitter == nil {
		a.submitter = contact.SimulatedSubmitter{Delay: a.Config.ContactDelay}
	}
	a.contactSvc = contact.NewService(a.submitter, a.Store)
	a.contactLimiter = NewSubmitLimiter(a.Config.ContactRateLimit, time.Hour)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// seedPosts loads ContentPath into the store. Without a content file the
// embedded posts are used, but only when the store is still empty.
func (a *App) seedPosts() error {
	var posts []listing.Post
	var err error
	if a.Config.ContentPath != "" {
		posts, err = content.LoadFile(a.Config.ContentPath)
	} else {
		n, cerr := a.Store.CountPosts()
		if cerr != nil {
			return fmt.Errorf("lexsite: count posts: %w", cerr)
		}
		if n > 0 {
			return nil
		}
		posts, err = content.Default()
	}
	if err != nil {
		return fmt.Errorf("lexsite: load posts: %w", err)
	}
	if err := a.Store.ReplacePosts(posts); err != nil {
		return fmt.Errorf("lexsite: seed posts: %w", err)
	}
	return nil
}

func (a *App) reloadPosts(posts []listing.Post) {
	if err := a.Store.ReplacePosts(posts); err != nil {
		a.Echo.Logger.Errorf("reload posts: %v", err)
		return
	}
	a.Cache.Invalidate()
	a.Echo.Logger.Infof("reloaded %d posts from %s", len(posts), a.Config.ContentPath)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets are served under /public/ ahead of the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/lexsite.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/metrics", a.metrics.Handler())

	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)

	e.GET("/contacto/", a.handleContact)
	e.POST("/contacto/", a.handleContactSubmit)
	e.POST("/contacto/validar/", a.handleContactValidate)

	if a.tracker != nil {
		analytics.NewHandler(a.tracker).RegisterRoutes(e)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	for _, stop := range a.stop {
		stop()
	}
	if a.tracker != nil {
		a.tracker.Close()
	}
	if a.Store != nil {
		a.Store.Close()
	}
	if a.analyticsStore != nil {
		a.analyticsStore.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("lexsite: required environment variable %s is not set", key)
	}
	return v
}
