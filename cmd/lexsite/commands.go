package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/lexsite"
	"github.com/eringen/lexsite/analytics"
	"github.com/eringen/lexsite/content"
	"github.com/eringen/lexsite/listing"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "lexsite",
		Short: "Law firm website with blog listing, contact form and analytics",
		Long: `lexsite serves the firm's landing page, a category-filtered and
paginated blog, a contact form, RSS and a sitemap.

Configuration comes from an optional YAML file (--config) and LEXSITE_*
environment variables, for example LEXSITE_SESSION_SECRET or LEXSITE_ADDR.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML)")

	load := func() (lexsite.SiteConfig, error) {
		return lexsite.LoadConfig(cfgFile)
	}

	root.AddCommand(
		newServeCmd(load),
		newSeedCmd(load),
		newEventsCmd(load),
		newMessagesCmd(load),
		newVersionCmd(),
	)
	return root
}

type configLoader func() (lexsite.SiteConfig, error)

func newServeCmd(load configLoader) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			app := lexsite.New(cfg)
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- app.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.Echo.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func newSeedCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file]",
		Short: "Replace the stored posts with a YAML file, or the built-in posts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			var posts []listing.Post
			if len(args) == 1 {
				posts, err = content.LoadFile(args[0])
			} else {
				posts, err = content.Default()
			}
			if err != nil {
				return err
			}
			store, err := lexsite.NewStore(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.ReplacePosts(posts); err != nil {
				return err
			}
			cats := listing.NewRegistry(posts).Categories()
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d posts in %d categories into %s\n", len(posts), len(cats), cfg.DatabasePath)
			return nil
		},
	}
}

func newEventsCmd(load configLoader) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show analytics event counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := analytics.NewStore(cfg.AnalyticsDatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			to := time.Now()
			counts, err := store.CountByName(to.AddDate(0, 0, -days), to.Add(time.Second))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "EVENT\tCATEGORY\tCOUNT")
			for _, c := range counts {
				fmt.Fprintf(w, "%s\t%s\t%d\n", c.Name, c.Category, c.Count)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "look back this many days")
	return cmd
}

func newMessagesCmd(load configLoader) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List received contact messages, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := lexsite.NewStore(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			msgs, err := store.ListMessages(limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tNAME\tEMAIL\tMESSAGE")
			for _, m := range msgs {
				body := m.Body
				if r := []rune(body); len(r) > 60 {
					body = string(r[:57]) + "..."
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.Name, m.Email, body)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of messages to show")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lexsite version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lexsite %s\n", version)
		},
	}
}
