package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PaulGreetham/football-insight/internal/app"
	"github.com/PaulGreetham/football-insight/internal/config"
	"github.com/PaulGreetham/football-insight/internal/feed"
	"github.com/PaulGreetham/football-insight/internal/logger"
	"github.com/PaulGreetham/football-insight/internal/present"
	"github.com/jessevdk/go-flags"
)

// Options are the command-line flags. Everything else comes from config.
type Options struct {
	Limit int  `short:"n" long:"limit" description:"Number of articles to request (defaults to feed_limit)"`
	JSON  bool `long:"json" description:"Print the full result as JSON"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "feed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	agg, err := app.NewAggregator(cfg, log)
	if err != nil {
		return err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = cfg.FeedLimit
	}
	res := agg.FetchContent(ctx, limit)

	if opts.JSON {
		return writeJSON(os.Stdout, res)
	}
	return writeList(os.Stdout, res, time.Now())
}

func writeJSON(w io.Writer, res feed.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// writeList prints one block per article: source and age, title, link.
func writeList(w io.Writer, res feed.Result, now time.Time) error {
	if !res.Live() {
		if _, err := fmt.Fprintf(w, "Showing sample stories (%s).\n\n", fallbackNote(res.Reason)); err != nil {
			return err
		}
	}
	for _, a := range res.Articles {
		source := a.Source.Name
		if source == "" {
			source = "Unknown source"
		}
		if _, err := fmt.Fprintf(w, "%s · %s\n%s\n%s\n\n", source, present.FormatRelative(now, a.PublishedAt), a.Title, a.URL); err != nil {
			return err
		}
	}
	return nil
}

func fallbackNote(r feed.Reason) string {
	switch r {
	case feed.ReasonNoAPIKey:
		return "no GNews API key configured"
	case feed.ReasonExhausted:
		return "live news is unavailable right now, pull again later"
	default:
		return string(r)
	}
}
