package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pep299/review-summarizer/internal/application"
	"github.com/pep299/review-summarizer/internal/config"
)

var (
	Version   string = "dev"
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run summarizes the reviews of one page and prints the summary to stdout
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("review-summarizer", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		pageURL     = flags.String("url", "", "Product page URL to summarize")
		showVersion = flags.Bool("version", false, "Show version information")
	)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Review Summarizer CLI\n\n")
		fmt.Fprintf(stderr, "Usage: review-summarizer -url <product page>\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "Review Summarizer CLI\n")
		fmt.Fprintf(stdout, "Version: %s\n", Version)
		fmt.Fprintf(stdout, "Commit: %s\n", Commit)
		fmt.Fprintf(stdout, "Build Time: %s\n", BuildTime)
		return 0
	}

	if *pageURL == "" {
		flags.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	app, err := application.New(ctx, cfg, Version, log)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize application: %v\n", err)
		return 1
	}

	summary, err := app.Summary.Summarize(ctx, *pageURL)
	if err != nil {
		fmt.Fprintf(stderr, "Summarization failed: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, summary)
	return 0
}
