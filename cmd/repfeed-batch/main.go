package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/claude/repfeed/internal/batch"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "RepFeed server URL (e.g. https://repfeed.tail1234.ts.net)")
	dir := flag.String("path", "", "directory of .txt captions/descriptions and links.txt files")
	apiKey := flag.String("api-key", os.Getenv("REPFEED_AUTH_API_KEY"), "server API key (default $REPFEED_AUTH_API_KEY)")
	dryRun := flag.Bool("dry-run", false, "parse locally and print summaries, don't send to server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("repfeed-batch", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dir == "" {
		fmt.Fprintf(os.Stderr, "Usage: repfeed-batch -server <URL> -path <dir> [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *serverURL == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
		os.Exit(1)
	}

	info, err := os.Stat(*dir)
	if err != nil || !info.IsDir() {
		log.Error("directory not found", "path", *dir)
		os.Exit(1)
	}

	var (
		client *batch.Client
		state  *batch.StateDB
	)
	if *dryRun {
		log.Info("DRY RUN mode, nothing will be sent")
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		state, err = batch.OpenStateDB(filepath.Join(homeDir, ".repfeed-batch"))
		if err != nil {
			log.Error("failed to open state database", "error", err)
			os.Exit(1)
		}
		defer state.Close()
		client = batch.NewClient(strings.TrimRight(*serverURL, "/"), *apiKey)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	uploader := batch.New(client, state, *dir, *dryRun, log)
	stats, err := uploader.Run(ctx)
	if *dryRun {
		printPreviews(uploader.Previews())
	}
	printStats(stats)
	if err != nil {
		log.Error("batch failed", "error", err)
		os.Exit(1)
	}
	log.Info("batch complete")
}

func printPreviews(previews []batch.Summary) {
	fmt.Println()
	fmt.Println("=== Parsed ===")
	for _, p := range previews {
		fmt.Printf("  %s\n    %s: %s\n", p.Item, p.Title, p.Summary)
	}
}

func printStats(stats *batch.Stats) {
	fmt.Println()
	fmt.Println("=== Batch Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files sent:       %d\n", stats.FilesSent)
	fmt.Printf("  Files skipped:    %d (already sent or empty)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Links total:      %d\n", stats.LinksTotal)
	fmt.Printf("  Links sent:       %d\n", stats.LinksSent)
	fmt.Printf("  Links skipped:    %d (already sent)\n", stats.LinksSkipped)
	fmt.Printf("  Links errored:    %d\n", stats.LinksErrored)
	fmt.Println()
	fmt.Printf("  Exercises found:  %d\n", stats.ExercisesFound)
	fmt.Println()
}
