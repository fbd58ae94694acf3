// Package batch sends a directory of workout captions and links to a RepFeed
// server, remembering what it already sent.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/repfeed/internal/ingest"
	"github.com/claude/repfeed/internal/models"
	"github.com/claude/repfeed/internal/parser"
)

// LinksFile is the per-directory file holding one "URL [caption]" per line.
const LinksFile = "links.txt"

// Stats tracks batch progress.
type Stats struct {
	FilesTotal   int
	FilesSent    int
	FilesSkipped int
	FilesErrored int

	LinksTotal   int
	LinksSent    int
	LinksSkipped int
	LinksErrored int

	ExercisesFound int
}

// Summary is one dry-run parse result, as printed by the CLI.
type Summary struct {
	Item string
	ingest.Result
}

// Uploader walks a directory of .txt files and sends them to the server.
// In dry-run mode nothing is sent: each item is parsed locally instead.
type Uploader struct {
	client  *Client
	state   *StateDB
	root    string
	dryRun  bool
	log     *slog.Logger
	stats   Stats
	preview []Summary
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, root string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		root:   root,
		dryRun: dryRun,
		log:    log,
	}
}

// Previews returns the dry-run summaries collected by Run.
func (u *Uploader) Previews() []Summary {
	return u.preview
}

// Run walks the root directory. Per-item failures are logged and counted;
// only walk and state errors abort the run.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	var textFiles, linkFiles []string
	err := filepath.WalkDir(u.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}
		if strings.EqualFold(d.Name(), LinksFile) {
			linkFiles = append(linkFiles, path)
		} else {
			textFiles = append(textFiles, path)
		}
		return nil
	})
	if err != nil {
		return &u.stats, fmt.Errorf("walking %s: %w", u.root, err)
	}
	sort.Strings(textFiles)
	sort.Strings(linkFiles)

	for _, f := range textFiles {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		if err := u.processTextFile(ctx, f); err != nil {
			return &u.stats, err
		}
	}
	for _, f := range linkFiles {
		if err := u.processLinksFile(ctx, f); err != nil {
			return &u.stats, err
		}
	}
	return &u.stats, nil
}

func (u *Uploader) processTextFile(ctx context.Context, path string) error {
	u.stats.FilesTotal++
	relPath, _ := filepath.Rel(u.root, path)

	hash, err := HashFile(path)
	if err != nil {
		u.log.Warn("hash failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	if !u.dryRun {
		sent, err := u.state.IsSent(relPath, hash)
		if err != nil {
			return fmt.Errorf("checking state for %s: %w", relPath, err)
		}
		if sent {
			u.stats.FilesSkipped++
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		u.log.Warn("read failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		u.stats.FilesSkipped++
		return nil
	}

	if u.dryRun {
		w := parser.ParseText(text, models.SourceCustom)
		u.record(relPath, &w)
		u.stats.FilesSent++
		return nil
	}

	saved, err := u.client.ParseText(ctx, text)
	if err != nil {
		u.log.Warn("send failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	if err := u.state.MarkSent(relPath, hash, saved.ID.String()); err != nil {
		return fmt.Errorf("marking %s sent: %w", relPath, err)
	}
	u.stats.FilesSent++
	u.stats.ExercisesFound += len(saved.Workout.Exercises)
	u.log.Info("sent", "file", relPath, "workout_id", saved.ID, "exercises", len(saved.Workout.Exercises))
	return nil
}

// Link is one entry of a links file.
type Link struct {
	URL     string
	Caption string
}

// ParseLinkLine splits "URL [caption]". Blank lines and # comments yield ok=false.
func ParseLinkLine(line string) (Link, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Link{}, false
	}
	url, caption, _ := strings.Cut(line, " ")
	return Link{URL: url, Caption: strings.TrimSpace(caption)}, true
}

func (u *Uploader) processLinksFile(ctx context.Context, path string) error {
	relPath, _ := filepath.Rel(u.root, path)
	f, err := os.Open(path)
	if err != nil {
		u.log.Warn("open failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		link, ok := ParseLinkLine(sc.Text())
		if !ok {
			continue
		}
		if err := u.processLink(ctx, relPath, link); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		u.log.Warn("reading links failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
	}
	return nil
}

func (u *Uploader) processLink(ctx context.Context, relPath string, link Link) error {
	u.stats.LinksTotal++
	source := ingest.SourceForURL(link.URL)
	key := relPath + "#" + link.URL
	hash := HashString(link.URL + "\n" + link.Caption)

	if source == models.SourceCustom && link.Caption == "" {
		u.log.Warn("unsupported link without caption", "url", link.URL)
		u.stats.LinksErrored++
		return nil
	}

	if u.dryRun {
		w := parser.ParseText(link.Caption, source)
		u.record(link.URL, &w)
		u.stats.LinksSent++
		return nil
	}

	sent, err := u.state.IsSent(key, hash)
	if err != nil {
		return fmt.Errorf("checking state for %s: %w", link.URL, err)
	}
	if sent {
		u.stats.LinksSkipped++
		return nil
	}

	saved, err := u.client.ParseLink(ctx, source, link.URL, link.Caption)
	if err != nil {
		u.log.Warn("send failed", "url", link.URL, "error", err)
		u.stats.LinksErrored++
		return nil
	}
	if err := u.state.MarkSent(key, hash, saved.ID.String()); err != nil {
		return fmt.Errorf("marking %s sent: %w", link.URL, err)
	}
	u.stats.LinksSent++
	u.stats.ExercisesFound += len(saved.Workout.Exercises)
	u.log.Info("sent", "url", link.URL, "source", source, "workout_id", saved.ID)
	return nil
}

func (u *Uploader) record(item string, w *models.ParsedWorkout) {
	u.stats.ExercisesFound += len(w.Exercises)
	u.preview = append(u.preview, Summary{Item: item, Result: ingest.Summarize(w)})
}
