package watcher

// Inbox watches a directory for spreadsheets and imports each one once its
// writes have settled. Imported files move to processed/, rejected ones to
// failed/.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/artur-t-96/MINDY/internal/importer"
	"github.com/artur-t-96/MINDY/internal/parser"
)

const (
	// defaultSettle is how long a file must stay untouched before import.
	defaultSettle = 500 * time.Millisecond

	processedDir = "processed"
	failedDir    = "failed"
)

var suffixes = []string{".xlsx", ".xlsm", ".xls"}

// Importer runs one import.
type Importer interface {
	Import(ctx context.Context, opts importer.ImportOptions) (*importer.Report, error)
}

// Result is the outcome of one inbox file.
type Result struct {
	File   string
	Report *importer.Report
	Err    error
}

// Inbox imports spreadsheets dropped into a directory.
type Inbox struct {
	dir      string
	panel    parser.Panel
	strategy string
	importer Importer
	logger   *log.Logger
	settle   time.Duration

	// OnResult, when set, is called after each file.
	OnResult func(Result)
}

// NewInbox creates an inbox watcher over dir, creating dir when missing.
func NewInbox(dir string, panel parser.Panel, strategy string, imp Importer, logger *log.Logger) (*Inbox, error) {
	dir = filepath.Clean(dir)
	for _, d := range []string{dir, filepath.Join(dir, processedDir), filepath.Join(dir, failedDir)} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, fmt.Errorf("failed to create inbox dir %q: %w", d, err)
		}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Inbox{
		dir:      dir,
		panel:    panel,
		strategy: strategy,
		importer: imp,
		logger:   logger.WithPrefix("inbox"),
		settle:   defaultSettle,
	}, nil
}

func wanted(name string) bool {
	base := filepath.Base(name)
	if base == "" || base[0] == '.' || strings.HasPrefix(base, "~$") {
		return false
	}
	lower := strings.ToLower(base)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// Scan imports every spreadsheet already in the inbox, in name order.
func (in *Inbox) Scan(ctx context.Context) error {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		return fmt.Errorf("failed to read inbox: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && wanted(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		in.process(ctx, filepath.Join(in.dir, name))
	}
	return nil
}

// Watch scans the inbox, then imports new files until ctx is cancelled.
func (in *Inbox) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify new watcher error: %w", err)
	}
	defer w.Close()
	if err := w.Add(in.dir); err != nil {
		return fmt.Errorf("fsnotify add error for dir %q: %w", in.dir, err)
	}

	if err := in.Scan(ctx); err != nil {
		return err
	}
	in.logger.Info("watching", "dir", in.dir, "panel", in.panel)

	touched := make(chan string)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err, ok := <-w.Errors:
				if !ok {
					return errors.New("unexpected close from watcher.Errors")
				}
				return fmt.Errorf("unexpected notify error: %w", err)
			case e, ok := <-w.Events:
				if !ok {
					return errors.New("unexpected close from watcher.Events")
				}
				if !e.Has(fsnotify.Create) && !e.Has(fsnotify.Write) {
					continue
				}
				if filepath.Dir(e.Name) != in.dir || !wanted(e.Name) {
					continue
				}
				select {
				case touched <- e.Name:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})

	// files are imported once they have been quiet for the settle period
	g.Go(func() error {
		pending := make(map[string]time.Time)
		ticker := time.NewTicker(in.settle / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case name := <-touched:
				pending[name] = time.Now()
			case now := <-ticker.C:
				var ready []string
				for name, at := range pending {
					if now.Sub(at) >= in.settle {
						ready = append(ready, name)
					}
				}
				sort.Strings(ready)
				for _, name := range ready {
					delete(pending, name)
					in.process(ctx, name)
				}
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// process imports one file and moves it out of the inbox.
func (in *Inbox) process(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		// already moved or deleted
		return
	}
	name := filepath.Base(path)
	report, err := in.importer.Import(ctx, importer.ImportOptions{
		Sources:  []parser.Source{{Path: path, Name: name}},
		Panel:    in.panel,
		Strategy: in.strategy,
	})

	target := processedDir
	if err != nil {
		target = failedDir
		in.logger.Error("import failed", "file", name, "err", err)
	} else {
		in.logger.Info("imported", "file", name, "records", report.Imported, "periods", strings.Join(report.Periods, ","))
	}
	dest := filepath.Join(in.dir, target, time.Now().Format("20060102-150405")+"-"+name)
	if mvErr := os.Rename(path, dest); mvErr != nil {
		in.logger.Warn("failed to move file", "file", name, "err", mvErr)
	}

	if in.OnResult != nil {
		in.OnResult(Result{File: name, Report: report, Err: err})
	}
}
