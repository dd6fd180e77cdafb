package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/klauern/s3up/internal/ignore"
	"github.com/klauern/s3up/internal/logging"
)

// DefaultWorkers bounds concurrent uploads when no explicit worker count is
// configured.
const DefaultWorkers = 8

// ObjectStore is what the engine needs from the storage layer.
type ObjectStore interface {
	// Bucket returns the destination bucket name, for error context.
	Bucket() string
	// UpToDate reports whether the object at key is at least as new as mtime.
	UpToDate(ctx context.Context, key string, mtime time.Time) (bool, error)
	// Upload streams the file at path to key.
	Upload(ctx context.Context, key, path string) error
}

// Reporter receives per-file events as the engine progresses. Sibling
// branches run concurrently, so implementations must be safe for concurrent
// use. A nil Reporter is valid and reports nothing.
type Reporter interface {
	// Uploading is called when an upload starts.
	Uploading(t Task)
	// Uploaded is called when an upload finishes (or would have, in dry-run).
	Uploaded(t Task)
	// Skipped is called when the remote copy is already up to date.
	Skipped(t Task)
	// Ignored is called when a path matches an ignore pattern.
	Ignored(path string)
}

// Options configures a traversal run. WorkDir must be absolute; keys are
// derived relative to it.
type Options struct {
	WorkDir string
	Prefix  string
	Rules   ignore.RuleSet
	DryRun  bool
	// Workers bounds concurrent freshness checks and uploads. Zero or
	// negative means DefaultWorkers.
	Workers int
}

// Result aggregates what a run did.
type Result struct {
	Uploaded int
	Skipped  int
	Ignored  int
}

// Engine walks input paths and dispatches discovered files through the
// freshness check and upload.
type Engine struct {
	store    ObjectStore
	opts     Options
	reporter Reporter
	sem      *semaphore.Weighted

	uploaded atomic.Int64
	skipped  atomic.Int64
	ignored  atomic.Int64
}

// New creates an Engine for one run.
func New(store ObjectStore, opts Options, reporter Reporter) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Engine{
		store:    store,
		opts:     opts,
		reporter: reporter,
		sem:      semaphore.NewWeighted(int64(workers)),
	}
}

// Run uploads every file reachable from inputs that is not ignored and not
// already up to date remotely. Relative inputs are resolved against the
// configured working directory before anything else happens to them. The
// first error observed anywhere in the tree is returned once all started
// branches have finished; no retries, no cancellation of siblings.
func (e *Engine) Run(ctx context.Context, inputs []string) (Result, error) {
	resolved := make([]string, len(inputs))
	for i, in := range inputs {
		resolved[i] = e.resolve(in)
	}

	err := e.walk(ctx, resolved)

	result := Result{
		Uploaded: int(e.uploaded.Load()),
		Skipped:  int(e.skipped.Load()),
		Ignored:  int(e.ignored.Load()),
	}
	return result, err
}

// resolve makes a path absolute against the configured working directory.
func (e *Engine) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(e.opts.WorkDir, path)
}

// walk dispatches one recursion level. Every sibling gets its own goroutine;
// the errgroup is the per-level join barrier and keeps the first error.
func (e *Engine) walk(ctx context.Context, paths []string) error {
	var g errgroup.Group
	for _, path := range paths {
		g.Go(func() error {
			return e.visit(ctx, path)
		})
	}
	return g.Wait()
}

func (e *Engine) visit(ctx context.Context, path string) error {
	rel := relativeTo(e.opts.WorkDir, path)

	class, info, err := ignore.Classify(path, filepath.Base(path), rel, e.opts.Rules)
	if err != nil {
		return err
	}

	switch class {
	case ignore.Ignored:
		e.ignored.Add(1)
		logging.Info("ignored", logging.Path(rel))
		if e.reporter != nil {
			e.reporter.Ignored(rel)
		}
		return nil

	case ignore.NotFound:
		return fmt.Errorf("no such file or directory: %s", path)

	case ignore.Directory:
		entries, err := os.ReadDir(path)
		if err != nil {
			return fmt.Errorf("list %s: %w", path, err)
		}
		children := make([]string, len(entries))
		for i, entry := range entries {
			children[i] = filepath.Join(path, entry.Name())
		}
		return e.walk(ctx, children)

	case ignore.RegularFile:
		key, err := ObjectKey(path, e.opts.WorkDir, e.opts.Prefix)
		if err != nil {
			return err
		}
		return e.uploadFile(ctx, newTask(path, key, info))

	default:
		return fmt.Errorf("%s: unexpected classification %v", path, class)
	}
}

// uploadFile runs one task: freshness check, then upload unless up to date.
// The semaphore bounds how many tasks are in flight against the bucket.
func (e *Engine) uploadFile(ctx context.Context, t Task) error {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer e.sem.Release(1)

	upToDate, err := e.store.UpToDate(ctx, t.Key, t.ModTime)
	if err != nil {
		return err
	}
	if upToDate {
		e.skipped.Add(1)
		logging.Debug("up to date", logging.Object(t.Key))
		if e.reporter != nil {
			e.reporter.Skipped(t)
		}
		return nil
	}

	if e.reporter != nil {
		e.reporter.Uploading(t)
	}
	if !e.opts.DryRun {
		if err := e.store.Upload(ctx, t.Key, t.Path); err != nil {
			return err
		}
	}
	e.uploaded.Add(1)
	logging.Info("uploaded",
		logging.Path(t.Path), logging.Bucket(e.store.Bucket()), logging.Object(t.Key))
	if e.reporter != nil {
		e.reporter.Uploaded(t)
	}
	return nil
}
