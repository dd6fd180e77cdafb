package cli

import (
	"fmt"
	"io"
	stdsync "sync"

	"github.com/klauern/s3up/internal/config"
	"github.com/klauern/s3up/internal/progress"
	"github.com/klauern/s3up/internal/sync"
	"github.com/klauern/s3up/internal/ui"
)

// consoleReporter prints per-file progress. The engine calls it from
// concurrent branches, so output is serialized with a mutex.
type consoleReporter struct {
	mu      stdsync.Mutex
	out     io.Writer
	quiet   bool
	verbose bool
	bar     *progress.Bar
}

func newConsoleReporter(out io.Writer, output config.OutputConfig, bar *progress.Bar) *consoleReporter {
	return &consoleReporter{
		out:     out,
		quiet:   output.Quiet,
		verbose: output.Verbose,
		bar:     bar,
	}
}

func (r *consoleReporter) Uploading(t sync.Task) {
	if r.quiet {
		return
	}
	r.print(ui.Dim("  …") + " " + t.Key)
}

func (r *consoleReporter) Uploaded(t sync.Task) {
	_ = r.bar.Add(1)
	if r.quiet {
		return
	}
	r.print(ui.StatusSuccess(t.Key))
}

func (r *consoleReporter) Skipped(t sync.Task) {
	_ = r.bar.Add(1)
	if r.quiet {
		return
	}
	r.print(ui.StatusSkipped(t.Key + ui.Dim(" (up to date)")))
}

func (r *consoleReporter) Ignored(path string) {
	// Ignored-file notices only in verbose mode.
	if r.quiet || !r.verbose {
		return
	}
	r.print(ui.StatusSkipped(path + ui.Dim(" (ignored)")))
}

func (r *consoleReporter) print(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.bar.Clear()
	fmt.Fprintln(r.out, line)
}
