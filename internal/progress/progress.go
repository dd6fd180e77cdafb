// Package progress provides a spinner for the upload run. The total number
// of files is not known until the traversal finishes, so the bar runs in
// indeterminate mode and counts completed operations.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/klauern/s3up/internal/logging"
	"github.com/klauern/s3up/internal/ui"
)

// Bar wraps progressbar with s3up's display rules.
type Bar struct {
	bar     *progressbar.ProgressBar
	enabled bool
	desc    string
}

// Options configures the progress display.
type Options struct {
	// Description is the prefix text shown before the spinner.
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
	// Quiet disables the display regardless of terminal state.
	Quiet bool
}

// New creates a progress spinner. It is shown only when not quiet, colors
// are enabled, output is a terminal, and logging is not at debug level.
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	enabled := !opts.Quiet && shouldShowProgress(opts.Writer)

	b := &Bar{
		enabled: enabled,
		desc:    opts.Description,
	}

	if !enabled {
		logging.Debug(fmt.Sprintf("%s started", opts.Description))
		return b
	}

	b.bar = progressbar.NewOptions64(
		-1, // indeterminate: file count is unknown up front
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(opts.Writer, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)

	return b
}

// Add increments the counter by n completed operations.
func (b *Bar) Add(n int) error {
	if !b.enabled {
		return nil
	}
	return b.bar.Add(n)
}

// Describe updates the spinner description.
func (b *Bar) Describe(desc string) {
	b.desc = desc
	if !b.enabled {
		return
	}
	b.bar.Describe(desc)
}

// Clear removes the spinner from the terminal so a log line can be printed
// without tearing.
func (b *Bar) Clear() error {
	if !b.enabled {
		return nil
	}
	return b.bar.Clear()
}

// Finish completes the spinner.
func (b *Bar) Finish() error {
	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s completed", b.desc))
		return nil
	}
	return b.bar.Finish()
}

// shouldShowProgress determines if the spinner should be displayed.
func shouldShowProgress(w io.Writer) bool {
	if !ui.IsColorEnabled() {
		return false
	}

	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		// Terminal (CharDevice) vs pipe/file.
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			return false
		}
	}

	// Keep debug logs readable.
	if logging.Default().Enabled(context.Background(), logging.LevelDebug) {
		return false
	}

	return true
}
