package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/etnz/finance"
	"github.com/etnz/finance/renderer"
	"github.com/fsnotify/fsnotify"
	"github.com/google/subcommands"
)

// watchViews are the reports watch can display.
var watchViews = map[string]func(finance.Book, string) string{
	"summary": func(b finance.Book, cur string) string { return renderer.SummaryMarkdown(b.Summary(), cur) },
	"holdings": func(b finance.Book, cur string) string {
		return renderer.HoldingsMarkdown(b.Portfolio.Holdings(), b.Portfolio.RealizedProfitLoss(), cur)
	},
	"trend": func(b finance.Book, cur string) string { return renderer.TrendMarkdown(b.Ledger.MonthlyTrend(), cur) },
	"log":   renderer.LogMarkdown,
}

type watchCmd struct {
	view string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "display a report again whenever the book changes" }
func (*watchCmd) Usage() string {
	return `fin watch [-r summary|holdings|trend|log]

  Displays a report, then displays it again every time the snapshot file is
  modified, by this or any other program. Stops on interrupt.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.view, "r", "summary", "Report to display: summary, holdings, trend or log.")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	view, ok := watchViews[c.view]
	if !ok {
		return usage("unknown report %q", c.view)
	}
	path, err := filepath.Abs(snapshotPath())
	if err != nil {
		return failure(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return failure(fmt.Errorf("failed to create file watcher: %w", err))
	}
	defer watcher.Close()

	// The snapshot is replaced by a rename on save, so the directory is
	// watched rather than the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return failure(fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err))
	}

	render := func() {
		book, err := loadBook()
		if err != nil {
			printError(stderr, err.Error())
			return
		}
		printMarkdown(view(book, currencyCode()))
	}
	render()
	watchFile(ctx, watcher, path, render)
	return subcommands.ExitSuccess
}

// watchFile calls onChange after every burst of events on path, until ctx
// is done. Calls are made from this goroutine, one at a time.
func watchFile(ctx context.Context, watcher *fsnotify.Watcher, path string, onChange func()) {
	// editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Printf("snapshot changed file=%q op=%s", event.Name, event.Op)
			debounce.Reset(debounceDelay)

		case <-debounce.C:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("file watcher error: %v", err)
		}
	}
}
