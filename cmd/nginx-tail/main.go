package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/quinox/nginx-tail/internal/app"
)

// filterList collects repeated -filter flags. A trailing run of x acts as
// a wildcard, so "4xx" and "4" both match every 4.. status code.
type filterList []string

func (f *filterList) String() string {
	return strings.Join(*f, ",")
}

func (f *filterList) Set(value string) error {
	value = strings.TrimRight(strings.TrimSpace(value), "x")
	*f = append(*f, value)
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	var filters filterList
	configPath := flag.String("config", "", "override config file path (optional)")
	maxWidth := flag.Int("max-width", -1, "cut off log lines at this length, 0 means unlimited (defaults to the terminal width)")
	targetHeight := flag.Int("target-height", 0, "number of terminal rows to aim for (defaults to the terminal height)")
	maxRuntime := flag.Int("max-runtime", 0, "exit after this many seconds (0 means run forever)")
	combine := flag.Bool("combine", false, "combine the statistics of all files into a single row")
	merge := flag.Bool("merge", false, "merge status codes into classes, counting 403 and 404 both as 4xx")
	flag.Var(&filters, "filter", "only show log lines whose status code starts with this prefix, like 404 or 4xx (repeatable; statistics are not affected)")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"/var/log/nginx/"}
	}

	slices.Sort(filters)
	filters = slices.Compact(filters)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if *maxRuntime > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, time.Duration(*maxRuntime)*time.Second)
		defer stop()
	}

	opts := app.Options{
		ConfigPath:   *configPath,
		Paths:        paths,
		MaxWidth:     *maxWidth,
		TargetHeight: *targetHeight,
		Combine:      *combine,
		Merge:        *merge,
		Filters:      filters,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "nginx-tail: %v\n", err)
		return 1
	}
	return 0
}
