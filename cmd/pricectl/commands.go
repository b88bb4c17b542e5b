package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
)

var commands = []subcommands.Command{
	&syncCmd{},
	&backfillCmd{},
	&purgeCmd{},
	&watermarksCmd{},
}

type syncCmd struct{}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "run one ingest pass over every registered stock" }
func (*syncCmd) Usage() string {
	return `sync

  Runs a single ingest pass now, ignoring the market-hours gate.
`
}
func (*syncCmd) SetFlags(*flag.FlagSet) {}

func (*syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	res, err := e.ingestor.Pass(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: pass aborted: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("checked %d, updated %d, skipped %d, failed %d symbols; wrote %d points (%d failed) in %s\n",
		res.SymbolsChecked, res.SymbolsUpdated, res.SymbolsSkipped, res.SymbolsFailed,
		res.PointsWritten, res.PointsFailed, res.Duration.Round(time.Millisecond))
	for _, se := range res.Errors {
		fmt.Fprintf(os.Stderr, "  %s: %v\n", se.Symbol, se.Err)
	}
	if res.SymbolsFailed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type backfillCmd struct{}

func (*backfillCmd) Name() string     { return "backfill" }
func (*backfillCmd) Synopsis() string { return "fetch missing history for the given symbols" }
func (*backfillCmd) Usage() string {
	return `backfill <symbol>...

  Fetches and stores every bar after each symbol's watermark, starting from
  the epoch for symbols with no stored history.
`
}
func (*backfillCmd) SetFlags(*flag.FlagSet) {}

func (*backfillCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required.")
		return subcommands.ExitUsageError
	}

	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	status := subcommands.ExitSuccess
	for _, arg := range f.Args() {
		symbol := strings.ToUpper(arg)
		n, err := e.ingestor.SyncSymbol(ctx, symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", symbol, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%s: %d points written\n", symbol, n)
	}
	return status
}

type purgeCmd struct {
	yes bool
}

func (*purgeCmd) Name() string     { return "purge" }
func (*purgeCmd) Synopsis() string { return "delete all stored history of a symbol" }
func (*purgeCmd) Usage() string {
	return `purge -yes <symbol>

  Deletes every stored price point of the symbol. The next sync pass
  re-fetches its history from the epoch.
`
}

func (c *purgeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "confirm the deletion")
}

func (c *purgeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one symbol is required.")
		return subcommands.ExitUsageError
	}
	if !c.yes {
		fmt.Fprintln(os.Stderr, "Error: refusing to delete without -yes.")
		return subcommands.ExitUsageError
	}

	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	symbol := strings.ToUpper(f.Arg(0))
	n, err := e.prices.DeleteHistory(ctx, symbol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: %d points deleted\n", symbol, n)
	return subcommands.ExitSuccess
}

type watermarksCmd struct{}

func (*watermarksCmd) Name() string     { return "watermarks" }
func (*watermarksCmd) Synopsis() string { return "print the last stored date of every symbol" }
func (*watermarksCmd) Usage() string {
	return `watermarks

  Prints each registered symbol with the date of its most recent stored bar.
  Symbols without history show the configured epoch.
`
}
func (*watermarksCmd) SetFlags(*flag.FlagSet) {}

func (*watermarksCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	marks, err := e.tracker.Watermarks(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	symbols := make([]string, 0, len(marks))
	for s := range marks {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tLAST DATE")
	epoch := e.tracker.Epoch()
	for _, s := range symbols {
		d := marks[s]
		label := d.Format(time.DateOnly)
		if !d.After(epoch) {
			label += " (epoch)"
		}
		fmt.Fprintf(w, "%s\t%s\n", s, label)
	}
	if err := w.Flush(); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
