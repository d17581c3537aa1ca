package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/probekit/internal/results"
)

// ErrNoHistory reports a missing history database.
var ErrNoHistory = errors.New("no saved runs")

// HistoryCmd returns the history command.
func HistoryCmd(e *Env) *Command {
	flags := flag.NewFlagSet("history", flag.ContinueOnError)
	db := flags.String("db", "", "History database `path` (default: $XDG_DATA_HOME/probekit/history.db)")
	limit := flags.IntP("limit", "n", 20, "Show at most `N` runs (0 = all)")

	return &Command{
		Flags: flags,
		Usage: "history [--limit N] [run-id]",
		Short: "List saved runs or show one",
		Long: `Without arguments, list saved runs, newest first.
With a run ID (or a unique prefix of its short ID), show that run's results.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			path := *db
			if path == "" {
				path = e.HistoryDB()
			}

			return execHistory(ctx, o, e.resolvePath(path), *limit, args)
		},
	}
}

func execHistory(ctx context.Context, o *IO, dbPath string, limit int, args []string) error {
	_, err := os.Stat(dbPath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s does not exist (use 'probekit run --save')", ErrNoHistory, dbPath)
	}

	store, err := results.Open(ctx, dbPath)
	if err != nil {
		return err
	}

	defer func() { _ = store.Close() }()

	if len(args) > 0 {
		return showRun(ctx, o, store, args[0])
	}

	runs, err := store.List(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		o.Warn("history is empty", "use 'probekit run --save' to record a run")

		return nil
	}

	for _, r := range runs {
		o.Printf("%s  %s  %-20s %d combos\n", r.ShortID, r.CreatedAt.Local().Format(time.DateTime), r.Workload, r.Combos)
	}

	return nil
}

func showRun(ctx context.Context, o *IO, store *results.Store, id string) error {
	rows, err := store.Results(ctx, id)
	if err != nil {
		return err
	}

	o.Printf("%-24s %6s %9s %9s %10s %10s %10s\n",
		"combo", "load", "inserted", "exhausted", "insert", "search", "delete")

	for _, r := range rows {
		o.Printf("%-24s %6.3f %9d %9d %10d %10d %10d\n",
			r.Combo, r.LoadFactor, r.Inserted, r.Exhausted+r.Full, r.InsertCost, r.SearchCost, r.DeleteCost)
	}

	return nil
}

func ensureDir(path string) error {
	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}

	return nil
}
