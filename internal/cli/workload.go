package cli

import (
	"context"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/probekit/internal/report"
	"github.com/calvinalkan/probekit/internal/results"
	"github.com/calvinalkan/probekit/internal/workload"
)

type runFlags struct {
	name        string
	probes      []string
	hashes      []string
	secondaries []string
	capacity    int
	fill        float64
	del         float64
	miss        float64
	keys        string
	keyLen      int
	seed        uint64
	save        bool
	db          string
	out         string
}

// WorkloadCmd returns the run command.
func WorkloadCmd(e *Env) *Command {
	var f runFlags

	flags := flag.NewFlagSet("run", flag.ContinueOnError)
	flags.StringVar(&f.name, "name", "", "Workload name")
	flags.StringSliceVarP(&f.probes, "probe", "p", nil, "Probe strategies (linear, quadratic, double)")
	flags.StringSliceVarP(&f.hashes, "hash", "H", nil, "Primary hash strategies (sum, length, weighted, fnv, xxh, sha3)")
	flags.StringSliceVarP(&f.secondaries, "secondary", "s", nil, "Secondary hash strategies for double hashing")
	flags.IntVarP(&f.capacity, "capacity", "n", 0, "Requested table capacity (rounded up to a prime)")
	flags.Float64Var(&f.fill, "fill", 0, "Fraction of slots to fill, in (0, 1]")
	flags.Float64Var(&f.del, "delete", 0, "Fraction of inserted keys to delete, in [0, 1]")
	flags.Float64Var(&f.miss, "miss", 0, "Absent-key lookups as a fraction of the fill count")
	flags.StringVar(&f.keys, "keys", "", "Key generator (seq, random, uuid, words)")
	flags.IntVar(&f.keyLen, "key-len", 0, "Key length for random and words keys")
	flags.Uint64Var(&f.seed, "seed", 0, "Seed for key generation")
	flags.BoolVar(&f.save, "save", false, "Save results to the history database")
	flags.StringVar(&f.db, "db", "", "History database `path` (default: $XDG_DATA_HOME/probekit/history.db)")
	flags.StringVarP(&f.out, "out", "o", "", "Also write a JSON report to `file`")

	return &Command{
		Flags: flags,
		Usage: "run [flags]",
		Short: "Run the workload against every strategy combination",
		Long: `Run the configured workload against every probe × hash combination and
print a cost table. Flags override the workload config file.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execWorkload(ctx, o, e, flags, &f)
		},
	}
}

// overrides returns the workload fields the user set on the command line.
func (f *runFlags) overrides(flags *flag.FlagSet) workload.Overrides {
	var ov workload.Overrides

	if flags.Changed("name") {
		ov.Name = &f.name
	}

	if flags.Changed("probe") {
		ov.Probes = f.probes
	}

	if flags.Changed("hash") {
		ov.Hashes = f.hashes
	}

	if flags.Changed("secondary") {
		ov.Secondaries = f.secondaries
	}

	if flags.Changed("capacity") {
		ov.Capacity = &f.capacity
	}

	if flags.Changed("fill") {
		ov.FillRatio = &f.fill
	}

	if flags.Changed("delete") {
		ov.DeleteRatio = &f.del
	}

	if flags.Changed("miss") {
		ov.MissRatio = &f.miss
	}

	if flags.Changed("keys") {
		ov.Keys = &f.keys
	}

	if flags.Changed("key-len") {
		ov.KeyLen = &f.keyLen
	}

	if flags.Changed("seed") {
		ov.Seed = &f.seed
	}

	return ov
}

func execWorkload(ctx context.Context, o *IO, e *Env, flags *flag.FlagSet, f *runFlags) error {
	cfg, err := workload.Load(workload.LoadInput{
		WorkDir:    e.WorkDir,
		ConfigPath: e.ConfigPath,
		Overrides:  f.overrides(flags),
	})
	if err != nil {
		return err
	}

	combos := workload.Matrix(cfg)
	res := make([]workload.Result, 0, len(combos))

	for _, combo := range combos {
		r, err := workload.Run(ctx, cfg, combo, e.Logger)
		if err != nil {
			return err
		}

		if r.Exhausted > 0 {
			o.Warn(fmt.Sprintf("%s: %d of %d inserts exhausted the probe sequence", combo, r.Exhausted, r.Requested),
				"this combination cannot reach the requested fill")
		}

		res = append(res, r)
	}

	err = report.WriteText(o.Out(), cfg, res)
	if err != nil {
		return err
	}

	var runID string

	if f.save {
		dbPath := f.db
		if dbPath == "" {
			dbPath = e.HistoryDB()
		}

		run, err := saveRun(ctx, e.resolvePath(dbPath), cfg.Name, res)
		if err != nil {
			return err
		}

		runID = run.ID

		o.Println()
		o.Println("saved run", run.ShortID)
	}

	if f.out != "" {
		path := e.resolvePath(f.out)

		err = report.WriteJSON(path, report.Report{
			RunID:     runID,
			Generated: time.Now().UTC(),
			Workload:  cfg,
			Results:   res,
		})
		if err != nil {
			return err
		}

		o.Println("wrote", path)
	}

	return nil
}

func saveRun(ctx context.Context, dbPath, name string, res []workload.Result) (results.Run, error) {
	err := ensureDir(dbPath)
	if err != nil {
		return results.Run{}, err
	}

	store, err := results.Open(ctx, dbPath)
	if err != nil {
		return results.Run{}, err
	}

	defer func() { _ = store.Close() }()

	return store.Save(ctx, name, res)
}
