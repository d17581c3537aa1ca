package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/probekit/pkg/aarray"
)

// tableFlags are the strategy flags shared by dump and repl.
type tableFlags struct {
	probe     string
	primary   string
	secondary string
	capacity  int
}

func (f *tableFlags) register(flags *flag.FlagSet, defaultCapacity int) {
	flags.StringVarP(&f.probe, "probe", "p", "linear", "Probe strategy (linear, quadratic, double)")
	flags.StringVarP(&f.primary, "hash", "H", "sum", "Primary hash (sum, length, weighted, fnv, xxh, sha3)")
	flags.StringVarP(&f.secondary, "secondary", "s", "sum", "Secondary hash, the step for double hashing")
	flags.IntVarP(&f.capacity, "capacity", "n", defaultCapacity, "Requested table capacity (rounded up to a prime)")
}

// newTable builds a table from the flags. Unknown strategy names fall back
// to the defaults and surface as warnings through the logger.
func newTable[V any](e *Env, f *tableFlags) (*aarray.Table[V], error) {
	return aarray.NewNamed[V](f.capacity, f.probe, f.primary, f.secondary, e.Logger)
}

// DumpCmd returns the dump command.
func DumpCmd(e *Env) *Command {
	var (
		tf     tableFlags
		remove []string
		tag    string
	)

	flags := flag.NewFlagSet("dump", flag.ContinueOnError)
	tf.register(flags, 11)
	flags.StringSliceVarP(&remove, "delete", "d", nil, "Delete these keys after inserting, leaving tombstones")
	flags.StringVar(&tag, "tag", "", "Prefix for every dump line")

	return &Command{
		Flags: flags,
		Usage: "dump [flags] <key>...",
		Short: "Insert keys and print every slot plus the cost summary",
		Long: `Build a table with the given strategies, insert the keys in order, delete
any --delete keys, then print one line per slot and the cost summary.
Keys starting with 0x are read as hex.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execDump(o, e, &tf, args, remove, tag)
		},
	}
}

func execDump(o *IO, e *Env, tf *tableFlags, args, remove []string, tag string) error {
	if len(args) == 0 {
		return ErrKeyRequired
	}

	table, err := newTable[int](e, tf)
	if err != nil {
		return err
	}
	defer table.Destroy()

	for i, arg := range args {
		key, err := parseKey(arg)
		if err != nil {
			return err
		}

		_, err = table.Insert(key, i)
		if err != nil {
			o.Warn(fmt.Sprintf("insert %s", aarray.PrintableKey(key, 80)), err.Error())
		}
	}

	for _, arg := range remove {
		key, err := parseKey(arg)
		if err != nil {
			return err
		}

		_, err = table.Delete(key)
		if errors.Is(err, aarray.ErrNotFound) {
			o.Warn(fmt.Sprintf("delete %s", aarray.PrintableKey(key, 80)), "key not in table")
		} else if err != nil {
			return err
		}
	}

	err = table.WriteContents(o.Out(), tag)
	if err != nil {
		return err
	}

	o.Println()

	return table.WriteSummary(o.Out())
}
