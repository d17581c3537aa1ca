package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/probekit/pkg/aarray"
	"github.com/calvinalkan/probekit/pkg/primes"
)

// HashCmd returns the hash command.
func HashCmd(_ *Env) *Command {
	flags := flag.NewFlagSet("hash", flag.ContinueOnError)
	capacity := flags.IntP("capacity", "n", 101, "Requested table capacity (rounded up to a prime)")

	return &Command{
		Flags: flags,
		Usage: "hash [--capacity N] <key>...",
		Short: "Show the home slot of keys under every hash strategy",
		Long: `Show the home slot of each key under every hash strategy for a table of
the given capacity. Keys starting with 0x are read as hex.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execHash(o, *capacity, args)
		},
	}
}

func execHash(o *IO, capacity int, args []string) error {
	if len(args) == 0 {
		return ErrKeyRequired
	}

	size, err := primes.Table{}.LargerPrime(capacity)
	if err != nil {
		return fmt.Errorf("%w: %w", aarray.ErrConstruction, err)
	}

	o.Printf("capacity %d (requested %d)\n", size, capacity)

	for _, arg := range args {
		key, err := parseKey(arg)
		if err != nil {
			return err
		}

		o.Println()
		o.Printf("%s\n", aarray.PrintableKey(key, 80))

		for _, h := range aarray.HashStrategies() {
			o.Printf("  %-9s %d\n", h, h.Index(key, size))
		}
	}

	return nil
}
