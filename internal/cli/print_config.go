package cli

import (
	"context"

	flag "github.com/spf13/pflag"
	"github.com/sugawarayuuta/sonnet"

	"github.com/calvinalkan/probekit/internal/workload"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(e *Env) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved workload configuration",
		Long:  "Display the effective workload configuration and which file it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execPrintConfig(io, e)
		},
	}
}

func execPrintConfig(io *IO, e *Env) error {
	cfg, err := workload.Load(workload.LoadInput{
		WorkDir:    e.WorkDir,
		ConfigPath: e.ConfigPath,
	})
	if err != nil {
		return err
	}

	data, err := sonnet.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	io.Println(string(data))
	io.Println("")
	io.Println("# sources")

	if cfg.Source == "" {
		io.Println("(defaults only)")
	} else {
		io.Println("config=" + cfg.Source)
	}

	io.Println("effective_cwd=" + e.WorkDir)

	return nil
}
