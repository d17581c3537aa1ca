package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
)

// ErrUnknownCommand reports a command name that is not registered.
var ErrUnknownCommand = errors.New("unknown command")

// Env is the state shared by every command: resolved global flags, the
// process environment and the logger.
type Env struct {
	WorkDir    string
	ConfigPath string
	Vars       map[string]string
	Logger     *slog.Logger

	// Interactive is true when stdin is the process terminal; the REPL
	// uses line editing only then.
	Interactive bool
}

// HistoryDB returns the default results database path:
// $XDG_DATA_HOME/probekit/history.db, else ~/.local/share/probekit/history.db,
// else history.db in the working directory.
func (e *Env) HistoryDB() string {
	if dataHome := e.Vars["XDG_DATA_HOME"]; dataHome != "" {
		return filepath.Join(dataHome, "probekit", "history.db")
	}

	if home := e.Vars["HOME"]; home != "" {
		return filepath.Join(home, ".local", "share", "probekit", "history.db")
	}

	return filepath.Join(e.WorkDir, "history.db")
}

// resolvePath makes path absolute relative to the working directory.
func (e *Env) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(e.WorkDir, path)
}

func commands(e *Env) []*Command {
	return []*Command{
		WorkloadCmd(e),
		HistoryCmd(e),
		HashCmd(e),
		DumpCmd(e),
		ReplCmd(e),
		PrintConfigCmd(e),
	}
}

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. The first signal received cancels the command's context.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("probekit", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified workload config `file`")
	verbose := globals.BoolP("verbose", "v", false, "Log debug output to stderr")

	if len(args) == 0 {
		args = []string{"probekit"}
	}

	err := globals.Parse(args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(out, globals, nil)

			return 0
		}

		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, globals, nil)

		return 1
	}

	if *workDir == "" {
		*workDir, err = os.Getwd()
		if err != nil {
			fprintln(errOut, "error: cannot get working directory:", err)

			return 1
		}
	}

	o := NewIO(stdin, out, errOut)

	e := &Env{
		WorkDir:     *workDir,
		ConfigPath:  *configPath,
		Vars:        env,
		Logger:      newLogger(o, errOut, *verbose),
		Interactive: stdin == os.Stdin,
	}

	cmds := commands(e)

	rest := globals.Args()
	if len(rest) == 0 {
		printUsage(out, globals, cmds)

		return 0
	}

	var cmd *Command

	for _, c := range cmds {
		if c.Name() == rest[0] {
			cmd = c

			break
		}
	}

	if cmd == nil {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", ErrUnknownCommand, rest[0]))
		fprintln(errOut)
		printUsage(errOut, globals, cmds)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, o, rest[1:])
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, globals *flag.FlagSet, cmds []*Command) {
	fprintln(w, "probekit - open addressing strategy workbench")
	fprintln(w)
	fprintln(w, "Usage: probekit [global flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Global flags:")

	var buf strings.Builder
	globals.SetOutput(&buf)
	globals.PrintDefaults()
	globals.SetOutput(&strings.Builder{})

	_, _ = io.WriteString(w, buf.String())

	if len(cmds) == 0 {
		cmds = commands(&Env{})
	}

	fprintln(w)
	fprintln(w, "Commands:")

	for _, c := range cmds {
		fprintln(w, c.HelpLine())
	}
}
