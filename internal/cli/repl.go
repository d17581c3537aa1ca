package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/probekit/pkg/aarray"
)

const replPrompt = "probekit> "

// lineReader is the input side of the REPL.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// linerReader gives the terminal readline-style editing, completion and a
// persistent history file.
type linerReader struct {
	state       *liner.State
	historyPath string
}

func newLinerReader(historyPath string) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(completeCommand)

	if f, err := os.Open(historyPath); err == nil {
		_, _ = state.ReadHistory(f)
		_ = f.Close()
	}

	return &linerReader{state: state, historyPath: historyPath}
}

func (l *linerReader) Prompt(prompt string) (string, error) {
	line, err := l.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}

	return line, err
}

func (l *linerReader) AppendHistory(line string) {
	l.state.AppendHistory(line)
}

func (l *linerReader) Close() error {
	if l.historyPath != "" {
		if f, err := os.Create(l.historyPath); err == nil {
			_, _ = l.state.WriteHistory(f)
			_ = f.Close()
		}
	}

	return l.state.Close()
}

// scanReader reads commands from a non-terminal stdin, one per line.
type scanReader struct {
	scanner *bufio.Scanner
}

func (s *scanReader) Prompt(string) (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return s.scanner.Text(), nil
}

func (s *scanReader) AppendHistory(string) {}
func (s *scanReader) Close() error { return nil }

var replCommands = []string{
	"insert", "put", "get", "del", "delete",
	"dump", "summary", "stats", "len", "keys",
	"hash", "help", "exit", "quit", "q",
}

// completeCommand provides tab completion for commands.
func completeCommand(line string) []string {
	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range replCommands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

// ReplCmd returns the repl command.
func ReplCmd(e *Env) *Command {
	var tf tableFlags

	flags := flag.NewFlagSet("repl", flag.ContinueOnError)
	tf.register(flags, 101)

	return &Command{
		Flags: flags,
		Usage: "repl [flags]",
		Short: "Interactive table session",
		Long: `Start an interactive session on a fresh table. Type 'help' for commands.
On a terminal, input has line editing, tab completion and history
(~/.probekit_history).`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			table, err := newTable[string](e, &tf)
			if err != nil {
				return err
			}
			defer table.Destroy()

			var in lineReader
			if e.Interactive {
				in = newLinerReader(replHistoryPath(e))
			} else {
				in = &scanReader{scanner: bufio.NewScanner(o.In())}
			}

			defer func() { _ = in.Close() }()

			r := &repl{io: o, in: in, table: table}

			return r.run(ctx)
		},
	}
}

func replHistoryPath(e *Env) string {
	home := e.Vars["HOME"]
	if home == "" {
		return ""
	}

	return filepath.Join(home, ".probekit_history")
}

type repl struct {
	io    *IO
	in    lineReader
	table *aarray.Table[string]
}

func (r *repl) run(ctx context.Context) error {
	st := r.table.Stats()
	r.io.Printf("probekit repl (capacity=%d, probe=%s, hash=%s, secondary=%s)\n",
		st.Capacity, st.Probe, st.Primary, st.Secondary)
	r.io.Println("Type 'help' for available commands.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := r.in.Prompt(replPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		r.in.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			return nil
		case "help", "?":
			r.printHelp()
		case "insert", "put":
			r.cmdInsert(args)
		case "get":
			r.cmdGet(args)
		case "del", "delete":
			r.cmdDelete(args)
		case "dump":
			r.report(r.table.WriteContents(r.io.Out(), ""))
		case "summary", "stats":
			r.report(r.table.WriteSummary(r.io.Out()))
		case "len":
			r.io.Printf("%d of %d slots in use\n", r.table.Len(), r.table.Cap())
		case "keys":
			r.cmdKeys()
		case "hash":
			r.cmdHash(args)
		default:
			r.io.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (r *repl) printHelp() {
	r.io.Println("Commands:")
	r.io.Println("  insert <key> [value]   Insert an entry (alias: put)")
	r.io.Println("  get <key>              Look up an entry")
	r.io.Println("  del <key>              Delete an entry, leaving a tombstone")
	r.io.Println("  keys                   List entries in slot order")
	r.io.Println("  hash <key>             Show the key's home slot")
	r.io.Println("  dump                   Show every slot")
	r.io.Println("  summary                Show counts, strategies and costs")
	r.io.Println("  len                    Count live entries")
	r.io.Println("  help                   Show this help")
	r.io.Println("  exit / quit / q        Exit")
	r.io.Println()
	r.io.Println("Keys: plain text, or hex with a 0x prefix (e.g. 0x00ff).")
}

func (r *repl) report(err error) {
	if err != nil {
		r.io.Println("error:", err)
	}
}

func (r *repl) key(args []string, usage string) ([]byte, bool) {
	if len(args) == 0 {
		r.io.Println("usage:", usage)

		return nil, false
	}

	key, err := parseKey(args[0])
	if err != nil {
		r.io.Println("error:", err)

		return nil, false
	}

	return key, true
}

func (r *repl) cmdInsert(args []string) {
	key, ok := r.key(args, "insert <key> [value]")
	if !ok {
		return
	}

	value := strings.Join(args[1:], " ")

	before := r.table.Stats().InsertCost

	idx, err := r.table.Insert(key, value)
	if err != nil {
		r.io.Println("error:", err)

		return
	}

	r.io.Printf("inserted at slot %d (cost %d)\n", idx, r.table.Stats().InsertCost-before)
}

func (r *repl) cmdGet(args []string) {
	key, ok := r.key(args, "get <key>")
	if !ok {
		return
	}

	before := r.table.Stats().SearchCost

	value, err := r.table.Lookup(key)
	cost := r.table.Stats().SearchCost - before

	if err != nil {
		r.io.Printf("error: %v (cost %d)\n", err, cost)

		return
	}

	r.io.Printf("%q (cost %d)\n", value, cost)
}

func (r *repl) cmdDelete(args []string) {
	key, ok := r.key(args, "del <key>")
	if !ok {
		return
	}

	value, err := r.table.Delete(key)
	if err != nil {
		r.io.Println("error:", err)

		return
	}

	r.io.Printf("deleted %q\n", value)
}

func (r *repl) cmdKeys() {
	n := 0

	for key, value := range r.table.All() {
		r.io.Printf("%s = %q\n", aarray.PrintableKey(key, 80), value)
		n++
	}

	r.io.Printf("(%d entries)\n", n)
}

func (r *repl) cmdHash(args []string) {
	key, ok := r.key(args, "hash <key>")
	if !ok {
		return
	}

	st := r.table.Stats()
	primary, _ := aarray.ParseHashStrategy(st.Primary)
	secondary, _ := aarray.ParseHashStrategy(st.Secondary)

	r.io.Printf("home %d, step %d\n", primary.Index(key, st.Capacity), secondary.Index(key, st.Capacity))
}
