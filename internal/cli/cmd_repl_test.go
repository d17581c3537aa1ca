package cli_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/probekit/internal/cli"
)

func Test_Repl_Executes_Commands_From_Stdin(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	input := strings.Join([]string{
		"insert alpha one",
		"put beta two words",
		"get alpha",
		"get beta",
		"del alpha",
		"get alpha",
		"len",
		"keys",
		"bogus",
		"quit",
		"insert never reached",
	}, "\n")

	stdout, stderr, code := c.RunWithInput(input, "repl", "--capacity", "7")

	require.Equal(t, 0, code, "stderr: %s", stderr)
	cli.AssertContains(t, stdout, "probekit repl (capacity=7, probe=linear, hash=sum, secondary=sum)")
	cli.AssertContains(t, stdout, "inserted at slot")
	cli.AssertContains(t, stdout, `"one" (cost 0)`)
	cli.AssertContains(t, stdout, `"two words"`)
	cli.AssertContains(t, stdout, `deleted "one"`)
	cli.AssertContains(t, stdout, "error: aarray: not found")
	cli.AssertContains(t, stdout, "1 of 7 slots in use")
	cli.AssertContains(t, stdout, `char key:[beta] = "two words"`)
	cli.AssertContains(t, stdout, "unknown command: bogus")
	cli.AssertNotContains(t, stdout, "never")
}

func Test_Repl_Dump_And_Summary_Show_Table_State(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("repl", "--capacity", "3")

	// Empty stdin ends the session immediately.
	cli.AssertContains(t, stdout, "capacity=3")

	stdout, _, code := c.RunWithInput("insert a\ndump\nsummary\n", "repl", "--capacity", "3")
	require.Equal(t, 0, code)
	cli.AssertContains(t, stdout, "Dumping aarray of 3 slots:")
	cli.AssertContains(t, stdout, "  1 : in use : 'char key:[a]'")
	cli.AssertContains(t, stdout, "Associative array contains 1 entries in a table of 3 size")
}

